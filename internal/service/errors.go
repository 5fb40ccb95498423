package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/glscharan9/ai-health-companion/internal/llm"
	"github.com/glscharan9/ai-health-companion/internal/store"

	"github.com/go-playground/validator/v10"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidWeight      = &InputError{Msg: "Weight must be greater than 0."}
)

// InputError is a caller mistake whose message is safe to show as is.
type InputError struct{ Msg string }

func (e *InputError) Error() string        { return e.Msg }
func (e *InputError) Is(target error) bool { return target == ErrInvalidInput }

func invalid(format string, args ...any) error {
	return &InputError{Msg: fmt.Sprintf(format, args...)}
}

const msgServerError = "A server error occurred. Please try again later."

// UserMessage maps an error to the text a caller may see. Anything not
// explicitly caller-correctable collapses to one generic sentence, so
// provider and driver error strings never leak.
func UserMessage(err error) string {
	var ie *InputError
	switch {
	case errors.As(err, &ie):
		return ie.Msg
	case errors.Is(err, store.ErrDuplicateUsername):
		return "Username already exists."
	case errors.Is(err, store.ErrUnknownUser):
		return "Unknown user. Please log in again."
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid username or password."
	case errors.Is(err, store.ErrPlanNotFound):
		return "Plan not found."
	case errors.Is(err, llm.ErrNotConfigured):
		return "The AI model is not configured. Please check the server configuration."
	default:
		return msgServerError
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// validateStruct runs the struct's validate tags and reports the first
// failure as an InputError.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("validate: %w", err)
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return invalid("%s is required.", fe.Field())
	case "gt":
		return invalid("%s must be greater than %s.", fe.Field(), fe.Param())
	case "max":
		return invalid("%s must be at most %s characters.", fe.Field(), fe.Param())
	default:
		return invalid("%s is invalid.", fe.Field())
	}
}
