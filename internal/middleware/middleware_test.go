package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glscharan9/ai-health-companion/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	JWTSecret = []byte("test-secret")
}

func newRouter() *gin.Engine {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/rid", func(c *gin.Context) {
		c.String(http.StatusOK, logger.RequestID(c.Request.Context()))
	})
	r.GET("/me", JWTAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"uid": UserID(c), "name": c.GetString(CtxUserName)})
	})
	return r
}

func get(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	r := newRouter()

	token, err := IssueToken(5, "ravi")
	require.NoError(t, err)
	w := get(r, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"uid":5,"name":"ravi"}`, w.Body.String())
	assert.Empty(t, w.Header().Get("X-New-Token"))

	assert.Equal(t, http.StatusUnauthorized, get(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "garbage").Code)
}

func TestJWTAuthRejectsForeignAndExpiredTokens(t *testing.T) {
	r := newRouter()

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UID:              5,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte("other-secret"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(r, forged).Code)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UID:              5,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))},
	}).SignedString(JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(r, expired).Code)
}

func TestJWTAuthRenewsNearExpiry(t *testing.T) {
	r := newRouter()
	soon, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UID:              5,
		Name:             "ravi",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(JWTSecret)
	require.NoError(t, err)

	w := get(r, soon)
	assert.Equal(t, http.StatusOK, w.Code)
	renewed := w.Header().Get("X-New-Token")
	require.NotEmpty(t, renewed)

	claims, err := parseToken(renewed)
	require.NoError(t, err)
	assert.Equal(t, uint(5), claims.UID)
	assert.True(t, time.Until(claims.ExpiresAt.Time) > renewWithin)
}

func TestRequestID(t *testing.T) {
	r := newRouter()

	w := get(r, "")
	id := w.Header().Get(HeaderRequestID)
	_, err := uuid.Parse(id)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(HeaderRequestID))

	req = httptest.NewRequest(http.MethodGet, "/rid", nil)
	req.Header.Set(HeaderRequestID, "abc-456")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-456", w.Body.String())
}
