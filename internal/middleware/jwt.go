package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	CtxUserID   = "user_id"
	CtxUserName = "user_name"

	renewWithin = 24 * time.Hour
)

// JWTSecret and TokenTTL are set once at startup from configuration.
var (
	JWTSecret []byte
	TokenTTL  = 7 * 24 * time.Hour
)

type Claims struct {
	UID  uint   `json:"uid"`
	Name string `json:"name"`
	jwt.RegisteredClaims
}

func IssueToken(uid uint, name string) (string, error) {
	if len(JWTSecret) == 0 {
		return "", errors.New("jwt secret not set")
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UID:  uid,
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}).SignedString(JWTSecret)
}

func parseToken(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return JWTSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		claims, err := parseToken(strings.TrimPrefix(auth, "Bearer "))
		if err != nil || claims.UID == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(CtxUserID, claims.UID)
		c.Set(CtxUserName, claims.Name)

		// renew tokens that are about to expire
		if time.Until(claims.ExpiresAt.Time) < renewWithin {
			if token, err := IssueToken(claims.UID, claims.Name); err == nil {
				c.Header("X-New-Token", token)
			}
		}

		c.Next()
	}
}

// UserID returns the authenticated user's id set by JWTAuth.
func UserID(c *gin.Context) uint {
	return c.GetUint(CtxUserID)
}
