package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const claimsKey = "auth.claims"

// Authenticate rejects requests without a valid bearer token and stores the
// token claims on the gin context.
func Authenticate(tm *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := extractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			abortBearer(c, http.StatusUnauthorized, `Bearer error="invalid_token", error_description="`+err.Error()+`"`)
			return
		}

		claims, err := tm.ValidateToken(tokenString)
		if err != nil {
			abortBearer(c, http.StatusUnauthorized, `Bearer error="invalid_token", error_description="token verification failed"`)
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireRoles lets the request through when the caller has at least one of
// the roles. It must run after Authenticate.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			abortBearer(c, http.StatusUnauthorized, `Bearer error="invalid_token"`)
			return
		}
		if !claims.HasAnyRole(roles...) {
			abortBearer(c, http.StatusForbidden,
				`Bearer error="insufficient_scope", scope="`+strings.Join(roles, " ")+`"`)
			return
		}
		c.Next()
	}
}

func ClaimsFromContext(c *gin.Context) (*Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*Claims)
	return claims, ok
}

// extractBearerToken retrieves the token from an Authorization header value.
func extractBearerToken(header string) (string, error) {
	if header == "" {
		return "", fmt.Errorf("authorization header missing")
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return "", fmt.Errorf("missing Bearer prefix")
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		return "", fmt.Errorf("empty token")
	}
	return token, nil
}

func abortBearer(c *gin.Context, status int, challenge string) {
	c.Header("WWW-Authenticate", challenge)
	c.AbortWithStatusJSON(status, gin.H{
		"statusCode": status,
		"message":    http.StatusText(status),
	})
}
