package middleware

import (
	"context"
	"net/http"
	"strings"

	"job-management-backend/internal/delivery/http/response"
	"job-management-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

// TokenParser verifies an access token and returns its subject.
type TokenParser interface {
	Parse(token string) (string, error)
}

// AuthMiddleware requires a Bearer token and puts the candidate ID on both
// the gin context and the request context.
func AuthMiddleware(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenString == "" {
			response.Error(c, http.StatusUnauthorized, "Authorization header required", nil)
			c.Abort()
			return
		}

		subject, err := tokens.Parse(tokenString)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "Invalid token", nil)
			c.Abort()
			return
		}

		c.Set(string(domain.KeyCandidateID), subject)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), domain.KeyCandidateID, subject))

		c.Next()
	}
}
