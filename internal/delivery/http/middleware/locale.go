package middleware

import (
	"strings"

	"job-management-backend/internal/domain"
	"job-management-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

// Locale resolves the request locale from Accept-Language.
func Locale(matcher *validation.LocaleMatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		locale := matcher.Match(c.GetHeader("Accept-Language"))
		c.Set(string(domain.KeyLocale), locale)
		c.Header("Content-Language", strings.ReplaceAll(locale, "_", "-"))
		c.Next()
	}
}

// GetLocale returns the locale chosen by Locale, or the catalog default.
func GetLocale(c *gin.Context) string {
	if locale := c.GetString(string(domain.KeyLocale)); locale != "" {
		return locale
	}
	return validation.DefaultLocale
}
