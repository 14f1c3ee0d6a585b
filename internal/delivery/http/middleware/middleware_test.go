package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"job-management-backend/internal/delivery/http/middleware"
	"job-management-backend/internal/domain"
	"job-management-backend/pkg/apperror"
	"job-management-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func strPtr(s string) *string { return &s }

func newErrorRouter(t *testing.T, log *zap.Logger, handler gin.HandlerFunc) *gin.Engine {
	t.Helper()
	catalog, err := validation.NewCatalog(validation.DefaultLocale, domain.CandidateRules)
	require.NoError(t, err)
	matcher, err := validation.NewLocaleMatcher(validation.DefaultLocale, catalog.Locales())
	require.NoError(t, err)

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Locale(matcher))
	r.Use(middleware.ErrorHandler(validation.NewTranslator(catalog), log))
	r.POST("/", handler)
	return r
}

func validationFailure(req domain.CandidateRequest) gin.HandlerFunc {
	v := validation.NewValidator(domain.CandidateRules)
	return func(c *gin.Context) {
		if err := v.Struct(req); err != nil {
			c.Error(err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func TestErrorHandlerValidation(t *testing.T) {
	t.Run("renders the field/message array", func(t *testing.T) {
		r := newErrorRouter(t, zap.NewNop(), validationFailure(domain.CandidateRequest{
			Name:  strPtr("abc"),
			Email: strPtr("not-an-email"),
		}))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `[
			{"field":"name","message":"O campo [name] nao deve possuir espacos"},
			{"field":"email","message":"O campo [Email] deve possuir um e-mail valido"}
		]`, w.Body.String())
	})

	t.Run("honors Accept-Language", func(t *testing.T) {
		r := newErrorRouter(t, zap.NewNop(), validationFailure(domain.CandidateRequest{
			Email: strPtr("not-an-email"),
		}))

		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "en", w.Header().Get("Content-Language"))
		assert.JSONEq(t, `[{"field":"email","message":"The field [Email] must be a valid e-mail address"}]`, w.Body.String())
	})

	t.Run("empty failure is an empty array with 400", func(t *testing.T) {
		r := newErrorRouter(t, zap.NewNop(), func(c *gin.Context) {
			c.Error(validator.ValidationErrors{})
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("does not touch successful requests", func(t *testing.T) {
		r := newErrorRouter(t, zap.NewNop(), validationFailure(domain.CandidateRequest{}))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestErrorHandlerAppError(t *testing.T) {
	r := newErrorRouter(t, zap.NewNop(), func(c *gin.Context) {
		c.Error(apperror.NotFound("Candidate not found"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"message":"Candidate not found"`)
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestErrorHandlerUnexpected(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	r := newErrorRouter(t, zap.New(core), func(c *gin.Context) {
		c.Error(errors.New("connection reset by peer"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection reset")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "request failed", logs.All()[0].Message)
}

type stubParser map[string]string

func (s stubParser) Parse(token string) (string, error) {
	subject, ok := s[token]
	if !ok {
		return "", errors.New("invalid")
	}
	return subject, nil
}

func TestAuthMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/me", middleware.AuthMiddleware(stubParser{"good": "cand-1"}), func(c *gin.Context) {
		fromRequest, _ := c.Request.Context().Value(domain.KeyCandidateID).(string)
		c.String(http.StatusOK, c.GetString(string(domain.KeyCandidateID))+"|"+fromRequest)
	})

	tests := []struct {
		name   string
		header string
		code   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"valid token", "Bearer good", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.code, w.Code)
			if tt.code == http.StatusOK {
				assert.Equal(t, "cand-1|cand-1", w.Body.String())
			}
		})
	}
}

func TestRateLimiterMemory(t *testing.T) {
	limiter := middleware.NewRateLimiter(nil, zap.NewNop())
	r := gin.New()
	r.POST("/auth", limiter.Middleware(middleware.AuthRateLimitConfig(2, time.Minute)), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	send := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/auth", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1").Code)
	second := send("10.0.0.1")
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "0", second.Header().Get("X-RateLimit-Remaining"))

	blocked := send("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.NotEmpty(t, blocked.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, send("10.0.0.2").Code)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, middleware.GetRequestID(c))
	})

	t.Run("generates one", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
		assert.Equal(t, w.Header().Get(middleware.RequestIDHeader), w.Body.String())
	})

	t.Run("reuses incoming", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(middleware.RequestIDHeader, "abc-123")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, "abc-123", strings.TrimSpace(w.Body.String()))
	})
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(middleware.Recovery(zap.NewNop()))
	r.GET("/", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(middleware.SecurityHeaders())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("plain http", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
		assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
		assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
		assert.Empty(t, w.Header().Get("Cache-Control"))
	})

	t.Run("authenticated behind https proxy", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-Proto", "https")
		req.Header.Set("Authorization", "Bearer x")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.NotEmpty(t, w.Header().Get("Strict-Transport-Security"))
		assert.Contains(t, w.Header().Get("Cache-Control"), "no-store")
	})
}
