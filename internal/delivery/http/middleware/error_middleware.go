package middleware

import (
	"errors"
	"net/http"

	"job-management-backend/internal/delivery/http/response"
	"job-management-backend/pkg/apperror"
	"job-management-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// ErrorHandler renders the last error attached to the context.
// validator.ValidationErrors become a 400 field/message list; AppErrors use
// their own status; anything else is logged and hidden behind a 500.
func ErrorHandler(translator *validation.Translator, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err

		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			fields, terr := translator.Translate(fieldErrs, GetLocale(c))
			if terr == nil {
				response.FieldErrors(c, fields)
				return
			}
			err = terr
		}

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			if appErr.Code >= http.StatusInternalServerError {
				logError(c, log, err)
			}
			response.Error(c, appErr.Code, appErr.Message, nil)
			return
		}

		// Internal details stay in the log
		logError(c, log, err)
		response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
	}
}

func logError(c *gin.Context, log *zap.Logger, err error) {
	log.Error("request failed",
		zap.String("request_id", GetRequestID(c)),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
}
