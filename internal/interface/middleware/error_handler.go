package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/taskboard/internal/domain/repository"
	"github.com/oksasatya/taskboard/pkg/apperror"
	"github.com/oksasatya/taskboard/pkg/response"
)

// Translate maps any error onto an apperror, folding storage sentinels into
// their HTTP meaning.
func Translate(err error) *apperror.Error {
	var ae *apperror.Error
	switch {
	case errors.As(err, &ae):
		return ae
	case errors.Is(err, repository.ErrInvalidID):
		return apperror.BadRequest("Invalid id")
	case errors.Is(err, repository.ErrDuplicateEmail):
		return apperror.Conflict("An account with this email already exists")
	case errors.Is(err, repository.ErrNotFound):
		return apperror.NotFound("Resource not found")
	default:
		return apperror.Internal(err)
	}
}

// ErrorHandler renders the last error collected with c.Error as the response
// envelope. In development the full error chain is returned as stack.
func ErrorHandler(logger *logrus.Logger, development bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		ae := Translate(err)
		status := ae.Status()

		fields := logrus.Fields{
			"status":     status,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"request_id": c.GetString(requestIDKey),
		}
		if logger != nil {
			entry := logger.WithFields(fields)
			if status >= http.StatusInternalServerError {
				entry.WithError(err).Error(ae.Message)
			} else {
				entry.Debug(ae.Message)
			}
		}

		var details any
		if len(ae.Fields) > 0 {
			details = ae.Fields
		}
		stack := ""
		if development {
			stack = err.Error()
		}
		response.Error(c, status, ae.Message, details, stack)
	}
}

// Recovery turns a panic into a 500 envelope. The goroutine stack is only
// exposed in development.
func Recovery(logger *logrus.Logger, development bool) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, rec any) {
		stack := debug.Stack()
		if logger != nil {
			logger.WithFields(logrus.Fields{
				"panic":      fmt.Sprint(rec),
				"path":       c.Request.URL.Path,
				"request_id": c.GetString(requestIDKey),
			}).Error("panic recovered")
		}
		trace := ""
		if development {
			trace = fmt.Sprintf("panic: %v\n%s", rec, stack)
		}
		response.Error(c, http.StatusInternalServerError, "Internal Server Error", nil, trace)
	})
}
