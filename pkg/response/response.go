package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIResponse is the uniform envelope for success and failure paths.
type APIResponse[T any] struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	Data      T      `json:"data,omitempty"`
	Errors    any    `json:"errors,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	Stack     string `json:"stack,omitempty"`
}

// Success writes a success envelope with data.
func Success[T any](c *gin.Context, status int, data T, message string) {
	if status == 0 {
		status = http.StatusOK
	}
	c.JSON(status, APIResponse[T]{
		Success:   true,
		Message:   message,
		Data:      data,
		RequestID: c.GetString("request_id"),
	})
}

// Message writes a success envelope without data.
func Message(c *gin.Context, status int, message string) {
	Success[any](c, status, nil, message)
}

// Error writes a failure envelope. errs carries field-level details, stack is
// only filled in development.
func Error(c *gin.Context, status int, message string, errs any, stack string) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	c.AbortWithStatusJSON(status, APIResponse[any]{
		Success:   false,
		Message:   message,
		Errors:    errs,
		RequestID: c.GetString("request_id"),
		Stack:     stack,
	})
}
