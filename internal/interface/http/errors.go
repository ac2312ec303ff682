package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/taskboard/internal/application"
	"github.com/oksasatya/taskboard/pkg/apperror"
	"github.com/oksasatya/taskboard/pkg/validation"
)

// fail hands err to the error handler, translating service sentinels into
// their HTTP form first. conflictMsg is used for ErrEmailTaken.
func fail(c *gin.Context, err error, conflictMsg string) {
	switch {
	case errors.Is(err, application.ErrInvalidCredentials):
		err = apperror.Unauthorized("Invalid email or password")
	case errors.Is(err, application.ErrEmailTaken):
		err = apperror.Conflict(conflictMsg)
	case errors.Is(err, application.ErrWrongPassword):
		err = apperror.BadRequest("Current password is incorrect")
	case errors.Is(err, application.ErrUserNotFound):
		err = apperror.NotFound("User not found")
	case errors.Is(err, application.ErrTaskNotFound):
		err = apperror.NotFound("Task not found")
	}
	_ = c.Error(err)
}

// bind decodes and validates the body; on failure it records the
// validation error and reports false.
func bind[T any](c *gin.Context) (T, bool) {
	res := validation.Bind[T](c)
	if !res.OK() {
		_ = c.Error(apperror.Validation(res.Errors))
		return res.Value, false
	}
	return res.Value, true
}
