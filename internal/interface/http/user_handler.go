package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/taskboard/internal/application"
	"github.com/oksasatya/taskboard/internal/domain/entity"
	"github.com/oksasatya/taskboard/internal/interface/middleware"
	"github.com/oksasatya/taskboard/pkg/apperror"
	"github.com/oksasatya/taskboard/pkg/response"
)

type UserHandler struct {
	Svc *application.UserService
}

func NewUserHandler(svc *application.UserService) *UserHandler {
	return &UserHandler{Svc: svc}
}

type updateProfileRequest struct {
	Name  *string `json:"name" mod:"trim" validate:"omitnil,personname"`
	Email *string `json:"email" mod:"trim,lower" validate:"omitnil,email"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,pwd"`
}

type userResponse struct {
	User *entity.User `json:"user"`
}

type usersResponse struct {
	Users []*entity.User `json:"users"`
}

func (h *UserHandler) Me(c *gin.Context) {
	u, err := h.Svc.GetProfile(c.Request.Context(), middleware.Caller(c).ID)
	if err != nil {
		fail(c, err, "")
		return
	}
	response.Success(c, http.StatusOK, userResponse{User: u}, "")
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	req, ok := bind[updateProfileRequest](c)
	if !ok {
		return
	}
	u, err := h.Svc.UpdateProfile(c.Request.Context(), middleware.Caller(c).ID, application.UpdateProfileInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		fail(c, err, "This email is already in use")
		return
	}
	response.Success(c, http.StatusOK, userResponse{User: u}, "Profile updated successfully")
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	req, ok := bind[changePasswordRequest](c)
	if !ok {
		return
	}
	meta := application.ClientMeta{IP: c.GetString("real_ip"), UserAgent: c.Request.UserAgent()}
	if err := h.Svc.ChangePassword(c.Request.Context(), middleware.Caller(c).ID, req.CurrentPassword, req.NewPassword, meta); err != nil {
		fail(c, err, "")
		return
	}
	response.Message(c, http.StatusOK, "Password updated successfully")
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.Svc.ListUsers(c.Request.Context())
	if err != nil {
		fail(c, err, "")
		return
	}
	response.Success(c, http.StatusOK, usersResponse{Users: users}, "")
}

// Search queries the user directory: GET /user/admin/users/search?q=&size=
func (h *UserHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		_ = c.Error(apperror.BadRequest("q is required"))
		return
	}
	size, _ := strconv.Atoi(c.Query("size"))
	users, err := h.Svc.SearchUsers(c.Request.Context(), q, size)
	if err != nil {
		fail(c, err, "")
		return
	}
	response.Success(c, http.StatusOK, usersResponse{Users: users}, "")
}
