package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/taskboard/internal/application"
	"github.com/oksasatya/taskboard/internal/domain/entity"
	"github.com/oksasatya/taskboard/internal/interface/middleware"
	"github.com/oksasatya/taskboard/pkg/helpers"
	"github.com/oksasatya/taskboard/pkg/response"
)

const msgEmailRegistered = "An account with this email already exists"

type AuthHandler struct {
	Svc     *application.AuthService
	Cookies *helpers.Manager
}

func NewAuthHandler(svc *application.AuthService, cookies *helpers.Manager) *AuthHandler {
	return &AuthHandler{Svc: svc, Cookies: cookies}
}

type registerRequest struct {
	Name     string `json:"name" mod:"trim" validate:"required,personname"`
	Email    string `json:"email" mod:"trim,lower" validate:"required,email"`
	Password string `json:"password" validate:"required,pwd"`
}

type loginRequest struct {
	Email    string `json:"email" mod:"trim,lower" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	User  *entity.User `json:"user"`
	Token string       `json:"token"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	req, ok := bind[registerRequest](c)
	if !ok {
		return
	}
	res, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		fail(c, err, msgEmailRegistered)
		return
	}
	h.Cookies.SetToken(c, res.Token, res.ExpiresAt)
	response.Success(c, http.StatusCreated, authResponse{User: res.User, Token: res.Token}, "Registration successful")
}

func (h *AuthHandler) Login(c *gin.Context) {
	req, ok := bind[loginRequest](c)
	if !ok {
		return
	}
	res, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, err, "")
		return
	}
	h.Cookies.SetToken(c, res.Token, res.ExpiresAt)
	response.Success(c, http.StatusOK, authResponse{User: res.User, Token: res.Token}, "Login successful")
}

// Logout always clears the cookie. With revocation enabled the presented
// token is also rejected from then on.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.Svc.Logout(c.Request.Context(), middleware.TokenFromRequest(c)); err != nil {
		fail(c, err, "")
		return
	}
	h.Cookies.Clear(c)
	response.Message(c, http.StatusOK, "Logged out successfully")
}
