package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/taskboard/internal/interface/http"
	"github.com/oksasatya/taskboard/internal/interface/middleware"
)

// AuthModule serves the public credential endpoints:
// POST /auth/register, POST /auth/login, POST /auth/logout
type AuthModule struct {
	Handler *handlers.AuthHandler
	Limiter *middleware.RateLimiter
}

func NewAuthModule(h *handlers.AuthHandler, limiter *middleware.RateLimiter) *AuthModule {
	return &AuthModule{Handler: h, Limiter: limiter}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// 10 req/min per IP and path
	credLimiter := m.Limiter.Limit(10, time.Minute, middleware.KeyByIPAndPath(), nil)

	auth := rg.Group("/auth")
	auth.POST("/register", credLimiter, m.Handler.Register)
	auth.POST("/login", credLimiter, m.Handler.Login)
	auth.POST("/logout", m.Handler.Logout)
}
