package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/taskboard/internal/domain/entity"
	handlers "github.com/oksasatya/taskboard/internal/interface/http"
	"github.com/oksasatya/taskboard/internal/interface/middleware"
)

// UserModule wires the profile routes and the admin user directory.
// Protected: GET /user/me, PUT /user/update, PUT /user/password
// Admin: GET /user/admin/users, GET /user/admin/users/search
type UserModule struct {
	Handler *handlers.UserHandler
	Gate    *middleware.AuthGate
	Limiter *middleware.RateLimiter
}

func NewUserModule(h *handlers.UserHandler, gate *middleware.AuthGate, limiter *middleware.RateLimiter) *UserModule {
	return &UserModule{Handler: h, Gate: gate, Limiter: limiter}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	user := rg.Group("/user")
	user.Use(
		m.Gate.Protect(),
		m.Limiter.Limit(120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		user.GET("/me", m.Handler.Me)
		user.PUT("/update", m.Handler.UpdateProfile)
		user.PUT("/password", m.Handler.ChangePassword)
	}

	admin := user.Group("/admin")
	admin.Use(middleware.RequireRole(entity.RoleAdmin))
	{
		admin.GET("/users", m.Handler.ListUsers)
		admin.GET("/users/search", m.Handler.Search)
	}
}
