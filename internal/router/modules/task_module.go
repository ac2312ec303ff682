package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/taskboard/internal/interface/http"
	"github.com/oksasatya/taskboard/internal/interface/middleware"
)

// TaskModule serves the caller's tasks. Every route is protected.
type TaskModule struct {
	Handler *handlers.TaskHandler
	Gate    *middleware.AuthGate
	Limiter *middleware.RateLimiter
}

func NewTaskModule(h *handlers.TaskHandler, gate *middleware.AuthGate, limiter *middleware.RateLimiter) *TaskModule {
	return &TaskModule{Handler: h, Gate: gate, Limiter: limiter}
}

func (m *TaskModule) Register(rg *gin.RouterGroup) {
	tasks := rg.Group("/tasks")
	tasks.Use(
		m.Gate.Protect(),
		m.Limiter.Limit(120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		tasks.GET("", m.Handler.List)
		tasks.POST("", m.Handler.Create)
		tasks.GET("/:id", m.Handler.Get)
		tasks.PUT("/:id", m.Handler.Update)
		tasks.DELETE("/:id", m.Handler.Delete)
	}
}
