package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/taskboard/internal/interface/middleware"
	"github.com/oksasatya/taskboard/pkg/metrics"
)

type DebugModule struct {
	Metrics *metrics.Metrics
	Limiter *middleware.RateLimiter
}

func NewDebugModule(m *metrics.Metrics, limiter *middleware.RateLimiter) *DebugModule {
	return &DebugModule{Metrics: m, Limiter: limiter}
}

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	// Prometheus exposition, rate-limited per IP except for private scrapers
	rl := m.Limiter.Limit(120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	rg.GET("/debug/metrics", rl, gin.WrapH(m.Metrics.Handler()))
}
