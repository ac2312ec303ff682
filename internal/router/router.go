package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/taskboard/internal/container"
	handlers "github.com/oksasatya/taskboard/internal/interface/http"
	"github.com/oksasatya/taskboard/internal/interface/middleware"
	"github.com/oksasatya/taskboard/internal/router/modules"
	"github.com/oksasatya/taskboard/pkg/apperror"
	"github.com/oksasatya/taskboard/pkg/validation"
)

// APIPrefixes lists the mount points of the API; /api/v1 is an alias.
var APIPrefixes = []string{"/api", "/api/v1"}

// NewEngine builds the gin engine with global middleware and every module.
func NewEngine(c *container.Container) *gin.Engine {
	validation.Init()

	cfg := c.Config
	dev := cfg.IsDevelopment()

	r := gin.New()
	if !cfg.TrustProxyHeaders {
		_ = r.SetTrustedProxies(nil)
	}

	r.Use(
		middleware.RequestIDMiddleware(),
		middleware.RealIP(cfg.TrustProxyHeaders),
		c.Metrics.Middleware(),
	)
	if cfg.HTTPLogEnabled {
		r.Use(middleware.AccessLog(c.Logger))
	}
	r.Use(
		middleware.ErrorHandler(c.Logger, dev),
		middleware.Recovery(c.Logger, dev),
		cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins(),
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderRequestID},
			ExposeHeaders:    []string{"Content-Length", middleware.HeaderRequestID, "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		middleware.BodyLimit(cfg.MaxBodyBytes),
	)

	r.NoRoute(func(ctx *gin.Context) {
		_ = ctx.Error(apperror.NotFound("Route not found"))
	})

	reg := NewRegistry(r, APIPrefixes...)
	reg.Add(
		modules.NewHealthModule(),
		modules.NewAuthModule(handlers.NewAuthHandler(c.Auth, c.Cookies), c.Limiter),
		modules.NewTaskModule(handlers.NewTaskHandler(c.TaskSvc), c.Gate, c.Limiter),
		modules.NewUserModule(handlers.NewUserHandler(c.UserSvc), c.Gate, c.Limiter),
	)
	if cfg.DebugMetricsEnabled {
		reg.Add(modules.NewDebugModule(c.Metrics, c.Limiter))
	}
	reg.RegisterAll()
	return r
}
