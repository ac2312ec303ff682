// Package container wires configuration, store clients, repositories and
// services into one value that the router and commands share.
package container

import (
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/taskboard/config"
	"github.com/oksasatya/taskboard/internal/application"
	"github.com/oksasatya/taskboard/internal/domain/repository"
	pginfra "github.com/oksasatya/taskboard/internal/infrastructure/postgres"
	"github.com/oksasatya/taskboard/internal/infrastructure/search"
	"github.com/oksasatya/taskboard/internal/interface/middleware"
	"github.com/oksasatya/taskboard/pkg/helpers"
	"github.com/oksasatya/taskboard/pkg/metrics"
)

// Deps are the externally constructed clients. Pool, Redis, Rabbit and ES
// may be nil; the features that need them are then disabled. Users, Tasks,
// Publisher, Index and Revoker override the client-backed defaults.
type Deps struct {
	Pool     *pgxpool.Pool
	Redis    *redis.Client
	Rabbit   *helpers.RabbitPublisher
	ES       *elasticsearch.Client
	Registry *prometheus.Registry

	Users     repository.UserRepository
	Tasks     repository.TaskRepository
	Publisher application.Publisher
	Index     application.UserIndexer
	Revoker   interface {
		application.TokenRevoker
		middleware.RevocationChecker
	}
}

type Container struct {
	Config *config.Config
	Logger *logrus.Logger

	Pool   *pgxpool.Pool
	Redis  *redis.Client
	Rabbit *helpers.RabbitPublisher
	ES     *elasticsearch.Client

	Metrics *metrics.Metrics
	JWT     *helpers.JWTManager
	Hasher  *helpers.PasswordHasher
	Cookies *helpers.Manager

	Users repository.UserRepository
	Tasks repository.TaskRepository

	Auth      *application.AuthService
	UserSvc   *application.UserService
	TaskSvc   *application.TaskService
	Gate      *middleware.AuthGate
	Limiter   *middleware.RateLimiter
	Notifier  *application.Notifier
	UserIndex application.UserIndexer
}

func New(cfg *config.Config, logger *logrus.Logger, d Deps) *Container {
	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Pool:    d.Pool,
		Redis:   d.Redis,
		Rabbit:  d.Rabbit,
		ES:      d.ES,
		JWT:     helpers.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL),
		Hasher:  helpers.NewPasswordHasher(cfg.BcryptCost),
		Cookies: helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure, cfg.IsProduction()),
		Users:   d.Users,
		Tasks:   d.Tasks,
	}

	reg := d.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	c.Metrics = metrics.New(reg)

	if c.Users == nil {
		c.Users = pginfra.NewUserRepository(d.Pool)
	}
	if c.Tasks == nil {
		c.Tasks = pginfra.NewTaskRepository(d.Pool)
	}

	// A nil *RabbitPublisher must not become a non-nil Publisher.
	pub := d.Publisher
	if pub == nil && d.Rabbit != nil && cfg.MailSendEnabled {
		pub = d.Rabbit
	}
	if pub != nil {
		c.Notifier = application.NewNotifier(pub, cfg.AppName, logger)
	}

	c.UserIndex = d.Index
	if c.UserIndex == nil && d.ES != nil {
		c.UserIndex = search.NewUserIndex(d.ES, cfg.ESUsersIndex)
	}

	c.Auth = application.NewAuthService(c.Users, c.Hasher, c.JWT, logger)
	c.Auth.Notifier = c.Notifier
	c.Auth.Index = c.UserIndex
	c.Auth.Metrics = c.Metrics

	c.UserSvc = application.NewUserService(c.Users, c.Hasher, logger)
	c.UserSvc.Notifier = c.Notifier
	c.UserSvc.Index = c.UserIndex

	c.TaskSvc = application.NewTaskService(c.Tasks, c.Metrics)

	c.Gate = middleware.NewAuthGate(c.JWT, c.Users, logger)
	c.Gate.Metrics = c.Metrics

	if cfg.TokenRevocationEnabled {
		switch {
		case d.Revoker != nil:
			c.Auth.Revoker = d.Revoker
			c.Gate.Revoked = d.Revoker
		case d.Redis != nil:
			dl := helpers.NewTokenDenylist(d.Redis)
			c.Auth.Revoker = dl
			c.Gate.Revoked = dl
		default:
			logger.Warn("token revocation enabled without redis; logout stays stateless")
		}
	}

	c.Limiter = middleware.NewRateLimiter(d.Redis, cfg.RateLimitEnabled && d.Redis != nil, logger)
	return c
}

// Close releases the store clients in reverse order of construction.
func (c *Container) Close() {
	if c.Rabbit != nil {
		c.Rabbit.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.Pool != nil {
		c.Pool.Close()
	}
}
