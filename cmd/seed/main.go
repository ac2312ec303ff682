package main

import (
	"context"
	"errors"
	"log"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/taskboard/config"
	"github.com/oksasatya/taskboard/internal/domain/entity"
	"github.com/oksasatya/taskboard/internal/domain/repository"
	pginfra "github.com/oksasatya/taskboard/internal/infrastructure/postgres"
	"github.com/oksasatya/taskboard/pkg/helpers"
)

// seed creates the admin account named by SEED_ADMIN_*. Running it again
// leaves an existing account untouched.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)

	if cfg.SeedAdminPassword == "" {
		log.Fatal("SEED_ADMIN_PASSWORD is required")
	}

	ctx := context.Background()
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	if err := pginfra.RunMigrations(cfg.PostgresDSN(), logger); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	users := pginfra.NewUserRepository(pool)
	hash, err := helpers.NewPasswordHasher(cfg.BcryptCost).Hash(cfg.SeedAdminPassword)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	u := &entity.User{
		Name:         cfg.SeedAdminName,
		Email:        cfg.SeedAdminEmail,
		PasswordHash: hash,
		Role:         entity.RoleAdmin,
	}
	err = users.Create(ctx, u)
	switch {
	case errors.Is(err, repository.ErrDuplicateEmail):
		logger.WithField("email", cfg.SeedAdminEmail).Info("admin already exists")
	case err != nil:
		log.Fatalf("failed to seed admin: %v", err)
	default:
		helpers.LogInfo(logger, "seeded admin", logrus.Fields{"id": u.ID, "email": u.Email})
	}
}
