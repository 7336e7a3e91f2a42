package main

import (
	"context"
	"errors"
	"log"
	"os"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/awaaz-labs/civic-portal/internal/auth"
	"github.com/awaaz-labs/civic-portal/internal/config"
	"github.com/awaaz-labs/civic-portal/internal/domain"
	"github.com/awaaz-labs/civic-portal/internal/observability"
	"github.com/awaaz-labs/civic-portal/internal/persistence"
	"github.com/awaaz-labs/civic-portal/internal/repository"
)

// seedadmin provisions the pre-authorized admin account. It is a no-op when
// the account already exists.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		log.Fatal("ADMIN_PASSWORD is required")
	}
	name := os.Getenv("ADMIN_NAME")
	if name == "" {
		name = "Portal Administrator"
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()

	db, err := persistence.NewMongo(ctx, cfg.Mongo, logger)
	if err != nil {
		logger.Fatal("failed to connect mongodb", zap.Error(err))
	}
	defer db.Close(ctx)

	if err := persistence.EnsureIndexes(ctx, db.Database(), logger); err != nil {
		logger.Fatal("failed to ensure indexes", zap.Error(err))
	}

	users := repository.NewUserRepository(db.Database())

	adminEmail := strings.ToLower(cfg.Auth.AdminEmail)

	if _, err := users.GetByEmail(ctx, adminEmail); err == nil {
		logger.Info("admin account already exists", zap.String("email", adminEmail))
		return
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		logger.Fatal("failed to look up admin account", zap.Error(err))
	}

	hash, err := auth.HashPassword(password, cfg.Auth.BcryptCost)
	if err != nil {
		logger.Fatal("failed to hash password", zap.Error(err))
	}

	admin := &domain.User{
		Email:        adminEmail,
		PasswordHash: hash,
		Name:         name,
		Role:         domain.RoleAdmin,
		Verified:     true,
	}
	if err := users.Create(ctx, admin); err != nil {
		logger.Fatal("failed to create admin account", zap.Error(err))
	}

	logger.Info("admin account created",
		zap.String("email", admin.Email),
		zap.String("id", admin.ID.Hex()))
}
