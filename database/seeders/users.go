package seeders

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hendryprasetyo/storefront/app/models"
	"github.com/hendryprasetyo/storefront/app/repositories"
	"github.com/hendryprasetyo/storefront/config"
	"github.com/hendryprasetyo/storefront/pkg/auth"
	"github.com/hendryprasetyo/storefront/pkg/logger"
)

func init() {
	Register("users", SeedUsers)
}

// SeedUsers inserts the initial admin account. The password comes from
// SEED_ADMIN_PASSWORD so real deployments never ship the default.
func SeedUsers(ctx context.Context, db *mongo.Database) error {
	users := repositories.NewMongoUserStore(db)

	if _, err := users.FindByUsername(ctx, "admin"); err == nil {
		logger.Info("admin user already present, skipping")
		return nil
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return err
	}

	hash, err := auth.HashPassword(config.Get("SEED_ADMIN_PASSWORD", "changeme123"))
	if err != nil {
		return err
	}

	admin := models.User{
		Username: "admin",
		Email:    config.Get("SEED_ADMIN_EMAIL", "admin@example.com"),
		Password: hash,
		IsAdmin:  true,
	}
	return users.Create(ctx, &admin)
}
