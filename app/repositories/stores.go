// Package repositories owns persistence for users, orders, and products.
//
// Controllers and services depend on the store interfaces only; the mongo
// implementations back the running server and the in-memory ones back
// tests (and anything else that needs an isolated store).
package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hendryprasetyo/storefront/app/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate indicates a uniqueness conflict.
var ErrDuplicate = errors.New("record already exists")

// UserStore captures persistence operations on User documents.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	// FindByResetToken matches the stored token hash with an unexpired
	// resetPasswordExpire.
	FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	All(ctx context.Context) ([]models.User, error)
}

// OrderStore captures persistence operations on Order documents.
// There is deliberately no Delete: orders are never removed.
type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Order, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	All(ctx context.Context) ([]models.Order, error)
	Update(ctx context.Context, order *models.Order) error
}

// ProductStore captures persistence operations on the catalog.
type ProductStore interface {
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Product, error)
	// Search returns one page of products whose name matches keyword
	// (case-insensitive substring); empty keyword matches everything.
	Search(ctx context.Context, keyword string, page, limit int) (models.ProductPage, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
