package repositories_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hendryprasetyo/storefront/app/models"
	"github.com/hendryprasetyo/storefront/app/repositories"
)

func newUser(username, email string) models.User {
	return models.User{Username: username, Email: email, Password: "hash"}
}

func TestMemoryUserStoreUniqueness(t *testing.T) {
	s := repositories.NewMemoryUserStore()
	ctx := context.Background()

	alice := newUser("alice", "alice@example.com")
	require.NoError(t, s.Create(ctx, &alice))
	require.False(t, alice.ID.IsZero())

	dupName := newUser("alice", "other@example.com")
	assert.ErrorIs(t, s.Create(ctx, &dupName), repositories.ErrDuplicate)

	dupMail := newUser("bob", "alice@example.com")
	assert.ErrorIs(t, s.Create(ctx, &dupMail), repositories.ErrDuplicate)

	// Updating into another user's username also conflicts.
	bob := newUser("bob", "bob@example.com")
	require.NoError(t, s.Create(ctx, &bob))
	bob.Username = "alice"
	assert.ErrorIs(t, s.Update(ctx, &bob), repositories.ErrDuplicate)
}

func TestMemoryUserStoreFindByResetToken(t *testing.T) {
	s := repositories.NewMemoryUserStore()
	ctx := context.Background()
	now := time.Now()

	alice := newUser("alice", "alice@example.com")
	alice.ResetPasswordToken = "hash-of-token"
	alice.ResetPasswordExpire = now.Add(10 * time.Minute)
	require.NoError(t, s.Create(ctx, &alice))

	found, err := s.FindByResetToken(ctx, "hash-of-token", now)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, found.ID)

	// Expired tokens never match.
	_, err = s.FindByResetToken(ctx, "hash-of-token", now.Add(11*time.Minute))
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	_, err = s.FindByResetToken(ctx, "wrong-hash", now)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	// A cleared token never matches, even against an empty hash.
	alice.ResetPasswordToken = ""
	require.NoError(t, s.Update(ctx, &alice))
	_, err = s.FindByResetToken(ctx, "", now)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestMemoryOrderStoreScoping(t *testing.T) {
	s := repositories.NewMemoryOrderStore()
	users := repositories.NewMemoryUserStore()
	ctx := context.Background()

	alice := newUser("alice", "alice@example.com")
	bob := newUser("bob", "bob@example.com")
	require.NoError(t, users.Create(ctx, &alice))
	require.NoError(t, users.Create(ctx, &bob))

	for _, owner := range []models.User{alice, alice, bob} {
		order := models.Order{
			UserID:        owner.ID,
			OrderItems:    []models.OrderItem{{Name: "Widget", Qty: 1, Price: 10}},
			PaymentMethod: "PayPal",
			TotalPrice:    10,
		}
		require.NoError(t, s.Create(ctx, &order))
	}

	mine, err := s.FindByUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	all, err := s.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestMemoryOrderStoreUpdatePreservesIdentity(t *testing.T) {
	s := repositories.NewMemoryOrderStore()
	ctx := context.Background()

	order := models.Order{
		OrderItems:    []models.OrderItem{{Name: "Widget", Qty: 1, Price: 10}},
		PaymentMethod: "PayPal",
	}
	require.NoError(t, s.Create(ctx, &order))

	now := time.Now()
	order.IsPaid = true
	order.PaidAt = &now
	require.NoError(t, s.Update(ctx, &order))

	got, err := s.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, got.IsPaid)
	require.NotNil(t, got.PaidAt)
}

func TestMemoryProductStoreSearch(t *testing.T) {
	s := repositories.NewMemoryProductStore()
	ctx := context.Background()

	for _, name := range []string{"Wireless Mouse", "Wired Mouse", "Keyboard"} {
		p := models.Product{Name: name, Price: 10}
		require.NoError(t, s.Create(ctx, &p))
	}

	page, err := s.Search(ctx, "MOUSE", 1, 10)
	require.NoError(t, err)
	assert.Len(t, page.Products, 2)
	assert.Equal(t, int64(2), page.Total)

	page, err = s.Search(ctx, "", 2, 2)
	require.NoError(t, err)
	assert.Len(t, page.Products, 1)
	assert.Equal(t, 2, page.Pages)

	// Past the last page: empty slice, not an error.
	page, err = s.Search(ctx, "", 9, 2)
	require.NoError(t, err)
	assert.Empty(t, page.Products)
}
