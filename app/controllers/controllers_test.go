package controllers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hendryprasetyo/storefront/app/repositories"
	"github.com/hendryprasetyo/storefront/app/routes"
	"github.com/hendryprasetyo/storefront/pkg/router"
	"github.com/hendryprasetyo/storefront/pkg/testkit"
)

// nopMailer swallows outgoing mail in handler tests.
type nopMailer struct{}

func (nopMailer) Send(to, subject, body string) error { return nil }

// api assembles the full route table over fresh in-memory stores.
type api struct {
	handler  http.Handler
	users    *repositories.MemoryUserStore
	orders   *repositories.MemoryOrderStore
	products *repositories.MemoryProductStore
}

func newAPI(t *testing.T) *api {
	t.Helper()

	a := &api{
		users:    repositories.NewMemoryUserStore(),
		orders:   repositories.NewMemoryOrderStore(),
		products: repositories.NewMemoryProductStore(),
	}

	r := router.New()
	routes.RegisterAPI(r, routes.Stores{
		Users:    a.users,
		Orders:   a.orders,
		Products: a.products,
	}, nopMailer{})
	a.handler = r.Handler()

	return a
}

// register creates an account through the API and returns a login token.
func (a *api) register(t *testing.T, username, email string) string {
	t.Helper()

	rec := testkit.Do(t, a.handler, testkit.Post("/api/auth/register").JSON(map[string]string{
		"username": username,
		"email":    email,
		"password": "longpassword",
	}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	return a.login(t, username)
}

func (a *api) login(t *testing.T, username string) string {
	t.Helper()

	rec := testkit.Do(t, a.handler, testkit.Post("/api/auth/login").JSON(map[string]string{
		"username": username,
		"password": "longpassword",
	}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var profile struct {
		Token string `json:"token"`
	}
	testkit.DecodeData(t, rec, &profile)
	require.NotEmpty(t, profile.Token)
	return profile.Token
}

// registerAdmin creates an account and promotes it to admin in the
// store. The middleware reloads the user per request, so the existing
// token keeps working after the promotion.
func (a *api) registerAdmin(t *testing.T, username, email string) string {
	t.Helper()

	token := a.register(t, username, email)

	user, err := a.users.FindByUsername(context.Background(), username)
	require.NoError(t, err)
	user.IsAdmin = true
	require.NoError(t, a.users.Update(context.Background(), &user))

	return token
}
