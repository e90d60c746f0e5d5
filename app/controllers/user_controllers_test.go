package controllers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hendryprasetyo/storefront/pkg/testkit"
)

func TestPrivateRoutesRequireToken(t *testing.T) {
	a := newAPI(t)

	rec := testkit.Do(t, a.handler, testkit.Get("/api/private/myorders"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Not authorized to access this route", testkit.DecodeEnvelope(t, rec).Message)

	rec = testkit.Do(t, a.handler, testkit.Get("/api/private/myorders").Bearer("garbage"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPrivateData(t *testing.T) {
	a := newAPI(t)
	token := a.register(t, "alice", "alice@example.com")

	rec := testkit.Do(t, a.handler, testkit.Get("/api/private").Bearer(token))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var msg string
	testkit.DecodeData(t, rec, &msg)
	assert.Equal(t, "You got access to the private data in this route", msg)
}

func TestGetOwnProfile(t *testing.T) {
	a := newAPI(t)
	token := a.register(t, "alice", "alice@example.com")

	user, err := a.users.FindByUsername(context.Background(), "alice")
	require.NoError(t, err)

	rec := testkit.Do(t, a.handler,
		testkit.Get("/api/private/"+user.ID.Hex()).Bearer(token))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var profile struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	testkit.DecodeData(t, rec, &profile)
	assert.Equal(t, "alice", profile.Username)
	assert.Equal(t, "alice@example.com", profile.Email)
}

func TestUpdateProfile(t *testing.T) {
	a := newAPI(t)
	token := a.register(t, "alice", "alice@example.com")

	rec := testkit.Do(t, a.handler, testkit.Put("/api/private/profile").Bearer(token).JSON(map[string]string{
		"username": "alice2",
		"password": "newlongpassword",
	}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var profile struct {
		Username string `json:"username"`
		Token    string `json:"token"`
	}
	testkit.DecodeData(t, rec, &profile)
	assert.Equal(t, "alice2", profile.Username)
	assert.NotEmpty(t, profile.Token, "profile update issues a fresh token")

	// New credentials work, old password does not.
	rec = testkit.Do(t, a.handler, testkit.Post("/api/auth/login").JSON(map[string]string{
		"username": "alice2",
		"password": "newlongpassword",
	}))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = testkit.Do(t, a.handler, testkit.Post("/api/auth/login").JSON(map[string]string{
		"username": "alice2",
		"password": "longpassword",
	}))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdateProfileShortPassword(t *testing.T) {
	a := newAPI(t)
	token := a.register(t, "alice", "alice@example.com")

	rec := testkit.Do(t, a.handler, testkit.Put("/api/private/profile").Bearer(token).JSON(map[string]string{
		"password": "short",
	}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateProfileTakenUsername(t *testing.T) {
	a := newAPI(t)
	a.register(t, "bob", "bob@example.com")
	token := a.register(t, "alice", "alice@example.com")

	rec := testkit.Do(t, a.handler, testkit.Put("/api/private/profile").Bearer(token).JSON(map[string]string{
		"username": "bob",
	}))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAdminUserRoutes(t *testing.T) {
	a := newAPI(t)
	userToken := a.register(t, "alice", "alice@example.com")
	adminToken := a.registerAdmin(t, "root", "root@example.com")

	// Non-admin is rejected.
	rec := testkit.Do(t, a.handler, testkit.Get("/api/private/users").Bearer(userToken))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Not authorized as an admin", testkit.DecodeEnvelope(t, rec).Message)

	// Admin can list everyone.
	rec = testkit.Do(t, a.handler, testkit.Get("/api/private/users").Bearer(adminToken))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var profiles []struct {
		Username string `json:"username"`
	}
	testkit.DecodeData(t, rec, &profiles)
	assert.Len(t, profiles, 2)
}

func TestAdminUpdateUser(t *testing.T) {
	a := newAPI(t)
	a.register(t, "alice", "alice@example.com")
	adminToken := a.registerAdmin(t, "root", "root@example.com")

	user, err := a.users.FindByUsername(context.Background(), "alice")
	require.NoError(t, err)

	rec := testkit.Do(t, a.handler,
		testkit.Put("/api/private/users/"+user.ID.Hex()).Bearer(adminToken).JSON(map[string]any{
			"email":   "new@example.com",
			"isAdmin": true,
		}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	updated, err := a.users.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", updated.Email)
	assert.True(t, updated.IsAdmin)
}

func TestAdminDeleteUser(t *testing.T) {
	a := newAPI(t)
	a.register(t, "alice", "alice@example.com")
	adminToken := a.registerAdmin(t, "root", "root@example.com")

	user, err := a.users.FindByUsername(context.Background(), "alice")
	require.NoError(t, err)

	rec := testkit.Do(t, a.handler,
		testkit.Delete("/api/private/users/"+user.ID.Hex()).Bearer(adminToken))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	_, err = a.users.FindByID(context.Background(), user.ID)
	assert.Error(t, err)

	// A deleted user's token stops working.
	rec = testkit.Do(t, a.handler,
		testkit.Delete("/api/private/users/"+user.ID.Hex()).Bearer(adminToken))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminGetUnknownUser(t *testing.T) {
	a := newAPI(t)
	adminToken := a.registerAdmin(t, "root", "root@example.com")

	rec := testkit.Do(t, a.handler,
		testkit.Get("/api/private/users/ffffffffffffffffffffffff").Bearer(adminToken))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found", testkit.DecodeEnvelope(t, rec).Message)
}
