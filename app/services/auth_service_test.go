package services_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hendryprasetyo/storefront/app/models"
	"github.com/hendryprasetyo/storefront/app/repositories"
	"github.com/hendryprasetyo/storefront/app/services"
	"github.com/hendryprasetyo/storefront/pkg/apperr"
)

// fakeMailer records deliveries; fail makes every Send error.
type fakeMailer struct {
	to      string
	subject string
	body    string
	fail    bool
	sent    int
}

func (m *fakeMailer) Send(to, subject, body string) error {
	if m.fail {
		return errors.New("smtp: connection refused")
	}
	m.to = to
	m.subject = subject
	m.body = body
	m.sent++
	return nil
}

func newService(t *testing.T) (*services.AuthService, *repositories.MemoryUserStore, *fakeMailer) {
	t.Helper()
	users := repositories.NewMemoryUserStore()
	mailer := &fakeMailer{}
	return services.NewAuthService(users, mailer), users, mailer
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	return ae.Status
}

func TestRegister(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	profile, err := svc.Register(ctx, "alice", "a@x.com", "longpassword")
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.Username)
	assert.Equal(t, "a@x.com", profile.Email)
	assert.False(t, profile.IsAdmin)
	assert.Empty(t, profile.Token, "registration must not issue a token")
}

func TestRegisterShortPassword(t *testing.T) {
	svc, _, _ := newService(t)

	_, err := svc.Register(context.Background(), "alice", "a@x.com", "short")
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, users, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "a@x.com", "longpassword")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "other@x.com", "longpassword")
	assert.Equal(t, http.StatusConflict, statusOf(t, err))

	// Never two records with the same username.
	all, err := users.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "a@x.com", "longpassword")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "bob", "a@x.com", "longpassword")
	assert.Equal(t, http.StatusConflict, statusOf(t, err))
}

// racingUserStore hides existing accounts from the pre-insert lookups,
// reproducing the window where a concurrent registration lands between
// the existence checks and the insert.
type racingUserStore struct {
	*repositories.MemoryUserStore
}

func (s *racingUserStore) FindByUsername(context.Context, string) (models.User, error) {
	return models.User{}, repositories.ErrNotFound
}

func (s *racingUserStore) FindByEmail(context.Context, string) (models.User, error) {
	return models.User{}, repositories.ErrNotFound
}

func TestRegisterUniqueIndexBackstop(t *testing.T) {
	inner := repositories.NewMemoryUserStore()
	svc := services.NewAuthService(&racingUserStore{inner}, &fakeMailer{})
	ctx := context.Background()

	seeded := models.User{Username: "alice", Email: "a@x.com", Password: "hash"}
	require.NoError(t, inner.Create(ctx, &seeded))

	// Both lookups miss, so the insert itself reports the conflict.
	_, err := svc.Register(ctx, "alice", "a@x.com", "longpassword")
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, http.StatusConflict, ae.Status)
	assert.Equal(t, "Username or email already exist", ae.Message)
}

func TestRegisterNeverStoresPlaintextPassword(t *testing.T) {
	svc, users, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "a@x.com", "longpassword")
	require.NoError(t, err)

	stored, err := users.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "longpassword", stored.Password)
	assert.NotContains(t, stored.Password, "longpassword")
}

func TestLogin(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "a@x.com", "longpassword")
	require.NoError(t, err)

	profile, err := svc.Login(ctx, "alice", "longpassword")
	require.NoError(t, err)
	assert.NotEmpty(t, profile.Token)
	assert.Equal(t, "alice", profile.Username)
}

func TestLoginMissingFields(t *testing.T) {
	svc, _, _ := newService(t)

	_, err := svc.Login(context.Background(), "", "longpassword")
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	_, err = svc.Login(context.Background(), "alice", "")
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
}

func TestLoginUnknownUsername(t *testing.T) {
	svc, _, _ := newService(t)

	_, err := svc.Login(context.Background(), "nobody", "longpassword")
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "a@x.com", "longpassword")
	require.NoError(t, err)

	profile, err := svc.Login(ctx, "alice", "wrong")
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
	assert.Empty(t, profile.Token, "no token on a failed login")
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	svc, _, _ := newService(t)

	err := svc.ForgotPassword(context.Background(), "nobody@x.com")
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestForgotPasswordStoresOnlyHash(t *testing.T) {
	svc, users, mailer := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "a@x.com", "longpassword")
	require.NoError(t, err)

	require.NoError(t, svc.ForgotPassword(ctx, "a@x.com"))
	assert.Equal(t, 1, mailer.sent)
	assert.Equal(t, "a@x.com", mailer.to)

	stored, err := users.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.NotEmpty(t, stored.ResetPasswordToken)
	assert.False(t, stored.ResetPasswordExpire.IsZero())

	// The emailed link carries the raw token, which must differ from
	// the persisted hash.
	assert.NotContains(t, mailer.body, stored.ResetPasswordToken)
	assert.Contains(t, mailer.body, "passwordreset/")
}

func TestForgotPasswordRollsBackOnDeliveryFailure(t *testing.T) {
	svc, users, mailer := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "a@x.com", "longpassword")
	require.NoError(t, err)

	mailer.fail = true
	err = svc.ForgotPassword(ctx, "a@x.com")
	assert.Equal(t, http.StatusInternalServerError, statusOf(t, err))

	stored, err := users.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Empty(t, stored.ResetPasswordToken, "token must be rolled back")
	assert.True(t, stored.ResetPasswordExpire.IsZero())
}

func TestResetPassword(t *testing.T) {
	svc, _, mailer := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "a@x.com", "longpassword")
	require.NoError(t, err)
	require.NoError(t, svc.ForgotPassword(ctx, "a@x.com"))

	raw := tokenFromEmail(t, mailer.body)

	require.NoError(t, svc.ResetPassword(ctx, raw, "newlongpassword"))

	// Old password no longer works; the new one does.
	_, err = svc.Login(ctx, "alice", "longpassword")
	assert.Error(t, err)
	profile, err := svc.Login(ctx, "alice", "newlongpassword")
	require.NoError(t, err)
	assert.NotEmpty(t, profile.Token)
}

func TestResetPasswordTokenSingleUse(t *testing.T) {
	svc, _, mailer := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "a@x.com", "longpassword")
	require.NoError(t, err)
	require.NoError(t, svc.ForgotPassword(ctx, "a@x.com"))

	raw := tokenFromEmail(t, mailer.body)
	require.NoError(t, svc.ResetPassword(ctx, raw, "newlongpassword"))

	err = svc.ResetPassword(ctx, raw, "anotherpassword")
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
}

func TestResetPasswordInvalidToken(t *testing.T) {
	svc, _, _ := newService(t)

	err := svc.ResetPassword(context.Background(), "deadbeef", "newlongpassword")
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
}

// tokenFromEmail pulls the raw reset token out of the emailed link.
func tokenFromEmail(t *testing.T, body string) string {
	t.Helper()
	idx := strings.LastIndex(body, "passwordreset/")
	require.NotEqual(t, -1, idx, "reset link missing from email body")
	rest := body[idx+len("passwordreset/"):]
	if end := strings.IndexAny(rest, "< >\n\t"); end != -1 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest)
}
