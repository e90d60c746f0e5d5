// Package services holds the business logic behind the controllers.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hendryprasetyo/storefront/app/models"
	"github.com/hendryprasetyo/storefront/app/repositories"
	"github.com/hendryprasetyo/storefront/config"
	"github.com/hendryprasetyo/storefront/pkg/apperr"
	"github.com/hendryprasetyo/storefront/pkg/auth"
	"github.com/hendryprasetyo/storefront/pkg/logger"
	"github.com/hendryprasetyo/storefront/pkg/mail"
)

// resetTokenTTL is the validity window promised in the reset email.
const resetTokenTTL = 10 * time.Minute

// AuthService owns registration, login, and the password-reset flow.
type AuthService struct {
	users  repositories.UserStore
	mailer mail.Sender
}

func NewAuthService(users repositories.UserStore, mailer mail.Sender) *AuthService {
	return &AuthService{users: users, mailer: mailer}
}

// Register creates an account and returns its public profile. No token
// is issued at registration; the client logs in afterwards.
//
// The duplicate checks and the create are not atomic: two concurrent
// registrations can race past both lookups. The unique indexes created
// by `storefront db:index` are the backstop, surfacing as ErrDuplicate.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (models.Profile, error) {
	if len(password) < 8 {
		return models.Profile{}, apperr.BadRequest("Enter a password of at least 8 characters")
	}

	if _, err := s.users.FindByUsername(ctx, username); !errors.Is(err, repositories.ErrNotFound) {
		if err != nil {
			return models.Profile{}, err
		}
		return models.Profile{}, apperr.Conflict("Username already exist")
	}

	if _, err := s.users.FindByEmail(ctx, email); !errors.Is(err, repositories.ErrNotFound) {
		if err != nil {
			return models.Profile{}, err
		}
		return models.Profile{}, apperr.Conflict("Email already exist")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.Profile{}, err
	}

	user := models.User{
		Username: username,
		Email:    email,
		Password: hash,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			// Lost the check-then-create race; the unique index does
			// not say which field collided.
			return models.Profile{}, apperr.Conflict("Username or email already exist")
		}
		return models.Profile{}, err
	}

	logger.WithCtx(ctx).Info("user registered", "user_id", user.ID.Hex(), "username", username)
	return user.Profile(""), nil
}

// Login verifies the credentials and returns the public profile with a
// fresh bearer token.
func (s *AuthService) Login(ctx context.Context, username, password string) (models.Profile, error) {
	if username == "" || password == "" {
		return models.Profile{}, apperr.BadRequest("Please provide username and password")
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.Profile{}, apperr.NotFound("Username not found")
		}
		return models.Profile{}, err
	}

	if !auth.CheckPassword(user.Password, password) {
		return models.Profile{}, apperr.Unauthorized("Password invalid")
	}

	token, err := auth.GenerateToken(user.ID.Hex())
	if err != nil {
		return models.Profile{}, err
	}

	return user.Profile(token), nil
}

// ForgotPassword generates a single-use reset token, persists only its
// hash plus an expiry, and emails the plaintext token as a link. A
// delivery failure rolls the stored token back so the account is left
// exactly as it was.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperr.NotFound("Email could not be sent")
		}
		return err
	}

	raw, hash, err := auth.NewResetToken()
	if err != nil {
		return err
	}

	user.ResetPasswordToken = hash
	user.ResetPasswordExpire = time.Now().Add(resetTokenTTL)
	if err := s.users.Update(ctx, &user); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/%s", config.ResetPasswordURL(), raw)
	body := fmt.Sprintf(`
	<h1>You have requested a password reset</h1>
	<p>Please go to this link to reset your password</p>
	<a href=%s clicktracking=off>%s</a>
	`, resetURL, resetURL)

	if err := s.mailer.Send(user.Email, "Password Reset Request", body); err != nil {
		logger.WithCtx(ctx).Error("reset email delivery failed", "user_id", user.ID.Hex(), "error", err)

		user.ResetPasswordToken = ""
		user.ResetPasswordExpire = time.Time{}
		if rbErr := s.users.Update(ctx, &user); rbErr != nil {
			logger.WithCtx(ctx).Error("reset token rollback failed", "user_id", user.ID.Hex(), "error", rbErr)
		}
		return apperr.Internal("Email could not be sent")
	}

	return nil
}

// ResetPassword consumes a reset token: the presented token is hashed
// and matched against an unexpired stored hash. On success the password
// is replaced and the token cleared, so a second use fails.
func (s *AuthService) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	if len(newPassword) < 8 {
		return apperr.BadRequest("Enter a password of at least 8 characters")
	}

	user, err := s.users.FindByResetToken(ctx, auth.HashResetToken(rawToken), time.Now())
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperr.BadRequest("Invalid Reset Token")
		}
		return err
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	user.Password = hash
	user.ResetPasswordToken = ""
	user.ResetPasswordExpire = time.Time{}
	if err := s.users.Update(ctx, &user); err != nil {
		return err
	}

	logger.WithCtx(ctx).Info("password reset", "user_id", user.ID.Hex())
	return nil
}
