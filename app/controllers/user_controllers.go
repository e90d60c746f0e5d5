package controllers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hendryprasetyo/storefront/app/models"
	"github.com/hendryprasetyo/storefront/app/repositories"
	"github.com/hendryprasetyo/storefront/pkg/auth"
	"github.com/hendryprasetyo/storefront/pkg/bind"
	"github.com/hendryprasetyo/storefront/pkg/logger"
	"github.com/hendryprasetyo/storefront/pkg/middleware"
	"github.com/hendryprasetyo/storefront/pkg/response"
)

type UserController struct {
	users repositories.UserStore
}

func NewUserController(users repositories.UserStore) *UserController {
	return &UserController{users: users}
}

// PrivateData confirms the bearer token grants access to the private routes.
func (c *UserController) PrivateData(w http.ResponseWriter, r *http.Request) {
	response.Success(w, "You got access to the private data in this route")
}

// GetProfile returns the authenticated user's own profile. The path id
// is accepted but the response is always the caller's account.
func (c *UserController) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		response.Unauthorized(w, "Not authorized to access this route")
		return
	}

	response.Success(w, user.Profile(""))
}

// UpdateProfile applies partial changes to the caller's own account and
// returns the profile with a freshly issued token.
func (c *UserController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		response.Unauthorized(w, "Not authorized to access this route")
		return
	}

	var body struct {
		Username string `json:"username" validate:"nullable,alpha_dash,max=50"`
		Email    string `json:"email"    validate:"nullable,email"`
		Password string `json:"password"`
	}

	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if body.Username != "" {
		user.Username = body.Username
	}
	if body.Email != "" {
		user.Email = body.Email
	}
	if body.Password != "" {
		if len(body.Password) < 8 {
			response.Error(w, http.StatusBadRequest, "Enter a password of at least 8 characters")
			return
		}
		hash, err := auth.HashPassword(body.Password)
		if err != nil {
			response.AppError(w, err)
			return
		}
		user.Password = hash
	}

	if err := c.users.Update(r.Context(), &user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			response.Error(w, http.StatusConflict, "Username or email already in use")
			return
		}
		response.AppError(w, err)
		return
	}

	token, err := auth.GenerateToken(user.ID.Hex())
	if err != nil {
		response.AppError(w, err)
		return
	}

	logger.WithCtx(r.Context()).Info("profile updated", "user_id", user.ID.Hex())
	response.Success(w, user.Profile(token))
}

// ListUsers returns every account. Admin only.
func (c *UserController) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := c.users.All(r.Context())
	if err != nil {
		response.AppError(w, err)
		return
	}

	profiles := make([]models.Profile, 0, len(users))
	for i := range users {
		profiles = append(profiles, users[i].Profile(""))
	}

	response.Success(w, profiles)
}

// GetUser returns one account by id. Admin only.
func (c *UserController) GetUser(w http.ResponseWriter, r *http.Request) {
	user, ok := c.findUser(w, r)
	if !ok {
		return
	}

	response.Success(w, user.Profile(""))
}

// UpdateUser lets an admin change username, email, and the admin flag.
func (c *UserController) UpdateUser(w http.ResponseWriter, r *http.Request) {
	user, ok := c.findUser(w, r)
	if !ok {
		return
	}

	var body struct {
		Username string `json:"username" validate:"nullable,alpha_dash,max=50"`
		Email    string `json:"email"    validate:"nullable,email"`
		IsAdmin  *bool  `json:"isAdmin"`
	}

	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if body.Username != "" {
		user.Username = body.Username
	}
	if body.Email != "" {
		user.Email = body.Email
	}
	if body.IsAdmin != nil {
		user.IsAdmin = *body.IsAdmin
	}

	if err := c.users.Update(r.Context(), &user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			response.Error(w, http.StatusConflict, "Username or email already in use")
			return
		}
		response.AppError(w, err)
		return
	}

	response.Success(w, user.Profile(""))
}

// DeleteUser removes an account. Admin only.
func (c *UserController) DeleteUser(w http.ResponseWriter, r *http.Request) {
	user, ok := c.findUser(w, r)
	if !ok {
		return
	}

	if err := c.users.Delete(r.Context(), user.ID); err != nil {
		response.AppError(w, err)
		return
	}

	logger.WithCtx(r.Context()).Info("user deleted", "user_id", user.ID.Hex())
	response.Message(w, "User removed")
}

// findUser resolves the {id} path segment. Writes the 404 itself so
// callers just bail out on !ok.
func (c *UserController) findUser(w http.ResponseWriter, r *http.Request) (models.User, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		response.NotFound(w, "User not found")
		return models.User{}, false
	}

	user, err := c.users.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			response.NotFound(w, "User not found")
			return models.User{}, false
		}
		response.AppError(w, err)
		return models.User{}, false
	}

	return user, true
}
