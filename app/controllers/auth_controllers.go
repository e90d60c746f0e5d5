// Package controllers holds the HTTP handlers. Controllers bind and
// validate the request, delegate to services or stores, and translate
// errors into the JSON envelope.
package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hendryprasetyo/storefront/app/services"
	"github.com/hendryprasetyo/storefront/pkg/bind"
	"github.com/hendryprasetyo/storefront/pkg/logger"
	"github.com/hendryprasetyo/storefront/pkg/response"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username" validate:"required,alpha_dash,max=50"`
		Email    string `json:"email"    validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	profile, err := c.service.Register(r.Context(), body.Username, body.Email, body.Password)
	if err != nil {
		response.AppError(w, err)
		return
	}

	logger.WithCtx(r.Context()).Info("user registered", "username", profile.Username)
	response.Created(w, profile)
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if _, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	profile, err := c.service.Login(r.Context(), body.Username, body.Password)
	if err != nil {
		response.AppError(w, err)
		return
	}

	response.Success(w, profile)
}

func (c *AuthController) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email" validate:"required,email"`
	}

	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := c.service.ForgotPassword(r.Context(), body.Email); err != nil {
		response.AppError(w, err)
		return
	}

	response.Success(w, "Email Sent")
}

func (c *AuthController) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Password string `json:"password"`
	}

	if _, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	token := chi.URLParam(r, "resetToken")
	if err := c.service.ResetPassword(r.Context(), token, body.Password); err != nil {
		response.AppError(w, err)
		return
	}

	response.Created(w, "Password Reset Success")
}
