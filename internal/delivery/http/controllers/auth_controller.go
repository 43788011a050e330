package controllers

import (
	"log/slog"
	"net/http"

	h "eventfinder/internal/delivery/http/helpers"
	"eventfinder/internal/domain"
)

// RegisterRequest is the request body for POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=255" example:"ada@example.com"`
	Password string `json:"password" validate:"required,strongpassword,max=128" example:"Str0ng!pass"`
}

// LoginRequest is the request body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email" example:"ada@example.com"`
	Password string `json:"password" validate:"required" example:"Str0ng!pass"`
}

type AuthController struct {
	Logger  *slog.Logger
	Service domain.AuthService
}

func NewAuthController(logger *slog.Logger, svc domain.AuthService) *AuthController {
	return &AuthController{
		Logger:  logger,
		Service: svc,
	}
}

// Register godoc
// @Summary Register a new user
// @Description Creates a USER account and returns a session token valid for 6 hours.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "Credentials"
// @Success 201 {object} domain.AuthResult
// @Failure 400 {object} helpers.ErrorResponse "validation failed or email already registered"
// @Failure 500 {object} helpers.ErrorResponse
// @Router /auth/register [post]
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	res, err := c.Service.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, res)
}

// Login godoc
// @Summary Log in
// @Description Exchanges email and password for a session token valid for 6 hours.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} domain.AuthResult
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 401 {object} helpers.ErrorResponse "Invalid credentials"
// @Failure 500 {object} helpers.ErrorResponse
// @Router /auth/login [post]
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	res, err := c.Service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, res)
}
