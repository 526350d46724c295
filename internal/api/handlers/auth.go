package handlers

import (
	"log/slog"
	"net/http"

	"github.com/dom/wallet-custody-api/internal/service"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type AuthHandler struct {
	authService *service.AuthService
	validate    *validator.Validate
	log         *slog.Logger
}

func NewAuthHandler(authService *service.AuthService, validate *validator.Validate, log *slog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, validate: validate, log: log}
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	Token string `json:"token" validate:"required"`
}

type AuthResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	log := h.requestLog(r, "handlers.Auth.Register")

	var req RegisterRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Debug("failed to decode request body", slog.String("err", err.Error()))
		writeMessage(w, r, http.StatusBadRequest, "Invalid request body", "")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		writeMessage(w, r, http.StatusBadRequest, "Email and password are required", validationDetail(err))
		return
	}

	result, err := h.authService.Register(r.Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, r, log, err, "Registration failed")
		return
	}

	writeJSON(w, r, http.StatusCreated, newAuthResponse(result))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := h.requestLog(r, "handlers.Auth.Login")

	var req LoginRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Debug("failed to decode request body", slog.String("err", err.Error()))
		writeMessage(w, r, http.StatusBadRequest, "Invalid request body", "")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		writeMessage(w, r, http.StatusBadRequest, "Email and password are required", validationDetail(err))
		return
	}

	result, err := h.authService.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, r, log, err, "Login failed")
		return
	}

	writeJSON(w, r, http.StatusOK, newAuthResponse(result))
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	log := h.requestLog(r, "handlers.Auth.Refresh")

	var req RefreshRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Debug("failed to decode request body", slog.String("err", err.Error()))
		writeMessage(w, r, http.StatusBadRequest, "Invalid request body", "")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		writeMessage(w, r, http.StatusBadRequest, "Refresh token is required", "")
		return
	}

	pair, err := h.authService.Refresh(r.Context(), req.Token)
	if err != nil {
		writeError(w, r, log, err, "Refresh failed")
		return
	}

	writeJSON(w, r, http.StatusOK, TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (h *AuthHandler) requestLog(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", chiMiddleware.GetReqID(r.Context())),
	)
}

func newAuthResponse(result *service.AuthResult) AuthResponse {
	return AuthResponse{
		User: UserResponse{
			ID:    result.User.ID.String(),
			Email: result.User.Email,
		},
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	}
}
