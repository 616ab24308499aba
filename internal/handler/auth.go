package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/withlumeo/lumeo/internal/apperror"
	"github.com/withlumeo/lumeo/internal/auth"
	"github.com/withlumeo/lumeo/internal/service"
)

// AuthHandler exposes registration, login, and account deletion.
type AuthHandler struct {
	authService *service.AuthService
	logger      *slog.Logger
}

func NewAuthHandler(authService *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, logger: logger}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type deleteUserRequest struct {
	Username string `json:"username"`
}

type authResponse struct {
	Message string `json:"message"`
	User    any    `json:"user"`
	Token   string `json:"token"`
}

// HandleRegister creates an account and its placeholder portfolio.
//
// HTTP: POST /api/auth/register
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	result, err := h.authService.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{
		Message: "registration successful",
		User:    result.User,
		Token:   result.Token,
	})
}

// HandleLogin authenticates and issues a fresh token.
//
// HTTP: POST /api/auth/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	result, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		Message: "login successful",
		User:    result.User,
		Token:   result.Token,
	})
}

// HandleDeleteUser removes the caller's account by username.
//
// HTTP: DELETE /api/auth/user
// Auth: required; the named account must belong to the caller.
func (h *AuthHandler) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("valid authentication required"))
		return
	}

	var req deleteUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	if err := h.authService.DeleteUser(r.Context(), userID, req.Username); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "user deleted"})
}
