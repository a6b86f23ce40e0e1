package server

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/resume-editor/internal/types"
)

// AuthHandler serves the /auth routes.
type AuthHandler struct {
	users     *UserService
	tokens    *JWTService
	validator *validator.Validate
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(users *UserService, tokens *JWTService) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, validator: validator.New()}
}

// Register creates an account and returns a session token for it.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req types.CreateUserRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}
	user, err := h.users.Register(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	h.issue(w, http.StatusCreated, user)
}

// Login exchanges credentials for a session token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}
	user, err := h.users.Login(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	h.issue(w, http.StatusOK, user)
}

// Me returns the account behind the session token.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	user, err := h.users.Profile(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UpdatePassword changes the password of the authenticated user.
func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req types.UpdatePasswordRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}
	if err := h.users.UpdatePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password updated successfully"})
}

func (h *AuthHandler) issue(w http.ResponseWriter, status int, user *types.User) {
	token, err := h.tokens.GenerateToken(user.ID)
	if err != nil {
		writeServiceError(w, fmt.Errorf("failed to generate token: %w", err))
		return
	}
	writeJSON(w, status, types.LoginResponse{User: user, Token: token})
}

// extractValidationErrors reports the first failing field.
func extractValidationErrors(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return "validation error: invalid request"
	}
	return fmt.Sprintf("validation error: %s - %s", verrs[0].Field(), verrs[0].Tag())
}
