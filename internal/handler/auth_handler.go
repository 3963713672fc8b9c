package handler

import (
	"net/http"

	"healthmate-be/internal/container"
	"healthmate-be/internal/domain"
	"healthmate-be/pkg/errors"
)

// AuthHandler handles authentication related requests
type AuthHandler struct {
	container *container.Container
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(container *container.Container) *AuthHandler {
	return &AuthHandler{container: container}
}

type credentialsRequest struct {
	Email    string                 `json:"email"`
	Password string                 `json:"password"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// SignIn handles POST /api/auth/signin
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()

	var req credentialsRequest
	if appErr := decodeBody(r, &req); appErr != nil {
		writeError(w, appErr, logger)
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, errors.NewValidationError("Email and password are required", nil), logger)
		return
	}

	result := h.container.GetSessionStore().SignIn(r.Context(), req.Email, req.Password)
	status := http.StatusOK
	if !result.Success {
		status = http.StatusUnauthorized
	}
	writeJSON(w, status, result, logger)
}

// SignUp handles POST /api/auth/signup
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()

	var req credentialsRequest
	if appErr := decodeBody(r, &req); appErr != nil {
		writeError(w, appErr, logger)
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, errors.NewValidationError("Email and password are required", nil), logger)
		return
	}

	result := h.container.GetSessionStore().SignUp(r.Context(), req.Email, req.Password, req.Metadata)
	status := http.StatusOK
	if !result.Success {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, result, logger)
}

// SignOut handles POST /api/auth/signout
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()

	result := h.container.GetSessionStore().SignOut(r.Context())
	status := http.StatusOK
	if !result.Success {
		status = http.StatusBadGateway
	}
	writeJSON(w, status, result, logger)
}

// ResetPassword handles POST /api/auth/reset-password
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()

	var req struct {
		Email string `json:"email"`
	}
	if appErr := decodeBody(r, &req); appErr != nil {
		writeError(w, appErr, logger)
		return
	}
	if req.Email == "" {
		writeError(w, errors.NewValidationError("Email is required", nil), logger)
		return
	}

	result := h.container.GetSessionStore().ResetPassword(r.Context(), req.Email)
	status := http.StatusOK
	if !result.Success {
		status = http.StatusBadGateway
	}
	writeJSON(w, status, result, logger)
}

// LoginPage handles GET /login
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"page":    "login",
	}, h.container.GetLogger())
}

// SignupPage handles GET /signup
func (h *AuthHandler) SignupPage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"page":    "signup",
	}, h.container.GetLogger())
}

// Session handles GET /api/auth/session
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.container.GetSessionStore().Snapshot(), h.container.GetLogger())
}

// GetProfile handles GET /api/user/profile
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()

	snap := h.container.GetSessionStore().Snapshot()
	if !snap.Authenticated() {
		writeError(w, errors.NewAuthenticationError("No active user"), logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    snap.User,
		"profile": snap.Profile,
	}, logger)
}

// UpdateProfile handles PUT /api/user/profile
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()

	var update domain.ProfileUpdate
	if appErr := decodeBody(r, &update); appErr != nil {
		writeError(w, appErr, logger)
		return
	}

	result := h.container.GetSessionStore().UpdateProfile(r.Context(), update)
	status := http.StatusOK
	if !result.Success {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, result, logger)
}
