package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/robertgriman1702/daka-technical-assessment/internal/middleware"
	"github.com/robertgriman1702/daka-technical-assessment/internal/model"
	"github.com/robertgriman1702/daka-technical-assessment/internal/service"
	"github.com/robertgriman1702/daka-technical-assessment/pkg/apierror"
)

const minPasswordLength = 6

type AuthHandler struct {
	service *service.AuthService
}

func NewAuthHandler(service *service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body"))
		return
	}

	payload.Username = strings.TrimSpace(payload.Username)
	if payload.Username == "" || payload.Password == "" {
		writeError(w, apierror.BadRequest("username and password are required"))
		return
	}
	if len(payload.Password) < minPasswordLength {
		writeError(w, apierror.BadRequest("password must be at least 6 characters"))
		return
	}
	if payload.ConfirmPassword != payload.Password {
		writeError(w, apierror.BadRequest("Passwords do not match"))
		return
	}

	if err := h.service.Register(r.Context(), payload.Username, payload.Password); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusCreated, "User registered successfully")
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body"))
		return
	}

	result, err := h.service.Login(r.Context(), payload.Username, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Logout revokes the presented token. The route runs behind RequireAuth, so
// the token in the context is the one that was just validated.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	tokenString, ok := middleware.TokenFromContext(r.Context())
	if !ok {
		tokenString, _ = middleware.BearerToken(r)
	}

	h.service.Logout(tokenString)
	writeMessage(w, http.StatusOK, "Logged out successfully")
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("invalid or expired token"))
		return
	}

	writeJSON(w, http.StatusOK, identity)
}
