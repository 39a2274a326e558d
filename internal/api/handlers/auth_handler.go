package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/facilityreservation/internal/api/middleware"
	"github.com/zatekoja/facilityreservation/internal/application/services"
	"github.com/zatekoja/facilityreservation/internal/domain/entities"
	apperrors "github.com/zatekoja/facilityreservation/pkg/errors"
)

// IdentityService is the part of the identity registry the HTTP layer uses
type IdentityService interface {
	Register(ctx context.Context, in services.RegisterInput) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	Logout(ctx context.Context, sessionID string) error
	ApproveUser(ctx context.Context, actor *entities.User, id string) (*entities.User, error)
	BlockUser(ctx context.Context, actor *entities.User, id string) (*entities.User, error)
	PendingUsers(ctx context.Context) ([]*entities.User, error)
	ListUsers(ctx context.Context) ([]*entities.User, error)
}

// AuthHandler handles registration, login and logout
type AuthHandler struct {
	identity IdentityService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(identity IdentityService) *AuthHandler {
	return &AuthHandler{identity: identity}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterInput
	if err := decodeJSON(r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	result, err := h.identity.Register(r.Context(), req)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if result.Token != "" {
		setSessionCookie(w, result)
	}
	respondOK(w, http.StatusCreated, result.Message, result)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if req.Email == "" {
		respondWithError(w, http.StatusBadRequest, "Email is required")
		return
	}

	result, err := h.identity.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	setSessionCookie(w, result)
	respondOK(w, http.StatusOK, result.Message, result)
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	if session == nil {
		respondWithAppError(w, r, apperrors.NewUnauthorizedError(services.MsgNotLoggedIn))
		return
	}
	if err := h.identity.Logout(r.Context(), session.ID); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	respondOK(w, http.StatusOK, "Logged out", nil)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		respondWithAppError(w, r, apperrors.NewUnauthorizedError(services.MsgNotLoggedIn))
		return
	}
	respondOK(w, http.StatusOK, "", user)
}

func setSessionCookie(w http.ResponseWriter, result *services.AuthResult) {
	cookie := &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    result.Token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if result.ExpiresAt != nil {
		cookie.Expires = *result.ExpiresAt
	}
	http.SetCookie(w, cookie)
}
