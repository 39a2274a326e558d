package handlers

import (
	"net/http"

	"github.com/zatekoja/facilityreservation/internal/api/middleware"
)

// UserHandler handles account administration
type UserHandler struct {
	identity IdentityService
}

// NewUserHandler creates a new user handler
func NewUserHandler(identity IdentityService) *UserHandler {
	return &UserHandler{identity: identity}
}

// ListUsers handles GET /api/admin/users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.identity.ListUsers(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, "", users)
}

// PendingUsers handles GET /api/admin/users/pending
func (h *UserHandler) PendingUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.identity.PendingUsers(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, "", users)
}

// ApproveUser handles POST /api/admin/users/{id}/approve
func (h *UserHandler) ApproveUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.identity.ApproveUser(r.Context(), middleware.UserFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, "User approved", user)
}

// BlockUser handles POST /api/admin/users/{id}/block
func (h *UserHandler) BlockUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.identity.BlockUser(r.Context(), middleware.UserFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, "User blocked", user)
}
