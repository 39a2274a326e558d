package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/facilityreservation/internal/api/middleware"
	"github.com/zatekoja/facilityreservation/internal/application/services"
	"github.com/zatekoja/facilityreservation/internal/domain/entities"
)

// ReservationService is the reservation workflow the HTTP layer uses
type ReservationService interface {
	CreateReservation(ctx context.Context, caller *entities.User, facilityID string, dates []string, reason string) (*services.ReservationResult, error)
	ApproveReservation(ctx context.Context, actor *entities.User, id string) (*entities.Reservation, error)
	DenyReservation(ctx context.Context, actor *entities.User, id string) (*entities.Reservation, error)
	CancelReservation(ctx context.Context, actor *entities.User, id string) (*entities.Reservation, error)
	PendingReservations(ctx context.Context) ([]*entities.Reservation, error)
	ReservationsByManager(ctx context.Context, managerID string) ([]*entities.Reservation, error)
	ReservationsByUser(ctx context.Context, userID string) ([]*entities.Reservation, error)
}

// ReservationHandler handles reservation requests and decisions
type ReservationHandler struct {
	reservations ReservationService
}

// NewReservationHandler creates a new reservation handler
func NewReservationHandler(reservations ReservationService) *ReservationHandler {
	return &ReservationHandler{reservations: reservations}
}

type createReservationRequest struct {
	FacilityID string   `json:"facility_id"`
	Dates      []string `json:"dates"`
	Reason     string   `json:"reason,omitempty"`
}

// CreateReservation handles POST /api/reservations
func (h *ReservationHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	var req createReservationRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	result, err := h.reservations.CreateReservation(r.Context(), middleware.UserFromContext(r.Context()), req.FacilityID, req.Dates, req.Reason)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondOK(w, http.StatusCreated, result.Message, result.Reservation)
}

// MyReservations handles GET /api/reservations/mine
func (h *ReservationHandler) MyReservations(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	reservations, err := h.reservations.ReservationsByUser(r.Context(), user.ID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, "", reservations)
}

// CancelReservation handles POST /api/reservations/{id}/cancel
func (h *ReservationHandler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	reservation, err := h.reservations.CancelReservation(r.Context(), middleware.UserFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, "Reservation cancelled", reservation)
}

// ManagedReservations handles GET /api/manager/reservations
func (h *ReservationHandler) ManagedReservations(w http.ResponseWriter, r *http.Request) {
	manager := middleware.UserFromContext(r.Context())
	reservations, err := h.reservations.ReservationsByManager(r.Context(), manager.ID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, "", reservations)
}

// PendingReservations handles GET /api/admin/reservations/pending
func (h *ReservationHandler) PendingReservations(w http.ResponseWriter, r *http.Request) {
	reservations, err := h.reservations.PendingReservations(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, "", reservations)
}

// ApproveReservation handles POST /api/{admin,manager}/reservations/{id}/approve
func (h *ReservationHandler) ApproveReservation(w http.ResponseWriter, r *http.Request) {
	reservation, err := h.reservations.ApproveReservation(r.Context(), middleware.UserFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, "", reservation)
}

// DenyReservation handles POST /api/{admin,manager}/reservations/{id}/deny
func (h *ReservationHandler) DenyReservation(w http.ResponseWriter, r *http.Request) {
	reservation, err := h.reservations.DenyReservation(r.Context(), middleware.UserFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, "", reservation)
}
