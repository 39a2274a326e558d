package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/zatekoja/facilityreservation/internal/api/middleware"
	"github.com/zatekoja/facilityreservation/internal/application/services"
	"github.com/zatekoja/facilityreservation/internal/domain/entities"
)

// FacilityService is the part of the facility registry the HTTP layer uses
type FacilityService interface {
	AddFacility(ctx context.Context, manager *entities.User, in services.FacilityInput) (*entities.Facility, error)
	GetFacility(ctx context.Context, id string) (*entities.Facility, error)
	ListFacilities(ctx context.Context) ([]*entities.Facility, error)
	FacilitiesByManager(ctx context.Context, managerID string) ([]*entities.Facility, error)
	BlockDate(ctx context.Context, facilityID, date string) (*entities.Facility, error)
	UnblockDate(ctx context.Context, facilityID, date string) (*entities.Facility, error)
}

// AvailabilityService previews whether dates can be reserved
type AvailabilityService interface {
	Availability(ctx context.Context, facilityID string, dates []string) ([]services.DateAvailability, error)
}

// FacilityHandler handles facility-related HTTP requests
type FacilityHandler struct {
	facilities   FacilityService
	availability AvailabilityService
}

// NewFacilityHandler creates a new facility handler
func NewFacilityHandler(facilities FacilityService, availability AvailabilityService) *FacilityHandler {
	return &FacilityHandler{
		facilities:   facilities,
		availability: availability,
	}
}

type blockDateRequest struct {
	Date string `json:"date"`
}

// ListFacilities handles GET /api/facilities
func (h *FacilityHandler) ListFacilities(w http.ResponseWriter, r *http.Request) {
	facilities, err := h.facilities.ListFacilities(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, "", facilities)
}

// GetFacility handles GET /api/facilities/{id}
func (h *FacilityHandler) GetFacility(w http.ResponseWriter, r *http.Request) {
	facility, err := h.facilities.GetFacility(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, "", facility)
}

// GetAvailability handles GET /api/facilities/{id}/availability?dates=a,b
func (h *FacilityHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	dates := splitDates(r.URL.Query().Get("dates"))
	result, err := h.availability.Availability(r.Context(), r.PathValue("id"), dates)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, "", result)
}

// ManagedFacilities handles GET /api/manager/facilities
func (h *FacilityHandler) ManagedFacilities(w http.ResponseWriter, r *http.Request) {
	manager := middleware.UserFromContext(r.Context())
	facilities, err := h.facilities.FacilitiesByManager(r.Context(), manager.ID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, "", facilities)
}

// AddFacility handles POST /api/manager/facilities
func (h *FacilityHandler) AddFacility(w http.ResponseWriter, r *http.Request) {
	var req services.FacilityInput
	if err := decodeJSON(r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	facility, err := h.facilities.AddFacility(r.Context(), middleware.UserFromContext(r.Context()), req)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondOK(w, http.StatusCreated, "Facility added", facility)
}

// BlockDate handles POST /api/manager/facilities/{id}/blocked-dates
func (h *FacilityHandler) BlockDate(w http.ResponseWriter, r *http.Request) {
	var req blockDateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	facility, err := h.facilities.BlockDate(r.Context(), r.PathValue("id"), req.Date)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, "Date blocked", facility)
}

// UnblockDate handles DELETE /api/manager/facilities/{id}/blocked-dates/{date}
func (h *FacilityHandler) UnblockDate(w http.ResponseWriter, r *http.Request) {
	facility, err := h.facilities.UnblockDate(r.Context(), r.PathValue("id"), r.PathValue("date"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, "Date unblocked", facility)
}

func splitDates(raw string) []string {
	var dates []string
	for _, d := range strings.Split(raw, ",") {
		if d = strings.TrimSpace(d); d != "" {
			dates = append(dates, d)
		}
	}
	return dates
}
