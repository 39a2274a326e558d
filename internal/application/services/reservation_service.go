package services

import (
	"context"
	"slices"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/zatekoja/facilityreservation/internal/domain/entities"
	"github.com/zatekoja/facilityreservation/internal/domain/providers"
	"github.com/zatekoja/facilityreservation/internal/domain/repositories"
	"github.com/zatekoja/facilityreservation/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/facilityreservation/pkg/errors"
)

// User-facing workflow messages
const (
	MsgNotLoggedIn          = "Not logged in"
	MsgDatesNotAvailable    = "Selected dates are not available."
	MsgRequestSentApproval  = "Request sent for approval."
	MsgReservationConfirmed = "Reservation confirmed!"
	MsgReservationNotFound  = "Reservation not found"
	MsgFacilityNotFound     = "Facility not found"
)

// Reasons a date is unavailable
const (
	UnavailableBlocked  = "blocked"
	UnavailableReserved = "reserved"
)

// ReservationResult is the outcome of a successful reservation request
type ReservationResult struct {
	Reservation *entities.Reservation `json:"reservation"`
	Message     string                `json:"message"`
}

// DateAvailability reports whether one date can be reserved on a facility
type DateAvailability struct {
	Date      string `json:"date"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// ReservationServiceConfig holds workflow policy
type ReservationServiceConfig struct {
	// RecheckOnApprove re-validates dates against blocked dates and Confirmed
	// reservations when a Pending reservation is approved.
	RecheckOnApprove bool
}

// ReservationService implements the reservation admission and approval workflow
type ReservationService struct {
	reservations repositories.ReservationRepository
	facilities   repositories.FacilityRepository
	events       publisher
	metrics      *observability.Metrics
	cfg          ReservationServiceConfig
	now          func() time.Time

	// mu serialises admission and status transitions so the conflict check
	// and the write it guards see the same reservation list.
	mu sync.Mutex
}

// NewReservationService creates a new reservation service
func NewReservationService(
	reservations repositories.ReservationRepository,
	facilities repositories.FacilityRepository,
	cfg ReservationServiceConfig,
) *ReservationService {
	return &ReservationService{
		reservations: reservations,
		facilities:   facilities,
		cfg:          cfg,
		now:          time.Now,
	}
}

// SetEventBus sets the bus reservation events are published on
func (s *ReservationService) SetEventBus(bus providers.EventBus) {
	s.events = publisher{bus: bus}
}

// SetMetrics sets the metrics admission outcomes are recorded on
func (s *ReservationService) SetMetrics(metrics *observability.Metrics) {
	s.metrics = metrics
}

// CreateReservation requests facilityID on dates for caller. Internal clients
// get a Pending, fee-free request that keeps reason; everyone else gets a
// Confirmed reservation charged price per date.
func (s *ReservationService) CreateReservation(ctx context.Context, caller *entities.User, facilityID string, dates []string, reason string) (*ReservationResult, error) {
	ctx, span := observability.StartSpan(ctx, "ReservationService.CreateReservation")
	defer span.End()

	if caller == nil {
		return nil, apperrors.NewUnauthorizedError(MsgNotLoggedIn)
	}

	dates = uniqueDates(dates)
	if len(dates) == 0 {
		return nil, apperrors.NewValidationError("At least one date is required")
	}
	if err := entities.ValidateDates(dates); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	observability.SetSpanAttributes(span,
		attribute.String("facility.id", facilityID),
		attribute.String("user.id", caller.ID),
		attribute.Int("reservation.dates", len(dates)),
	)

	s.mu.Lock()
	reservation, err := s.admit(ctx, caller, facilityID, dates, reason)
	s.mu.Unlock()
	if err != nil {
		observability.RecordError(span, err)
		if apperrors.Is(err, apperrors.ErrorTypeConflict) {
			observability.RecordReservationOutcome(ctx, s.metrics, "conflict")
		}
		return nil, err
	}

	s.events.publish(ctx, providers.EventChannelReservations,
		entities.NewReservationEvent(entities.EventTypeReservationCreated, reservation, caller.ID))

	logger := observability.LoggerFromContext(ctx)
	logger.Info().
		Str("reservation_id", reservation.ID).
		Str("facility_id", facilityID).
		Str("user_id", caller.ID).
		Str("status", string(reservation.Status)).
		Float64("total_fee", reservation.TotalFee).
		Msg("Reservation created")

	if reservation.IsPending() {
		observability.RecordReservationOutcome(ctx, s.metrics, "pending")
		return &ReservationResult{Reservation: reservation, Message: MsgRequestSentApproval}, nil
	}
	observability.RecordReservationOutcome(ctx, s.metrics, "confirmed")
	return &ReservationResult{Reservation: reservation, Message: MsgReservationConfirmed}, nil
}

// admit must be called with s.mu held
func (s *ReservationService) admit(ctx context.Context, caller *entities.User, facilityID string, dates []string, reason string) (*entities.Reservation, error) {
	facility, err := s.getFacility(ctx, facilityID)
	if err != nil {
		return nil, err
	}

	confirmed, err := s.confirmedOn(ctx, facilityID)
	if err != nil {
		return nil, err
	}
	if hasConflict(facility, confirmed, dates, "") {
		return nil, apperrors.NewConflictError(MsgDatesNotAvailable)
	}

	reservation := &entities.Reservation{
		ID:         entities.NewID(entities.ReservationIDPrefix),
		FacilityID: facilityID,
		UserID:     caller.ID,
		Dates:      dates,
		CreatedAt:  s.now().UTC(),
	}
	if caller.IsInternalClient() {
		reservation.Status = entities.ReservationStatusPending
		reservation.TotalFee = 0
		reservation.Reason = reason
	} else {
		reservation.Status = entities.ReservationStatusConfirmed
		reservation.TotalFee = facility.Price * float64(len(dates))
	}

	if err := s.reservations.Create(ctx, reservation); err != nil {
		return nil, err
	}
	return reservation, nil
}

// Availability reports, per date, whether facilityID could be reserved now
func (s *ReservationService) Availability(ctx context.Context, facilityID string, dates []string) ([]DateAvailability, error) {
	dates = uniqueDates(dates)
	if len(dates) == 0 {
		return nil, apperrors.NewValidationError("At least one date is required")
	}
	if err := entities.ValidateDates(dates); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	facility, err := s.getFacility(ctx, facilityID)
	if err != nil {
		return nil, err
	}
	confirmed, err := s.confirmedOn(ctx, facilityID)
	if err != nil {
		return nil, err
	}

	out := make([]DateAvailability, 0, len(dates))
	for _, d := range dates {
		a := DateAvailability{Date: d, Available: true}
		switch {
		case facility.IsBlocked(d):
			a.Available, a.Reason = false, UnavailableBlocked
		case coveredBy(confirmed, d, ""):
			a.Available, a.Reason = false, UnavailableReserved
		}
		out = append(out, a)
	}
	return out, nil
}

// ApproveReservation confirms a Pending reservation. Any other status is
// returned unchanged.
func (s *ReservationService) ApproveReservation(ctx context.Context, actor *entities.User, id string) (*entities.Reservation, error) {
	return s.decide(ctx, actor, id, entities.ReservationStatusConfirmed, entities.EventTypeReservationApproved)
}

// DenyReservation denies a Pending reservation. Any other status is returned
// unchanged.
func (s *ReservationService) DenyReservation(ctx context.Context, actor *entities.User, id string) (*entities.Reservation, error) {
	return s.decide(ctx, actor, id, entities.ReservationStatusDenied, entities.EventTypeReservationDenied)
}

func (s *ReservationService) decide(ctx context.Context, actor *entities.User, id string, to entities.ReservationStatus, eventType entities.EventType) (*entities.Reservation, error) {
	ctx, span := observability.StartSpan(ctx, "ReservationService.Decide")
	defer span.End()
	observability.SetSpanAttributes(span,
		attribute.String("reservation.id", id),
		attribute.String("reservation.to", string(to)),
	)

	s.mu.Lock()
	reservation, changed, err := s.transitionPending(ctx, id, to)
	s.mu.Unlock()
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	if !changed {
		return reservation, nil
	}

	s.events.publish(ctx, providers.EventChannelReservations,
		entities.NewReservationEvent(eventType, reservation, actorID(actor)))

	observability.LoggerFromContext(ctx).Info().
		Str("reservation_id", id).
		Str("actor_id", actorID(actor)).
		Str("status", string(to)).
		Msg("Reservation decided")
	return reservation, nil
}

// transitionPending must be called with s.mu held
func (s *ReservationService) transitionPending(ctx context.Context, id string, to entities.ReservationStatus) (*entities.Reservation, bool, error) {
	reservation, err := s.getReservation(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if !reservation.IsPending() {
		return reservation, false, nil
	}

	if to == entities.ReservationStatusConfirmed && s.cfg.RecheckOnApprove {
		facility, err := s.getFacility(ctx, reservation.FacilityID)
		if err != nil {
			return nil, false, err
		}
		confirmed, err := s.confirmedOn(ctx, reservation.FacilityID)
		if err != nil {
			return nil, false, err
		}
		if hasConflict(facility, confirmed, reservation.Dates, reservation.ID) {
			return nil, false, apperrors.NewConflictError(MsgDatesNotAvailable)
		}
	}

	if err := s.reservations.UpdateStatus(ctx, id, to); err != nil {
		return nil, false, err
	}
	reservation.Status = to
	return reservation, true, nil
}

// CancelReservation sets a reservation to Cancelled regardless of its
// current status. Clients may only cancel their own reservations.
func (s *ReservationService) CancelReservation(ctx context.Context, actor *entities.User, id string) (*entities.Reservation, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorizedError(MsgNotLoggedIn)
	}

	s.mu.Lock()
	reservation, err := s.getReservation(ctx, id)
	if err == nil && isClient(actor) && reservation.UserID != actor.ID {
		err = apperrors.NewForbiddenError("You can only cancel your own reservations")
	}
	if err == nil {
		err = s.reservations.UpdateStatus(ctx, id, entities.ReservationStatusCancelled)
	}
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	reservation.Status = entities.ReservationStatusCancelled
	s.events.publish(ctx, providers.EventChannelReservations,
		entities.NewReservationEvent(entities.EventTypeReservationCancelled, reservation, actor.ID))

	observability.LoggerFromContext(ctx).Info().
		Str("reservation_id", id).
		Str("actor_id", actor.ID).
		Msg("Reservation cancelled")
	return reservation, nil
}

// GetReservation retrieves a reservation by ID
func (s *ReservationService) GetReservation(ctx context.Context, id string) (*entities.Reservation, error) {
	return s.getReservation(ctx, id)
}

// PendingReservations returns every reservation awaiting approval
func (s *ReservationService) PendingReservations(ctx context.Context) ([]*entities.Reservation, error) {
	return s.reservations.List(ctx, repositories.ReservationFilter{Status: entities.ReservationStatusPending})
}

// ReservationsByManager returns the reservations on facilities owned by managerID
func (s *ReservationService) ReservationsByManager(ctx context.Context, managerID string) ([]*entities.Reservation, error) {
	facilities, err := s.facilities.List(ctx, repositories.FacilityFilter{ManagerID: managerID})
	if err != nil {
		return nil, err
	}
	if len(facilities) == 0 {
		return []*entities.Reservation{}, nil
	}

	ids := make([]string, 0, len(facilities))
	for _, f := range facilities {
		ids = append(ids, f.ID)
	}
	return s.reservations.List(ctx, repositories.ReservationFilter{FacilityIDs: ids})
}

// ReservationsByUser returns the reservations requested by userID
func (s *ReservationService) ReservationsByUser(ctx context.Context, userID string) ([]*entities.Reservation, error) {
	return s.reservations.List(ctx, repositories.ReservationFilter{UserID: userID})
}

// ExpireStalePending cancels Pending reservations whose dates are all before
// today (YYYY-MM-DD) and returns how many were expired.
func (s *ReservationService) ExpireStalePending(ctx context.Context, today string) (int, error) {
	pending, err := s.PendingReservations(ctx)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, r := range pending {
		if !allBefore(r.Dates, today) {
			continue
		}

		s.mu.Lock()
		current, err := s.getReservation(ctx, r.ID)
		if err == nil && current.IsPending() {
			err = s.reservations.UpdateStatus(ctx, r.ID, entities.ReservationStatusCancelled)
		} else if err == nil {
			s.mu.Unlock()
			continue
		}
		s.mu.Unlock()
		if err != nil {
			return expired, err
		}

		r.Status = entities.ReservationStatusCancelled
		s.events.publish(ctx, providers.EventChannelReservations,
			entities.NewReservationEvent(entities.EventTypeReservationExpired, r, ""))
		expired++
	}
	return expired, nil
}

func (s *ReservationService) getFacility(ctx context.Context, id string) (*entities.Facility, error) {
	facility, err := s.facilities.GetByID(ctx, id)
	if apperrors.IsNotFound(err) {
		return nil, apperrors.NewNotFoundError(MsgFacilityNotFound)
	}
	return facility, err
}

func (s *ReservationService) getReservation(ctx context.Context, id string) (*entities.Reservation, error) {
	reservation, err := s.reservations.GetByID(ctx, id)
	if apperrors.IsNotFound(err) {
		return nil, apperrors.NewNotFoundError(MsgReservationNotFound)
	}
	return reservation, err
}

func (s *ReservationService) confirmedOn(ctx context.Context, facilityID string) ([]*entities.Reservation, error) {
	return s.reservations.List(ctx, repositories.ReservationFilter{
		FacilityIDs: []string{facilityID},
		Status:      entities.ReservationStatusConfirmed,
	})
}

// hasConflict reports whether any date is blocked on facility or covered by a
// Confirmed reservation other than exceptID.
func hasConflict(facility *entities.Facility, confirmed []*entities.Reservation, dates []string, exceptID string) bool {
	for _, d := range dates {
		if facility.IsBlocked(d) || coveredBy(confirmed, d, exceptID) {
			return true
		}
	}
	return false
}

func coveredBy(reservations []*entities.Reservation, date, exceptID string) bool {
	for _, r := range reservations {
		if r.ID != exceptID && r.IsConfirmed() && slices.Contains(r.Dates, date) {
			return true
		}
	}
	return false
}

func allBefore(dates []string, today string) bool {
	if len(dates) == 0 {
		return false
	}
	for _, d := range dates {
		// YYYY-MM-DD compares chronologically as a string.
		if d >= today {
			return false
		}
	}
	return true
}

func uniqueDates(dates []string) []string {
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		if !slices.Contains(out, d) {
			out = append(out, d)
		}
	}
	return out
}

func isClient(u *entities.User) bool {
	return u.HasRole(entities.RoleInternalClient, entities.RoleExternalClient)
}
