package entities

import (
	"time"
)

// EventType represents the type of a lifecycle event
type EventType string

const (
	EventTypeReservationCreated   EventType = "reservation.created"
	EventTypeReservationApproved  EventType = "reservation.approved"
	EventTypeReservationDenied    EventType = "reservation.denied"
	EventTypeReservationCancelled EventType = "reservation.cancelled"
	EventTypeReservationExpired   EventType = "reservation.expired"

	EventTypeUserRegistered EventType = "user.registered"
	EventTypeUserApproved   EventType = "user.approved"
	EventTypeUserBlocked    EventType = "user.blocked"
)

// Event is published on the event bus whenever a reservation or user changes state
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	SubjectID string                 `json:"subject_id"`
	ActorID   string                 `json:"actor_id,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// NewEvent creates a new event about subjectID
func NewEvent(eventType EventType, subjectID, actorID string, data map[string]interface{}) *Event {
	return &Event{
		ID:        NewID("evt"),
		Type:      eventType,
		SubjectID: subjectID,
		ActorID:   actorID,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// NewReservationEvent creates an event carrying the reservation's current state
func NewReservationEvent(eventType EventType, r *Reservation, actorID string) *Event {
	return NewEvent(eventType, r.ID, actorID, map[string]interface{}{
		"facility_id": r.FacilityID,
		"user_id":     r.UserID,
		"status":      string(r.Status),
		"dates":       r.Dates,
		"total_fee":   r.TotalFee,
	})
}

// NewUserEvent creates an event carrying the user's role and status
func NewUserEvent(eventType EventType, u *User, actorID string) *Event {
	return NewEvent(eventType, u.ID, actorID, map[string]interface{}{
		"role":   string(u.Role),
		"status": string(u.Status),
	})
}
