package entities

import (
	"slices"
	"time"
)

// ReservationStatus is the state of a reservation
type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "Pending"
	ReservationStatusConfirmed ReservationStatus = "Confirmed"
	ReservationStatusCancelled ReservationStatus = "Cancelled"
	ReservationStatusDenied    ReservationStatus = "Denied"
)

// Reservation is a request for a facility on a set of dates
type Reservation struct {
	ID         string            `json:"id" db:"id"`
	FacilityID string            `json:"facility_id" db:"facility_id"`
	UserID     string            `json:"user_id" db:"user_id"`
	Dates      []string          `json:"dates" db:"dates"`
	Status     ReservationStatus `json:"status" db:"status"`
	TotalFee   float64           `json:"total_fee" db:"total_fee"`
	Reason     string            `json:"reason,omitempty" db:"reason"` // internal clients only
	CreatedAt  time.Time         `json:"created_at" db:"created_at"`
}

// IsPending reports whether the reservation awaits approval
func (r *Reservation) IsPending() bool {
	return r.Status == ReservationStatusPending
}

// IsConfirmed reports whether the reservation holds its dates
func (r *Reservation) IsConfirmed() bool {
	return r.Status == ReservationStatusConfirmed
}

// Overlaps reports whether any of dates is covered by the reservation
func (r *Reservation) Overlaps(dates []string) bool {
	for _, d := range dates {
		if slices.Contains(r.Dates, d) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the reservation
func (r *Reservation) Clone() *Reservation {
	if r == nil {
		return nil
	}
	c := *r
	c.Dates = slices.Clone(r.Dates)
	return &c
}
