package entities

import (
	"slices"
	"time"
)

// FacilityType classifies a bookable facility
type FacilityType string

const (
	FacilityTypeRoom             FacilityType = "Room"
	FacilityTypeConventionCenter FacilityType = "ConventionCenter"
	FacilityTypeUnit             FacilityType = "Unit"
)

// Valid reports whether t is a known facility type
func (t FacilityType) Valid() bool {
	switch t {
	case FacilityTypeRoom, FacilityTypeConventionCenter, FacilityTypeUnit:
		return true
	}
	return false
}

// Facility represents a reservable room, hall or unit owned by a manager
type Facility struct {
	ID           string       `json:"id" db:"id"`
	Name         string       `json:"name" db:"name"`
	Type         FacilityType `json:"type" db:"type"`
	ManagerID    string       `json:"manager_id" db:"manager_id"`
	Capacity     int          `json:"capacity" db:"capacity"`
	Price        float64      `json:"price" db:"price"` // per day
	Description  string       `json:"description" db:"description"`
	BlockedDates []string     `json:"blocked_dates" db:"blocked_dates"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
}

// IsBlocked reports whether date is on the facility's blocked list
func (f *Facility) IsBlocked(date string) bool {
	return slices.Contains(f.BlockedDates, date)
}

// Clone returns a deep copy of the facility
func (f *Facility) Clone() *Facility {
	if f == nil {
		return nil
	}
	c := *f
	c.BlockedDates = slices.Clone(f.BlockedDates)
	if c.BlockedDates == nil {
		c.BlockedDates = []string{}
	}
	return &c
}
