package entities

import "github.com/google/uuid"

// ID prefixes per entity
const (
	UserIDPrefix        = "user"
	FacilityIDPrefix    = "fac"
	ReservationIDPrefix = "res"
)

// NewID returns a time-ordered identifier such as "res-0190f7c2-...".
func NewID(prefix string) string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return prefix + "-" + id.String()
}
