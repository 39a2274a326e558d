// Package seed holds the demo accounts and facilities the service starts with.
package seed

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/facilityreservation/internal/domain/entities"
	"github.com/zatekoja/facilityreservation/internal/domain/repositories"
	apperrors "github.com/zatekoja/facilityreservation/pkg/errors"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Users returns the demo accounts. All are Active and log in by email alone.
func Users() []*entities.User {
	return []*entities.User{
		{ID: "admin-1", Name: "Sys Admin", Email: "admin@sys.com", Role: entities.RoleSystemAdmin, Status: entities.UserStatusActive, Phone: "09123456789", CreatedAt: epoch},
		{ID: "head-1", Name: "Head User", Email: "head@sys.com", Role: entities.RoleHeadSystemUser, Status: entities.UserStatusActive, CreatedAt: epoch.Add(time.Second)},
		{ID: "manager-1", Name: "Hotel Mgr", Email: "hotel@mgr.com", Role: entities.RoleFacilityManager, Status: entities.UserStatusActive, CreatedAt: epoch.Add(2 * time.Second)},
		{ID: "manager-2", Name: "Convention Mgr", Email: "conv@mgr.com", Role: entities.RoleFacilityManager, Status: entities.UserStatusActive, CreatedAt: epoch.Add(3 * time.Second)},
		{ID: "client-1", Name: "Client User", Email: "client@ext.com", Role: entities.RoleExternalClient, Status: entities.UserStatusActive, Phone: "09987654321", CreatedAt: epoch.Add(4 * time.Second)},
	}
}

// Facilities returns the demo facilities
func Facilities() []*entities.Facility {
	return []*entities.Facility{
		{
			ID:           "fac-1",
			Name:         "Grand Ballroom",
			Type:         entities.FacilityTypeConventionCenter,
			ManagerID:    "manager-2",
			Capacity:     500,
			Price:        5000,
			Description:  "Large hall for events",
			BlockedDates: []string{},
			CreatedAt:    epoch,
		},
		{
			ID:           "fac-2",
			Name:         "Deluxe Room 101",
			Type:         entities.FacilityTypeRoom,
			ManagerID:    "manager-1",
			Capacity:     2,
			Price:        150,
			Description:  "Standard deluxe room",
			BlockedDates: []string{},
			CreatedAt:    epoch.Add(time.Second),
		},
	}
}

// Load inserts the demo records that are not already present
func Load(ctx context.Context, users repositories.UserRepository, facilities repositories.FacilityRepository) error {
	created := 0
	for _, u := range Users() {
		_, err := users.GetByID(ctx, u.ID)
		if err == nil {
			continue
		}
		if !apperrors.IsNotFound(err) {
			return err
		}
		if err := users.Create(ctx, u); err != nil {
			return err
		}
		created++
	}

	for _, f := range Facilities() {
		_, err := facilities.GetByID(ctx, f.ID)
		if err == nil {
			continue
		}
		if !apperrors.IsNotFound(err) {
			return err
		}
		if err := facilities.Create(ctx, f); err != nil {
			return err
		}
		created++
	}

	log.Info().Int("created", created).Msg("Demo data loaded")
	return nil
}
