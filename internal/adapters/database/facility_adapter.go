package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"
	"github.com/zatekoja/facilityreservation/internal/domain/entities"
	"github.com/zatekoja/facilityreservation/internal/domain/repositories"
	"github.com/zatekoja/facilityreservation/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/facilityreservation/pkg/errors"
)

var facilityColumns = []interface{}{
	"id", "name", "type", "manager_id", "capacity", "price",
	"description", "blocked_dates", "created_at",
}

// FacilityAdapter implements the FacilityRepository interface
type FacilityAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewFacilityAdapter creates a new facility adapter
func NewFacilityAdapter(client *postgres.Client) repositories.FacilityRepository {
	return &FacilityAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new facility
func (a *FacilityAdapter) Create(ctx context.Context, facility *entities.Facility) error {
	blocked := facility.BlockedDates
	if blocked == nil {
		blocked = []string{}
	}

	record := goqu.Record{
		"id":            facility.ID,
		"name":          facility.Name,
		"type":          string(facility.Type),
		"manager_id":    facility.ManagerID,
		"capacity":      facility.Capacity,
		"price":         facility.Price,
		"description":   facility.Description,
		"blocked_dates": pq.Array(blocked),
		"created_at":    facility.CreatedAt,
	}

	query, args, err := a.db.Insert("facilities").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return apperrors.NewConflictError(fmt.Sprintf("facility with id %s already exists", facility.ID))
		}
		return apperrors.NewInternalError("failed to create facility", err)
	}
	return nil
}

// GetByID retrieves a facility by ID
func (a *FacilityAdapter) GetByID(ctx context.Context, id string) (*entities.Facility, error) {
	query, args, err := a.db.Select(facilityColumns...).
		From("facilities").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	facility, err := scanFacility(a.client.DB().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("Facility not found")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get facility", err)
	}
	return facility, nil
}

// List retrieves facilities in creation order
func (a *FacilityAdapter) List(ctx context.Context, filter repositories.FacilityFilter) ([]*entities.Facility, error) {
	ds := a.db.Select(facilityColumns...).From("facilities")
	if filter.ManagerID != "" {
		ds = ds.Where(goqu.Ex{"manager_id": filter.ManagerID})
	}

	query, args, err := ds.Order(goqu.I("created_at").Asc(), goqu.I("id").Asc()).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list facilities", err)
	}
	defer rows.Close()

	facilities := make([]*entities.Facility, 0)
	for rows.Next() {
		facility, err := scanFacility(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan facility", err)
		}
		facilities = append(facilities, facility)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate facilities", err)
	}
	return facilities, nil
}

// AddBlockedDate appends date to the facility's blocked dates unless present
func (a *FacilityAdapter) AddBlockedDate(ctx context.Context, id, date string) error {
	query, args, err := a.db.Update("facilities").
		Set(goqu.Record{"blocked_dates": goqu.L("array_append(blocked_dates, ?)", date)}).
		Where(
			goqu.Ex{"id": id},
			goqu.L("NOT (? = ANY(blocked_dates))", date),
		).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to block date", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		// Either the facility is missing or the date was already blocked.
		_, err := a.GetByID(ctx, id)
		return err
	}
	return nil
}

// RemoveBlockedDate removes date from the facility's blocked dates if present
func (a *FacilityAdapter) RemoveBlockedDate(ctx context.Context, id, date string) error {
	query, args, err := a.db.Update("facilities").
		Set(goqu.Record{"blocked_dates": goqu.L("array_remove(blocked_dates, ?)", date)}).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to unblock date", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError("Facility not found")
	}
	return nil
}

func scanFacility(row rowScanner) (*entities.Facility, error) {
	facility := &entities.Facility{}
	var facilityType string

	err := row.Scan(
		&facility.ID,
		&facility.Name,
		&facilityType,
		&facility.ManagerID,
		&facility.Capacity,
		&facility.Price,
		&facility.Description,
		pq.Array(&facility.BlockedDates),
		&facility.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	facility.Type = entities.FacilityType(facilityType)
	if facility.BlockedDates == nil {
		facility.BlockedDates = []string{}
	}
	return facility, nil
}
