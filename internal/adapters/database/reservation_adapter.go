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

var reservationColumns = []interface{}{
	"id", "facility_id", "user_id", "dates", "status",
	"total_fee", "reason", "created_at",
}

// ReservationAdapter implements ReservationRepository
type ReservationAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewReservationAdapter creates a new reservation adapter
func NewReservationAdapter(client *postgres.Client) repositories.ReservationRepository {
	return &ReservationAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create appends a new reservation
func (a *ReservationAdapter) Create(ctx context.Context, reservation *entities.Reservation) error {
	record := goqu.Record{
		"id":          reservation.ID,
		"facility_id": reservation.FacilityID,
		"user_id":     reservation.UserID,
		"dates":       pq.Array(reservation.Dates),
		"status":      string(reservation.Status),
		"total_fee":   reservation.TotalFee,
		"reason":      sql.NullString{String: reservation.Reason, Valid: reservation.Reason != ""},
		"created_at":  reservation.CreatedAt,
	}

	query, args, err := a.db.Insert("reservations").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return apperrors.NewConflictError(fmt.Sprintf("reservation with id %s already exists", reservation.ID))
		}
		return apperrors.NewInternalError("failed to create reservation", err)
	}
	return nil
}

// GetByID retrieves a reservation by ID
func (a *ReservationAdapter) GetByID(ctx context.Context, id string) (*entities.Reservation, error) {
	query, args, err := a.db.Select(reservationColumns...).
		From("reservations").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	reservation, err := scanReservation(a.client.DB().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("Reservation not found")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get reservation", err)
	}
	return reservation, nil
}

// List retrieves reservations ordered by creation time
func (a *ReservationAdapter) List(ctx context.Context, filter repositories.ReservationFilter) ([]*entities.Reservation, error) {
	if filter.FacilityIDs != nil && len(filter.FacilityIDs) == 0 {
		return []*entities.Reservation{}, nil
	}

	ds := a.db.Select(reservationColumns...).From("reservations")
	if len(filter.FacilityIDs) > 0 {
		ds = ds.Where(goqu.Ex{"facility_id": filter.FacilityIDs})
	}
	if filter.UserID != "" {
		ds = ds.Where(goqu.Ex{"user_id": filter.UserID})
	}
	if filter.Status != "" {
		ds = ds.Where(goqu.Ex{"status": string(filter.Status)})
	}

	query, args, err := ds.Order(goqu.I("created_at").Asc(), goqu.I("id").Asc()).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list reservations", err)
	}
	defer rows.Close()

	reservations := make([]*entities.Reservation, 0)
	for rows.Next() {
		reservation, err := scanReservation(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan reservation", err)
		}
		reservations = append(reservations, reservation)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate reservations", err)
	}
	return reservations, nil
}

// UpdateStatus sets the status of a reservation
func (a *ReservationAdapter) UpdateStatus(ctx context.Context, id string, status entities.ReservationStatus) error {
	query, args, err := a.db.Update("reservations").
		Set(goqu.Record{"status": string(status)}).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update reservation status", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError("Reservation not found")
	}
	return nil
}

func scanReservation(row rowScanner) (*entities.Reservation, error) {
	reservation := &entities.Reservation{}
	var status string
	var reason sql.NullString

	err := row.Scan(
		&reservation.ID,
		&reservation.FacilityID,
		&reservation.UserID,
		pq.Array(&reservation.Dates),
		&status,
		&reservation.TotalFee,
		&reason,
		&reservation.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	reservation.Status = entities.ReservationStatus(status)
	reservation.Reason = reason.String
	return reservation, nil
}
