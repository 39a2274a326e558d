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

var userColumns = []interface{}{
	"id", "name", "email", "role", "status", "organization",
	"phone", "documents", "password_hash", "created_at",
}

// UserAdapter implements UserRepository
type UserAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewUserAdapter creates a new user adapter
func NewUserAdapter(client *postgres.Client) repositories.UserRepository {
	return &UserAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new user
func (a *UserAdapter) Create(ctx context.Context, user *entities.User) error {
	documents := user.Documents
	if documents == nil {
		documents = []string{}
	}

	record := goqu.Record{
		"id":            user.ID,
		"name":          user.Name,
		"email":         user.Email,
		"role":          string(user.Role),
		"status":        string(user.Status),
		"organization":  sql.NullString{String: user.Organization, Valid: user.Organization != ""},
		"phone":         sql.NullString{String: user.Phone, Valid: user.Phone != ""},
		"documents":     pq.Array(documents),
		"password_hash": sql.NullString{String: user.PasswordHash, Valid: user.PasswordHash != ""},
		"created_at":    user.CreatedAt,
	}

	query, args, err := a.db.Insert("users").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return apperrors.NewConflictError(fmt.Sprintf("user with id %s already exists", user.ID))
		}
		return apperrors.NewInternalError("failed to create user", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (a *UserAdapter) GetByID(ctx context.Context, id string) (*entities.User, error) {
	return a.getOne(ctx, goqu.Ex{"id": id})
}

// GetByEmail retrieves the first user registered with email
func (a *UserAdapter) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	return a.getOne(ctx, goqu.Ex{"email": email})
}

func (a *UserAdapter) getOne(ctx context.Context, where goqu.Ex) (*entities.User, error) {
	query, args, err := a.db.Select(userColumns...).
		From("users").
		Where(where).
		Order(goqu.I("created_at").Asc(), goqu.I("id").Asc()).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	user, err := scanUser(a.client.DB().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("User not found")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get user", err)
	}
	return user, nil
}

// List retrieves users in registration order
func (a *UserAdapter) List(ctx context.Context, filter repositories.UserFilter) ([]*entities.User, error) {
	ds := a.db.Select(userColumns...).From("users")
	if filter.Status != "" {
		ds = ds.Where(goqu.Ex{"status": string(filter.Status)})
	}
	if filter.Role != "" {
		ds = ds.Where(goqu.Ex{"role": string(filter.Role)})
	}

	query, args, err := ds.Order(goqu.I("created_at").Asc(), goqu.I("id").Asc()).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list users", err)
	}
	defer rows.Close()

	users := make([]*entities.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan user", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate users", err)
	}
	return users, nil
}

// UpdateStatus sets the status of a user
func (a *UserAdapter) UpdateStatus(ctx context.Context, id string, status entities.UserStatus) error {
	query, args, err := a.db.Update("users").
		Set(goqu.Record{"status": string(status)}).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update user status", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError("User not found")
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*entities.User, error) {
	user := &entities.User{}
	var role, status string
	var organization, phone, passwordHash sql.NullString

	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&role,
		&status,
		&organization,
		&phone,
		pq.Array(&user.Documents),
		&passwordHash,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.Role = entities.UserRole(role)
	user.Status = entities.UserStatus(status)
	user.Organization = organization.String
	user.Phone = phone.String
	user.PasswordHash = passwordHash.String
	return user, nil
}
