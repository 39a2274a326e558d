package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/zatekoja/facilityreservation/internal/domain/entities"
	"github.com/zatekoja/facilityreservation/internal/domain/providers"
	"github.com/zatekoja/facilityreservation/internal/domain/repositories"
	"github.com/zatekoja/facilityreservation/internal/infrastructure/auth"
	"github.com/zatekoja/facilityreservation/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/facilityreservation/pkg/errors"
)

const (
	MsgRegistrationSuccessful = "Registration successful"
	MsgRegistrationPending    = "Registration submitted. Pending verification."
	MsgLoginSuccessful        = "Login successful"
	MsgUserNotFound           = "User not found"
	MsgAccountPending         = "Account is pending verification."
	MsgAccountBlocked         = "Account is blocked."
	MsgInvalidCredentials     = "Invalid credentials"
	MsgSessionExpired         = "Session expired"

	defaultUserName = "New User"
)

// RegisterInput carries the details supplied at registration
type RegisterInput struct {
	Name         string            `json:"name"`
	Email        string            `json:"email"`
	Password     string            `json:"password,omitempty"`
	Role         entities.UserRole `json:"role"`
	Organization string            `json:"organization,omitempty"`
	Phone        string            `json:"phone,omitempty"`
	Documents    []string          `json:"documents,omitempty"`
}

// AuthResult is returned by Register and Login. Token is empty when no
// session was opened.
type AuthResult struct {
	User      *entities.User `json:"user"`
	Token     string         `json:"token,omitempty"`
	ExpiresAt *time.Time     `json:"expires_at,omitempty"`
	Message   string         `json:"message"`
}

// IdentityService manages accounts, their verification and sessions
type IdentityService struct {
	users    repositories.UserRepository
	sessions repositories.SessionRepository
	tokens   *auth.TokenIssuer
	events   publisher
	metrics  *observability.Metrics
	now      func() time.Time
}

// NewIdentityService creates a new identity service
func NewIdentityService(users repositories.UserRepository, sessions repositories.SessionRepository, tokens *auth.TokenIssuer) *IdentityService {
	return &IdentityService{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		now:      time.Now,
	}
}

// SetEventBus sets the bus user events are published on
func (s *IdentityService) SetEventBus(bus providers.EventBus) {
	s.events = publisher{bus: bus}
}

// SetMetrics sets the metrics registrations are recorded on
func (s *IdentityService) SetMetrics(metrics *observability.Metrics) {
	s.metrics = metrics
}

// Register creates an account. Internal clients wait for verification;
// everyone else is active and logged in straight away.
func (s *IdentityService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	ctx, span := observability.StartSpan(ctx, "IdentityService.Register")
	defer span.End()

	email := strings.TrimSpace(in.Email)
	if email == "" {
		return nil, apperrors.NewValidationError("Email is required")
	}
	role := in.Role
	if role == "" {
		role = entities.RoleExternalClient
	}
	if !role.Valid() {
		return nil, apperrors.NewValidationError("Unknown role " + string(role))
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = defaultUserName
	}

	user := &entities.User{
		ID:           entities.NewID(entities.UserIDPrefix),
		Name:         name,
		Email:        email,
		Role:         role,
		Status:       entities.UserStatusActive,
		Organization: in.Organization,
		Phone:        in.Phone,
		Documents:    in.Documents,
		CreatedAt:    s.now().UTC(),
	}
	if user.Documents == nil {
		user.Documents = []string{}
	}
	if role == entities.RoleInternalClient {
		user.Status = entities.UserStatusPendingVerification
	}
	if in.Password != "" {
		hash, err := auth.HashPassword(in.Password)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to hash password", err)
		}
		user.PasswordHash = hash
	}

	if err := s.users.Create(ctx, user); err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	observability.SetSpanAttributes(span,
		attribute.String("user.id", user.ID),
		attribute.String("user.role", string(user.Role)),
	)
	observability.RecordRegistration(ctx, s.metrics, string(user.Role), string(user.Status))
	s.events.publish(ctx, providers.EventChannelUsers,
		entities.NewUserEvent(entities.EventTypeUserRegistered, user, user.ID))

	observability.LoggerFromContext(ctx).Info().
		Str("user_id", user.ID).
		Str("role", string(user.Role)).
		Str("status", string(user.Status)).
		Msg("User registered")

	if user.IsPendingVerification() {
		return &AuthResult{User: user, Message: MsgRegistrationPending}, nil
	}
	return s.openSession(ctx, user, MsgRegistrationSuccessful)
}

// Login opens a session for the first account registered with email
func (s *IdentityService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	ctx, span := observability.StartSpan(ctx, "IdentityService.Login")
	defer span.End()

	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if apperrors.IsNotFound(err) {
		return nil, apperrors.NewNotFoundError(MsgUserNotFound)
	}
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	switch user.Status {
	case entities.UserStatusPendingVerification:
		return nil, apperrors.NewUnauthorizedError(MsgAccountPending)
	case entities.UserStatusBlocked:
		return nil, apperrors.NewUnauthorizedError(MsgAccountBlocked)
	}
	if user.PasswordHash != "" && !auth.VerifyPassword(password, user.PasswordHash) {
		return nil, apperrors.NewUnauthorizedError(MsgInvalidCredentials)
	}

	return s.openSession(ctx, user, MsgLoginSuccessful)
}

func (s *IdentityService) openSession(ctx context.Context, user *entities.User, message string) (*AuthResult, error) {
	session := &entities.Session{
		ID:       entities.NewID("sess"),
		UserID:   user.ID,
		IssuedAt: s.now().UTC(),
	}

	token, expiresAt, err := s.tokens.Issue(session.ID, user.ID, string(user.Role))
	if err != nil {
		return nil, apperrors.NewInternalError("failed to issue session token", err)
	}
	session.ExpiresAt = expiresAt.UTC()

	if err := s.sessions.Save(ctx, session, s.tokens.TTL()); err != nil {
		return nil, apperrors.NewInternalError("failed to store session", err)
	}

	observability.LoggerFromContext(ctx).Debug().
		Str("user_id", user.ID).
		Str("session_id", session.ID).
		Msg("Session opened")
	return &AuthResult{User: user, Token: token, ExpiresAt: &session.ExpiresAt, Message: message}, nil
}

// Logout deletes the session; the account is left untouched
func (s *IdentityService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessions.Delete(ctx, sessionID)
}

// Authenticate resolves a bearer token to its live session and the current
// state of the user it belongs to.
func (s *IdentityService) Authenticate(ctx context.Context, token string) (*entities.User, *entities.Session, error) {
	claims, err := s.tokens.Verify(token)
	if errors.Is(err, auth.ErrTokenExpired) {
		return nil, nil, apperrors.NewUnauthorizedError(MsgSessionExpired)
	}
	if err != nil {
		return nil, nil, apperrors.NewUnauthorizedError(MsgNotLoggedIn)
	}

	session, err := s.sessions.Get(ctx, claims.ID)
	if apperrors.IsNotFound(err) {
		return nil, nil, apperrors.NewUnauthorizedError(MsgNotLoggedIn)
	}
	if err != nil {
		return nil, nil, err
	}
	if session.UserID != claims.Subject || session.Expired(s.now()) {
		return nil, nil, apperrors.NewUnauthorizedError(MsgSessionExpired)
	}

	user, err := s.CurrentUser(ctx, session)
	if err != nil {
		return nil, nil, err
	}
	return user, session, nil
}

// CurrentUser re-reads the session's user so status changes apply at once.
// A user blocked since login no longer counts as logged in.
func (s *IdentityService) CurrentUser(ctx context.Context, session *entities.Session) (*entities.User, error) {
	if session == nil {
		return nil, apperrors.NewUnauthorizedError(MsgNotLoggedIn)
	}
	user, err := s.users.GetByID(ctx, session.UserID)
	if apperrors.IsNotFound(err) {
		return nil, apperrors.NewUnauthorizedError(MsgNotLoggedIn)
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive() {
		return nil, apperrors.NewUnauthorizedError(MsgAccountBlocked)
	}
	return user, nil
}

// ApproveUser activates an account pending verification. Accounts in any
// other status are returned unchanged.
func (s *IdentityService) ApproveUser(ctx context.Context, actor *entities.User, id string) (*entities.User, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.IsPendingVerification() {
		return user, nil
	}

	if err := s.users.UpdateStatus(ctx, id, entities.UserStatusActive); err != nil {
		return nil, err
	}
	user.Status = entities.UserStatusActive

	s.events.publish(ctx, providers.EventChannelUsers,
		entities.NewUserEvent(entities.EventTypeUserApproved, user, actorID(actor)))
	observability.LoggerFromContext(ctx).Info().
		Str("user_id", id).
		Str("actor_id", actorID(actor)).
		Msg("User approved")
	return user, nil
}

// BlockUser blocks an account. Blocked users cannot log in and their open
// sessions stop authenticating.
func (s *IdentityService) BlockUser(ctx context.Context, actor *entities.User, id string) (*entities.User, error) {
	if actor != nil && actor.ID == id {
		return nil, apperrors.NewValidationError("You cannot block your own account")
	}

	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Status == entities.UserStatusBlocked {
		return user, nil
	}

	if err := s.users.UpdateStatus(ctx, id, entities.UserStatusBlocked); err != nil {
		return nil, err
	}
	user.Status = entities.UserStatusBlocked

	s.events.publish(ctx, providers.EventChannelUsers,
		entities.NewUserEvent(entities.EventTypeUserBlocked, user, actorID(actor)))
	observability.LoggerFromContext(ctx).Info().
		Str("user_id", id).
		Str("actor_id", actorID(actor)).
		Msg("User blocked")
	return user, nil
}

// PendingUsers returns the accounts awaiting verification
func (s *IdentityService) PendingUsers(ctx context.Context) ([]*entities.User, error) {
	return s.users.List(ctx, repositories.UserFilter{Status: entities.UserStatusPendingVerification})
}

// ListUsers returns every account
func (s *IdentityService) ListUsers(ctx context.Context) ([]*entities.User, error) {
	return s.users.List(ctx, repositories.UserFilter{})
}

func (s *IdentityService) getUser(ctx context.Context, id string) (*entities.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if apperrors.IsNotFound(err) {
		return nil, apperrors.NewNotFoundError(MsgUserNotFound)
	}
	return user, err
}
