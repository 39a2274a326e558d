package entities

import (
	"slices"
	"time"
)

// UserRole is one of the five fixed roles
type UserRole string

const (
	RoleSystemAdmin     UserRole = "SystemAdmin"
	RoleHeadSystemUser  UserRole = "HeadSystemUser"
	RoleFacilityManager UserRole = "FacilityManager"
	RoleInternalClient  UserRole = "InternalClient"
	RoleExternalClient  UserRole = "ExternalClient"
)

// Valid reports whether r is one of the known roles
func (r UserRole) Valid() bool {
	switch r {
	case RoleSystemAdmin, RoleHeadSystemUser, RoleFacilityManager, RoleInternalClient, RoleExternalClient:
		return true
	}
	return false
}

// UserStatus is the account state of a user
type UserStatus string

const (
	UserStatusActive              UserStatus = "Active"
	UserStatusPendingVerification UserStatus = "PendingVerification"
	UserStatusBlocked             UserStatus = "Blocked"
)

// User represents an account of the reservation system
type User struct {
	ID           string     `json:"id" db:"id"`
	Name         string     `json:"name" db:"name"`
	Email        string     `json:"email" db:"email"`
	Role         UserRole   `json:"role" db:"role"`
	Status       UserStatus `json:"status" db:"status"`
	Organization string     `json:"organization,omitempty" db:"organization"` // internal clients
	Phone        string     `json:"phone,omitempty" db:"phone"`
	Documents    []string   `json:"documents,omitempty" db:"documents"`
	PasswordHash string     `json:"-" db:"password_hash"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

// HasRole reports whether the user holds one of roles
func (u *User) HasRole(roles ...UserRole) bool {
	return u != nil && slices.Contains(roles, u.Role)
}

// IsSystemAdmin reports whether the user is a system administrator
func (u *User) IsSystemAdmin() bool {
	return u.HasRole(RoleSystemAdmin)
}

// IsHeadUser reports whether the user approves internal client accounts
func (u *User) IsHeadUser() bool {
	return u.HasRole(RoleHeadSystemUser)
}

// IsManager reports whether the user manages facilities
func (u *User) IsManager() bool {
	return u.HasRole(RoleFacilityManager)
}

// IsInternalClient reports whether the user reserves on behalf of the organisation
func (u *User) IsInternalClient() bool {
	return u.HasRole(RoleInternalClient)
}

// IsExternalClient reports whether the user is a paying outside client
func (u *User) IsExternalClient() bool {
	return u.HasRole(RoleExternalClient)
}

// IsActive reports whether the user may log in
func (u *User) IsActive() bool {
	return u != nil && u.Status == UserStatusActive
}

// IsPendingVerification reports whether the account awaits head user approval
func (u *User) IsPendingVerification() bool {
	return u != nil && u.Status == UserStatusPendingVerification
}

// Clone returns a deep copy of the user
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.Documents = slices.Clone(u.Documents)
	return &c
}
