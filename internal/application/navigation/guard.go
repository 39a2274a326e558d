// Package navigation decides whether a user may open a page of the client
// application, and where to send them when they may not.
package navigation

import (
	"slices"

	"github.com/zatekoja/facilityreservation/internal/domain/entities"
)

// Page paths
const (
	PathLanding  = "/"
	PathLogin    = "/login"
	PathRegister = "/register"
	PathHome     = "/home"
	PathAdmin    = "/admin"
	PathManager  = "/manager"
)

// Route is one entry of the route table
type Route struct {
	Path         string              `json:"path"`
	RequiresAuth bool                `json:"requires_auth"`
	Roles        []entities.UserRole `json:"roles,omitempty"`
}

// Role sets shared by pages and the API groups they front
var (
	AdminRoles   = []entities.UserRole{entities.RoleSystemAdmin, entities.RoleHeadSystemUser}
	ManagerRoles = []entities.UserRole{entities.RoleFacilityManager}
)

// Routes is the static route table
var Routes = []Route{
	{Path: PathLanding},
	{Path: PathLogin},
	{Path: PathRegister},
	{Path: PathHome, RequiresAuth: true},
	{Path: PathAdmin, RequiresAuth: true, Roles: AdminRoles},
	{Path: PathManager, RequiresAuth: true, Roles: ManagerRoles},
}

// Decision is the outcome of Resolve. RedirectTo is set only when Allowed is
// false.
type Decision struct {
	Path       string `json:"path"`
	Allowed    bool   `json:"allowed"`
	RedirectTo string `json:"redirect_to,omitempty"`
}

// Lookup returns the route registered for path
func Lookup(path string) (Route, bool) {
	for _, r := range Routes {
		if r.Path == path {
			return r, true
		}
	}
	return Route{}, false
}

// Resolve decides whether user (nil when logged out) may open path.
// Unknown paths are allowed.
func Resolve(path string, user *entities.User) Decision {
	route, ok := Lookup(path)
	if !ok {
		return Decision{Path: path, Allowed: true}
	}
	if route.RequiresAuth && user == nil {
		return Decision{Path: path, RedirectTo: PathLogin}
	}
	if len(route.Roles) > 0 && (user == nil || !slices.Contains(route.Roles, user.Role)) {
		return Decision{Path: path, RedirectTo: PathHome}
	}
	return Decision{Path: path, Allowed: true}
}
