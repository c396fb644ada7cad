package auth

import (
	"log/slog"

	"github.com/SAP/hdbconnect-mcp/pkg/errs"
)

// Permission is a hierarchical access level: Admin > Write > Execute > Read > None.
type Permission int

const (
	PermissionNone Permission = iota
	PermissionRead
	PermissionExecute
	PermissionWrite
	PermissionAdmin
)

// String returns the wire/log representation of p.
func (p Permission) String() string {
	switch p {
	case PermissionRead:
		return "read"
	case PermissionExecute:
		return "execute"
	case PermissionWrite:
		return "write"
	case PermissionAdmin:
		return "admin"
	default:
		return "none"
	}
}

// RBACEnforcer checks a user's roles against a required permission level.
type RBACEnforcer struct {
	config RBACConfig
}

// NewRBACEnforcer wraps config for permission checks.
func NewRBACEnforcer(config RBACConfig) *RBACEnforcer {
	return &RBACEnforcer{config: config}
}

// Check returns a KindAuthorization error if user lacks required.
// Always passes when RBAC is disabled.
func (e *RBACEnforcer) Check(user AuthenticatedUser, required Permission) error {
	if !e.config.Enabled {
		return nil
	}

	actual := e.highestPermission(user)
	if actual >= required {
		return nil
	}

	slog.Warn("rbac check failed", "user", user.Sub, "required", required.String(), "actual", actual.String())
	return errs.New(errs.KindAuthorization, "insufficient permissions").
		WithDetail("required", required.String())
}

func (e *RBACEnforcer) highestPermission(user AuthenticatedUser) Permission {
	if e.config.AdminRole != nil && user.HasRole(*e.config.AdminRole) {
		return PermissionAdmin
	}
	if e.config.WriteRole != nil && user.HasRole(*e.config.WriteRole) {
		return PermissionWrite
	}
	if e.config.ExecuteRole != nil && user.HasRole(*e.config.ExecuteRole) {
		return PermissionExecute
	}
	if e.config.ReadRole != nil && user.HasRole(*e.config.ReadRole) {
		return PermissionRead
	}
	return PermissionNone
}
