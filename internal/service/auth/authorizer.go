// Package auth implements role-based authorization for the registrar's
// privileged operations. An Authorizer answers whether a caller address
// holds a named role at an institute; the InstituteGate wraps the
// privileged service entry points with that check.
//
// Verifying that the caller actually controls the address it presents
// (tokens, signatures) is the transport layer's job, not this package's.
package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/campushq/registrar/internal/domain"
	"github.com/campushq/registrar/internal/store"
)

// Authorizer decides whether a caller holds a role at an institute.
type Authorizer interface {
	// Authenticate returns nil if caller is a member of the named role at
	// the institute, and ErrUnauthorized otherwise. It reads the role
	// registry and has no side effects.
	Authenticate(ctx context.Context, caller domain.Address, roleName string, instituteID uuid.UUID) error
}

type roleAuthorizer struct {
	roles  store.RoleStore
	logger *slog.Logger
}

// NewRoleAuthorizer creates an Authorizer backed by the role registry.
func NewRoleAuthorizer(roles store.RoleStore, logger *slog.Logger) (Authorizer, error) {
	if roles == nil {
		return nil, errors.New("authorizer: role store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &roleAuthorizer{
		roles:  roles,
		logger: logger.With(slog.String("component", "role_authorizer")),
	}, nil
}

func (a *roleAuthorizer) Authenticate(
	ctx context.Context,
	caller domain.Address,
	roleName string,
	instituteID uuid.UUID,
) error {
	role, err := a.roles.GetByName(ctx, instituteID, roleName)
	if err != nil {
		if errors.Is(err, store.ErrRoleNotFound) {
			a.logger.Debug("role not found",
				slog.String("role", roleName),
				slog.String("institute_id", instituteID.String()))
			return ErrUnauthorized
		}
		return err
	}

	if !role.HasMember(caller) {
		a.logger.Debug("caller not a role member",
			slog.String("role", roleName),
			slog.String("institute_id", instituteID.String()))
		return ErrUnauthorized
	}

	return nil
}
