// Package guard decides whether an actor may read or mutate a resource.
// Decisions are pure: callers load the resource first and pass what they found.
package guard

import (
	"github.com/google/uuid"

	"github.com/Skotchmaster/commerce/services/commerce/internal/domain"
)

type Resource struct {
	Kind         string
	OwnerID      uuid.UUID
	Exists       bool
	RequiredRole domain.Role
}

// Authorize returns nil on allow, domain.ErrForbidden or a
// domain.NotFoundError otherwise. Role is checked before existence so that
// non-admins cannot probe admin-only resources.
func Authorize(actor domain.Actor, res Resource) error {
	if actor.ID == uuid.Nil {
		return domain.ErrForbidden
	}
	if res.RequiredRole == domain.RoleAdmin && !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	if !res.Exists {
		return domain.NotFound(res.Kind)
	}
	if res.OwnerID != uuid.Nil && res.OwnerID != actor.ID && !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	return nil
}

func RequireAdmin(actor domain.Actor) error {
	return Authorize(actor, Resource{Exists: true, RequiredRole: domain.RoleAdmin})
}

// RequireOwner allows any authenticated actor acting on its own containers.
func RequireOwner(actor domain.Actor) error {
	return Authorize(actor, Resource{OwnerID: actor.ID, Exists: true})
}
