// Package policy holds the pure authorization rules of the forum. Nothing
// here performs I/O; callers load the facts and pass them in.
package policy

import (
	"github.com/dmitrijs2005/imprint/internal/common"
	"github.com/dmitrijs2005/imprint/internal/server/models"
)

// CanUpdate allows content edits to the writer or an ADMIN. Managing the
// board grants no edit rights.
func CanUpdate(actor models.Actor, writerID string) error {
	if actor.Role == models.RoleAdmin {
		return nil
	}
	if actor.UserID != "" && actor.UserID == writerID {
		return nil
	}
	return common.ErrAccessDenied
}

// CanDelete applies, first match wins: ADMIN, writer, manager of the
// resource's board. Everyone else is denied.
func CanDelete(actor models.Actor, writerID string, isBoardManager bool) error {
	if actor.Role == models.RoleAdmin {
		return nil
	}
	if actor.UserID != "" && actor.UserID == writerID {
		return nil
	}
	if isBoardManager {
		return nil
	}
	return common.ErrAccessDenied
}

func RequireAdmin(actor models.Actor) error {
	if actor.Role != models.RoleAdmin {
		return common.ErrAccessDenied
	}
	return nil
}

// RequireActive rejects actors that may not write content.
func RequireActive(actor models.Actor) error {
	if actor.Status != models.StatusActive {
		return common.ErrAccessDenied
	}
	return nil
}

// CanAssignManager rejects ADMIN targets: their role is never derived from
// manager relations.
func CanAssignManager(target *models.User) error {
	if target.Role == models.RoleAdmin {
		return common.ErrAccessDenied
	}
	return nil
}

// EffectiveRole derives the role a user must hold given how many boards
// they manage. ADMIN is sticky.
func EffectiveRole(current models.Role, managedCount int64) models.Role {
	switch {
	case current == models.RoleAdmin:
		return models.RoleAdmin
	case managedCount > 0:
		return models.RoleManager
	default:
		return models.RoleUser
	}
}
