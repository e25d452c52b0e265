package services

import (
	"github.com/taskhive/backend/internal/models"
)

// Actor identifies the authenticated user on whose behalf a core
// operation runs. Every service method that enforces access control
// takes one explicitly.
type Actor struct {
	ID   uint
	Role models.Role
}

// IsAdmin reports whether the actor bypasses project-scoped checks.
func (a Actor) IsAdmin() bool { return a.Role == models.RoleAdmin }
