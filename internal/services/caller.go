package services

import "github.com/mati-gonz/control-obras-dasco-api/internal/models"

// Caller identifies the authenticated user an operation runs as.
type Caller struct {
	ID   uint
	Role models.UserRole
}

func (c Caller) IsAdmin() bool {
	return c.Role == models.UserRoleAdmin
}

// administers reports whether the caller is the administrator assigned to
// the work.
func (c Caller) administers(work *models.Work) bool {
	return work.AdminID != nil && *work.AdminID == c.ID
}
