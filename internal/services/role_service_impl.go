package services

import (
	"github.com/google/uuid"

	"github.com/confjudge/api-server/internal/apperr"
	"github.com/confjudge/api-server/internal/auth"
	"github.com/confjudge/api-server/internal/models"
	"github.com/confjudge/api-server/internal/store"
)

// roleAssignmentService implements RoleAssignmentService
type roleAssignmentService struct {
	store *store.Store
}

func newRoleAssignmentService(st *store.Store) RoleAssignmentService {
	return &roleAssignmentService{store: st}
}

// AssignRole replaces the target user's role. Existing role rows are
// deleted before the new one is inserted so a user never holds two
// roles at once.
func (s *roleAssignmentService) AssignRole(caller auth.Caller, userID uuid.UUID, role string) (models.Role, error) {
	if !caller.Role.IsAdmin() {
		return "", apperr.Authorization("Only admins can assign roles")
	}

	parsed, ok := models.ParseRole(role)
	if !ok {
		return "", apperr.Validationf("Invalid role: %s", role)
	}

	if err := s.store.Roles.DeleteRoles(userID); err != nil {
		return "", apperr.Internal("failed to clear existing role", err)
	}
	if err := s.store.Roles.InsertRole(userID, parsed); err != nil {
		return "", apperr.Internal("failed to assign role", err)
	}

	return parsed, nil
}

// GetRole returns the user's stored role, defaulting to student when no
// role row exists.
func (s *roleAssignmentService) GetRole(caller auth.Caller, userID uuid.UUID) (models.Role, error) {
	if !caller.Role.IsAdmin() {
		return "", apperr.Authorization("Only admins can view roles")
	}

	role, err := s.store.Roles.GetRole(userID)
	if err != nil {
		return "", apperr.Internal("failed to load role", err)
	}
	if role == "" {
		return models.RoleStudent, nil
	}
	return role, nil
}
