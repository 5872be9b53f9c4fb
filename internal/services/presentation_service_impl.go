package services

import (
	"github.com/google/uuid"

	"github.com/confjudge/api-server/internal/apperr"
	"github.com/confjudge/api-server/internal/auth"
	"github.com/confjudge/api-server/internal/models"
	"github.com/confjudge/api-server/internal/store"
)

// presentationViewService implements PresentationViewService
type presentationViewService struct {
	store *store.Store
}

func newPresentationViewService(st *store.Store) PresentationViewService {
	return &presentationViewService{store: st}
}

// GetAssignedProjects lists the projects assigned to the calling judge.
// A judge with no assignments gets an empty list, not an error.
func (s *presentationViewService) GetAssignedProjects(caller auth.Caller) ([]models.Project, error) {
	if caller.Role != models.RoleJudge {
		return nil, apperr.Authorization("Only judges can view assigned presentations")
	}

	projectIDs, err := s.store.Assignments.ListProjectIDs(caller.UserID)
	if err != nil {
		return nil, apperr.Internal("failed to load assignments", err)
	}
	if len(projectIDs) == 0 {
		return []models.Project{}, nil
	}

	projects, err := s.store.Projects.ListByIDs(projectIDs)
	if err != nil {
		return nil, apperr.Internal("failed to load projects", err)
	}
	return projects, nil
}

// GetPresentationURL returns the project's presentation URL, which is
// nil when nothing has been uploaded yet.
func (s *presentationViewService) GetPresentationURL(caller auth.Caller, projectID uuid.UUID) (*string, error) {
	if caller.Role != models.RoleJudge {
		return nil, apperr.Authorization("Only judges can access presentations")
	}
	if err := s.requireAssignment(caller.UserID, projectID); err != nil {
		return nil, err
	}

	project, err := s.store.Projects.GetByID(projectID)
	if err != nil {
		return nil, apperr.Internal("failed to load project", err)
	}
	if project == nil {
		return nil, apperr.Validation("Project not found")
	}
	return project.PresentationURL, nil
}

func (s *presentationViewService) GetProjectDetails(caller auth.Caller, projectID uuid.UUID) (*models.Project, error) {
	if caller.Role != models.RoleJudge {
		return nil, apperr.Authorization("Only judges can view project details")
	}
	if err := s.requireAssignment(caller.UserID, projectID); err != nil {
		return nil, err
	}

	project, err := s.store.Projects.GetByID(projectID)
	if err != nil {
		return nil, apperr.Internal("failed to load project", err)
	}
	if project == nil {
		return nil, apperr.Validation("Project not found")
	}
	return project, nil
}

// requireAssignment fails with an authorization error when the judge is
// not assigned to the project. An unknown project id takes the same
// path, so existence is not leaked to unassigned judges.
func (s *presentationViewService) requireAssignment(judgeID, projectID uuid.UUID) error {
	assigned, err := s.store.Assignments.IsAssigned(judgeID, projectID)
	if err != nil {
		return apperr.Internal("failed to check assignment", err)
	}
	if !assigned {
		return apperr.Authorization("Judge is not assigned to this project")
	}
	return nil
}
