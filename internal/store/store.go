// Package store defines the capability interfaces the services use to
// reach durable state. Implementations live in store/postgres (real
// database) and store/memory (test fake); services never construct
// queries themselves.
package store

import (
	"github.com/google/uuid"

	"github.com/confjudge/api-server/internal/models"
)

// UserStore defines the interface for account data access
type UserStore interface {
	GetByID(id uuid.UUID) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Create(user *models.User) error
}

// RoleStore defines the interface for user role rows. AssignRole uses
// replace semantics: delete any prior rows, then insert the new one.
type RoleStore interface {
	GetRole(userID uuid.UUID) (models.Role, error)
	DeleteRoles(userID uuid.UUID) error
	InsertRole(userID uuid.UUID, role models.Role) error
}

// ProfileStore defines the interface for profile data access
type ProfileStore interface {
	GetByUserID(userID uuid.UUID) (*models.Profile, error)
	Create(profile *models.Profile) error
	UpdateExpertiseAreas(userID uuid.UUID, areas []string) error
}

// ConferenceStore defines the interface for conference data access
type ConferenceStore interface {
	GetExpertiseAreas(conferenceID uuid.UUID) ([]string, error)
	UpdateExpertiseAreas(conferenceID uuid.UUID, areas []string) error
}

// ProjectStore defines the interface for project data access. Getters
// return (nil, nil) when the row is absent so callers can map absence
// to their own error kind.
type ProjectStore interface {
	GetByID(id uuid.UUID) (*models.Project, error)
	ListByConference(conferenceID uuid.UUID) ([]models.Project, error)
	ListByIDs(ids []uuid.UUID) ([]models.Project, error)
	ListAll() ([]models.Project, error)
	SetPresentationURL(projectID uuid.UUID, url *string) error
}

// AssignmentStore defines the interface for judge assignment rows.
// Row existence is the judge-to-project authorization grant.
type AssignmentStore interface {
	IsAssigned(judgeID, projectID uuid.UUID) (bool, error)
	ListProjectIDs(judgeID uuid.UUID) ([]uuid.UUID, error)
}

// CriterionStore defines the interface for evaluation criteria,
// returned in sort_order.
type CriterionStore interface {
	ListByConference(conferenceID uuid.UUID) ([]models.EvaluationCriterion, error)
}

// EvaluationStore defines the interface for evaluations and their
// per-criterion score rows. List methods return evaluations with Scores
// populated.
type EvaluationStore interface {
	GetByJudgeAndProject(judgeID, projectID uuid.UUID) (*models.Evaluation, error)
	ListByProjectIDs(projectIDs []uuid.UUID) ([]models.Evaluation, error)
	ListByProject(projectID uuid.UUID) ([]models.Evaluation, error)
	ListCompleteByProject(projectID uuid.UUID) ([]models.Evaluation, error)
	Insert(evaluation *models.Evaluation) error
	Update(evaluation *models.Evaluation) error
	UpsertScore(score *models.EvaluationScore) error
}

// ObjectStorage is the file storage collaborator for presentation
// uploads.
type ObjectStorage interface {
	Upload(path string, data []byte) error
	Remove(paths []string) error
	GetPublicURL(path string) string
}

// Store groups all store interfaces
type Store struct {
	Users       UserStore
	Roles       RoleStore
	Profiles    ProfileStore
	Conferences ConferenceStore
	Projects    ProjectStore
	Assignments AssignmentStore
	Criteria    CriterionStore
	Evaluations EvaluationStore
}
