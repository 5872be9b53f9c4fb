package services

import (
	"github.com/google/uuid"

	"github.com/confjudge/api-server/internal/apperr"
	"github.com/confjudge/api-server/internal/auth"
	"github.com/confjudge/api-server/internal/models"
	"github.com/confjudge/api-server/internal/store"
)

// studentGradeService implements StudentGradeService
type studentGradeService struct {
	store *store.Store
}

func newStudentGradeService(st *store.Store) StudentGradeService {
	return &studentGradeService{store: st}
}

func (s *studentGradeService) GetStudentProjects(caller auth.Caller) ([]models.Project, error) {
	if caller.Role != models.RoleStudent {
		return nil, apperr.Authorization("Only students can view their projects")
	}

	fullName, err := s.fullName(caller.UserID)
	if err != nil {
		return nil, err
	}
	if fullName == "" {
		return []models.Project{}, nil
	}

	projects, err := s.store.Projects.ListAll()
	if err != nil {
		return nil, apperr.Internal("failed to load projects", err)
	}

	mine := []models.Project{}
	for _, p := range projects {
		if containsName(p.TeamMembers, fullName) {
			mine = append(mine, p)
		}
	}
	return mine, nil
}

// GetProjectGrade returns the flat average over all complete
// evaluations of the project. Until the first evaluation completes the
// grade is absent, not zero.
func (s *studentGradeService) GetProjectGrade(caller auth.Caller, projectID uuid.UUID) (*ProjectGrade, error) {
	if caller.Role != models.RoleStudent {
		return nil, apperr.Authorization("Only students can view their grades")
	}

	project, err := s.requireMembership(caller.UserID, projectID)
	if err != nil {
		return nil, err
	}

	evaluations, err := s.store.Evaluations.ListCompleteByProject(projectID)
	if err != nil {
		return nil, apperr.Internal("failed to load evaluations", err)
	}

	grade := &ProjectGrade{
		ProjectID: projectID,
		TitleEn:   project.TitleEn,
		TitleHe:   project.TitleHe,
	}
	if len(evaluations) == 0 {
		grade.Message = "No evaluations completed yet"
		return grade, nil
	}

	avg := round2(flatAverage(evaluations))
	grade.HasGrade = true
	grade.AverageScore = &avg
	grade.EvaluationCount = len(evaluations)
	return grade, nil
}

func (s *studentGradeService) GetAllGrades(caller auth.Caller) ([]ProjectGrade, error) {
	if caller.Role != models.RoleStudent {
		return nil, apperr.Authorization("Only students can view their grades")
	}

	projects, err := s.GetStudentProjects(caller)
	if err != nil {
		return nil, err
	}

	grades := []ProjectGrade{}
	for _, project := range projects {
		grade, err := s.GetProjectGrade(caller, project.ID)
		if err != nil {
			return nil, err
		}
		grades = append(grades, *grade)
	}
	return grades, nil
}

// GetDetailedScores breaks the grade down per rubric criterion. A
// criterion nobody scored yet has a nil average.
func (s *studentGradeService) GetDetailedScores(caller auth.Caller, projectID uuid.UUID) (map[uuid.UUID]CriterionScore, error) {
	if caller.Role != models.RoleStudent {
		return nil, apperr.Authorization("Only students can view their scores")
	}

	project, err := s.requireMembership(caller.UserID, projectID)
	if err != nil {
		return nil, err
	}

	criteria, err := s.store.Criteria.ListByConference(project.ConferenceID)
	if err != nil {
		return nil, apperr.Internal("failed to load criteria", err)
	}
	evaluations, err := s.store.Evaluations.ListCompleteByProject(projectID)
	if err != nil {
		return nil, apperr.Internal("failed to load evaluations", err)
	}

	details := make(map[uuid.UUID]CriterionScore, len(criteria))
	for _, criterion := range criteria {
		var sum float64
		var n int
		for _, e := range evaluations {
			for _, sc := range e.Scores {
				if sc.CriterionID == criterion.ID {
					sum += sc.Score
					n++
				}
			}
		}

		entry := CriterionScore{
			NameEn:          criterion.NameEn,
			NameHe:          criterion.NameHe,
			MaxScore:        criterion.MaxScore,
			Weight:          criterion.Weight,
			EvaluationCount: n,
		}
		if n > 0 {
			avg := round2(sum / float64(n))
			entry.AverageScore = &avg
		}
		details[criterion.ID] = entry
	}
	return details, nil
}

// requireMembership loads the project and checks the student's full
// name against its team list.
func (s *studentGradeService) requireMembership(userID, projectID uuid.UUID) (*models.Project, error) {
	fullName, err := s.fullName(userID)
	if err != nil {
		return nil, err
	}

	project, err := s.store.Projects.GetByID(projectID)
	if err != nil {
		return nil, apperr.Internal("failed to load project", err)
	}
	if project == nil {
		return nil, apperr.Validation("Project not found")
	}
	if !containsName(project.TeamMembers, fullName) {
		return nil, apperr.Authorization("You are not a member of this project")
	}
	return project, nil
}

func (s *studentGradeService) fullName(userID uuid.UUID) (string, error) {
	profile, err := s.store.Profiles.GetByUserID(userID)
	if err != nil {
		return "", apperr.Internal("failed to load profile", err)
	}
	if profile == nil {
		return "", nil
	}
	return profile.FullName, nil
}

func containsName(names []string, name string) bool {
	if name == "" {
		return false
	}
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
