package services

import (
	"sort"

	"github.com/google/uuid"

	"github.com/confjudge/api-server/internal/apperr"
	"github.com/confjudge/api-server/internal/auth"
	"github.com/confjudge/api-server/internal/models"
	"github.com/confjudge/api-server/internal/store"
)

// evaluationResultsService implements EvaluationResultsService
type evaluationResultsService struct {
	store *store.Store
}

func newEvaluationResultsService(st *store.Store) EvaluationResultsService {
	return &evaluationResultsService{store: st}
}

// GetAllEvaluations returns every evaluation in the conference,
// complete or not, with score rows attached.
func (s *evaluationResultsService) GetAllEvaluations(caller auth.Caller, conferenceID uuid.UUID) ([]models.Evaluation, error) {
	if !caller.Role.IsAdmin() {
		return nil, apperr.Authorization("Only admins can view all evaluation results")
	}
	return s.loadConferenceEvaluations(conferenceID)
}

func (s *evaluationResultsService) loadConferenceEvaluations(conferenceID uuid.UUID) ([]models.Evaluation, error) {
	projects, err := s.store.Projects.ListByConference(conferenceID)
	if err != nil {
		return nil, apperr.Internal("failed to load projects", err)
	}
	if len(projects) == 0 {
		return []models.Evaluation{}, nil
	}

	projectIDs := make([]uuid.UUID, len(projects))
	for i, p := range projects {
		projectIDs[i] = p.ID
	}

	evaluations, err := s.store.Evaluations.ListByProjectIDs(projectIDs)
	if err != nil {
		return nil, apperr.Internal("failed to load evaluations", err)
	}
	if evaluations == nil {
		evaluations = []models.Evaluation{}
	}
	return evaluations, nil
}

func (s *evaluationResultsService) GetProjectEvaluations(caller auth.Caller, projectID uuid.UUID) ([]models.Evaluation, error) {
	if !caller.Role.IsAdmin() {
		return nil, apperr.Authorization("Only admins can view project evaluations")
	}

	evaluations, err := s.store.Evaluations.ListByProject(projectID)
	if err != nil {
		return nil, apperr.Internal("failed to load evaluations", err)
	}
	if evaluations == nil {
		evaluations = []models.Evaluation{}
	}
	return evaluations, nil
}

// GetSummary returns completion statistics across the conference. With
// no evaluations every count is zero, including the percentage.
func (s *evaluationResultsService) GetSummary(caller auth.Caller, conferenceID uuid.UUID) (*EvaluationSummary, error) {
	if !caller.Role.IsAdmin() {
		return nil, apperr.Authorization("Only admins can view evaluation summary")
	}

	evaluations, err := s.loadConferenceEvaluations(conferenceID)
	if err != nil {
		return nil, err
	}

	summary := &EvaluationSummary{Total: len(evaluations)}
	for _, e := range evaluations {
		if e.IsComplete {
			summary.Complete++
		}
	}
	summary.Pending = summary.Total - summary.Complete
	if summary.Total > 0 {
		summary.CompletionPercentage = float64(summary.Complete) / float64(summary.Total) * 100
	}
	return summary, nil
}

// GetProjectAverageScores ranks projects by the flat average of their
// complete evaluations' scores, highest first. Projects without any
// complete evaluation are excluded. Ties keep conference order.
func (s *evaluationResultsService) GetProjectAverageScores(caller auth.Caller, conferenceID uuid.UUID) ([]ProjectAverage, error) {
	if !caller.Role.IsAdmin() {
		return nil, apperr.Authorization("Only admins can view average scores")
	}

	projects, err := s.store.Projects.ListByConference(conferenceID)
	if err != nil {
		return nil, apperr.Internal("failed to load projects", err)
	}

	results := []ProjectAverage{}
	for _, project := range projects {
		evaluations, err := s.store.Evaluations.ListCompleteByProject(project.ID)
		if err != nil {
			return nil, apperr.Internal("failed to load evaluations", err)
		}
		if len(evaluations) == 0 {
			continue
		}

		results = append(results, ProjectAverage{
			ProjectID:       project.ID,
			TitleEn:         project.TitleEn,
			TitleHe:         project.TitleHe,
			AverageScore:    round2(flatAverage(evaluations)),
			EvaluationCount: len(evaluations),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].AverageScore > results[j].AverageScore
	})
	return results, nil
}

// GetJudgeStatus groups the conference's evaluations by judge and
// counts complete versus pending.
func (s *evaluationResultsService) GetJudgeStatus(caller auth.Caller, conferenceID uuid.UUID) (map[uuid.UUID]JudgeStatus, error) {
	if !caller.Role.IsAdmin() {
		return nil, apperr.Authorization("Only admins can view judge status")
	}

	evaluations, err := s.loadConferenceEvaluations(conferenceID)
	if err != nil {
		return nil, err
	}

	status := make(map[uuid.UUID]JudgeStatus)
	for _, e := range evaluations {
		entry := status[e.JudgeID]
		if e.IsComplete {
			entry.Complete++
		} else {
			entry.Pending++
		}
		status[e.JudgeID] = entry
	}
	return status, nil
}
