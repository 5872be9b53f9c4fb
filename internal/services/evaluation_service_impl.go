package services

import (
	"github.com/google/uuid"

	"github.com/confjudge/api-server/internal/apperr"
	"github.com/confjudge/api-server/internal/auth"
	"github.com/confjudge/api-server/internal/models"
	"github.com/confjudge/api-server/internal/store"
)

// defaultMaxScore is the ceiling used when a score arrives without one.
const defaultMaxScore = 10

// evaluationService implements EvaluationService
type evaluationService struct {
	store *store.Store
}

func newEvaluationService(st *store.Store) EvaluationService {
	return &evaluationService{store: st}
}

// GetCriteria returns the conference rubric in display order.
func (s *evaluationService) GetCriteria(conferenceID uuid.UUID) ([]models.EvaluationCriterion, error) {
	criteria, err := s.store.Criteria.ListByConference(conferenceID)
	if err != nil {
		return nil, apperr.Internal("failed to load criteria", err)
	}
	return criteria, nil
}

// SaveDraft stores an incomplete evaluation. The draft can be reopened
// and submitted later.
func (s *evaluationService) SaveDraft(caller auth.Caller, projectID uuid.UUID, scores map[uuid.UUID]ScoreInput, generalNotes string) (uuid.UUID, error) {
	return s.createOrUpdate(caller, projectID, scores, generalNotes, false)
}

// SubmitEvaluation stores a complete evaluation. Submitting over an
// existing draft or submission updates it in place.
func (s *evaluationService) SubmitEvaluation(caller auth.Caller, projectID uuid.UUID, scores map[uuid.UUID]ScoreInput, generalNotes string) (uuid.UUID, error) {
	if len(scores) == 0 {
		return uuid.Nil, apperr.Validation("Cannot submit empty evaluation")
	}
	return s.createOrUpdate(caller, projectID, scores, generalNotes, true)
}

func (s *evaluationService) createOrUpdate(caller auth.Caller, projectID uuid.UUID, scores map[uuid.UUID]ScoreInput, generalNotes string, isComplete bool) (uuid.UUID, error) {
	if caller.Role != models.RoleJudge {
		return uuid.Nil, apperr.Authorization("Only judges can submit evaluations")
	}

	assigned, err := s.store.Assignments.IsAssigned(caller.UserID, projectID)
	if err != nil {
		return uuid.Nil, apperr.Internal("failed to check assignment", err)
	}
	if !assigned {
		return uuid.Nil, apperr.Authorization("Judge is not assigned to this project")
	}

	if len(scores) == 0 {
		return uuid.Nil, apperr.Validation("Scores must be provided")
	}
	for _, input := range scores {
		maxScore := input.MaxScore
		if maxScore == 0 {
			maxScore = defaultMaxScore
		}
		if input.Score < 0 || input.Score > maxScore {
			return uuid.Nil, apperr.Validationf("Score must be between 0 and %g", maxScore)
		}
	}

	existing, err := s.store.Evaluations.GetByJudgeAndProject(caller.UserID, projectID)
	if err != nil {
		return uuid.Nil, apperr.Internal("failed to load evaluation", err)
	}

	var evaluationID uuid.UUID
	if existing != nil {
		existing.GeneralNotes = generalNotes
		existing.IsComplete = isComplete
		if err := s.store.Evaluations.Update(existing); err != nil {
			return uuid.Nil, apperr.Internal("failed to update evaluation", err)
		}
		evaluationID = existing.ID
	} else {
		evaluation := &models.Evaluation{
			JudgeID:      caller.UserID,
			ProjectID:    projectID,
			GeneralNotes: generalNotes,
			IsComplete:   isComplete,
		}
		if err := s.store.Evaluations.Insert(evaluation); err != nil {
			return uuid.Nil, apperr.Internal("failed to create evaluation", err)
		}
		evaluationID = evaluation.ID
	}

	for criterionID, input := range scores {
		score := &models.EvaluationScore{
			EvaluationID: evaluationID,
			CriterionID:  criterionID,
			Score:        input.Score,
			Notes:        input.Notes,
		}
		if err := s.store.Evaluations.UpsertScore(score); err != nil {
			return uuid.Nil, apperr.Internal("failed to save score", err)
		}
	}

	return evaluationID, nil
}

// GetEvaluation returns the caller's evaluation of the project with its
// score rows, or nil when none exists yet.
func (s *evaluationService) GetEvaluation(caller auth.Caller, projectID uuid.UUID) (*models.Evaluation, error) {
	if caller.Role != models.RoleJudge {
		return nil, apperr.Authorization("Only judges can view their evaluations")
	}

	evaluation, err := s.store.Evaluations.GetByJudgeAndProject(caller.UserID, projectID)
	if err != nil {
		return nil, apperr.Internal("failed to load evaluation", err)
	}
	return evaluation, nil
}
