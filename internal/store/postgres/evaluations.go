package postgres

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/confjudge/api-server/internal/models"
)

// criterionStore implements store.CriterionStore
type criterionStore struct {
	db *sql.DB
}

func (s *criterionStore) ListByConference(conferenceID uuid.UUID) ([]models.EvaluationCriterion, error) {
	query := `
		SELECT id, conference_id, name_en, name_he, max_score, weight, sort_order
		FROM evaluation_criteria
		WHERE conference_id = $1
		ORDER BY sort_order`

	rows, err := s.db.Query(query, conferenceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list criteria: %w", err)
	}
	defer rows.Close()

	var criteria []models.EvaluationCriterion
	for rows.Next() {
		var c models.EvaluationCriterion
		err := rows.Scan(&c.ID, &c.ConferenceID, &c.NameEn, &c.NameHe, &c.MaxScore, &c.Weight, &c.SortOrder)
		if err != nil {
			return nil, fmt.Errorf("failed to scan criterion: %w", err)
		}
		criteria = append(criteria, c)
	}
	return criteria, rows.Err()
}

// evaluationStore implements store.EvaluationStore
type evaluationStore struct {
	db *sql.DB
}

func (s *evaluationStore) GetByJudgeAndProject(judgeID, projectID uuid.UUID) (*models.Evaluation, error) {
	query := `
		SELECT id, judge_id, project_id, general_notes, is_complete, updated_at
		FROM evaluations
		WHERE judge_id = $1 AND project_id = $2`

	var e models.Evaluation
	err := s.db.QueryRow(query, judgeID, projectID).Scan(
		&e.ID, &e.JudgeID, &e.ProjectID, &e.GeneralNotes, &e.IsComplete, &e.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get evaluation: %w", err)
	}

	if err := s.attachScores([]*models.Evaluation{&e}); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *evaluationStore) ListByProjectIDs(projectIDs []uuid.UUID) ([]models.Evaluation, error) {
	query := `
		SELECT id, judge_id, project_id, general_notes, is_complete, updated_at
		FROM evaluations
		WHERE project_id = ANY($1)
		ORDER BY created_at`
	return s.list(query, pq.Array(projectIDs))
}

func (s *evaluationStore) ListByProject(projectID uuid.UUID) ([]models.Evaluation, error) {
	query := `
		SELECT id, judge_id, project_id, general_notes, is_complete, updated_at
		FROM evaluations
		WHERE project_id = $1
		ORDER BY created_at`
	return s.list(query, projectID)
}

func (s *evaluationStore) ListCompleteByProject(projectID uuid.UUID) ([]models.Evaluation, error) {
	query := `
		SELECT id, judge_id, project_id, general_notes, is_complete, updated_at
		FROM evaluations
		WHERE project_id = $1 AND is_complete = TRUE
		ORDER BY created_at`
	return s.list(query, projectID)
}

func (s *evaluationStore) list(query string, args ...interface{}) ([]models.Evaluation, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluations: %w", err)
	}
	defer rows.Close()

	var evaluations []models.Evaluation
	for rows.Next() {
		var e models.Evaluation
		err := rows.Scan(&e.ID, &e.JudgeID, &e.ProjectID, &e.GeneralNotes, &e.IsComplete, &e.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan evaluation: %w", err)
		}
		evaluations = append(evaluations, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	refs := make([]*models.Evaluation, len(evaluations))
	for i := range evaluations {
		refs[i] = &evaluations[i]
	}
	if err := s.attachScores(refs); err != nil {
		return nil, err
	}
	return evaluations, nil
}

// attachScores loads the score rows for the given evaluations in one
// query.
func (s *evaluationStore) attachScores(evaluations []*models.Evaluation) error {
	if len(evaluations) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(evaluations))
	byID := make(map[uuid.UUID]*models.Evaluation, len(evaluations))
	for i, e := range evaluations {
		ids[i] = e.ID
		byID[e.ID] = e
	}

	query := `
		SELECT evaluation_id, criterion_id, score, notes
		FROM evaluation_scores
		WHERE evaluation_id = ANY($1)`

	rows, err := s.db.Query(query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to load scores: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sc models.EvaluationScore
		if err := rows.Scan(&sc.EvaluationID, &sc.CriterionID, &sc.Score, &sc.Notes); err != nil {
			return fmt.Errorf("failed to scan score: %w", err)
		}
		if e, ok := byID[sc.EvaluationID]; ok {
			e.Scores = append(e.Scores, sc)
		}
	}
	return rows.Err()
}

func (s *evaluationStore) Insert(evaluation *models.Evaluation) error {
	if evaluation.ID == uuid.Nil {
		evaluation.ID = uuid.New()
	}
	query := `
		INSERT INTO evaluations (id, judge_id, project_id, general_notes, is_complete)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING updated_at`

	err := s.db.QueryRow(query,
		evaluation.ID, evaluation.JudgeID, evaluation.ProjectID,
		evaluation.GeneralNotes, evaluation.IsComplete,
	).Scan(&evaluation.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create evaluation: %w", err)
	}
	return nil
}

func (s *evaluationStore) Update(evaluation *models.Evaluation) error {
	query := `
		UPDATE evaluations
		SET general_notes = $1, is_complete = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING updated_at`

	err := s.db.QueryRow(query,
		evaluation.GeneralNotes, evaluation.IsComplete, evaluation.ID,
	).Scan(&evaluation.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update evaluation: %w", err)
	}
	return nil
}

// UpsertScore relies on the (evaluation_id, criterion_id) unique
// constraint so concurrent writes for the same criterion cannot
// produce duplicate rows.
func (s *evaluationStore) UpsertScore(score *models.EvaluationScore) error {
	query := `
		INSERT INTO evaluation_scores (evaluation_id, criterion_id, score, notes)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (evaluation_id, criterion_id)
		DO UPDATE SET score = EXCLUDED.score, notes = EXCLUDED.notes`

	if _, err := s.db.Exec(query, score.EvaluationID, score.CriterionID, score.Score, score.Notes); err != nil {
		return fmt.Errorf("failed to upsert score: %w", err)
	}
	return nil
}
