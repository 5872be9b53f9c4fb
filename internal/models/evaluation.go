package models

import (
	"time"

	"github.com/google/uuid"
)

// EvaluationCriterion is one weighted rubric dimension, scoped to a
// conference. SortOrder controls display order.
type EvaluationCriterion struct {
	ID           uuid.UUID `json:"id" db:"id"`
	ConferenceID uuid.UUID `json:"conference_id" db:"conference_id"`
	NameEn       string    `json:"name_en" db:"name_en"`
	NameHe       string    `json:"name_he" db:"name_he"`
	MaxScore     float64   `json:"max_score" db:"max_score"`
	Weight       float64   `json:"weight" db:"weight"`
	SortOrder    int       `json:"sort_order" db:"sort_order"`
}

// Evaluation is a judge's evaluation of a project. At most one exists
// per (judge, project); IsComplete distinguishes drafts from submitted
// evaluations.
type Evaluation struct {
	ID           uuid.UUID `json:"id" db:"id"`
	JudgeID      uuid.UUID `json:"judge_id" db:"judge_id"`
	ProjectID    uuid.UUID `json:"project_id" db:"project_id"`
	GeneralNotes string    `json:"general_notes" db:"general_notes"`
	IsComplete   bool      `json:"is_complete" db:"is_complete"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`

	// Scores are the per-criterion rows attached to this evaluation.
	Scores []EvaluationScore `json:"evaluation_scores"`
}

// EvaluationScore is a single criterion score inside an evaluation,
// unique per (evaluation, criterion).
type EvaluationScore struct {
	EvaluationID uuid.UUID `json:"evaluation_id" db:"evaluation_id"`
	CriterionID  uuid.UUID `json:"criterion_id" db:"criterion_id"`
	Score        float64   `json:"score" db:"score"`
	Notes        string    `json:"notes" db:"notes"`
}
