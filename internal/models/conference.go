package models

import (
	"time"

	"github.com/google/uuid"
)

// Conference represents a judging event. ExpertiseAreas is an ordered
// list of unique, case-sensitive tag strings.
type Conference struct {
	ID             uuid.UUID `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	ExpertiseAreas []string  `json:"expertise_areas" db:"expertise_areas"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// Project represents a student project presented at a conference.
// Titles are a localized English/Hebrew pair. PresentationURL is nil
// until a team member uploads a file.
type Project struct {
	ID               uuid.UUID `json:"id" db:"id"`
	ConferenceID     uuid.UUID `json:"conference_id" db:"conference_id"`
	TitleEn          string    `json:"title_en" db:"title_en"`
	TitleHe          string    `json:"title_he" db:"title_he"`
	DescriptionEn    string    `json:"description_en" db:"description_en"`
	DescriptionHe    string    `json:"description_he" db:"description_he"`
	TeamMembers      []string  `json:"team_members" db:"team_members"`
	Room             string    `json:"room" db:"room"`
	PresentationTime string    `json:"presentation_time" db:"presentation_time"`
	PresentationURL  *string   `json:"presentation_url" db:"presentation_url"`
}

// JudgeAssignment links a judge to a project. Its existence is the
// authorization grant for all judge-side project access.
type JudgeAssignment struct {
	ID        uuid.UUID `json:"id" db:"id"`
	JudgeID   uuid.UUID `json:"judge_id" db:"judge_id"`
	ProjectID uuid.UUID `json:"project_id" db:"project_id"`
}
