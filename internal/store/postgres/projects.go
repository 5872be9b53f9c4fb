package postgres

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/confjudge/api-server/internal/models"
)

// conferenceStore implements store.ConferenceStore
type conferenceStore struct {
	db *sql.DB
}

func (s *conferenceStore) GetExpertiseAreas(conferenceID uuid.UUID) ([]string, error) {
	query := `SELECT expertise_areas FROM conferences WHERE id = $1`

	var areas []string
	err := s.db.QueryRow(query, conferenceID).Scan(pq.Array(&areas))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conference expertise areas: %w", err)
	}
	return areas, nil
}

func (s *conferenceStore) UpdateExpertiseAreas(conferenceID uuid.UUID, areas []string) error {
	query := `UPDATE conferences SET expertise_areas = $1 WHERE id = $2`
	if _, err := s.db.Exec(query, pq.Array(areas), conferenceID); err != nil {
		return fmt.Errorf("failed to update conference expertise areas: %w", err)
	}
	return nil
}

// projectStore implements store.ProjectStore
type projectStore struct {
	db *sql.DB
}

const projectColumns = `id, conference_id, title_en, title_he, description_en, description_he,
	team_members, room, presentation_time, presentation_url`

func scanProject(row interface{ Scan(...interface{}) error }) (*models.Project, error) {
	var p models.Project
	err := row.Scan(
		&p.ID, &p.ConferenceID, &p.TitleEn, &p.TitleHe, &p.DescriptionEn, &p.DescriptionHe,
		pq.Array(&p.TeamMembers), &p.Room, &p.PresentationTime, &p.PresentationURL,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *projectStore) GetByID(id uuid.UUID) (*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`

	project, err := scanProject(s.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return project, nil
}

func (s *projectStore) ListByConference(conferenceID uuid.UUID) ([]models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE conference_id = $1 ORDER BY created_at`
	return s.list(query, conferenceID)
}

func (s *projectStore) ListByIDs(ids []uuid.UUID) ([]models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ANY($1) ORDER BY created_at`
	return s.list(query, pq.Array(ids))
}

func (s *projectStore) ListAll() ([]models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY created_at`
	return s.list(query)
}

func (s *projectStore) list(query string, args ...interface{}) ([]models.Project, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, *project)
	}
	return projects, rows.Err()
}

func (s *projectStore) SetPresentationURL(projectID uuid.UUID, url *string) error {
	query := `UPDATE projects SET presentation_url = $1 WHERE id = $2`
	if _, err := s.db.Exec(query, url, projectID); err != nil {
		return fmt.Errorf("failed to set presentation url: %w", err)
	}
	return nil
}

// assignmentStore implements store.AssignmentStore
type assignmentStore struct {
	db *sql.DB
}

func (s *assignmentStore) IsAssigned(judgeID, projectID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM judge_assignments WHERE judge_id = $1 AND project_id = $2)`

	var assigned bool
	if err := s.db.QueryRow(query, judgeID, projectID).Scan(&assigned); err != nil {
		return false, fmt.Errorf("failed to check assignment: %w", err)
	}
	return assigned, nil
}

func (s *assignmentStore) ListProjectIDs(judgeID uuid.UUID) ([]uuid.UUID, error) {
	query := `SELECT project_id FROM judge_assignments WHERE judge_id = $1 ORDER BY created_at`

	rows, err := s.db.Query(query, judgeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
