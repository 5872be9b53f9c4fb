// Package postgres implements the store interfaces over database/sql.
package postgres

import (
	"database/sql"

	"github.com/confjudge/api-server/internal/store"
)

// New wires every store interface to its Postgres implementation.
func New(db *sql.DB) *store.Store {
	return &store.Store{
		Users:       &userStore{db: db},
		Roles:       &roleStore{db: db},
		Profiles:    &profileStore{db: db},
		Conferences: &conferenceStore{db: db},
		Projects:    &projectStore{db: db},
		Assignments: &assignmentStore{db: db},
		Criteria:    &criterionStore{db: db},
		Evaluations: &evaluationStore{db: db},
	}
}
