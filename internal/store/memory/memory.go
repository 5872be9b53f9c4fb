// Package memory provides an in-memory implementation of the store
// interfaces. It backs the service and handler tests and is a drop-in
// substitute for the Postgres store.
package memory

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/confjudge/api-server/internal/models"
	"github.com/confjudge/api-server/internal/store"
)

// Store keeps every table in maps guarded by one mutex. Slices preserve
// insertion order so list results are deterministic.
type Store struct {
	mu sync.RWMutex

	users        map[uuid.UUID]models.User
	usersByEmail map[string]uuid.UUID
	roles        map[uuid.UUID]models.Role
	profiles     map[uuid.UUID]models.Profile
	conferences  map[uuid.UUID][]string
	projects     map[uuid.UUID]models.Project
	projectOrder []uuid.UUID
	assignments  []models.JudgeAssignment
	criteria     []models.EvaluationCriterion
	evaluations  map[uuid.UUID]models.Evaluation
	evalOrder    []uuid.UUID
	scores       map[uuid.UUID][]models.EvaluationScore
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		users:        make(map[uuid.UUID]models.User),
		usersByEmail: make(map[string]uuid.UUID),
		roles:        make(map[uuid.UUID]models.Role),
		profiles:     make(map[uuid.UUID]models.Profile),
		conferences:  make(map[uuid.UUID][]string),
		projects:     make(map[uuid.UUID]models.Project),
		evaluations:  make(map[uuid.UUID]models.Evaluation),
		scores:       make(map[uuid.UUID][]models.EvaluationScore),
	}
}

// Stores returns the aggregate wired entirely to this fake. The store
// interfaces share method names with different signatures, so each one
// is satisfied by a thin view over the shared data.
func (s *Store) Stores() *store.Store {
	return &store.Store{
		Users:       userView{s},
		Roles:       roleView{s},
		Profiles:    profileView{s},
		Conferences: conferenceView{s},
		Projects:    projectView{s},
		Assignments: assignmentView{s},
		Criteria:    criterionView{s},
		Evaluations: evaluationView{s},
	}
}

type userView struct{ s *Store }

func (v userView) GetByID(id uuid.UUID) (*models.User, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	u, ok := v.s.users[id]
	if !ok {
		return nil, fmt.Errorf("user not found")
	}
	return &u, nil
}

func (v userView) GetByEmail(email string) (*models.User, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	id, ok := v.s.usersByEmail[email]
	if !ok {
		return nil, fmt.Errorf("user with email %s not found", email)
	}
	u := v.s.users[id]
	return &u, nil
}

func (v userView) Create(user *models.User) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	v.s.users[user.ID] = *user
	v.s.usersByEmail[user.Email] = user.ID
	return nil
}

type roleView struct{ s *Store }

func (v roleView) GetRole(userID uuid.UUID) (models.Role, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	return v.s.roles[userID], nil
}

func (v roleView) DeleteRoles(userID uuid.UUID) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	delete(v.s.roles, userID)
	return nil
}

func (v roleView) InsertRole(userID uuid.UUID, role models.Role) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	v.s.roles[userID] = role
	return nil
}

type profileView struct{ s *Store }

func (v profileView) GetByUserID(userID uuid.UUID) (*models.Profile, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	p, ok := v.s.profiles[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (v profileView) Create(profile *models.Profile) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	profile.UpdatedAt = time.Now()
	v.s.profiles[profile.UserID] = *profile
	return nil
}

func (v profileView) UpdateExpertiseAreas(userID uuid.UUID, areas []string) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	p := v.s.profiles[userID]
	p.UserID = userID
	p.ExpertiseAreas = areas
	p.UpdatedAt = time.Now()
	v.s.profiles[userID] = p
	return nil
}

type conferenceView struct{ s *Store }

func (v conferenceView) GetExpertiseAreas(conferenceID uuid.UUID) ([]string, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	return append([]string(nil), v.s.conferences[conferenceID]...), nil
}

func (v conferenceView) UpdateExpertiseAreas(conferenceID uuid.UUID, areas []string) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	v.s.conferences[conferenceID] = append([]string(nil), areas...)
	return nil
}

type projectView struct{ s *Store }

func (v projectView) GetByID(id uuid.UUID) (*models.Project, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	p, ok := v.s.projects[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (v projectView) ListByConference(conferenceID uuid.UUID) ([]models.Project, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	var out []models.Project
	for _, id := range v.s.projectOrder {
		if p := v.s.projects[id]; p.ConferenceID == conferenceID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (v projectView) ListByIDs(ids []uuid.UUID) ([]models.Project, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	want := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []models.Project
	for _, id := range v.s.projectOrder {
		if want[id] {
			out = append(out, v.s.projects[id])
		}
	}
	return out, nil
}

func (v projectView) ListAll() ([]models.Project, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	var out []models.Project
	for _, id := range v.s.projectOrder {
		out = append(out, v.s.projects[id])
	}
	return out, nil
}

func (v projectView) SetPresentationURL(projectID uuid.UUID, url *string) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	p, ok := v.s.projects[projectID]
	if !ok {
		return fmt.Errorf("project not found")
	}
	p.PresentationURL = url
	v.s.projects[projectID] = p
	return nil
}

type assignmentView struct{ s *Store }

func (v assignmentView) IsAssigned(judgeID, projectID uuid.UUID) (bool, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	for _, a := range v.s.assignments {
		if a.JudgeID == judgeID && a.ProjectID == projectID {
			return true, nil
		}
	}
	return false, nil
}

func (v assignmentView) ListProjectIDs(judgeID uuid.UUID) ([]uuid.UUID, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	var out []uuid.UUID
	for _, a := range v.s.assignments {
		if a.JudgeID == judgeID {
			out = append(out, a.ProjectID)
		}
	}
	return out, nil
}

type criterionView struct{ s *Store }

func (v criterionView) ListByConference(conferenceID uuid.UUID) ([]models.EvaluationCriterion, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	var out []models.EvaluationCriterion
	for _, c := range v.s.criteria {
		if c.ConferenceID == conferenceID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SortOrder < out[j].SortOrder
	})
	return out, nil
}

type evaluationView struct{ s *Store }

func (v evaluationView) GetByJudgeAndProject(judgeID, projectID uuid.UUID) (*models.Evaluation, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	for _, id := range v.s.evalOrder {
		e := v.s.evaluations[id]
		if e.JudgeID == judgeID && e.ProjectID == projectID {
			return v.s.withScores(e), nil
		}
	}
	return nil, nil
}

func (v evaluationView) ListByProjectIDs(projectIDs []uuid.UUID) ([]models.Evaluation, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	want := make(map[uuid.UUID]bool, len(projectIDs))
	for _, id := range projectIDs {
		want[id] = true
	}
	var out []models.Evaluation
	for _, id := range v.s.evalOrder {
		if e := v.s.evaluations[id]; want[e.ProjectID] {
			out = append(out, *v.s.withScores(e))
		}
	}
	return out, nil
}

func (v evaluationView) ListByProject(projectID uuid.UUID) ([]models.Evaluation, error) {
	return v.listProject(projectID, false)
}

func (v evaluationView) ListCompleteByProject(projectID uuid.UUID) ([]models.Evaluation, error) {
	return v.listProject(projectID, true)
}

func (v evaluationView) listProject(projectID uuid.UUID, completeOnly bool) ([]models.Evaluation, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	var out []models.Evaluation
	for _, id := range v.s.evalOrder {
		e := v.s.evaluations[id]
		if e.ProjectID != projectID {
			continue
		}
		if completeOnly && !e.IsComplete {
			continue
		}
		out = append(out, *v.s.withScores(e))
	}
	return out, nil
}

func (v evaluationView) Insert(evaluation *models.Evaluation) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if evaluation.ID == uuid.Nil {
		evaluation.ID = uuid.New()
	}
	evaluation.UpdatedAt = time.Now()
	v.s.evaluations[evaluation.ID] = *evaluation
	v.s.evalOrder = append(v.s.evalOrder, evaluation.ID)
	for _, sc := range evaluation.Scores {
		sc.EvaluationID = evaluation.ID
		v.s.scores[evaluation.ID] = append(v.s.scores[evaluation.ID], sc)
	}
	return nil
}

func (v evaluationView) Update(evaluation *models.Evaluation) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	existing, ok := v.s.evaluations[evaluation.ID]
	if !ok {
		return fmt.Errorf("evaluation not found")
	}
	existing.GeneralNotes = evaluation.GeneralNotes
	existing.IsComplete = evaluation.IsComplete
	existing.UpdatedAt = time.Now()
	v.s.evaluations[evaluation.ID] = existing
	return nil
}

func (v evaluationView) UpsertScore(score *models.EvaluationScore) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	rows := v.s.scores[score.EvaluationID]
	for i, r := range rows {
		if r.CriterionID == score.CriterionID {
			rows[i] = *score
			return nil
		}
	}
	v.s.scores[score.EvaluationID] = append(rows, *score)
	return nil
}

// withScores attaches a copy of the score rows. Callers hold the lock.
func (s *Store) withScores(e models.Evaluation) *models.Evaluation {
	e.Scores = append([]models.EvaluationScore(nil), s.scores[e.ID]...)
	return &e
}

// Seed helpers for tests.

// SeedUser adds a user with a role and profile in one call and returns
// its id.
func (s *Store) SeedUser(email, fullName string, role models.Role) uuid.UUID {
	id := uuid.New()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[id] = models.User{ID: id, Email: email}
	s.usersByEmail[email] = id
	s.roles[id] = role
	s.profiles[id] = models.Profile{UserID: id, FullName: fullName}
	return id
}

// SeedProject stores a project and returns it.
func (s *Store) SeedProject(p models.Project) models.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	s.projects[p.ID] = p
	s.projectOrder = append(s.projectOrder, p.ID)
	return p
}

// SeedAssignment grants a judge access to a project.
func (s *Store) SeedAssignment(judgeID, projectID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignments = append(s.assignments, models.JudgeAssignment{
		ID: uuid.New(), JudgeID: judgeID, ProjectID: projectID,
	})
}

// SeedCriterion stores a rubric criterion and returns it.
func (s *Store) SeedCriterion(c models.EvaluationCriterion) models.EvaluationCriterion {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	s.criteria = append(s.criteria, c)
	return c
}

// SeedConferenceAreas sets a conference's expertise area list.
func (s *Store) SeedConferenceAreas(conferenceID uuid.UUID, areas []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conferences[conferenceID] = append([]string(nil), areas...)
}

// SeedEvaluation stores an evaluation with its score rows and returns
// its id.
func (s *Store) SeedEvaluation(e models.Evaluation) uuid.UUID {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	scores := e.Scores
	e.Scores = nil
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evaluations[e.ID] = e
	s.evalOrder = append(s.evalOrder, e.ID)
	for _, sc := range scores {
		sc.EvaluationID = e.ID
		s.scores[e.ID] = append(s.scores[e.ID], sc)
	}
	return e.ID
}

// RoleOf returns the stored role for a user (test inspection helper).
func (s *Store) RoleOf(userID uuid.UUID) models.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roles[userID]
}

// ObjectStorage is an in-memory file storage fake.
type ObjectStorage struct {
	mu      sync.Mutex
	files   map[string][]byte
	baseURL string

	// Removed records every path passed to Remove, in order.
	Removed []string
}

// NewObjectStorage creates an empty storage fake serving URLs under
// baseURL.
func NewObjectStorage(baseURL string) *ObjectStorage {
	return &ObjectStorage{files: make(map[string][]byte), baseURL: baseURL}
}

func (o *ObjectStorage) Upload(path string, data []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.files[path] = append([]byte(nil), data...)
	return nil
}

func (o *ObjectStorage) Remove(paths []string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, p := range paths {
		delete(o.files, p)
		o.Removed = append(o.Removed, p)
	}
	return nil
}

func (o *ObjectStorage) GetPublicURL(path string) string {
	return o.baseURL + "/" + path
}

// File returns the stored bytes for path and whether it exists.
func (o *ObjectStorage) File(path string) ([]byte, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	b, ok := o.files[path]
	return b, ok
}
