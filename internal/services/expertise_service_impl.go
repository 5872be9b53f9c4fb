package services

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/confjudge/api-server/internal/apperr"
	"github.com/confjudge/api-server/internal/auth"
	"github.com/confjudge/api-server/internal/store"
)

// maxExpertiseAreaLen caps tag length in characters, not bytes.
const maxExpertiseAreaLen = 100

// expertiseAreaService implements ExpertiseAreaService
type expertiseAreaService struct {
	store *store.Store
}

func newExpertiseAreaService(st *store.Store) ExpertiseAreaService {
	return &expertiseAreaService{store: st}
}

// AddConferenceArea appends a tag to the conference vocabulary.
// Comparison is exact, so "AI" and "ai" are distinct tags.
func (s *expertiseAreaService) AddConferenceArea(caller auth.Caller, conferenceID uuid.UUID, area string) ([]string, error) {
	if !caller.Role.IsAdmin() {
		return nil, apperr.Authorization("Only admins can define expertise areas")
	}
	if strings.TrimSpace(area) == "" {
		return nil, apperr.Validation("Expertise area cannot be empty")
	}
	if utf8.RuneCountInString(area) > maxExpertiseAreaLen {
		return nil, apperr.Validation("Expertise area name too long")
	}

	current, err := s.store.Conferences.GetExpertiseAreas(conferenceID)
	if err != nil {
		return nil, apperr.Internal("failed to load expertise areas", err)
	}
	for _, existing := range current {
		if existing == area {
			return nil, apperr.Validation("Expertise area already exists")
		}
	}

	updated := append(current, area)
	if err := s.store.Conferences.UpdateExpertiseAreas(conferenceID, updated); err != nil {
		return nil, apperr.Internal("failed to update expertise areas", err)
	}
	return updated, nil
}

// RemoveConferenceArea removes a tag from the conference vocabulary.
// Tags already selected by judges are left untouched.
func (s *expertiseAreaService) RemoveConferenceArea(caller auth.Caller, conferenceID uuid.UUID, area string) ([]string, error) {
	if !caller.Role.IsAdmin() {
		return nil, apperr.Authorization("Only admins can modify expertise areas")
	}

	current, err := s.store.Conferences.GetExpertiseAreas(conferenceID)
	if err != nil {
		return nil, apperr.Internal("failed to load expertise areas", err)
	}

	found := false
	updated := make([]string, 0, len(current))
	for _, existing := range current {
		if existing == area {
			found = true
			continue
		}
		updated = append(updated, existing)
	}
	if !found {
		return nil, apperr.Validation("Expertise area not found")
	}

	if err := s.store.Conferences.UpdateExpertiseAreas(conferenceID, updated); err != nil {
		return nil, apperr.Internal("failed to update expertise areas", err)
	}
	return updated, nil
}

func (s *expertiseAreaService) GetConferenceAreas(conferenceID uuid.UUID) ([]string, error) {
	areas, err := s.store.Conferences.GetExpertiseAreas(conferenceID)
	if err != nil {
		return nil, apperr.Internal("failed to load expertise areas", err)
	}
	if areas == nil {
		areas = []string{}
	}
	return areas, nil
}

// AssignJudgeExpertise overwrites the judge's selected tag list. A nil
// list is rejected; an empty list clears the selection.
func (s *expertiseAreaService) AssignJudgeExpertise(caller auth.Caller, judgeID uuid.UUID, areas []string) error {
	if !caller.Role.IsAdmin() {
		return apperr.Authorization("Only admins can assign expertise to judges")
	}
	if areas == nil {
		return apperr.Validation("Expertise areas must be a list")
	}

	if err := s.store.Profiles.UpdateExpertiseAreas(judgeID, areas); err != nil {
		return apperr.Internal("failed to assign expertise areas", err)
	}
	return nil
}
