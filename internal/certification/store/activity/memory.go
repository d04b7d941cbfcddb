package activity

import (
	"context"
	"sync"

	"accredit/internal/certification/models"
	id "accredit/pkg/domain"
	"accredit/pkg/platform/sentinel"
)

// InMemoryStore holds advocate profiles and activity records in memory.
// Used by tests and by dev mode.
type InMemoryStore struct {
	mu               sync.RWMutex
	profiles         map[id.UserID]models.AdvocateProfile
	sessions         map[id.UserID][]models.ScoredSession
	participations   map[id.UserID][]models.ParticipationRecord
	tournaments      map[id.UserID][]models.TournamentEntry
	contributions    map[id.UserID][]models.ContributionRecord
	feedback         map[id.UserID][]models.FeedbackRecord
	savedAuthorities map[id.UserID][]models.SavedAuthorityRecord
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		profiles:         make(map[id.UserID]models.AdvocateProfile),
		sessions:         make(map[id.UserID][]models.ScoredSession),
		participations:   make(map[id.UserID][]models.ParticipationRecord),
		tournaments:      make(map[id.UserID][]models.TournamentEntry),
		contributions:    make(map[id.UserID][]models.ContributionRecord),
		feedback:         make(map[id.UserID][]models.FeedbackRecord),
		savedAuthorities: make(map[id.UserID][]models.SavedAuthorityRecord),
	}
}

func (s *InMemoryStore) SaveProfile(_ context.Context, profile models.AdvocateProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.UserID] = profile
	return nil
}

func (s *InMemoryStore) FindProfile(_ context.Context, userID id.UserID) (*models.AdvocateProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &profile, nil
}

// Record appends activity for a subject. Any nil slice is skipped.
func (s *InMemoryStore) Record(_ context.Context, userID id.UserID, a models.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = append(s.sessions[userID], a.Sessions...)
	s.participations[userID] = append(s.participations[userID], a.Participations...)
	s.tournaments[userID] = append(s.tournaments[userID], a.Tournaments...)
	s.contributions[userID] = append(s.contributions[userID], a.Contributions...)
	s.feedback[userID] = append(s.feedback[userID], a.Feedback...)
	s.savedAuthorities[userID] = append(s.savedAuthorities[userID], a.SavedAuthorities...)
	return nil
}

func (s *InMemoryStore) ListSessions(_ context.Context, userID id.UserID) ([]models.ScoredSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.ScoredSession{}, s.sessions[userID]...), nil
}

func (s *InMemoryStore) ListParticipations(_ context.Context, userID id.UserID) ([]models.ParticipationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.ParticipationRecord{}, s.participations[userID]...), nil
}

func (s *InMemoryStore) ListTournamentEntries(_ context.Context, userID id.UserID) ([]models.TournamentEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.TournamentEntry{}, s.tournaments[userID]...), nil
}

func (s *InMemoryStore) ListContributions(_ context.Context, userID id.UserID) ([]models.ContributionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.ContributionRecord{}, s.contributions[userID]...), nil
}

func (s *InMemoryStore) ListFeedbackGiven(_ context.Context, userID id.UserID) ([]models.FeedbackRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.FeedbackRecord{}, s.feedback[userID]...), nil
}

func (s *InMemoryStore) ListSavedAuthorities(_ context.Context, userID id.UserID) ([]models.SavedAuthorityRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.SavedAuthorityRecord{}, s.savedAuthorities[userID]...), nil
}
