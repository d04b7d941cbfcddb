package credential

import (
	"context"
	"sort"
	"sync"

	"accredit/internal/certification/models"
	id "accredit/pkg/domain"
	"accredit/pkg/platform/sentinel"
)

type subjectTier struct {
	subject id.UserID
	tier    models.TierKey
}

// InMemoryStore enforces the same uniqueness rules as the Postgres schema.
type InMemoryStore struct {
	mu       sync.RWMutex
	byID     map[id.CredentialID]*models.Credential
	byCode   map[string]id.CredentialID
	byNumber map[string]id.CredentialID
	issued   map[subjectTier]id.CredentialID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		byID:     make(map[id.CredentialID]*models.Credential),
		byCode:   make(map[string]id.CredentialID),
		byNumber: make(map[string]id.CredentialID),
		issued:   make(map[subjectTier]id.CredentialID),
	}
}

func (s *InMemoryStore) InsertIssued(_ context.Context, c *models.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := subjectTier{subject: c.Subject, tier: c.TierKey}
	if c.IsIssued() {
		if _, ok := s.issued[key]; ok {
			return sentinel.ErrAlreadyUsed
		}
	}
	if _, ok := s.byCode[c.VerificationCode]; ok {
		return models.ErrVerificationCodeTaken
	}
	if _, ok := s.byNumber[c.CredentialNumber]; ok {
		return models.ErrCredentialNumberTaken
	}

	stored := clone(c)
	s.byID[c.ID] = stored
	s.byCode[c.VerificationCode] = c.ID
	s.byNumber[c.CredentialNumber] = c.ID
	if c.IsIssued() {
		s.issued[key] = c.ID
	}
	return nil
}

func (s *InMemoryStore) FindIssued(_ context.Context, subject id.UserID, tier models.TierKey) (*models.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	credID, ok := s.issued[subjectTier{subject: subject, tier: tier}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(s.byID[credID]), nil
}

func (s *InMemoryStore) FindByVerificationCode(_ context.Context, code string) (*models.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	credID, ok := s.byCode[code]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(s.byID[credID]), nil
}

// ListBySubject returns the subject's credentials, oldest first.
func (s *InMemoryStore) ListBySubject(_ context.Context, subject id.UserID) ([]*models.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Credential
	for _, c := range s.byID {
		if c.Subject == subject {
			out = append(out, clone(c))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CredentialNumber < out[j].CredentialNumber
	})
	return out, nil
}

func clone(c *models.Credential) *models.Credential {
	cp := *c
	if c.SkillsSnapshot != nil {
		cp.SkillsSnapshot = make(models.SkillSnapshot, len(c.SkillsSnapshot))
		for k, v := range c.SkillsSnapshot {
			cp.SkillsSnapshot[k] = v
		}
	}
	cp.AreasOfLaw = copyStrings(c.AreasOfLaw)
	cp.Strengths = copyStrings(c.Strengths)
	cp.Improvements = copyStrings(c.Improvements)
	return &cp
}

func copyStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
