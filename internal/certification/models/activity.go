package models

import (
	"time"

	id "accredit/pkg/domain"
)

// Dimension is one of the seven skill axes scored per session.
type Dimension string

const (
	DimensionArgumentStructure Dimension = "argumentStructure"
	DimensionLegalKnowledge    Dimension = "legalKnowledge"
	DimensionOralDelivery      Dimension = "oralDelivery"
	DimensionResponsiveness    Dimension = "responsiveness"
	DimensionUseOfAuthority    Dimension = "useOfAuthority"
	DimensionPersuasiveness    Dimension = "persuasiveness"
	DimensionTimeManagement    Dimension = "timeManagement"
)

// Dimensions lists every axis in declared order. Ties in strength ranking
// resolve by this order.
var Dimensions = []Dimension{
	DimensionArgumentStructure,
	DimensionLegalKnowledge,
	DimensionOralDelivery,
	DimensionResponsiveness,
	DimensionUseOfAuthority,
	DimensionPersuasiveness,
	DimensionTimeManagement,
}

// IsValid reports whether d is one of the declared axes.
func (d Dimension) IsValid() bool {
	for _, known := range Dimensions {
		if d == known {
			return true
		}
	}
	return false
}

// DimensionScores is the per-axis breakdown of a session. A nil map means the
// session carries no breakdown; a missing key means that axis was not scored.
type DimensionScores map[Dimension]int

type SessionStatus string

const (
	SessionStatusInProgress SessionStatus = "in_progress"
	SessionStatusCompleted  SessionStatus = "completed"
	SessionStatusAbandoned  SessionStatus = "abandoned"
)

type SessionMode string

const (
	SessionModePractice SessionMode = "practice"
	// SessionModeExaminer sessions are timed assessments.
	SessionModeExaminer SessionMode = "examiner"
)

// ScoredSession is a practice session as recorded by the session store.
// OverallScore is nil until the session has been scored.
type ScoredSession struct {
	ID               string          `json:"id"`
	Status           SessionStatus   `json:"status"`
	OverallScore     *int            `json:"overall_score,omitempty"`
	DimensionScores  DimensionScores `json:"dimension_scores,omitempty"`
	AreaOfLaw        string          `json:"area_of_law"`
	Mode             SessionMode     `json:"mode"`
	SavedToPortfolio bool            `json:"saved_to_portfolio"`
	Timestamp        time.Time       `json:"timestamp"`
}

// IsScored reports whether the session counts toward progress: completed
// and carrying an overall score.
func (s ScoredSession) IsScored() bool {
	return s.Status == SessionStatusCompleted && s.OverallScore != nil
}

// ParticipationRecord is a group moot booking.
type ParticipationRecord struct {
	ID       string    `json:"id"`
	Attended bool      `json:"attended"`
	HeldAt   time.Time `json:"held_at"`
}

type TournamentEntry struct {
	ID             string    `json:"id"`
	TournamentName string    `json:"tournament_name"`
	EnteredAt      time.Time `json:"entered_at"`
}

// ContributionRecord is a piece of community content authored by the advocate.
type ContributionRecord struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

// FeedbackRecord is feedback the advocate gave on another session.
type FeedbackRecord struct {
	ID           string    `json:"id"`
	IsAIFeedback bool      `json:"is_ai_feedback"`
	CreatedAt    time.Time `json:"created_at"`
}

// SavedAuthorityRecord is a case or statute saved from research.
type SavedAuthorityRecord struct {
	ID       string    `json:"id"`
	Citation string    `json:"citation"`
	SavedAt  time.Time `json:"saved_at"`
}

// AdvocateProfile is the subject's activity profile. Email is contact data and
// must never reach the public verification surface.
type AdvocateProfile struct {
	UserID      id.UserID `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Institution string    `json:"institution,omitempty"`
	Email       string    `json:"-"`
	StreakDays  int       `json:"streak_days"`
	JoinedAt    time.Time `json:"joined_at"`
}

// Activity bundles every record type read for one subject.
type Activity struct {
	Sessions         []ScoredSession
	Participations   []ParticipationRecord
	Tournaments      []TournamentEntry
	Contributions    []ContributionRecord
	Feedback         []FeedbackRecord
	SavedAuthorities []SavedAuthorityRecord
}
