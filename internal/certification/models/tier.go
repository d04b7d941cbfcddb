package models

// TierKey identifies a certification level.
type TierKey string

const (
	TierFoundation  TierKey = "foundation"
	TierAdvanced    TierKey = "advanced"
	TierDistinction TierKey = "distinction"
)

func (k TierKey) String() string { return string(k) }

// RequirementProfile is the immutable description of one tier. A zero or
// false threshold means the tier does not require it, except for the four
// unconditional checks (sessions, average score, group moots, areas of law).
type RequirementProfile struct {
	Key          TierKey `yaml:"key" json:"key"`
	DisplayName  string  `yaml:"displayName" json:"display_name"`
	Description  string  `yaml:"description" json:"description"`
	Price        int     `yaml:"price" json:"price"`
	DisplayColor string  `yaml:"color" json:"display_color"`

	MinScoredSessions int `yaml:"minScoredSessions" json:"min_scored_sessions"`
	MinAverageScore   int `yaml:"minAverageScore" json:"min_average_score"`
	MinGroupMoots     int `yaml:"minGroupMoots" json:"min_group_moots"`
	MinPortfolioSaves int `yaml:"minPortfolioSaves" json:"min_portfolio_saves,omitempty"`
	MinAreasOfLaw     int `yaml:"minAreasOfLaw" json:"min_areas_of_law"`

	// MinDimensionScore and MinDimensionsAbove are paired: at least
	// MinDimensionsAbove axes must average MinDimensionScore or more.
	MinDimensionScore  int `yaml:"minDimensionScore" json:"min_dimension_score,omitempty"`
	MinDimensionsAbove int `yaml:"minDimensionsAbove" json:"min_dimensions_above,omitempty"`

	RequiresTournamentEntry bool `yaml:"requiresTournamentEntry" json:"requires_tournament_entry,omitempty"`
	RequiresContribution    bool `yaml:"requiresContribution" json:"requires_contribution,omitempty"`
	MinStreakDays           int  `yaml:"minStreakDays" json:"min_streak_days,omitempty"`
	RequiresTimedAssessment bool `yaml:"requiresTimedAssessment" json:"requires_timed_assessment,omitempty"`
	MinPeerFeedback         int  `yaml:"minPeerFeedback" json:"min_peer_feedback,omitempty"`
	MinResearchSaves        int  `yaml:"minResearchSaves" json:"min_research_saves,omitempty"`
}

// RequirementKey names a single checklist entry.
type RequirementKey string

const (
	RequirementScoredSessions  RequirementKey = "scored_sessions"
	RequirementAverageScore    RequirementKey = "average_score"
	RequirementGroupMoots      RequirementKey = "group_moots"
	RequirementPortfolioSaves  RequirementKey = "portfolio_saves"
	RequirementAreasOfLaw      RequirementKey = "areas_of_law"
	RequirementDimensions      RequirementKey = "dimensions_above"
	RequirementTournamentEntry RequirementKey = "tournament_entry"
	RequirementContribution    RequirementKey = "contribution"
	RequirementStreakDays      RequirementKey = "streak_days"
	RequirementTimedAssessment RequirementKey = "timed_assessment"
	RequirementPeerFeedback    RequirementKey = "peer_feedback"
	RequirementResearchSaves   RequirementKey = "research_saves"
)

// CheckResult is one evaluated checklist entry. Boolean requirements report
// current and target as 0/1.
type CheckResult struct {
	Key       RequirementKey `json:"key"`
	Label     string         `json:"label"`
	Satisfied bool           `json:"satisfied"`
	Current   int            `json:"current"`
	Target    int            `json:"target"`
}

// SkillSnapshot maps each axis to its integer average (0–100).
type SkillSnapshot map[Dimension]int

// ProgressReport is the derived, never-persisted view of one tier for one
// subject. SkillSnapshot is nil when no session carried a breakdown.
type ProgressReport struct {
	Tier               RequirementProfile
	Checks             []CheckResult
	CompletedCount     int
	TotalCount         int
	PercentComplete    int
	AllRequirementsMet bool
	SkillSnapshot      SkillSnapshot
	AreasOfLaw         []string
	Credential         *Credential
}
