package progress

import (
	"fmt"

	"accredit/internal/certification/models"
)

// Requirement is one checklist entry: a threshold paired with a pure
// accessor over Metrics.
type Requirement interface {
	Key() models.RequirementKey
	Evaluate(m Metrics) models.CheckResult
}

// CountAtLeast requires an activity count of at least Min.
type CountAtLeast struct {
	Name  models.RequirementKey
	Label string
	Min   int
	Count func(Metrics) int
}

func (r CountAtLeast) Key() models.RequirementKey { return r.Name }

func (r CountAtLeast) Evaluate(m Metrics) models.CheckResult {
	current := r.Count(m)
	return models.CheckResult{Key: r.Name, Label: r.Label, Satisfied: current >= r.Min, Current: current, Target: r.Min}
}

// ScoreAtLeast requires a 0–100 score of at least Min.
type ScoreAtLeast struct {
	Name  models.RequirementKey
	Label string
	Min   int
	Score func(Metrics) int
}

func (r ScoreAtLeast) Key() models.RequirementKey { return r.Name }

func (r ScoreAtLeast) Evaluate(m Metrics) models.CheckResult {
	current := r.Score(m)
	return models.CheckResult{Key: r.Name, Label: r.Label, Satisfied: current >= r.Min, Current: current, Target: r.Min}
}

// BooleanFlag requires a fact to hold. Current/Target are reported as 0/1.
type BooleanFlag struct {
	Name  models.RequirementKey
	Label string
	Flag  func(Metrics) bool
}

func (r BooleanFlag) Key() models.RequirementKey { return r.Name }

func (r BooleanFlag) Evaluate(m Metrics) models.CheckResult {
	current := 0
	if r.Flag(m) {
		current = 1
	}
	return models.CheckResult{Key: r.Name, Label: r.Label, Satisfied: current == 1, Current: current, Target: 1}
}

// DimensionsAboveThreshold requires Count axes averaging at least Score.
type DimensionsAboveThreshold struct {
	Name  models.RequirementKey
	Label string
	Score int
	Count int
}

func (r DimensionsAboveThreshold) Key() models.RequirementKey { return r.Name }

func (r DimensionsAboveThreshold) Evaluate(m Metrics) models.CheckResult {
	current := m.DimensionsAbove(r.Score)
	return models.CheckResult{Key: r.Name, Label: r.Label, Satisfied: current >= r.Count, Current: current, Target: r.Count}
}

// Checklist derives the ordered requirements of a tier. It depends only on
// the profile: zero or false thresholds are omitted, except the four
// unconditional checks.
func Checklist(p models.RequirementProfile) []Requirement {
	reqs := []Requirement{
		CountAtLeast{
			Name:  models.RequirementScoredSessions,
			Label: fmt.Sprintf("Complete %d scored sessions", p.MinScoredSessions),
			Min:   p.MinScoredSessions,
			Count: func(m Metrics) int { return m.TotalSessions },
		},
		ScoreAtLeast{
			Name:  models.RequirementAverageScore,
			Label: fmt.Sprintf("Average score of %d or higher", p.MinAverageScore),
			Min:   p.MinAverageScore,
			Score: func(m Metrics) int { return m.AverageScore },
		},
		CountAtLeast{
			Name:  models.RequirementGroupMoots,
			Label: fmt.Sprintf("Attend %d group moots", p.MinGroupMoots),
			Min:   p.MinGroupMoots,
			Count: func(m Metrics) int { return m.GroupMoots },
		},
	}
	if p.MinPortfolioSaves > 0 {
		reqs = append(reqs, CountAtLeast{
			Name:  models.RequirementPortfolioSaves,
			Label: fmt.Sprintf("Save %d sessions to your portfolio", p.MinPortfolioSaves),
			Min:   p.MinPortfolioSaves,
			Count: func(m Metrics) int { return m.PortfolioSaves },
		})
	}
	reqs = append(reqs, CountAtLeast{
		Name:  models.RequirementAreasOfLaw,
		Label: fmt.Sprintf("Practise in %d areas of law", p.MinAreasOfLaw),
		Min:   p.MinAreasOfLaw,
		Count: func(m Metrics) int { return len(m.AreasOfLaw) },
	})
	if p.MinDimensionsAbove > 0 {
		reqs = append(reqs, DimensionsAboveThreshold{
			Name:  models.RequirementDimensions,
			Label: fmt.Sprintf("Score %d+ in %d skill dimensions", p.MinDimensionScore, p.MinDimensionsAbove),
			Score: p.MinDimensionScore,
			Count: p.MinDimensionsAbove,
		})
	}
	if p.RequiresTournamentEntry {
		reqs = append(reqs, BooleanFlag{
			Name:  models.RequirementTournamentEntry,
			Label: "Enter a tournament",
			Flag:  func(m Metrics) bool { return m.HasTournament },
		})
	}
	if p.RequiresContribution {
		reqs = append(reqs, BooleanFlag{
			Name:  models.RequirementContribution,
			Label: "Contribute to the community",
			Flag:  func(m Metrics) bool { return m.HasContribution },
		})
	}
	if p.MinStreakDays > 0 {
		reqs = append(reqs, CountAtLeast{
			Name:  models.RequirementStreakDays,
			Label: fmt.Sprintf("Reach a %d-day practice streak", p.MinStreakDays),
			Min:   p.MinStreakDays,
			Count: func(m Metrics) int { return m.StreakDays },
		})
	}
	if p.RequiresTimedAssessment {
		reqs = append(reqs, BooleanFlag{
			Name:  models.RequirementTimedAssessment,
			Label: "Complete a timed assessment",
			Flag:  func(m Metrics) bool { return m.TimedAssessments > 0 },
		})
	}
	if p.MinPeerFeedback > 0 {
		reqs = append(reqs, CountAtLeast{
			Name:  models.RequirementPeerFeedback,
			Label: fmt.Sprintf("Give feedback on %d peer sessions", p.MinPeerFeedback),
			Min:   p.MinPeerFeedback,
			Count: func(m Metrics) int { return m.PeerFeedback },
		})
	}
	if p.MinResearchSaves > 0 {
		reqs = append(reqs, CountAtLeast{
			Name:  models.RequirementResearchSaves,
			Label: fmt.Sprintf("Save %d authorities from research", p.MinResearchSaves),
			Min:   p.MinResearchSaves,
			Count: func(m Metrics) int { return m.ResearchSaves },
		})
	}
	return reqs
}
