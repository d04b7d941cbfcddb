package progress

import (
	"math"

	"accredit/internal/certification/models"
	"accredit/internal/certification/snapshot"
	strutil "accredit/pkg/platform/strings"
)

// Metrics is the bundle of derived values every requirement reads from.
type Metrics struct {
	TotalSessions     int
	AverageScore      int
	AreasOfLaw        []string
	DimensionAverages models.SkillSnapshot
	GroupMoots        int
	PortfolioSaves    int
	HasTournament     bool
	HasContribution   bool
	StreakDays        int
	TimedAssessments  int
	PeerFeedback      int
	ResearchSaves     int
}

// DimensionsAbove counts the axes whose average is at least threshold.
func (m Metrics) DimensionsAbove(threshold int) int {
	n := 0
	for _, d := range models.Dimensions {
		if m.DimensionAverages[d] >= threshold {
			n++
		}
	}
	return n
}

// ScoredSessions keeps completed sessions that carry an overall score.
func ScoredSessions(sessions []models.ScoredSession) []models.ScoredSession {
	out := make([]models.ScoredSession, 0, len(sessions))
	for _, s := range sessions {
		if s.IsScored() {
			out = append(out, s)
		}
	}
	return out
}

// ComputeMetrics derives the metrics bundle from raw activity. scored must be
// ScoredSessions(activity.Sessions).
func ComputeMetrics(activity models.Activity, scored []models.ScoredSession, streakDays int) Metrics {
	m := Metrics{
		TotalSessions:     len(scored),
		DimensionAverages: make(models.SkillSnapshot, len(models.Dimensions)),
		HasTournament:     len(activity.Tournaments) > 0,
		HasContribution:   len(activity.Contributions) > 0,
		StreakDays:        streakDays,
		ResearchSaves:     len(activity.SavedAuthorities),
	}

	sum := 0
	areas := make([]string, 0, len(scored))
	for _, s := range scored {
		sum += *s.OverallScore
		areas = append(areas, s.AreaOfLaw)
		if s.SavedToPortfolio {
			m.PortfolioSaves++
		}
		if s.Mode == models.SessionModeExaminer {
			m.TimedAssessments++
		}
	}
	if len(scored) > 0 {
		m.AverageScore = int(math.Round(float64(sum) / float64(len(scored))))
	}

	m.AreasOfLaw = strutil.DistinctSorted(areas)

	for _, d := range models.Dimensions {
		m.DimensionAverages[d] = 0
	}
	if avgs, ok := snapshot.Averages(scored); ok {
		for d, v := range avgs {
			m.DimensionAverages[d] = v
		}
	}

	for _, p := range activity.Participations {
		if p.Attended {
			m.GroupMoots++
		}
	}
	for _, f := range activity.Feedback {
		if !f.IsAIFeedback {
			m.PeerFeedback++
		}
	}
	return m
}
