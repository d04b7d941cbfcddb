package progress

import (
	"math"

	"accredit/internal/certification/models"
	"accredit/internal/certification/snapshot"
)

// Evaluation is everything derived from one read of a subject's activity.
// It is tier independent; reports for every tier are built from it.
type Evaluation struct {
	Profile  models.AdvocateProfile
	Metrics  Metrics
	Scored   []models.ScoredSession
	Snapshot snapshot.Result
}

// Evaluate derives metrics and the skill snapshot from raw activity.
func Evaluate(profile models.AdvocateProfile, activity models.Activity, label snapshot.LabelFunc) Evaluation {
	scored := ScoredSessions(activity.Sessions)
	return Evaluation{
		Profile:  profile,
		Metrics:  ComputeMetrics(activity, scored, profile.StreakDays),
		Scored:   scored,
		Snapshot: snapshot.Build(scored, label),
	}
}

// BuildReport evaluates the tier checklist against the evaluation. credential
// is the subject's issued credential for the tier, or nil.
func BuildReport(tier models.RequirementProfile, eval Evaluation, credential *models.Credential) models.ProgressReport {
	reqs := Checklist(tier)
	checks := make([]models.CheckResult, 0, len(reqs))
	completed := 0
	for _, r := range reqs {
		res := r.Evaluate(eval.Metrics)
		if res.Satisfied {
			completed++
		}
		checks = append(checks, res)
	}

	total := len(checks)
	percent := 0
	if total > 0 {
		percent = int(math.Round(float64(completed) * 100 / float64(total)))
	}

	areas := make([]string, len(eval.Metrics.AreasOfLaw))
	copy(areas, eval.Metrics.AreasOfLaw)

	return models.ProgressReport{
		Tier:               tier,
		Checks:             checks,
		CompletedCount:     completed,
		TotalCount:         total,
		PercentComplete:    percent,
		AllRequirementsMet: completed == total,
		SkillSnapshot:      eval.Snapshot.Skills,
		AreasOfLaw:         areas,
		Credential:         credential,
	}
}
