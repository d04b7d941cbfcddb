package handler

import (
	"time"

	"accredit/internal/certification/models"
)

type TierResponse struct {
	Key          models.TierKey `json:"key"`
	DisplayName  string         `json:"display_name"`
	Description  string         `json:"description"`
	Price        int            `json:"price"`
	DisplayColor string         `json:"display_color"`
}

type ProgressResponse struct {
	Tier               TierResponse         `json:"tier"`
	Checks             []models.CheckResult `json:"checks"`
	CompletedCount     int                  `json:"completed_count"`
	TotalCount         int                  `json:"total_count"`
	PercentComplete    int                  `json:"percent_complete"`
	AllRequirementsMet bool                 `json:"all_requirements_met"`
	SkillSnapshot      map[string]int       `json:"skill_snapshot"`
	AreasOfLaw         []string             `json:"areas_of_law"`
	Credential         *CredentialSummary   `json:"credential"`
}

// CredentialSummary is what a holder sees of their own credential.
type CredentialSummary struct {
	CredentialID     string         `json:"credential_id"`
	Tier             models.TierKey `json:"tier"`
	Status           string         `json:"status"`
	IssuedAt         time.Time      `json:"issued_at"`
	CredentialNumber string         `json:"credential_number"`
	VerificationCode string         `json:"verification_code"`
	SkillsSnapshot   map[string]int `json:"skills_snapshot"`
	OverallAverage   int            `json:"overall_average"`
	TotalSessions    int            `json:"total_sessions"`
	AreasOfLaw       []string       `json:"areas_of_law"`
	Strengths        []string       `json:"strengths"`
	Improvements     []string       `json:"improvements"`
	PaymentStatus    string         `json:"payment_status"`
}

func toTierResponse(t models.RequirementProfile) TierResponse {
	return TierResponse{
		Key:          t.Key,
		DisplayName:  t.DisplayName,
		Description:  t.Description,
		Price:        t.Price,
		DisplayColor: t.DisplayColor,
	}
}

func toProgressResponse(r models.ProgressReport) ProgressResponse {
	return ProgressResponse{
		Tier:               toTierResponse(r.Tier),
		Checks:             r.Checks,
		CompletedCount:     r.CompletedCount,
		TotalCount:         r.TotalCount,
		PercentComplete:    r.PercentComplete,
		AllRequirementsMet: r.AllRequirementsMet,
		SkillSnapshot:      snapshotMap(r.SkillSnapshot),
		AreasOfLaw:         r.AreasOfLaw,
		Credential:         toCredentialSummary(r.Credential),
	}
}

func toCredentialSummary(c *models.Credential) *CredentialSummary {
	if c == nil {
		return nil
	}
	return &CredentialSummary{
		CredentialID:     c.ID.String(),
		Tier:             c.TierKey,
		Status:           string(c.Status),
		IssuedAt:         c.IssuedAt,
		CredentialNumber: c.CredentialNumber,
		VerificationCode: c.VerificationCode,
		SkillsSnapshot:   snapshotMap(c.SkillsSnapshot),
		OverallAverage:   c.OverallAverage,
		TotalSessions:    c.TotalSessions,
		AreasOfLaw:       c.AreasOfLaw,
		Strengths:        c.Strengths,
		Improvements:     c.Improvements,
		PaymentStatus:    string(c.PaymentStatus),
	}
}

// snapshotMap keeps a nil snapshot as JSON null so clients can tell "no
// breakdown yet" from "all zeros".
func snapshotMap(s models.SkillSnapshot) map[string]int {
	if s == nil {
		return nil
	}
	out := make(map[string]int, len(s))
	for d, v := range s {
		out[string(d)] = v
	}
	return out
}
