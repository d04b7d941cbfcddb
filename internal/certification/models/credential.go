package models

import (
	"fmt"
	"strings"
	"time"

	id "accredit/pkg/domain"
	dErrors "accredit/pkg/domain-errors"
)

type CredentialStatus string

const (
	CredentialStatusIssued CredentialStatus = "issued"
	// CredentialStatusRevoked is reserved; nothing transitions into it yet.
	CredentialStatusRevoked CredentialStatus = "revoked"
)

type PaymentStatus string

const (
	PaymentStatusPaid                   PaymentStatus = "paid"
	PaymentStatusIncludedInSubscription PaymentStatus = "included_in_subscription"
)

// ParsePaymentStatus accepts only the two recognised payment states.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch PaymentStatus(strings.TrimSpace(s)) {
	case PaymentStatusPaid:
		return PaymentStatusPaid, nil
	case PaymentStatusIncludedInSubscription:
		return PaymentStatusIncludedInSubscription, nil
	default:
		return "", dErrors.New(dErrors.CodeValidation, "payment_status must be paid or included_in_subscription")
	}
}

const (
	MaxStrengths    = 3
	MaxImprovements = 2
)

// Credential is an issued certificate. It is created once and never mutated.
type Credential struct {
	ID               id.CredentialID
	Subject          id.UserID
	TierKey          TierKey
	Status           CredentialStatus
	IssuedAt         time.Time
	CredentialNumber string
	VerificationCode string
	SkillsSnapshot   SkillSnapshot
	OverallAverage   int
	TotalSessions    int
	AreasOfLaw       []string
	Strengths        []string
	Improvements     []string
	PaymentStatus    PaymentStatus
	PaymentReference string
}

// IsIssued reports whether the credential is currently valid.
func (c *Credential) IsIssued() bool {
	return c != nil && c.Status == CredentialStatusIssued
}

// Validate checks construction invariants.
func (c *Credential) Validate() error {
	switch {
	case c.ID.IsNil():
		return dErrors.New(dErrors.CodeInvariantViolation, "credential_id is required")
	case c.Subject.IsNil():
		return dErrors.New(dErrors.CodeInvariantViolation, "subject is required")
	case c.TierKey == "":
		return dErrors.New(dErrors.CodeInvariantViolation, "tier is required")
	case c.Status != CredentialStatusIssued && c.Status != CredentialStatusRevoked:
		return dErrors.New(dErrors.CodeInvariantViolation, "status must be issued or revoked")
	case c.IssuedAt.IsZero():
		return dErrors.New(dErrors.CodeInvariantViolation, "issued_at is required")
	case c.CredentialNumber == "":
		return dErrors.New(dErrors.CodeInvariantViolation, "credential_number is required")
	case !IsVerificationCode(c.VerificationCode):
		return dErrors.New(dErrors.CodeInvariantViolation, "verification_code is malformed")
	case len(c.Strengths) > MaxStrengths:
		return dErrors.New(dErrors.CodeInvariantViolation, fmt.Sprintf("at most %d strengths", MaxStrengths))
	case len(c.Improvements) > MaxImprovements:
		return dErrors.New(dErrors.CodeInvariantViolation, fmt.Sprintf("at most %d improvements", MaxImprovements))
	}
	if _, err := ParsePaymentStatus(string(c.PaymentStatus)); err != nil {
		return dErrors.New(dErrors.CodeInvariantViolation, "payment_status is invalid")
	}
	for dim, v := range c.SkillsSnapshot {
		if !dim.IsValid() {
			return dErrors.New(dErrors.CodeInvariantViolation, "unknown dimension "+string(dim))
		}
		if v < 0 || v > 100 {
			return dErrors.New(dErrors.CodeInvariantViolation, "snapshot values must be within 0-100")
		}
	}
	return nil
}

// SnapshotEntry is a labelled axis average on the public view.
type SnapshotEntry struct {
	Dimension Dimension `json:"dimension"`
	Label     string    `json:"label"`
	Average   int       `json:"average"`
}

// PublicCredentialView is everything a third party may learn from a
// verification code. It carries no internal ids, payment or contact data.
type PublicCredentialView struct {
	CredentialNumber     string          `json:"credential_number"`
	TierKey              TierKey         `json:"tier"`
	TierDisplayName      string          `json:"tier_display_name"`
	IssuedAt             time.Time       `json:"issued_at"`
	RecipientName        string          `json:"recipient_name"`
	RecipientInstitution string          `json:"recipient_institution,omitempty"`
	SkillsSnapshot       []SnapshotEntry `json:"skills_snapshot,omitempty"`
	OverallAverage       int             `json:"overall_average"`
	TotalSessions        int             `json:"total_sessions"`
	AreasOfLaw           []string        `json:"areas_of_law"`
	Strengths            []string        `json:"strengths"`
	Improvements         []string        `json:"improvements"`
}
