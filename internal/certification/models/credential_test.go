package models_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"accredit/internal/certification/models"
	id "accredit/pkg/domain"
	dErrors "accredit/pkg/domain-errors"
)

type CredentialSuite struct {
	suite.Suite
	valid models.Credential
}

func TestCredentialSuite(t *testing.T) {
	suite.Run(t, new(CredentialSuite))
}

func (s *CredentialSuite) SetupTest() {
	s.valid = models.Credential{
		ID:               id.NewCredentialID(),
		Subject:          id.UserID(uuid.New()),
		TierKey:          models.TierFoundation,
		Status:           models.CredentialStatusIssued,
		IssuedAt:         time.Now(),
		CredentialNumber: "ACC-2026-00001",
		VerificationCode: "ABCD-EFGH-JKLM",
		SkillsSnapshot:   models.SkillSnapshot{models.DimensionOralDelivery: 70},
		Strengths:        []string{"a", "b", "c"},
		Improvements:     []string{"d", "e"},
		PaymentStatus:    models.PaymentStatusIncludedInSubscription,
	}
}

func (s *CredentialSuite) TestConstructionInvariants() {
	s.Run("accepts valid credential", func() {
		s.Require().NoError(s.valid.Validate())
	})

	cases := []struct {
		name   string
		mutate func(c *models.Credential)
		field  string
	}{
		{"nil id", func(c *models.Credential) { c.ID = id.CredentialID{} }, "credential_id"},
		{"nil subject", func(c *models.Credential) { c.Subject = id.UserID{} }, "subject"},
		{"zero issued_at", func(c *models.Credential) { c.IssuedAt = time.Time{} }, "issued_at"},
		{"malformed code", func(c *models.Credential) { c.VerificationCode = "ABCD-EFGH-JKL0" }, "verification_code"},
		{"too many strengths", func(c *models.Credential) { c.Strengths = []string{"a", "b", "c", "d"} }, "strengths"},
		{"too many improvements", func(c *models.Credential) { c.Improvements = []string{"a", "b", "c"} }, "improvements"},
		{"unknown payment status", func(c *models.Credential) { c.PaymentStatus = "free" }, "payment_status"},
		{"snapshot out of range", func(c *models.Credential) {
			c.SkillsSnapshot = models.SkillSnapshot{models.DimensionOralDelivery: 101}
		}, "0-100"},
	}
	for _, tc := range cases {
		s.Run("rejects "+tc.name, func() {
			c := s.valid
			tc.mutate(&c)
			err := c.Validate()
			s.Require().Error(err)
			s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
			s.Contains(err.Error(), tc.field)
		})
	}
}

func (s *CredentialSuite) TestIsIssued() {
	s.True(s.valid.IsIssued())

	revoked := s.valid
	revoked.Status = models.CredentialStatusRevoked
	s.False(revoked.IsIssued())

	var missing *models.Credential
	s.False(missing.IsIssued())
}

func TestParsePaymentStatus(t *testing.T) {
	for _, in := range []string{"paid", "included_in_subscription", " paid "} {
		if _, err := models.ParsePaymentStatus(in); err != nil {
			t.Fatalf("expected %q to parse: %v", in, err)
		}
	}
	if _, err := models.ParsePaymentStatus("comped"); !dErrors.HasCode(err, dErrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
