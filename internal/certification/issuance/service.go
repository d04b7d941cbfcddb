package issuance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"accredit/internal/audit"
	"accredit/internal/certification/metrics"
	"accredit/internal/certification/models"
	"accredit/internal/certification/progress"
	id "accredit/pkg/domain"
	dErrors "accredit/pkg/domain-errors"
	"accredit/pkg/platform/sentinel"
	"accredit/pkg/requestcontext"
)

// DefaultMaxAttempts bounds insert attempts when generated identifiers collide.
const DefaultMaxAttempts = 5

// DefaultNumberPrefix is used when no prefix is configured.
const DefaultNumberPrefix = "ACC"

const unknownTierLabel = "unknown"

// Evaluator re-runs the progress aggregation for one tier.
type Evaluator interface {
	ProgressForTier(ctx context.Context, userID id.UserID, key models.TierKey) (models.ProgressReport, progress.Evaluation, error)
}

type ProfileReader interface {
	FindProfile(ctx context.Context, userID id.UserID) (*models.AdvocateProfile, error)
}

// CredentialStore is the uniqueness authority for issued credentials.
// InsertIssued returns sentinel.ErrAlreadyUsed when the subject already holds
// an issued credential for the tier, and models.ErrVerificationCodeTaken or
// models.ErrCredentialNumberTaken on identifier collisions.
type CredentialStore interface {
	FindIssued(ctx context.Context, subject id.UserID, tier models.TierKey) (*models.Credential, error)
	InsertIssued(ctx context.Context, credential *models.Credential) error
}

// SequenceAllocator hands out the next value of the global counter for a year.
type SequenceAllocator interface {
	Next(ctx context.Context, year int) (int64, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

type TierCatalog interface {
	Lookup(key models.TierKey) (models.RequirementProfile, error)
}

type ClaimRequest struct {
	Subject          id.UserID
	TierKey          models.TierKey
	PaymentStatus    models.PaymentStatus
	PaymentReference string
}

type ClaimResult struct {
	CredentialID     id.CredentialID `json:"credential_id"`
	CredentialNumber string          `json:"credential_number"`
	VerificationCode string          `json:"verification_code"`
}

// Service issues credentials after re-validating eligibility server-side.
type Service struct {
	catalog        TierCatalog
	profiles       ProfileReader
	evaluator      Evaluator
	credentials    CredentialStore
	sequence       SequenceAllocator
	auditPublisher AuditPublisher
	logger         *slog.Logger
	metrics        *metrics.Metrics
	tracer         trace.Tracer
	generateCode   CodeGenerator
	prefix         string
	maxAttempts    int
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithCodeGenerator(gen CodeGenerator) Option {
	return func(s *Service) {
		s.generateCode = gen
	}
}

// WithNumberPrefix sets the credential number prefix. Empty keeps the default.
func WithNumberPrefix(prefix string) Option {
	return func(s *Service) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

func WithMaxAttempts(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

func New(catalog TierCatalog, profiles ProfileReader, evaluator Evaluator, credentials CredentialStore, sequence SequenceAllocator, opts ...Option) (*Service, error) {
	switch {
	case catalog == nil:
		return nil, errors.New("catalog is required")
	case profiles == nil:
		return nil, errors.New("profile reader is required")
	case evaluator == nil:
		return nil, errors.New("evaluator is required")
	case credentials == nil:
		return nil, errors.New("credential store is required")
	case sequence == nil:
		return nil, errors.New("sequence allocator is required")
	}
	s := &Service{
		catalog:      catalog,
		profiles:     profiles,
		evaluator:    evaluator,
		credentials:  credentials,
		sequence:     sequence,
		logger:       slog.Default(),
		tracer:       otel.Tracer("accredit/issuance"),
		generateCode: RandomVerificationCode,
		prefix:       DefaultNumberPrefix,
		maxAttempts:  DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Claim issues the credential for req.TierKey if every requirement is met
// and the subject does not already hold one.
func (s *Service) Claim(ctx context.Context, req ClaimRequest) (*ClaimResult, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "issuance.Claim", trace.WithAttributes(
		attribute.String("user_id", req.Subject.String()),
		attribute.String("tier", req.TierKey.String()),
	))
	defer span.End()
	defer s.metrics.ObserveClaim(start)

	result, err := s.claim(ctx, req)
	if err != nil {
		span.RecordError(err)
		s.metrics.IncrementClaim(s.tierLabel(req.TierKey), outcomeOf(err))
		s.logger.InfoContext(ctx, "credential claim rejected",
			"request_id", requestcontext.RequestID(ctx),
			"user_id", req.Subject.String(),
			"tier", req.TierKey.String(),
			"reason", string(dErrors.CodeOf(err)),
		)
		return nil, err
	}
	s.metrics.IncrementClaim(s.tierLabel(req.TierKey), "issued")
	s.logger.InfoContext(ctx, "credential issued",
		"request_id", requestcontext.RequestID(ctx),
		"user_id", req.Subject.String(),
		"tier", req.TierKey.String(),
		"credential_number", result.CredentialNumber,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

func (s *Service) claim(ctx context.Context, req ClaimRequest) (*ClaimResult, error) {
	if req.Subject.IsNil() {
		return nil, models.ErrNotAuthenticated
	}
	if _, err := s.catalog.Lookup(req.TierKey); err != nil {
		return nil, err
	}
	payment, err := models.ParsePaymentStatus(string(req.PaymentStatus))
	if err != nil {
		return nil, err
	}

	if _, err := s.profiles.FindProfile(ctx, req.Subject); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, models.ErrProfileNotFound
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load advocate profile")
	}

	existing, err := s.credentials.FindIssued(ctx, req.Subject, req.TierKey)
	switch {
	case err == nil && existing != nil:
		return nil, models.ErrAlreadyIssued
	case err != nil && !errors.Is(err, sentinel.ErrNotFound):
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check existing credential")
	}

	report, eval, err := s.evaluator.ProgressForTier(ctx, req.Subject, req.TierKey)
	if err != nil {
		return nil, err
	}
	if !report.AllRequirementsMet {
		return nil, models.ErrRequirementsNotMet
	}

	issuedAt := requestcontext.Now(ctx).UTC()
	credential := &models.Credential{
		ID:               id.NewCredentialID(),
		Subject:          req.Subject,
		TierKey:          req.TierKey,
		Status:           models.CredentialStatusIssued,
		IssuedAt:         issuedAt,
		SkillsSnapshot:   eval.Snapshot.Skills,
		OverallAverage:   eval.Metrics.AverageScore,
		TotalSessions:    eval.Metrics.TotalSessions,
		AreasOfLaw:       report.AreasOfLaw,
		Strengths:        eval.Snapshot.Strengths,
		Improvements:     eval.Snapshot.Improvements,
		PaymentStatus:    payment,
		PaymentReference: req.PaymentReference,
	}

	if err := s.insertWithRetry(ctx, credential); err != nil {
		return nil, err
	}
	s.emitIssued(ctx, credential)

	return &ClaimResult{
		CredentialID:     credential.ID,
		CredentialNumber: credential.CredentialNumber,
		VerificationCode: credential.VerificationCode,
	}, nil
}

// insertWithRetry allocates identifiers and inserts, re-rolling whichever
// identifier collided. The subject/tier conflict is never retried.
func (s *Service) insertWithRetry(ctx context.Context, c *models.Credential) error {
	year := c.IssuedAt.Year()
	needNumber, needCode := true, true

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		if needNumber {
			seq, err := s.sequence.Next(ctx, year)
			if err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to allocate credential number")
			}
			c.CredentialNumber = models.FormatCredentialNumber(s.prefix, year, seq)
			needNumber = false
		}
		if needCode {
			code, err := s.generateCode()
			if err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate verification code")
			}
			c.VerificationCode = code
			needCode = false
		}
		if err := c.Validate(); err != nil {
			return err
		}

		err := s.credentials.InsertIssued(ctx, c)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, sentinel.ErrAlreadyUsed):
			return models.ErrAlreadyIssued
		case errors.Is(err, models.ErrVerificationCodeTaken):
			needCode = true
			s.metrics.IncrementRetry("verification_code")
		case errors.Is(err, models.ErrCredentialNumberTaken):
			needNumber = true
			s.metrics.IncrementRetry("credential_number")
		default:
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store credential")
		}
		s.logger.WarnContext(ctx, "credential identifier collision",
			"user_id", c.Subject.String(),
			"attempt", attempt,
			"error", err,
		)
	}
	return dErrors.Wrap(models.ErrPersistenceConflict, dErrors.CodeInternal,
		fmt.Sprintf("credential identifiers collided %d times", s.maxAttempts))
}

func (s *Service) emitIssued(ctx context.Context, c *models.Credential) {
	if s.auditPublisher == nil {
		return
	}
	err := s.auditPublisher.Emit(ctx, audit.Event{
		Timestamp:        c.IssuedAt,
		Action:           audit.ActionCredentialIssued,
		UserID:           c.Subject,
		CredentialID:     c.ID,
		Tier:             c.TierKey.String(),
		CredentialNumber: c.CredentialNumber,
		RequestID:        requestcontext.RequestID(ctx),
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to emit credential audit event",
			"user_id", c.Subject.String(),
			"credential_id", c.ID.String(),
			"error", err,
		)
	}
}

// tierLabel keeps the claims metric bounded to catalog tiers; the key comes
// straight from the request body.
func (s *Service) tierLabel(key models.TierKey) string {
	if _, err := s.catalog.Lookup(key); err != nil {
		return unknownTierLabel
	}
	return key.String()
}

func outcomeOf(err error) string {
	switch {
	case dErrors.HasCode(err, dErrors.CodeAlreadyIssued):
		return "already_issued"
	case dErrors.HasCode(err, dErrors.CodeRequirementsNotMet):
		return "requirements_not_met"
	case dErrors.HasCode(err, dErrors.CodeProfileNotFound):
		return "profile_not_found"
	case dErrors.HasCode(err, dErrors.CodeInvalidTier), dErrors.HasCode(err, dErrors.CodeValidation):
		return "invalid_request"
	default:
		return "error"
	}
}
