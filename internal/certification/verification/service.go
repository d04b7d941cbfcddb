package verification

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"accredit/internal/certification/metrics"
	"accredit/internal/certification/models"
	id "accredit/pkg/domain"
	dErrors "accredit/pkg/domain-errors"
	"accredit/pkg/platform/sentinel"
)

type CredentialReader interface {
	FindByVerificationCode(ctx context.Context, code string) (*models.Credential, error)
	ListBySubject(ctx context.Context, subject id.UserID) ([]*models.Credential, error)
}

type ProfileReader interface {
	FindProfile(ctx context.Context, userID id.UserID) (*models.AdvocateProfile, error)
}

type Catalog interface {
	Lookup(key models.TierKey) (models.RequirementProfile, error)
	DimensionLabel(d models.Dimension) string
}

// Service answers public verification lookups and lists a subject's own
// credentials.
type Service struct {
	credentials CredentialReader
	profiles    ProfileReader
	catalog     Catalog
	logger      *slog.Logger
	metrics     *metrics.Metrics
	tracer      trace.Tracer
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

func New(credentials CredentialReader, profiles ProfileReader, catalog Catalog, opts ...Option) *Service {
	s := &Service{
		credentials: credentials,
		profiles:    profiles,
		catalog:     catalog,
		logger:      slog.Default(),
		tracer:      otel.Tracer("accredit/verification"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Verify returns the public view of the credential holding code, or nil when
// the code is malformed, unknown, or belongs to a credential that is not
// currently issued. Callers cannot tell these cases apart.
func (s *Service) Verify(ctx context.Context, code string) (*models.PublicCredentialView, error) {
	ctx, span := s.tracer.Start(ctx, "verification.Verify")
	defer span.End()

	normalized, ok := models.NormalizeVerificationCode(code)
	if !ok {
		s.metrics.IncrementVerify("malformed")
		return nil, nil
	}

	credential, err := s.credentials.FindByVerificationCode(ctx, normalized)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.metrics.IncrementVerify("not_found")
			return nil, nil
		}
		span.RecordError(err)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up credential")
	}
	if !credential.IsIssued() {
		s.metrics.IncrementVerify("not_issued")
		return nil, nil
	}

	view := s.publicView(credential)

	profile, err := s.profiles.FindProfile(ctx, credential.Subject)
	switch {
	case err == nil:
		view.RecipientName = profile.DisplayName
		view.RecipientInstitution = profile.Institution
	case errors.Is(err, sentinel.ErrNotFound):
		s.logger.WarnContext(ctx, "verified credential has no advocate profile",
			"credential_number", credential.CredentialNumber,
		)
	default:
		span.RecordError(err)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load recipient")
	}

	s.metrics.IncrementVerify("found")
	return view, nil
}

// ListCredentials returns every credential held by subject, any status.
func (s *Service) ListCredentials(ctx context.Context, subject id.UserID) ([]*models.Credential, error) {
	creds, err := s.credentials.ListBySubject(ctx, subject)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list credentials")
	}
	return creds, nil
}

func (s *Service) publicView(c *models.Credential) *models.PublicCredentialView {
	view := &models.PublicCredentialView{
		CredentialNumber: c.CredentialNumber,
		TierKey:          c.TierKey,
		TierDisplayName:  string(c.TierKey),
		IssuedAt:         c.IssuedAt,
		OverallAverage:   c.OverallAverage,
		TotalSessions:    c.TotalSessions,
		AreasOfLaw:       nonNil(c.AreasOfLaw),
		Strengths:        nonNil(c.Strengths),
		Improvements:     nonNil(c.Improvements),
	}
	if tier, err := s.catalog.Lookup(c.TierKey); err == nil {
		view.TierDisplayName = tier.DisplayName
	}
	if c.SkillsSnapshot != nil {
		view.SkillsSnapshot = make([]models.SnapshotEntry, 0, len(models.Dimensions))
		for _, d := range models.Dimensions {
			avg, ok := c.SkillsSnapshot[d]
			if !ok {
				continue
			}
			view.SkillsSnapshot = append(view.SkillsSnapshot, models.SnapshotEntry{
				Dimension: d,
				Label:     s.catalog.DimensionLabel(d),
				Average:   avg,
			})
		}
	}
	return view
}

func nonNil(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
