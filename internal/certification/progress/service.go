package progress

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"accredit/internal/certification/metrics"
	"accredit/internal/certification/models"
	id "accredit/pkg/domain"
	dErrors "accredit/pkg/domain-errors"
	"accredit/pkg/platform/sentinel"
)

// ActivityReader fetches the raw records of one subject.
type ActivityReader interface {
	ListSessions(ctx context.Context, userID id.UserID) ([]models.ScoredSession, error)
	ListParticipations(ctx context.Context, userID id.UserID) ([]models.ParticipationRecord, error)
	ListTournamentEntries(ctx context.Context, userID id.UserID) ([]models.TournamentEntry, error)
	ListContributions(ctx context.Context, userID id.UserID) ([]models.ContributionRecord, error)
	ListFeedbackGiven(ctx context.Context, userID id.UserID) ([]models.FeedbackRecord, error)
	ListSavedAuthorities(ctx context.Context, userID id.UserID) ([]models.SavedAuthorityRecord, error)
}

// ProfileReader returns sentinel.ErrNotFound when the subject never joined.
type ProfileReader interface {
	FindProfile(ctx context.Context, userID id.UserID) (*models.AdvocateProfile, error)
}

// CredentialLister returns the subject's credentials, any status.
type CredentialLister interface {
	ListBySubject(ctx context.Context, userID id.UserID) ([]*models.Credential, error)
}

// Catalog is the read side of the requirement catalog.
type Catalog interface {
	Lookup(key models.TierKey) (models.RequirementProfile, error)
	All() []models.RequirementProfile
	DimensionLabel(d models.Dimension) string
}

// Service aggregates activity into per-tier progress reports.
type Service struct {
	activity    ActivityReader
	profiles    ProfileReader
	credentials CredentialLister
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

func New(activity ActivityReader, profiles ProfileReader, credentials CredentialLister, catalog Catalog, opts ...Option) *Service {
	s := &Service{
		activity:    activity,
		profiles:    profiles,
		credentials: credentials,
		catalog:     catalog,
		logger:      slog.Default(),
		tracer:      otel.Tracer("accredit/progress"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Gather loads the profile and every activity record for the subject and
// evaluates them. Any read failure aborts the whole evaluation.
func (s *Service) Gather(ctx context.Context, userID id.UserID) (Evaluation, error) {
	profile, err := s.profiles.FindProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Evaluation{}, models.ErrProfileNotFound
		}
		return Evaluation{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load advocate profile")
	}

	var activity models.Activity
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		activity.Sessions, err = s.activity.ListSessions(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		activity.Participations, err = s.activity.ListParticipations(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		activity.Tournaments, err = s.activity.ListTournamentEntries(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		activity.Contributions, err = s.activity.ListContributions(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		activity.Feedback, err = s.activity.ListFeedbackGiven(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		activity.SavedAuthorities, err = s.activity.ListSavedAuthorities(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return Evaluation{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load activity")
	}

	return Evaluate(*profile, activity, s.catalog.DimensionLabel), nil
}

// Progress returns one report per tier, in catalog order.
func (s *Service) Progress(ctx context.Context, userID id.UserID) ([]models.ProgressReport, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "progress.Progress", trace.WithAttributes(attribute.String("user_id", userID.String())))
	defer span.End()
	defer s.metrics.ObserveProgress(start)

	eval, err := s.Gather(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	issued, err := s.issuedByTier(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	tiers := s.catalog.All()
	reports := make([]models.ProgressReport, 0, len(tiers))
	for _, tier := range tiers {
		reports = append(reports, BuildReport(tier, eval, issued[tier.Key]))
	}

	s.logger.InfoContext(ctx, "progress computed",
		"user_id", userID.String(),
		"total_sessions", eval.Metrics.TotalSessions,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return reports, nil
}

// ProgressForTier evaluates a single tier. The returned evaluation carries
// the snapshot and metrics used to build the report.
func (s *Service) ProgressForTier(ctx context.Context, userID id.UserID, key models.TierKey) (models.ProgressReport, Evaluation, error) {
	tier, err := s.catalog.Lookup(key)
	if err != nil {
		return models.ProgressReport{}, Evaluation{}, err
	}
	eval, err := s.Gather(ctx, userID)
	if err != nil {
		return models.ProgressReport{}, Evaluation{}, err
	}
	issued, err := s.issuedByTier(ctx, userID)
	if err != nil {
		return models.ProgressReport{}, Evaluation{}, err
	}
	return BuildReport(tier, eval, issued[key]), eval, nil
}

func (s *Service) issuedByTier(ctx context.Context, userID id.UserID) (map[models.TierKey]*models.Credential, error) {
	creds, err := s.credentials.ListBySubject(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list credentials")
	}
	out := make(map[models.TierKey]*models.Credential, len(creds))
	for _, c := range creds {
		if c.IsIssued() {
			out[c.TierKey] = c
		}
	}
	return out, nil
}
