package progress

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"accredit/internal/certification/catalog"
	"accredit/internal/certification/models"
	id "accredit/pkg/domain"
	dErrors "accredit/pkg/domain-errors"
	"accredit/pkg/platform/sentinel"
)

type stubActivity struct {
	activity models.Activity
	err      error
}

func (s *stubActivity) ListSessions(context.Context, id.UserID) ([]models.ScoredSession, error) {
	return s.activity.Sessions, s.err
}

func (s *stubActivity) ListParticipations(context.Context, id.UserID) ([]models.ParticipationRecord, error) {
	return s.activity.Participations, nil
}

func (s *stubActivity) ListTournamentEntries(context.Context, id.UserID) ([]models.TournamentEntry, error) {
	return s.activity.Tournaments, nil
}

func (s *stubActivity) ListContributions(context.Context, id.UserID) ([]models.ContributionRecord, error) {
	return s.activity.Contributions, nil
}

func (s *stubActivity) ListFeedbackGiven(context.Context, id.UserID) ([]models.FeedbackRecord, error) {
	return s.activity.Feedback, nil
}

func (s *stubActivity) ListSavedAuthorities(context.Context, id.UserID) ([]models.SavedAuthorityRecord, error) {
	return s.activity.SavedAuthorities, nil
}

type stubProfiles struct {
	profile *models.AdvocateProfile
}

func (s *stubProfiles) FindProfile(context.Context, id.UserID) (*models.AdvocateProfile, error) {
	if s.profile == nil {
		return nil, sentinel.ErrNotFound
	}
	return s.profile, nil
}

type stubCredentials struct {
	creds []*models.Credential
}

func (s *stubCredentials) ListBySubject(context.Context, id.UserID) ([]*models.Credential, error) {
	return s.creds, nil
}

func scored(score int, area string) models.ScoredSession {
	return models.ScoredSession{
		ID:           uuid.NewString(),
		Status:       models.SessionStatusCompleted,
		OverallScore: &score,
		AreaOfLaw:    area,
		Mode:         models.SessionModePractice,
	}
}

type ProgressSuite struct {
	suite.Suite
	userID      id.UserID
	activity    *stubActivity
	profiles    *stubProfiles
	credentials *stubCredentials
	service     *Service
}

func TestProgressSuite(t *testing.T) {
	suite.Run(t, new(ProgressSuite))
}

func (s *ProgressSuite) SetupTest() {
	s.userID = id.UserID(uuid.New())
	s.activity = &stubActivity{}
	s.profiles = &stubProfiles{profile: &models.AdvocateProfile{UserID: s.userID, DisplayName: "Ada Advocate"}}
	s.credentials = &stubCredentials{}
	s.service = New(s.activity, s.profiles, s.credentials, catalog.Default())
}

func (s *ProgressSuite) TestZeroState() {
	reports, err := s.service.Progress(context.Background(), s.userID)
	s.Require().NoError(err)
	s.Require().Len(reports, 3)

	for _, r := range reports {
		s.Equal(0, r.PercentComplete, r.Tier.Key)
		s.Equal(0, r.CompletedCount, r.Tier.Key)
		s.False(r.AllRequirementsMet, r.Tier.Key)
		s.Nil(r.SkillSnapshot, r.Tier.Key)
		s.Empty(r.AreasOfLaw)
		s.Nil(r.Credential)
	}
	s.Equal(models.TierFoundation, reports[0].Tier.Key)
	s.Equal(models.TierAdvanced, reports[1].Tier.Key)
	s.Equal(models.TierDistinction, reports[2].Tier.Key)
}

func (s *ProgressSuite) TestFoundationEndToEnd() {
	s.activity.activity = models.Activity{
		Sessions: []models.ScoredSession{
			scored(40, "Contract"), scored(50, "Contract"), scored(60, "Tort"),
			scored(70, "Contract"), scored(80, "Tort"), scored(90, "Contract"),
		},
		Participations: []models.ParticipationRecord{{ID: "m1", Attended: true}},
	}

	reports, err := s.service.Progress(context.Background(), s.userID)
	s.Require().NoError(err)

	foundation := reports[0]
	s.Equal(4, foundation.TotalCount)
	s.Equal(4, foundation.CompletedCount)
	s.Equal(100, foundation.PercentComplete)
	s.True(foundation.AllRequirementsMet)
	s.Equal([]string{"Contract", "Tort"}, foundation.AreasOfLaw)

	s.Equal(models.CheckResult{
		Key: models.RequirementAverageScore, Label: foundation.Checks[1].Label,
		Satisfied: true, Current: 65, Target: 50,
	}, foundation.Checks[1])
	s.False(reports[1].AllRequirementsMet)
}

func (s *ProgressSuite) TestIgnoresUnscoredAndIncompleteSessions() {
	unscored := models.ScoredSession{Status: models.SessionStatusCompleted, AreaOfLaw: "Crime"}
	abandoned := scored(90, "Equity")
	abandoned.Status = models.SessionStatusAbandoned
	s.activity.activity.Sessions = []models.ScoredSession{unscored, abandoned, scored(60, "Tort")}

	eval, err := s.service.Gather(context.Background(), s.userID)
	s.Require().NoError(err)
	s.Equal(1, eval.Metrics.TotalSessions)
	s.Equal(60, eval.Metrics.AverageScore)
	s.Equal([]string{"Tort"}, eval.Metrics.AreasOfLaw)
}

func (s *ProgressSuite) TestAttachesIssuedCredential() {
	issued := &models.Credential{TierKey: models.TierFoundation, Status: models.CredentialStatusIssued}
	revoked := &models.Credential{TierKey: models.TierAdvanced, Status: models.CredentialStatusRevoked}
	s.credentials.creds = []*models.Credential{issued, revoked}

	reports, err := s.service.Progress(context.Background(), s.userID)
	s.Require().NoError(err)
	s.Same(issued, reports[0].Credential)
	s.Nil(reports[1].Credential)
}

func (s *ProgressSuite) TestMissingProfile() {
	s.profiles.profile = nil

	_, err := s.service.Progress(context.Background(), s.userID)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeProfileNotFound))
}

func (s *ProgressSuite) TestActivityFailureAborts() {
	s.activity.err = errors.New("connection reset")

	reports, err := s.service.Progress(context.Background(), s.userID)
	s.Require().Error(err)
	s.Nil(reports)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *ProgressSuite) TestProgressForTier() {
	report, eval, err := s.service.ProgressForTier(context.Background(), s.userID, models.TierDistinction)
	s.Require().NoError(err)
	s.Equal(models.TierDistinction, report.Tier.Key)
	s.Equal(0, eval.Metrics.TotalSessions)

	_, _, err = s.service.ProgressForTier(context.Background(), s.userID, "platinum")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidTier))
}

func TestChecklistOmitsZeroThresholds(t *testing.T) {
	profile := models.RequirementProfile{
		Key:               "custom",
		MinScoredSessions: 3,
		MinAverageScore:   40,
		MinGroupMoots:     0,
		MinAreasOfLaw:     1,
		MinPeerFeedback:   0,
	}

	keys := keysOf(Checklist(profile))
	assert.Equal(t, []models.RequirementKey{
		models.RequirementScoredSessions,
		models.RequirementAverageScore,
		models.RequirementGroupMoots,
		models.RequirementAreasOfLaw,
	}, keys)
	assert.NotContains(t, keys, models.RequirementPeerFeedback)
}

func TestChecklistDistinctionOrder(t *testing.T) {
	profile, err := catalog.Default().Lookup(models.TierDistinction)
	require.NoError(t, err)

	assert.Equal(t, []models.RequirementKey{
		models.RequirementScoredSessions,
		models.RequirementAverageScore,
		models.RequirementGroupMoots,
		models.RequirementPortfolioSaves,
		models.RequirementAreasOfLaw,
		models.RequirementDimensions,
		models.RequirementTournamentEntry,
		models.RequirementContribution,
		models.RequirementStreakDays,
		models.RequirementTimedAssessment,
		models.RequirementPeerFeedback,
		models.RequirementResearchSaves,
	}, keysOf(Checklist(profile)))
}

func TestChecklistIsPure(t *testing.T) {
	profile, err := catalog.Default().Lookup(models.TierAdvanced)
	require.NoError(t, err)
	m := Metrics{TotalSessions: 20, AverageScore: 70, AreasOfLaw: []string{"A", "B", "C"}, HasTournament: true}

	first := evaluateAll(Checklist(profile), m)
	second := evaluateAll(Checklist(profile), m)
	assert.Equal(t, first, second)
}

func TestBooleanFlagReportsZeroOrOne(t *testing.T) {
	flag := BooleanFlag{Name: models.RequirementTournamentEntry, Flag: func(m Metrics) bool { return m.HasTournament }}

	off := flag.Evaluate(Metrics{})
	assert.Equal(t, 0, off.Current)
	assert.Equal(t, 1, off.Target)
	assert.False(t, off.Satisfied)

	on := flag.Evaluate(Metrics{HasTournament: true})
	assert.Equal(t, 1, on.Current)
	assert.True(t, on.Satisfied)
}

func TestComputeMetrics(t *testing.T) {
	examiner := scored(80, "Crime")
	examiner.Mode = models.SessionModeExaminer
	examiner.SavedToPortfolio = true
	examiner.DimensionScores = models.DimensionScores{models.DimensionOralDelivery: 80}
	practice := scored(60, "Crime")
	practice.DimensionScores = models.DimensionScores{models.DimensionOralDelivery: 60}

	activity := models.Activity{
		Sessions: []models.ScoredSession{examiner, practice},
		Participations: []models.ParticipationRecord{
			{ID: "a", Attended: true}, {ID: "b", Attended: false},
		},
		Feedback: []models.FeedbackRecord{
			{ID: "f1"}, {ID: "f2", IsAIFeedback: true}, {ID: "f3"},
		},
		SavedAuthorities: []models.SavedAuthorityRecord{{ID: "r1"}},
		Tournaments:      []models.TournamentEntry{{ID: "t1"}},
	}
	m := ComputeMetrics(activity, ScoredSessions(activity.Sessions), 9)

	assert.Equal(t, 2, m.TotalSessions)
	assert.Equal(t, 70, m.AverageScore)
	assert.Equal(t, 1, m.GroupMoots)
	assert.Equal(t, 2, m.PeerFeedback)
	assert.Equal(t, 1, m.ResearchSaves)
	assert.Equal(t, 1, m.PortfolioSaves)
	assert.Equal(t, 1, m.TimedAssessments)
	assert.True(t, m.HasTournament)
	assert.False(t, m.HasContribution)
	assert.Equal(t, 9, m.StreakDays)
	assert.Equal(t, 70, m.DimensionAverages[models.DimensionOralDelivery])
	assert.Len(t, m.DimensionAverages, len(models.Dimensions))
	assert.Equal(t, 1, m.DimensionsAbove(70))
	assert.Equal(t, 0, m.DimensionsAbove(71))
}

// Dimension thresholds compare the rounded averages stored in the snapshot,
// so a half point rounds up into the threshold.
func TestDimensionsAboveUsesRoundedAverages(t *testing.T) {
	withOral := func(scores ...int) []models.ScoredSession {
		out := make([]models.ScoredSession, 0, len(scores))
		for _, v := range scores {
			s := scored(v, "Crime")
			s.DimensionScores = models.DimensionScores{models.DimensionOralDelivery: v}
			out = append(out, s)
		}
		return out
	}

	cases := []struct {
		name      string
		scores    []int
		threshold int
		want      int
	}{
		{"69.5 meets 70", []int{69, 70}, 70, 1},
		{"69.33 misses 70", []int{69, 69, 70}, 70, 0},
		{"79.5 meets 80", []int{79, 80}, 80, 1},
		{"79.4 misses 80", []int{79, 79, 79, 80, 80}, 80, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sessions := withOral(tc.scores...)
			m := ComputeMetrics(models.Activity{Sessions: sessions}, sessions, 0)
			assert.Equal(t, tc.want, m.DimensionsAbove(tc.threshold))
		})
	}
}

func TestPercentCompleteRounds(t *testing.T) {
	tier := models.RequirementProfile{MinScoredSessions: 1, MinAverageScore: 90, MinGroupMoots: 1, MinAreasOfLaw: 5}
	s := scored(50, "Tort")
	eval := Evaluate(models.AdvocateProfile{}, models.Activity{Sessions: []models.ScoredSession{s}}, func(models.Dimension) string { return "" })

	report := BuildReport(tier, eval, nil)
	assert.Equal(t, 1, report.CompletedCount)
	assert.Equal(t, 4, report.TotalCount)
	assert.Equal(t, 25, report.PercentComplete)
}

func keysOf(reqs []Requirement) []models.RequirementKey {
	out := make([]models.RequirementKey, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, r.Key())
	}
	return out
}

func evaluateAll(reqs []Requirement, m Metrics) []models.CheckResult {
	out := make([]models.CheckResult, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, r.Evaluate(m))
	}
	return out
}
