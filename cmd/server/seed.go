package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"accredit/internal/certification/models"
	id "accredit/pkg/domain"
)

// activityWriter is implemented by both activity stores.
type activityWriter interface {
	SaveProfile(ctx context.Context, profile models.AdvocateProfile) error
	Record(ctx context.Context, userID id.UserID, a models.Activity) error
}

// demoAdvocateID is stable so a dev token can be minted for it ahead of time.
var demoAdvocateID = id.UserID(uuid.MustParse("6f1c2a4e-3b5d-4c8e-9a10-2d7f8e9b0c11"))

// seedDemoAdvocate records enough activity for the foundation tier and part
// of the advanced tier. Reseeding a database is idempotent.
func seedDemoAdvocate(ctx context.Context, store activityWriter) (id.UserID, error) {
	joined := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	if err := store.SaveProfile(ctx, models.AdvocateProfile{
		UserID:      demoAdvocateID,
		DisplayName: "Demo Advocate",
		Institution: "Inner Temple",
		Email:       "demo@example.com",
		StreakDays:  9,
		JoinedAt:    joined,
	}); err != nil {
		return id.UserID{}, fmt.Errorf("seed profile: %w", err)
	}

	areas := []string{"Contract", "Tort", "Criminal", "Public"}
	var sessions []models.ScoredSession
	for i := range 8 {
		score := 55 + i*4
		mode := models.SessionModePractice
		if i == 7 {
			mode = models.SessionModeExaminer
		}
		sessions = append(sessions, models.ScoredSession{
			ID:           fmt.Sprintf("demo-session-%d", i+1),
			Status:       models.SessionStatusCompleted,
			OverallScore: &score,
			DimensionScores: models.DimensionScores{
				models.DimensionArgumentStructure: score + 5,
				models.DimensionOralDelivery:      score,
				models.DimensionUseOfAuthority:    score - 5,
			},
			AreaOfLaw:        areas[i%len(areas)],
			Mode:             mode,
			SavedToPortfolio: i%3 == 0,
			Timestamp:        joined.AddDate(0, 0, i*3),
		})
	}

	err := store.Record(ctx, demoAdvocateID, models.Activity{
		Sessions: sessions,
		Participations: []models.ParticipationRecord{
			{ID: "demo-moot-1", Attended: true, HeldAt: joined.AddDate(0, 0, 10)},
			{ID: "demo-moot-2", Attended: true, HeldAt: joined.AddDate(0, 0, 20)},
		},
		SavedAuthorities: []models.SavedAuthorityRecord{
			{ID: "demo-auth-1", Citation: "Donoghue v Stevenson [1932] AC 562", SavedAt: joined.AddDate(0, 0, 4)},
		},
	})
	if err != nil {
		return id.UserID{}, fmt.Errorf("seed activity: %w", err)
	}
	return demoAdvocateID, nil
}
