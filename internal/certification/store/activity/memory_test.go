package activity

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"accredit/internal/certification/models"
	id "accredit/pkg/domain"
	"accredit/pkg/platform/sentinel"
)

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	userID := id.UserID(uuid.New())

	t.Run("missing profile is not found", func(t *testing.T) {
		_, err := store.FindProfile(ctx, userID)
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("records are scoped to the subject", func(t *testing.T) {
		require.NoError(t, store.SaveProfile(ctx, models.AdvocateProfile{UserID: userID, DisplayName: "Ada"}))
		score := 70
		require.NoError(t, store.Record(ctx, userID, models.Activity{
			Sessions:       []models.ScoredSession{{ID: "s1", Status: models.SessionStatusCompleted, OverallScore: &score}},
			Participations: []models.ParticipationRecord{{ID: "p1", Attended: true}},
		}))

		profile, err := store.FindProfile(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, "Ada", profile.DisplayName)

		sessions, err := store.ListSessions(ctx, userID)
		require.NoError(t, err)
		assert.Len(t, sessions, 1)

		other, err := store.ListSessions(ctx, id.UserID(uuid.New()))
		require.NoError(t, err)
		assert.Empty(t, other)
	})

	t.Run("returned slices are copies", func(t *testing.T) {
		sessions, err := store.ListSessions(ctx, userID)
		require.NoError(t, err)
		sessions[0].ID = "mutated"

		again, err := store.ListSessions(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, "s1", again[0].ID)
	})
}
