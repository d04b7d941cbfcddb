package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"accredit/internal/certification/models"
)

func label(d models.Dimension) string { return "L:" + string(d) }

func session(scores models.DimensionScores) models.ScoredSession {
	overall := 50
	return models.ScoredSession{
		Status:          models.SessionStatusCompleted,
		OverallScore:    &overall,
		DimensionScores: scores,
	}
}

func allDims(v int) models.DimensionScores {
	out := models.DimensionScores{}
	for _, d := range models.Dimensions {
		out[d] = v
	}
	return out
}

func TestAverages(t *testing.T) {
	t.Run("averages oral delivery 60 and 80 to exactly 70", func(t *testing.T) {
		avgs, ok := Averages([]models.ScoredSession{
			session(models.DimensionScores{models.DimensionOralDelivery: 60}),
			session(models.DimensionScores{models.DimensionOralDelivery: 80}),
		})
		require.True(t, ok)
		assert.Equal(t, 70, avgs[models.DimensionOralDelivery])
	})

	t.Run("sessions without a breakdown are excluded, not zero", func(t *testing.T) {
		avgs, ok := Averages([]models.ScoredSession{
			session(models.DimensionScores{models.DimensionLegalKnowledge: 90}),
			session(nil),
			session(nil),
		})
		require.True(t, ok)
		assert.Equal(t, 90, avgs[models.DimensionLegalKnowledge])
	})

	t.Run("rounds half up", func(t *testing.T) {
		avgs, _ := Averages([]models.ScoredSession{
			session(models.DimensionScores{models.DimensionPersuasiveness: 70}),
			session(models.DimensionScores{models.DimensionPersuasiveness: 71}),
		})
		assert.Equal(t, 71, avgs[models.DimensionPersuasiveness])
	})

	t.Run("no breakdown anywhere reports absence", func(t *testing.T) {
		avgs, ok := Averages([]models.ScoredSession{session(nil)})
		assert.False(t, ok)
		assert.Nil(t, avgs)
	})
}

func TestBuild(t *testing.T) {
	t.Run("empty input yields absent snapshot and empty lists", func(t *testing.T) {
		res := Build(nil, label)
		assert.Nil(t, res.Skills)
		assert.Empty(t, res.Strengths)
		assert.Empty(t, res.Improvements)
		assert.NotNil(t, res.Strengths)
	})

	t.Run("ranks strengths and improvements", func(t *testing.T) {
		res := Build([]models.ScoredSession{session(models.DimensionScores{
			models.DimensionArgumentStructure: 55,
			models.DimensionLegalKnowledge:    90,
			models.DimensionOralDelivery:      80,
			models.DimensionResponsiveness:    40,
			models.DimensionUseOfAuthority:    85,
			models.DimensionPersuasiveness:    60,
			models.DimensionTimeManagement:    30,
		})}, label)

		require.Len(t, res.Skills, 7)
		assert.Equal(t, []string{"L:legalKnowledge", "L:useOfAuthority", "L:oralDelivery"}, res.Strengths)
		assert.Equal(t, []string{"L:responsiveness", "L:timeManagement"}, res.Improvements)
	})

	t.Run("ties break by declared dimension order", func(t *testing.T) {
		res := Build([]models.ScoredSession{session(allDims(75))}, label)
		assert.Equal(t, []string{"L:argumentStructure", "L:legalKnowledge", "L:oralDelivery"}, res.Strengths)
		assert.Equal(t, []string{"L:persuasiveness", "L:timeManagement"}, res.Improvements)
	})

	t.Run("unscored axes are reported as zero once any data exists", func(t *testing.T) {
		res := Build([]models.ScoredSession{
			session(models.DimensionScores{models.DimensionOralDelivery: 80}),
		}, label)
		assert.Equal(t, 80, res.Skills[models.DimensionOralDelivery])
		assert.Equal(t, 0, res.Skills[models.DimensionTimeManagement])
		assert.Len(t, res.Skills, 7)
		assert.Equal(t, "L:oralDelivery", res.Strengths[0])
	})

	t.Run("is deterministic", func(t *testing.T) {
		in := []models.ScoredSession{session(allDims(60)), session(allDims(80))}
		assert.Equal(t, Build(in, label), Build(in, label))
	})
}
