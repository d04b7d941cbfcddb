// Package snapshot computes per-dimension skill averages and the derived
// strengths and improvements. It is pure: no I/O, no clock.
package snapshot

import (
	"math"
	"sort"

	"accredit/internal/certification/models"
)

const (
	strengthCount    = models.MaxStrengths
	improvementCount = models.MaxImprovements
)

// LabelFunc maps a dimension to its display label.
type LabelFunc func(models.Dimension) string

// Result is a frozen skill snapshot. Skills is nil when no session carried
// dimension data; Strengths and Improvements are then empty.
type Result struct {
	Skills       models.SkillSnapshot
	Strengths    []string
	Improvements []string
}

// Averages returns the rounded average of each dimension over the sessions
// that scored it. Sessions without a breakdown, or without that key, are left
// out of both numerator and denominator. Dimensions nobody scored are absent
// from the map; ok is false when no session carried any dimension data.
func Averages(sessions []models.ScoredSession) (avgs models.SkillSnapshot, ok bool) {
	sums := make(map[models.Dimension]int, len(models.Dimensions))
	counts := make(map[models.Dimension]int, len(models.Dimensions))
	for _, s := range sessions {
		for _, d := range models.Dimensions {
			v, has := s.DimensionScores[d]
			if !has {
				continue
			}
			sums[d] += v
			counts[d]++
		}
	}
	if len(counts) == 0 {
		return nil, false
	}

	avgs = make(models.SkillSnapshot, len(counts))
	for d, n := range counts {
		avgs[d] = clamp(int(math.Round(float64(sums[d]) / float64(n))))
	}
	return avgs, true
}

// Build computes the snapshot over already-filtered scored sessions.
func Build(sessions []models.ScoredSession, label LabelFunc) Result {
	avgs, ok := Averages(sessions)
	if !ok {
		return Result{Strengths: []string{}, Improvements: []string{}}
	}

	// Complete the snapshot so every axis is present once any data exists.
	ranked := make([]models.Dimension, len(models.Dimensions))
	copy(ranked, models.Dimensions)
	for _, d := range ranked {
		if _, has := avgs[d]; !has {
			avgs[d] = 0
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return avgs[ranked[i]] > avgs[ranked[j]]
	})

	res := Result{
		Skills:       avgs,
		Strengths:    make([]string, 0, strengthCount),
		Improvements: make([]string, 0, improvementCount),
	}
	for _, d := range ranked[:min(strengthCount, len(ranked))] {
		res.Strengths = append(res.Strengths, label(d))
	}
	for _, d := range ranked[max(0, len(ranked)-improvementCount):] {
		res.Improvements = append(res.Improvements, label(d))
	}
	return res
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
