package models

import (
	"math"
	"sort"
)

// Stats summarizes a player's rounds. Only complete rounds contribute to
// scores and differentials.
type Stats struct {
	TotalRounds        int      `json:"total_rounds"`
	CompletedRounds    int      `json:"completed_rounds"`
	AverageScore       *float64 `json:"average_score,omitempty"`
	BestScore          *int     `json:"best_score,omitempty"`
	LatestDifferential *float64 `json:"latest_differential,omitempty"`
}

// Summarize computes Stats. The average is rounded to one decimal and the
// latest differential is taken from the most recently played complete round.
func Summarize(rounds []*Round) Stats {
	stats := Stats{TotalRounds: len(rounds)}

	completed := make([]*Round, 0, len(rounds))
	for _, r := range rounds {
		if r.IsComplete() {
			completed = append(completed, r)
		}
	}
	stats.CompletedRounds = len(completed)
	if len(completed) == 0 {
		return stats
	}
	sort.SliceStable(completed, func(i, j int) bool {
		return completed[i].DatePlayed.Before(completed[j].DatePlayed)
	})

	sum, n := 0, 0
	for _, r := range completed {
		if r.TotalStrokes == nil {
			continue
		}
		sum += *r.TotalStrokes
		n++
		if stats.BestScore == nil || *r.TotalStrokes < *stats.BestScore {
			best := *r.TotalStrokes
			stats.BestScore = &best
		}
	}
	if n > 0 {
		avg := math.Round(float64(sum)/float64(n)*10) / 10
		stats.AverageScore = &avg
	}
	for i := len(completed) - 1; i >= 0; i-- {
		if d := completed[i].Differential; d != nil {
			latest := *d
			stats.LatestDifferential = &latest
			break
		}
	}
	return stats
}
