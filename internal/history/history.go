// Package history analyzes a refinement chain: per-version content length,
// pairwise similarity metrics between consecutive versions, and the feedback
// record. Analysis is pure and reads only the ordered snapshots it is given,
// so repeated runs over the same snapshot are safe and identical.
package history

import (
	"github.com/amplerelife/ai-story-tool/internal/similarity"
	"github.com/amplerelife/ai-story-tool/internal/story"
)

// LengthPoint is one (version, content length) sample of the trend.
// Length is a rune count, independent of tokenization.
type LengthPoint struct {
	Version int `json:"version"`
	Length  int `json:"length"`
}

// Change holds the divergence metrics between two consecutive versions.
type Change struct {
	FromVersion  int                `json:"from_version"`
	ToVersion    int                `json:"to_version"`
	OverlapScore float64            `json:"overlap_score"`
	ChangeRate   float64            `json:"change_rate"`
	Overlap      similarity.Overlap `json:"overlap_f1"`
}

// Report is the full analysis of a version chain. A chain with no versions
// produces an empty report, not an error.
type Report struct {
	VersionCount int                   `json:"version_count"`
	LengthTrend  []LengthPoint         `json:"content_length_trend"`
	Changes      []Change              `json:"version_changes"`
	Feedback     []story.FeedbackEntry `json:"feedback_analysis"`
}

// Analyze computes the report for an ordered version list. Versions must be
// in ascending version order (as returned by the store); adjacency follows
// list position, so sparse chains like 1, 3, 7 compare (1,3) and (3,7).
// Cost is linear in the number of versions.
func Analyze(versions []story.VersionContent, feedback []story.FeedbackEntry) *Report {
	report := &Report{
		VersionCount: len(versions),
		Feedback:     feedback,
	}

	for _, v := range versions {
		report.LengthTrend = append(report.LengthTrend, LengthPoint{
			Version: v.Version,
			Length:  len([]rune(v.Content)),
		})
	}

	for i := 0; i+1 < len(versions); i++ {
		prev, next := versions[i], versions[i+1]
		report.Changes = append(report.Changes, Change{
			FromVersion:  prev.Version,
			ToVersion:    next.Version,
			OverlapScore: similarity.OverlapScore(prev.Content, next.Content),
			ChangeRate:   similarity.ChangeRate(prev.Content, next.Content),
			Overlap:      similarity.OverlapF1(prev.Content, next.Content),
		})
	}

	return report
}
