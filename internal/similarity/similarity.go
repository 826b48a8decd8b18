// Package similarity quantifies how far a candidate text diverged from a
// reference text. All functions are pure, tolerate pathological input by
// degrading to a defined zero value, and never return an error: the scores
// are diagnostic, not authoritative.
package similarity

import (
	"math"

	"github.com/amplerelife/ai-story-tool/internal/tokenizer"
)

// maxOrder is the highest n-gram order used by OverlapScore.
const maxOrder = 4

// Overlap holds the three recall/precision-balanced overlap scores, each the
// harmonic mean of precision and recall over its matching unit.
type Overlap struct {
	LCS     float64 `json:"lcs_f"`
	Unigram float64 `json:"unigram_f"`
	Bigram  float64 `json:"bigram_f"`
}

// OverlapScore returns a BLEU-style n-gram precision overlap of candidate
// against reference, in [0, 1]. Matched n-grams are clipped to their
// reference occurrence count and a brevity penalty applies when the
// candidate is shorter than the reference. If either text tokenizes to
// nothing, or any n-gram order up to min(4, candidate length) has zero
// matches, the score is 0.
func OverlapScore(reference, candidate string) float64 {
	ref := tokenizer.Tokenize(reference)
	cand := tokenizer.Tokenize(candidate)
	if len(ref) == 0 || len(cand) == 0 {
		return 0.0
	}

	order := maxOrder
	if len(cand) < order {
		order = len(cand)
	}

	var logSum float64
	for n := 1; n <= order; n++ {
		p := clippedPrecision(ref, cand, n)
		if p == 0 {
			return 0.0
		}
		logSum += math.Log(p)
	}
	score := math.Exp(logSum / float64(order))

	// Brevity penalty: exp(1 - r/c) when the candidate is shorter.
	if len(cand) < len(ref) {
		score *= math.Exp(1.0 - float64(len(ref))/float64(len(cand)))
	}
	return score
}

// clippedPrecision returns the fraction of candidate n-grams that also occur
// in the reference, each counted at most as many times as it occurs there.
func clippedPrecision(ref, cand []string, n int) float64 {
	candGrams := tokenizer.NGrams(cand, n)
	if len(candGrams) == 0 {
		return 0.0
	}

	refCounts := countGrams(tokenizer.NGrams(ref, n))
	matched := 0
	for _, g := range candGrams {
		if refCounts[g] > 0 {
			refCounts[g]--
			matched++
		}
	}
	return float64(matched) / float64(len(candGrams))
}

// ChangeRate returns the token-set divergence of two texts: the size of the
// symmetric difference over the size of the union, in [0, 1]. Sets, not
// multisets: repeated tokens count once. Symmetric in its arguments; 0 when
// both texts tokenize to nothing.
func ChangeRate(oldText, newText string) float64 {
	oldSet := tokenSet(oldText)
	newSet := tokenSet(newText)

	union := 0
	changed := 0
	for tok := range oldSet {
		union++
		if !newSet[tok] {
			changed++
		}
	}
	for tok := range newSet {
		if !oldSet[tok] {
			union++
			changed++
		}
	}
	if union == 0 {
		return 0.0
	}
	return float64(changed) / float64(union)
}

// OverlapF1 returns LCS-based, unigram, and bigram F1 overlap of candidate
// against reference. Degenerate input (either text reducing to zero tokens)
// yields the zero value rather than an error.
func OverlapF1(reference, candidate string) Overlap {
	ref := tokenizer.Tokenize(reference)
	cand := tokenizer.Tokenize(candidate)
	if len(ref) == 0 || len(cand) == 0 {
		return Overlap{}
	}

	return Overlap{
		LCS:     f1(lcsLength(ref, cand), len(cand), len(ref)),
		Unigram: ngramF1(ref, cand, 1),
		Bigram:  ngramF1(ref, cand, 2),
	}
}

// ngramF1 computes F1 over clipped multiset n-gram overlap.
func ngramF1(ref, cand []string, n int) float64 {
	refGrams := tokenizer.NGrams(ref, n)
	candGrams := tokenizer.NGrams(cand, n)
	if len(refGrams) == 0 || len(candGrams) == 0 {
		return 0.0
	}

	refCounts := countGrams(refGrams)
	matched := 0
	for _, g := range candGrams {
		if refCounts[g] > 0 {
			refCounts[g]--
			matched++
		}
	}
	return f1(matched, len(candGrams), len(refGrams))
}

// f1 is the harmonic mean of precision (matched/candTotal) and recall
// (matched/refTotal).
func f1(matched, candTotal, refTotal int) float64 {
	if matched == 0 || candTotal == 0 || refTotal == 0 {
		return 0.0
	}
	p := float64(matched) / float64(candTotal)
	r := float64(matched) / float64(refTotal)
	return 2 * p * r / (p + r)
}

// lcsLength returns the length of the longest common subsequence of two
// token sequences, using a space-optimized two-row DP.
func lcsLength(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func countGrams(grams []string) map[string]int {
	counts := make(map[string]int, len(grams))
	for _, g := range grams {
		counts[g]++
	}
	return counts
}

func tokenSet(text string) map[string]bool {
	tokens := tokenizer.Tokenize(text)
	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		set[t] = true
	}
	return set
}
