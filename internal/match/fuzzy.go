package match

import (
	"github.com/hbollon/go-edlib"
)

// Confidence is the confidence level of a fuzzy title match.
type Confidence int

const (
	ConfidenceNone   Confidence = iota // score < 0.70
	ConfidenceLow                      // score >= 0.70
	ConfidenceMedium                   // score >= 0.85
	ConfidenceHigh                     // score >= 0.95
)

func (c Confidence) String() string {
	switch c {
	case ConfidenceHigh:
		return "high"
	case ConfidenceMedium:
		return "medium"
	case ConfidenceLow:
		return "low"
	default:
		return "none"
	}
}

// FuzzyResult is the outcome of matching a title against candidates.
type FuzzyResult struct {
	Index      int     // index into candidates, -1 when no match
	Title      string  // the matched candidate title
	Score      float64 // Jaro-Winkler similarity, 0.0-1.0
	Confidence Confidence
}

// FuzzyTitle finds the best candidate for a parsed title using Jaro-Winkler
// similarity over normalized titles. Jaro-Winkler favors shared prefixes,
// which suits media titles where suffixes carry edition noise.
func FuzzyTitle(parsed string, candidates []string) FuzzyResult {
	best := FuzzyResult{Index: -1, Confidence: ConfidenceNone}
	if len(candidates) == 0 {
		return best
	}

	normalizedParsed := NormalizeTitle(parsed)

	for i, candidate := range candidates {
		score := float64(edlib.JaroWinklerSimilarity(normalizedParsed, NormalizeTitle(candidate)))
		if score > best.Score {
			best.Index = i
			best.Title = candidate
			best.Score = score
		}
	}

	switch {
	case best.Score >= 0.95:
		best.Confidence = ConfidenceHigh
	case best.Score >= 0.85:
		best.Confidence = ConfidenceMedium
	case best.Score >= 0.70:
		best.Confidence = ConfidenceLow
	default:
		best = FuzzyResult{Index: -1, Confidence: ConfidenceNone}
	}

	return best
}
