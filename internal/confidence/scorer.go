package confidence

import (
	"math"
	"strings"
	"unicode/utf8"

	"thinkgraph/internal/patterns"
)

// Cue weights. High-confidence language pulls the average up, low-confidence
// language pulls it down.
const (
	weightHigh   = 0.85
	weightMedium = 0.62
	weightLow    = 0.32
)

// Baselines for text that carries no confidence cues at all.
const (
	BaselineLong   = 0.68 // > 2000 chars
	BaselineMedium = 0.56 // > 500 chars
	BaselineShort  = 0.44
)

const (
	lengthBonusPerChar  = 0.00002
	lengthBonusMax      = 0.05
	connectiveBonusEach = 0.03
	connectiveBonusMax  = 0.09

	jitterPrefixRunes = 200
	jitterSpan        = 0.05

	// Min and Max bound every score.
	Min = 0.15
	Max = 0.95

	// DeadZone is the distance from 0.5 a score is never allowed to land in.
	DeadZone = 0.03
	// nudge lands just outside the dead zone
	nudge = DeadZone + 0.001
)

// Scorer produces deterministic heuristic confidence scores.
type Scorer struct {
	lib *patterns.Library
}

// NewScorer builds a scorer over lib. A nil library uses patterns.Default().
func NewScorer(lib *patterns.Library) *Scorer {
	if lib == nil {
		lib = patterns.Default()
	}
	return &Scorer{lib: lib}
}

// Score returns a confidence estimate in [Min, Max] for text, or nil when
// text is empty. Identical text always yields the identical score.
func (s *Scorer) Score(text string) *float64 {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	high := patterns.CountAll(s.lib.HighConfidence, text)
	medium := patterns.CountAll(s.lib.MediumConfidence, text)
	low := patterns.CountAll(s.lib.LowConfidence, text)
	length := utf8.RuneCountInString(text)

	var score float64
	if total := high + medium + low; total == 0 {
		score = lengthBaseline(length)
	} else {
		score = (float64(high)*weightHigh + float64(medium)*weightMedium + float64(low)*weightLow) / float64(total)
	}

	score += math.Min(float64(length)*lengthBonusPerChar, lengthBonusMax)

	connectives := patterns.CountAll(s.lib.DecisionConnectives, text)
	score += math.Min(float64(connectives)*connectiveBonusEach, connectiveBonusMax)

	h := prefixHash(text)
	score += jitter(h)

	score = clamp(score, Min, Max)
	if math.Abs(score-0.5) < DeadZone {
		if h%2 == 0 {
			score = 0.5 + nudge
		} else {
			score = 0.5 - nudge
		}
	}
	return &score
}

func lengthBaseline(length int) float64 {
	switch {
	case length > 2000:
		return BaselineLong
	case length > 500:
		return BaselineMedium
	default:
		return BaselineShort
	}
}

// prefixHash is a rolling multiplicative hash over the first
// jitterPrefixRunes runes of text.
func prefixHash(text string) uint32 {
	var h uint32
	n := 0
	for _, r := range text {
		if n == jitterPrefixRunes {
			break
		}
		h = h*31 + uint32(r)
		n++
	}
	return h
}

// jitter maps a hash to [-jitterSpan/2, +jitterSpan/2).
func jitter(h uint32) float64 {
	return float64(h%1000)/1000*jitterSpan - jitterSpan/2
}

func clamp(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

var defaultScorer = NewScorer(nil)

// Score scores text with the built-in pattern library.
func Score(text string) *float64 {
	return defaultScorer.Score(text)
}
