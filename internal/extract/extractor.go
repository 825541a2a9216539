package extract

import (
	"strings"
	"unicode/utf8"

	"thinkgraph/internal/confidence"
	"thinkgraph/internal/patterns"
	"thinkgraph/internal/reasoning"
)

const (
	// MinStepLength drops paragraphs shorter than this many runes as noise.
	MinStepLength = 20

	paragraphSeparator = "\n\n"
)

// Extractor turns thinking segments into structured reasoning and decision
// point drafts. It holds no mutable state and is safe for concurrent use.
type Extractor struct {
	lib    *patterns.Library
	scorer *confidence.Scorer
}

// New builds an extractor over lib. A nil library uses patterns.Default().
func New(lib *patterns.Library) *Extractor {
	if lib == nil {
		lib = patterns.Default()
	}
	return &Extractor{lib: lib, scorer: confidence.NewScorer(lib)}
}

// ParseThinkingToNode runs the full extraction over an ordered segment
// sequence. Redacted segments are skipped without reading their payload.
// Input with no plain-text content yields an empty extraction, not an error.
func (e *Extractor) ParseThinkingToNode(segments []reasoning.Segment) reasoning.Extraction {
	text := JoinThinking(segments)
	if strings.TrimSpace(text) == "" {
		return reasoning.Extraction{
			Reasoning:           "",
			StructuredReasoning: reasoning.EmptyStructuredReasoning(),
			DecisionPoints:      []reasoning.DecisionPointDraft{},
		}
	}

	return reasoning.Extraction{
		Reasoning:           text,
		StructuredReasoning: e.Structure(text),
		DecisionPoints:      e.ExtractDecisionPoints(text),
		ConfidenceScore:     e.scorer.Score(text),
	}
}

// JoinThinking concatenates the plain-text segments with a blank line
// between them.
func JoinThinking(segments []reasoning.Segment) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if s.Type != reasoning.SegmentThinking || s.Thinking == "" {
			continue
		}
		parts = append(parts, s.Thinking)
	}
	return strings.Join(parts, paragraphSeparator)
}

// Structure derives steps, the main conclusion, confidence factors and the
// alternatives count from reasoning text.
func (e *Extractor) Structure(text string) reasoning.StructuredReasoning {
	steps := e.Steps(text)
	return reasoning.StructuredReasoning{
		Steps:                  steps,
		MainConclusion:         MainConclusion(steps),
		ConfidenceFactors:      e.ConfidenceFactors(text),
		AlternativesConsidered: e.CountAlternatives(text),
	}
}

// Steps segments text into classified paragraphs.
func (e *Extractor) Steps(text string) []reasoning.Step {
	steps := []reasoning.Step{}
	for _, para := range SplitParagraphs(text) {
		if utf8.RuneCountInString(para) < MinStepLength {
			continue
		}
		steps = append(steps, reasoning.Step{
			StepNumber: len(steps) + 1,
			Type:       e.ClassifyStep(para),
			Content:    para,
		})
	}
	return steps
}

// ClassifyStep tags a paragraph with the first step type, in priority order,
// whose keywords it contains.
func (e *Extractor) ClassifyStep(paragraph string) reasoning.StepType {
	for _, stepType := range patterns.StepPriority {
		for _, rule := range e.lib.StepRules {
			if rule.Type == stepType && rule.Regex.MatchString(paragraph) {
				return stepType
			}
		}
	}
	return reasoning.StepConsideration
}

// MainConclusion returns the content of the last conclusion or evaluation
// step, or nil when there is none.
func MainConclusion(steps []reasoning.Step) *string {
	for i := len(steps) - 1; i >= 0; i-- {
		switch steps[i].Type {
		case reasoning.StepConclusion, reasoning.StepEvaluation:
			c := steps[i].Content
			return &c
		}
	}
	return nil
}

// ConfidenceFactors collects up to five phrases that justify confidence.
func (e *Extractor) ConfidenceFactors(text string) []string {
	factors := []string{}
	seen := map[string]bool{}
	for _, p := range e.lib.ConfidenceFactors {
		for _, m := range p.Regex.FindAllStringSubmatch(text, -1) {
			if len(m) < 2 {
				continue
			}
			phrase := strings.TrimSpace(m[1])
			if phrase == "" || seen[phrase] {
				continue
			}
			seen[phrase] = true
			factors = append(factors, phrase)
			if len(factors) == reasoning.MaxConfidenceFactors {
				return factors
			}
		}
	}
	return factors
}

// CountAlternatives is a coarse count of enumerated options and comparison
// connectives.
func (e *Extractor) CountAlternatives(text string) int {
	return patterns.CountAll(e.lib.AlternativeEnumerators, text)
}
