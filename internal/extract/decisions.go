package extract

import (
	"strings"

	"thinkgraph/internal/reasoning"
)

const (
	choiceWindowAhead    = 3 // trigger sentence plus the next two
	rejectWindowBefore   = 2
	rejectWindowAfter    = 2
	fallbackPathLength   = 100
	descriptionLength    = 200
	excerptLength        = 500
	alternativePathMax   = 200
	alternativeReasonMax = 300
)

// ExtractDecisionPoints scans reasoning sentence by sentence and returns one
// draft per sentence that carries a decision marker. Step numbers start at 1
// and have no gaps.
func (e *Extractor) ExtractDecisionPoints(text string) []reasoning.DecisionPointDraft {
	drafts := []reasoning.DecisionPointDraft{}
	sentences := SplitSentences(text)

	for i, sentence := range sentences {
		if !e.isDecision(sentence) {
			continue
		}

		ahead := window(sentences, i, i+choiceWindowAhead)
		around := window(sentences, i-rejectWindowBefore, i+rejectWindowAfter+1)

		drafts = append(drafts, reasoning.DecisionPointDraft{
			StepNumber:       len(drafts) + 1,
			Description:      TruncateRunes(sentence, descriptionLength),
			ChosenPath:       e.chosenPath(ahead, sentence),
			Alternatives:     e.alternatives(around),
			Confidence:       e.scorer.Score(sentence),
			ReasoningExcerpt: TruncateRunes(around, excerptLength),
		})
	}
	return drafts
}

func (e *Extractor) isDecision(sentence string) bool {
	for _, p := range e.lib.DecisionMarkers {
		if p.Regex.MatchString(sentence) {
			return true
		}
	}
	return false
}

// chosenPath returns the first explicit choice found in the forward window,
// falling back to the head of the trigger sentence.
func (e *Extractor) chosenPath(ahead, trigger string) string {
	for _, p := range e.lib.ChoiceTemplates {
		m := p.Regex.FindStringSubmatch(ahead)
		if len(m) < 2 {
			continue
		}
		if path := strings.TrimSpace(m[1]); path != "" {
			return path
		}
	}
	return TruncateRunes(trigger, fallbackPathLength)
}

// alternatives collects up to five rejected paths with their reasons.
func (e *Extractor) alternatives(around string) []reasoning.Alternative {
	alts := []reasoning.Alternative{}
	seen := map[string]bool{}
	for _, p := range e.lib.RejectionTemplates {
		for _, m := range p.Regex.FindAllStringSubmatch(around, -1) {
			if len(m) < 3 {
				continue
			}
			path := strings.TrimSpace(m[1])
			if path == "" {
				continue
			}
			key := strings.ToLower(path)
			if seen[key] {
				continue
			}
			seen[key] = true
			alts = append(alts, reasoning.Alternative{
				Path:           TruncateRunes(path, alternativePathMax),
				ReasonRejected: TruncateRunes(strings.TrimSpace(m[2]), alternativeReasonMax),
			})
			if len(alts) == reasoning.MaxAlternatives {
				return alts
			}
		}
	}
	return alts
}

// window joins sentences[from:to] with spaces, clamping both bounds.
func window(sentences []string, from, to int) string {
	if from < 0 {
		from = 0
	}
	if to > len(sentences) {
		to = len(sentences)
	}
	if from >= to {
		return ""
	}
	return strings.Join(sentences[from:to], " ")
}
