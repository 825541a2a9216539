package patterns

import (
	"fmt"
	"regexp"

	"thinkgraph/internal/reasoning"
)

// Pattern is a named, pre-compiled regular expression.
type Pattern struct {
	Name  string
	Regex *regexp.Regexp
}

// StepRule tags paragraphs of one step type. Rules are grouped by type and
// the groups are evaluated in StepPriority order.
type StepRule struct {
	Type reasoning.StepType
	Pattern
}

// StepPriority is the order in which step types are tested. A paragraph that
// matches none of them is a consideration.
var StepPriority = []reasoning.StepType{
	reasoning.StepConclusion,
	reasoning.StepHypothesis,
	reasoning.StepEvaluation,
	reasoning.StepAnalysis,
}

// Library holds every pattern set the extractors and the scorer use.
//
// Capture groups are always bounded with explicit repetition limits so no
// template can run away on long transcripts. ChoiceTemplates capture the
// chosen path in group 1; RejectionTemplates capture the rejected path in
// group 1 and the reason in group 2; ConfidenceFactors capture the phrase in
// group 1.
type Library struct {
	DecisionMarkers        []Pattern
	ChoiceTemplates        []Pattern
	RejectionTemplates     []Pattern
	HighConfidence         []Pattern
	MediumConfidence       []Pattern
	LowConfidence          []Pattern
	DecisionConnectives    []Pattern
	StepRules              []StepRule
	ConfidenceFactors      []Pattern
	AlternativeEnumerators []Pattern
}

// Default returns a copy of the built-in library. Callers may extend the copy
// without affecting other users.
func Default() *Library {
	return defaultLibrary.Clone()
}

// Clone returns a library whose slices can be appended to independently.
func (l *Library) Clone() *Library {
	return &Library{
		DecisionMarkers:        append([]Pattern(nil), l.DecisionMarkers...),
		ChoiceTemplates:        append([]Pattern(nil), l.ChoiceTemplates...),
		RejectionTemplates:     append([]Pattern(nil), l.RejectionTemplates...),
		HighConfidence:         append([]Pattern(nil), l.HighConfidence...),
		MediumConfidence:       append([]Pattern(nil), l.MediumConfidence...),
		LowConfidence:          append([]Pattern(nil), l.LowConfidence...),
		DecisionConnectives:    append([]Pattern(nil), l.DecisionConnectives...),
		StepRules:              append([]StepRule(nil), l.StepRules...),
		ConfidenceFactors:      append([]Pattern(nil), l.ConfidenceFactors...),
		AlternativeEnumerators: append([]Pattern(nil), l.AlternativeEnumerators...),
	}
}

// AddDecisionMarker registers an extra sentence-level decision marker.
func (l *Library) AddDecisionMarker(name, expr string) error {
	p, err := compile(name, expr, 0)
	if err != nil {
		return err
	}
	l.DecisionMarkers = append(l.DecisionMarkers, p)
	return nil
}

// AddChoiceTemplate registers a chosen-path template. The expression must
// have at least one capture group.
func (l *Library) AddChoiceTemplate(name, expr string) error {
	p, err := compile(name, expr, 1)
	if err != nil {
		return err
	}
	l.ChoiceTemplates = append(l.ChoiceTemplates, p)
	return nil
}

// AddRejectionTemplate registers a rejected-alternative template. The
// expression must capture the path and the reason.
func (l *Library) AddRejectionTemplate(name, expr string) error {
	p, err := compile(name, expr, 2)
	if err != nil {
		return err
	}
	l.RejectionTemplates = append(l.RejectionTemplates, p)
	return nil
}

// AddStepRule registers extra keywords for a step type.
func (l *Library) AddStepRule(stepType reasoning.StepType, name, expr string) error {
	known := false
	for _, t := range StepPriority {
		if t == stepType {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("step type %q cannot carry rules", stepType)
	}
	p, err := compile(name, expr, 0)
	if err != nil {
		return err
	}
	l.StepRules = append(l.StepRules, StepRule{Type: stepType, Pattern: p})
	return nil
}

// AddConfidenceFactor registers an extra confidence factor template.
func (l *Library) AddConfidenceFactor(name, expr string) error {
	p, err := compile(name, expr, 1)
	if err != nil {
		return err
	}
	l.ConfidenceFactors = append(l.ConfidenceFactors, p)
	return nil
}

func compile(name, expr string, minGroups int) (Pattern, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return Pattern{}, fmt.Errorf("compiling pattern %s: %w", name, err)
	}
	if re.NumSubexp() < minGroups {
		return Pattern{}, fmt.Errorf("pattern %s needs %d capture group(s), has %d", name, minGroups, re.NumSubexp())
	}
	return Pattern{Name: name, Regex: re}, nil
}

// CountAll returns the total number of non-overlapping matches of every
// pattern in set.
func CountAll(set []Pattern, text string) int {
	n := 0
	for _, p := range set {
		n += len(p.Regex.FindAllStringIndex(text, -1))
	}
	return n
}

// MatchAny reports the first pattern in set that matches text.
func MatchAny(set []Pattern, text string) (Pattern, bool) {
	for _, p := range set {
		if p.Regex.MatchString(text) {
			return p, true
		}
	}
	return Pattern{}, false
}
