package reasoning

// SegmentType tags one unit of a thinking transcript
type SegmentType string

const (
	SegmentThinking SegmentType = "thinking"
	SegmentRedacted SegmentType = "redacted"
)

// Segment is one ordered piece of model thinking. Redacted segments carry an
// opaque Data payload that is never parsed, logged, or stored as reasoning.
type Segment struct {
	Type     SegmentType `json:"type"`
	Thinking string      `json:"thinking,omitempty"`
	Data     string      `json:"-"`
}

// Thinking builds a plain-text segment.
func Thinking(text string) Segment {
	return Segment{Type: SegmentThinking, Thinking: text}
}

// Redacted builds an opaque segment.
func Redacted(data string) Segment {
	return Segment{Type: SegmentRedacted, Data: data}
}

// StepType is the rhetorical role of one reasoning step
type StepType string

const (
	StepConclusion    StepType = "conclusion"
	StepHypothesis    StepType = "hypothesis"
	StepEvaluation    StepType = "evaluation"
	StepAnalysis      StepType = "analysis"
	StepConsideration StepType = "consideration"
)

func (s StepType) String() string { return string(s) }

// Step is one retained paragraph of reasoning
type Step struct {
	StepNumber int      `json:"stepNumber" validate:"gte=1"`
	Type       StepType `json:"type" validate:"oneof=conclusion hypothesis evaluation analysis consideration"`
	Content    string   `json:"content" validate:"required"`
}

// StructuredReasoning is the derived payload stored alongside raw reasoning
type StructuredReasoning struct {
	Steps                  []Step   `json:"steps" validate:"dive"`
	MainConclusion         *string  `json:"mainConclusion,omitempty"`
	ConfidenceFactors      []string `json:"confidenceFactors" validate:"max=5,dive,max=300"`
	AlternativesConsidered int      `json:"alternativesConsidered" validate:"gte=0"`
}

// EmptyStructuredReasoning returns the safe default used when nothing was
// extracted or a payload fails validation.
func EmptyStructuredReasoning() StructuredReasoning {
	return StructuredReasoning{
		Steps:             []Step{},
		ConfidenceFactors: []string{},
	}
}

// Alternative is one rejected path at a decision point
type Alternative struct {
	Path           string `json:"path" validate:"required,max=200"`
	ReasonRejected string `json:"reasonRejected" validate:"max=300"`
}

// MaxAlternatives caps the alternatives kept per decision point.
const MaxAlternatives = 5

// MaxConfidenceFactors caps the confidence factor phrases kept per node.
const MaxConfidenceFactors = 5

// DecisionPointDraft is a decision point before it is bound to a node
type DecisionPointDraft struct {
	StepNumber       int           `json:"stepNumber" validate:"gte=1"`
	Description      string        `json:"description" validate:"required"`
	ChosenPath       string        `json:"chosenPath" validate:"required"`
	Alternatives     []Alternative `json:"alternatives" validate:"max=5,dive"`
	Confidence       *float64      `json:"confidence,omitempty" validate:"omitempty,gte=0,lte=1"`
	ReasoningExcerpt string        `json:"reasoningExcerpt"`
}

// TokenUsage holds optional token counters reported by the model
type TokenUsage struct {
	InputTokens    int `json:"inputTokens" validate:"gte=0"`
	OutputTokens   int `json:"outputTokens" validate:"gte=0"`
	ThinkingTokens int `json:"thinkingTokens,omitempty" validate:"gte=0"`
}

// Extraction is the full result of parsing a segment sequence
type Extraction struct {
	Reasoning           string               `json:"reasoning"`
	StructuredReasoning StructuredReasoning  `json:"structuredReasoning"`
	DecisionPoints      []DecisionPointDraft `json:"decisionPoints"`
	ConfidenceScore     *float64             `json:"confidenceScore"`
}
