package patterns

import (
	"regexp"

	"thinkgraph/internal/reasoning"
)

// Bounded fragments shared by the capture templates.
const (
	// chosen or rejected path: up to 100 chars, stops at clause punctuation
	pathGroup = `([^,.;!?\n]{1,100}?)`
	// rejection reason: up to 200 chars, stops at sentence punctuation
	reasonGroup = `([^.;!?\n]{1,200})`
	// path terminator: a causal connective, clause punctuation, or end of text
	pathEnd = `(?:\s+(?:because|since|as|so that|which|given)\b|[,.;!?\n]|$)`
	// confidence factor phrase: up to 300 chars
	factorGroup = `([^.!?\n]{1,300})`
	// "Option A", "Approach 2"
	enumerated = `\b(?i:option|alternative|approach|choice|path)\s+(?:[A-Z]|\d{1,2})\b`
)

var defaultLibrary = &Library{
	DecisionMarkers: []Pattern{
		mustPattern("explicit_choice", `(?i)\b(?:(?:i|we)(?:'ll|\s+will|\s+would|\s+should)?|let'?s)\s+(?:go with|choose|pick|opt for|select|settle on|stick with)\b`),
		mustPattern("decision_verb", `(?i)\b(?:decided|deciding|decide|chose|chosen|opted|selected)\b`),
		mustPattern("enumerated_option", enumerated),
		mustPattern("either_or", `(?i)\b(?:could|can|might|either|should i|should we)\b[^.!?\n]{1,120}?\bor\b`),
		mustPattern("one_other_hand", `(?i)\bon (?:the )?(?:one|other) hand\b`),
		mustPattern("comparison", `(?i)\b(?:versus|vs|compared (?:to|with)|instead of|rather than|as opposed to)\b`),
		mustPattern("trade_off", `(?i)\b(?:trade-?offs?|pros and cons|downsides?|upsides?|drawbacks?)\b`),
		mustPattern("conclusion_connective", `(?i)\b(?:therefore|thus|hence|in conclusion|ultimately|so (?:i|we)(?:'ll|\s+will))\b`),
		mustPattern("rejection_connective", `(?i)\b(?:ruled out|rule out|rejected|reject|eliminated|discarded|won't work|doesn't work|not viable)\b`),
	},

	ChoiceTemplates: []Pattern{
		mustPattern("go_with", `(?i)\b(?:i'll|i will|we'll|we will|let's|let me|i'm going to|i am going to)\s+(?:go with|use|choose|pick|opt for|stick with)\s+`+pathGroup+pathEnd),
		mustPattern("decided_to", `(?i)\b(?:decided|decide|deciding|chose|opted)\s+(?:to go with|to use|to|on|for)\s+`+pathGroup+pathEnd),
		mustPattern("selected", `(?i)\b(?:selected|selecting|choosing|going with|settled on|settle on)\s+`+pathGroup+pathEnd),
		mustPattern("final_decision", `(?i)\bfinal (?:decision|answer|choice)\s*(?::|is|will be)\s*([^.;!?\n]{1,100})`),
		mustPattern("best_option", `(?i)\bthe (?:best|better|right) (?:option|approach|choice|path) (?:is|would be|seems to be)\s+`+pathGroup+pathEnd),
		mustPattern("therefore_will", `(?i)\b(?:therefore|so|thus),?\s+(?:i|we)(?:'ll|\s+will)\s+`+pathGroup+pathEnd),
	},

	RejectionTemplates: []Pattern{
		mustPattern("rather_than", `(?i)\brather than\s+`+pathGroup+`\s*,?\s+(?:because|since|as)\s+`+reasonGroup),
		mustPattern("instead_of", `(?i)\binstead of\s+`+pathGroup+`\s*,?\s+(?:because|since|as)\s+`+reasonGroup),
		mustPattern("ruled_out", `(?i)\b(?:ruled out|rule out|rejected|reject|eliminated|eliminate|discarded|discard)\s+`+pathGroup+`\s+(?:because|since|due to|as)\s+`+reasonGroup),
		mustPattern("avoid", `(?i)\b(?:avoid|avoiding)\s+`+pathGroup+`\s+(?:because|since|due to)\s+`+reasonGroup),
		mustPattern("wont_work", `(?i)`+pathGroup+`\s+(?:won't work|doesn't work|isn't viable|is not viable)\s*(?:because|since|due to|as)?\s*`+reasonGroup),
		mustPattern("but_however", `(?i)`+pathGroup+`,\s*(?:but|however)\s+`+reasonGroup),
	},

	HighConfidence: []Pattern{
		mustPattern("high", `(?i)\b(?:definitely|certainly|clearly|obviously|undoubtedly|confident|without (?:a )?doubt|must be|guaranteed|proven|sure that|i'm sure|i am sure)\b`),
	},
	MediumConfidence: []Pattern{
		mustPattern("medium", `(?i)\b(?:likely|probably|should be|seems|appears|reasonable|generally|typically|expect|most cases)\b`),
	},
	LowConfidence: []Pattern{
		mustPattern("low", `(?i)\b(?:maybe|perhaps|possibly|might|unsure|not sure|uncertain|unclear|could be|i guess|doubt(?:ful)?|no idea)\b`),
	},

	DecisionConnectives: []Pattern{
		mustPattern("connective", `(?i)\b(?:therefore|thus|hence|because|since|consequently|in conclusion|decided|i'll go with|i will go with|so (?:i|we)(?:'ll|\s+will))\b`),
	},

	StepRules: []StepRule{
		mustRule(reasoning.StepConclusion, "conclusion", `(?i)\b(?:therefore|thus|hence|in conclusion|to conclude|to summarize|in summary|the answer is|final answer|so the answer|i'll go with|i will go with|overall|ultimately)\b`),
		mustRule(reasoning.StepHypothesis, "hypothesis", `(?i)\b(?:what if|maybe|perhaps|suppose|supposing|hypothes[ie]s|it's possible that|might be|could be|assume|assuming|i wonder)\b`),
		mustRule(reasoning.StepEvaluation, "evaluation", `(?i)\b(?:however|but|on the other hand|trade-?offs?|pros|cons|better|worse|advantages?|disadvantages?|compare|comparing|versus|evaluate|weigh(?:ing)?)\b`),
		mustRule(reasoning.StepAnalysis, "analysis", `(?i)\b(?:because|since|given that|this means|implies|analy[sz]e|analy[sz]ing|looking at|breaking (?:this |it )?down|first|second|examine|examining)\b`),
	},

	ConfidenceFactors: []Pattern{
		mustPattern("confident_because", `(?i)\bconfident (?:because|that|since)\s+`+factorGroup),
		mustPattern("based_on", `(?i)\bbased on\s+`+factorGroup),
		mustPattern("evidence_suggests", `(?i)\bevidence (?:suggests|shows|indicates)\s+(?:that\s+)?`+factorGroup),
		mustPattern("this_confirms", `(?i)\b(?:this|which) (?:confirms|proves|demonstrates)\s+(?:that\s+)?`+factorGroup),
		mustPattern("given_that", `(?i)\bgiven that\s+`+factorGroup),
	},

	AlternativeEnumerators: []Pattern{
		mustPattern("enumerated", enumerated),
		mustPattern("comparison", `(?i)\b(?:on the other hand|versus|compared to)\b`),
	},
}

func mustPattern(name, expr string) Pattern {
	return Pattern{Name: name, Regex: regexp.MustCompile(expr)}
}

func mustRule(stepType reasoning.StepType, name, expr string) StepRule {
	return StepRule{Type: stepType, Pattern: mustPattern(name, expr)}
}
