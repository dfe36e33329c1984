// Package evidence builds the reason records attached to risk scores.
//
// Every reason names the signal it came from, the data supporting it and what the
// practitioner should do about it. A reason cannot be built without evidence: when
// no data exists for a signal it belongs in the Missing list instead.
package evidence

import (
	"errors"
	"strings"
)

var (
	// ErrEmptyEvidence is returned when a reason would carry no supporting data.
	ErrEmptyEvidence = errors.New("reason has no evidence")
	// ErrEmptySuggestion is returned when a reason would carry no remediation advice.
	ErrEmptySuggestion = errors.New("reason has no suggestion")
	// ErrEmptySignal is returned when a reason names no signal.
	ErrEmptySignal = errors.New("reason has no signal name")
)

// Effect is the direction a reason moved the score.
type Effect string

const (
	Increasing Effect = "increasing"
	Decreasing Effect = "decreasing"
)

// Reason explains a single signal's contribution to a score.
type Reason struct {
	Signal string  `json:"signal"`
	Effect Effect  `json:"effect"`
	Weight float64 `json:"weight"`
	// Impact is the change actually applied to the score; it may be zero for
	// decreasing reasons that only explain.
	Impact     float64 `json:"impact"`
	Evidence   string  `json:"evidence"`
	Suggestion string  `json:"suggestion"`
}

// Explain builds a reason. Impact starts equal to the weight for increasing reasons
// and zero for decreasing ones; scorers adjust it with WithImpact.
func Explain(signal string, effect Effect, weight float64, evidence, suggestion string) (Reason, error) {
	signal = strings.TrimSpace(signal)
	evidence = strings.TrimSpace(evidence)
	suggestion = strings.TrimSpace(suggestion)

	switch {
	case signal == "":
		return Reason{}, ErrEmptySignal
	case evidence == "":
		return Reason{}, &ReasonError{Signal: signal, Err: ErrEmptyEvidence}
	case suggestion == "":
		return Reason{}, &ReasonError{Signal: signal, Err: ErrEmptySuggestion}
	}

	impact := 0.0
	if effect == Increasing {
		impact = weight
	}

	return Reason{
		Signal:     signal,
		Effect:     effect,
		Weight:     weight,
		Impact:     impact,
		Evidence:   evidence,
		Suggestion: suggestion,
	}, nil
}

// WithImpact returns a copy of the reason with the applied impact.
func (r Reason) WithImpact(impact float64) Reason {
	r.Impact = impact
	return r
}

// ReasonError is returned by Explain when a required field is empty
type ReasonError struct {
	Signal string
	Err    error
}

func (e *ReasonError) Error() string {
	return "signal " + e.Signal + ": " + e.Err.Error()
}

func (e *ReasonError) Unwrap() error {
	return e.Err
}

// Cite joins evidence fragments into one sentence, skipping empty ones.
func Cite(parts ...string) string {
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "; ")
}
