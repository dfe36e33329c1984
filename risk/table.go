// Package risk scores a client against a domain's weighted checklist of tri-state
// signals.
//
// Scoring is deterministic and auditable: the same signals and weight table always
// produce the same score, level and reason order. A signal without data never moves
// the score; it is reported in Result.Missing instead.
package risk

import (
	"fmt"
	"math"
	"strings"
)

// Polarity says which value of a signal indicates risk.
type Polarity string

const (
	IncreasesRisk Polarity = "increases_risk"
	DecreasesRisk Polarity = "decreases_risk"
)

// Reduction is the domain's policy for a signal that points away from risk.
type Reduction string

const (
	// ReduceQuarter subtracts a quarter of the weight, never going below zero.
	ReduceQuarter Reduction = "quarter"
	// ReduceExplain records a decreasing reason with zero impact.
	ReduceExplain Reduction = "explain"
	// ReduceIgnore does nothing.
	ReduceIgnore Reduction = "ignore"
)

// Level is a risk bucket.
type Level string

const (
	LevelLow      Level = "low"
	LevelMedium   Level = "medium"
	LevelHigh     Level = "high"
	LevelCritical Level = "critical"
)

// Turkish returns the practitioner-facing label.
func (l Level) Turkish() string {
	switch l {
	case LevelLow:
		return "Düşük"
	case LevelMedium:
		return "Orta"
	case LevelHigh:
		return "Yüksek"
	case LevelCritical:
		return "Kritik"
	default:
		return string(l)
	}
}

// Entry is one weighted signal in a table.
type Entry struct {
	Signal   string   `json:"signal" yaml:"signal" toml:"signal"`
	Weight   float64  `json:"weight" yaml:"weight" toml:"weight"`
	Polarity Polarity `json:"polarity" yaml:"polarity" toml:"polarity"`
	// Description states what the signal asserts when true.
	Description string `json:"description" yaml:"description" toml:"description"`
	// Suggestion is the remediation offered when the signal indicates risk.
	Suggestion string `json:"suggestion" yaml:"suggestion" toml:"suggestion"`
	// Mitigation is offered on decreasing reasons; Suggestion is used when empty.
	Mitigation string `json:"mitigation,omitempty" yaml:"mitigation,omitempty" toml:"mitigation"`
}

// indicatesRisk reports whether a known value points toward risk.
func (e Entry) indicatesRisk(v TriState) bool {
	if e.Polarity == DecreasesRisk {
		return v == False
	}
	return v == True
}

// LevelBand assigns Level to every score at or above Min, up to the next band.
type LevelBand struct {
	Level Level   `json:"level" yaml:"level" toml:"level"`
	Min   float64 `json:"min" yaml:"min" toml:"min"`
}

// WeightTable is a domain's versioned signal checklist. Entry order is evaluation
// order.
type WeightTable struct {
	Domain    string      `json:"domain" yaml:"domain" toml:"domain"`
	Version   string      `json:"version" yaml:"version" toml:"version"`
	Reduction Reduction   `json:"reduction" yaml:"reduction" toml:"reduction"`
	Entries   []Entry     `json:"entries" yaml:"entries" toml:"entries"`
	Levels    []LevelBand `json:"levels" yaml:"levels" toml:"levels"`
}

// Signals returns the signal names in evaluation order.
func (t WeightTable) Signals() []string {
	names := make([]string, len(t.Entries))
	for i, e := range t.Entries {
		names[i] = e.Signal
	}
	return names
}

// Entry returns the entry for a signal.
func (t WeightTable) Entry(signal string) (Entry, bool) {
	for _, e := range t.Entries {
		if e.Signal == signal {
			return e, true
		}
	}
	return Entry{}, false
}

// TotalWeight sums every entry's weight.
func (t WeightTable) TotalWeight() float64 {
	var total float64
	for _, e := range t.Entries {
		total += e.Weight
	}
	return total
}

// Level maps a score to the table's bucket.
func (t WeightTable) Level(score int) Level {
	level := t.Levels[0].Level
	for _, b := range t.Levels[1:] {
		if float64(score) >= b.Min {
			level = b.Level
		}
	}
	return level
}

// Clone returns a deep copy.
func (t WeightTable) Clone() WeightTable {
	t.Entries = append([]Entry(nil), t.Entries...)
	t.Levels = append([]LevelBand(nil), t.Levels...)
	return t
}

// Validate checks the table is usable. Every problem is reported.
func (t WeightTable) Validate() error {
	var errs []error
	add := func(signal, format string, args ...any) {
		errs = append(errs, NewInvalidWeightError(t.Domain, signal, fmt.Sprintf(format, args...)))
	}

	if strings.TrimSpace(t.Domain) == "" {
		add("", "empty domain")
	}
	if strings.TrimSpace(t.Version) == "" {
		add("", "empty version")
	}
	switch t.Reduction {
	case ReduceQuarter, ReduceExplain, ReduceIgnore:
	default:
		add("", "unknown reduction policy %q", t.Reduction)
	}
	if len(t.Entries) == 0 {
		add("", "no entries")
	}

	seen := make(map[string]bool, len(t.Entries))
	for _, e := range t.Entries {
		switch {
		case strings.TrimSpace(e.Signal) == "":
			add(e.Signal, "empty signal name")
			continue
		case seen[e.Signal]:
			add(e.Signal, "duplicate signal")
			continue
		}
		seen[e.Signal] = true

		if math.IsNaN(e.Weight) || math.IsInf(e.Weight, 0) || e.Weight < 0 {
			add(e.Signal, "weight must be a non-negative finite number, got %v", e.Weight)
		}
		if e.Polarity != IncreasesRisk && e.Polarity != DecreasesRisk {
			add(e.Signal, "unknown polarity %q", e.Polarity)
		}
		if strings.TrimSpace(e.Description) == "" {
			add(e.Signal, "empty description")
		}
		if strings.TrimSpace(e.Suggestion) == "" {
			add(e.Signal, "empty suggestion")
		}
	}

	if len(t.Levels) == 0 {
		add("", "no level bands")
	} else {
		if t.Levels[0].Min != 0 {
			add("", "first level band must start at 0")
		}
		levels := make(map[Level]bool, len(t.Levels))
		for i, b := range t.Levels {
			if b.Level == "" || levels[b.Level] {
				add("", "level band %d has an empty or duplicate level", i+1)
			}
			levels[b.Level] = true
			if i > 0 && b.Min <= t.Levels[i-1].Min {
				add("", "level bands must be strictly ascending")
			}
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return &ValidationErrors{Errors: errs}
}
