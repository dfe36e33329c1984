package risk

import (
	"fmt"
	"math"

	"golang.org/x/exp/slices"

	"github.com/mizanlab/mizan/evidence"
)

// MaxScore is the upper bound of every score.
const MaxScore = 100

// Result is a domain score with its justification.
type Result struct {
	Domain       string            `json:"domain"`
	TableVersion string            `json:"table_version"`
	Score        int               `json:"score"`
	Level        Level             `json:"level"`
	Reasons      []evidence.Reason `json:"reasons"`
	Missing      []string          `json:"missing_signals"`
}

// Scorer evaluates signals against one validated weight table. It holds no mutable
// state and is safe for concurrent use.
type Scorer struct {
	table WeightTable
	known map[string]bool
}

// NewScorer validates the table and returns a scorer for it.
func NewScorer(table WeightTable) (*Scorer, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}

	table = table.Clone()
	known := make(map[string]bool, len(table.Entries))
	for _, e := range table.Entries {
		known[e.Signal] = true
	}

	return &Scorer{table: table, known: known}, nil
}

// MustScorer is like NewScorer but panics on error.
// Use only for built-in tables known to be valid.
func MustScorer(table WeightTable) *Scorer {
	s, err := NewScorer(table)
	if err != nil {
		panic(err)
	}
	return s
}

// Table returns a copy of the scorer's weight table.
func (s *Scorer) Table() WeightTable {
	return s.table.Clone()
}

// Domain returns the scored domain.
func (s *Scorer) Domain() string {
	return s.table.Domain
}

// Known reports whether the table defines the signal.
func (s *Scorer) Known(signal string) bool {
	return s.known[signal]
}

// Score evaluates the signals in table order.
//
// Absent and Unknown signals are listed in Missing and never change the score.
// A signal pointing toward risk adds its weight and an increasing reason. A signal
// pointing away from risk is handled by the table's reduction policy. The total is
// rounded half away from zero and clamped to 0..100.
//
// Signals the table does not define are a configuration defect and return an
// *UnknownSignalError.
func (s *Scorer) Score(signals map[string]Observation) (Result, error) {
	if err := s.checkSignals(signals); err != nil {
		return Result{}, err
	}

	var (
		score   float64
		missing evidence.Missing
		reasons = make([]evidence.Reason, 0, len(s.table.Entries))
	)

	for _, e := range s.table.Entries {
		obs, ok := signals[e.Signal]
		if !ok || !obs.Value.Known() {
			missing.Add(e.Signal)
			continue
		}

		cited := evidence.Cite(fmt.Sprintf("%s: %s", e.Description, obs.Value.Turkish()), obs.Evidence)

		if e.indicatesRisk(obs.Value) {
			r, err := evidence.Explain(e.Signal, evidence.Increasing, e.Weight, cited, e.Suggestion)
			if err != nil {
				return Result{}, err
			}
			score += e.Weight
			reasons = append(reasons, r)
			continue
		}

		if s.table.Reduction == ReduceIgnore {
			continue
		}

		suggestion := e.Mitigation
		if suggestion == "" {
			suggestion = e.Suggestion
		}
		r, err := evidence.Explain(e.Signal, evidence.Decreasing, e.Weight, cited, suggestion)
		if err != nil {
			return Result{}, err
		}

		if s.table.Reduction == ReduceQuarter {
			before := score
			score = math.Max(0, score-e.Weight/4)
			r = r.WithImpact(score - before)
		}
		reasons = append(reasons, r)
	}

	final := clamp(score)

	return Result{
		Domain:       s.table.Domain,
		TableVersion: s.table.Version,
		Score:        final,
		Level:        s.table.Level(final),
		Reasons:      reasons,
		Missing:      missing.Names(),
	}, nil
}

func (s *Scorer) checkSignals(signals map[string]Observation) error {
	var unknown []string
	for name := range signals {
		if !s.known[name] {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	slices.Sort(unknown)
	return NewUnknownSignalError(s.table.Domain, unknown)
}

func clamp(score float64) int {
	rounded := math.Round(score)
	switch {
	case rounded < 0:
		return 0
	case rounded > MaxScore:
		return MaxScore
	default:
		return int(rounded)
	}
}

// Score validates the table and evaluates the signals against it in one step.
func Score(table WeightTable, signals map[string]Observation) (Result, error) {
	s, err := NewScorer(table)
	if err != nil {
		return Result{}, err
	}
	return s.Score(signals)
}
