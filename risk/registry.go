package risk

import (
	"golang.org/x/exp/slices"
)

// Registry holds one scorer per domain. It is immutable after construction and safe
// for concurrent use.
type Registry struct {
	scorers map[string]*Scorer
}

// NewRegistry validates every table. Two tables for the same domain are an error.
func NewRegistry(tables ...WeightTable) (*Registry, error) {
	var errs []error
	scorers := make(map[string]*Scorer, len(tables))

	for _, t := range tables {
		if _, dup := scorers[t.Domain]; dup {
			errs = append(errs, NewInvalidWeightError(t.Domain, "", "domain registered twice"))
			continue
		}
		s, err := NewScorer(t)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		scorers[t.Domain] = s
	}

	if len(errs) > 0 {
		return nil, &ValidationErrors{Errors: errs}
	}
	return &Registry{scorers: scorers}, nil
}

// DefaultRegistry returns a registry with the built-in domains.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(BuiltinTables()...)
	if err != nil {
		panic(err)
	}
	return r
}

// Scorer returns the scorer for a domain.
func (r *Registry) Scorer(domain string) (*Scorer, error) {
	s, ok := r.scorers[domain]
	if !ok {
		return nil, &UnknownDomainError{Domain: domain}
	}
	return s, nil
}

// Domains returns the registered domains sorted by name.
func (r *Registry) Domains() []string {
	domains := make([]string, 0, len(r.scorers))
	for d := range r.scorers {
		domains = append(domains, d)
	}
	slices.Sort(domains)
	return domains
}

// Versions maps each domain to its table version.
func (r *Registry) Versions() map[string]string {
	versions := make(map[string]string, len(r.scorers))
	for d, s := range r.scorers {
		versions[d] = s.table.Version
	}
	return versions
}

// Score evaluates signals for a domain.
func (r *Registry) Score(domain string, signals map[string]Observation) (Result, error) {
	s, err := r.Scorer(domain)
	if err != nil {
		return Result{}, err
	}
	return s.Score(signals)
}
