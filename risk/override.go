package risk

import (
	"golang.org/x/exp/slices"
)

// Override adjusts a registered table. Weights may only name signals the table
// already defines; changing anything requires a new version so cached results keyed
// on the old version are never reused.
type Override struct {
	Version   string             `json:"version" yaml:"version" toml:"version"`
	Reduction Reduction          `json:"reduction,omitempty" yaml:"reduction,omitempty" toml:"reduction"`
	Weights   map[string]float64 `json:"weights,omitempty" yaml:"weights,omitempty" toml:"weights"`
	Levels    []LevelBand        `json:"levels,omitempty" yaml:"levels,omitempty" toml:"levels"`
}

// Apply returns a validated copy of the table with the override applied.
func (t WeightTable) Apply(o Override) (WeightTable, error) {
	out := t.Clone()

	if o.Version == "" || o.Version == t.Version {
		return WeightTable{}, NewInvalidWeightError(t.Domain, "", "override must set a new version")
	}
	out.Version = o.Version

	if o.Reduction != "" {
		out.Reduction = o.Reduction
	}
	if len(o.Levels) > 0 {
		out.Levels = append([]LevelBand(nil), o.Levels...)
	}

	var unknown []string
	for name, w := range o.Weights {
		found := false
		for i := range out.Entries {
			if out.Entries[i].Signal == name {
				out.Entries[i].Weight = w
				found = true
				break
			}
		}
		if !found {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		slices.Sort(unknown)
		return WeightTable{}, NewUnknownSignalError(t.Domain, unknown)
	}

	if err := out.Validate(); err != nil {
		return WeightTable{}, err
	}
	return out, nil
}

// WithOverrides builds a registry from base tables, applying overrides by domain and
// adding extra tables. An override for an unregistered domain is an error.
func WithOverrides(base []WeightTable, overrides map[string]Override, extra []WeightTable) (*Registry, error) {
	tables := make([]WeightTable, 0, len(base)+len(extra))
	applied := make(map[string]bool, len(overrides))

	for _, t := range base {
		if o, ok := overrides[t.Domain]; ok {
			next, err := t.Apply(o)
			if err != nil {
				return nil, err
			}
			t = next
			applied[t.Domain] = true
		}
		tables = append(tables, t)
	}

	domains := make([]string, 0, len(overrides))
	for domain := range overrides {
		domains = append(domains, domain)
	}
	slices.Sort(domains)
	for _, domain := range domains {
		if !applied[domain] {
			return nil, &UnknownDomainError{Domain: domain}
		}
	}

	return NewRegistry(append(tables, extra...)...)
}
