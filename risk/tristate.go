package risk

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// TriState is a resolved signal value. The zero value is Unknown, so a signal that
// was never set can never read as false.
type TriState int8

const (
	Unknown TriState = iota
	True
	False
)

// Bool converts a known boolean.
func Bool(b bool) TriState {
	if b {
		return True
	}
	return False
}

// Known reports whether the value is True or False.
func (t TriState) Known() bool {
	return t == True || t == False
}

func (t TriState) String() string {
	switch t {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "unknown"
	}
}

// Turkish returns the practitioner-facing label.
func (t TriState) Turkish() string {
	switch t {
	case True:
		return "evet"
	case False:
		return "hayır"
	default:
		return "bilinmiyor"
	}
}

// ParseTriState accepts true/false/unknown and common spellings (yes/no, evet/hayır,
// 1/0, null, empty).
func ParseTriState(s string) (TriState, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "evet", "1", "t", "y":
		return True, nil
	case "false", "no", "hayır", "hayir", "0", "f", "n":
		return False, nil
	case "unknown", "null", "none", "", "bilinmiyor", "?":
		return Unknown, nil
	default:
		return Unknown, fmt.Errorf("invalid signal value %q", s)
	}
}

// MarshalJSON encodes Unknown as null.
func (t TriState) MarshalJSON() ([]byte, error) {
	switch t {
	case True:
		return []byte("true"), nil
	case False:
		return []byte("false"), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts booleans, null and the strings understood by ParseTriState.
func (t *TriState) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case nil:
		*t = Unknown
	case bool:
		*t = Bool(x)
	case string:
		parsed, err := ParseTriState(x)
		if err != nil {
			return err
		}
		*t = parsed
	default:
		return fmt.Errorf("invalid signal value %s", string(data))
	}
	return nil
}

// UnmarshalText lets YAML and TOML decoders read scalar values.
func (t *TriState) UnmarshalText(text []byte) error {
	parsed, err := ParseTriState(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalText encodes the value as true, false or unknown.
func (t TriState) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Observation is one resolved signal with optional supporting detail from the
// collaborator that resolved it.
type Observation struct {
	Value    TriState `json:"value" yaml:"value"`
	Evidence string   `json:"evidence,omitempty" yaml:"evidence,omitempty"`
}

// Observe is shorthand for an observation with evidence.
func Observe(value TriState, evidence string) Observation {
	return Observation{Value: value, Evidence: evidence}
}

// UnmarshalJSON accepts either the object form or a bare value
// ("signal": true).
func (o *Observation) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		type plain Observation
		var p plain
		if err := json.Unmarshal(data, &p); err != nil {
			return err
		}
		*o = Observation(p)
		return nil
	}
	*o = Observation{}
	return o.Value.UnmarshalJSON(data)
}

// UnmarshalYAML accepts either the mapping form or a bare scalar.
func (o *Observation) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.MappingNode {
		type plain Observation
		var p plain
		if err := node.Decode(&p); err != nil {
			return err
		}
		*o = Observation(p)
		return nil
	}
	*o = Observation{}
	if node.Tag == "!!null" {
		return nil
	}
	return o.Value.UnmarshalText([]byte(node.Value))
}
