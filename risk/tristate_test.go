package risk

import (
	"encoding/json"
	"testing"

	"github.com/alecthomas/assert/v2"
	"gopkg.in/yaml.v3"
)

func TestTriStateZeroValueIsUnknown(t *testing.T) {
	var v TriState
	assert.Equal(t, Unknown, v)
	assert.False(t, v.Known())

	var o Observation
	assert.Equal(t, Unknown, o.Value)
}

func TestParseTriState(t *testing.T) {
	tests := []struct {
		input   string
		want    TriState
		wantErr bool
	}{
		{"true", True, false},
		{"Evet", True, false},
		{"no", False, false},
		{"hayır", False, false},
		{"", Unknown, false},
		{"null", Unknown, false},
		{"maybe", Unknown, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTriState(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestObservationJSON(t *testing.T) {
	var signals map[string]Observation
	err := json.Unmarshal([]byte(`{
		"a": true,
		"b": false,
		"c": null,
		"d": {"value": true, "evidence": "VTR 2023/114"},
		"e": {"evidence": "sorgu zaman aşımı"},
		"f": "unknown"
	}`), &signals)
	assert.NoError(t, err)

	assert.Equal(t, True, signals["a"].Value)
	assert.Equal(t, False, signals["b"].Value)
	assert.Equal(t, Unknown, signals["c"].Value)
	assert.Equal(t, Observation{Value: True, Evidence: "VTR 2023/114"}, signals["d"])
	assert.Equal(t, Unknown, signals["e"].Value)
	assert.Equal(t, Unknown, signals["f"].Value)

	out, err := json.Marshal(Observation{Value: Unknown})
	assert.NoError(t, err)
	assert.Equal(t, `{"value":null}`, string(out))
}

func TestObservationYAML(t *testing.T) {
	var signals map[string]Observation
	err := yaml.Unmarshal([]byte(`
a: true
b: hayır
c: ~
d:
  value: false
  evidence: banka dekontu mevcut
`), &signals)
	assert.NoError(t, err)

	assert.Equal(t, True, signals["a"].Value)
	assert.Equal(t, False, signals["b"].Value)
	assert.Equal(t, Unknown, signals["c"].Value)
	assert.Equal(t, Observation{Value: False, Evidence: "banka dekontu mevcut"}, signals["d"])
}
