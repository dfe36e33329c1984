package evidence

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestExplain(t *testing.T) {
	tests := []struct {
		name       string
		signal     string
		effect     Effect
		evidence   string
		suggestion string
		wantErr    error
		wantImpact float64
	}{
		{
			name:       "increasing",
			signal:     "supplier_vtr_listed",
			effect:     Increasing,
			evidence:   "Tedarikçi VTR listesinde",
			suggestion: "Tedarikçiyle yapılan işlemleri belgeleyin",
			wantImpact: 20,
		},
		{
			name:       "decreasing explains only",
			signal:     "payment_not_via_bank",
			effect:     Decreasing,
			evidence:   "Ödemeler banka üzerinden yapılmış",
			suggestion: "Dekontları dosyada tutun",
			wantImpact: 0,
		},
		{
			name:       "empty evidence",
			signal:     "ba_bs_mismatch",
			effect:     Increasing,
			evidence:   "   ",
			suggestion: "Ba/Bs formlarını karşılaştırın",
			wantErr:    ErrEmptyEvidence,
		},
		{
			name:     "empty suggestion",
			signal:   "ba_bs_mismatch",
			effect:   Increasing,
			evidence: "Ba formu 12.000 TL fark gösteriyor",
			wantErr:  ErrEmptySuggestion,
		},
		{
			name:       "empty signal",
			effect:     Increasing,
			evidence:   "x",
			suggestion: "y",
			wantErr:    ErrEmptySignal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Explain(tt.signal, tt.effect, 20, tt.evidence, tt.suggestion)
			if tt.wantErr != nil {
				assert.IsError(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.signal, r.Signal)
			assert.Equal(t, tt.effect, r.Effect)
			assert.Equal(t, 20.0, r.Weight)
			assert.Equal(t, tt.wantImpact, r.Impact)
			assert.NotEqual(t, "", r.Evidence)
			assert.NotEqual(t, "", r.Suggestion)
		})
	}
}

func TestReasonErrorNamesSignal(t *testing.T) {
	_, err := Explain("negative_inventory", Increasing, 8, "", "Stok sayımı yapın")

	var re *ReasonError
	assert.True(t, errors.As(err, &re))
	assert.Equal(t, "negative_inventory", re.Signal)
	assert.EqualError(t, err, "signal negative_inventory: reason has no evidence")
}

func TestWithImpact(t *testing.T) {
	r, err := Explain("x", Decreasing, 8, "e", "s")
	assert.NoError(t, err)

	q := r.WithImpact(-2)
	assert.Equal(t, -2.0, q.Impact)
	assert.Equal(t, 0.0, r.Impact)
}

func TestCite(t *testing.T) {
	assert.Equal(t, "a; b", Cite("a", " ", "b "))
	assert.Equal(t, "", Cite())
}

func TestMissing(t *testing.T) {
	var m Missing
	assert.Equal(t, []string{}, m.Names())

	m.Add("b")
	m.Add("a")
	m.Add("b")

	assert.Equal(t, []string{"b", "a"}, m.Names())
	assert.Equal(t, 2, m.Len())
	assert.True(t, m.Has("a"))
	assert.False(t, m.Has("c"))

	names := m.Names()
	names[0] = "changed"
	assert.Equal(t, "b", m.Names()[0])
}
