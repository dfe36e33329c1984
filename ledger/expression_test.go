package ledger

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestEvaluateAmount(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		want    string
		wantErr bool
	}{
		{name: "plain decimal", expr: "1234.56", want: "1234.56"},
		{name: "turkish grouping", expr: "1.234,56", want: "1234.56"},
		{name: "accounting negative", expr: "(1.234,50)", want: "-1234.5"},
		{name: "currency suffix", expr: "1.000,00 TL", want: "1000"},
		{name: "addition", expr: "36.000,00 + 1.250,50", want: "37250.5"},
		{name: "subtraction", expr: "10 - 3", want: "7"},
		{name: "precedence multiply first", expr: "10 + 5 * 2", want: "20"},
		{name: "precedence divide first", expr: "20 - 10 / 2", want: "15"},
		{name: "grouping", expr: "(120.000,00 - 20.000,00) * 0,18", want: "18000"},
		{name: "nested parentheses", expr: "((2 + 3) * (4 - 1))", want: "15"},
		{name: "unary minus", expr: "-5 + 10", want: "5"},
		{name: "expression with suffix", expr: "100 + 50 TL", want: "150"},
		{name: "division by zero", expr: "10 / 0", wantErr: true},
		{name: "unclosed parenthesis", expr: "(10 + 5", wantErr: true},
		{name: "dangling operator", expr: "10 +", wantErr: true},
		{name: "letters", expr: "10 + abc", wantErr: true},
		{name: "trailing garbage", expr: "10 + 5 x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EvaluateAmount(tt.expr)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}
