package ledger

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestRuleMatches(t *testing.T) {
	tests := []struct {
		prefix string
		code   string
		want   bool
	}{
		{"100", "100", true},
		{"102", "102.01", true},
		{"102", "102.01.003", true},
		{"15", "153", true},
		{"7", "770", true},
		{"102.01", "102.01.5", true},
		{"102.0", "102.01", false},
		{"102.01", "102.011", false},
		{"153", "15", false},
		{"320", "321", false},
	}

	for _, tt := range tests {
		t.Run(tt.prefix+"/"+tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, Rule{CodePrefix: tt.prefix}.Matches(tt.code))
		})
	}
}

func TestRuleTableLongestPrefix(t *testing.T) {
	table := MustRuleTable([]Rule{
		{CodePrefix: "1", Name: "Dönen Varlıklar", Direction: DirectionDebit, Group: GroupCurrentAsset},
		{CodePrefix: "10", Name: "Hazır Değerler", Direction: DirectionDebit, Group: GroupCurrentAsset},
		{CodePrefix: "103", Name: "Verilen Çekler", Direction: DirectionCredit, AllowNegative: true, Group: GroupContra},
		{CodePrefix: "102.99", Name: "Bloke", Direction: DirectionCredit, AllowNegative: true, Group: GroupCurrentAsset},
	})

	tests := []struct {
		code     string
		wantName string
		wantOK   bool
	}{
		{"103", "Verilen Çekler", true},
		{"102.01", "Hazır Değerler", true},
		{"102.99", "Bloke", true},
		{"102.99.1", "Bloke", true},
		{"153", "Dönen Varlıklar", true},
		{"600", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			rule, ok := table.Lookup(tt.code)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantName, rule.Name)
		})
	}
}

func TestNewRuleTableErrors(t *testing.T) {
	_, err := NewRuleTable([]Rule{
		{CodePrefix: "100", Direction: DirectionDebit, Group: GroupCurrentAsset},
		{CodePrefix: "100", Direction: DirectionDebit, Group: GroupCurrentAsset},
		{CodePrefix: "1a0", Direction: DirectionDebit, Group: GroupCurrentAsset},
		{CodePrefix: "101", Direction: "sideways", Group: GroupCurrentAsset},
		{CodePrefix: "102", Direction: DirectionDebit, Group: "liquid"},
		{CodePrefix: "102.", Direction: DirectionDebit, Group: GroupCurrentAsset},
	})
	assert.Error(t, err)

	var verrs *ValidationErrors
	assert.True(t, errors.As(err, &verrs))
	assert.Equal(t, 5, len(verrs.Errors))

	var ruleErr *InvalidRuleError
	assert.True(t, errors.As(err, &ruleErr))
	assert.Equal(t, "100", ruleErr.Prefix)
	assert.Equal(t, 1, ruleErr.Index)
	assert.Equal(t, `rule #2 "100": duplicate code prefix`, ruleErr.Error())
}

func TestNewRuleTableAcceptsTurkishDirections(t *testing.T) {
	table, err := NewRuleTable([]Rule{
		{CodePrefix: "100", Direction: "borç", Group: "current_asset"},
		{CodePrefix: "320", Direction: "Alacak", Group: "CURRENT_LIABILITY"},
	})
	assert.NoError(t, err)

	rule, ok := table.Lookup("320.01")
	assert.True(t, ok)
	assert.Equal(t, DirectionCredit, rule.Direction)
	assert.Equal(t, GroupCurrentLiability, rule.Group)
}

func TestDefaultRules(t *testing.T) {
	table, err := NewRuleTable(DefaultRules())
	assert.NoError(t, err)
	assert.Equal(t, len(DefaultRules()), table.Len())

	tests := []struct {
		code          string
		direction     Direction
		allowNegative bool
	}{
		{"100", DirectionDebit, false},
		{"102.01", DirectionDebit, false},
		{"153", DirectionDebit, false},
		{"191", DirectionDebit, false},
		{"320", DirectionCredit, true},
		{"391", DirectionCredit, true},
		{"600", DirectionCredit, true},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			rule, ok := table.Lookup(tt.code)
			assert.True(t, ok)
			assert.Equal(t, tt.direction, rule.Direction)
			assert.Equal(t, tt.allowNegative, rule.AllowNegative)
		})
	}
}

func TestRuleTableRulesSorted(t *testing.T) {
	table := MustRuleTable([]Rule{
		{CodePrefix: "600", Direction: DirectionCredit, Group: GroupRevenue},
		{CodePrefix: "1", Direction: DirectionDebit, Group: GroupCurrentAsset},
		{CodePrefix: "100", Direction: DirectionDebit, Group: GroupCurrentAsset},
	})

	var prefixes []string
	for _, r := range table.Rules() {
		prefixes = append(prefixes, r.CodePrefix)
	}
	assert.Equal(t, []string{"1", "100", "600"}, prefixes)
}

func TestRuleTableMerge(t *testing.T) {
	base := MustRuleTable([]Rule{
		{CodePrefix: "100", Name: "Kasa", Direction: DirectionDebit, Group: GroupCurrentAsset},
		{CodePrefix: "320", Name: "Satıcılar", Direction: DirectionCredit, AllowNegative: true, Group: GroupCurrentLiability},
	})

	merged, err := base.Merge([]Rule{
		{CodePrefix: "320", Name: "Satıcılar", Direction: DirectionCredit, AllowNegative: false, Group: GroupCurrentLiability},
		{CodePrefix: "159", Name: "Verilen Sipariş Avansları", Direction: DirectionDebit, Group: GroupCurrentAsset},
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, merged.Len())

	rule, _ := merged.Lookup("320")
	assert.False(t, rule.AllowNegative)

	// The base table is unchanged
	rule, _ = base.Lookup("320")
	assert.True(t, rule.AllowNegative)

	_, err = base.Merge([]Rule{{CodePrefix: "x", Direction: DirectionDebit, Group: GroupCurrentAsset}})
	assert.Error(t, err)
}

func TestParseGroup(t *testing.T) {
	g, ok := ParseGroup(" Contra ")
	assert.True(t, ok)
	assert.Equal(t, GroupContra, g)
	assert.False(t, g.IsAssetSide())

	_, ok = ParseGroup("other")
	assert.False(t, ok)

	assert.True(t, GroupFixedAsset.IsAssetSide())
}
