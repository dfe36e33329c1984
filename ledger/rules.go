package ledger

import (
	"strings"

	"golang.org/x/exp/slices"
)

// Group classifies an account in the chart of accounts.
type Group string

const (
	GroupCurrentAsset      Group = "current_asset"
	GroupFixedAsset        Group = "fixed_asset"
	GroupCurrentLiability  Group = "current_liability"
	GroupLongTermLiability Group = "long_term_liability"
	GroupEquity            Group = "equity"
	GroupRevenue           Group = "revenue"
	GroupCostOfSales       Group = "cost_of_sales"
	GroupExpense           Group = "expense"
	GroupContra            Group = "contra"
	groupUnknown           Group = ""
)

var knownGroups = []Group{
	GroupCurrentAsset,
	GroupFixedAsset,
	GroupCurrentLiability,
	GroupLongTermLiability,
	GroupEquity,
	GroupRevenue,
	GroupCostOfSales,
	GroupExpense,
	GroupContra,
}

// ParseGroup parses a group name.
func ParseGroup(s string) (Group, bool) {
	g := Group(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(knownGroups, g) {
		return g, true
	}
	return groupUnknown, false
}

// IsAssetSide reports whether the group holds assets.
func (g Group) IsAssetSide() bool {
	return g == GroupCurrentAsset || g == GroupFixedAsset
}

// Rule maps an account-code prefix to its expected balance direction.
type Rule struct {
	CodePrefix    string    `json:"code_prefix" yaml:"code_prefix" toml:"code_prefix"`
	Name          string    `json:"name" yaml:"name" toml:"name"`
	Direction     Direction `json:"expected_direction" yaml:"expected_direction" toml:"expected_direction"`
	AllowNegative bool      `json:"allow_negative" yaml:"allow_negative" toml:"allow_negative"`
	Group         Group     `json:"group" yaml:"group" toml:"group"`
}

// Matches reports whether the rule covers the account code. A prefix inside the
// first code segment matches character-wise ("15" covers "153"); past the first
// segment it must end on a segment boundary ("102" covers "102.01", "102.0" does not).
func (r Rule) Matches(code string) bool {
	if !strings.HasPrefix(code, r.CodePrefix) {
		return false
	}
	if len(code) == len(r.CodePrefix) || code[len(r.CodePrefix)] == '.' {
		return true
	}
	return !strings.Contains(r.CodePrefix, ".")
}

// RuleTable is an immutable, validated set of rules ordered for longest-prefix lookup.
// It is safe for concurrent use.
type RuleTable struct {
	rules []Rule
}

// NewRuleTable validates rules and builds a lookup table. Malformed prefixes,
// duplicates, unknown directions and unknown groups are structural errors.
func NewRuleTable(rules []Rule) (*RuleTable, error) {
	var errs []error
	seen := make(map[string]bool, len(rules))
	table := make([]Rule, 0, len(rules))

	for i, r := range rules {
		r.CodePrefix = strings.TrimSpace(r.CodePrefix)

		switch {
		case !validCode(r.CodePrefix):
			errs = append(errs, NewInvalidRuleError(i, r, "malformed code prefix"))
			continue
		case seen[r.CodePrefix]:
			errs = append(errs, NewInvalidRuleError(i, r, "duplicate code prefix"))
			continue
		}

		d, ok := ParseDirection(string(r.Direction))
		if !ok {
			errs = append(errs, NewInvalidRuleError(i, r, "unknown expected direction"))
			continue
		}
		r.Direction = d

		g, ok := ParseGroup(string(r.Group))
		if !ok {
			errs = append(errs, NewInvalidRuleError(i, r, "unknown account group"))
			continue
		}
		r.Group = g

		seen[r.CodePrefix] = true
		table = append(table, r)
	}

	if err := errorsOrNil(errs); err != nil {
		return nil, err
	}

	// Longest prefix first; ties broken by prefix so lookup order never depends on input order.
	slices.SortStableFunc(table, func(a, b Rule) int {
		if len(a.CodePrefix) != len(b.CodePrefix) {
			return len(b.CodePrefix) - len(a.CodePrefix)
		}
		return strings.Compare(a.CodePrefix, b.CodePrefix)
	})

	return &RuleTable{rules: table}, nil
}

// MustRuleTable is like NewRuleTable but panics on error.
// Use only for static rule sets known to be valid.
func MustRuleTable(rules []Rule) *RuleTable {
	t, err := NewRuleTable(rules)
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns the rule with the longest prefix matching code.
func (t *RuleTable) Lookup(code string) (Rule, bool) {
	if t == nil {
		return Rule{}, false
	}
	for _, r := range t.rules {
		if r.Matches(code) {
			return r, true
		}
	}
	return Rule{}, false
}

// Rules returns a copy of the rules sorted by code prefix.
func (t *RuleTable) Rules() []Rule {
	if t == nil {
		return nil
	}
	out := slices.Clone(t.rules)
	slices.SortFunc(out, func(a, b Rule) int {
		return strings.Compare(a.CodePrefix, b.CodePrefix)
	})
	return out
}

// Len returns the number of rules in the table.
func (t *RuleTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rules)
}

// Merge returns a new table with extra rules layered on top; an extra rule with an
// existing prefix replaces it.
func (t *RuleTable) Merge(extra []Rule) (*RuleTable, error) {
	byPrefix := make(map[string]int)
	merged := t.Rules()
	for i, r := range merged {
		byPrefix[r.CodePrefix] = i
	}
	for _, r := range extra {
		if i, ok := byPrefix[strings.TrimSpace(r.CodePrefix)]; ok {
			merged[i] = r
			continue
		}
		merged = append(merged, r)
	}
	return NewRuleTable(merged)
}

// DefaultRules returns the built-in subset of the Tek Düzen Hesap Planı.
func DefaultRules() []Rule {
	return []Rule{
		{CodePrefix: "100", Name: "Kasa", Direction: DirectionDebit, Group: GroupCurrentAsset},
		{CodePrefix: "101", Name: "Alınan Çekler", Direction: DirectionDebit, Group: GroupCurrentAsset},
		{CodePrefix: "102", Name: "Bankalar", Direction: DirectionDebit, Group: GroupCurrentAsset},
		{CodePrefix: "103", Name: "Verilen Çekler ve Ödeme Emirleri (-)", Direction: DirectionCredit, AllowNegative: true, Group: GroupContra},
		{CodePrefix: "108", Name: "Diğer Hazır Değerler", Direction: DirectionDebit, Group: GroupCurrentAsset},
		{CodePrefix: "110", Name: "Hisse Senetleri", Direction: DirectionDebit, Group: GroupCurrentAsset},
		{CodePrefix: "120", Name: "Alıcılar", Direction: DirectionDebit, AllowNegative: true, Group: GroupCurrentAsset},
		{CodePrefix: "121", Name: "Alacak Senetleri", Direction: DirectionDebit, AllowNegative: true, Group: GroupCurrentAsset},
		{CodePrefix: "122", Name: "Alacak Senetleri Reeskontu (-)", Direction: DirectionCredit, AllowNegative: true, Group: GroupContra},
		{CodePrefix: "126", Name: "Verilen Depozito ve Teminatlar", Direction: DirectionDebit, AllowNegative: true, Group: GroupCurrentAsset},
		{CodePrefix: "128", Name: "Şüpheli Ticari Alacaklar", Direction: DirectionDebit, AllowNegative: true, Group: GroupCurrentAsset},
		{CodePrefix: "129", Name: "Şüpheli Ticari Alacaklar Karşılığı (-)", Direction: DirectionCredit, AllowNegative: true, Group: GroupContra},
		{CodePrefix: "131", Name: "Ortaklardan Alacaklar", Direction: DirectionDebit, AllowNegative: true, Group: GroupCurrentAsset},
		{CodePrefix: "136", Name: "Diğer Çeşitli Alacaklar", Direction: DirectionDebit, AllowNegative: true, Group: GroupCurrentAsset},
		{CodePrefix: "150", Name: "İlk Madde ve Malzeme", Direction: DirectionDebit, Group: GroupCurrentAsset},
		{CodePrefix: "151", Name: "Yarı Mamuller", Direction: DirectionDebit, Group: GroupCurrentAsset},
		{CodePrefix: "152", Name: "Mamuller", Direction: DirectionDebit, Group: GroupCurrentAsset},
		{CodePrefix: "153", Name: "Ticari Mallar", Direction: DirectionDebit, Group: GroupCurrentAsset},
		{CodePrefix: "157", Name: "Diğer Stoklar", Direction: DirectionDebit, Group: GroupCurrentAsset},
		{CodePrefix: "159", Name: "Verilen Sipariş Avansları", Direction: DirectionDebit, AllowNegative: true, Group: GroupCurrentAsset},
		{CodePrefix: "180", Name: "Gelecek Aylara Ait Giderler", Direction: DirectionDebit, AllowNegative: true, Group: GroupCurrentAsset},
		{CodePrefix: "190", Name: "Devreden KDV", Direction: DirectionDebit, Group: GroupCurrentAsset},
		{CodePrefix: "191", Name: "İndirilecek KDV", Direction: DirectionDebit, Group: GroupCurrentAsset},
		{CodePrefix: "193", Name: "Peşin Ödenen Vergiler ve Fonlar", Direction: DirectionDebit, AllowNegative: true, Group: GroupCurrentAsset},
		{CodePrefix: "195", Name: "İş Avansları", Direction: DirectionDebit, AllowNegative: true, Group: GroupCurrentAsset},
		{CodePrefix: "196", Name: "Personel Avansları", Direction: DirectionDebit, AllowNegative: true, Group: GroupCurrentAsset},
		{CodePrefix: "250", Name: "Arazi ve Arsalar", Direction: DirectionDebit, Group: GroupFixedAsset},
		{CodePrefix: "252", Name: "Binalar", Direction: DirectionDebit, Group: GroupFixedAsset},
		{CodePrefix: "253", Name: "Tesis, Makine ve Cihazlar", Direction: DirectionDebit, Group: GroupFixedAsset},
		{CodePrefix: "254", Name: "Taşıtlar", Direction: DirectionDebit, Group: GroupFixedAsset},
		{CodePrefix: "255", Name: "Demirbaşlar", Direction: DirectionDebit, Group: GroupFixedAsset},
		{CodePrefix: "257", Name: "Birikmiş Amortismanlar (-)", Direction: DirectionCredit, AllowNegative: true, Group: GroupContra},
		{CodePrefix: "258", Name: "Yapılmakta Olan Yatırımlar", Direction: DirectionDebit, Group: GroupFixedAsset},
		{CodePrefix: "260", Name: "Haklar", Direction: DirectionDebit, Group: GroupFixedAsset},
		{CodePrefix: "268", Name: "Birikmiş Amortismanlar (-)", Direction: DirectionCredit, AllowNegative: true, Group: GroupContra},
		{CodePrefix: "300", Name: "Banka Kredileri", Direction: DirectionCredit, AllowNegative: true, Group: GroupCurrentLiability},
		{CodePrefix: "320", Name: "Satıcılar", Direction: DirectionCredit, AllowNegative: true, Group: GroupCurrentLiability},
		{CodePrefix: "321", Name: "Borç Senetleri", Direction: DirectionCredit, AllowNegative: true, Group: GroupCurrentLiability},
		{CodePrefix: "331", Name: "Ortaklara Borçlar", Direction: DirectionCredit, AllowNegative: true, Group: GroupCurrentLiability},
		{CodePrefix: "335", Name: "Personele Borçlar", Direction: DirectionCredit, AllowNegative: true, Group: GroupCurrentLiability},
		{CodePrefix: "340", Name: "Alınan Sipariş Avansları", Direction: DirectionCredit, AllowNegative: true, Group: GroupCurrentLiability},
		{CodePrefix: "360", Name: "Ödenecek Vergi ve Fonlar", Direction: DirectionCredit, AllowNegative: true, Group: GroupCurrentLiability},
		{CodePrefix: "361", Name: "Ödenecek Sosyal Güvenlik Kesintileri", Direction: DirectionCredit, AllowNegative: true, Group: GroupCurrentLiability},
		{CodePrefix: "391", Name: "Hesaplanan KDV", Direction: DirectionCredit, AllowNegative: true, Group: GroupCurrentLiability},
		{CodePrefix: "400", Name: "Banka Kredileri", Direction: DirectionCredit, AllowNegative: true, Group: GroupLongTermLiability},
		{CodePrefix: "500", Name: "Sermaye", Direction: DirectionCredit, AllowNegative: true, Group: GroupEquity},
		{CodePrefix: "501", Name: "Ödenmemiş Sermaye (-)", Direction: DirectionDebit, AllowNegative: true, Group: GroupContra},
		{CodePrefix: "570", Name: "Geçmiş Yıllar Karları", Direction: DirectionCredit, AllowNegative: true, Group: GroupEquity},
		{CodePrefix: "580", Name: "Geçmiş Yıllar Zararları (-)", Direction: DirectionDebit, AllowNegative: true, Group: GroupContra},
		{CodePrefix: "590", Name: "Dönem Net Karı", Direction: DirectionCredit, AllowNegative: true, Group: GroupEquity},
		{CodePrefix: "591", Name: "Dönem Net Zararı (-)", Direction: DirectionDebit, AllowNegative: true, Group: GroupContra},
		{CodePrefix: "600", Name: "Yurtiçi Satışlar", Direction: DirectionCredit, AllowNegative: true, Group: GroupRevenue},
		{CodePrefix: "601", Name: "Yurtdışı Satışlar", Direction: DirectionCredit, AllowNegative: true, Group: GroupRevenue},
		{CodePrefix: "602", Name: "Diğer Gelirler", Direction: DirectionCredit, AllowNegative: true, Group: GroupRevenue},
		{CodePrefix: "610", Name: "Satıştan İadeler (-)", Direction: DirectionDebit, AllowNegative: true, Group: GroupContra},
		{CodePrefix: "611", Name: "Satış İskontoları (-)", Direction: DirectionDebit, AllowNegative: true, Group: GroupContra},
		{CodePrefix: "620", Name: "Satılan Mamuller Maliyeti (-)", Direction: DirectionDebit, AllowNegative: true, Group: GroupCostOfSales},
		{CodePrefix: "621", Name: "Satılan Ticari Mallar Maliyeti (-)", Direction: DirectionDebit, AllowNegative: true, Group: GroupCostOfSales},
		{CodePrefix: "632", Name: "Genel Yönetim Giderleri (-)", Direction: DirectionDebit, AllowNegative: true, Group: GroupExpense},
		{CodePrefix: "642", Name: "Faiz Gelirleri", Direction: DirectionCredit, AllowNegative: true, Group: GroupRevenue},
		{CodePrefix: "649", Name: "Diğer Olağan Gelir ve Karlar", Direction: DirectionCredit, AllowNegative: true, Group: GroupRevenue},
		{CodePrefix: "653", Name: "Komisyon Giderleri (-)", Direction: DirectionDebit, AllowNegative: true, Group: GroupExpense},
		{CodePrefix: "656", Name: "Kambiyo Zararları (-)", Direction: DirectionDebit, AllowNegative: true, Group: GroupExpense},
		{CodePrefix: "660", Name: "Kısa Vadeli Borçlanma Giderleri (-)", Direction: DirectionDebit, AllowNegative: true, Group: GroupExpense},
		{CodePrefix: "689", Name: "Diğer Olağandışı Gider ve Zararlar (-)", Direction: DirectionDebit, AllowNegative: true, Group: GroupExpense},
		{CodePrefix: "7", Name: "Maliyet Hesapları", Direction: DirectionDebit, AllowNegative: true, Group: GroupExpense},
	}
}
