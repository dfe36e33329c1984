package output

import (
	"testing"
)

func TestTableAlignsTurkishNames(t *testing.T) {
	table := NewTable(AlignLeft, AlignLeft, AlignRight)
	table.Add("100", "Kasa", "50.000,00")
	table.Add("153", "Ticari Mallar", "-100.000,00")
	table.Add("191", "İndirilecek KDV", "1,00")

	want := "" +
		"100  Kasa               50.000,00\n" +
		"153  Ticari Mallar    -100.000,00\n" +
		"191  İndirilecek KDV         1,00\n"

	if got := table.String(); got != want {
		t.Errorf("unexpected table:\n%s\nwant:\n%s", got, want)
	}
}

func TestTableMaxWidth(t *testing.T) {
	table := NewTable(AlignLeft).MaxWidth(6)
	table.Add("Birikmiş Amortismanlar")

	if got := table.String(); got != "Birik…\n" {
		t.Errorf("truncated table = %q", got)
	}
}

func TestPadding(t *testing.T) {
	if got := PadRight("Şube", 6); got != "Şube  " {
		t.Errorf("PadRight = %q", got)
	}
	if got := PadLeft("1,00", 6); got != "  1,00" {
		t.Errorf("PadLeft = %q", got)
	}
	if got := Width("Ödenecek"); got != 8 {
		t.Errorf("Width = %d", got)
	}
}
