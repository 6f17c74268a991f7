package importer

import "testing"

func TestNormalizeAliasCollapsesVariants(t *testing.T) {
	want := NormalizeAlias("CE-TCN12")
	if want == "" {
		t.Fatal("normalized key must not be empty")
	}
	for _, raw := range []string{"ce tcn 12", "Cê-TCN-12", "CE_TCN.12", "  ce-tcn12  "} {
		if got := NormalizeAlias(raw); got != want {
			t.Errorf("NormalizeAlias(%q) = %q, want %q", raw, got, want)
		}
	}
	if got := NormalizeAlias("CE-TCN12"); got != "CETCN12" {
		t.Errorf("NormalizeAlias(CE-TCN12) = %q, want CETCN12", got)
	}
}

func TestNormalizeAliasStripsAccents(t *testing.T) {
	cases := map[string]string{
		"Alíquota":   "ALIQUOTA",
		"ção":        "CAO",
		"":           "",
		"  !!??  ":   "",
		"torno-Ñ-42": "TORNON42",
	}
	for raw, want := range cases {
		if got := NormalizeAlias(raw); got != want {
			t.Errorf("NormalizeAlias(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestToNumberHours(t *testing.T) {
	if v, ok := ToNumberHours("7,5"); !ok || v != 7.5 {
		t.Errorf("ToNumberHours(7,5) = %v %v, want 7.5 true", v, ok)
	}
	if _, ok := ToNumberHours("abc"); ok {
		t.Error("ToNumberHours(abc) should not parse")
	}
	if v, ok := ToNumberHours(-3); !ok || v != -3 {
		t.Errorf("ToNumberHours(-3) = %v %v, negatives must be preserved", v, ok)
	}
	if v, ok := ToNumberHours(12.25); !ok || v != 12.25 {
		t.Errorf("ToNumberHours(12.25) = %v %v", v, ok)
	}
	if _, ok := ToNumberHours(nil); ok {
		t.Error("ToNumberHours(nil) should not parse")
	}
}

func TestParseDaySerialRoundTrip(t *testing.T) {
	if got, ok := ParseDay(25569); !ok || got != "1970-01-01" {
		t.Errorf("ParseDay(25569) = %q %v, want 1970-01-01", got, ok)
	}
	if got, ok := ParseDay(25570); !ok || got != "1970-01-02" {
		t.Errorf("ParseDay(25570) = %q %v, want 1970-01-02", got, ok)
	}
	// Serials arrive as strings when cells are read raw.
	if got, ok := ParseDay("45900"); !ok || got != "2025-08-31" {
		t.Errorf("ParseDay(\"45900\") = %q %v, want 2025-08-31", got, ok)
	}
}

func TestParseDayIsTotal(t *testing.T) {
	if got, ok := ParseDay("2025-08-15"); !ok || got != "2025-08-15" {
		t.Errorf("ISO passthrough failed: %q %v", got, ok)
	}
	if got, ok := ParseDay("15/08/2025"); !ok || got != "2025-08-15" {
		t.Errorf("ParseDay(15/08/2025) = %q %v", got, ok)
	}
	for _, v := range []any{nil, "", "not a date", struct{}{}} {
		if got, ok := ParseDay(v); ok {
			t.Errorf("ParseDay(%v) = %q, want no result", v, got)
		}
	}
}
