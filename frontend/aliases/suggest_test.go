package aliases

import "testing"

func TestSuggestCanonical(t *testing.T) {
	cases := map[string]string{
		"CE-TCN12":       "TCN-12",
		"ce tcn 12":      "TCN-12",
		"CE_TORNO 5":     "TORNO-5",
		"TORNO5":         "TORNO-5",
		"FRESA CNC":      "FRESA-CNC",
		"  torno   12  ": "TORNO-12",
		"SERRA":          "SERRA",
	}
	for raw, want := range cases {
		if got := SuggestCanonical(raw); got != want {
			t.Errorf("SuggestCanonical(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestSuggestCanonicalOnlyStripsLeadingMarker(t *testing.T) {
	// "CE" in the middle of a code is part of the name, not the marker.
	if got := SuggestCanonical("DOCE 9"); got != "DOCE-9" {
		t.Errorf("SuggestCanonical(DOCE 9) = %q, want DOCE-9", got)
	}
}
