package textutil

import "testing"

func TestEqualFold(t *testing.T) {
	t.Parallel()

	cases := []struct {
		a, b string
		want bool
	}{
		{"  Dana ", "dana", true},
		{"חלה", " חלה", true},
		{"STRASSE", "strasse", true},
		{"abc", "abd", false},
		{"", "  ", true},
	}
	for _, tc := range cases {
		if got := EqualFold(tc.a, tc.b); got != tc.want {
			t.Errorf("EqualFold(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestContainsFold(t *testing.T) {
	t.Parallel()

	if !ContainsFold("Gluten FREE please", "free") {
		t.Fatalf("expected case-insensitive match")
	}
	if !ContainsFold("בלי שומשום", "שומשום") {
		t.Fatalf("expected hebrew substring match")
	}
	if ContainsFold("sesame", "poppy") {
		t.Fatalf("unexpected match")
	}
	if !ContainsFold("anything", "") {
		t.Fatalf("empty needle should always match")
	}
}
