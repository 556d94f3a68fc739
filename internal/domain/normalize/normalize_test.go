package normalize

import "testing"

func TestFold(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"  Maccabi   Tel-Aviv ": "maccabi tel-aviv",
		"Peñarol":               "penarol",
		"ŽALGIRIS Kaunas":       "zalgiris kaunas",
		"Fenerbahçe":            "fenerbahce",
	}
	for input, want := range cases {
		if got := Fold(input); got != want {
			t.Fatalf("Fold(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestKey(t *testing.T) {
	t.Parallel()

	if got := Key("3-PT. Jump Shot"); got != "3ptjumpshot" {
		t.Fatalf("Key = %q", got)
	}
	if Key("Three Point") == Key("3 Point") {
		t.Fatalf("distinct spellings must stay distinct keys")
	}
}

func TestPersonName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw   string
		first string
		last  string
	}{
		{"Scottie Wilbekin", "Scottie", "Wilbekin"},
		{"WILBEKIN, Scottie", "Scottie", "WILBEKIN"},
		{"Luca Van Der Berg", "Luca", "Van Der Berg"},
		{"Nene", "", "Nene"},
		{"", "", ""},
	}
	for _, tc := range cases {
		first, last := PersonName(tc.raw)
		if first != tc.first || last != tc.last {
			t.Fatalf("PersonName(%q) = (%q, %q), want (%q, %q)", tc.raw, first, last, tc.first, tc.last)
		}
	}
}

func TestClockSeconds(t *testing.T) {
	t.Parallel()

	cases := []struct {
		clock string
		want  int
		ok    bool
	}{
		{"10:00", 600, true},
		{"04:37", 277, true},
		{"0:09", 9, true},
		{"72:30", 4350, true},
		{"10", 0, false},
		{"10:61", 0, false},
		{"mm:ss", 0, false},
	}
	for _, tc := range cases {
		got, err := ClockSeconds(tc.clock)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("ClockSeconds(%q) = (%d, %v), want %d", tc.clock, got, err, tc.want)
		}
		if !tc.ok && err == nil {
			t.Fatalf("ClockSeconds(%q) expected error", tc.clock)
		}
	}
}
