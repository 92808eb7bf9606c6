package matching

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Netflix Inc", "netflix"},
		{"Netflix, Inc.", "netflix"},
		{"ACME Payments Pvt Ltd", "acme"},
		{"  Spotify   AB  ", "spotify ab"},
		{"Net-Flix!! Premium", "net flix premium"},
		{"PAY SERVICES LTD", ""},
		{"", ""},
		{"***", ""},
		{"Adobe Systems", "adobe systems"},
	}

	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Netflix Inc", "Netfl1x Premium", "PAY LTD", "", "a b c",
		"Random Sketchy Site!!!", "技术 Technologies",
	}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, twice, once)
		}
	}
}

func TestPolicyKey(t *testing.T) {
	if got := PolicyKey("Netflix Premium Inc"); got != "netflix" {
		t.Errorf("PolicyKey = %q, want netflix", got)
	}
	if got := PolicyKey("Pvt Ltd"); got != "" {
		t.Errorf("PolicyKey for stop-word-only name = %q, want empty", got)
	}
	if got := PolicyKey(""); got != "" {
		t.Errorf("PolicyKey for empty name = %q, want empty", got)
	}
}
