package matching

import "testing"

func TestFindBestMatchGuards(t *testing.T) {
	corpus := []string{"netflix", "spotify"}

	for _, q := range []string{"", "ab", "x"} {
		name, score := FindBestMatch(q, corpus)
		if name != "" || score != 0 {
			t.Errorf("FindBestMatch(%q) = (%q, %d), want empty result", q, name, score)
		}
	}

	name, score := FindBestMatch("netflix", nil)
	if name != "" || score != 0 {
		t.Errorf("empty corpus: got (%q, %d), want empty result", name, score)
	}
}

func TestFindBestMatchExact(t *testing.T) {
	corpus := []string{"spotify", "netflix", "adobe systems"}

	name, score := FindBestMatch("netflix", corpus)
	if name != "netflix" || score != 100 {
		t.Errorf("got (%q, %d), want (netflix, 100)", name, score)
	}
}

func TestFindBestMatchTokenOrderInsensitive(t *testing.T) {
	corpus := []string{"netflix premium"}

	name, score := FindBestMatch("premium netflix", corpus)
	if name != "netflix premium" || score != 100 {
		t.Errorf("got (%q, %d), want (netflix premium, 100)", name, score)
	}
}

func TestFindBestMatchPicksClosest(t *testing.T) {
	corpus := []string{"spotify", "netflix", "adobe"}

	name, score := FindBestMatch("netflik", corpus)
	if name != "netflix" {
		t.Errorf("best match = %q, want netflix", name)
	}
	if score < 80 || score >= 100 {
		t.Errorf("score = %d, want a high non-exact score", score)
	}
}

func TestFindBestMatchTieKeepsFirst(t *testing.T) {
	// Both entries are equidistant from the query; the first wins.
	corpus := []string{"abcx", "abcy"}

	name, _ := FindBestMatch("abcz", corpus)
	if name != "abcx" {
		t.Errorf("tie-break picked %q, want first entry abcx", name)
	}

	// Same corpus, same order, same result every time.
	for i := 0; i < 10; i++ {
		if again, _ := FindBestMatch("abcz", corpus); again != name {
			t.Fatalf("unstable result: %q then %q", name, again)
		}
	}
}

func TestTokenSortRatioBounds(t *testing.T) {
	pairs := [][2]string{
		{"netflix", "netflix"},
		{"netflix", "spotify"},
		{"a", "completely different string"},
		{"", ""},
	}
	for _, p := range pairs {
		score := tokenSortRatio(p[0], p[1])
		if score < 0 || score > 100 {
			t.Errorf("tokenSortRatio(%q, %q) = %d, out of [0,100]", p[0], p[1], score)
		}
	}
	if tokenSortRatio("netflix", "netflix") != 100 {
		t.Error("identical strings must score 100")
	}
}

func TestRatioTruncatesFractionalScores(t *testing.T) {
	// 26-char query vs 32-char candidate: indel distance 6 over a total of
	// 58, true ratio 89.65. Truncation keeps it below the 90 block line;
	// rounding half-up would cross it.
	query := "abcdefghijklmnopqrstuvwxyz"
	corpus := []string{"abcdefghijklmnopqrstuvwxyz123456"}

	_, score := FindBestMatch(query, corpus)
	if score != 89 {
		t.Errorf("score = %d, want 89 (truncated, not rounded)", score)
	}
}
