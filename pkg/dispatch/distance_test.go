package dispatch

import "testing"

func TestDistance(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"ping", "ping", 0},
		{"ping", "pnig", 1},  // adjacent transposition
		{"ping", "pong", 1},  // substitution
		{"ping", "pings", 1}, // insertion
		{"ping", "pin", 1},   // deletion
		{"help", "kelp", 1},
		{"roll", "rlol", 1},
		{"ca", "abc", 3}, // OSA: no edit between transposed substrings
		{"kitten", "sitting", 3},
		{"prefix", "perfix", 1},
		{"héllo", "hello", 1}, // rune-based, not byte-based
	}
	for _, tc := range cases {
		if got := Distance(tc.a, tc.b); got != tc.want {
			t.Errorf("Distance(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestDistanceSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"ping", "pnig"},
		{"task", "tasks"},
		{"", "x"},
		{"abcd", "dcba"},
	}
	for _, p := range pairs {
		if ab, ba := Distance(p[0], p[1]), Distance(p[1], p[0]); ab != ba {
			t.Errorf("Distance(%q, %q) = %d but Distance(%q, %q) = %d", p[0], p[1], ab, p[1], p[0], ba)
		}
	}
}

func TestDistanceIdentity(t *testing.T) {
	for _, s := range []string{"", "a", "ping", "héllo"} {
		if got := Distance(s, s); got != 0 {
			t.Errorf("Distance(%q, %q) = %d, want 0", s, s, got)
		}
	}
}
