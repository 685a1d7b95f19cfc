package aggregator

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRanked(t *testing.T) {
	tally := Tally{"b": 3, "a": 3, "c": 10, "d": 1}

	want := []Entry{
		{Key: "c", Count: 10},
		{Key: "a", Count: 3},
		{Key: "b", Count: 3},
		{Key: "d", Count: 1},
	}
	if diff := cmp.Diff(want, tally.Ranked()); diff != "" {
		t.Errorf("ranking mismatch (-want +got):\n%s", diff)
	}
}

func TestRankedEmpty(t *testing.T) {
	if got := (Tally{}).Ranked(); len(got) != 0 {
		t.Errorf("expected no entries, got %v", got)
	}
}

func TestMaxTieBreak(t *testing.T) {
	tests := []struct {
		name  string
		tally Tally
		want  Entry
	}{
		{"single", Tally{"/home": 1}, Entry{"/home", 1}},
		{"clear winner", Tally{"/home": 4, "/login": 9}, Entry{"/login", 9}},
		{"tie", Tally{"/login": 5, "/home": 5, "/zeta": 5, "/a": 1}, Entry{"/home", 5}},
		{"case sensitive", Tally{"/home": 2, "/Home": 2}, Entry{"/Home", 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Repeat to shake out map iteration order.
			for i := 0; i < 50; i++ {
				got, ok := tt.tally.Max()
				if !ok {
					t.Fatal("expected ok")
				}
				if got != tt.want {
					t.Fatalf("expected %+v, got %+v", tt.want, got)
				}
			}
		})
	}
}

func TestMaxEmpty(t *testing.T) {
	if _, ok := (Tally{}).Max(); ok {
		t.Error("expected ok=false for empty tally")
	}
}

func TestSumAndClone(t *testing.T) {
	tally := Tally{"a": 2, "b": 5}
	if tally.Sum() != 7 {
		t.Errorf("expected 7, got %d", tally.Sum())
	}

	c := tally.Clone()
	c["a"]++
	if tally["a"] != 2 {
		t.Errorf("clone shares storage with original")
	}
}
