package compare

import (
	"context"
	"math"
	"testing"
)

func TestMatchListsVacuousCases(t *testing.T) {
	ctx := context.Background()
	c := NewExactComparator()

	t.Run("both empty", func(t *testing.T) {
		got := MatchLists(ctx, nil, nil, c, 0.8)
		if got.TruePositives != 0 || got.FalsePositives != 0 || got.AverageScore != 1.0 {
			t.Errorf("got %+v, want {0 0 1.0}", got)
		}
	})

	t.Run("expected empty actual populated", func(t *testing.T) {
		got := MatchLists(ctx, nil, []any{"a", "b"}, c, 0.8)
		if got.TruePositives != 0 || got.FalsePositives != 2 || got.AverageScore != 0.0 {
			t.Errorf("got %+v, want {0 2 0.0}", got)
		}
	})

	t.Run("actual empty expected populated", func(t *testing.T) {
		got := MatchLists(ctx, []any{"a", "b"}, nil, c, 0.8)
		if got.TruePositives != 0 || got.FalsePositives != 0 || got.AverageScore != 0.0 {
			t.Errorf("got %+v, want {0 0 0.0}", got)
		}
	})
}

func TestMatchListsSinglePair(t *testing.T) {
	ctx := context.Background()
	c := NewExactComparator()

	got := MatchLists(ctx, []any{"apple"}, []any{"Apple"}, c, 0.8)
	if got.TruePositives != 1 || got.FalsePositives != 0 || got.AverageScore != 1.0 {
		t.Errorf("got %+v, want {1 0 1.0}", got)
	}

	got = MatchLists(ctx, []any{"apple"}, []any{"pear"}, c, 0.8)
	if got.TruePositives != 0 || got.FalsePositives != 1 || got.AverageScore != 0.0 {
		t.Errorf("got %+v, want {0 1 0.0}", got)
	}
}

func TestMatchListsOrderIndependent(t *testing.T) {
	ctx := context.Background()
	c := NewExactComparator()

	got := MatchLists(ctx,
		[]any{"apple pie", "banana split"},
		[]any{"banana split", "apple pie"},
		c, 0.8)
	if got.TruePositives != 2 || got.FalsePositives != 0 || got.AverageScore != 1.0 {
		t.Errorf("reordered identical lists: got %+v, want {2 0 1.0}", got)
	}
}

func TestMatchListsOptimalOverGreedy(t *testing.T) {
	// Row-greedy pairing would assign abcd->abce (0.75) and leave the
	// perfect abce->abce pair unmade. The optimal assignment takes the
	// perfect pair: scores {1.0, 0.75}, one above threshold 0.8.
	ctx := context.Background()
	c := NewFuzzyComparator()

	got := MatchLists(ctx, []any{"abcd", "abce"}, []any{"abce", "abcf"}, c, 0.8)
	if got.TruePositives != 1 || got.FalsePositives != 1 {
		t.Fatalf("got %+v, want TP=1 FP=1", got)
	}
	if math.Abs(got.AverageScore-0.875) > 1e-9 {
		t.Errorf("average score = %v, want 0.875", got.AverageScore)
	}
}

func TestMatchListsRectangular(t *testing.T) {
	ctx := context.Background()
	c := NewExactComparator()

	t.Run("more expected than actual", func(t *testing.T) {
		got := MatchLists(ctx, []any{"a", "b", "c"}, []any{"b", "c"}, c, 0.8)
		// Missing items surface as false negatives upstream, not here.
		if got.TruePositives != 2 || got.FalsePositives != 0 {
			t.Errorf("got %+v, want TP=2 FP=0", got)
		}
	})

	t.Run("more actual than expected", func(t *testing.T) {
		got := MatchLists(ctx, []any{"a", "b"}, []any{"a", "b", "spurious"}, c, 0.8)
		if got.TruePositives != 2 || got.FalsePositives != 1 {
			t.Errorf("got %+v, want TP=2 FP=1", got)
		}
	})
}

func TestMatchListsObjectItems(t *testing.T) {
	ctx := context.Background()
	c := NewExactComparator()

	exp := []any{
		map[string]any{"desc": "widget", "qty": 2.0},
		map[string]any{"desc": "gadget", "qty": 1.0},
	}
	act := []any{
		map[string]any{"qty": 1.0, "desc": "gadget"},
		map[string]any{"desc": "widget", "qty": 2.0},
	}
	got := MatchLists(ctx, exp, act, c, 0.8)
	if got.TruePositives != 2 || got.FalsePositives != 0 {
		t.Errorf("got %+v, want TP=2 FP=0", got)
	}
}

func TestToList(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  int
	}{
		{"nil", nil, 0},
		{"blank string", "  ", 0},
		{"slice passes through", []any{"a", "b"}, 2},
		{"json array string", `["x", "y", "z"]`, 3},
		{"malformed array string", `[not json`, 1},
		{"scalar string", "single", 1},
		{"number", 5.0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToList(tt.input); len(got) != tt.want {
				t.Errorf("ToList(%v) has %d items, want %d", tt.input, len(got), tt.want)
			}
		})
	}
}
