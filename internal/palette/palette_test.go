package palette

import (
	"sort"
	"testing"
)

func TestColorFor_StableAssignment(t *testing.T) {
	tools := []string{"alpha", "beta", "gamma"}
	sort.Strings(tools)

	if got := ColorFor(tools, "alpha"); got != Default[0] {
		t.Errorf("alpha: expected %s, got %s", Default[0], got)
	}
	if got := ColorFor(tools, "gamma"); got != Default[2] {
		t.Errorf("gamma: expected %s, got %s", Default[2], got)
	}
}

func TestColorFor_UnknownTool(t *testing.T) {
	if got := ColorFor([]string{"a", "b"}, "zzz"); got != Neutral {
		t.Errorf("expected neutral for unknown tool, got %s", got)
	}
}

func TestColors_OrderIndependent(t *testing.T) {
	a := Colors([]string{"write", "read", "grep"})
	b := Colors([]string{"grep", "grep", "write", "", "read"})

	if len(a) != 3 || len(b) != 3 {
		t.Fatalf("expected 3 entries each, got %d and %d", len(a), len(b))
	}
	for tool, c := range a {
		if b[tool] != c {
			t.Errorf("tool %s: %s vs %s across input orderings", tool, c, b[tool])
		}
	}
}

func TestColors_SubsetKeepsAssignment(t *testing.T) {
	// Identity is a function of the distinct-tool *set*; the same set
	// always yields the same colors no matter how it was collected.
	full := Colors([]string{"a", "b", "c"})
	again := Colors([]string{"c", "b", "a"})
	for tool := range full {
		if full[tool] != again[tool] {
			t.Errorf("tool %s color changed: %s vs %s", tool, full[tool], again[tool])
		}
	}
}

func TestColors_CyclesPalette(t *testing.T) {
	tools := make([]string, len(Default)+1)
	for i := range tools {
		tools[i] = string(rune('a' + i))
	}
	m := Colors(tools)
	if m[tools[len(Default)]] != Default[0] {
		t.Errorf("expected palette to cycle, got %s", m[tools[len(Default)]])
	}
}

func TestColorsFrom_CustomPalette(t *testing.T) {
	custom := []string{"#111111", "#222222"}
	m := ColorsFrom(custom, []string{"b", "a", "c"})
	if m["a"] != "#111111" || m["b"] != "#222222" || m["c"] != "#111111" {
		t.Errorf("unexpected custom assignment: %v", m)
	}
}

func TestErrorShade(t *testing.T) {
	shade := ErrorShade(Default[0])
	if !Valid(shade) {
		t.Errorf("expected a valid hex color, got %q", shade)
	}
	if shade == Default[0] {
		t.Error("expected the shade to differ from the base color")
	}
	if got := ErrorShade("not-a-color"); !Valid(got) {
		t.Errorf("expected a valid fallback for bad input, got %q", got)
	}
}

func TestValid(t *testing.T) {
	if !Valid("#0a1b2c") {
		t.Error("expected #0a1b2c to be valid")
	}
	if Valid("red") || Valid("") {
		t.Error("expected named colors and empty strings to be invalid")
	}
}
