package analysis

import (
	"reflect"
	"testing"
)

func TestRankBySizeThresholdBoundary(t *testing.T) {
	syms := []SymbolData{
		sym("at_threshold", 500, at(0x100)),
		sym("below_threshold", 499, at(0x200)),
		sym("big", 10000, at(0x300)),
	}
	got := RankBySize(syms, DefaultOptions())

	want := []string{"big", "at_threshold"}
	var names []string
	for _, s := range got {
		names = append(names, s.Name)
	}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("RankBySize names = %v, want %v", names, want)
	}
}

func TestRankBySizeTiesByName(t *testing.T) {
	syms := []SymbolData{
		sym("zebra", 1000, at(0x100)),
		sym("apple", 1000, at(0x200)),
		sym("mango", 1000, at(0x300)),
	}
	got := RankBySize(syms, DefaultOptions())
	if len(got) != 3 {
		t.Fatalf("got %d symbols, want 3", len(got))
	}
	if got[0].Name != "apple" || got[1].Name != "mango" || got[2].Name != "zebra" {
		t.Errorf("tie order = %s, %s, %s; want apple, mango, zebra",
			got[0].Name, got[1].Name, got[2].Name)
	}
}

func TestRankBySizeEmptyInput(t *testing.T) {
	if got := RankBySize(nil, DefaultOptions()); len(got) != 0 {
		t.Errorf("RankBySize(nil) = %v, want empty", got)
	}
}

func TestRankBySizeDoesNotModifyInput(t *testing.T) {
	syms := []SymbolData{
		sym("b", 600, at(0x100)),
		sym("a", 700, at(0x200)),
	}
	orig := make([]SymbolData, len(syms))
	copy(orig, syms)

	RankBySize(syms, DefaultOptions())
	if !reflect.DeepEqual(syms, orig) {
		t.Errorf("input modified: %+v", syms)
	}
}
