package analysis

import "showglobals/internal/elfx"

// Default reporting thresholds, in bytes.
const (
	// DefaultWastageThreshold is how many bytes must be wasted on repeats
	// before a duplicate group is listed.
	DefaultWastageThreshold = 100
	// DefaultBigSizeThreshold is how big an individual symbol must be
	// before being listed.
	DefaultBigSizeThreshold = 500
)

// SectionID identifies the binary section holding a symbol. Non-negative
// values are section table indexes; the sentinels mirror elfx.
type SectionID int32

const (
	SectionUnresolved   = SectionID(elfx.SectionUnresolved)
	SectionLookupFailed = SectionID(elfx.SectionLookupFailed)
)

// Address is an optional symbol address. Valid is false when the debug
// information carried no usable address; such symbols are never treated as
// linker-folded copies of each other.
type Address struct {
	Offset uint64
	Valid  bool
}

// SymbolData records one static-storage symbol for sorting and analysis.
type SymbolData struct {
	Name    string
	Size    uint64
	Section SectionID
	Addr    Address
}

// Options controls one analysis run.
type Options struct {
	// ShowFoldedConstants counts linker-coalesced copies as wasted bytes.
	// They share one physical address, so by default they are suppressed
	// as not actually wasting space.
	ShowFoldedConstants bool
	// Demangle rewrites symbol names through their linkage names.
	Demangle         bool
	WastageThreshold uint64
	BigSizeThreshold uint64
}

// DefaultOptions returns Options with the stock reporting thresholds.
func DefaultOptions() Options {
	return Options{
		WastageThreshold: DefaultWastageThreshold,
		BigSizeThreshold: DefaultBigSizeThreshold,
	}
}

// DuplicateGroup describes repeated instances of one (name, size) pair.
// RepeatCount and FoldingCount are excess counts: the first instance is not
// waste, only copies two onward are.
type DuplicateGroup struct {
	Name         string
	Size         uint64
	RepeatCount  int
	FoldingCount int
	BytesWasted  uint64
}
