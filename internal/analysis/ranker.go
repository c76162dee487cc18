package analysis

import "sort"

// RankBySize returns the symbols at or above the big-size threshold, largest
// first. Equal sizes are ordered by name for consistent output. The input is
// not modified.
func RankBySize(syms []SymbolData, opts Options) []SymbolData {
	sorted := make([]SymbolData, len(syms))
	copy(sorted, syms)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Size == sorted[j].Size {
			return sorted[i].Name < sorted[j].Name
		}
		return sorted[i].Size > sorted[j].Size
	})

	// The slice is size-descending, so the report is the prefix down to the
	// first symbol below threshold.
	cut := len(sorted)
	for i, s := range sorted {
		if s.Size < opts.BigSizeThreshold {
			cut = i
			break
		}
	}
	return sorted[:cut]
}
