// Package report renders analysis results as the tab-separated tables
// consumed by spreadsheet pivoting, or as JSON for regression testing.
package report

import (
	"fmt"
	"io"

	"showglobals/internal/analysis"
)

// The two tables share one column layout; the zero placeholder columns keep
// rows from both tables aligned when pasted into a spreadsheet.
const header = "#Dups\t#Folded\tDupSize\t  Size\tSection\tSymbol name\tPDB name\n"

// DuplicateEntry is one duplicated-global row.
type DuplicateEntry struct {
	Repeats     int    `json:"repeats" jsonschema:"title=Repeats,description=Number of excess instances of the symbol"`
	Folded      int    `json:"folded" jsonschema:"title=Folded,description=Excess instances coalesced to one address by the linker"`
	BytesWasted uint64 `json:"bytes_wasted" jsonschema:"title=Bytes Wasted,description=Bytes wasted by excess instances"`
	Name        string `json:"name" jsonschema:"title=Name,description=Symbol name"`
}

// LargeGlobalEntry is one oversized-global row.
type LargeGlobalEntry struct {
	Size    uint64 `json:"size" jsonschema:"title=Size,description=Symbol size in bytes"`
	Section int32  `json:"section" jsonschema:"title=Section,description=Index of the section holding the symbol; negative when unresolved"`
	Name    string `json:"name" jsonschema:"title=Name,description=Symbol name"`
}

// Report holds the rendered analysis of one binary.
type Report struct {
	Binary       string             `json:"binary" jsonschema:"title=Binary,description=Path of the analyzed binary"`
	Duplicates   []DuplicateEntry   `json:"duplicates" jsonschema:"title=Duplicates,description=Duplicated globals sorted by wasted bytes descending"`
	LargeGlobals []LargeGlobalEntry `json:"large_globals" jsonschema:"title=Large Globals,description=Oversized globals sorted by size descending"`
}

// New assembles a Report from the two analysis passes. The group and symbol
// slices are expected in their final report order.
func New(binary string, groups []analysis.DuplicateGroup, large []analysis.SymbolData) *Report {
	rep := &Report{
		Binary:       binary,
		Duplicates:   make([]DuplicateEntry, 0, len(groups)),
		LargeGlobals: make([]LargeGlobalEntry, 0, len(large)),
	}
	for _, g := range groups {
		rep.Duplicates = append(rep.Duplicates, DuplicateEntry{
			Repeats:     g.RepeatCount,
			Folded:      g.FoldingCount,
			BytesWasted: g.BytesWasted,
			Name:        g.Name,
		})
	}
	for _, s := range large {
		rep.LargeGlobals = append(rep.LargeGlobals, LargeGlobalEntry{
			Size:    s.Size,
			Section: int32(s.Section),
			Name:    s.Name,
		})
	}
	return rep
}

// WriteTSV writes the duplicates table, a blank separator line, and the
// large-globals table. The second table carries no header of its own.
func (r *Report) WriteTSV(w io.Writer) error {
	if _, err := fmt.Fprint(w, header); err != nil {
		return err
	}
	for _, d := range r.Duplicates {
		if _, err := fmt.Fprintf(w, "%d\t%d\t%d\t%6d\t%d\t%s\t%s\n",
			d.Repeats, d.Folded, d.BytesWasted, 0, 0, d.Name, r.Binary); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	for _, s := range r.LargeGlobals {
		if _, err := fmt.Fprintf(w, "%d\t%d\t%6d\t%d\t%s\t%s\n",
			0, 0, s.Size, s.Section, s.Name, r.Binary); err != nil {
			return err
		}
	}
	return nil
}
