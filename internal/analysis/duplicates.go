package analysis

import "sort"

// nameSizeLess orders symbols by name, using the symbol size as a
// tiebreaker. This is necessary because sometimes there are symbols with
// matching names but different sizes in which case they aren't actually
// duplicates. These false positives happen because namespaces are omitted
// from the names that debug information carries.
func nameSizeLess(lhs, rhs SymbolData) bool {
	if lhs.Name == rhs.Name {
		return lhs.Size < rhs.Size
	}
	return lhs.Name < rhs.Name
}

// FindDuplicates groups symbols with identical (name, size), computes the
// bytes wasted by excess copies, and returns the groups above the wastage
// threshold sorted worst-first. The input is not modified.
func FindDuplicates(syms []SymbolData, opts Options) []DuplicateGroup {
	sorted := make([]SymbolData, len(syms))
	copy(sorted, syms)
	sort.Slice(sorted, func(i, j int) bool { return nameSizeLess(sorted[i], sorted[j]) })

	var groups []DuplicateGroup
	for i := 0; i < len(sorted); {
		first := sorted[i]

		// Scan the run of symbols sharing the first one's name and size,
		// counting how many sit at the first one's address. Symbols without
		// a usable address never count as folded.
		folded := 0
		j := i
		for j < len(sorted) && sorted[j].Size == first.Size && sorted[j].Name == first.Name {
			if first.Addr.Valid && sorted[j].Addr.Valid && sorted[j].Addr.Offset == first.Addr.Offset {
				folded++
			}
			j++
		}

		if run := j - i; run > 1 {
			// Change the counts from how many instances there are to how
			// many excess instances there are. The self-match was only
			// counted when the first symbol had an address, so clamp.
			repeat := run - 1
			folded--
			if folded < 0 {
				folded = 0
			}

			excess := repeat
			if !opts.ShowFoldedConstants {
				excess -= folded
			}
			wasted := uint64(excess) * first.Size
			if wasted > opts.WastageThreshold {
				groups = append(groups, DuplicateGroup{
					Name:         first.Name,
					Size:         first.Size,
					RepeatCount:  repeat,
					FoldingCount: folded,
					BytesWasted:  wasted,
				})
			}
		}

		i = j
	}

	// Worst offenders first. Groups wasting the same amount keep their
	// name order from the scan.
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].BytesWasted > groups[j].BytesWasted
	})
	return groups
}
