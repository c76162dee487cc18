package analysis

import (
	"showglobals/internal/elfx"
	"showglobals/internal/logging"
)

// CollectStatics enumerates an image's variable records and returns the
// static-storage symbols with resolved sizes. A source that cannot be
// enumerated at all is a hard failure; individual unresolvable records are
// dropped silently.
func CollectStatics(im *elfx.Image, opts Options) ([]SymbolData, error) {
	raw, err := im.Globals()
	if err != nil {
		return nil, err
	}
	syms := FilterStatics(raw, opts)

	if logging.IsDebug() {
		lg := logging.NewLogger()
		lg.Debug("collected static globals", "binary", im.Path, "raw", len(raw), "kept", len(syms))
		lg.Close()
	}
	return syms, nil
}

// FilterStatics keeps the records that are static storage and whose size
// could be resolved from the type record. A resolved size of zero is kept:
// zero-size symbols participate in grouping but can never cross the wastage
// threshold.
func FilterStatics(raw []elfx.Global, opts Options) []SymbolData {
	syms := make([]SymbolData, 0, len(raw))
	for _, g := range raw {
		if !g.Static || !g.SizeKnown {
			continue
		}
		name := g.Name
		if opts.Demangle && g.LinkageName != "" {
			name = CachedDemangle(g.LinkageName)
		}
		syms = append(syms, SymbolData{
			Name:    name,
			Size:    g.Size,
			Section: SectionID(g.Section),
			Addr:    Address{Offset: g.Addr, Valid: g.AddrOK},
		})
	}
	return syms
}
