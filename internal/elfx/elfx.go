// Package elfx provides helpers for opening ELF binaries, locating sections,
// and enumerating global/static variables from their debug information.
package elfx

import (
	"debug/dwarf"
	"debug/elf"
	"encoding/binary"
	"fmt"
)

// Section sentinels used when a symbol's section cannot be determined.
const (
	// SectionUnresolved means the symbol has no usable address at all.
	SectionUnresolved int32 = -1
	// SectionLookupFailed means the symbol has an address but no allocated
	// section contains it.
	SectionLookupFailed int32 = -2
)

type Image struct {
	Path     string
	File     *elf.File
	Sections []Section
}

type Section struct {
	Index int32
	Name  string
	VA    uint64
	Size  uint64
}

// Global is one raw variable record from the debug information. Records are
// unfiltered: callers decide what to keep based on Static and SizeKnown.
type Global struct {
	Name        string
	LinkageName string
	Size        uint64
	SizeKnown   bool
	Static      bool
	Addr        uint64
	AddrOK      bool
	Section     int32
}

func Open(path string) (*Image, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open elf: %w", err)
	}

	im := &Image{Path: path, File: f}
	for i, s := range f.Sections {
		if s.Flags&elf.SHF_ALLOC == 0 {
			continue
		}
		im.Sections = append(im.Sections, Section{
			Index: int32(i),
			Name:  s.Name,
			VA:    s.Addr,
			Size:  s.Size,
		})
	}
	return im, nil
}

// Close closes the underlying ELF file.
func (im *Image) Close() error {
	if im.File != nil {
		err := im.File.Close()
		im.File = nil
		return err
	}
	return nil
}

// SectionForVA returns the index of the allocated section containing the
// virtual address. It returns false if no section contains it.
func (im *Image) SectionForVA(va uint64) (int32, bool) {
	for _, s := range im.Sections {
		if s.Size != 0 && va >= s.VA && va < s.VA+s.Size {
			return s.Index, true
		}
	}
	return 0, false
}

// Globals enumerates the variable records of the binary. DWARF is the
// primary source: it carries type-resolved sizes and exact storage classes.
// Binaries without DWARF fall back to the static symbol table. If neither
// source can be read the enumeration fails as a whole.
func (im *Image) Globals() ([]Global, error) {
	d, derr := im.File.DWARF()
	if derr == nil {
		return im.dwarfGlobals(d)
	}

	syms, serr := im.File.Symbols()
	if serr != nil {
		return nil, fmt.Errorf("enumerate globals: no DWARF data (%v) and no symbol table (%v)", derr, serr)
	}
	return im.symtabGlobals(syms), nil
}

// dwarfGlobals walks every DWARF entry and collects variables. Entries that
// fail to resolve a name are skipped locally; a read error before any entry
// was produced aborts the enumeration.
func (im *Image) dwarfGlobals(d *dwarf.Data) ([]Global, error) {
	r := d.Reader()
	var globals []Global
	for {
		ent, err := r.Next()
		if err != nil {
			if len(globals) == 0 {
				return nil, fmt.Errorf("read debug entries: %w", err)
			}
			break
		}
		if ent == nil {
			break
		}
		if ent.Tag != dwarf.TagVariable {
			continue
		}
		if g, ok := im.globalFromEntry(d, ent); ok {
			globals = append(globals, g)
		}
	}
	return globals, nil
}

func (im *Image) globalFromEntry(d *dwarf.Data, ent *dwarf.Entry) (Global, bool) {
	name, ok := ent.Val(dwarf.AttrName).(string)
	if !ok || name == "" {
		return Global{}, false
	}

	g := Global{Name: name, Section: SectionUnresolved}
	if linkage, ok := ent.Val(dwarf.AttrLinkageName).(string); ok {
		g.LinkageName = linkage
	}

	// A single-expression location starting with DW_OP_addr marks static
	// storage. Anything else (loclists, register/TLS locations, plain
	// declarations) is not a fixed-address global.
	if loc, ok := ent.Val(dwarf.AttrLocation).([]byte); ok {
		if addr, ok := staticAddr(loc, im.addrSize()); ok {
			g.Static = true
			g.Addr = addr
			g.AddrOK = true
			if sec, found := im.SectionForVA(addr); found {
				g.Section = sec
			} else {
				g.Section = SectionLookupFailed
			}
		}
	}

	// The variable entry itself has no length; the size lives on the type
	// record. Failing to resolve the type drops the record.
	off, ok := ent.Val(dwarf.AttrType).(dwarf.Offset)
	if !ok {
		return g, true
	}
	typ, err := d.Type(off)
	if err != nil {
		return g, true
	}
	g.SizeKnown = true
	if sz := typ.Size(); sz > 0 {
		g.Size = uint64(sz)
	}
	return g, true
}

// symtabGlobals builds records from .symtab data objects. Sizes come
// straight from the symbol entries, so every record is size-known. A value
// of zero is indistinguishable from "undefined" in the symbol table, so
// such records carry no usable address.
func (im *Image) symtabGlobals(syms []elf.Symbol) []Global {
	var globals []Global
	for _, sym := range syms {
		if elf.ST_TYPE(sym.Info) != elf.STT_OBJECT {
			continue
		}
		if sym.Name == "" {
			continue
		}
		if sym.Section == elf.SHN_UNDEF || sym.Section >= elf.SHN_LORESERVE {
			continue
		}

		g := Global{
			Name:      sym.Name,
			Size:      sym.Size,
			SizeKnown: true,
			Static:    true,
			Section:   SectionUnresolved,
		}
		if sym.Value != 0 {
			g.Addr = sym.Value
			g.AddrOK = true
			g.Section = int32(sym.Section)
		}
		globals = append(globals, g)
	}
	return globals
}

func (im *Image) addrSize() int {
	if im.File.Class == elf.ELFCLASS32 {
		return 4
	}
	return 8
}

// staticAddr decodes a DW_OP_addr location expression. It returns false for
// every other expression form.
func staticAddr(expr []byte, addrSize int) (uint64, bool) {
	const opAddr = 0x03
	if len(expr) != 1+addrSize || expr[0] != opAddr {
		return 0, false
	}
	switch addrSize {
	case 4:
		return uint64(binary.LittleEndian.Uint32(expr[1:])), true
	case 8:
		return binary.LittleEndian.Uint64(expr[1:]), true
	}
	return 0, false
}
