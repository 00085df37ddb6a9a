package xobj

import (
	"debug/elf"
	"fmt"
)

// Classification is the per-section classification plus the merged
// address range of each class, per spec §4.1. Class is indexed by ELF
// section index (len(Class) == len(f.Sections)).
type Classification struct {
	Class []Class

	TextStart, TextEnd uint32
	DataStart, DataEnd uint32
	BSSStart, BSSEnd   uint32
}

// HasData reports whether any section classified as data.
func (c *Classification) HasData() bool { return c.DataEnd > c.DataStart }

// HasBSS reports whether any section classified as bss.
func (c *Classification) HasBSS() bool { return c.BSSEnd > c.BSSStart }

// TextSize, DataSize, BSSSize return the byte length of each class's
// merged address range.
func (c *Classification) TextSize() uint32 { return c.TextEnd - c.TextStart }
func (c *Classification) DataSize() uint32 {
	if !c.HasData() {
		return 0
	}
	return c.DataEnd - c.DataStart
}
func (c *Classification) BSSSize() uint32 {
	if !c.HasBSS() {
		return 0
	}
	return c.BSSEnd - c.BSSStart
}

// Classify walks f's section header table and classifies every
// allocated, non-zero-size section as text, data, or bss per spec §4.1:
//
//   - zero-initialised + allocated -> bss
//   - allocated + executable + content-bearing -> text
//   - allocated + content-bearing, anything else (rodata, eh_frame,
//     ctors/dtors, ...) -> data
//
// Ranges are merged by address, not by file order, so multiple sections
// per class are accepted and folded into one [start, end) interval.
func Classify(f *elf.File) (*Classification, error) {
	cls := &Classification{
		Class:     make([]Class, len(f.Sections)),
		TextStart: ^uint32(0), DataStart: ^uint32(0), BSSStart: ^uint32(0),
	}

	for i, sh := range f.Sections {
		if sh.Flags&elf.SHF_ALLOC == 0 {
			continue
		}
		if sh.Size == 0 {
			continue
		}

		addr := uint32(sh.Addr)
		size := uint32(sh.Size)

		switch {
		case sh.Type == elf.SHT_NOBITS:
			cls.Class[i] = ClassBSS
			if addr < cls.BSSStart {
				cls.BSSStart = addr
			}
			if addr+size > cls.BSSEnd {
				cls.BSSEnd = addr + size
			}
		case sh.Flags&elf.SHF_EXECINSTR != 0:
			cls.Class[i] = ClassText
			if addr < cls.TextStart {
				cls.TextStart = addr
			}
			if addr+size > cls.TextEnd {
				cls.TextEnd = addr + size
			}
		default:
			cls.Class[i] = ClassData
			if addr < cls.DataStart {
				cls.DataStart = addr
			}
			if addr+size > cls.DataEnd {
				cls.DataEnd = addr + size
			}
		}
	}

	if cls.TextStart == ^uint32(0) {
		return nil, fmt.Errorf("%w", ErrUnlinkableInput)
	}

	return cls, nil
}
