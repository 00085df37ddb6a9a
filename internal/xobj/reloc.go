package xobj

import (
	"debug/elf"
	"fmt"
	"sort"
)

const (
	rela32EntSize = 12 // r_offset(4) + r_info(4) + r_addend(4)
	sym32EntSize  = 16 // st_name(4) st_value(4) st_size(4) st_info(1) st_other(1) st_shndx(2)
)

// Harvest scans every SHT_RELA section whose sh_info names a text- or
// data-classified section, keeping only R_68K_32 entries whose referent
// is not the SHN_ABS pseudo-section, per spec §4.3 step 1. The returned
// slice is sorted ascending but not yet deduplicated — EncodeDeltas does
// that as part of delta encoding.
//
// debug/elf has no generic RELA decoder for m68k, so relocation and
// symbol-table entries are decoded by hand from each section's raw bytes
// using the file's own byte order.
func Harvest(f *elf.File, cls *Classification) ([]AbsoluteReloc, error) {
	var out []AbsoluteReloc

	for _, sh := range f.Sections {
		if sh.Type != elf.SHT_RELA {
			continue
		}
		if int(sh.Info) >= len(cls.Class) {
			continue
		}
		targetClass := cls.Class[sh.Info]
		if targetClass != ClassText && targetClass != ClassData {
			continue
		}

		relaData, err := sh.Data()
		if err != nil {
			return nil, fmt.Errorf("%w: reading relocation section %q: %v", ErrInvalidInput, sh.Name, err)
		}

		var symData []byte
		if int(sh.Link) < len(f.Sections) {
			symData, err = f.Sections[sh.Link].Data()
			if err != nil {
				return nil, fmt.Errorf("%w: reading symbol table for %q: %v", ErrInvalidInput, sh.Name, err)
			}
		}

		entries := len(relaData) / rela32EntSize
		for j := 0; j < entries; j++ {
			rec := relaData[j*rela32EntSize:]
			rInfo := f.ByteOrder.Uint32(rec[4:8])
			rOffset := f.ByteOrder.Uint32(rec[0:4])

			if elf32RType(rInfo) != R68K32 {
				continue
			}

			if symData != nil {
				symIdx := elf32RSym(rInfo)
				shndx, ok := symShndx(symData, symIdx, f.ByteOrder)
				if ok && shndx == uint16(elf.SHN_ABS) {
					continue
				}
			}

			var absOffset uint32
			if targetClass == ClassText {
				absOffset = rOffset - cls.TextStart
			} else {
				absOffset = cls.TextSize() + (rOffset - cls.DataStart)
			}
			out = append(out, AbsoluteReloc(absOffset))
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func elf32RType(info uint32) uint32 { return info & 0xff }
func elf32RSym(info uint32) uint32  { return info >> 8 }

// symShndx reads the st_shndx field of the idx'th entry of a raw symbol
// table. Returns ok=false if idx falls outside the table (a malformed
// relocation referent, treated as "not absolute" so the caller keeps the
// relocation rather than silently dropping it).
func symShndx(symData []byte, idx uint32, order byteOrder) (uint16, bool) {
	off := int(idx) * sym32EntSize
	if off < 0 || off+sym32EntSize > len(symData) {
		return 0, false
	}
	return order.Uint16(symData[off+14 : off+16]), true
}

// byteOrder is the subset of encoding/binary.ByteOrder this package needs;
// satisfied directly by elf.File.ByteOrder.
type byteOrder interface {
	Uint16([]byte) uint16
	Uint32([]byte) uint32
}

// EncodeDeltas implements the delta encoder of spec §4.3/§4.5: sorted,
// ascending offsets become a stream of 16-bit big-endian deltas, with an
// explicit 0x0001-marker + absolute-32-bit-offset long form for any delta
// exceeding the 16-bit short-form range. This is the corrected form
// mandated by spec §4.3 (REDESIGN FLAG / Open Question 2) — not the
// original tool's `delta & 0x10000` test, which truncates silently for
// deltas like 0x20000 whose high word happens to be even.
//
// Duplicate offsets (delta == 0, i.e. the same offset harvested twice)
// are dropped; dropped returns how many were dropped so the caller can
// log a diagnostic per spec §7 ("Warning: duplicate reloc offset").
func EncodeDeltas(sorted []AbsoluteReloc) (stream []byte, dropped int) {
	var prev uint32
	for i, o := range sorted {
		offset := uint32(o)
		if i > 0 && offset == prev {
			dropped++
			continue
		}
		delta := offset - prev

		if delta <= 0xFFFE {
			stream = append(stream, byte(delta>>8), byte(delta))
		} else {
			stream = append(stream, 0x00, 0x01)
			stream = append(stream,
				byte(offset>>24), byte(offset>>16), byte(offset>>8), byte(offset))
		}
		prev = offset
	}
	return stream, dropped
}

// DecodeDeltas is the inverse of EncodeDeltas, used by the round-trip
// tests in spec §8 property 3/4. The on-device loader never needs this —
// it only consumes the stream — but it is cheap to provide and makes the
// encoding directly testable.
func DecodeDeltas(data []byte) ([]AbsoluteReloc, error) {
	var out []AbsoluteReloc
	var prev uint32
	pos := 0
	for pos < len(data) {
		if pos+2 > len(data) {
			return nil, fmt.Errorf("%w: truncated delta word at offset %d", ErrInvalidInput, pos)
		}
		word := uint16(data[pos])<<8 | uint16(data[pos+1])
		pos += 2

		if word&1 == 0 {
			prev += uint32(word)
		} else {
			if pos+4 > len(data) {
				return nil, fmt.Errorf("%w: truncated absolute offset at %d", ErrInvalidInput, pos)
			}
			prev = uint32(data[pos])<<24 | uint32(data[pos+1])<<16 | uint32(data[pos+2])<<8 | uint32(data[pos+3])
			pos += 4
		}
		out = append(out, AbsoluteReloc(prev))
	}
	return out, nil
}
