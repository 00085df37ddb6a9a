package xobj

import (
	"debug/elf"
	"fmt"
	"sort"
)

// TransformSymbols walks f's symbol table and rewrites it into the
// X-file symbol format per spec §4.4: every named symbol whose section
// resolves to text/data/bss and whose type is neither file nor section
// survives, sorted by (section ascending, value ascending).
func TransformSymbols(f *elf.File, cls *Classification) ([]XSymbol, error) {
	elfSyms, err := f.Symbols()
	if err != nil {
		return nil, fmt.Errorf("%w: reading symbol table: %v", ErrInvalidInput, err)
	}

	var out []XSymbol
	for _, sym := range elfSyms {
		if sym.Name == "" {
			continue
		}

		shndx := int(sym.Section)
		if shndx <= 0 || shndx >= len(cls.Class) {
			continue
		}

		class := cls.Class[shndx]
		if class == ClassNone {
			continue
		}

		typ := elf.ST_TYPE(sym.Info)
		if typ == elf.STT_FILE || typ == elf.STT_SECTION {
			continue
		}

		location := XSymLocal
		if elf.ST_BIND(sym.Info) == elf.STB_GLOBAL {
			location = XSymExternal
		}

		out = append(out, XSymbol{
			Location: location,
			Section:  classToXSec(class),
			Value:    uint32(sym.Value),
			Name:     sym.Name,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Section != out[j].Section {
			return out[i].Section < out[j].Section
		}
		return out[i].Value < out[j].Value
	})

	return out, nil
}

// EncodeXSymbols serializes the symbol table per spec §4.4/§6: each
// record is {location u8, section u8, value u32 BE, name bytes, NUL
// padding to the smallest even length strictly greater than len(name)}.
func EncodeXSymbols(syms []XSymbol) []byte {
	var out []byte
	for _, s := range syms {
		out = append(out, s.Location, s.Section,
			byte(s.Value>>24), byte(s.Value>>16), byte(s.Value>>8), byte(s.Value))

		name := []byte(s.Name)
		out = append(out, name...)

		padded := (len(name) + 2) &^ 1
		for i := len(name); i < padded; i++ {
			out = append(out, 0)
		}
	}
	return out
}
