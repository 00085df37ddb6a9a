package xobj

import (
	"debug/elf"
	"fmt"
	"os"
)

// Image is the loaded, validated input object. It wraps the standard
// library's ELF reader rather than re-implementing section/symbol
// parsing — debug/elf already exposes every generic field this
// converter needs (section headers, symbols, SHN_ABS) regardless of
// target machine.
type Image struct {
	File *elf.File
}

// LoadImage reads path, opens it as an ELF object, and validates the
// magic/class/endianness/machine constraints from spec §6: ELF class 1
// (32-bit), data encoding MSB (big-endian), machine identifier 4 (m68k).
func LoadImage(path string) (*Image, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrInvalidInput, path, err)
	}

	f, err := elf.NewFile(newByteReaderAt(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: not a valid ELF file: %v", ErrInvalidInput, path, err)
	}

	if f.Class != elf.ELFCLASS32 {
		return nil, fmt.Errorf("%w: %s: expected ELFCLASS32, got %s", ErrInvalidInput, path, f.Class)
	}
	if f.Data != elf.ELFDATA2MSB {
		return nil, fmt.Errorf("%w: %s: expected big-endian (ELFDATA2MSB), got %s", ErrInvalidInput, path, f.Data)
	}
	if f.Machine != elf.EM_68K {
		return nil, fmt.Errorf("%w: %s: expected EM_68K machine, got %s", ErrInvalidInput, path, f.Machine)
	}
	if len(f.Sections) == 0 {
		return nil, fmt.Errorf("%w: %s: no section headers", ErrInvalidInput, path)
	}

	return &Image{File: f}, nil
}

// byteReaderAt adapts an in-memory byte slice to io.ReaderAt so elf.NewFile
// can parse it without a temporary file.
type byteReaderAt struct {
	b []byte
}

func newByteReaderAt(b []byte) *byteReaderAt {
	return &byteReaderAt{b: b}
}

func (r *byteReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off > int64(len(r.b)) {
		return 0, fmt.Errorf("%w: offset %d out of range (len %d)", ErrInvalidInput, off, len(r.b))
	}
	n := copy(p, r.b[off:])
	if n < len(p) {
		return n, fmt.Errorf("%w: short read at offset %d", ErrInvalidInput, off)
	}
	return n, nil
}
