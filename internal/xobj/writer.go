package xobj

import (
	"fmt"
	"io"
)

const headerSize = 0x40

// magic "HU" identifies a Human68k X-file.
var magic = [2]byte{0x48, 0x55}

// Write emits a complete X-file per spec §4.5/§6: a fixed 64-byte header
// (magic, entry point, text/data/bss/reloc/symbol sizes, rest zero)
// followed by text, data, the relocation stream, and the optional symbol
// records, in that order. Any short write is reported as ErrWriteFailed.
func Write(w io.Writer, img *OutputImage, entry uint32, bssSize uint32, relocStream, symStream []byte) error {
	header := make([]byte, headerSize)
	header[0], header[1] = magic[0], magic[1]
	putBE32(header[8:12], entry)
	putBE32(header[12:16], uint32(img.TextLen))
	putBE32(header[16:20], uint32(img.DataLen))
	putBE32(header[20:24], bssSize)
	putBE32(header[24:28], uint32(len(relocStream)))
	putBE32(header[28:32], uint32(len(symStream)))

	if err := writeAll(w, header); err != nil {
		return err
	}
	if err := writeAll(w, img.Bytes[:img.TextLen]); err != nil {
		return err
	}
	if img.DataLen > 0 {
		if err := writeAll(w, img.Bytes[img.TextLen:img.TextLen+img.DataLen]); err != nil {
			return err
		}
	}
	if len(relocStream) > 0 {
		if err := writeAll(w, relocStream); err != nil {
			return err
		}
	}
	if len(symStream) > 0 {
		if err := writeAll(w, symStream); err != nil {
			return err
		}
	}
	return nil
}

func writeAll(w io.Writer, p []byte) error {
	n, err := w.Write(p)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	if n != len(p) {
		return fmt.Errorf("%w: short write (%d of %d bytes)", ErrWriteFailed, n, len(p))
	}
	return nil
}

func putBE32(b []byte, v uint32) {
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
}
