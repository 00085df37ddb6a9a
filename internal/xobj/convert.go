package xobj

import (
	"fmt"
	"io"
	"os"
)

// VerboseMode gates the per-section/per-relocation tracing that Convert
// writes to its diagnostics writer, mirroring the teacher's package-level
// VerboseMode switch checked before every optional diagnostic. Convert
// sets it from Options.Verbose on every call; the final summary line
// Convert writes is unconditional regardless of VerboseMode.
var VerboseMode = false

// Options controls one conversion run.
type Options struct {
	IncludeSymbols bool
	Verbose        bool
	Diagnostics    io.Writer // defaults to os.Stderr when nil
}

// Convert runs the full C1 pipeline of spec §2 over inputPath and writes
// the resulting X-file to outputPath: load+validate, classify sections,
// assemble the image, harvest+delta-encode relocations, optionally
// transform the symbol table, and write the header+body.
func Convert(inputPath, outputPath string, opts Options) (err error) {
	diag := opts.Diagnostics
	if diag == nil {
		diag = os.Stderr
	}
	VerboseMode = opts.Verbose

	img, err := LoadImage(inputPath)
	if err != nil {
		return err
	}

	cls, err := Classify(img.File)
	if err != nil {
		return err
	}

	if VerboseMode {
		fmt.Fprintf(diag, "Text: 0x%08x - 0x%08x (%d bytes)\n", cls.TextStart, cls.TextEnd, cls.TextSize())
		if cls.HasData() {
			fmt.Fprintf(diag, "Data: 0x%08x - 0x%08x (%d bytes)\n", cls.DataStart, cls.DataEnd, cls.DataSize())
		}
		if cls.HasBSS() {
			fmt.Fprintf(diag, "BSS:  0x%08x - 0x%08x (%d bytes)\n", cls.BSSStart, cls.BSSEnd, cls.BSSSize())
		}
		fmt.Fprintf(diag, "Entry: 0x%08x\n", img.File.Entry)
	}

	output, err := Assemble(img.File, cls)
	if err != nil {
		return err
	}

	relocs, err := Harvest(img.File, cls)
	if err != nil {
		return err
	}
	relocStream, dropped := EncodeDeltas(relocs)
	if dropped > 0 {
		fmt.Fprintf(diag, "Warning: dropped %d duplicate relocation offset(s)\n", dropped)
	}
	if VerboseMode {
		fmt.Fprintf(diag, "Relocations: %d (%d bytes)\n", len(relocs)-dropped, len(relocStream))
	}

	var symStream []byte
	if opts.IncludeSymbols {
		syms, err := TransformSymbols(img.File, cls)
		if err != nil {
			return err
		}
		symStream = EncodeXSymbols(syms)
		if VerboseMode {
			fmt.Fprintf(diag, "Symbols: %d (%d bytes)\n", len(syms), len(symStream))
		}
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("%w: creating %s: %v", ErrWriteFailed, outputPath, err)
	}
	defer out.Close()

	if err := Write(out, output, uint32(img.File.Entry), cls.BSSSize(), relocStream, symStream); err != nil {
		return err
	}

	total := headerSize + len(output.Bytes) + len(relocStream) + len(symStream)
	fmt.Fprintf(diag, "Written %s: %d bytes (header=%d text=%d data=%d relocs=%d syms=%d)\n",
		outputPath, total, headerSize, output.TextLen, output.DataLen, len(relocStream), len(symStream))

	return nil
}
