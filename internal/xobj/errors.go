// Package xobj converts a relinked m68k ELF object into a Human68k X-file
// executable: section classification, image assembly, delta-encoded
// relocations, and an optional symbol table.
package xobj

import "errors"

// Error taxonomy for the converter pipeline. Any of these abort the whole
// run with a non-zero exit from cmd/elf2x68k — there is no partial-success
// mode.
var (
	// ErrInvalidInput covers bad magic, wrong class/endianness/machine,
	// and missing section headers.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnlinkableInput means the classifier found no text section at all.
	ErrUnlinkableInput = errors.New("unlinkable input: no text section")

	// ErrOverflowingSection means a section's placement would run past
	// the end of the assembled output image — an input bug, not a tool bug.
	ErrOverflowingSection = errors.New("section placement overflows image")

	// ErrWriteFailed wraps any short write while emitting the X-file.
	ErrWriteFailed = errors.New("write failed")
)
