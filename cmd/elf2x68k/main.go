// Command elf2x68k converts a relinked m68k ELF object (linked with
// relocations preserved) into a Human68k X-file executable.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/xyproto/hudson68k/internal/xobj"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [-s] [-v] input output\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "  -s  Include symbol table\n")
	fmt.Fprintf(os.Stderr, "  -v  Verbose (trace sections and relocations)\n")
}

func main() {
	includeSymbols := flag.Bool("s", false, "include symbol table")
	verbose := flag.Bool("v", false, "verbose per-section/per-relocation tracing")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 2 {
		usage()
		os.Exit(1)
	}

	input, output := flag.Arg(0), flag.Arg(1)
	err := xobj.Convert(input, output, xobj.Options{
		IncludeSymbols: *includeSymbols,
		Verbose:        *verbose,
		Diagnostics:    os.Stderr,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", os.Args[0], err)
		os.Exit(1)
	}
}
