package bridge

import (
	"fmt"
	"io"
)

// traceSend writes one outbound command line to the trace sink, escaping
// control bytes as \xHH, matching the original targetSend's verbose
// dump ("-> target: ..." followed by a newline).
func traceSend(w io.Writer, data []byte) {
	fmt.Fprint(w, "-> target: ")
	for _, b := range data {
		if b < 0x20 {
			fmt.Fprintf(w, "\\x%02x", b)
		} else {
			fmt.Fprintf(w, "%c", b)
		}
	}
	fmt.Fprint(w, "\n")
}

// tracePromptByte writes one inbound byte observed while waiting for the
// prompt. Printable bytes and '\n' pass through literally; '\r' is
// suppressed entirely (not even escaped); every other control byte is
// rendered as \xHH. This mirrors the original targetWaitPrompt's verbose
// loop exactly, including the CR-is-invisible nuance.
func tracePromptByte(w io.Writer, c byte) {
	switch {
	case c >= 0x20 || c == '\n':
		fmt.Fprintf(w, "%c", c)
	case c == '\r':
		// deliberately silent
	default:
		fmt.Fprintf(w, "\\x%02x", c)
	}
}

// traceDelimByte writes one inbound byte observed while waiting for a
// single delimiter (e.g. the '=' prompt of an interactive register
// set). Only printable bytes are shown; everything else is dropped
// with no escape, matching the original targetWaitDelim's simpler trace.
func traceDelimByte(w io.Writer, c byte) {
	if c >= 0x20 {
		fmt.Fprintf(w, "%c", c)
	}
}
