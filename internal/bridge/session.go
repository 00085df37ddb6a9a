package bridge

import (
	"bufio"
	"io"
	"net"
)

// NumRegs is the register vector width: D0-7, A0-7, SR, PC.
const NumRegs = 18

// MaxBreakpoints is the number of numbered HudsonBug breakpoint slots.
const MaxBreakpoints = 10

// RegNames mirrors the target's own register names, in GDB's m68k order.
var RegNames = [NumRegs]string{
	"d0", "d1", "d2", "d3", "d4", "d5", "d6", "d7",
	"a0", "a1", "a2", "a3", "a4", "a5", "a6", "a7",
	"sr", "pc",
}

// Register index constants for the two regs the translator references by
// name rather than by loop index.
const (
	RegSR = 16
	RegPC = 17
)

// Registers is the cached snapshot of all 18 target registers. Valid is
// false immediately after a Continue/Step/connect, forcing the next read
// to refetch from the target rather than serve a stale cache.
type Registers struct {
	Values [NumRegs]uint32
	Valid  bool
}

// BreakpointSlot is one of DB.X's ten numbered breakpoint slots (it has
// no notion of a breakpoint table keyed by address).
type BreakpointSlot struct {
	Addr   uint32
	Active bool
}

// SlotTable is the fixed slot array, indexed 0-9.
type SlotTable [MaxBreakpoints]BreakpointSlot

// FreeSlot returns the index of the first inactive slot, or -1 if all
// ten are occupied.
func (t *SlotTable) FreeSlot() int {
	for i := range t {
		if !t[i].Active {
			return i
		}
	}
	return -1
}

// FindByAddr returns the index of the active slot at addr, or -1.
func (t *SlotTable) FindByAddr(addr uint32) int {
	for i := range t {
		if t[i].Active && t[i].Addr == addr {
			return i
		}
	}
	return -1
}

// ClearAll deactivates every slot in the local table without sending
// anything to the target (ClearAllBreakpoints is the kill/detach path).
func (t *SlotTable) ClearAll() {
	for i := range t {
		t[i] = BreakpointSlot{}
	}
}

// Session holds everything scoped to one GDB client connection: the
// shared target transport (reused across connections), the per-client
// socket, and the per-client register cache and breakpoint table.
//
// Prompt and Verbose are immutable fields threaded through every target
// call rather than package-level globals, so a Session is safe to build
// fresh per test without mutating shared state.
type Session struct {
	Target io.ReadWriter
	Client net.Conn

	Regs  Registers
	Slots SlotTable

	Prompt  byte
	Verbose bool

	// StrictBreakpoints makes the translator reply E01 when SetBreakpoint
	// fails (e.g. ErrNoFreeSlot because every slot is occupied) instead
	// of replying OK.
	StrictBreakpoints bool

	trace io.Writer // verbose trace sink, defaults to io.Discard

	targetR *bufio.Reader
	clientR *bufio.Reader
}

// NewSession builds a Session over an already-open target transport.
// trace receives the escaped protocol trace when verbose is true, and
// warnings such as a failed breakpoint set in any mode; pass nil to
// discard it. client may be nil in tests that drive the target
// dialect directly without a client socket.
func NewSession(target io.ReadWriter, client net.Conn, prompt byte, verbose bool, trace io.Writer) *Session {
	if trace == nil {
		trace = io.Discard
	}
	s := &Session{
		Target:  target,
		Client:  client,
		Prompt:  prompt,
		Verbose: verbose,
		trace:   trace,
		targetR: bufio.NewReader(target),
	}
	if client != nil {
		s.clientR = bufio.NewReader(client)
	}
	return s
}
