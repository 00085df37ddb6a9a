// Package bridge translates the GDB Remote Serial Protocol spoken by a
// debugger client into the line-oriented HudsonBug dialect spoken by
// DB.X, the on-device debugger for Human68k targets.
package bridge

import "errors"

var (
	// ErrIOFailure wraps any read/write/short-read against the target
	// transport or the client socket.
	ErrIOFailure = errors.New("i/o failure")

	// ErrTargetUnresponsive means the startup sync never saw a prompt.
	ErrTargetUnresponsive = errors.New("target unresponsive")

	// ErrNoFreeSlot means all ten breakpoint slots are in use.
	ErrNoFreeSlot = errors.New("no free breakpoint slots")

	// ErrSlotNotFound means ClearBreakpoint was asked to clear an address
	// with no active slot.
	ErrSlotNotFound = errors.New("breakpoint not found")

	// ErrProtocolViolation classifies a malformed client packet (bad
	// checksum, unrecognized command letter): a bad checksum is NAKed by
	// ReadPacket without a trace line, an unrecognized command letter is
	// logged to the verbose trace and empty-replied, and neither is ever
	// returned to RunSession's caller — a malformed packet is not a
	// reason to tear down the session.
	ErrProtocolViolation = errors.New("protocol violation")

	// ErrUnsupportedOperation means the client asked for something this
	// bridge deliberately doesn't implement, e.g. a non-software
	// breakpoint type (Z1-Z4).
	ErrUnsupportedOperation = errors.New("unsupported operation")
)
