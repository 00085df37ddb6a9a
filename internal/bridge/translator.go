package bridge

import (
	"fmt"
	"strings"
)

// Handler processes one client packet's payload and returns the reply
// to send back, plus whether the session loop should terminate after
// sending it.
type Handler func(sess *Session, data string) (reply string, terminate bool)

var handlers = map[byte]Handler{
	'?': handleHaltReason,
	'g': handleReadRegs,
	'G': handleWriteRegs,
	'p': handleReadReg,
	'P': handleWriteReg,
	'm': handleReadMem,
	'M': handleWriteMem,
	'c': handleContinue,
	's': handleStep,
	'Z': handleSetBreakpoint,
	'z': handleClearBreakpoint,
	'q': handleQuery,
	'H': handleSetThread,
	'D': handleDetach,
}

// RunSession is the per-client loop: read one packet, dispatch it,
// write the reply, repeat until the handler signals termination or a
// read fails. Because this loop never spawns a goroutine, client
// packets are necessarily processed in strict receipt order and the
// reply for packet N is always written before packet N+1 is read.
func RunSession(sess *Session) error {
	for {
		payload, isBreak, err := ReadPacket(sess.clientR, sess.Client)
		if err != nil {
			return err
		}

		if isBreak {
			if err := WritePacket(sess.Client, []byte("S05")); err != nil {
				return err
			}
			continue
		}

		if len(payload) == 0 {
			if err := WritePacket(sess.Client, nil); err != nil {
				return err
			}
			continue
		}

		cmd := payload[0]
		data := string(payload[1:])

		// 'k' (kill) sends no reply at all, matching the original's
		// dispatch loop — every other terminating command (e.g. 'D')
		// replies before the session ends.
		if cmd == 'k' {
			sess.ClearAllBreakpoints()
			return nil
		}

		h, ok := handlers[cmd]
		if !ok {
			// An unrecognized command letter is an ErrProtocolViolation:
			// traced when verbose, but replied to with an empty packet
			// (GDB's "unsupported" convention) rather than torn down.
			if sess.Verbose {
				fmt.Fprintf(sess.trace, "%v: unrecognized command %q\n", ErrProtocolViolation, cmd)
			}
			if err := WritePacket(sess.Client, nil); err != nil {
				return err
			}
			continue
		}

		reply, terminate := h(sess, data)
		if err := WritePacket(sess.Client, []byte(reply)); err != nil {
			return err
		}
		if terminate {
			return nil
		}
	}
}

func handleHaltReason(sess *Session, data string) (string, bool) {
	return "S05", false
}

func handleReadRegs(sess *Session, data string) (string, bool) {
	if !sess.Regs.Valid {
		if err := sess.FetchRegs(); err != nil {
			return "", false
		}
	}
	var b strings.Builder
	for i := 0; i < NumRegs; i++ {
		b.WriteString(u32ToHexBE(sess.Regs.Values[i]))
	}
	return b.String(), false
}

func handleWriteRegs(sess *Session, data string) (string, bool) {
	if !sess.Regs.Valid {
		if err := sess.FetchRegs(); err != nil {
			return "E01", false
		}
	}
	for i := 0; i < NumRegs; i++ {
		off := i * 8
		if off+8 > len(data) {
			break
		}
		val := decodeBEHex(data[off : off+8])
		if val != sess.Regs.Values[i] {
			if err := sess.StoreReg(i, val); err != nil {
				return "E01", false
			}
		}
	}
	return "OK", false
}

func handleReadReg(sess *Session, data string) (string, bool) {
	regNum := int(hexToU32(data))
	if regNum >= NumRegs {
		// Satisfies clients querying floating-point registers we don't model.
		return "00000000", false
	}
	if !sess.Regs.Valid {
		if err := sess.FetchRegs(); err != nil {
			return "E01", false
		}
	}
	return u32ToHexBE(sess.Regs.Values[regNum]), false
}

func handleWriteReg(sess *Session, data string) (string, bool) {
	eq := strings.IndexByte(data, '=')
	if eq < 0 {
		return "E01", false
	}
	regNum := int(hexToU32(data[:eq]))
	if regNum >= NumRegs {
		return "E01", false
	}
	val := decodeBEHex(data[eq+1:])
	if err := sess.StoreReg(regNum, val); err != nil {
		return "E01", false
	}
	return "OK", false
}

func handleReadMem(sess *Session, data string) (string, bool) {
	comma := strings.IndexByte(data, ',')
	if comma < 0 {
		return "E01", false
	}
	addr := hexToU32(data[:comma])
	length := int(hexToU32(data[comma+1:]))
	if length > (MaxPacketSize-1)/2 {
		length = (MaxPacketSize - 1) / 2
	}

	mem, err := sess.ReadMem(addr, length)
	if err != nil {
		return "E01", false
	}
	return encodeHex(mem), false
}

func handleWriteMem(sess *Session, data string) (string, bool) {
	comma := strings.IndexByte(data, ',')
	colon := strings.IndexByte(data, ':')
	if comma < 0 || colon < 0 {
		return "E01", false
	}
	addr := hexToU32(data[:comma])
	length := int(hexToU32(data[comma+1 : colon]))

	mem := decodeHex(data[colon+1:], length)
	if err := sess.WriteMem(addr, mem); err != nil {
		return "E01", false
	}
	return "OK", false
}

func handleContinue(sess *Session, data string) (string, bool) {
	addr := resumeAddr(sess, data)
	sess.Continue(addr)
	return "S05", false
}

func handleStep(sess *Session, data string) (string, bool) {
	addr := resumeAddr(sess, data)
	sess.Step(addr)
	return "S05", false
}

func resumeAddr(sess *Session, data string) uint32 {
	if data != "" {
		return hexToU32(data)
	}
	if !sess.Regs.Valid {
		sess.FetchRegs()
	}
	return sess.Regs.Values[RegPC]
}

func handleSetBreakpoint(sess *Session, data string) (string, bool) {
	// Only software breakpoints (type 0) are supported; other Z-types are
	// an ErrUnsupportedOperation, traced when verbose and replied to
	// empty per the protocol's "unsupported" convention.
	if len(data) == 0 || data[0] != '0' {
		if sess.Verbose {
			fmt.Fprintf(sess.trace, "%v: breakpoint type %q\n", ErrUnsupportedOperation, data)
		}
		return "", false
	}
	comma := strings.IndexByte(data, ',')
	if comma < 0 {
		return "E01", false
	}
	rest := data[comma+1:]
	addr := hexToU32(rest)

	err := sess.SetBreakpoint(addr)
	if err != nil {
		fmt.Fprintf(sess.trace, "Warning: breakpoint at 0x%x: %v\n", addr, err)
	}
	if err != nil && sess.StrictBreakpoints {
		return "E01", false
	}
	// Matches source behavior: a failed breakpoint-set (no free slot)
	// still replies OK to the client unless StrictBreakpoints is on.
	return "OK", false
}

func handleClearBreakpoint(sess *Session, data string) (string, bool) {
	if len(data) == 0 || data[0] != '0' {
		if sess.Verbose {
			fmt.Fprintf(sess.trace, "%v: breakpoint type %q\n", ErrUnsupportedOperation, data)
		}
		return "", false
	}
	comma := strings.IndexByte(data, ',')
	if comma < 0 {
		return "E01", false
	}
	addr := hexToU32(data[comma+1:])
	sess.ClearBreakpoint(addr)
	return "OK", false
}

func handleQuery(sess *Session, data string) (string, bool) {
	switch {
	case strings.HasPrefix(data, "Supported"):
		return fmt.Sprintf("PacketSize=%d", MaxPacketSize), false
	case data == "Attached":
		return "1", false
	case data == "fThreadInfo":
		return "m1", false
	case data == "sThreadInfo":
		return "l", false
	case data == "C":
		return "QC1", false
	case strings.HasPrefix(data, "Offsets"):
		return "Text=0;Data=0;Bss=0", false
	default:
		return "", false
	}
}

func handleSetThread(sess *Session, data string) (string, bool) {
	return "OK", false
}

func handleDetach(sess *Session, data string) (string, bool) {
	sess.ClearAllBreakpoints()
	return "OK", true
}

// decodeBEHex parses up to 8 leading hex chars of s as 4 big-endian
// bytes, tolerant of a short or malformed tail the same way the
// original's hexDecode is (stops at the first non-hex-pair).
func decodeBEHex(s string) uint32 {
	b := decodeHex(s, 4)
	var v uint32
	for _, x := range b {
		v = v<<8 | uint32(x)
	}
	return v
}
