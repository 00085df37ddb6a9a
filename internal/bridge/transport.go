package bridge

import (
	"fmt"
	"io"
	"net"
	"os"
	"strings"

	"golang.org/x/sys/unix"
)

// OpenSerial opens device as the target transport at 9600 8N1, no flow
// control, raw mode, one-byte read granularity — the configuration
// DB.X expects on a real serial line. Mirrors the original tool's
// termios setup via golang.org/x/sys/unix rather than a C-style
// direct ioctl, the same dependency the teacher already uses for its
// own low-level platform calls.
func OpenSerial(device string) (*os.File, error) {
	f, err := os.OpenFile(device, os.O_RDWR|unix.O_NOCTTY, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", ErrIOFailure, device, err)
	}

	fd := int(f.Fd())
	t, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: tcgetattr %s: %v", ErrIOFailure, device, err)
	}

	// TCGETS/TCSETS hand the raw kernel struct termios to the ioctl, which
	// has no ispeed/ospeed fields (those only exist on the Go-side struct
	// and on termios2/TCSETS2) — the baud has to be encoded as a CBAUD bit
	// in Cflag itself, same as golang.org/x/sys/unix's own B9600 constant
	// is meant to be used.
	t.Cflag = unix.B9600 | unix.CS8 | unix.CREAD | unix.CLOCAL
	t.Iflag = unix.IGNPAR
	t.Oflag = 0
	t.Lflag = 0
	t.Cc[unix.VMIN] = 1
	t.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(fd, unix.TCSETS, t); err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: tcsetattr %s: %v", ErrIOFailure, device, err)
	}
	if err := unix.IoctlTcflush(fd, unix.TCIOFLUSH); err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: tcflush %s: %v", ErrIOFailure, device, err)
	}

	return f, nil
}

// DialTCP connects to hostport as the target transport, disabling
// Nagle so single-byte command writes reach DB.X promptly.
func DialTCP(hostport string) (net.Conn, error) {
	conn, err := net.Dial("tcp", hostport)
	if err != nil {
		return nil, fmt.Errorf("%w: dialing %s: %v", ErrIOFailure, hostport, err)
	}
	if tc, ok := conn.(*net.TCPConn); ok {
		tc.SetNoDelay(true)
	}
	return conn, nil
}

// ListenTCPOnce opens a listener on port, accepts exactly one inbound
// connection (the target side, when an emulator exposes its serial
// line as an outbound socket), then closes the listener.
func ListenTCPOnce(port int) (net.Conn, error) {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, fmt.Errorf("%w: listening on port %d: %v", ErrIOFailure, port, err)
	}
	defer ln.Close()

	conn, err := ln.Accept()
	if err != nil {
		return nil, fmt.Errorf("%w: accepting target connection: %v", ErrIOFailure, err)
	}
	if tc, ok := conn.(*net.TCPConn); ok {
		tc.SetNoDelay(true)
	}
	return conn, nil
}

// OpenTarget dispatches on whether target parses as host:port or a bare
// serial device path. Uses net.SplitHostPort rather than the original's
// raw strrchr(':') scan, which also handles bracketed IPv6 forms — a
// natural Go-idiomatic improvement over the C tool's colon heuristic.
func OpenTarget(target string) (io.ReadWriteCloser, error) {
	if _, _, err := net.SplitHostPort(target); err == nil {
		return DialTCP(target)
	}
	if strings.Contains(target, ":") {
		return DialTCP(target)
	}
	return OpenSerial(target)
}
