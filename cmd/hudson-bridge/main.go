// Command hudson-bridge translates the GDB Remote Serial Protocol into
// the HudsonBug command language spoken by DB.X, the on-device debugger
// for Human68k targets.
package main

import (
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xyproto/hudson68k/internal/bridge"
)

// deadliner is implemented by *net.TCPConn and the other net.Conn types
// OpenTarget can return, and also by the *os.File returned for a plain
// serial device.
type deadliner interface {
	SetReadDeadline(t time.Time) error
}

func usage(prog string) {
	fmt.Fprintf(os.Stderr, "Usage: %s [options] <target>\n", prog)
	fmt.Fprintf(os.Stderr, "       %s [options] -l PORT\n", prog)
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  <target>  Serial device (/dev/ttyS0) or TCP host:port (localhost:1234)\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	fmt.Fprintf(os.Stderr, "  -l PORT   Listen for target connection (for MAME -bitb socket.localhost:PORT)\n")
	fmt.Fprintf(os.Stderr, "  -p PORT   GDB listen port (default 2345)\n")
	fmt.Fprintf(os.Stderr, "  -P CHAR   Prompt character: '-' for DB.X (default), '+' for ROM debugger\n")
	fmt.Fprintf(os.Stderr, "  -v        Verbose (show protocol traffic on stderr)\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "Examples:\n")
	fmt.Fprintf(os.Stderr, "  %s -l 1234 -p 2345         # listen for MAME on 1234, GDB on 2345\n", prog)
	fmt.Fprintf(os.Stderr, "  %s -p 2345 localhost:1234   # connect to target on 1234\n", prog)
	fmt.Fprintf(os.Stderr, "  %s /dev/ttyS0              # serial port, GDB on default 2345\n", prog)
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "Then: m68k-human68k-gdb hello.x -ex 'target remote :2345'\n")
}

func main() {
	cfg := bridge.LoadConfig()

	targetListenPort := flag.Int("l", 0, "listen for an inbound target connection on PORT")
	gdbPort := flag.Int("p", cfg.GDBPort, "GDB listen port")
	promptFlag := flag.String("P", string(cfg.PromptChar), "prompt character")
	verbose := flag.Bool("v", cfg.Verbose, "verbose protocol trace")
	flag.Usage = func() { usage(os.Args[0]) }
	flag.Parse()

	target := flag.Arg(0)
	if (target == "") == (*targetListenPort == 0) {
		usage(os.Args[0])
		os.Exit(1)
	}

	prompt := cfg.PromptChar
	if *promptFlag != "" {
		prompt = (*promptFlag)[0]
	}

	if err := run(target, *targetListenPort, *gdbPort, prompt, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", os.Args[0], err)
		os.Exit(1)
	}
}

// syncStartupWithRetry sends a bare CR and waits for the target's
// prompt, retrying every 3 seconds until it responds — the Go-idiomatic
// replacement for the original's raw select()+timeval loop, using
// SetReadDeadline instead of a second goroutine racing the same
// buffered reader. Targets without a SetReadDeadline method get a single
// blocking attempt instead of a retry loop. The error SetReadDeadline
// returns is ignored, so a target that rejects the deadline also waits
// in one blocking attempt.
func syncStartupWithRetry(sess *bridge.Session, target interface{}) error {
	dl, canDeadline := target.(deadliner)
	if !canDeadline {
		return sess.SyncStartup()
	}

	for {
		dl.SetReadDeadline(time.Now().Add(3 * time.Second))
		err := sess.SyncStartup()
		if err == nil {
			dl.SetReadDeadline(time.Time{})
			return nil
		}
		fmt.Fprintln(os.Stderr, "  (no response, retrying...)")
	}
}

func run(target string, targetListenPort, gdbPort int, prompt byte, verbose bool) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGPIPE)
	// Go already reports a broken-pipe write as an error rather than
	// raising SIGPIPE, so draining (and discarding) it here is enough
	// to keep a dead client from taking down the process — no
	// signal.Ignore call is needed.
	go func() {
		for range sigCh {
		}
	}()

	var targetConn interface {
		Read([]byte) (int, error)
		Write([]byte) (int, error)
		Close() error
	}
	var err error
	if targetListenPort != 0 {
		fmt.Fprintf(os.Stderr, "Waiting for target connection on port %d...\n", targetListenPort)
		targetConn, err = bridge.ListenTCPOnce(targetListenPort)
	} else {
		fmt.Fprintf(os.Stderr, "Connecting to target: %s\n", target)
		targetConn, err = bridge.OpenTarget(target)
	}
	if err != nil {
		return err
	}
	defer targetConn.Close()
	fmt.Fprintln(os.Stderr, "Connected to target")

	sync := bridge.NewSession(targetConn, nil, prompt, verbose, os.Stderr)

	fmt.Fprintf(os.Stderr, "Waiting for DB.X prompt %q...\n", string(prompt))
	if err := syncStartupWithRetry(sync, targetConn); err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr, "Got prompt, DB.X is ready")

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", gdbPort))
	if err != nil {
		return fmt.Errorf("listening for GDB clients: %w", err)
	}
	defer ln.Close()
	fmt.Fprintf(os.Stderr, "Listening for GDB on port %d\n", gdbPort)

	for {
		client, err := ln.Accept()
		if err != nil {
			return fmt.Errorf("accepting GDB client: %w", err)
		}
		if tc, ok := client.(*net.TCPConn); ok {
			tc.SetNoDelay(true)
		}
		fmt.Fprintf(os.Stderr, "GDB connected from %s\n", client.RemoteAddr())

		sess := bridge.NewSession(targetConn, client, prompt, verbose, os.Stderr)
		if err := bridge.RunSession(sess); err != nil {
			fmt.Fprintf(os.Stderr, "session ended: %v\n", err)
		}
		sess.ClearAllBreakpoints()
		client.Close()
		fmt.Fprintln(os.Stderr, "GDB disconnected, waiting for new connection...")
	}
}
