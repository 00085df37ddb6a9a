package bridge

import (
	"net"
	"testing"
)

func TestOpenTargetDialsTCPForHostPort(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	accepted := make(chan error, 1)
	go func() {
		conn, err := ln.Accept()
		if conn != nil {
			conn.Close()
		}
		accepted <- err
	}()

	conn, err := OpenTarget(ln.Addr().String())
	if err != nil {
		t.Fatalf("OpenTarget(%q): %v", ln.Addr().String(), err)
	}
	conn.Close()

	if err := <-accepted; err != nil {
		t.Fatalf("Accept: %v", err)
	}
}

func TestOpenTargetTreatsBarePathAsSerial(t *testing.T) {
	_, err := OpenTarget("/nonexistent/hudson68k-test-device")
	if err == nil {
		t.Fatal("expected an error opening a nonexistent serial device")
	}
}
