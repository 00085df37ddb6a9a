package bridge

import (
	"bytes"
	"strings"
	"sync"
)

// scriptedTarget is a fake HudsonBug target: each Write is treated as one
// command line, and its reply (if scripted) is queued for the following
// Reads. Commands with no scripted reply just echo a bare prompt, which
// is enough for the many handlers that only wait for the prompt to
// return and never inspect the dump.
type scriptedTarget struct {
	mu       sync.Mutex
	prompt   byte
	replies  map[string]string // command (without trailing \r) -> reply body, prompt appended automatically
	sent     []string
	pending  bytes.Buffer
}

func newScriptedTarget(prompt byte) *scriptedTarget {
	return &scriptedTarget{prompt: prompt, replies: map[string]string{}}
}

func (t *scriptedTarget) on(cmd, reply string) {
	t.replies[cmd] = reply
}

func (t *scriptedTarget) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cmd := strings.TrimRight(string(p), "\r")
	t.sent = append(t.sent, cmd)

	reply, ok := t.replies[cmd]
	if !ok {
		reply = ""
	}
	t.pending.WriteString(reply)
	t.pending.WriteByte(t.prompt)
	return len(p), nil
}

func (t *scriptedTarget) Read(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending.Read(p)
}

func (t *scriptedTarget) commandsSent() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.sent))
	copy(out, t.sent)
	return out
}
