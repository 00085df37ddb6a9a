package bridge

import "github.com/xyproto/env/v2"

// Default CLI values, each overridable by an environment variable —
// handy for wrapping hudson-bridge in a process supervisor or a MAME
// launch script where flags are awkward to thread through but env vars
// are not.
const (
	DefaultGDBPort    = 2345
	DefaultPromptChar = '-'
)

// Config holds the env-seeded defaults consumed by cmd/hudson-bridge's
// flag parsing: flags still win when explicitly passed, env vars only
// change what an omitted flag defaults to.
type Config struct {
	GDBPort    int
	PromptChar byte
	Verbose    bool
}

// LoadConfig reads HUDSON_BRIDGE_GDB_PORT, HUDSON_BRIDGE_PROMPT, and
// HUDSON_BRIDGE_VERBOSE, falling back to the documented CLI defaults.
func LoadConfig() Config {
	prompt := env.Str("HUDSON_BRIDGE_PROMPT", string(DefaultPromptChar))
	p := byte(DefaultPromptChar)
	if len(prompt) > 0 {
		p = prompt[0]
	}

	return Config{
		GDBPort:    env.Int("HUDSON_BRIDGE_GDB_PORT", DefaultGDBPort),
		PromptChar: p,
		Verbose:    env.Bool("HUDSON_BRIDGE_VERBOSE", false),
	}
}
