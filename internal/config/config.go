// Package config loads the VM's tunable resource bounds from the
// environment.
package config

import "github.com/caarlos0/env/v6"

// Config holds the VM's fixed resource bounds: a 64-frame call stack
// and a 64*256-slot operand stack by default.
type Config struct {
	// MaxFrames bounds the call-frame stack depth; exceeding it is a
	// runtime "Stack overflow." error, never a silent resize.
	MaxFrames int `env:"EMBER_MAX_FRAMES" envDefault:"64"`

	// StackSlotsPerFrame bounds how many operand-stack slots a single
	// frame may address; combined with MaxFrames it sizes the VM's
	// operand stack.
	StackSlotsPerFrame int `env:"EMBER_STACK_SLOTS_PER_FRAME" envDefault:"256"`

	// GCThreshold is unused: garbage collection is out of scope. It is
	// kept as a placeholder tunable alongside the bounds that are
	// actually enforced.
	GCThreshold int `env:"EMBER_GC_THRESHOLD" envDefault:"0"`
}

// StackSize returns the total number of operand-stack slots the VM
// should allocate.
func (c Config) StackSize() int { return c.MaxFrames * c.StackSlotsPerFrame }

// Default returns the standard bounds, bypassing environment lookup.
// Useful for tests and for callers that don't want env.Parse's
// process-wide side effects.
func Default() Config {
	return Config{MaxFrames: 64, StackSlotsPerFrame: 256}
}

// Load reads Config from the environment, falling back to Default's
// values for anything unset.
func Load() (Config, error) {
	cfg := Default()
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
