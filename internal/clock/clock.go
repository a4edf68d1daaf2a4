// Package clock supplies the scheduling core's notion of "now".
//
// Core packages never call time.Now() directly; they depend on the Clock
// interface so tests can substitute a fixed or scripted time source.
package clock

import (
	"log/slog"
	"sync"
	"time"
)

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// System is the production clock. It guarantees that the time it reports
// never moves backwards between calls: if the underlying system clock jumps
// back (NTP correction, manual rollback), the reported time is clamped to the
// last observed value until the system clock catches up again. The engine
// relies on this monotonicity between ticks.
//
// A manual sync offset and a debug offset are added after the jump check, so
// adjusting an offset cannot itself look like a clock jump.
type System struct {
	mu          sync.Mutex
	read        func() time.Time
	last        time.Time
	offset      time.Duration
	debugOffset time.Duration
	clamping    bool
	lowWater    time.Time
	logger      *slog.Logger
}

// NewSystem creates a System clock reading from the host system time.
func NewSystem(logger *slog.Logger) *System {
	if logger == nil {
		logger = slog.Default()
	}
	return &System{read: time.Now, logger: logger}
}

// Now returns the current time, clamped to be non-decreasing, with the sync
// and debug offsets applied.
func (c *System) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.read()
	if t.Before(c.last) {
		// Log once per jump, not once per call while clamped. A further
		// drop below the lowest time seen so far is a new jump and gets
		// its own log line.
		if !c.clamping || t.Before(c.lowWater) {
			c.clamping = true
			c.lowWater = t
			c.logger.Warn("backward clock jump detected, clamping",
				"observed", t, "clamped_to", c.last)
		}
		t = c.last
	} else {
		c.clamping = false
		c.last = t
	}

	return t.Add(c.offset + c.debugOffset)
}

// SetOffset sets the manual sync offset added to every reported time.
func (c *System) SetOffset(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.offset = d
}

// SetDebugOffset sets the debug offset added to every reported time.
func (c *System) SetDebugOffset(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.debugOffset = d
}
