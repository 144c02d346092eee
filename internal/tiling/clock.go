package tiling

import (
	"math"
	"time"
)

// Clock turns wall-clock frame times into bounded deltas and accumulates the
// wrapped scroll offset.
type Clock struct {
	Speed     float64
	TargetFPS float64
	MaxDelta  time.Duration

	last    time.Time
	primed  bool
	pending time.Duration

	offset float64
	cycles int
}

// NewClock returns a clock using the speed and frame cap of cfg.
func NewClock(cfg Config) *Clock {
	return &Clock{Speed: cfg.Speed, TargetFPS: cfg.TargetFPS, MaxDelta: cfg.MaxDelta}
}

// Offset is the scroll offset wrapped into [0, spacing).
func (c *Clock) Offset() float64 { return c.offset }

// Cycles is the number of times the offset wrapped past one spacing.
func (c *Clock) Cycles() int { return c.cycles }

func (c *Clock) frameInterval() time.Duration {
	if c.TargetFPS <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / c.TargetFPS)
}

// Tick records a frame at now. ok is false when the frame cap says this
// frame should be skipped; otherwise dt is the time the offset advanced by.
func (c *Clock) Tick(now time.Time, reduceMotion bool, spacing float64) (dt time.Duration, ok bool) {
	if !c.primed {
		c.primed = true
		c.last = now
		return 0, true
	}

	raw := now.Sub(c.last)
	c.last = now
	if raw < 0 {
		raw = 0
	}
	maxDelta := c.MaxDelta
	if maxDelta <= 0 {
		maxDelta = DefaultMaxDelta
	}
	if raw > maxDelta {
		raw = maxDelta
	}

	if interval := c.frameInterval(); interval > 0 {
		c.pending += raw
		if c.pending < interval {
			return 0, false
		}
		raw = c.pending
		c.pending = 0
	}

	c.Advance(raw, reduceMotion, spacing)
	return raw, true
}

// Advance moves the offset by Speed·dt and wraps it into [0, spacing).
// Reduced motion freezes the offset.
func (c *Clock) Advance(dt time.Duration, reduceMotion bool, spacing float64) {
	if reduceMotion || dt <= 0 || !(spacing > 0) {
		return
	}
	c.offset += c.Speed * dt.Seconds()
	if c.offset >= spacing {
		laps := math.Floor(c.offset / spacing)
		c.offset -= laps * spacing
		c.cycles += int(laps)
		// Float residue can leave the offset a hair below zero or at spacing.
		if c.offset < 0 {
			c.offset = 0
		}
		if c.offset >= spacing {
			c.offset -= spacing
			c.cycles++
		}
	}
}

// Reset returns the clock to its unprimed state at offset zero.
func (c *Clock) Reset() {
	c.primed = false
	c.pending = 0
	c.offset = 0
	c.cycles = 0
}
