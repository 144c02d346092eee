package tiling

import (
	"math"
	"testing"
	"time"
)

func TestClockWrapsAtSpacing(t *testing.T) {
	// tileSize=20, gap=24 gives spacing 44; 4.4s at speed 10 is exactly one pitch.
	c := &Clock{Speed: 10}
	c.Advance(4400*time.Millisecond, false, 44)
	if off := c.Offset(); off > 1e-9 && off < 44-1e-9 {
		t.Fatalf("offset = %g, want wrapped to 0", off)
	}
	if c.Cycles() != 1 {
		t.Fatalf("cycles = %d, want 1", c.Cycles())
	}
}

func TestClockOffsetStaysInRange(t *testing.T) {
	c := &Clock{Speed: 137}
	for i := 0; i < 1000; i++ {
		c.Advance(16*time.Millisecond, false, 44)
		if off := c.Offset(); off < 0 || off >= 44 {
			t.Fatalf("step %d: offset %g out of [0, 44)", i, off)
		}
	}
	total := 137 * 16.0 / 1000 * 1000
	got := float64(c.Cycles())*44 + c.Offset()
	if math.Abs(got-total) > 1e-6 {
		t.Fatalf("accumulated %g, want %g", got, total)
	}
}

func TestClockClampsLargeDelta(t *testing.T) {
	c := &Clock{Speed: 100, MaxDelta: 64 * time.Millisecond}
	start := time.Unix(1000, 0)
	if _, ok := c.Tick(start, false, 1000); !ok {
		t.Fatal("first tick should render")
	}
	dt, ok := c.Tick(start.Add(30*time.Second), false, 1000)
	if !ok || dt != 64*time.Millisecond {
		t.Fatalf("dt = %s ok=%v, want 64ms", dt, ok)
	}
	if math.Abs(c.Offset()-6.4) > 1e-9 {
		t.Fatalf("offset = %g, want 6.4", c.Offset())
	}

	// Clock going backwards never moves the offset backwards.
	dt, _ = c.Tick(start, false, 1000)
	if dt != 0 {
		t.Fatalf("negative delta produced dt = %s", dt)
	}
}

func TestClockReducedMotionFreezesOffset(t *testing.T) {
	c := &Clock{Speed: 50}
	now := time.Unix(0, 0)
	c.Tick(now, true, 44)
	for i := 0; i < 10; i++ {
		now = now.Add(16 * time.Millisecond)
		if _, ok := c.Tick(now, true, 44); !ok {
			t.Fatal("uncapped clock skipped a frame")
		}
		if c.Offset() != 0 {
			t.Fatalf("offset moved to %g under reduced motion", c.Offset())
		}
	}
}

func TestClockTargetFPS(t *testing.T) {
	c := &Clock{Speed: 10, TargetFPS: 20} // 50ms frames
	now := time.Unix(0, 0)
	c.Tick(now, false, 44)

	rendered := 0
	for i := 0; i < 30; i++ {
		now = now.Add(10 * time.Millisecond)
		if dt, ok := c.Tick(now, false, 44); ok {
			rendered++
			if dt < 50*time.Millisecond {
				t.Fatalf("rendered with dt %s below the frame interval", dt)
			}
		}
	}
	if rendered != 6 {
		t.Fatalf("rendered %d frames in 300ms at 20fps, want 6", rendered)
	}
	if math.Abs(c.Offset()-3) > 1e-9 {
		t.Fatalf("offset = %g, want 3", c.Offset())
	}
}

func TestClockReset(t *testing.T) {
	c := &Clock{Speed: 10}
	c.Advance(10*time.Second, false, 44)
	c.Reset()
	if c.Offset() != 0 || c.Cycles() != 0 {
		t.Fatalf("reset left offset=%g cycles=%d", c.Offset(), c.Cycles())
	}
}
