package render

import (
	"context"
	"time"
)

// frameLoop calls redraw once per tick until ctx is done. Each call runs to
// completion before the next tick is read, so frames never overlap.
func frameLoop(ctx context.Context, ticks <-chan time.Time, redraw func(now time.Time) bool, logger Logger, component string) {
	lastLog := time.Now()
	var drawn, skipped int
	for {
		select {
		case <-ctx.Done():
			return
		case now, ok := <-ticks:
			if !ok {
				return
			}
			if redraw(now) {
				drawn++
			} else {
				skipped++
			}
			if logger != nil && time.Since(lastLog) > time.Second {
				logger.Infof(component, "heartbeat: %d frames drawn, %d skipped", drawn, skipped)
				drawn, skipped = 0, 0
				lastLog = time.Now()
			}
		}
	}
}
