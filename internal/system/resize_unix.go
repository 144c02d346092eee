//go:build unix

package system

import (
	"context"
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
)

// WatchResize calls onResize on every SIGWINCH until ctx is done. Bursts are
// coalesced: at most one pending notification is kept.
func WatchResize(ctx context.Context, logger logger, onResize func()) {
	if onResize == nil {
		return
	}
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, unix.SIGWINCH)
	go func() {
		defer signal.Stop(sigs)
		for {
			select {
			case <-ctx.Done():
				return
			case <-sigs:
				if logger != nil {
					logger.Infof("resize", "SIGWINCH received")
				}
				onResize()
			}
		}
	}()
}
