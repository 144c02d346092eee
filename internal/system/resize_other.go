//go:build !unix

package system

import "context"

// WatchResize has no signal source on this platform.
func WatchResize(ctx context.Context, logger logger, onResize func()) {}
