//go:build !linux

package system

import "context"

type keyboardExitLogger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

// StartExitOnF4 needs evdev; elsewhere it only logs.
func StartExitOnF4(ctx context.Context, logger keyboardExitLogger, onExit func()) {
	if logger != nil {
		logger.Infof("input", "F4 exit is only available on linux")
	}
}
