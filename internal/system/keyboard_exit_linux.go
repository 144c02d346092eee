//go:build linux

package system

import (
	"context"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sys/unix"
)

const (
	evKey = 0x01

	// Linux input-event-codes.h
	keyF4 = 62

	keyPressed = 1
)

type keyboardExitLogger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

// StartExitOnF4 watches every evdev device and calls onExit once when F4 is
// pressed on any of them. Missing devices are logged, not fatal.
func StartExitOnF4(ctx context.Context, logger keyboardExitLogger, onExit func()) {
	StartExitOnKey(ctx, logger, keyF4, onExit)
}

func StartExitOnKey(ctx context.Context, logger keyboardExitLogger, code uint16, onExit func()) {
	if onExit == nil {
		return
	}
	paths, err := filepath.Glob("/dev/input/event*")
	if err != nil || len(paths) == 0 {
		if logger != nil {
			logger.Infof("input", "no evdev devices found for exit key %d", code)
		}
		return
	}

	var once sync.Once
	trigger := func() {
		once.Do(func() {
			if logger != nil {
				logger.Infof("input", "exit key %d pressed", code)
			}
			onExit()
		})
	}
	layout := newEventLayout()
	for _, path := range paths {
		go func() {
			if err := watchKey(ctx, path, layout, code, trigger); err != nil && logger != nil {
				logger.Errorf("input", "%s: %v", path, err)
			}
		}()
	}
}

// eventLayout describes struct input_event: a timeval followed by
// u16 type, u16 code and s32 value.
type eventLayout struct {
	timevalSize int
	size        int
}

func newEventLayout() eventLayout {
	tv := binary.Size(unix.Timeval{})
	return eventLayout{timevalSize: tv, size: tv + 8}
}

// keyPress reports whether rec is a key-down event for code.
func (l eventLayout) keyPress(rec []byte, code uint16) bool {
	if len(rec) < l.size {
		return false
	}
	fields := rec[l.timevalSize:l.size]
	typ := binary.LittleEndian.Uint16(fields[0:2])
	got := binary.LittleEndian.Uint16(fields[2:4])
	value := int32(binary.LittleEndian.Uint32(fields[4:8]))
	return typ == evKey && got == code && value == keyPressed
}

func watchKey(ctx context.Context, path string, layout eventLayout, code uint16, trigger func()) error {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return err
	}
	f := os.NewFile(uintptr(fd), path)
	defer f.Close()

	buf := make([]byte, 64*layout.size)
	for ctx.Err() == nil {
		pollFds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		if _, err := unix.Poll(pollFds, 250); err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			return err
		}
		if pollFds[0].Revents&unix.POLLIN == 0 {
			continue
		}
		n, err := unix.Read(fd, buf)
		if err != nil {
			if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EINTR) {
				continue
			}
			return err
		}
		for off := 0; off+layout.size <= n; off += layout.size {
			if layout.keyPress(buf[off:off+layout.size], code) {
				trigger()
				return nil
			}
		}
	}
	return nil
}
