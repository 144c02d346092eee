package screens

import (
	"context"
	"errors"
	"time"

	"github.com/rook-computer/backdrop/internal/render"
	"github.com/rook-computer/backdrop/internal/state"
	"github.com/rook-computer/backdrop/internal/tiling"
)

type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

// BackdropScreen paints the tiling animation with the overlay on top and
// reports each frame back to the store.
type BackdropScreen struct {
	Animator *tiling.Animator
	Overlay  *render.Overlay
	Store    *state.Store
	Logger   Logger
}

func NewBackdropScreen(animator *tiling.Animator, overlay *render.Overlay, store *state.Store, logger Logger) *BackdropScreen {
	return &BackdropScreen{Animator: animator, Overlay: overlay, Store: store, Logger: logger}
}

func (s *BackdropScreen) Start(ctx context.Context) error {
	if s.Animator == nil {
		return errors.New("no animator configured")
	}
	if s.Logger != nil {
		cfg := s.Animator.Config()
		s.Logger.Infof("screen", "backdrop start: spacing=%g speed=%g highlights=%d every=%s", cfg.Spacing(), cfg.Speed, cfg.HighlightCount, cfg.HighlightEvery)
	}
	return nil
}

func (s *BackdropScreen) Stop() error { return nil }

func (s *BackdropScreen) Draw(d render.Drawer, now time.Time, st state.State) bool {
	if !s.Animator.Frame(now, st.ReduceMotion, d) {
		return false
	}
	s.Overlay.Draw(d)

	if s.Store != nil {
		stats := s.Animator.Stats()
		s.Store.UpdateFrame(state.FrameInfo{
			Frames:      stats.Frames,
			Offset:      stats.Offset,
			Cycles:      stats.Cycles,
			Cols:        stats.Coverage.Cols,
			Rows:        stats.Coverage.Rows,
			Painted:     stats.Painted,
			Highlighted: stats.Highlighted,
		})
	}
	return true
}
