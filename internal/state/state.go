package state

import (
	"sync"

	"github.com/rook-computer/backdrop/internal/tiling"
)

type Phase int

const (
	BOOTING Phase = iota
	RUNNING
	STOPPED
	ERROR
)

func (p Phase) String() string {
	switch p {
	case BOOTING:
		return "booting"
	case RUNNING:
		return "running"
	case STOPPED:
		return "stopped"
	default:
		return "error"
	}
}

// FrameInfo is the latest frame as reported by the render loop.
type FrameInfo struct {
	Frames      uint64
	Offset      float64
	Cycles      int
	Cols        int
	Rows        int
	Painted     int
	Highlighted []tiling.TileKey
}

type State struct {
	Phase        Phase
	ReduceMotion bool
	Viewport     tiling.Viewport
	Frame        FrameInfo
}

// Store is the shared state between the render loop, the host signals and
// the HTTP API.
type Store struct {
	mu    sync.RWMutex
	phase Phase
	frame FrameInfo

	Motion   *Signal[bool]
	Viewport *Signal[tiling.Viewport]
}

func NewStore() *Store {
	return &Store{
		phase:    BOOTING,
		Motion:   NewSignal(false),
		Viewport: NewSignal(tiling.Viewport{}),
	}
}

// Snapshot samples every signal once.
func (store *Store) Snapshot() State {
	store.mu.RLock()
	phase := store.phase
	frame := store.frame
	store.mu.RUnlock()

	frame.Highlighted = cloneKeys(frame.Highlighted)
	return State{
		Phase:        phase,
		ReduceMotion: store.Motion.Get(),
		Viewport:     store.Viewport.Get(),
		Frame:        frame,
	}
}

func (store *Store) SetPhase(phase Phase) {
	store.mu.Lock()
	store.phase = phase
	store.mu.Unlock()
}

func (store *Store) UpdateFrame(frame FrameInfo) {
	frame.Highlighted = cloneKeys(frame.Highlighted)
	store.mu.Lock()
	store.frame = frame
	store.mu.Unlock()
}

func cloneKeys(input []tiling.TileKey) []tiling.TileKey {
	if len(input) == 0 {
		return nil
	}
	out := make([]tiling.TileKey, len(input))
	copy(out, input)
	return out
}
