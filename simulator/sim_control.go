package main

import (
	"encoding/json"
	"net/http"

	"github.com/rook-computer/backdrop/internal/state"
	"github.com/rook-computer/backdrop/internal/tiling"
)

// maxSimCells bounds /sim/resize so a typo cannot allocate a huge canvas.
const maxSimCells = 1000

// terminal is the part of the terminal renderer the simulator controls.
type terminal interface {
	Viewport() tiling.Viewport
	CellViewport(cols, rows int) tiling.Viewport
}

// restarter rewinds the animation; *tiling.Animator satisfies it.
type restarter interface {
	Restart()
}

// SimControl lets a test harness drive the preview over HTTP: restore the
// startup state or pretend the terminal changed size.
type SimControl struct {
	store        *state.Store
	term         terminal
	animation    restarter
	reduceMotion bool
}

func NewSimControl(store *state.Store, term terminal, animation restarter, reduceMotion bool) *SimControl {
	return &SimControl{store: store, term: term, animation: animation, reduceMotion: reduceMotion}
}

// Reset restarts the animation from offset zero and restores the startup
// motion preference and the real terminal size.
func (c *SimControl) Reset() tiling.Viewport {
	if c.animation != nil {
		c.animation.Restart()
	}
	c.store.Motion.Set(c.reduceMotion)
	vp := c.term.Viewport()
	c.store.Viewport.Set(vp)
	return vp
}

// Resize publishes the viewport of a cols x rows terminal.
func (c *SimControl) Resize(cols, rows int) tiling.Viewport {
	vp := c.term.CellViewport(cols, rows)
	c.store.Viewport.Set(vp)
	return vp
}

type simViewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Scale  float64 `json:"scale"`
}

func toSimViewport(vp tiling.Viewport) simViewport {
	return simViewport{Width: vp.Width, Height: vp.Height, Scale: vp.Scale}
}

func registerSimEndpoints(mux *http.ServeMux, control *SimControl) {
	mux.HandleFunc("/sim/reset", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		vp := control.Reset()
		writeSimJSON(w, http.StatusOK, map[string]any{"ok": true, "viewport": toSimViewport(vp)})
	})

	mux.HandleFunc("/sim/resize", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		var req struct {
			Cols int `json:"cols"`
			Rows int `json:"rows"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeSimError(w, http.StatusBadRequest, "invalid json")
			return
		}
		if req.Cols < 0 || req.Rows < 0 || req.Cols > maxSimCells || req.Rows > maxSimCells {
			writeSimError(w, http.StatusBadRequest, "cols and rows must be within [0, 1000]")
			return
		}
		vp := control.Resize(req.Cols, req.Rows)
		writeSimJSON(w, http.StatusOK, map[string]any{"ok": true, "viewport": toSimViewport(vp)})
	})
}

func writeSimJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSimError(w http.ResponseWriter, status int, message string) {
	writeSimJSON(w, status, map[string]any{"error": message})
}
