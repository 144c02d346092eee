package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"math"
	"net/http"

	"github.com/rook-computer/backdrop/internal/state"
	"github.com/rook-computer/backdrop/internal/tiling"
)

// FrameSource returns the last presented frame, or nil before the first one.
type FrameSource interface {
	Snapshot() *image.RGBA
}

type APIV1Deps struct {
	Store  *state.Store
	Frames FrameSource
	// DefaultScale applies to viewport updates that omit "scale".
	// Zero means 1.
	DefaultScale float64
}

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type viewportJSON struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Scale  float64 `json:"scale"`
}

type tileJSON struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type frameJSON struct {
	Frames      uint64     `json:"frames"`
	Offset      float64    `json:"offset"`
	Cycles      int        `json:"cycles"`
	Cols        int        `json:"cols"`
	Rows        int        `json:"rows"`
	Painted     int        `json:"painted"`
	Highlighted []tileJSON `json:"highlighted"`
}

type statusResponse struct {
	Phase        string       `json:"phase"`
	ReduceMotion bool         `json:"reduceMotion"`
	Viewport     viewportJSON `json:"viewport"`
	Frame        frameJSON    `json:"frame"`
}

type motionRequest struct {
	Reduce *bool `json:"reduce"`
}

type motionResponse struct {
	Reduce bool `json:"reduce"`
}

var (
	errInvalidViewport  = errors.New("width, height and scale must be finite and non-negative")
	errViewportTooLarge = fmt.Errorf("width and height must not exceed %g", tiling.MaxViewportSide)
)

func apiV1Router(deps APIV1Deps) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) { handleStatus(w, r, deps) })
	mux.HandleFunc("/motion", func(w http.ResponseWriter, r *http.Request) { handleMotion(w, r, deps) })
	mux.HandleFunc("/viewport", func(w http.ResponseWriter, r *http.Request) { handleViewport(w, r, deps) })
	mux.HandleFunc("/frame.png", func(w http.ResponseWriter, r *http.Request) { handleFrame(w, r, deps) })
	return mux
}

func handleStatus(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	if deps.Store == nil {
		writeAPIError(w, http.StatusServiceUnavailable, "not_configured", "state store not configured")
		return
	}
	writeJSON(w, http.StatusOK, newStatusResponse(deps.Store.Snapshot()))
}

func handleMotion(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if deps.Store == nil {
		writeAPIError(w, http.StatusServiceUnavailable, "not_configured", "state store not configured")
		return
	}
	switch r.Method {
	case http.MethodGet:
	case http.MethodPost:
		var req motionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeAPIError(w, http.StatusBadRequest, "invalid_json", err.Error())
			return
		}
		if req.Reduce == nil {
			writeAPIError(w, http.StatusBadRequest, "missing_field", "reduce is required")
			return
		}
		deps.Store.Motion.Set(*req.Reduce)
	default:
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, motionResponse{Reduce: deps.Store.Motion.Get()})
}

func handleViewport(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodPost {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	if deps.Store == nil {
		writeAPIError(w, http.StatusServiceUnavailable, "not_configured", "state store not configured")
		return
	}
	var req viewportJSON
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	vp, err := parseViewport(req, deps.DefaultScale)
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_viewport", err.Error())
		return
	}
	deps.Store.Viewport.Set(vp)
	writeJSON(w, http.StatusOK, toViewportJSON(vp))
}

func handleFrame(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	if deps.Frames == nil {
		writeAPIError(w, http.StatusServiceUnavailable, "not_configured", "renderer not configured")
		return
	}
	img := deps.Frames.Snapshot()
	if img == nil || img.Bounds().Empty() {
		writeAPIError(w, http.StatusServiceUnavailable, "no_frame", "no frame presented yet")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_ = png.Encode(w, img)
}

// parseViewport rejects sizes the animator could not use and fills in
// defaultScale when the request has none.
func parseViewport(req viewportJSON, defaultScale float64) (tiling.Viewport, error) {
	for _, v := range []float64{req.Width, req.Height, req.Scale} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return tiling.Viewport{}, errInvalidViewport
		}
	}
	if req.Width > tiling.MaxViewportSide || req.Height > tiling.MaxViewportSide {
		return tiling.Viewport{}, errViewportTooLarge
	}
	scale := req.Scale
	if scale == 0 {
		scale = defaultScale
	}
	return tiling.Viewport{Width: req.Width, Height: req.Height, Scale: scale}.Normalize(), nil
}

func newStatusResponse(s state.State) statusResponse {
	highlighted := make([]tileJSON, 0, len(s.Frame.Highlighted))
	for _, key := range s.Frame.Highlighted {
		highlighted = append(highlighted, tileJSON{Row: key.Row, Col: key.Col})
	}
	return statusResponse{
		Phase:        s.Phase.String(),
		ReduceMotion: s.ReduceMotion,
		Viewport:     toViewportJSON(s.Viewport),
		Frame: frameJSON{
			Frames:      s.Frame.Frames,
			Offset:      s.Frame.Offset,
			Cycles:      s.Frame.Cycles,
			Cols:        s.Frame.Cols,
			Rows:        s.Frame.Rows,
			Painted:     s.Frame.Painted,
			Highlighted: highlighted,
		},
	}
}

func toViewportJSON(vp tiling.Viewport) viewportJSON {
	return viewportJSON{Width: vp.Width, Height: vp.Height, Scale: vp.Scale}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, apiError{Error: code, Message: message})
}
