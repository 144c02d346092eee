package web

import (
	"net/http"
	"os"
	"path/filepath"
)

// RegisterAPIV1 registers the public API routes under /api/v1/.
func RegisterAPIV1(mux *http.ServeMux, deps APIV1Deps) {
	mux.Handle("/api/v1/", http.StripPrefix("/api/v1", apiV1Router(deps)))
}

// RegisterUI serves staticDir at "/" when it names an existing directory.
func RegisterUI(mux *http.ServeMux, staticDir string) {
	mux.Handle("/", StaticUIHandler(staticDir))
}

// NewDefaultMux builds the standard mux used by both the device and simulator:
// - /api/v1/* for the API
// - / for an optional static dashboard
func NewDefaultMux(staticDir string, deps APIV1Deps) *http.ServeMux {
	mux := http.NewServeMux()
	RegisterAPIV1(mux, deps)
	RegisterUI(mux, staticDir)
	return mux
}

func StaticUIHandler(dir string) http.Handler {
	if dir == "" {
		return http.NotFoundHandler()
	}
	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		return http.NotFoundHandler()
	}

	fileServer := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Clean path to avoid oddities.
		r.URL.Path = filepath.ToSlash(filepath.Clean("/" + r.URL.Path))
		fileServer.ServeHTTP(w, r)
	})
}
