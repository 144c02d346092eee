package web

import (
	"fmt"
	"strconv"
)

const (
	EnvListenAddr = "BACKDROP_LISTEN"
	EnvDevMode    = "BACKDROP_DEV"
)

// ServerConfig contains settings for running the HTTP server.
//
// The intended defaults differ per binary:
// - device:    :80
// - simulator: :8080
type ServerConfig struct {
	ListenAddr string
	DevMode    bool
}

// DefaultServerConfigFromEnv reads the server settings through getenv,
// usually os.Getenv.
func DefaultServerConfigFromEnv(getenv func(string) string, defaultListenAddr string) (ServerConfig, error) {
	listenAddr := getenv(EnvListenAddr)
	if listenAddr == "" {
		listenAddr = defaultListenAddr
	}

	devMode := false
	if raw := getenv(EnvDevMode); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return ServerConfig{}, fmt.Errorf("%s must be a boolean (got %q): %w", EnvDevMode, raw, err)
		}
		devMode = parsed
	}

	return ServerConfig{ListenAddr: listenAddr, DevMode: devMode}, nil
}
