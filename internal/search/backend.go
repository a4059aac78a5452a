package search

import (
	"fmt"

	"snibbets/internal/config"
)

// NewBackend returns the backend for kind, checking that its external
// tools are installed.
func NewBackend(kind config.Backend) (Backend, error) {
	switch kind {
	case config.BackendScan, "":
		return ScanBackend{}, nil
	case config.BackendGrep:
		if !GrepAvailable() {
			return nil, fmt.Errorf("grep backend requires find and grep on PATH")
		}
		return GrepBackend{}, nil
	case config.BackendSpotlight:
		if !SpotlightAvailable() {
			return nil, fmt.Errorf("spotlight backend requires mdfind (macOS)")
		}
		return SpotlightBackend{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownBackend, kind)
	}
}
