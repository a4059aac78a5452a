package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownBackend is returned for an unrecognized search backend name.
	ErrUnknownBackend = errors.New("unknown search backend")

	// ErrUnknownOutput is returned for an unrecognized output format name.
	ErrUnknownOutput = errors.New("unknown output format")
)

// Backend specifies which tool locates snippet files
type Backend string

const (
	// BackendScan reads the folder in process (default)
	BackendScan Backend = "scan"

	// BackendGrep runs find(1) and grep(1)
	BackendGrep Backend = "grep"

	// BackendSpotlight queries the macOS Spotlight index via mdfind(1)
	BackendSpotlight Backend = "spotlight"
)

// ParseBackend maps a backend name or alias to a Backend.
func ParseBackend(name string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "scan", "native", "fs":
		return BackendScan, nil
	case "grep", "find", "find+grep":
		return BackendGrep, nil
	case "spotlight", "mdfind":
		return BackendSpotlight, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
}

// UnmarshalText lets TOML and flag values name a backend by alias.
func (b *Backend) UnmarshalText(text []byte) error {
	parsed, err := ParseBackend(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// String returns a human-readable description of the backend
func (b Backend) String() string {
	switch b {
	case BackendGrep:
		return "find + grep"
	case BackendSpotlight:
		return "spotlight (mdfind)"
	default:
		return "scan (in process)"
	}
}

// Output specifies how results are rendered
type Output string

const (
	// OutputRaw prints snippet code only (default)
	OutputRaw Output = "raw"

	// OutputJSON prints a JSON list of {title, code}
	OutputJSON Output = "json"

	// OutputLaunchBar prints launcher integration items; implies non-interactive
	OutputLaunchBar Output = "launchbar"
)

// ParseOutput maps an output format name or alias to an Output.
func ParseOutput(name string) (Output, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "raw", "":
		return OutputRaw, nil
	case "json":
		return OutputJSON, nil
	case "launchbar", "lb":
		return OutputLaunchBar, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownOutput, name)
	}
}

// UnmarshalText lets TOML and flag values name an output by alias.
func (o *Output) UnmarshalText(text []byte) error {
	parsed, err := ParseOutput(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// Integration returns true if the output feeds a launcher rather than a
// terminal
func (o Output) Integration() bool {
	return o == OutputLaunchBar
}
