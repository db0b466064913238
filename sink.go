package fractal

import (
	"fmt"
	"os"
	"path/filepath"
)

// Sink persists exported captures.
type Sink interface {
	Save(name string, data []byte) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(name string, data []byte) error

// Save calls f(name, data).
func (f SinkFunc) Save(name string, data []byte) error {
	return f(name, data)
}

// FileSink writes captures into a directory. An empty Dir means the
// current directory. Existing files are overwritten.
type FileSink struct {
	Dir string
}

// Save writes data to Dir/name. Directory components in name are
// ignored so a sink never writes outside Dir.
func (s FileSink) Save(name string, data []byte) error {
	base := filepath.Base(name)
	if base == "." || base == string(filepath.Separator) {
		return fmt.Errorf("%w: capture name %q", ErrInvalidParameter, name)
	}
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("fractal: create capture dir: %w", err)
	}
	path := filepath.Join(dir, base)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("fractal: write capture: %w", err)
	}
	Logger().Info("capture saved", "path", path, "bytes", len(data))
	return nil
}
