package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l *Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// WriteLayout writes a Layout as JSON to an io.Writer.
func WriteLayout(l *Layout, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
// Rejects unknown versions and layouts without a view box.
func UnmarshalLayout(data []byte) (*Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("unmarshal layout: %w", err)
	}
	if l.Version != Version {
		return nil, fmt.Errorf("unsupported layout version %d", l.Version)
	}
	if l.ViewBox.Width <= 0 || l.ViewBox.Height <= 0 {
		return nil, fmt.Errorf("layout must have a non-empty view box")
	}
	if l.Style != StyleStemma && l.Style != StyleChord {
		return nil, fmt.Errorf("unknown layout style %q", l.Style)
	}
	return &l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l *Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
