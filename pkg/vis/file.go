package vis

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/flowvis/flowvis/pkg/model"
)

// Ext marks a persisted flowsheet file, distinguishing the format from
// generic JSON so tools don't assume an arbitrary schema.
const Ext = ".flowvis"

// DefaultPath appends Ext to name unless it already carries it.
func DefaultPath(name string) string {
	if strings.HasSuffix(name, Ext) {
		return name
	}
	return name + Ext
}

// Write encodes the flowsheet's snapshot as indented JSON to w.
func Write(fs *model.Flowsheet, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Take(fs)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteFile writes the flowsheet to a .flowvis file at path.
// The file is created with 0644 permissions.
func WriteFile(fs *model.Flowsheet, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(fs, f)
}

// Read decodes a persisted flowsheet from r. Malformed input yields a
// *ParseError and no flowsheet; the function never returns a partially
// ingested model.
func Read(r io.Reader, icons model.IconFunc) (*model.Flowsheet, error) {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, parseErr("decode", err)
	}
	return Build(snap, icons)
}

// ReadFile reads a .flowvis file at path and returns the decoded flowsheet.
func ReadFile(path string, icons model.IconFunc) (*model.Flowsheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, icons)
}
