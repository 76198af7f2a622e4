package vis

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/flowvis/flowvis/pkg/model"
)

// Description is the initial graph description consumed from an external
// producer (typically the process-simulation engine): unit IDs mapped to
// type tags, and unit IDs mapped to the ordered destinations of their
// outgoing streams. Units that appear in no stream are legal; they denote
// flowsheet-boundary equipment.
type Description struct {
	Units   map[string]string   `json:"units"`
	Streams map[string][]string `json:"streams"`
}

// ReadDescription decodes a producer description from r.
func ReadDescription(r io.Reader) (Description, error) {
	var d Description
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return Description{}, parseErr("decode description", err)
	}
	return d, nil
}

// Bootstrap builds a flowsheet from a bare description. Nodes are placed on
// the default staircase in sorted-ID order (deterministic, overlap-avoiding
// only - not a layout). A stream naming a unit absent from Units is a
// construction error; nothing partial is returned.
func Bootstrap(d Description, icons model.IconFunc) (*model.Flowsheet, error) {
	fs := model.New(icons)

	for _, id := range slices.Sorted(maps.Keys(d.Units)) {
		if _, err := fs.AddNodeAuto(id, d.Units[id]); err != nil {
			return nil, fmt.Errorf("unit %q: %w", id, err)
		}
	}
	for _, from := range slices.Sorted(maps.Keys(d.Streams)) {
		for _, to := range d.Streams[from] {
			if _, err := fs.AddEdge(from, to); err != nil {
				return nil, fmt.Errorf("stream %s -> %s: %w", from, to, err)
			}
		}
	}
	return fs, nil
}
