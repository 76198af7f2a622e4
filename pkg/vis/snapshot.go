// Package vis persists the complete visual and structural state of a
// flowsheet so a session can be resumed exactly.
//
// The wire format is a versioned JSON document written with the .flowvis
// extension. Ingestion is validate-then-commit: a replacement flowsheet is
// fully built and validated before anyone observes it, so a malformed file
// never costs the diagram currently on screen.
package vis

import (
	"fmt"

	"github.com/flowvis/flowvis/pkg/model"
)

// FormatVersion is the current snapshot document version. Readers reject
// documents with any other version.
const FormatVersion = 1

// Snapshot is the serializable state of a flowsheet at one instant.
// Nodes are sorted by ID; edges keep insertion order. Ordering is not
// semantically significant but stable output keeps files diffable.
type Snapshot struct {
	Version int            `json:"version"`
	Nodes   []NodeSnapshot `json:"nodes"`
	Edges   []EdgeSnapshot `json:"edges"`
}

// NodeSnapshot carries one node's identity, type, and visual attributes.
type NodeSnapshot struct {
	ID     string  `json:"id"`
	Type   string  `json:"type"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Image  string  `json:"image,omitempty"`
}

// EdgeSnapshot carries one edge with resolved endpoint IDs. Port names are
// omitted for the implicit single terminal of the flat node-to-node form.
type EdgeSnapshot struct {
	ID       string `json:"id"`
	From     string `json:"from"`
	To       string `json:"to"`
	FromPort string `json:"from_port,omitempty"`
	ToPort   string `json:"to_port,omitempty"`
}

// Take produces a complete snapshot of the flowsheet.
func Take(fs *model.Flowsheet) Snapshot {
	snap := Snapshot{
		Version: FormatVersion,
		Nodes:   make([]NodeSnapshot, 0, fs.NodeCount()),
		Edges:   make([]EdgeSnapshot, 0, fs.EdgeCount()),
	}
	for _, n := range fs.Nodes() {
		snap.Nodes = append(snap.Nodes, NodeSnapshot{
			ID:     n.ID,
			Type:   n.TypeTag,
			X:      n.Pos.X,
			Y:      n.Pos.Y,
			Width:  n.Size.Width,
			Height: n.Size.Height,
			Image:  n.Image,
		})
	}
	for _, e := range fs.Edges() {
		snap.Edges = append(snap.Edges, EdgeSnapshot{
			ID:       e.ID,
			From:     e.From,
			To:       e.To,
			FromPort: e.FromPort,
			ToPort:   e.ToPort,
		})
	}
	return snap
}

// Build constructs a fresh flowsheet from a snapshot, leaving the caller's
// current model untouched on any failure. Icon references are re-resolved
// through icons; a stored image is kept only when the registry has no
// mapping for the node's type, so icons never go stale relative to tags.
func Build(snap Snapshot, icons model.IconFunc) (*model.Flowsheet, error) {
	if snap.Version != FormatVersion {
		return nil, parseErr(fmt.Sprintf("version %d", snap.Version), ErrUnsupportedVersion)
	}

	fs := model.New(icons)
	for _, ns := range snap.Nodes {
		n, err := fs.AddNode(ns.ID, ns.Type,
			model.Position{X: ns.X, Y: ns.Y},
			model.Size{Width: ns.Width, Height: ns.Height})
		if err != nil {
			return nil, parseErr(fmt.Sprintf("node %q", ns.ID), err)
		}
		if n.Image == "" {
			n.Image = ns.Image
		}
	}
	for _, es := range snap.Edges {
		e := model.Edge{
			ID:       es.ID,
			From:     es.From,
			To:       es.To,
			FromPort: es.FromPort,
			ToPort:   es.ToPort,
		}
		if err := fs.RestoreEdge(e); err != nil {
			return nil, parseErr(fmt.Sprintf("edge %s -> %s", es.From, es.To), err)
		}
	}
	if err := fs.Validate(); err != nil {
		return nil, parseErr("validate", err)
	}
	return fs, nil
}
