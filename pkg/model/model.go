// Package model holds the authoritative graph behind a flowsheet diagram:
// unit-operation nodes with visual attributes and directed stream edges.
//
// The Flowsheet is the single source of truth for structure. Rendering
// surfaces keep no structural state of their own; they apply [Command]
// mutations and re-read the flowsheet. The model is not safe for concurrent
// use - callers that mutate from multiple goroutines (e.g. an HTTP surface)
// must serialize access externally.
package model

import (
	"slices"
	"strings"

	"github.com/google/uuid"
)

// IconFunc resolves a unit type to an icon asset path. The boolean reports
// whether an icon is mapped; a false result is not an error - the node
// renders without an image.
type IconFunc func(UnitType) (string, bool)

// Default placement constants for nodes created without an explicit
// position. Nodes land on a diagonal staircase purely to avoid total
// overlap; this is not a layout algorithm.
const (
	DefaultOriginX = 40
	DefaultOriginY = 40
	DefaultStep    = 60

	DefaultWidth  = 56
	DefaultHeight = 56
)

// DefaultSize is the size given to nodes created without an explicit size.
func DefaultSize() Size { return Size{Width: DefaultWidth, Height: DefaultHeight} }

// StairPosition returns the default staircase position for the i-th node
// placed without coordinates.
func StairPosition(i int) Position {
	return Position{
		X: DefaultOriginX + float64(i)*DefaultStep,
		Y: DefaultOriginY + float64(i)*DefaultStep,
	}
}

// Flowsheet is the in-memory diagram graph. The zero value is not usable -
// use New. Node IDs are never reused within a session; edges always
// reference live nodes (removal cascades).
type Flowsheet struct {
	nodes    map[string]*Node
	edges    []*Edge
	byEdgeID map[string]*Edge
	icons    IconFunc
	placed   int // nodes placed via default staircase so far
}

// New creates an empty flowsheet. icons may be nil, in which case no node
// ever resolves an image.
func New(icons IconFunc) *Flowsheet {
	return &Flowsheet{
		nodes:    make(map[string]*Node),
		byEdgeID: make(map[string]*Edge),
		icons:    icons,
	}
}

// AddNode adds a unit-operation node. Returns ErrInvalidNodeID for an empty
// ID or ErrDuplicateNodeID if the ID is taken. The image reference is
// resolved from the type tag at creation.
func (f *Flowsheet) AddNode(id, typeTag string, pos Position, size Size) (*Node, error) {
	if id == "" {
		return nil, ErrInvalidNodeID
	}
	if _, exists := f.nodes[id]; exists {
		return nil, ErrDuplicateNodeID
	}
	n := &Node{ID: id, Pos: pos, Size: size}
	f.setType(n, typeTag)
	f.nodes[id] = n
	return n, nil
}

// AddNodeAuto adds a node at the next default staircase position with the
// default size. Used when bootstrapping from a bare type/edge description
// that carries no coordinates.
func (f *Flowsheet) AddNodeAuto(id, typeTag string) (*Node, error) {
	n, err := f.AddNode(id, typeTag, StairPosition(f.placed), DefaultSize())
	if err != nil {
		return nil, err
	}
	f.placed++
	return n, nil
}

// AddEdge connects two existing nodes with a directed stream using the
// implicit single terminal on each end. See Connect for named terminals.
func (f *Flowsheet) AddEdge(from, to string) (*Edge, error) {
	return f.Connect(from, "", to, "")
}

// Connect adds a directed edge from (from, fromPort) to (to, toPort).
// Port names may be empty for the implicit terminal. Returns
// ErrUnknownSourceNode or ErrUnknownTargetNode if an endpoint is missing;
// on error the flowsheet is unchanged. Parallel edges between the same
// ordered pair are permitted.
func (f *Flowsheet) Connect(from, fromPort, to, toPort string) (*Edge, error) {
	if _, ok := f.nodes[from]; !ok {
		return nil, ErrUnknownSourceNode
	}
	if _, ok := f.nodes[to]; !ok {
		return nil, ErrUnknownTargetNode
	}
	e := &Edge{
		ID:       uuid.NewString(),
		From:     from,
		To:       to,
		FromPort: fromPort,
		ToPort:   toPort,
	}
	f.edges = append(f.edges, e)
	f.byEdgeID[e.ID] = e
	return e, nil
}

// RestoreEdge re-adds an edge with a known ID, used when rebuilding a
// flowsheet from a snapshot so edge identity survives the round trip.
// An empty ID gets a fresh one; a taken ID is ErrDuplicateEdgeID.
func (f *Flowsheet) RestoreEdge(e Edge) error {
	if _, ok := f.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := f.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	} else if _, ok := f.byEdgeID[e.ID]; ok {
		return ErrDuplicateEdgeID
	}
	cp := e
	f.edges = append(f.edges, &cp)
	f.byEdgeID[cp.ID] = &cp
	return nil
}

// RemoveNode removes a node and every edge referencing it, so no dangling
// endpoints remain. Returns ErrUnknownNode if the ID is absent; this is an
// error (not a no-op) so callers notice stale references.
func (f *Flowsheet) RemoveNode(id string) error {
	if _, ok := f.nodes[id]; !ok {
		return ErrUnknownNode
	}
	delete(f.nodes, id)
	f.edges = slices.DeleteFunc(f.edges, func(e *Edge) bool {
		if e.From == id || e.To == id {
			delete(f.byEdgeID, e.ID)
			return true
		}
		return false
	})
	return nil
}

// RemoveEdge removes the edge with the given ID.
// Returns ErrUnknownEdge if no such edge exists.
func (f *Flowsheet) RemoveEdge(id string) error {
	if _, ok := f.byEdgeID[id]; !ok {
		return ErrUnknownEdge
	}
	delete(f.byEdgeID, id)
	f.edges = slices.DeleteFunc(f.edges, func(e *Edge) bool { return e.ID == id })
	return nil
}

// MoveNode sets a node's position. Returns ErrUnknownNode if absent.
func (f *Flowsheet) MoveNode(id string, pos Position) error {
	n, ok := f.nodes[id]
	if !ok {
		return ErrUnknownNode
	}
	n.Pos = pos
	return nil
}

// ResizeNode sets a node's size. Returns ErrUnknownNode if absent.
func (f *Flowsheet) ResizeNode(id string, size Size) error {
	n, ok := f.nodes[id]
	if !ok {
		return ErrUnknownNode
	}
	n.Size = size
	return nil
}

// SetNodeType changes a node's type tag and re-resolves its image
// reference, so the icon never goes stale relative to the tag.
func (f *Flowsheet) SetNodeType(id, typeTag string) error {
	n, ok := f.nodes[id]
	if !ok {
		return ErrUnknownNode
	}
	f.setType(n, typeTag)
	return nil
}

func (f *Flowsheet) setType(n *Node, typeTag string) {
	n.TypeTag = typeTag
	n.Type = ParseUnitType(typeTag)
	n.Image = ""
	if f.icons != nil {
		if img, ok := f.icons(n.Type); ok {
			n.Image = img
		}
	}
}

// Node returns the node with the given ID, or nil and false if absent.
// The pointer refers to the live node; position and size edits through the
// mutation API are visible through it.
func (f *Flowsheet) Node(id string) (*Node, bool) {
	n, ok := f.nodes[id]
	return n, ok
}

// Edge returns the edge with the given ID, or nil and false if absent.
func (f *Flowsheet) Edge(id string) (*Edge, bool) {
	e, ok := f.byEdgeID[id]
	return e, ok
}

// Nodes returns all nodes sorted by ID for deterministic iteration.
func (f *Flowsheet) Nodes() []*Node {
	nodes := make([]*Node, 0, len(f.nodes))
	for _, n := range f.nodes {
		nodes = append(nodes, n)
	}
	slices.SortFunc(nodes, func(a, b *Node) int { return strings.Compare(a.ID, b.ID) })
	return nodes
}

// Edges returns all edges in insertion order. The slice is a copy; the
// edge pointers are live.
func (f *Flowsheet) Edges() []*Edge { return slices.Clone(f.edges) }

// NodeCount returns the number of nodes.
func (f *Flowsheet) NodeCount() int { return len(f.nodes) }

// EdgeCount returns the number of edges.
func (f *Flowsheet) EdgeCount() int { return len(f.edges) }

// EdgesAt returns every edge touching the node as source or target.
func (f *Flowsheet) EdgesAt(id string) []*Edge {
	var out []*Edge
	for _, e := range f.edges {
		if e.From == id || e.To == id {
			out = append(out, e)
		}
	}
	return out
}

// Outgoing returns the target node IDs of edges leaving the node.
func (f *Flowsheet) Outgoing(id string) []string {
	var out []string
	for _, e := range f.edges {
		if e.From == id {
			out = append(out, e.To)
		}
	}
	return out
}

// Incoming returns the source node IDs of edges entering the node.
func (f *Flowsheet) Incoming(id string) []string {
	var out []string
	for _, e := range f.edges {
		if e.To == id {
			out = append(out, e.From)
		}
	}
	return out
}

// Validate checks structural integrity: every edge endpoint must exist.
// Returns ErrInvalidEdgeEndpoint on a dangling reference. The mutation API
// never produces such a state; Validate guards externally supplied data.
func (f *Flowsheet) Validate() error {
	for _, e := range f.edges {
		if _, ok := f.nodes[e.From]; !ok {
			return ErrInvalidEdgeEndpoint
		}
		if _, ok := f.nodes[e.To]; !ok {
			return ErrInvalidEdgeEndpoint
		}
	}
	return nil
}
