package model

import "fmt"

// Command is a discrete mutation of a Flowsheet. Interactive surfaces turn
// user gestures into commands and apply them synchronously, before the next
// render, so the visual state and the model never diverge across a frame.
// Keeping mutations as values also makes the core testable with no
// rendering surface attached.
type Command interface {
	Apply(f *Flowsheet) error
	String() string
}

// AddNodeCmd creates a node. If Auto is set, Pos and Size are ignored and
// the node lands at the next default staircase position.
type AddNodeCmd struct {
	ID      string
	TypeTag string
	Pos     Position
	Size    Size
	Auto    bool
}

func (c AddNodeCmd) Apply(f *Flowsheet) error {
	var err error
	if c.Auto {
		_, err = f.AddNodeAuto(c.ID, c.TypeTag)
	} else {
		_, err = f.AddNode(c.ID, c.TypeTag, c.Pos, c.Size)
	}
	return err
}

func (c AddNodeCmd) String() string { return fmt.Sprintf("add node %s (%s)", c.ID, c.TypeTag) }

// MoveNodeCmd repositions a node.
type MoveNodeCmd struct {
	ID  string
	Pos Position
}

func (c MoveNodeCmd) Apply(f *Flowsheet) error { return f.MoveNode(c.ID, c.Pos) }
func (c MoveNodeCmd) String() string {
	return fmt.Sprintf("move node %s to (%g, %g)", c.ID, c.Pos.X, c.Pos.Y)
}

// ResizeNodeCmd changes a node's size.
type ResizeNodeCmd struct {
	ID   string
	Size Size
}

func (c ResizeNodeCmd) Apply(f *Flowsheet) error { return f.ResizeNode(c.ID, c.Size) }
func (c ResizeNodeCmd) String() string {
	return fmt.Sprintf("resize node %s to %gx%g", c.ID, c.Size.Width, c.Size.Height)
}

// SetTypeCmd changes a node's type tag, re-resolving its icon.
type SetTypeCmd struct {
	ID      string
	TypeTag string
}

func (c SetTypeCmd) Apply(f *Flowsheet) error { return f.SetNodeType(c.ID, c.TypeTag) }
func (c SetTypeCmd) String() string           { return fmt.Sprintf("set node %s type %s", c.ID, c.TypeTag) }

// ConnectCmd adds a directed edge. Port names may be empty for the
// implicit terminal.
type ConnectCmd struct {
	From     string
	FromPort string
	To       string
	ToPort   string
}

func (c ConnectCmd) Apply(f *Flowsheet) error {
	_, err := f.Connect(c.From, c.FromPort, c.To, c.ToPort)
	return err
}

func (c ConnectCmd) String() string { return fmt.Sprintf("connect %s -> %s", c.From, c.To) }

// DeleteNodeCmd removes a node and cascades removal of its edges.
type DeleteNodeCmd struct {
	ID string
}

func (c DeleteNodeCmd) Apply(f *Flowsheet) error { return f.RemoveNode(c.ID) }
func (c DeleteNodeCmd) String() string           { return "delete node " + c.ID }

// DeleteEdgeCmd removes a single edge by ID.
type DeleteEdgeCmd struct {
	ID string
}

func (c DeleteEdgeCmd) Apply(f *Flowsheet) error { return f.RemoveEdge(c.ID) }
func (c DeleteEdgeCmd) String() string           { return "delete edge " + c.ID }
