package model

import "errors"

var (
	// ErrInvalidNodeID is returned by [Flowsheet.AddNode] when the node ID
	// is empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Flowsheet.AddNode] when a node with
	// the same ID already exists. Node IDs are unique within a flowsheet.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownNode is returned by operations that reference a node ID not
	// present in the flowsheet (RemoveNode, MoveNode, ResizeNode, SetNodeType).
	ErrUnknownNode = errors.New("unknown node")

	// ErrUnknownSourceNode is returned by [Flowsheet.Connect] when the
	// source endpoint does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Flowsheet.Connect] when the
	// target endpoint does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrUnknownEdge is returned by [Flowsheet.RemoveEdge] when no edge has
	// the given ID.
	ErrUnknownEdge = errors.New("unknown edge")

	// ErrDuplicateEdgeID is returned by [Flowsheet.RestoreEdge] when an edge
	// with the same ID already exists. Edge IDs are unique within a flowsheet.
	ErrDuplicateEdgeID = errors.New("duplicate edge ID")

	// ErrInvalidEdgeEndpoint is returned by [Flowsheet.Validate] when an
	// edge references a node that doesn't exist. This indicates corruption:
	// the mutation API never produces such a state.
	ErrInvalidEdgeEndpoint = errors.New("invalid edge endpoint")
)
