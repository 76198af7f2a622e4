package model

// UnitType identifies a known unit operation. The set is closed: tags that
// do not match a known unit parse to UnitUnknown rather than failing, so a
// flowsheet produced by a newer (or foreign) tool still loads.
type UnitType int

const (
	// UnitUnknown is the catch-all for unrecognized type tags. Nodes of this
	// type render without an icon but participate in the graph normally.
	UnitUnknown UnitType = iota
	UnitMixer
	UnitSplitter
	UnitHeater
	UnitCooler
	UnitHeatExchanger
	UnitReactor
	UnitFlash
	UnitSeparator
	UnitPressureChanger
	UnitPump
	UnitCompressor
	UnitFeed
	UnitProduct
)

var unitTags = map[UnitType]string{
	UnitMixer:           "Mixer",
	UnitSplitter:        "Splitter",
	UnitHeater:          "Heater",
	UnitCooler:          "Cooler",
	UnitHeatExchanger:   "HeatExchanger",
	UnitReactor:         "Reactor",
	UnitFlash:           "Flash",
	UnitSeparator:       "Separator",
	UnitPressureChanger: "PressureChanger",
	UnitPump:            "Pump",
	UnitCompressor:      "Compressor",
	UnitFeed:            "Feed",
	UnitProduct:         "Product",
}

var unitByTag = func() map[string]UnitType {
	m := make(map[string]UnitType, len(unitTags))
	for u, tag := range unitTags {
		m[tag] = u
	}
	return m
}()

// ParseUnitType maps a type tag to its UnitType. The mapping is total:
// tags with no known unit return UnitUnknown.
func ParseUnitType(tag string) UnitType {
	return unitByTag[tag]
}

// String returns the canonical tag for the unit type, or "Unknown" for
// UnitUnknown. Note that a node created from an unrecognized tag keeps its
// original tag string in Node.TypeTag; String is the canonical spelling only.
func (u UnitType) String() string {
	if tag, ok := unitTags[u]; ok {
		return tag
	}
	return "Unknown"
}

// UnitTypes returns all known unit types, excluding UnitUnknown.
// The order follows the enum declaration.
func UnitTypes() []UnitType {
	out := make([]UnitType, 0, len(unitTags))
	for u := UnitMixer; u <= UnitProduct; u++ {
		out = append(out, u)
	}
	return out
}

// Position is a location on the diagram canvas, in canvas units.
type Position struct {
	X float64
	Y float64
}

// Size is the rendered extent of a node, in canvas units.
type Size struct {
	Width  float64
	Height float64
}

// Node is one unit operation on the flowsheet with its visual attributes.
// The zero value is not usable - nodes are created through Flowsheet.AddNode,
// which resolves Image from the type tag.
type Node struct {
	ID      string   // Unique identifier, stable for the session
	TypeTag string   // Domain type tag as supplied (e.g. "Mixer")
	Type    UnitType // Parsed unit type (UnitUnknown for foreign tags)
	Pos     Position
	Size    Size
	Image   string // Icon asset path, empty if the type resolved to no icon
}

// Edge is a directed process stream between two nodes. Multiple edges
// between the same ordered node pair are legal (parallel streams); the
// generated ID keeps them distinct.
//
// FromPort and ToPort name the outlet and inlet terminals on the endpoint
// nodes. They default to empty, which denotes the single implicit terminal
// of the flat node-to-node form.
type Edge struct {
	ID       string
	From     string // Source node ID
	To       string // Target node ID
	FromPort string
	ToPort   string
}
