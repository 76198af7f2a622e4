// Package nodelink exports a flowsheet as a node-link diagram via Graphviz.
//
// This is a non-interactive rendering of the same graph the editor
// manipulates: unit boxes labeled with ID and type, directed stream arrows.
// Node canvas positions can be emitted as Graphviz pos hints so an exported
// diagram resembles the arrangement on the editing canvas.
package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/flowvis/flowvis/pkg/model"
)

// Options configures diagram export.
type Options struct {
	// Detailed adds the icon asset path to node labels when present.
	Detailed bool
	// UsePositions emits canvas coordinates as pos hints and pins the
	// layout instead of letting Graphviz arrange the nodes.
	UsePositions bool
}

// ToDOT converts a flowsheet to Graphviz DOT. The output renders with
// [RenderSVG] or [RenderPNG]. Nodes with an unresolved type keep their
// original tag in the label and are drawn with a dashed outline, so a
// missing icon mapping is visible rather than fatal.
func ToDOT(fs *model.Flowsheet, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph flowsheet {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12];\n")
	buf.WriteString("\n")

	for _, n := range fs.Nodes() {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(fmtAttrs(n, opts), ", "))
	}

	buf.WriteString("\n")
	for _, e := range fs.Edges() {
		if e.FromPort != "" || e.ToPort != "" {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.From, e.To, portLabel(e))
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtAttrs(n *model.Node, opts Options) []string {
	label := n.ID + "\n" + n.TypeTag
	if opts.Detailed && n.Image != "" {
		label += "\n" + n.Image
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if opts.UsePositions {
		// Canvas y grows downward, Graphviz y grows upward. The trailing
		// bang pins the position for neato-style rendering.
		attrs = append(attrs,
			fmt.Sprintf("pos=\"%g,%g!\"", n.Pos.X, -n.Pos.Y),
			fmt.Sprintf("width=%g", n.Size.Width/72),
			fmt.Sprintf("height=%g", n.Size.Height/72))
	}
	if n.Type == model.UnitUnknown {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
	}
	return attrs
}

func portLabel(e *model.Edge) string {
	from := e.FromPort
	if from == "" {
		from = "out"
	}
	to := e.ToPort
	if to == "" {
		to = "in"
	}
	return from + " -> " + to
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	return render(dot, graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return render(dot, graphviz.PNG)
}

func render(dot string, format graphviz.Format) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
