package vis

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/flowvis/flowvis/pkg/icons"
	"github.com/flowvis/flowvis/pkg/model"
)

// sampleDescription is the canonical seven-unit flowsheet used across the
// persistence tests.
func sampleDescription() Description {
	return Description{
		Units: map[string]string{
			"M101": "Mixer",
			"H101": "Heater",
			"R101": "Reactor",
			"F101": "Flash",
			"S101": "Separator",
			"C101": "PressureChanger",
			"F102": "Flash",
		},
		Streams: map[string][]string{
			"M101": {"H101"},
			"H101": {"R101"},
			"R101": {"F101"},
			"F101": {"S101", "F102"},
			"S101": {"C101"},
			"C101": {"M101"},
		},
	}
}

func TestBootstrapSample(t *testing.T) {
	reg := icons.Default()
	fs, err := Bootstrap(sampleDescription(), reg.Resolve)
	if err != nil {
		t.Fatal(err)
	}
	if fs.NodeCount() != 7 {
		t.Errorf("NodeCount = %d, want 7", fs.NodeCount())
	}
	if fs.EdgeCount() != 7 {
		t.Errorf("EdgeCount = %d, want 7", fs.EdgeCount())
	}

	wantIcons := map[string]string{
		"M101": "icons/mixer.svg",
		"H101": "icons/heater.svg",
		"R101": "icons/reactor.svg",
		"F101": "icons/flash.svg",
		"S101": "icons/separator.svg",
		"C101": "icons/pressure_changer.svg",
		"F102": "icons/flash.svg",
	}
	for id, want := range wantIcons {
		n, ok := fs.Node(id)
		if !ok {
			t.Fatalf("node %s missing", id)
		}
		if n.Image != want {
			t.Errorf("node %s Image = %q, want %q", id, n.Image, want)
		}
	}

	// Deterministic staircase placement in sorted-ID order.
	sorted := []string{"C101", "F101", "F102", "H101", "M101", "R101", "S101"}
	for i, id := range sorted {
		n, _ := fs.Node(id)
		if n.Pos != model.StairPosition(i) {
			t.Errorf("node %s Pos = %+v, want %+v", id, n.Pos, model.StairPosition(i))
		}
	}
}

func TestBootstrapUnknownType(t *testing.T) {
	reg := icons.Default()
	d := Description{
		Units:   map[string]string{"X1": "Electrolyzer", "M1": "Mixer"},
		Streams: map[string][]string{"X1": {"M1"}},
	}
	fs, err := Bootstrap(d, reg.Resolve)
	if err != nil {
		t.Fatalf("unknown type must not fail bootstrap: %v", err)
	}
	n, _ := fs.Node("X1")
	if n.Image != "" {
		t.Errorf("X1 Image = %q, want empty", n.Image)
	}
	snap := Take(fs)
	for _, ns := range snap.Nodes {
		if ns.ID == "X1" && ns.Image != "" {
			t.Errorf("snapshot X1 image = %q, want absent", ns.Image)
		}
	}
}

func TestBootstrapDanglingStream(t *testing.T) {
	d := Description{
		Units:   map[string]string{"M1": "Mixer"},
		Streams: map[string][]string{"M1": {"GONE"}},
	}
	if _, err := Bootstrap(d, nil); !errors.Is(err, model.ErrUnknownTargetNode) {
		t.Fatalf("Bootstrap() error = %v, want ErrUnknownTargetNode", err)
	}
}

func TestRoundTrip(t *testing.T) {
	reg := icons.Default()
	orig, err := Bootstrap(sampleDescription(), reg.Resolve)
	if err != nil {
		t.Fatal(err)
	}
	// Exercise visual attributes beyond the defaults.
	if err := orig.MoveNode("R101", model.Position{X: 333, Y: 77.5}); err != nil {
		t.Fatal(err)
	}
	if err := orig.ResizeNode("R101", model.Size{Width: 90, Height: 64}); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := Write(orig, &buf); err != nil {
		t.Fatal(err)
	}
	got, err := Read(bytes.NewReader(buf.Bytes()), reg.Resolve)
	if err != nil {
		t.Fatal(err)
	}

	if got.NodeCount() != orig.NodeCount() || got.EdgeCount() != orig.EdgeCount() {
		t.Fatalf("round trip: %d/%d nodes, %d/%d edges",
			got.NodeCount(), orig.NodeCount(), got.EdgeCount(), orig.EdgeCount())
	}
	for _, want := range orig.Nodes() {
		n, ok := got.Node(want.ID)
		if !ok {
			t.Fatalf("node %s lost in round trip", want.ID)
		}
		if *n != *want {
			t.Errorf("node %s = %+v, want %+v", want.ID, *n, *want)
		}
	}
	wantEdges := make(map[string]model.Edge)
	for _, e := range orig.Edges() {
		wantEdges[e.ID] = *e
	}
	for _, e := range got.Edges() {
		w, ok := wantEdges[e.ID]
		if !ok {
			t.Errorf("unexpected edge %s -> %s (%s)", e.From, e.To, e.ID)
			continue
		}
		if *e != w {
			t.Errorf("edge %s = %+v, want %+v", e.ID, *e, w)
		}
	}
}

func TestSnapshotOrderStable(t *testing.T) {
	reg := icons.Default()
	fs, err := Bootstrap(sampleDescription(), reg.Resolve)
	if err != nil {
		t.Fatal(err)
	}
	a := Take(fs)
	b := Take(fs)
	for i := range a.Nodes {
		if a.Nodes[i] != b.Nodes[i] {
			t.Fatalf("node order unstable at %d: %+v vs %+v", i, a.Nodes[i], b.Nodes[i])
		}
	}
	for i := 1; i < len(a.Nodes); i++ {
		if a.Nodes[i-1].ID >= a.Nodes[i].ID {
			t.Fatalf("nodes not sorted: %s before %s", a.Nodes[i-1].ID, a.Nodes[i].ID)
		}
	}
}

func TestReadRejectsMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"Truncated", `{"version":1,"nodes":[{"id":"A"`},
		{"NotJSON", `flowsheet?`},
		{"BadVersion", `{"version":99,"nodes":[],"edges":[]}`},
		{"DuplicateNode", `{"version":1,"nodes":[{"id":"A","type":"Mixer"},{"id":"A","type":"Mixer"}],"edges":[]}`},
		{"DanglingEdge", `{"version":1,"nodes":[{"id":"A","type":"Mixer"}],"edges":[{"id":"e1","from":"A","to":"B"}]}`},
		{"DuplicateEdgeID", `{"version":1,"nodes":[{"id":"A","type":"Mixer"},{"id":"B","type":"Heater"}],"edges":[{"id":"e1","from":"A","to":"B"},{"id":"e1","from":"B","to":"A"}]}`},
		{"EmptyNodeID", `{"version":1,"nodes":[{"id":"","type":"Mixer"}],"edges":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input), nil)
			if err == nil {
				t.Fatal("Read() accepted malformed input")
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("Read() error = %T %v, want *ParseError", err, err)
			}
		})
	}
}

func TestVersionField(t *testing.T) {
	fs := model.New(nil)
	var buf bytes.Buffer
	if err := Write(fs, &buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"version": 1`) {
		t.Errorf("output missing version field:\n%s", buf.String())
	}
}

func TestDefaultPath(t *testing.T) {
	if got := DefaultPath("plant"); got != "plant.flowvis" {
		t.Errorf("DefaultPath(plant) = %q", got)
	}
	if got := DefaultPath("plant.flowvis"); got != "plant.flowvis" {
		t.Errorf("DefaultPath(plant.flowvis) = %q", got)
	}
}
