package nodelink

import (
	"strings"
	"testing"

	"github.com/flowvis/flowvis/pkg/model"
)

func buildFlowsheet(t *testing.T) *model.Flowsheet {
	t.Helper()
	fs := model.New(func(u model.UnitType) (string, bool) {
		if u == model.UnitUnknown {
			return "", false
		}
		return "icons/" + u.String() + ".svg", true
	})
	for _, n := range []struct{ id, tag string }{
		{"M101", "Mixer"},
		{"H101", "Heater"},
		{"X1", "Centrifuge"},
	} {
		if _, err := fs.AddNodeAuto(n.id, n.tag); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := fs.AddEdge("M101", "H101"); err != nil {
		t.Fatal(err)
	}
	if _, err := fs.Connect("H101", "vapor", "X1", "feed"); err != nil {
		t.Fatal(err)
	}
	return fs
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(buildFlowsheet(t), Options{})

	if !strings.HasPrefix(dot, "digraph flowsheet {") {
		t.Error("ToDOT() should start with 'digraph flowsheet {'")
	}
	if !strings.HasSuffix(strings.TrimSpace(dot), "}") {
		t.Error("ToDOT() should end with '}'")
	}

	expected := []string{
		`"M101"`,
		`"M101" -> "H101";`,
		"Mixer",
		`label="vapor -> feed"`,
		"dashed", // unknown type gets a dashed outline
	}
	for _, exp := range expected {
		if !strings.Contains(dot, exp) {
			t.Errorf("ToDOT() missing %q", exp)
		}
	}
}

func TestToDOTPositions(t *testing.T) {
	fs := buildFlowsheet(t)
	if err := fs.MoveNode("M101", model.Position{X: 120, Y: 40}); err != nil {
		t.Fatal(err)
	}

	dot := ToDOT(fs, Options{UsePositions: true})
	if !strings.Contains(dot, `pos="120,-40!"`) {
		t.Errorf("ToDOT() missing pinned position:\n%s", dot)
	}

	if strings.Contains(ToDOT(fs, Options{}), "pos=") {
		t.Error("ToDOT() emitted positions without UsePositions")
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(buildFlowsheet(t), Options{Detailed: true})
	if !strings.Contains(dot, "icons/Mixer.svg") {
		t.Error("detailed ToDOT() missing icon path in label")
	}
}
