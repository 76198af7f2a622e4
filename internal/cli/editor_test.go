package cli

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/flowvis/flowvis/pkg/icons"
	"github.com/flowvis/flowvis/pkg/model"
	"github.com/flowvis/flowvis/pkg/vis"
)

func newTestEditor(t *testing.T) editorModel {
	t.Helper()
	reg := icons.Default()
	fs, err := vis.Bootstrap(vis.Description{
		Units:   map[string]string{"M101": "Mixer", "H101": "Heater"},
		Streams: map[string][]string{"M101": {"H101"}},
	}, reg.Resolve)
	if err != nil {
		t.Fatal(err)
	}
	session := vis.NewSession(fs, reg.Resolve)
	return newEditorModel(session, filepath.Join(t.TempDir(), "plant"+vis.Ext))
}

func press(m editorModel, keys ...string) editorModel {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(editorModel)
	}
	return m
}

func TestEditorSelection(t *testing.T) {
	m := newTestEditor(t)
	if got := m.selected(); got != "H101" {
		t.Fatalf("initial selection = %q, want H101 (sorted first)", got)
	}
	m = press(m, "tab")
	if got := m.selected(); got != "M101" {
		t.Errorf("selection after tab = %q, want M101", got)
	}
	m = press(m, "tab")
	if got := m.selected(); got != "H101" {
		t.Errorf("selection wraps to %q, want H101", got)
	}
}

func TestEditorDragMutatesModelSynchronously(t *testing.T) {
	m := newTestEditor(t)

	var before model.Position
	m.session.View(func(fs *model.Flowsheet) {
		n, _ := fs.Node("H101")
		before = n.Pos
	})

	m = press(m, "right", "right", "j")

	var after model.Position
	m.session.View(func(fs *model.Flowsheet) {
		n, _ := fs.Node("H101")
		after = n.Pos
	})
	want := model.Position{X: before.X + 2*dragStepX, Y: before.Y + dragStepY}
	if after != want {
		t.Errorf("position after drag = %+v, want %+v", after, want)
	}
}

func TestEditorConnectGesture(t *testing.T) {
	m := newTestEditor(t)

	// Designate H101 as source, pick M101 as target, link.
	m = press(m, "c", "tab", "enter")
	if m.mode != modeNormal {
		t.Errorf("mode after connect = %v, want normal", m.mode)
	}

	var found bool
	m.session.View(func(fs *model.Flowsheet) {
		for _, e := range fs.Edges() {
			if e.From == "H101" && e.To == "M101" {
				found = true
			}
		}
	})
	if !found {
		t.Error("connect gesture created no H101 -> M101 edge")
	}
}

func TestEditorConnectCancel(t *testing.T) {
	m := newTestEditor(t)
	edges := func() int {
		var n int
		m.session.View(func(fs *model.Flowsheet) { n = fs.EdgeCount() })
		return n
	}
	before := edges()
	m = press(m, "c", "esc", "enter")
	if m.mode != modeNormal {
		t.Errorf("mode after esc = %v, want normal", m.mode)
	}
	if edges() != before {
		t.Error("cancelled connect still created an edge")
	}
}

func TestEditorDelete(t *testing.T) {
	m := newTestEditor(t)
	m = press(m, "x") // deletes H101, cascading its edge

	m.session.View(func(fs *model.Flowsheet) {
		if fs.NodeCount() != 1 {
			t.Errorf("NodeCount = %d, want 1", fs.NodeCount())
		}
		if fs.EdgeCount() != 0 {
			t.Errorf("EdgeCount = %d, want 0 after cascade", fs.EdgeCount())
		}
	})
	if got := m.selected(); got != "M101" {
		t.Errorf("selection after delete = %q, want M101", got)
	}
}

func TestEditorAddAndCycleType(t *testing.T) {
	m := newTestEditor(t)
	m = press(m, "a")

	var added *model.Node
	m.session.View(func(fs *model.Flowsheet) {
		if n, ok := fs.Node("U001"); ok {
			cp := *n
			added = &cp
		}
	})
	if added == nil {
		t.Fatal("a key added no node U001")
	}
	if added.Type != model.UnitMixer {
		t.Errorf("new node type = %v, want UnitMixer", added.Type)
	}

	// Select U001 (sorted after M101) and cycle its type once.
	m = press(m, "tab", "tab", "t")
	m.session.View(func(fs *model.Flowsheet) {
		n, _ := fs.Node("U001")
		if n.Type != model.UnitSplitter {
			t.Errorf("type after cycle = %v, want UnitSplitter", n.Type)
		}
		if n.Image == "" {
			t.Error("icon not re-resolved after type cycle")
		}
	})
}

func TestEditorSaveAndReload(t *testing.T) {
	m := newTestEditor(t)
	m = press(m, "right", "s")
	if !strings.Contains(m.status, "saved") {
		t.Fatalf("status after save = %q", m.status)
	}

	got, err := vis.ReadFile(m.path, m.session.Icons())
	if err != nil {
		t.Fatal(err)
	}
	if got.NodeCount() != 2 {
		t.Errorf("saved file has %d nodes, want 2", got.NodeCount())
	}

	// Mutate, then reload: the gesture's change is replaced by file state.
	m = press(m, "x", "r")
	m.session.View(func(fs *model.Flowsheet) {
		if fs.NodeCount() != 2 {
			t.Errorf("NodeCount after reload = %d, want 2", fs.NodeCount())
		}
	})
}

func TestEditorViewClampsOffCanvasNodes(t *testing.T) {
	m := newTestEditor(t)
	err := m.session.Do(model.AddNodeCmd{
		ID: "P201", TypeTag: "Pump",
		Pos:  model.Position{X: -30, Y: -45},
		Size: model.DefaultSize(),
	})
	if err != nil {
		t.Fatal(err)
	}

	if view := m.View(); !strings.Contains(view, "P201") {
		t.Error("node with negative coordinates missing from canvas")
	}
}

func TestEditorViewRendersNodes(t *testing.T) {
	m := newTestEditor(t)
	view := m.View()
	for _, want := range []string{"M101", "H101", "streams:", "M101 → H101"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}
