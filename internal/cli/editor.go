package cli

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/flowvis/flowvis/pkg/model"
	"github.com/flowvis/flowvis/pkg/vis"
)

// Canvas-to-cell scale. One terminal cell spans this many canvas units;
// node drag gestures move in whole steps so positions stay on the grid.
const (
	cellUnitsX = 10
	cellUnitsY = 20

	dragStepX = 2 * cellUnitsX
	dragStepY = cellUnitsY
)

// editorMode is the gesture mode of the canvas.
type editorMode int

const (
	modeNormal  editorMode = iota
	modeConnect            // a source node is designated, awaiting a target
)

// editorModel is the bubbletea model for the interactive canvas. All graph
// truth lives in the session; the model holds only ephemeral view state
// (selection, pending connect source, status line). Every gesture applies
// a model command synchronously in Update, before the next View, so canvas
// and graph never diverge across a frame.
type editorModel struct {
	session *vis.Session
	loader  *vis.Loader
	path    string

	ids     []string // node IDs sorted, the selection ring
	sel     int
	mode    editorMode
	pending string // connect-mode source node
	status  string
	dirty   bool
	nextID  int // counter for generated node IDs

	width  int
	height int
}

func newEditorModel(session *vis.Session, path string) editorModel {
	m := editorModel{
		session: session,
		loader:  vis.NewLoader(session),
		path:    path,
		width:   80,
		height:  24,
	}
	m.refreshIDs()
	m.status = "tab select · arrows move · c connect · a add · t type · x delete · s save · q quit"
	return m
}

func (m *editorModel) refreshIDs() {
	var ids []string
	m.session.View(func(fs *model.Flowsheet) {
		for _, n := range fs.Nodes() {
			ids = append(ids, n.ID)
		}
	})
	sort.Strings(ids)
	m.ids = ids
	if m.sel >= len(ids) {
		m.sel = 0
	}
}

func (m editorModel) selected() string {
	if len(m.ids) == 0 {
		return ""
	}
	return m.ids[m.sel]
}

// do applies a mutation command and reports the outcome on the status line.
func (m *editorModel) do(cmd model.Command) {
	if err := m.session.Do(cmd); err != nil {
		m.status = err.Error()
		return
	}
	m.dirty = true
	m.status = cmd.String()
	m.refreshIDs()
}

func (m editorModel) Init() tea.Cmd {
	return nil
}

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m editorModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		if m.mode == modeConnect {
			m.mode = modeNormal
			m.pending = ""
			m.status = "connect cancelled"
		}
		return m, nil
	case "tab", "down":
		if len(m.ids) > 0 {
			m.sel = (m.sel + 1) % len(m.ids)
		}
		return m, nil
	case "shift+tab", "up":
		if len(m.ids) > 0 {
			m.sel = (m.sel - 1 + len(m.ids)) % len(m.ids)
		}
		return m, nil
	}

	if m.mode == modeConnect {
		if key == "enter" {
			target := m.selected()
			if target == "" {
				return m, nil
			}
			m.do(model.ConnectCmd{From: m.pending, To: target})
			m.mode = modeNormal
			m.pending = ""
		}
		return m, nil
	}

	switch key {
	case "left", "h":
		m.drag(-dragStepX, 0)
	case "right", "l":
		m.drag(dragStepX, 0)
	case "k":
		m.drag(0, -dragStepY)
	case "j":
		m.drag(0, dragStepY)
	case "c":
		if id := m.selected(); id != "" {
			m.mode = modeConnect
			m.pending = id
			m.status = fmt.Sprintf("connect %s -> ? (tab to pick target, enter to link, esc to cancel)", id)
		}
	case "a":
		m.nextID++
		m.do(model.AddNodeCmd{ID: fmt.Sprintf("U%03d", m.nextID), TypeTag: "Mixer", Auto: true})
	case "t":
		m.cycleType()
	case "x":
		if id := m.selected(); id != "" {
			m.do(model.DeleteNodeCmd{ID: id})
		}
	case "s":
		if err := m.session.SaveFile(m.path); err != nil {
			m.status = "save failed: " + err.Error()
		} else {
			m.dirty = false
			m.status = "saved " + m.path
		}
	case "r":
		if err := m.loader.LoadFile(m.path); err != nil {
			// The on-screen diagram is untouched on a failed load.
			m.status = "load failed: " + err.Error()
		} else {
			m.dirty = false
			m.status = "reloaded " + m.path
			m.refreshIDs()
		}
	}
	return m, nil
}

// drag moves the selected node by a step in canvas units, clamped at the
// canvas origin.
func (m *editorModel) drag(dx, dy float64) {
	id := m.selected()
	if id == "" {
		return
	}
	var pos model.Position
	ok := false
	m.session.View(func(fs *model.Flowsheet) {
		if n, found := fs.Node(id); found {
			pos = n.Pos
			ok = true
		}
	})
	if !ok {
		return
	}
	pos.X = max(0, pos.X+dx)
	pos.Y = max(0, pos.Y+dy)
	m.do(model.MoveNodeCmd{ID: id, Pos: pos})
}

// cycleType advances the selected node through the known unit types.
func (m *editorModel) cycleType() {
	id := m.selected()
	if id == "" {
		return
	}
	var cur model.UnitType
	m.session.View(func(fs *model.Flowsheet) {
		if n, found := fs.Node(id); found {
			cur = n.Type
		}
	})
	types := model.UnitTypes()
	next := types[0]
	for i, u := range types {
		if u == cur {
			next = types[(i+1)%len(types)]
			break
		}
	}
	m.do(model.SetTypeCmd{ID: id, TypeTag: next.String()})
}

func (m editorModel) View() string {
	var b strings.Builder

	title := "flowvis · " + m.path
	if m.dirty {
		title += " *"
	}
	b.WriteString(styleTitle.Render(title))
	b.WriteString("\n\n")
	b.WriteString(m.renderCanvas())
	b.WriteString("\n")
	b.WriteString(m.renderStreams())
	b.WriteString("\n")

	status := m.status
	if m.mode == modeConnect {
		status = stylePending.Render("connect") + " " + status
	}
	b.WriteString(styleDim.Render(status))
	b.WriteString("\n")
	return b.String()
}

// renderCanvas paints nodes at their scaled canvas positions. Rows are
// assembled as strings so styled labels keep their width.
func (m editorModel) renderCanvas() string {
	type cell struct {
		col   int
		label string
		style lipgloss.Style
	}

	canvasH := m.height - 10
	if canvasH < 5 {
		canvasH = 5
	}
	rows := make(map[int][]cell)

	m.session.View(func(fs *model.Flowsheet) {
		for _, n := range fs.Nodes() {
			// Clamp to the visible canvas; files may carry coordinates the
			// drag gestures never produce.
			row := int(n.Pos.Y / cellUnitsY)
			col := int(n.Pos.X / cellUnitsX)
			if row < 0 {
				row = 0
			}
			if col < 0 {
				col = 0
			}
			if row >= canvasH {
				row = canvasH - 1
			}

			style := styleNode
			switch n.ID {
			case m.pending:
				style = stylePending
			case m.selected():
				style = styleSelected
			}
			label := "[" + n.ID + "]"
			if n.Image == "" && n.TypeTag != "" {
				// No icon mapping; make the degraded rendering visible.
				label = "(" + n.ID + ")"
			}
			rows[row] = append(rows[row], cell{col: col, label: label, style: style})
		}
	})

	var b strings.Builder
	for row := 0; row < canvasH; row++ {
		cells := rows[row]
		sort.Slice(cells, func(i, j int) bool { return cells[i].col < cells[j].col })
		line := ""
		used := 0
		for _, c := range cells {
			pad := c.col - used
			if pad < 0 {
				pad = 1
			}
			line += strings.Repeat(" ", pad) + c.style.Render(c.label)
			used = c.col + len(c.label)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// renderStreams lists edges; terminal canvases cannot draw sensible arrows
// between arbitrary positions, so connections get a textual sidebar.
func (m editorModel) renderStreams() string {
	var lines []string
	m.session.View(func(fs *model.Flowsheet) {
		for _, e := range fs.Edges() {
			s := fmt.Sprintf("%s → %s", e.From, e.To)
			if e.FromPort != "" || e.ToPort != "" {
				s = fmt.Sprintf("%s.%s → %s.%s", e.From, e.FromPort, e.To, e.ToPort)
			}
			lines = append(lines, s)
		}
	})
	if len(lines) == 0 {
		return styleDim.Render("no streams")
	}
	return styleDim.Render("streams: ") + strings.Join(lines, "  ")
}
