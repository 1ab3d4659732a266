package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/blockgrid/pkg/constraint"
	"github.com/matzehuels/blockgrid/pkg/engine"
	"github.com/matzehuels/blockgrid/pkg/geom"
	"github.com/matzehuels/blockgrid/pkg/grid"
	"github.com/matzehuels/blockgrid/pkg/group"
)

// demoCommand creates the demo command, an interactive terminal playground
// for grid snapping and group constraints.
func (c *CLI) demoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Interactive playground for snapping and constraints",
		Long: `Demo renders a small canvas in the terminal. Arrow keys drag a node,
space drops it, and the engine applies the same snapping and group
constraints it applies for a real canvas UI.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			m, err := newDemoModel(cfg.Grid, cfg.Groups, cfg.Constraint.Padding)
			if err != nil {
				return err
			}

			p := tea.NewProgram(m)
			_, err = p.Run()
			return err
		},
	}
}

// =============================================================================
// DemoModel - Interactive snapping/constraint playground
// =============================================================================

// Canvas dimensions in pixels and the pixel footprint of one terminal cell.
const (
	demoCanvasWidth  = 560.0
	demoCanvasHeight = 320.0
	demoCellWidth    = 10.0
	demoCellHeight   = 20.0
	demoStep         = 5.0
)

var (
	demoBorderStyle = lipgloss.NewStyle().Foreground(colorDim)
	demoNodeStyle   = lipgloss.NewStyle().Foreground(colorCyan)
	demoDragStyle   = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	demoGroupStyle  = lipgloss.NewStyle().Foreground(colorGray)
)

// demoModel is the bubbletea model driving the playground. One node is
// movable and grouped with a fixed anchor node, so group constraints engage
// near the container edges.
type demoModel struct {
	eng     *engine.Engine
	groupID string

	pos      geom.Point // raw position of the movable node
	result   engine.Result
	dragging bool
	status   string
	err      error
}

const demoNodeID = "mover"

func newDemoModel(gcfg grid.Config, bcfg group.BoundsConfig, padding float64) (demoModel, error) {
	eng, err := engine.New(engine.Options{
		Grid:              gcfg,
		Bounds:            bcfg,
		ConstraintPadding: padding,
	})
	if err != nil {
		return demoModel{}, err
	}

	eng.SetNodes([]group.Node{
		{ID: demoNodeID, Position: geom.Point{X: 120, Y: 100}, Size: geom.Size{Width: 60, Height: 40}},
		{ID: "anchor", Position: geom.Point{X: 280, Y: 160}, Size: geom.Size{Width: 60, Height: 40}},
	})
	g, err := eng.CreateGroup(context.Background(), group.CreateParams{
		NodeIDs: []string{demoNodeID, "anchor"},
		Title:   "Demo",
	})
	if err != nil {
		return demoModel{}, err
	}

	return demoModel{
		eng:     eng,
		groupID: g.ID,
		pos:     geom.Point{X: 120, Y: 100},
		status:  "arrows: drag  space: drop  g: grid  m: mode  q: quit",
	}, nil
}

func (m demoModel) Init() tea.Cmd {
	return nil
}

func (m demoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		return m.move(0, -demoStep), nil
	case "down", "j":
		return m.move(0, demoStep), nil
	case "left", "h":
		return m.move(-demoStep, 0), nil
	case "right", "l":
		return m.move(demoStep, 0), nil

	case " ", "enter":
		if !m.dragging {
			return m, nil
		}
		res, err := m.eng.DragStop(context.Background(), demoNodeID, m.pos)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.result = res
		m.pos = res.Position
		m.dragging = false

	case "esc":
		if m.dragging {
			m.eng.CancelDrag(context.Background())
			m.dragging = false
			if n, ok := m.eng.Node(demoNodeID); ok {
				m.pos = n.Position
			}
			m.result = engine.Result{Position: m.pos}
		}

	case "g":
		cfg := m.eng.Grid().Config()
		cfg.Enabled = !cfg.Enabled
		m.err = m.eng.Grid().SetConfig(cfg)

	case "m":
		if m.eng.Mode() == constraint.ModeClamp {
			m.eng.SetMode(constraint.ModeExpand)
		} else {
			m.eng.SetMode(constraint.ModeClamp)
		}
	}

	return m, nil
}

// move starts a gesture on the first keypress and feeds subsequent moves
// through the engine's drag callback.
func (m demoModel) move(dx, dy float64) demoModel {
	next := m.pos.Add(dx, dy)

	if !m.dragging {
		if err := m.eng.DragStart(context.Background(), demoNodeID, m.pos); err != nil {
			m.err = err
			return m
		}
		m.dragging = true
	}

	res, err := m.eng.Drag(context.Background(), demoNodeID, next)
	if err != nil {
		m.err = err
		return m
	}
	m.result = res
	m.pos = res.Position
	return m
}

func (m demoModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Blockgrid Playground"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(m.status))
	b.WriteString("\n\n")

	b.WriteString(m.renderCanvas())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(StyleWarning.Render("! " + m.err.Error()))
	}
	return b.String()
}

// renderCanvas rasterizes the canvas into terminal cells: group bounds as a
// box outline, nodes as filled blocks.
func (m demoModel) renderCanvas() string {
	cols := int(demoCanvasWidth / demoCellWidth)
	rows := int(demoCanvasHeight / demoCellHeight)

	type cell struct {
		ch    string
		style lipgloss.Style
	}
	canvas := make([][]cell, rows)
	for y := range canvas {
		canvas[y] = make([]cell, cols)
		for x := range canvas[y] {
			canvas[y][x] = cell{ch: " "}
		}
	}

	plot := func(px, py float64, ch string, style lipgloss.Style) {
		cx := int(px / demoCellWidth)
		cy := int(py / demoCellHeight)
		if cx >= 0 && cx < cols && cy >= 0 && cy < rows {
			canvas[cy][cx] = cell{ch: ch, style: style}
		}
	}

	if g := m.eng.Groups().State().Group(m.groupID); g != nil {
		r := g.Bounds
		for px := r.X; px <= r.MaxX(); px += demoCellWidth {
			plot(px, r.Y, "·", demoGroupStyle)
			plot(px, r.MaxY(), "·", demoGroupStyle)
		}
		for py := r.Y; py <= r.MaxY(); py += demoCellHeight {
			plot(r.X, py, "·", demoGroupStyle)
			plot(r.MaxX(), py, "·", demoGroupStyle)
		}
	}

	for _, n := range m.eng.Nodes() {
		style := demoNodeStyle
		if n.ID == demoNodeID {
			if m.dragging {
				style = demoDragStyle
			}
		}
		r := n.Rect()
		for px := r.X; px < r.MaxX(); px += demoCellWidth {
			for py := r.Y; py < r.MaxY(); py += demoCellHeight {
				plot(px, py, "█", style)
			}
		}
	}

	var b strings.Builder
	b.WriteString(demoBorderStyle.Render("┌" + strings.Repeat("─", cols) + "┐"))
	b.WriteString("\n")
	for y := 0; y < rows; y++ {
		b.WriteString(demoBorderStyle.Render("│"))
		for x := 0; x < cols; x++ {
			c := canvas[y][x]
			if c.ch == " " {
				b.WriteString(" ")
			} else {
				b.WriteString(c.style.Render(c.ch))
			}
		}
		b.WriteString(demoBorderStyle.Render("│"))
		b.WriteString("\n")
	}
	b.WriteString(demoBorderStyle.Render("└" + strings.Repeat("─", cols) + "┘"))
	return b.String()
}

func (m demoModel) renderStatus() string {
	gridCfg := m.eng.Grid().Config()

	parts := []string{
		fmt.Sprintf("pos (%g, %g)", m.pos.X, m.pos.Y),
		fmt.Sprintf("grid %s", onOff(gridCfg.Enabled)),
		fmt.Sprintf("mode %s", m.eng.Mode()),
	}
	if m.dragging {
		parts = append(parts, StyleHighlight.Render("dragging"))
	}
	if m.result.SnapPreview {
		parts = append(parts, StyleSuccess.Render("snap"))
	}
	if m.result.Constrained {
		parts = append(parts, StyleWarning.Render("constrained"))
	}
	return StyleDim.Render("  ") + strings.Join(parts, StyleDim.Render("  |  "))
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
