package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/lipgloss/tree"

	"github.com/matzehuels/yardbook/pkg/pipeline"
	"github.com/matzehuels/yardbook/pkg/placement"
	"github.com/matzehuels/yardbook/pkg/scene"
)

// stdout receives all user-facing output. Tests swap it for a buffer.
var stdout io.Writer = os.Stdout

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - links
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleHeader  = lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	styleCell    = lipgloss.NewStyle().Padding(0, 1)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Fprintln(stdout, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Fprintln(stdout, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Fprintln(stdout, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Fprintln(stdout, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Fprintln(stdout, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// =============================================================================
// Stats Display
// =============================================================================

// printStats prints run statistics on a single line.
func printStats(stats pipeline.Stats, cached bool) {
	parts := []string{
		fmt.Sprintf("%d nodes", stats.NodeCount),
		fmt.Sprintf("%d/%d placed", stats.Placed, stats.Units),
	}
	if stats.Failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", stats.Failed))
	}

	status, statusStyle := iconFresh, styleComputed
	if cached {
		status, statusStyle = iconCached, styleCached
	}

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	line += StyleDim.Render(" · ") + statusStyle.Render(status)
	fmt.Fprintln(stdout, line)
}

// =============================================================================
// Tables
// =============================================================================

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...)
}

// reportTable renders one row per unit.
func reportTable(r *placement.Report) string {
	rows := make([][]string, 0, len(r.Units))
	for _, u := range r.Units {
		note := ""
		switch {
		case u.Error != nil:
			note = u.Error.String()
		case len(u.Warnings) > 0:
			note = u.Warnings[0].String()
			if len(u.Warnings) > 1 {
				note += fmt.Sprintf(" (+%d)", len(u.Warnings)-1)
			}
		}
		rows = append(rows, []string{
			strconv.Itoa(u.Unit),
			u.ID,
			u.State.String(),
			fmtFloat(u.Rotation) + "°",
			fmtFloat(u.Scale),
			u.GreenClone,
			strconv.Itoa(u.Strokes),
			note,
		})
	}

	return newTable("#", "Unit", "State", "Rotation", "Scale", "Green", "Strokes", "Note").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			u := r.Units[row]
			switch {
			case col == 2 && u.Failed():
				return styleCell.Foreground(colorRed)
			case col == 2:
				return styleCell.Foreground(colorGreen)
			case col == 7 && len(u.Warnings) > 0 && !u.Failed():
				return styleCell.Foreground(colorYellow)
			case col == 7:
				return styleCell.Foreground(colorDim)
			}
			return styleCell
		}).
		Render()
}

// measureTable renders one row per measured node.
func measureTable(ms []pipeline.Measurement) string {
	rows := make([][]string, 0, len(ms))
	for _, m := range ms {
		rows = append(rows, []string{
			m.Path,
			fmtFloat(m.Bounds.X),
			fmtFloat(m.Bounds.Y),
			fmtFloat(m.Bounds.Width),
			fmtFloat(m.Bounds.Height),
			fmtFloat(m.Scale.X),
			fmtFloat(m.Scale.Y),
			m.Warning,
		})
	}
	return newTable("Node", "X", "Y", "Width", "Height", "Scale X", "Scale Y", "Warning").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			if col == 7 {
				return styleCell.Foreground(colorYellow)
			}
			return styleCell
		}).
		Render()
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// =============================================================================
// Trees
// =============================================================================

// nodeTree renders the subtree of n as an indented tree. depth limits the
// levels shown below n; zero shows everything.
func nodeTree(n *scene.Node, depth int) string {
	t := tree.Root(nodeLine(n)).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(StyleDim)
	addChildren(t, n, depth, 1)
	return t.String()
}

func addChildren(t *tree.Tree, n *scene.Node, depth, level int) {
	for _, c := range n.Children() {
		if depth > 0 && level > depth {
			t.Child(StyleDim.Render(fmt.Sprintf("… %d more", n.NumChildren())))
			return
		}
		if c.NumChildren() == 0 {
			t.Child(nodeLine(c))
			continue
		}
		sub := tree.Root(nodeLine(c))
		addChildren(sub, c, depth, level+1)
		t.Child(sub)
	}
}

func nodeLine(n *scene.Node) string {
	name := n.ID()
	if name == "" {
		name = StyleDim.Render("(anonymous)")
	} else {
		name = StyleValue.Render(name)
	}
	line := name + " " + StyleDim.Render(n.Kind().String())
	if n.Label != "" && n.Label != n.ID() {
		line += " " + StyleTitle.Render(n.Label)
	}
	if !n.Transform.IsIdentity() {
		line += " " + StyleDim.Render(n.Transform.String())
	}
	return line
}
