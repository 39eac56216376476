package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/stemma/pkg/graph"
)

// out receives user-facing output. Logs go to the logger's writer.
var out io.Writer = os.Stdout

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	StyleLink      = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(colorWhite)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
	styleCached      = lipgloss.NewStyle().Foreground(colorGreen)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

func printLine(icon lipgloss.Style, glyph, format string, args ...any) {
	fmt.Fprintln(out, icon.Render(glyph)+" "+fmt.Sprintf(format, args...))
}

func printSuccess(format string, args ...any) { printLine(styleIconSuccess, iconSuccess, format, args...) }
func printError(format string, args ...any) { printLine(styleIconError, iconError, format, args...) }
func printInfo(format string, args ...any) { printLine(styleIconInfo, iconInfo, format, args...) }

func printWarning(format string, args ...any) {
	fmt.Fprintln(out, StyleWarning.Render(iconWarning+" "+fmt.Sprintf(format, args...)))
}

func printDetail(format string, args ...any) {
	fmt.Fprintln(out, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(path string) {
	fmt.Fprintln(out, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(out, styleKey.Render(key)+" "+StyleValue.Render(value))
}

func printNextStep(description, cmd string) {
	fmt.Fprintln(out, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

func printNewline() { fmt.Fprintln(out) }

// statsLine summarises a layout, e.g. "12 nodes · 11 edges · 3 groups · cached".
func statsLine(l *graph.Layout, cached bool) string {
	var parts []string
	add := func(n int, unit string) {
		if n > 0 {
			parts = append(parts, StyleDim.Render(fmt.Sprintf("%d %s", n, unit)))
		}
	}
	add(l.Stats.Nodes, "nodes")
	add(l.Stats.Edges, "edges")
	add(len(l.Groups), "groups")

	if cached {
		parts = append(parts, styleCached.Render("cached"))
	} else {
		parts = append(parts, StyleDim.Render("fresh"))
	}
	return strings.Join(parts, StyleDim.Render(" · "))
}

// printLayoutSummary prints the stats line, the title, the link crossings
// of chord layouts and a warning when elements were skipped.
func printLayoutSummary(l *graph.Layout, cached bool) {
	if l == nil {
		return
	}
	fmt.Fprintln(out, "  "+statsLine(l, cached))
	if l.Title != "" {
		printKeyValue("title", StyleHighlight.Render(l.Title))
	}
	if l.IsChord() {
		printKeyValue("crossings", StyleHighlight.Render(fmt.Sprint(l.Crossings)))
	}
	if l.Stats.Skipped > 0 {
		printWarning("%d elements skipped (run with -v for details)", l.Stats.Skipped)
	}
}
