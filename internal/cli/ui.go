package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ANSI 256 palette shared by every command.
var (
	colorCyan  = lipgloss.Color("36")
	colorGreen = lipgloss.Color("35")
	colorRed   = lipgloss.Color("167")
	colorBlue  = lipgloss.Color("75")
	colorWhite = lipgloss.Color("255")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")
)

var (
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleDim   = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
	styleLabel       = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconInfo    = "›"
	iconArrow   = "→"
)

// statusIcons maps each status icon to its color.
var statusIcons = map[string]lipgloss.Style{
	iconSuccess: lipgloss.NewStyle().Foreground(colorGreen),
	iconError:   lipgloss.NewStyle().Foreground(colorRed),
	iconInfo:    lipgloss.NewStyle().Foreground(colorGray),
}

// stdout receives status lines. Tests swap it for a buffer.
var stdout io.Writer = os.Stdout

func status(icon, format string, args []any) {
	fmt.Fprintln(stdout, statusIcons[icon].Render(icon)+" "+fmt.Sprintf(format, args...))
}

func printSuccess(format string, args ...any) { status(iconSuccess, format, args) }
func printError(format string, args ...any)   { status(iconError, format, args) }
func printInfo(format string, args ...any)    { status(iconInfo, format, args) }

// printDetail prints an indented, dimmed line under a status line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile reports a written artifact.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(stdout, styleLabel.Render(key)+" "+StyleValue.Render(value))
}

func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// statsView summarizes one layout for the status output.
type statsView struct {
	nodes, depth  int
	width, height int
	cached        bool
}

// String renders "10 nodes · depth 4 · 23×5 · fresh".
func (s statsView) String() string {
	origin := lipgloss.NewStyle().Foreground(colorGray).Render("fresh")
	if s.cached {
		origin = lipgloss.NewStyle().Foreground(colorGreen).Render("cached")
	}
	fields := []string{
		StyleDim.Render(fmt.Sprintf("%d nodes", s.nodes)),
		StyleDim.Render(fmt.Sprintf("depth %d", s.depth)),
		StyleDim.Render(fmt.Sprintf("%d×%d", s.width, s.height)),
		origin,
	}
	return "  " + strings.Join(fields, StyleDim.Render(" · "))
}

func printStats(s statsView) {
	fmt.Fprintln(stdout, s)
}
