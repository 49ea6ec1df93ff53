package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/matzehuels/orca/pkg/layout"
	"github.com/matzehuels/orca/pkg/pipeline"
	"github.com/matzehuels/orca/pkg/press/cell"
	"github.com/matzehuels/orca/pkg/render/sink"
	"github.com/matzehuels/orca/pkg/tree"
)

var (
	viewHelpStyle  = lipgloss.NewStyle().Foreground(colorDim)
	viewStepsStyle = lipgloss.NewStyle().Foreground(colorGray)
	viewErrorStyle = lipgloss.NewStyle().Foreground(colorRed)
)

// viewCommand creates the interactive layout viewer.
func (c *CLI) viewCommand() *cobra.Command {
	var (
		in inputFlags
		lf layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "view [file|-]",
		Short: "Browse a text layout interactively",
		Long: `Browse a text layout interactively.

The tree is laid out in terminal cells. Arrow keys scroll; m switches the
indent mode, +/- change the line step and [/] change the indent pad.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.baseOptions()
			if err != nil {
				return err
			}
			if err := in.apply(&opts, args, cmd.InOrStdin()); err != nil {
				return err
			}
			if err := lf.apply(cmd, &opts); err != nil {
				return err
			}

			runner := pipeline.NewRunner(nil, nil, c.Logger)
			defer runner.Close()
			t, tokens, err := runner.Parse(cmd.Context(), opts)
			if err != nil {
				return err
			}

			m := newViewModel(opts.InputName(), t, tokens, opts.Steps)
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	in.register(cmd)
	lf.registerSteps(cmd)
	return cmd
}

// =============================================================================
// viewModel - scrollable cell layout
// =============================================================================

// viewModel shows a cell layout and relays it out when the steps change.
type viewModel struct {
	name   string
	tree   *tree.Tree
	tokens []string
	steps  layout.Steps

	lines  []string
	extW   int
	extH   int
	err    error
	width  int // terminal columns
	height int // terminal rows
	top    int // first visible layout row
	left   int // first visible layout column
}

// chromeRows is the number of rows taken by the header and footer.
const chromeRows = 3

func newViewModel(name string, t *tree.Tree, tokens []string, steps layout.Steps) viewModel {
	m := viewModel{name: name, tree: t, tokens: tokens, steps: steps, width: 80, height: 24}
	m.relayout()
	return m
}

func (m *viewModel) relayout() {
	l, err := layout.Compute(m.tree, m.tokens, cell.Press{}, m.steps)
	if err == nil {
		var text string
		text, err = sink.RenderText(l)
		if err == nil {
			m.lines = strings.Split(strings.TrimSuffix(text, "\n"), "\n")
			m.extW, m.extH = l.Extent()
		}
	}
	m.err = err
	m.clamp()
}

func (m *viewModel) bodyRows() int { return max(m.height-chromeRows, 1) }

func (m *viewModel) clamp() {
	m.top = max(min(m.top, m.extH-m.bodyRows()), 0)
	m.left = max(min(m.left, m.extW-m.width), 0)
}

func (m viewModel) Init() tea.Cmd {
	return nil
}

func (m viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.top--
		case "down", "j":
			m.top++
		case "left", "h":
			m.left -= 4
		case "right", "l":
			m.left += 4
		case "pgup":
			m.top -= m.bodyRows()
		case "pgdown", " ":
			m.top += m.bodyRows()
		case "home", "g":
			m.top, m.left = 0, 0
		case "m":
			if m.steps.Mode == layout.IndentFixed {
				m.steps.Mode = layout.IndentContent
			} else {
				m.steps.Mode = layout.IndentFixed
			}
			m.relayout()
		case "+", "=":
			m.steps.Line++
			m.relayout()
		case "-":
			m.steps.Line = max(m.steps.Line-1, 0)
			m.relayout()
		case "]":
			m.steps.Pad++
			m.relayout()
		case "[":
			m.steps.Pad = max(m.steps.Pad-1, 0)
			m.relayout()
		}
		m.clamp()
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.clamp()
	}
	return m, nil
}

func (m viewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.name))
	b.WriteString(" ")
	b.WriteString(viewStepsStyle.Render(fmt.Sprintf("%s  %d×%d", m.steps, m.extW, m.extH)))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(viewErrorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	} else {
		start := min(m.top, len(m.lines))
		end := min(start+m.bodyRows(), len(m.lines))
		for _, line := range m.lines[start:end] {
			b.WriteString(cropLine(line, m.left, m.width))
			b.WriteString("\n")
		}
	}

	b.WriteString(viewHelpStyle.Render("↑↓←→ scroll  m mode  +/- line step  [/] pad  q quit"))
	return b.String()
}

// cropLine returns the part of line that starts at display column left and
// fits in width columns.
func cropLine(line string, left, width int) string {
	col := 0
	for i, r := range line {
		if col >= left {
			return runewidth.Truncate(line[i:], width, "")
		}
		col += runewidth.RuneWidth(r)
	}
	return ""
}
