package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/orca/pkg/fonts"
)

// fontsCommand lists the bundled fonts.
func (c *CLI) fontsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fonts",
		Short: "List the bundled fonts",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), fontTable(c.cfg.Font.Name))
			return nil
		},
	}
}

// fontTable renders every bundled font, marking the configured one.
func fontTable(current string) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	names := fonts.Names()

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		f, err := fonts.Lookup(name)
		if err != nil {
			continue
		}
		mark := ""
		if name == current {
			mark = iconSuccess
		}
		spacing := "proportional"
		if f.Mono {
			spacing = "monospace"
		}
		rows = append(rows, []string{mark, f.Name, f.Family, string(f.Format), spacing})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Name", "Family", "Format", "Spacing").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if row < len(rows) && rows[row][0] != "" {
				return base.Foreground(colorGreen).Bold(true)
			}
			if col >= 3 {
				return base.Foreground(colorDim)
			}
			return base.Foreground(colorWhite)
		})
	return t.Render()
}
