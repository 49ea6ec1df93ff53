package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	orcaio "github.com/matzehuels/orca/pkg/io"
	"github.com/matzehuels/orca/pkg/pipeline"
)

// treeCommand creates the tree command, which prints the flattened tree.
func (c *CLI) treeCommand() *cobra.Command {
	var (
		in     inputFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "tree [file|-]",
		Short: "Flatten a program into tree JSON",
		Long: `Flatten a program into tree JSON.

Every node is listed in pre-order with its token and branch count. The
output can be edited and passed back to 'orca render' as a .json file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.Options{Logger: c.Logger}
			if err := in.apply(&opts, args, cmd.InOrStdin()); err != nil {
				return err
			}
			return c.runTree(cmd.Context(), opts, output)
		},
	}

	in.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func (c *CLI) runTree(ctx context.Context, opts pipeline.Options, output string) error {
	runner := pipeline.NewRunner(nil, nil, c.Logger)
	defer runner.Close()

	t, tokens, err := runner.Parse(ctx, opts)
	if err != nil {
		return err
	}
	if output == "" || output == "-" {
		out, _ := openOutput(output)
		return orcaio.WriteTree(t, tokens, out)
	}
	if err := orcaio.ExportTree(t, tokens, output); err != nil {
		return fmt.Errorf("export tree: %w", err)
	}
	printSuccess("Flattened %s", opts.InputName())
	printFile(output)
	printDetail("%d nodes", t.Len())
	printNextStep("Render", "orca render "+output)
	return nil
}
