// Command orca lays out programs as trees and renders them.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/orca/internal/cli"
	orcaerrors "github.com/matzehuels/orca/pkg/errors"
	"github.com/matzehuels/orca/pkg/observability"
)

// exitInterrupted follows the shell convention of 128 + SIGINT.
const exitInterrupted = 130

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := execute(ctx)
	stop()

	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		os.Exit(exitInterrupted)
	default:
		if code := orcaerrors.GetCode(err); code != "" {
			fmt.Fprintf(os.Stderr, "orca: %s (%s)\n", orcaerrors.UserMessage(err), code)
		} else {
			fmt.Fprintln(os.Stderr, "orca:", err)
		}
		os.Exit(1)
	}
}

func execute(ctx context.Context) error {
	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()

	var verbose bool
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline, cache and server events")

	// The level must be set before the root loads its configuration.
	preRun := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
			observability.NewLogHooks(c.Logger).Register()
		}
		if preRun == nil {
			return nil
		}
		return preRun(cmd, args)
	}
	return root.ExecuteContext(ctx)
}
