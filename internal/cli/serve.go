package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/orca/internal/server"
)

// serveCommand runs the HTTP render service.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve layouts over HTTP",
		Long: `Serve layouts over HTTP.

POST a program (or tree JSON with Content-Type: application/json) to
/render?format=svg and receive the artifact. Defaults come from the
configuration file; query parameters override them per request.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.cfg.Server.Addr
			}
			return c.runServe(cmd.Context(), addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	defaults, err := c.baseOptions()
	if err != nil {
		return err
	}
	srv := server.New(server.Options{
		Runner:   runner,
		Logger:   c.Logger,
		Defaults: defaults,
	})

	printInfo("Serving on %s", addr)
	printKeyValue("font", defaults.Font)
	printKeyValue("cache", c.cfg.Cache.Backend)
	printNextStep("Try", fmt.Sprintf("curl --data 'print(1 + 2)' 'http://localhost%s/render?format=txt&measure=cell'", portOf(addr)))
	err = srv.ListenAndServe(ctx, addr, c.cfg.Server.ReadTimeout, c.cfg.Server.WriteTimeout)
	if errors.Is(err, context.Canceled) {
		printSuccess("Server stopped")
		return nil
	}
	return err
}

// portOf returns the ":port" suffix of a listen address.
func portOf(addr string) string {
	if i := strings.LastIndex(addr, ":"); i >= 0 {
		return addr[i:]
	}
	return ":" + addr
}
