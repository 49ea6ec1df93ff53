package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/orca/pkg/cache"
	"github.com/matzehuels/orca/pkg/config"
)

// cacheCommand groups the cache maintenance subcommands.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear cached layouts and artifacts",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "clear",
			Short: "Delete every cached layout and artifact",
			Args:  cobra.NoArgs,
			RunE:  func(cmd *cobra.Command, _ []string) error { return c.clearCache() },
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print where the cache lives",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				loc, err := c.cacheLocation()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), loc)
				return nil
			},
		},
	)
	return cmd
}

// cacheLocation is the redis address or the file cache directory.
func (c *CLI) cacheLocation() (string, error) {
	if c.cfg.Cache.Backend == config.BackendRedis {
		return "redis://" + c.cfg.Cache.Redis.Addr, nil
	}
	dir, err := c.cacheDir()
	if err != nil {
		return "", fmt.Errorf("resolve cache dir: %w", err)
	}
	return dir, nil
}

// clearCache empties the file cache. Other backends are left alone.
func (c *CLI) clearCache() error {
	if backend := c.cfg.Cache.Backend; backend != config.BackendFile {
		printInfo("Cache backend is %s; nothing to clear locally", backend)
		return nil
	}
	dir, err := c.cacheDir()
	if err != nil {
		return fmt.Errorf("resolve cache dir: %w", err)
	}
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		printInfo("Cache is empty")
		return nil
	}

	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return err
	}
	n, err := fc.Clear()
	if err != nil {
		return err
	}
	printSuccess("Cleared %d cached entries", n)
	printDetail("Directory: %s", dir)
	return nil
}
