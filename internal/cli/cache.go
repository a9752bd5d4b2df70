package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/untangle/pkg/cache"
	"github.com/matzehuels/untangle/pkg/config"
	errs "github.com/matzehuels/untangle/pkg/errors"
)

func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the result cache",
	}
	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())
	return cmd
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if c.cfg.Cache.Backend == config.BackendNone {
				printInfo("Caching is disabled")
				return nil
			}
			store, err := c.cfg.Cache.OpenCache(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			clearer, ok := store.(cache.Clearer)
			if !ok {
				return errs.New(errs.ErrCodeUnsupported, "cache backend %q cannot be cleared", c.cfg.Cache.Backend)
			}
			if err := clearer.Clear(ctx); err != nil {
				return err
			}
			printSuccess("Cleared cached results")
			printDetail("Location: %s", cacheLocation(c.cfg.Cache))
			return nil
		},
	}
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where results are cached",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.cfg.Cache.Backend == config.BackendNone {
				return errs.New(errs.ErrCodeNotFound, "caching is disabled")
			}
			fmt.Fprintln(stdout, cacheLocation(c.cfg.Cache))
			return nil
		},
	}
}

// cacheLocation is the cache directory, or a redis:// URL for Redis.
func cacheLocation(cfg config.CacheConfig) string {
	switch cfg.Backend {
	case config.BackendRedis:
		return fmt.Sprintf("redis://%s/%d", cfg.RedisAddr, cfg.RedisDB)
	case config.BackendNone:
		return ""
	}
	if cfg.Dir != "" {
		return cfg.Dir
	}
	dir, err := cache.DefaultDir()
	if err != nil {
		return ""
	}
	return dir
}
