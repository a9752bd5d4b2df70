package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/untangle/pkg/buildinfo"
	"github.com/matzehuels/untangle/pkg/cache"
	"github.com/matzehuels/untangle/pkg/config"
	"github.com/matzehuels/untangle/pkg/dag"
	"github.com/matzehuels/untangle/pkg/dag/transform"
	errs "github.com/matzehuels/untangle/pkg/errors"
	uio "github.com/matzehuels/untangle/pkg/io"
	"github.com/matzehuels/untangle/pkg/pipeline"
)

const appName = "untangle"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// stdout receives command output; tests replace it.
var stdout io.Writer = os.Stdout

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), cfg: config.Default()}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
// The configuration file is loaded before any subcommand runs.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "untangle reduces weighted edge crossings in layered graphs",
		Long: `untangle reorders the nodes of a layered graph to reduce weighted edge
crossings between adjacent layers, using simulated annealing over adjacent
swaps. Graphs are read from JSON; results can be cached, rendered and served
over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+defaultConfigHint()+")")

	root.AddCommand(c.countCommand())
	root.AddCommand(c.optimizeCommand())
	root.AddCommand(c.swapCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	if noCache {
		return pipeline.NewRunner(cache.NewNullCache(), nil, c.Logger), nil
	}
	store, err := c.cfg.Cache.OpenCache(ctx)
	if err != nil {
		c.Logger.Warn("cache unavailable, continuing without it", "backend", c.cfg.Cache.Backend, "err", err)
		store = cache.NewNullCache()
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

// loadGraph reads a graph or result file. With normalize the graph is made
// layered; otherwise it must already be.
func (c *CLI) loadGraph(path string, normalize bool) (*dag.DAG, error) {
	g, err := uio.ImportAny(path)
	if err != nil {
		return nil, err
	}
	if normalize {
		if st := transform.Normalize(g); st.Changed() {
			c.Logger.Debug("normalized graph", "reversed", st.Reversed, "relayered", st.Relayered, "subdividers", st.Subdividers)
		}
		return g, nil
	}
	if err := g.Validate(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeValidation, err, "%s is not layered (use --normalize)", path)
	}
	return g, nil
}

func defaultConfigHint() string {
	if p, err := config.DefaultPath(); err == nil {
		return p
	}
	return config.FileName
}
