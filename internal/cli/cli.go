package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stemma/pkg/buildinfo"
	"github.com/matzehuels/stemma/pkg/cache"
	"github.com/matzehuels/stemma/pkg/config"
	"github.com/matzehuels/stemma/pkg/fetch"
	"github.com/matzehuels/stemma/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "stemma"

	// layoutSuffix marks files written by the layout command.
	layoutSuffix = ".layout.json"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Stemma lays out textual-flow diagrams",
		Long: `Stemma turns Graphviz descriptions of textual-flow diagrams into drawings.

Positioned input is drawn as a stemma; grouped input can be arranged as a
hierarchical chord diagram with bundled links.`,
		Version:           buildinfo.Get().Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.loadConfig,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", os.Getenv("STEMMA_CONFIG"), "configuration file (TOML)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the configuration file and applies the log level.
// The verbose flag wins over the configured level.
func (c *CLI) loadConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.SetLogLevel(cfg.Level())
	if c.verbose {
		c.SetLogLevel(LogDebug)
	}
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. Local files are always
// readable from the command line.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, err := c.openCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	opts := c.Config.FetchOptions(store, c.Logger)
	opts.AllowFiles = true
	return pipeline.NewRunner(store, nil, fetch.NewClient(opts), c.Logger), nil
}

func (c *CLI) openCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Debug("no cache directory", "err", err)
		dir = ""
	}
	return c.Config.OpenCache(ctx, dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/stemma/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// basePath derives the base output path from the output flag and the
// input source. Known format extensions are stripped from output, and
// query strings and the layout suffix from input.
func basePath(output, input string) string {
	if output != "" {
		ext := filepath.Ext(output)
		if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
			return strings.TrimSuffix(output, ext)
		}
		return output
	}
	if i := strings.IndexByte(input, '?'); i >= 0 {
		input = input[:i]
	}
	name := filepath.Base(input)
	if trimmed, ok := strings.CutSuffix(name, layoutSuffix); ok {
		return trimmed
	}
	if name == "." || name == "/" || name == "" {
		return appName
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// =============================================================================
// Options Helpers
// =============================================================================

// applyChordDefaults fills chord options the flags left unset from the
// configuration.
func (c *CLI) applyChordDefaults(opts *pipeline.Options) {
	co := c.Config.ChordOptions()
	if opts.LeafSize == 0 {
		opts.LeafSize = co.LeafSize
	}
	if opts.Tension == 0 {
		opts.Tension = co.Tension
	}
	if opts.ReferenceCategory == "" {
		opts.ReferenceCategory = co.ReferenceCategory
	}
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var formats []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			formats = append(formats, f)
		}
	}
	return formats
}
