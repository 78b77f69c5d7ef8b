// Package cli implements the pibauhaus command-line interface.
//
// Commands cover the poster pipeline end to end: digits for the stream
// alone, plan for the composed drawing plan, render for finished artifacts,
// fonts for typography debugging, serve for the HTTP preview server, and
// cache for cache upkeep. All commands support --verbose (-v) for
// debug-level logging; loggers travel on context.Context.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mkoster/pibauhaus/pkg/buildinfo"
	"github.com/mkoster/pibauhaus/pkg/cache"
	"github.com/mkoster/pibauhaus/pkg/pipeline"
	"github.com/mkoster/pibauhaus/pkg/poster"
)

const (
	// appName is the application name used for directories and display.
	appName = "pibauhaus"

	// defaultOutputBase is the artifact file name without extension.
	defaultOutputBase = "pi_bauhaus_poster"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Pibauhaus renders the digits of pi as a Bauhaus poster",
		Long:         `Pibauhaus maps each decimal of pi onto a geometric motif and lays the stream out on a poster grid with a perspective vanishing band, a pi-glyph overlay, and the Feynman point picked out in gold.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.digitsCommand())
	root.AddCommand(c.planCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.fontsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	store, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the cache directory using the XDG standard
// (~/.cache/pibauhaus/).
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

// configOverrides are the poster settings adjustable from the command line.
// Only flags the user actually set are applied over the file/default config.
type configOverrides struct {
	precision int
	labels    bool
	font      string

	precisionSet bool
	labelsSet    bool
	fontSet      bool
}

// loadPosterConfig layers an optional TOML file over the defaults and then
// applies explicit flag overrides.
func loadPosterConfig(path string, ov configOverrides) (poster.Config, error) {
	cfg := poster.Default()
	if path != "" {
		var err error
		if cfg, err = poster.LoadFile(path); err != nil {
			return poster.Config{}, err
		}
	}

	if ov.precisionSet {
		cfg.Precision = ov.precision
	}
	if ov.labelsSet {
		cfg.Labels.Enabled = ov.labels
	}
	if ov.fontSet {
		cfg.Labels.FontPreset = ov.font
	}

	if err := cfg.Validate(); err != nil {
		return poster.Config{}, err
	}
	return cfg, nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}
