package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mkoster/pibauhaus/pkg/fonts"
	"github.com/mkoster/pibauhaus/pkg/pipeline"
	"github.com/mkoster/pibauhaus/pkg/render/sink"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	configPath string
	output     string
	formats    []string
	precision  int
	labels     bool
	font       string
	thumbnail  bool
	thumbEdge  int
	noCache    bool
	refresh    bool
}

// renderCommand creates the render command, the full pipeline from digit
// generation to artifact files.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{thumbEdge: sink.DefaultThumbEdge}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the poster to SVG, PNG, or JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "poster TOML config file")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output base path (without extension)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, json (comma-separated)")
	cmd.Flags().IntVar(&opts.precision, "precision", 0, "digits to place (0 fills the page)")
	cmd.Flags().BoolVar(&opts.labels, "labels", true, "draw digit glyphs inside motifs")
	cmd.Flags().StringVar(&opts.font, "font", "", "font preset for labels: "+strings.Join(fonts.Names(), ", "))
	cmd.Flags().BoolVar(&opts.thumbnail, "thumbnail", false, "also write a downscaled PNG preview")
	cmd.Flags().IntVar(&opts.thumbEdge, "thumb-edge", opts.thumbEdge, "thumbnail bounding-box edge in pixels")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when cached")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, opts *renderOpts) error {
	ov := configOverrides{
		precision:    opts.precision,
		labels:       opts.labels,
		font:         opts.font,
		precisionSet: cmd.Flags().Changed("precision"),
		labelsSet:    cmd.Flags().Changed("labels"),
		fontSet:      cmd.Flags().Changed("font"),
	}
	cfg, err := loadPosterConfig(opts.configPath, ov)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(cmd.Context(), "Rendering poster")
	spinner.Start()

	result, err := runner.Execute(cmd.Context(), pipeline.Options{
		Config:    cfg,
		Formats:   opts.formats,
		Thumbnail: opts.thumbnail,
		ThumbEdge: opts.thumbEdge,
		Refresh:   opts.refresh,
		Logger:    c.Logger,
	})
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Rendered %d digits onto %dx%d px",
		result.Stats.CellsPlaced, result.Plan.PageW, result.Plan.PageH))

	base := outputBase(opts.output, cfg.Labels.Enabled, cfg.Labels.FontPreset)
	for _, format := range opts.formats {
		path := base + "." + format
		if format == pipeline.FormatJSON {
			path = base + ".plan.json"
		}
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		printFile(path)
	}
	if opts.thumbnail {
		path := base + "_thumb.png"
		if err := os.WriteFile(path, result.Artifacts[pipeline.ThumbKey], 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		printFile(path)
	}

	printStats(result.Stats.CellsPlaced, len(result.Plan.Instructions), result.CacheInfo.RenderHit)
	if result.Feynman != nil {
		printDetail("Feynman point at %d-%d, picked out in gold", result.Feynman.Start, result.Feynman.End)
	} else {
		printDetail("No Feynman point within %d digits", result.Stats.Precision)
	}
	return nil
}

// outputBase derives the artifact base path. Posters labeled with a
// non-default font preset get a preset suffix so variants don't overwrite
// each other.
func outputBase(output string, labels bool, preset string) string {
	if output != "" {
		return output
	}
	base := defaultOutputBase
	if labels && preset != "" && preset != fonts.DefaultPreset {
		base += "_" + preset
	}
	return base
}
