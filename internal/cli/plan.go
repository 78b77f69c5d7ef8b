package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mkoster/pibauhaus/pkg/pipeline"
)

// planCommand creates the plan command, which writes the composed drawing
// plan as JSON without rasterizing anything.
func (c *CLI) planCommand() *cobra.Command {
	var (
		configPath string
		output     string
		precision  int
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Compute the draw plan and write it as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			ov := configOverrides{
				precision:    precision,
				precisionSet: cmd.Flags().Changed("precision"),
			}
			cfg, err := loadPosterConfig(configPath, ov)
			if err != nil {
				return err
			}

			runner, err := c.newRunner(noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			prog := newProgress(c.Logger)
			result, err := runner.Execute(cmd.Context(), pipeline.Options{
				Config:  cfg,
				Formats: []string{pipeline.FormatJSON},
				Logger:  c.Logger,
			})
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Composed plan with %d cells", result.Stats.CellsPlaced))

			path := output + ".plan.json"
			if err := os.WriteFile(path, result.Artifacts[pipeline.FormatJSON], 0o644); err != nil {
				return fmt.Errorf("writing plan: %w", err)
			}

			printSuccess("Wrote draw plan")
			printFile(path)
			printStats(result.Stats.CellsPlaced, len(result.Plan.Instructions), result.CacheInfo.RenderHit)
			if result.Feynman != nil {
				printDetail("Feynman point at %d-%d", result.Feynman.Start, result.Feynman.End)
			}
			printDetail("Config hash: %s", result.Meta.ConfigHash)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "poster TOML config file")
	cmd.Flags().StringVarP(&output, "output", "o", defaultOutputBase, "output base path (without extension)")
	cmd.Flags().IntVar(&precision, "precision", 0, "digits to place (0 fills the page)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
