package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mkoster/pibauhaus/pkg/digits"
	"github.com/mkoster/pibauhaus/pkg/errors"
)

const digitsPreviewLen = 60

// digitsCommand creates the digits command, exercising the digit stage alone.
func (c *CLI) digitsCommand() *cobra.Command {
	var (
		precision int
		noCache   bool
		refresh   bool
	)

	cmd := &cobra.Command{
		Use:   "digits",
		Short: "Compute digits of pi and locate the Feynman point",
		RunE: func(cmd *cobra.Command, args []string) error {
			if precision <= 0 {
				return errors.New(errors.ErrCodeInvalidPrecision, "precision must be positive, got %d", precision)
			}
			if err := errors.ValidatePrecision(precision); err != nil {
				return err
			}

			runner, err := c.newRunner(noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			prog := newProgress(c.Logger)
			stream, cached, err := runner.DigitsWithCacheInfo(cmd.Context(), precision, refresh)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Generated %d digits", stream.Len()))

			preview := stream.Prefix(digitsPreviewLen)
			if stream.Len() > digitsPreviewLen {
				preview += "…"
			}
			printKeyValue("digits", "3."+preview)

			if run, found := digits.LocateFeynman(stream); found {
				printKeyValue("feynman", fmt.Sprintf("positions %d-%d after the decimal point", run.Start, run.End))
			} else {
				printKeyValue("feynman", fmt.Sprintf("no run of six nines within %d digits", stream.Len()))
			}

			printDigitStats(stream.Len(), cached)
			return nil
		},
	}

	cmd.Flags().IntVarP(&precision, "precision", "n", 1000, "number of decimal digits to compute")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the digit cache")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even when cached")

	return cmd
}
