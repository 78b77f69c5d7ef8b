package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mkoster/pibauhaus/pkg/fonts"
)

// fontsCommand creates the fonts command, a debug tool for typography
// resolution.
func (c *CLI) fontsCommand() *cobra.Command {
	var pick bool

	cmd := &cobra.Command{
		Use:   "fonts",
		Short: "List font presets and their resolved files",
		RunE: func(cmd *cobra.Command, args []string) error {
			if pick {
				return runFontPicker()
			}

			for _, name := range fonts.Names() {
				preset, err := fonts.Lookup(name)
				if err != nil {
					return err
				}

				label := name
				if name == fonts.DefaultPreset {
					label += " (default)"
				}
				printKeyValue(label, preset.CSSStack)

				if path, err := fonts.Resolve(name); err == nil {
					printDetail("file: %s", path)
				} else {
					printWarning("no file found for %s, PNG labels will fail", name)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&pick, "pick", false, "pick a preset interactively")

	return cmd
}

// runFontPicker shows the interactive preset list and prints the selection
// as a ready-to-use render flag.
func runFontPicker() error {
	model := NewPresetListModel(fonts.Names())
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return fmt.Errorf("running preset picker: %w", err)
	}

	m, ok := final.(PresetListModel)
	if !ok || m.Selected == "" {
		printInfo("No preset selected")
		return nil
	}

	printSuccess("Selected %s", m.Selected)
	printDetail("render with: %s render --labels --font %s", appName, m.Selected)
	return nil
}
