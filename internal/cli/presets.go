package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/drawkit/pkg/document"
)

// presetsCommand creates the "presets" command.
func (c *CLI) presetsCommand() *cobra.Command {
	var dpi float64
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List canvas presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := document.Presets()
			rows := make([][]string, len(presets))
			for i, p := range presets {
				canvas := p.Canvas()
				w, h := canvas.ToPixels(dpi)
				rows[i] = []string{
					p.Name,
					canvas.String(),
					fmt.Sprintf("%.0fx%.0f", w, h),
					strconv.FormatFloat(canvas.AspectRatio(), 'f', 2, 64),
				}
			}
			printTable([]string{"Preset", "Size", fmt.Sprintf("Pixels @%g dpi", dpi), "Aspect"}, rows)
			printNextStep("Create one", "drawkit new poster.json --preset print_a4")
			return nil
		},
	}
	cmd.Flags().Float64Var(&dpi, "dpi", document.DefaultDPI, "resolution for the pixel column")
	return cmd
}
