package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/yardbook/pkg/pipeline"
	"github.com/matzehuels/yardbook/pkg/scene"
)

// measureCommand creates the measure command.
func (c *CLI) measureCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "measure [document.json] [id...]",
		Short: "Report canonical bounds and cumulative scale of nodes",
		Long: `Measure prints the bounding box of each named node in document coordinates,
along with the scale its transform chain applies. Nodes are named by id or
label; with none, every top-level node is measured. The document is not changed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := scene.ReadFile(args[0])
			if err != nil {
				return err
			}
			ms, err := pipeline.Measure(doc, args[1:]...)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(ms)
			}
			if len(ms) == 0 {
				printInfo("Nothing to measure")
				return nil
			}
			fmt.Fprintln(stdout, measureTable(ms))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print measurements as JSON")
	return cmd
}
