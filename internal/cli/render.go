package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/yardbook/pkg/errors"
	"github.com/matzehuels/yardbook/pkg/pipeline"
)

type renderOpts struct {
	output     string
	formats    string
	frames     bool
	background string
}

// renderCommand creates the render command, which draws a document without
// placing it. It is typically fed the JSON output of place.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [document.json]",
		Short: "Render a document to SVG, PDF or a node graph as is",
		Example: `  yardbook place course.json -f json
  yardbook render course_placed.json -f pdf --frames`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := parseFormats(opts.formats)
			if err := pipeline.ValidateFormats(formats); err != nil {
				return err
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			popts, err := cfg.PlacementOptions(c.Logger)
			if err != nil {
				return err
			}
			data, err := readInput(args[0])
			if err != nil {
				return err
			}

			runner := pipeline.NewRunner(nil, nil, c.Logger)
			doc, err := runner.Decode(cmd.Context(), data)
			if err != nil {
				return err
			}
			prog := newProgress(c.Logger)
			artifacts, err := pipeline.Render(cmd.Context(), doc, pipeline.Options{
				Placement:  popts,
				Formats:    formats,
				Frames:     opts.frames,
				Background: opts.background,
			})
			if err != nil {
				return err
			}
			prog.done("rendered", "formats", formats)

			paths := outputPaths(opts.output, args[0], "", formats)
			for f, p := range paths {
				if filepath.Clean(p) == filepath.Clean(args[0]) {
					return errors.New(errors.ErrCodeInvalidInput, "%s output would overwrite the input; pass --output", f)
				}
			}
			printSuccess("Rendered %d nodes", doc.Len())
			return writeArtifacts(artifacts, paths, formats)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), pdf, dot, tree (comma-separated)")
	cmd.Flags().BoolVar(&opts.frames, "frames", false, "outline the placement and detail boxes")
	cmd.Flags().StringVar(&opts.background, "background", "", "SVG background paint")

	return cmd
}
