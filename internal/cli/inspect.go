package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/yardbook/pkg/errors"
	"github.com/matzehuels/yardbook/pkg/scene"
	"github.com/matzehuels/yardbook/pkg/sink"
)

type inspectOpts struct {
	node     string
	depth    int
	format   string
	output   string
	detailed bool
}

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var opts inspectOpts

	cmd := &cobra.Command{
		Use:   "inspect [document.json]",
		Short: "Show the node hierarchy of a document",
		Long: `Inspect prints the node tree of a document with ids, kinds, labels and
non-identity transforms. With --format dot or svg the hierarchy is written as a
Graphviz graph instead.`,
		Example: `  yardbook inspect course.json --depth 2
  yardbook inspect course.json --node hole_07
  yardbook inspect course.json --format svg -o tree.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := scene.ReadFile(args[0])
			if err != nil {
				return err
			}

			root := doc.Root()
			if opts.node != "" {
				n, ok := doc.Lookup(opts.node)
				if !ok {
					return errors.New(errors.ErrCodeNotFound, "node %q not found", opts.node)
				}
				root = n
			}

			switch opts.format {
			case "", "text":
				fmt.Fprintln(stdout, nodeTree(root, opts.depth))
				printDetail("%d nodes · %gx%g", doc.Len(), doc.Width, doc.Height)
				return nil
			case "dot", "svg":
			default:
				return errors.New(errors.ErrCodeInvalidFormat, "invalid format %q: want text, dot or svg", opts.format)
			}

			dot := sink.ToDOT(doc, sink.DOTOptions{Detailed: opts.detailed, MaxDepth: opts.depth})
			data := []byte(dot)
			if opts.format == "svg" {
				if data, err = sink.RenderTreeSVG(cmd.Context(), dot); err != nil {
					return err
				}
			}
			if opts.output == "" {
				_, err := stdout.Write(data)
				return err
			}
			if err := os.WriteFile(opts.output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", opts.output, err)
			}
			printSuccess("Wrote node graph")
			printFile(opts.output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.node, "node", "n", "", "show only the subtree of this id or label (text output)")
	cmd.Flags().IntVar(&opts.depth, "depth", 0, "maximum depth shown (0 shows everything)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "output: text, dot or svg")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file for dot or svg (default stdout)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include labels and transforms in the graph")

	return cmd
}
