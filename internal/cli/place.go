package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/yardbook/pkg/config"
	"github.com/matzehuels/yardbook/pkg/errors"
	"github.com/matzehuels/yardbook/pkg/pipeline"
)

// placeOpts holds the flags of the place command. Unset placement flags keep
// the config file's values.
type placeOpts struct {
	output     string
	formats    string
	direction  string
	first      int
	last       int
	frames     bool
	background string
	refresh    bool
	noCache    bool
	strict     bool
	quiet      bool
}

// placeCommand creates the place command.
func (c *CLI) placeCommand() *cobra.Command {
	var opts placeOpts

	cmd := &cobra.Command{
		Use:   "place [document.json]",
		Short: "Fit every hole of a course onto yardage book pages",
		Long: `Place rotates each hole so it plays in the configured direction, scales it into
the placement box, and copies its green into the detail box. Outputs are written
next to the input as <name>_placed.<ext> unless --output is given.`,
		Example: `  yardbook place course.json
  yardbook place course.json -f svg,pdf --frames
  yardbook place course.json --first 10 --last 18 -o back9.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("direction") {
				cfg.Direction = opts.direction
			}
			if cmd.Flags().Changed("first") {
				cfg.FirstUnit = opts.first
			}
			if cmd.Flags().Changed("last") {
				cfg.LastUnit = opts.last
			}
			return c.runPlace(cmd.Context(), args[0], cfg, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), json, pdf, dot, tree (comma-separated)")
	cmd.Flags().StringVarP(&opts.direction, "direction", "d", "", "playing direction: up, down, left, right or degrees")
	cmd.Flags().IntVar(&opts.first, "first", 0, "first hole to place")
	cmd.Flags().IntVar(&opts.last, "last", 0, "last hole to place")
	cmd.Flags().BoolVar(&opts.frames, "frames", false, "outline the placement and detail boxes")
	cmd.Flags().StringVar(&opts.background, "background", "", "SVG background paint")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "exit with an error when any hole fails")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "skip the per-hole table")

	return cmd
}

func (c *CLI) runPlace(ctx context.Context, input string, cfg config.Config, opts placeOpts) error {
	formats := parseFormats(opts.formats)
	if err := pipeline.ValidateFormats(formats); err != nil {
		return err
	}
	data, err := readInput(input)
	if err != nil {
		return err
	}
	popts, err := cfg.PlacementOptions(c.Logger)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Placing holes %d-%d...", popts.FirstUnit, popts.LastUnit))
	spinner.Start()
	prog := newProgress(c.Logger)
	result, err := runner.Execute(ctx, pipeline.Options{
		Document:   data,
		Placement:  popts,
		Formats:    formats,
		Frames:     opts.frames,
		Background: opts.background,
		Refresh:    opts.refresh,
		Logger:     c.Logger,
	})
	if err != nil {
		spinner.StopWithError("Placement failed")
		return err
	}
	spinner.Stop()
	prog.done("placement finished", "units", result.Stats.Units)

	report := result.Report
	switch {
	case report.Failed == 0:
		printSuccess("Placed %d holes", report.Placed)
	case report.Placed == 0:
		printError("All %d holes failed", report.Failed)
	default:
		printWarning("Placed %d holes, %d failed", report.Placed, report.Failed)
	}
	printStats(result.Stats, result.CacheInfo.PlaceHit)
	if !opts.quiet && len(report.Units) > 0 {
		fmt.Fprintln(stdout, reportTable(report))
	}

	if err := writeArtifacts(result.Artifacts, outputPaths(opts.output, input, "_placed", formats), formats); err != nil {
		return err
	}

	if opts.strict && report.Failed > 0 {
		return errors.New(errors.ErrCodeInternal, "%d of %d holes failed: %v", report.Failed, len(report.Units), report.FailedUnits())
	}
	return nil
}

// readInput reads a document file, mapping a missing file to FILE_NOT_FOUND.
func readInput(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "document %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
