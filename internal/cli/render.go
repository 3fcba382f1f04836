package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/hydrograph/pkg/errors"
	"github.com/matzehuels/hydrograph/pkg/pipeline"
)

// renderFlags holds the command-line flags for the render command.
type renderFlags struct {
	styleFlags
	output      string
	formats     string
	legend      bool
	keep        bool
	interactive bool
	noCache     bool
	refresh     bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var f renderFlags

	cmd := &cobra.Command{
		Use:   "render [network.json]",
		Short: "Render a network to SVG, PNG, PDF or DOT",
		Long: `Render a water distribution network as an annotated graph.

Node positions come from the network coordinates, rescaled into a square
box and pinned for the neato and fdp layouts. Nodes are colored by
elevation, or by head with --color-by head and --results.

With --legend the color bar and the graph are combined into a two-page
PDF named <output>_w_cb.pdf. --keep also writes the color bar and the
graph PNG next to it.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.options(cmd, &f.styleFlags)
			opts.Legend = f.legend
			opts.Refresh = f.refresh
			if cmd.Flags().Changed("format") {
				opts.Formats = parseFormats(f.formats)
			} else if !f.legend {
				opts.Formats = c.Config.Render.Formats
			}
			if f.keep && !f.legend {
				return errors.New(errors.ErrCodeInvalidInput, "--keep only applies with --legend")
			}
			if f.keep && !opts.HasFormat(pipeline.FormatPNG) {
				opts.Formats = append(opts.Formats, pipeline.FormatPNG)
			}
			return c.runRender(cmd.Context(), args[0], opts, &f)
		},
	}

	f.register(cmd)
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "output format(s): svg (default), png, pdf, dot (comma-separated)")
	cmd.Flags().BoolVar(&f.legend, "legend", false, "write a PDF with the color bar and the graph")
	cmd.Flags().BoolVar(&f.keep, "keep", false, "keep the intermediate color bar and graph files")
	cmd.Flags().BoolVarP(&f.interactive, "interactive", "i", false, "pick the hour from the results interactively")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "re-render even when cached")

	return cmd
}

// runRender loads the inputs, runs the pipeline and writes the outputs.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, f *renderFlags) error {
	in, err := loadInputs(ctx, input, f.results)
	if err != nil {
		return err
	}

	if f.interactive {
		if in.res == nil {
			return errors.New(errors.ErrCodeInvalidInput, "--interactive needs --results")
		}
		hour, ok, err := pickTimeStep(in.res, opts.Time)
		if err != nil {
			return err
		}
		if !ok {
			return context.Canceled
		}
		opts.Time = hour
	}

	runner, err := c.newRunner(ctx, f.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s at hour %d...", in.net.Name, opts.Time))
	spinner.Start()

	result, err := runner.Execute(ctx, in.net, in.res, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if result.FellBack {
		printWarning("Layout %q unavailable, used %s", opts.Layout, result.Layout)
	}

	keys := append([]string{}, opts.Formats...)
	if opts.Legend {
		keys = append(keys, pipeline.ArtifactDocument)
		if f.keep {
			keys = append(keys, pipeline.ArtifactLegend)
		}
	}

	printSuccess("Rendered %s (hour %d)", StyleHighlight.Render(in.net.Name), result.Graph.Time)
	if err := writeArtifacts(result.Artifacts, basePath(f.output, input), keys); err != nil {
		return err
	}
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.RenderHit)
	return nil
}
