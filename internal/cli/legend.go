package cli

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/hydrograph/pkg/annotate"
	"github.com/matzehuels/hydrograph/pkg/errors"
	"github.com/matzehuels/hydrograph/pkg/render/legend"
)

// legendCommand creates the legend command, which writes only the color bar.
func (c *CLI) legendCommand() *cobra.Command {
	var (
		f      styleFlags
		output string
		format string
	)

	cmd := &cobra.Command{
		Use:   "legend [network.json]",
		Short: "Write the color bar for a network",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !legend.Formats[format] {
				return errors.New(errors.ErrCodeInvalidFormat, "invalid legend format %q (must be png, svg or pdf)", format)
			}
			opts := c.options(cmd, &f)
			return c.runLegend(cmd.Context(), args[0], f.results, opts.AnnotateOptions(), output, format)
		},
	}

	f.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <network>_cb.<format>)")
	cmd.Flags().StringVarP(&format, "format", "f", "png", "output format: png, svg, pdf")
	return cmd
}

func (c *CLI) runLegend(ctx context.Context, input, resultsPath string, opts annotate.Options, output, format string) error {
	in, err := loadInputs(ctx, input, resultsPath)
	if err != nil {
		return err
	}
	g, err := annotate.Build(in.net, in.res, opts)
	if err != nil {
		return err
	}
	data, err := legend.Render(g.Legend, format, legend.Options{})
	if err != nil {
		return err
	}

	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + suffixLegend + "." + format
	}
	printSuccess("%s %s", g.Legend.Label, StyleDim.Render(formatRange(g.Legend.Min, g.Legend.Max)))
	return writeFile(output, data)
}
