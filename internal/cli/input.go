package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/hydrograph/pkg/network"
	"github.com/matzehuels/hydrograph/pkg/pipeline"
	"github.com/matzehuels/hydrograph/pkg/render/nodelink"
	"github.com/matzehuels/hydrograph/pkg/results"
)

// inputs is a loaded network with optional simulation results.
type inputs struct {
	net *network.Network
	res *results.Results
}

// loadInputs reads the network and, when resultsPath is set, the results.
func loadInputs(ctx context.Context, networkPath, resultsPath string) (*inputs, error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	net, err := network.ImportJSON(networkPath)
	if err != nil {
		return nil, err
	}
	counts := net.Counts()
	logger.Debug("loaded network", "path", networkPath,
		"junctions", counts.Junctions, "tanks", counts.Tanks, "reservoirs", counts.Reservoirs,
		"pipes", counts.Pipes, "pumps", counts.Pumps, "valves", counts.Valves)

	in := &inputs{net: net}
	if resultsPath != "" {
		res, err := results.ImportJSON(resultsPath)
		if err != nil {
			return nil, err
		}
		logger.Debug("loaded results", "path", resultsPath, "times", len(res.Times))
		in.res = res
	}
	prog.done("Loaded " + net.Name)
	return in, nil
}

// styleFlags are the annotate and layout flags shared by render, legend,
// dot and serve.
type styleFlags struct {
	results  string
	time     int
	scale    float64
	layout   string
	colormap string
	colorBy  string
	digits   int
}

func (f *styleFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.results, "results", "r", "", "simulation results JSON to overlay (head, flow)")
	cmd.Flags().IntVarP(&f.time, "time", "t", 1, "hour to show (1-based)")
	cmd.Flags().Float64Var(&f.scale, "scale", 0, "extent of the rescaled coordinate box (default from config, 20)")
	cmd.Flags().StringVarP(&f.layout, "layout", "l", "", "graphviz layout: "+strings.Join(nodelink.LayoutNames(), ", "))
	cmd.Flags().StringVar(&f.colormap, "colormap", "", "node colormap: viridis (default), plasma, inferno, magma")
	cmd.Flags().StringVar(&f.colorBy, "color-by", "", "colored quantity: elevation (default), head")
	cmd.Flags().IntVar(&f.digits, "digits", 0, "significant digits in demand and result labels (default 6)")
}

// options merges the flags over the configured render defaults.
func (c *CLI) options(cmd *cobra.Command, f *styleFlags) pipeline.Options {
	rc := c.Config.Render
	opts := pipeline.Options{
		Time:         f.time,
		Scale:        rc.Scale,
		Layout:       rc.Layout,
		Colormap:     rc.Colormap,
		ColorBy:      rc.ColorBy,
		DemandDigits: rc.DemandDigits,
		Logger:       c.Logger,
	}
	flags := cmd.Flags()
	if flags.Changed("scale") {
		opts.Scale = f.scale
	}
	if flags.Changed("layout") {
		opts.Layout = f.layout
	}
	if flags.Changed("colormap") {
		opts.Colormap = f.colormap
	}
	if flags.Changed("color-by") {
		opts.ColorBy = f.colorBy
	}
	if flags.Changed("digits") {
		opts.DemandDigits = f.digits
	}
	return opts
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(strings.ToLower(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}
