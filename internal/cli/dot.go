package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/hydrograph/pkg/annotate"
	"github.com/matzehuels/hydrograph/pkg/render/nodelink"
)

// dotCommand creates the dot command, which prints the decorated DOT source.
func (c *CLI) dotCommand() *cobra.Command {
	var (
		f      styleFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "dot [network.json]",
		Short: "Print the annotated Graphviz DOT source",
		Long: `Print the annotated Graphviz DOT source.

The output can be laid out with any Graphviz installation, e.g.

  hydrograph dot net1.json | neato -n -Tsvg > net1.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.options(cmd, &f)
			return c.runDOT(cmd.Context(), cmd, args[0], f.results, opts.AnnotateOptions(), output)
		},
	}

	f.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}

func (c *CLI) runDOT(ctx context.Context, cmd *cobra.Command, input, resultsPath string, opts annotate.Options, output string) error {
	in, err := loadInputs(ctx, input, resultsPath)
	if err != nil {
		return err
	}
	g, err := annotate.Build(in.net, in.res, opts)
	if err != nil {
		return err
	}
	src := nodelink.ToDOT(g)
	if output == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), src)
		return err
	}
	return writeFile(output, []byte(src))
}
