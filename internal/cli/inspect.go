package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/hydrograph/pkg/network"
	"github.com/matzehuels/hydrograph/pkg/results"
)

// inspectCommand creates the inspect command, which summarizes the inputs.
func (c *CLI) inspectCommand() *cobra.Command {
	var resultsPath string

	cmd := &cobra.Command{
		Use:   "inspect [network.json]",
		Short: "Summarize a network and its simulation results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), cmd.OutOrStdout(), args[0], resultsPath)
		},
	}
	cmd.Flags().StringVarP(&resultsPath, "results", "r", "", "simulation results JSON")
	return cmd
}

func (c *CLI) runInspect(ctx context.Context, w io.Writer, input, resultsPath string) error {
	in, err := loadInputs(ctx, input, resultsPath)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, StyleTitle.Render(in.net.Name))
	fmt.Fprintln(w, renderNetworkTable(in.net))
	fmt.Fprintln(w, keyValue("Patterns", strconv.Itoa(in.net.PatternCount())))
	fmt.Fprintln(w, keyValue("Step", fmt.Sprintf("%ds", in.net.Options.PatternTimestep)))
	fmt.Fprintln(w, keyValue("Positioned", fmt.Sprintf("%d/%d nodes", positioned(in.net), len(in.net.Nodes()))))

	if in.res != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, StyleTitle.Render("Results"))
		fmt.Fprintln(w, keyValue("Hours", formatHours(in.res.Hours())))
		fmt.Fprintln(w, keyValue("Node", strings.Join(quantities(in.res.Node), ", ")))
		fmt.Fprintln(w, keyValue("Link", strings.Join(quantities(in.res.Link), ", ")))
	}
	return nil
}

// renderNetworkTable tabulates element counts.
func renderNetworkTable(net *network.Network) string {
	counts := net.Counts()
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Element", "Count").
		Rows(
			[]string{"Junctions", strconv.Itoa(counts.Junctions)},
			[]string{"Tanks", strconv.Itoa(counts.Tanks)},
			[]string{"Reservoirs", strconv.Itoa(counts.Reservoirs)},
			[]string{"Pipes", strconv.Itoa(counts.Pipes)},
			[]string{"  check valves", strconv.Itoa(counts.CheckValves)},
			[]string{"Pumps", strconv.Itoa(counts.Pumps)},
			[]string{"Valves", strconv.Itoa(counts.Valves)},
		).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 1 {
				return lipgloss.NewStyle().Foreground(colorCyan).Align(lipgloss.Right)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})
	return t.Render()
}

func positioned(net *network.Network) int {
	n := 0
	for _, node := range net.Nodes() {
		if node.Coordinates != nil {
			n++
		}
	}
	return n
}

func quantities(m map[string]results.Table) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// formatHours lists hours compactly, collapsing consecutive runs.
func formatHours(hours []int) string {
	if len(hours) == 0 {
		return "none on whole hours"
	}
	var parts []string
	for i := 0; i < len(hours); {
		j := i
		for j+1 < len(hours) && hours[j+1] == hours[j]+1 {
			j++
		}
		if j > i {
			parts = append(parts, fmt.Sprintf("%d-%d", hours[i], hours[j]))
		} else {
			parts = append(parts, strconv.Itoa(hours[i]))
		}
		i = j + 1
	}
	return strings.Join(parts, ", ")
}
