// Command drill-chart-term draws the drill-down chart in a terminal.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"git.sr.ht/~whereswaldon/drill-chart/backend"
)

var (
	cfg      = backend.FromEnv()
	plotOpts = plotOptions{Height: 12}
	drills   []int
	output   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "drill-chart-term",
		Short: "Drill down through random time series in the terminal",
		Long: `drill-chart-term generates a month of random values per dataset and
lets you drill into a day, then an hour, by picking sample indices.`,
		PersistentPreRunE: setup,
		SilenceUsage:      true,
	}
	cfg.RegisterPFlags(rootCmd.PersistentFlags())
	rootCmd.PersistentFlags().IntVar(&plotOpts.Height, "height", plotOpts.Height, "plot height in lines")
	rootCmd.PersistentFlags().IntVar(&plotOpts.Width, "width", plotOpts.Width, "plot width in columns (0 = one column per sample)")

	plotCmd := &cobra.Command{
		Use:   "plot",
		Short: "Print the chart after an optional sequence of drill-downs",
		Args:  cobra.NoArgs,
		RunE:  runPlot,
	}
	plotCmd.Flags().IntSliceVar(&drills, "drill", nil, "sample indices to drill into, in order")

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write the chart as CSV after an optional sequence of drill-downs",
		Args:  cobra.NoArgs,
		RunE:  runExport,
	}
	exportCmd.Flags().IntSliceVar(&drills, "drill", nil, "sample indices to drill into, in order")
	exportCmd.Flags().StringVarP(&output, "output", "o", "", "Output file path (default: stdout)")

	interactiveCmd := &cobra.Command{
		Use:   "interactive",
		Short: "Drill down by typing sample indices; 'reset' starts over, 'quit' exits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return interactive(newDrilldown(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	rootCmd.AddCommand(plotCmd, exportCmd, interactiveCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, args []string) error {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	log.SetLevel(level)
	log.SetOutput(cmd.ErrOrStderr())
	return nil
}

func newDrilldown() *backend.Drilldown {
	defs := backend.DefaultDefinitions()
	if cfg.DatasetsPath != "" {
		loaded, err := backend.LoadDefinitions(cfg.DatasetsPath)
		if err != nil {
			log.Warnf("[term] using default datasets: %v", err)
		} else {
			defs = loaded
		}
	}
	d := backend.NewDrilldown(cfg.Generator(), defs, nil)
	d.Reset()
	return d
}

// drillAll applies each index in turn, stopping at the first error.
func drillAll(d *backend.Drilldown, indices []int) error {
	for _, idx := range indices {
		changed, err := d.Click(idx)
		if err != nil {
			return err
		}
		if !changed {
			log.Infof("[term] ignored index %d at %s granularity", idx, d.Granularity())
		}
	}
	return nil
}

func runPlot(cmd *cobra.Command, args []string) error {
	d := newDrilldown()
	if err := drillAll(d, drills); err != nil {
		return err
	}
	_, err := io.WriteString(cmd.OutOrStdout(), render(d.State(), plotOpts))
	return err
}

func runExport(cmd *cobra.Command, args []string) error {
	d := newDrilldown()
	if err := drillAll(d, drills); err != nil {
		return err
	}
	if output == "" {
		return d.State().WriteCSV(cmd.OutOrStdout())
	}
	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed creating %s: %w", output, err)
	}
	if err := d.State().WriteCSV(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// interactive redraws the chart after every command read from in until
// in is exhausted or the user quits.
func interactive(d *backend.Drilldown, in io.Reader, out io.Writer) error {
	fmt.Fprint(out, render(d.State(), plotOpts))
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "q", "quit", "exit":
			return nil
		case "r", "reset":
			d.Reset()
		default:
			idx, err := strconv.Atoi(line)
			if err != nil {
				fmt.Fprintf(out, "not an index: %q\n", line)
				continue
			}
			changed, err := d.Click(idx)
			if err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			if !changed {
				fmt.Fprintln(out, "nothing to drill into")
				continue
			}
		}
		fmt.Fprint(out, render(d.State(), plotOpts))
	}
}
