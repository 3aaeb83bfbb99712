package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/inodb/vibe-utr/internal/report"
)

func newReportCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "report <db>",
		Short: "Summarize an extension report",
		Long:  "Print per-side status counts from a report written by extend --report, or the decisions for one transcript with --name.",
		Example: `  vibe-utr report run.duckdb
  vibe-utr report run.duckdb --name NM_000546`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd.OutOrStdout(), args[0], name)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "show the decisions for one transcript")

	return cmd
}

func runReport(w io.Writer, path, name string) error {
	// Opening creates a database, so check the file first.
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("open report: %w", err)
	}

	store, err := report.Open(path)
	if err != nil {
		return fmt.Errorf("open report: %w", err)
	}
	defer store.Close()

	if name != "" {
		rows, err := store.Lookup(name)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return fmt.Errorf("transcript %q not found in %s", name, path)
		}
		for _, r := range rows {
			fmt.Fprintf(w, "%s\t%s:%d-%d\t->\t%d-%d\n", r.Name, r.Chrom, r.OrigStart, r.OrigEnd, r.NewStart, r.NewEnd)
			printSide(w, "5'", r.UTR5)
			printSide(w, "3'", r.UTR3)
		}
		return nil
	}

	counts, err := store.StatusCounts()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "side\tstatus\tcount\n")
	for _, c := range counts {
		fmt.Fprintf(w, "%s'\t%s\t%d\n", c.Side, c.Status, c.Count)
	}
	return nil
}

func printSide(w io.Writer, label string, s report.Side) {
	fmt.Fprintf(w, "  %s\t%s\tcandidates=%d", label, s.Status, s.Candidates)
	if s.Status == "extended" {
		fmt.Fprintf(w, "\tsupport=%d\tcoord=%d\tevidence=%s\tbases=%d", s.Support, s.Coordinate, s.Evidence, s.Bases)
	}
	fmt.Fprintln(w)
}
