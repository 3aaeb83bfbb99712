package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/vibe-utr/internal/bed"
	"github.com/inodb/vibe-utr/internal/utr"
)

func newStripCmd(g *globalOptions) *cobra.Command {
	var annoPath, outputPath string

	cmd := &cobra.Command{
		Use:   "strip",
		Short: "Remove UTRs, clipping transcripts to their coding region",
		Long: `Clip each transcript to its coding interval, dropping noncoding exons and
trimming the terminal coding exons. Noncoding transcripts and transcripts
without UTRs are written unchanged.`,
		Example: `  vibe-utr strip -a annotation.bed -o coding.bed`,
		Args:    usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if annoPath == "" {
				return usageErrorf("--anno is required")
			}
			return runStrip(cmd.OutOrStdout(), g.logger, annoPath, outputPath)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&annoPath, "anno", "a", "", "annotation transcripts in BED12 (use '-' for stdin)")
	f.StringVarP(&outputPath, "output", "o", "", "output file (default: stdout)")

	return cmd
}

func runStrip(stdout io.Writer, logger *zap.Logger, annoPath, outputPath string) error {
	records, err := bed.ReadFile(annoPath)
	if err != nil {
		return fmt.Errorf("read annotation: %w", err)
	}

	stripped := make([]*bed.Record, len(records))
	changed := 0
	for i, r := range records {
		if stripped[i], err = utr.StripUTRs(r); err != nil {
			return fmt.Errorf("strip %s: %w", r.Name, err)
		}
		if stripped[i].Start != r.Start || stripped[i].End != r.End {
			changed++
		}
	}

	err = writeOutput(stdout, outputPath, func(w *bed.Writer) error {
		for _, r := range stripped {
			if err := w.Write(r); err != nil {
				return fmt.Errorf("write record: %w", err)
			}
		}
		return w.Flush()
	})
	if err != nil {
		return err
	}

	logger.Info("stripped transcripts",
		zap.Int("transcripts", len(records)),
		zap.Int("clipped", changed))
	return nil
}
