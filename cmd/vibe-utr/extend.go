package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/inodb/vibe-utr/internal/bed"
	"github.com/inodb/vibe-utr/internal/evidence"
	"github.com/inodb/vibe-utr/internal/report"
	"github.com/inodb/vibe-utr/internal/utr"
)

type extendOptions struct {
	evidencePath string
	annoPath     string
	outputPath   string
}

func newExtendCmd(g *globalOptions) *cobra.Command {
	var opts extendOptions

	cmd := &cobra.Command{
		Use:   "extend",
		Short: "Add UTRs to coding-only transcripts from assembly evidence",
		Long: `Extend each annotation transcript with the 5' and 3' UTR structure of
evidence transcripts that share its first and last boundary. Boundaries are
intron chains by default, or coding exons with --cds.

Sides that already carry a UTR are left unchanged.`,
		Example: `  vibe-utr extend -r assembly.bed -a coding.bed
  vibe-utr extend -r assembly.bed.gz -a coding.bed --cds -o extended.bed
  vibe-utr extend -r assembly.bed -a coding.bed --workers 4 --report run.duckdb
  cat coding.bed | vibe-utr extend -r assembly.bed -a -`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.evidencePath == "" || opts.annoPath == "" {
				return usageErrorf("both --rnaseq and --anno are required")
			}
			if opts.evidencePath == "-" && opts.annoPath == "-" {
				return usageErrorf("only one of --rnaseq and --anno can read stdin")
			}
			return runExtend(cmd.OutOrStdout(), g.logger, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.evidencePath, "rnaseq", "r", "", "evidence transcripts in BED12 (use '-' for stdin)")
	f.StringVarP(&opts.annoPath, "anno", "a", "", "annotation transcripts in BED12 (use '-' for stdin)")
	f.StringVarP(&opts.outputPath, "output", "o", "", "output file (default: stdout)")
	f.Bool("cds", false, "match on coding exon boundaries instead of introns")
	f.Int("workers", 0, "number of worker goroutines (0 = all CPUs)")
	f.String("report", "", "write per-transcript decisions to a DuckDB file")

	for _, name := range []string{"cds", "workers", "report"} {
		_ = viper.BindPFlag("extend."+name, f.Lookup(name))
	}

	return cmd
}

func runExtend(stdout io.Writer, logger *zap.Logger, opts extendOptions) error {
	mode := evidence.ModeIntron
	if viper.GetBool("extend.cds") {
		mode = evidence.ModeCoding
	}

	var (
		idx   *evidence.Index
		annos []*bed.Record
		g     errgroup.Group
	)
	g.Go(func() error {
		var err error
		idx, err = evidence.Load(opts.evidencePath, mode)
		return err
	})
	g.Go(func() error {
		var err error
		if annos, err = bed.ReadFile(opts.annoPath); err != nil {
			return fmt.Errorf("read annotation: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("loaded evidence",
		zap.String("path", opts.evidencePath),
		zap.Stringer("mode", mode),
		zap.Int("records", idx.Records()),
		zap.Int("keys", idx.Len()))
	logger.Info("loaded annotation",
		zap.String("path", opts.annoPath),
		zap.Int("transcripts", len(annos)))

	ext := utr.NewExtender(idx, utr.Config{Workers: viper.GetInt("extend.workers")})
	ext.SetLogger(logger)

	var results []*utr.Result
	err := writeOutput(stdout, opts.outputPath, func(w *bed.Writer) error {
		var err error
		results, err = ext.ExtendAll(annos, w)
		return err
	})
	if err != nil {
		return err
	}

	if path := viper.GetString("extend.report"); path != "" {
		info := report.RunInfo{
			Evidence:   fingerprint(opts.evidencePath),
			Annotation: fingerprint(opts.annoPath),
			Mode:       mode.String(),
			Version:    version,
		}
		if err := writeReport(path, results, info); err != nil {
			return err
		}
		logger.Info("wrote report", zap.String("path", path), zap.Int("rows", len(results)))
	}

	return nil
}

// writeOutput runs fn against a BED writer on stdout or a new file. The file
// is removed if fn fails so that no partial output is left behind.
func writeOutput(stdout io.Writer, path string, fn func(*bed.Writer) error) error {
	if path == "" {
		return fn(bed.NewWriter(stdout))
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	if err := fn(bed.NewWriter(out)); err != nil {
		out.Close()
		os.Remove(path)
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close output file: %w", err)
	}
	return nil
}

func writeReport(path string, results []*utr.Result, info report.RunInfo) error {
	store, err := report.Open(path)
	if err != nil {
		return fmt.Errorf("open report: %w", err)
	}
	defer store.Close()

	if err := store.ClearExtensions(); err != nil {
		return fmt.Errorf("clear report: %w", err)
	}

	rows := make([]report.Row, len(results))
	for i, res := range results {
		rows[i] = report.FromResult(res)
	}
	if err := store.WriteExtensions(rows); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if err := store.WriteMetadata(info); err != nil {
		return fmt.Errorf("write report metadata: %w", err)
	}
	return nil
}

// fingerprint stats an input file. Stdin and unreadable paths keep only the path.
func fingerprint(path string) report.FileFingerprint {
	if path == "-" {
		return report.FileFingerprint{Path: path}
	}
	fp, err := report.StatFile(path)
	if err != nil {
		return report.FileFingerprint{Path: path}
	}
	return fp
}
