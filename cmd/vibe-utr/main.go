// Package main provides the vibe-utr command-line tool.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const configName = ".vibe-utr"

// usageError marks command-line misuse, which exits with ExitUsage.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usageErrorf(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

// usageArgs marks positional argument errors as misuse.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return &usageError{err: err}
		}
		return nil
	}
}

// globalOptions holds state shared by all subcommands.
type globalOptions struct {
	configFile string
	verbose    bool
	logger     *zap.Logger
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

func execute(args []string, stdout, stderr io.Writer) int {
	if args == nil {
		args = []string{}
	}
	g := &globalOptions{logger: zap.NewNop()}
	root := newRootCmd(g)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	_ = g.logger.Sync()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		var ue *usageError
		if errors.As(err, &ue) {
			return ExitUsage
		}
		return ExitError
	}
	return ExitSuccess
}

func newRootCmd(g *globalOptions) *cobra.Command {
	root := &cobra.Command{
		Use:   "vibe-utr",
		Short: "Add UTRs to coding-only BED12 transcripts",
		Long: `vibe-utr augments coding-only BED12 transcripts with 5' and 3' UTRs taken
from transcript-assembly evidence that shares their exon boundaries.`,
		Example: `  # Extend annotations using intron-chain evidence
  vibe-utr extend -r assembly.bed -a coding.bed -o extended.bed

  # Match on coding exon boundaries and keep a report
  vibe-utr extend -r assembly.bed -a coding.bed --cds --report run.duckdb

  # Summarize a report
  vibe-utr report run.duckdb`,
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(g.configFile); err != nil {
				return err
			}
			g.logger = newLogger(cmd.ErrOrStderr(), g.verbose)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usageErrorf("unknown command %q", args[0])
			}
			_ = cmd.Usage()
			return usageErrorf("a command is required")
		},
	}
	root.SetVersionTemplate("vibe-utr version {{.Version}}\n")
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&g.configFile, "config", "", "config file (default: ~/"+configName+".yaml)")
	pf.BoolVar(&g.verbose, "verbose", false, "enable debug logging")

	root.AddCommand(newExtendCmd(g))
	root.AddCommand(newStripCmd(g))
	root.AddCommand(newReportCmd())
	root.AddCommand(newConfigCmd())

	return root
}

// initConfig reads the config file and environment into viper. A missing
// default config file is not an error.
func initConfig(path string) error {
	if path != "" {
		viper.SetConfigFile(path)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(configName)
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("VIBE_UTR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

// defaultConfigPath returns the config file viper writes to when none was read.
func defaultConfigPath() (string, error) {
	if used := viper.ConfigFileUsed(); used != "" {
		return used, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, configName+".yaml"), nil
}

// newLogger builds a console logger writing to w.
func newLogger(w io.Writer, verbose bool) *zap.Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), level)

	return zap.New(core)
}
