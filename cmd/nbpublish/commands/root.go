// Package commands implements the CLI commands for nbpublish.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/nbpublish/internal/config"
	"github.com/jmylchreest/nbpublish/internal/logger"
	"github.com/jmylchreest/nbpublish/internal/pipeline"
	"github.com/jmylchreest/nbpublish/internal/report"
	"github.com/jmylchreest/nbpublish/internal/version"
	"github.com/jmylchreest/nbpublish/pkg/cleaner/publish"
)

// Process exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 255
)

// NewRootCommand builds the nbpublish command with its own viper instance.
func NewRootCommand() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "nbpublish [flags] FILE [FILE ...]",
		Short: "Clean notebooks for publication",
		Long: `nbpublish removes authoring-environment metadata from notebooks and
writes cleaned copies to an output directory.

Every notebook loses its lc_wrapper cell metadata and has frozen cells
unfrozen. History trimming and output clearing are opt-in.

Examples:
  # Clean two notebooks into ./public
  nbpublish --output-dir=public a.ipynb b.ipynb

  # Keep the last 5 meme history entries, drop the server signature,
  # clear outputs and mirror the source tree
  nbpublish --trim-history=5 --trim-server-signature=0 --clear-output \
      --tree --output-dir=public notebooks/*.ipynb notebooks/*/*.ipynb`,
		Args:          cobra.ArbitraryArgs,
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPublish(cmd, v, args)
		},
	}
	cmd.SetVersionTemplate(version.Full())

	flags := cmd.Flags()
	flags.Int("trim-history", 0, "max size of cell meme history to keep (default: keep all)")
	flags.Int("trim-server-signature", 0, "max size of server signature history to keep, 0 removes the signature (default: keep all)")
	flags.String("output-dir", "", "output directory (default: current directory)")
	flags.Bool("clear-output", false, "clear code cell outputs and execution counts")
	flags.Bool("tree", false, "keep the directory layout of the input files")
	flags.Bool("keep-going", false, "skip notebooks that cannot be read instead of aborting")
	flags.String("report", "", "write a run report to stdout: json, jsonl, yaml")
	flags.String("report-file", "", "write the run report to this file instead of stdout")

	pflags := cmd.PersistentFlags()
	pflags.String("config", "", "config file (default $HOME/.nbpublish.yaml)")
	pflags.Bool("debug", false, "enable debug logging")
	pflags.BoolP("quiet", "q", false, "only log errors")
	pflags.Bool("log-json", false, "log as JSON")

	for key, name := range map[string]string{
		config.KeyTrimHistory:         "trim-history",
		config.KeyTrimServerSignature: "trim-server-signature",
		config.KeyOutputDir:           "output-dir",
		config.KeyClearOutput:         "clear-output",
		config.KeyTree:                "tree",
		config.KeyKeepGoing:           "keep-going",
		config.KeyReport:              "report",
		config.KeyReportFile:          "report-file",
	} {
		_ = v.BindPFlag(key, flags.Lookup(name))
	}
	_ = v.BindPFlag("debug", pflags.Lookup("debug"))
	_ = v.BindPFlag("quiet", pflags.Lookup("quiet"))
	_ = v.BindPFlag("log_json", pflags.Lookup("log-json"))

	return cmd
}

func runPublish(cmd *cobra.Command, v *viper.Viper, args []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	if err := config.Load(v, cfgFile); err != nil {
		return err
	}

	logger.Init(logger.Options{
		Debug:  v.GetBool("debug"),
		Quiet:  v.GetBool("quiet"),
		JSON:   v.GetBool("log_json"),
		Output: cmd.ErrOrStderr(),
	})

	cfg, err := config.Resolve(v, args)
	if errors.Is(err, config.ErrUsage) {
		_ = cmd.Help()
		return err
	}
	if err != nil {
		return err
	}
	logger.Debug("configuration resolved",
		"inputs", len(cfg.Inputs),
		"output_dir", cfg.OutputDir,
		"tree", cfg.Tree,
		"clear_output", cfg.ClearOutput)

	runner := pipeline.New(afero.NewOsFs(), publish.New(cfg.Cleaner()), pipeline.Options{
		OutputDir: cfg.OutputDir,
		Tree:      cfg.Tree,
		KeepGoing: cfg.KeepGoing,
	})
	placed, runErr := runner.Run(cmd.Context(), cfg.Inputs)

	if len(placed) > 0 {
		total := publish.NewStats()
		var size int64
		for _, p := range placed {
			total.Add(p.Stats)
			size += p.Bytes
		}
		logger.Info("published notebooks",
			"count", len(placed),
			"output_dir", cfg.OutputDir,
			"size", humanize.IBytes(uint64(size)),
			"stats", total.String())
	}

	if cfg.Report != "" {
		if err := writeReport(cmd.OutOrStdout(), cfg, placed); err != nil {
			return errors.Join(runErr, err)
		}
	}
	return runErr
}

func writeReport(stdout io.Writer, cfg *config.Config, placed []pipeline.Placed) error {
	w := stdout
	if cfg.ReportFile != "" {
		f, err := os.Create(cfg.ReportFile)
		if err != nil {
			return &pipeline.FilesystemError{Op: "create", Path: cfg.ReportFile, Err: err}
		}
		defer func() { _ = f.Close() }()
		w = f
	}
	if err := report.Write(w, report.Format(cfg.Report), report.FromPlaced(placed)); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cmd := NewRootCommand()
	return exitCode(cmd.ErrOrStderr(), cmd.ExecuteContext(ctx))
}

func exitCode(stderr io.Writer, err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, config.ErrUsage):
		return ExitUsage
	default:
		logError(stderr, "%v", err)
		return ExitFailure
	}
}

// logError prints an error message to stderr.
func logError(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "Error: "+format+"\n", args...)
}
