package o3rg

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/o3rg/o3rg/internal/config"
	"github.com/o3rg/o3rg/internal/logging"
	"github.com/o3rg/o3rg/internal/types"
	"github.com/spf13/cobra"
)

// Exit codes returned by Execute.
const (
	exitOK      = 0
	exitFailure = 1
	exitPattern = 2
	exitIO      = 3
)

var version = "0.1.0"

type rootOptions struct {
	logLevel string
	logFile  string
	global   config.FileConfig
	closer   io.Closer
}

// newRootCmd builds the base Cobra command and all of its subcommands.
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "o3rg",
		Short:         "Search files for regular expression matches",
		Long:          "o3rg searches a file or a directory tree line by line and reports the first match on every matching line. Directory searches honour .gitignore and .ignore files and skip hidden entries by default.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			gcfg, err := config.LoadGlobal()
			if err != nil && !errors.Is(err, config.ErrNoConfig) {
				// a broken global file should not block searching
				fmt.Fprintln(os.Stderr, "warning:", err)
			}
			opts.global = gcfg
			opts.closer = logging.Init(
				pickString(opts.logFile, nil, gcfg.LogFile),
				pickString(opts.logLevel, nil, gcfg.LogLevel),
			)
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if opts.closer != nil {
				_ = opts.closer.Close()
			}
		},
	}
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: trace|debug|info|warn|error (default info)")
	cmd.PersistentFlags().StringVar(&opts.logFile, "log-file", "", "append logs to this file instead of stderr")

	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newDirCmd(opts))
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newCompletionCmd(cmd))
	return cmd
}

// Execute runs the o3rg CLI. It should be called by the main package.
func Execute() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return exitCode(err)
	}
	return exitOK
}

func exitCode(err error) int {
	switch types.Classify(err) {
	case types.ClassNone:
		return exitOK
	case types.ClassPattern:
		return exitPattern
	case types.ClassIO:
		return exitIO
	default:
		return exitFailure
	}
}
