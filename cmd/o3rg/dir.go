package o3rg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/o3rg/o3rg/internal/config"
	"github.com/o3rg/o3rg/internal/engine"
	"github.com/o3rg/o3rg/internal/report"
	"github.com/o3rg/o3rg/internal/types"
	"github.com/o3rg/o3rg/pkg/core"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type dirOptions struct {
	hidden        bool
	threads       int
	queueSize     int
	maxDepth      int
	maxFileSize   int64
	follow        bool
	noIgnore      bool
	noRequireGit  bool
	skipBinary    bool
	include       string
	exclude       string
	ignoreFiles   []string
	asJSON        bool
	sorted        bool
	progress      bool
	reportSkipped bool
	stats         bool
	timeout       time.Duration
}

func newDirCmd(root *rootOptions) *cobra.Command {
	opts := &dirOptions{}
	cmd := &cobra.Command{
		Use:   "dir <root> <pattern>",
		Short: "Search a directory tree",
		Long:  "Search every eligible file under root concurrently and print path:line:text for the first match on every matching line. Files that cannot be read are skipped.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDir(cmd, root, opts, args[0], args[1])
		},
	}
	f := cmd.Flags()
	f.BoolVarP(&opts.hidden, "hidden", "H", false, "include hidden files and directories")
	f.IntVarP(&opts.threads, "threads", "j", 0, "worker count (0 = GOMAXPROCS)")
	f.IntVar(&opts.queueSize, "queue-size", 0, "discovered paths buffered ahead of workers (0 = 1024)")
	f.IntVar(&opts.maxDepth, "max-depth", 0, "descend at most this many levels (0 = unlimited)")
	f.Int64Var(&opts.maxFileSize, "max-filesize", 0, "skip files larger than this many bytes (0 = unlimited)")
	f.BoolVarP(&opts.follow, "follow", "L", false, "follow symbolic links to directories")
	f.BoolVar(&opts.noIgnore, "no-ignore", false, "do not read .ignore, .gitignore or exclude files")
	f.BoolVar(&opts.noRequireGit, "no-require-git", false, "apply .gitignore outside git repositories")
	f.BoolVar(&opts.skipBinary, "skip-binary", false, "skip files that look binary")
	f.StringVar(&opts.include, "include", "", "comma-separated include globs (e.g. **/*.go)")
	f.StringVar(&opts.exclude, "exclude", "", "comma-separated exclude globs")
	f.StringArrayVar(&opts.ignoreFiles, "ignore-file", nil, "additional gitignore-format rules file (repeatable)")
	f.BoolVar(&opts.asJSON, "json", false, "emit JSON")
	f.BoolVar(&opts.sorted, "sort", false, "sort results by path and line")
	f.BoolVar(&opts.progress, "progress", false, "show a progress bar on stderr")
	f.BoolVar(&opts.reportSkipped, "report-skipped", false, "print files that could not be searched to stderr")
	f.BoolVar(&opts.stats, "stats", false, "print a summary to stderr")
	f.DurationVar(&opts.timeout, "timeout", 0, "abort the search after this duration (0 = no limit)")
	return cmd
}

func runDir(cmd *cobra.Command, root *rootOptions, opts *dirOptions, dir, pattern string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	lcfg, err := config.LoadLocal(abs)
	if err != nil && !errors.Is(err, config.ErrNoConfig) {
		return fmt.Errorf("config: %w", err)
	}
	gcfg := root.global

	hidden := types.HiddenDefault
	switch {
	case cmd.Flags().Changed("hidden"):
		hidden = hiddenPolicy(opts.hidden)
	case lcfg.SearchHidden != nil:
		hidden = hiddenPolicy(*lcfg.SearchHidden)
	case gcfg.SearchHidden != nil:
		hidden = hiddenPolicy(*gcfg.SearchHidden)
	}

	ignoreFiles := opts.ignoreFiles
	if len(ignoreFiles) == 0 {
		ignoreFiles = lcfg.IgnoreFiles
	}
	if len(ignoreFiles) == 0 {
		ignoreFiles = gcfg.IgnoreFiles
	}

	cfg := engine.Config{
		// keep the path as given so printed paths match the argument
		Root:         dir,
		Pattern:      pattern,
		Hidden:       hidden,
		Threads:      pickInt(opts.threads, lcfg.Threads, gcfg.Threads),
		QueueSize:    pickInt(opts.queueSize, lcfg.QueueSize, gcfg.QueueSize),
		MaxDepth:     pickInt(opts.maxDepth, lcfg.MaxDepth, gcfg.MaxDepth),
		MaxFileSize:  pickInt64(opts.maxFileSize, lcfg.MaxFileSize, gcfg.MaxFileSize),
		FollowLinks:  pickBool(opts.follow, lcfg.FollowLinks, gcfg.FollowLinks),
		NoIgnore:     opts.noIgnore,
		NoRequireGit: pickBool(opts.noRequireGit, negate(lcfg.RequireGit), negate(gcfg.RequireGit)),
		SkipBinary:   pickBool(opts.skipBinary, lcfg.SkipBinary, gcfg.SkipBinary),
		IncludeGlobs: pickString(opts.include, lcfg.Include, gcfg.Include),
		ExcludeGlobs: pickString(opts.exclude, lcfg.Exclude, gcfg.Exclude),
		IgnoreFiles:  ignoreFiles,
	}

	stderr := cmd.ErrOrStderr()
	if opts.reportSkipped {
		var mu sync.Mutex
		cfg.OnError = func(path string, err error) {
			mu.Lock()
			defer mu.Unlock()
			fmt.Fprintf(stderr, "skipped %s: %v\n", path, err)
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	var bar *progressBar
	if opts.progress && !opts.asJSON && isTerminal(os.Stderr) {
		total, err := engine.CountTargets(ctx, cfg)
		if err != nil {
			return err
		}
		bar = newProgressBar(stderr, total)
		cfg.Progress = bar.Add
	}

	logrus.WithFields(logrus.Fields{"root": abs, "hidden": hidden, "threads": cfg.Threads}).Debug("search started")
	res, err := engine.SearchDirectoryWithStats(ctx, cfg)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("search timed out after %s: %w", opts.timeout, err)
		}
		return err
	}

	out := cmd.OutOrStdout()
	popts := report.PrintOptions{
		Sort:         opts.sorted,
		Duration:     res.Duration,
		FilesScanned: res.FilesScanned,
		FilesSkipped: res.FilesSkipped,
	}
	if opts.asJSON {
		if opts.sorted {
			report.SortFileMatches(res.Matches)
		}
		if err := core.MarshalFileMatches(out, res.Matches); err != nil {
			return err
		}
	} else {
		report.PrintFileMatches(out, res.Matches, popts)
	}
	if opts.stats {
		report.PrintSummary(stderr, len(res.Matches), popts)
	}
	return nil
}

func hiddenPolicy(include bool) types.HiddenPolicy {
	if include {
		return types.HiddenInclude
	}
	return types.HiddenSkip
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
