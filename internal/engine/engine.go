package engine

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/o3rg/o3rg/internal/aggregate"
	"github.com/o3rg/o3rg/internal/matcher"
	"github.com/o3rg/o3rg/internal/scanner"
	"github.com/o3rg/o3rg/internal/types"
	"github.com/o3rg/o3rg/internal/walker"
	"github.com/panjf2000/ants/v2"
	"github.com/sirupsen/logrus"
)

// DefaultQueueSize bounds the number of discovered paths waiting for a worker.
const DefaultQueueSize = 1024

// Config controls a directory search including scope, performance, and filters.
type Config struct {
	Root    string
	Pattern string
	Hidden  types.HiddenPolicy

	Threads   int
	QueueSize int

	MaxDepth     int
	MaxFileSize  int64
	FollowLinks  bool
	NoIgnore     bool
	NoRequireGit bool
	NoGlobal     bool
	SkipBinary   bool
	IncludeGlobs string
	ExcludeGlobs string
	IgnoreFiles  []string

	// OnError receives every path that could not be searched. It may be
	// called from several goroutines at once.
	OnError func(path string, err error)
	// Progress is called once per file searched, from worker goroutines.
	Progress func()
}

// Result contains matches and basic search statistics.
type Result struct {
	Matches      []types.FileMatches
	FilesScanned int
	FilesSkipped int
	Duration     time.Duration
}

// SearchFile returns every matching line of the file at path. Any failure to
// compile the pattern or read the file is returned as an error.
func SearchFile(path, pattern string) ([]types.Match, error) {
	p, err := matcher.Compile(pattern)
	if err != nil {
		return nil, err
	}
	ms, err := scanner.ScanPath(path, p)
	if err != nil {
		return nil, err
	}
	return ms, nil
}

// SearchDirectory searches every eligible file under root. hidden follows the
// public contract: nil or true skip dot-prefixed entries, false includes them.
// Files that cannot be read are skipped.
func SearchDirectory(root, pattern string, hidden *bool) ([]types.FileMatches, error) {
	res, err := SearchDirectoryWithStats(context.Background(), Config{
		Root:    root,
		Pattern: pattern,
		Hidden:  types.HiddenFromFlag(hidden),
	})
	if err != nil {
		return nil, err
	}
	return res.Matches, nil
}

// SearchDirectoryWithStats runs a directory search and returns matches along
// with timing and counts. A cancelled ctx stops dispatch; the call waits for
// in-flight workers and returns ctx.Err() without results.
func SearchDirectoryWithStats(ctx context.Context, cfg Config) (Result, error) {
	var result Result

	p, err := matcher.Compile(cfg.Pattern)
	if err != nil {
		return result, err
	}
	globs := append(walker.ParseGlobsList(cfg.IncludeGlobs), walker.ParseGlobsList(cfg.ExcludeGlobs)...)
	if err := walker.ValidateGlobs(globs); err != nil {
		return result, err
	}
	if cfg.Threads <= 0 {
		cfg.Threads = runtime.GOMAXPROCS(0)
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}

	started := time.Now()
	var scanned, skipped atomic.Int64
	skip := func(path string, err error) {
		skipped.Add(1)
		logrus.WithFields(logrus.Fields{"path": path, "err": err}).Debug("skip")
		if cfg.OnError != nil {
			cfg.OnError(path, err)
		}
	}

	sink := aggregate.New()
	var wg sync.WaitGroup
	pool, err := ants.NewPoolWithFunc(cfg.Threads, func(i interface{}) {
		defer wg.Done()
		if ctx.Err() != nil {
			return
		}
		path := i.(string)
		ms, err := scanner.ScanPath(path, p)
		scanned.Add(1)
		if cfg.Progress != nil {
			cfg.Progress()
		}
		// partial results of a failed read are kept
		sink.Record(path, ms)
		if err != nil {
			skip(path, err)
		}
	})
	if err != nil {
		return result, fmt.Errorf("pool: %w", err)
	}
	defer pool.Release()

	paths := make(chan string, cfg.QueueSize)
	walkErr := make(chan error, 1)
	go func() {
		defer close(paths)
		opts := walkerOptions(cfg)
		opts.OnError = skip
		walkErr <- walker.Walk(ctx, opts, func(path string) error {
			select {
			case paths <- path:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}()

	for path := range paths {
		if ctx.Err() != nil {
			continue
		}
		wg.Add(1)
		if err := pool.Invoke(path); err != nil {
			wg.Done()
			skip(path, err)
		}
	}
	wg.Wait()
	matches := sink.Drain()

	if err := <-walkErr; err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	result.Matches = matches
	result.FilesScanned = int(scanned.Load())
	result.FilesSkipped = int(skipped.Load())
	result.Duration = time.Since(started)
	logrus.WithFields(logrus.Fields{
		"root":    cfg.Root,
		"matches": len(result.Matches),
		"scanned": result.FilesScanned,
		"skipped": result.FilesSkipped,
		"took":    result.Duration.Round(time.Millisecond),
	}).Debug("search finished")
	return result, nil
}

// CountTargets returns the number of files a search with cfg would visit.
func CountTargets(ctx context.Context, cfg Config) (int, error) {
	return walker.Count(ctx, walkerOptions(cfg))
}

func walkerOptions(cfg Config) walker.Options {
	return walker.Options{
		Root:         cfg.Root,
		Hidden:       cfg.Hidden,
		MaxDepth:     cfg.MaxDepth,
		MaxFileSize:  cfg.MaxFileSize,
		FollowLinks:  cfg.FollowLinks,
		NoIgnore:     cfg.NoIgnore,
		NoRequireGit: cfg.NoRequireGit,
		NoGlobal:     cfg.NoGlobal,
		SkipBinary:   cfg.SkipBinary,
		Include:      walker.ParseGlobsList(cfg.IncludeGlobs),
		Exclude:      walker.ParseGlobsList(cfg.ExcludeGlobs),
		IgnoreFiles:  cfg.IgnoreFiles,
	}
}
