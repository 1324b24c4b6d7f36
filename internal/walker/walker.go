package walker

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/o3rg/o3rg/internal/ignore"
	"github.com/o3rg/o3rg/internal/types"
	"github.com/sirupsen/logrus"
)

// ErrLinkLoop is reported when a followed symbolic link points back at one
// of its own ancestors.
var ErrLinkLoop = errors.New("symbolic link loop")

// Options controls which entries Walk yields.
type Options struct {
	Root   string
	Hidden types.HiddenPolicy
	// MaxDepth limits descent below Root; entries directly inside Root are
	// at depth 1. Zero means unlimited.
	MaxDepth int
	// MaxFileSize skips files larger than this many bytes. Zero means unlimited.
	MaxFileSize  int64
	FollowLinks  bool
	NoIgnore     bool
	NoRequireGit bool
	NoGlobal     bool
	SkipBinary   bool
	Include      []string
	Exclude      []string
	IgnoreFiles  []string
	// OnError receives entries that could not be read. A nil OnError drops them.
	OnError func(path string, err error)
}

type walk struct {
	ctx   context.Context
	opts  Options
	root  string
	visit func(path string) error
}

// Walk yields every eligible regular file under opts.Root to visit, in
// directory order. A Root that is a regular file is yielded as is. Entry
// errors go to opts.OnError and do not stop the walk; an error returned by
// visit or a cancelled ctx does.
func Walk(ctx context.Context, opts Options, visit func(path string) error) error {
	info, err := os.Stat(opts.Root)
	if err != nil {
		report(opts, opts.Root, &types.IOError{Op: "stat", Path: opts.Root, Err: err})
		return nil
	}
	if !info.IsDir() {
		if !info.Mode().IsRegular() {
			report(opts, opts.Root, &types.IOError{Op: "open", Path: opts.Root, Err: types.ErrNotRegular})
			return nil
		}
		return visit(opts.Root)
	}
	ign, err := ignore.NewRoot(opts.Root, ignore.Options{
		NoIgnore:     opts.NoIgnore,
		NoRequireGit: opts.NoRequireGit,
		NoGlobal:     opts.NoGlobal,
		Files:        opts.IgnoreFiles,
	})
	if err != nil {
		report(opts, opts.Root, err)
	}
	if ign == nil {
		return nil
	}
	w := &walk{ctx: ctx, opts: opts, root: opts.Root, visit: visit}
	entries, ok := w.readDir(opts.Root)
	if !ok {
		return nil
	}
	return w.dir(opts.Root, entries, ign, 0, []os.FileInfo{info})
}

// Count returns the number of files Walk would yield for opts.
func Count(ctx context.Context, opts Options) (int, error) {
	opts.OnError = nil
	n := 0
	err := Walk(ctx, opts, func(string) error {
		n++
		return nil
	})
	return n, err
}

// readDir lists dir, reporting a failure. ReadDir may return the entries it
// read before failing; those are still walked.
func (w *walk) readDir(dir string) ([]fs.DirEntry, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		report(w.opts, dir, &types.IOError{Op: "read dir", Path: dir, Err: err})
	}
	return entries, len(entries) > 0
}

func (w *walk) dir(dir string, entries []fs.DirEntry, ign *ignore.Dir, depth int, ancestors []os.FileInfo) error {
	for _, e := range entries {
		if err := w.ctx.Err(); err != nil {
			return err
		}
		if err := w.entry(dir, e, ign, depth+1, ancestors); err != nil {
			return err
		}
	}
	return nil
}

func (w *walk) entry(dir string, e fs.DirEntry, ign *ignore.Dir, depth int, ancestors []os.FileInfo) error {
	name := e.Name()
	path := filepath.Join(dir, name)
	if w.opts.MaxDepth > 0 && depth > w.opts.MaxDepth {
		return nil
	}

	var info os.FileInfo
	isDir := e.IsDir()
	isLink := e.Type()&fs.ModeSymlink != 0
	if isLink {
		var err error
		if info, err = os.Stat(path); err != nil {
			report(w.opts, path, &types.IOError{Op: "stat", Path: path, Err: err})
			return nil
		}
		isDir = info.IsDir()
		if isDir && !w.opts.FollowLinks {
			return nil
		}
	}

	decision := ign.Decide(path, isDir)
	if decision == ignore.Ignored {
		logrus.WithField("path", path).Trace("skip: ignored")
		return nil
	}
	if decision != ignore.Whitelisted && !w.opts.Hidden.IncludesHidden() && isHidden(name) {
		logrus.WithField("path", path).Trace("skip: hidden")
		return nil
	}

	if isDir {
		if info == nil && w.opts.FollowLinks {
			var err error
			if info, err = e.Info(); err != nil {
				report(w.opts, path, &types.IOError{Op: "stat", Path: path, Err: err})
				return nil
			}
		}
		if isLink {
			for _, a := range ancestors {
				if os.SameFile(a, info) {
					report(w.opts, path, &types.IOError{Op: "follow", Path: path, Err: ErrLinkLoop})
					return nil
				}
			}
		}
		entries, ok := w.readDir(path)
		if !ok {
			return nil
		}
		child, err := ign.Child(path)
		if err != nil {
			report(w.opts, path, err)
		}
		next := ancestors
		if w.opts.FollowLinks {
			next = append(ancestors[:len(ancestors):len(ancestors)], info)
		}
		return w.dir(path, entries, child, depth, next)
	}

	if info == nil && !e.Type().IsRegular() {
		return nil
	}
	if info != nil && !info.Mode().IsRegular() {
		return nil
	}
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		rel = name
	}
	if !allowedByGlobs(rel, w.opts.Include, w.opts.Exclude) {
		logrus.WithField("path", path).Trace("skip: glob")
		return nil
	}
	if w.opts.MaxFileSize > 0 {
		if info == nil {
			if info, err = e.Info(); err != nil {
				report(w.opts, path, &types.IOError{Op: "stat", Path: path, Err: err})
				return nil
			}
		}
		if info.Size() > w.opts.MaxFileSize {
			logrus.WithField("path", path).Trace("skip: size")
			return nil
		}
	}
	if w.opts.SkipBinary {
		// unreadable files fall through so the scanner reports them
		if bin, err := looksBinary(path); err == nil && bin {
			logrus.WithField("path", path).Trace("skip: binary")
			return nil
		}
	}
	return w.visit(path)
}

func report(opts Options, path string, err error) {
	if opts.OnError != nil {
		opts.OnError(path, err)
	}
}
