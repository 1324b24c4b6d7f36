package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/o3rg/o3rg/internal/report"
	"github.com/o3rg/o3rg/internal/types"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = "name abc\n123 xyz\nteststring\n\nname"

func isolateGlobal(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestSearchFile_Scenarios(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.txt")
	mustWrite(t, path, sample)

	got, err := SearchFile(path, "name")
	require.NoError(t, err)
	assert.Equal(t, []types.Match{{Line: 1, Text: "name"}, {Line: 5, Text: "name"}}, got)

	got, err = SearchFile(path, `test\d+`)
	require.NoError(t, err)
	assert.Empty(t, got)

	mustWrite(t, path, "test123\ntest456\nnotmatch\ntest789")
	got, err = SearchFile(path, `test\d+`)
	require.NoError(t, err)
	assert.Equal(t, []types.Match{{Line: 1, Text: "test123"}, {Line: 2, Text: "test456"}, {Line: 4, Text: "test789"}}, got)
}

func TestSearchFile_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("invalid pattern before any I/O", func(t *testing.T) {
		_, err := SearchFile(filepath.Join(dir, "missing.txt"), "a(b")
		var pe *types.PatternError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, types.ClassPattern, types.Classify(err))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := SearchFile(filepath.Join(dir, "missing.txt"), "x")
		assert.Equal(t, types.ClassIO, types.Classify(err))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("directory", func(t *testing.T) {
		_, err := SearchFile(dir, "x")
		assert.ErrorIs(t, err, types.ErrNotRegular)
	})
}

func TestSearchDirectory_InvalidPattern(t *testing.T) {
	_, err := SearchDirectory(filepath.Join(t.TempDir(), "nope"), "(", nil)
	var pe *types.PatternError
	require.ErrorAs(t, err, &pe)
}

func TestSearchDirectory_HiddenFlag(t *testing.T) {
	isolateGlobal(t)
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "visible.txt"), "needle\n")
	mustWrite(t, filepath.Join(dir, ".hidden.txt"), "needle\n")
	yes, no := true, false

	for _, tc := range []struct {
		name   string
		hidden *bool
		want   int
	}{
		{"unset", nil, 1},
		{"true skips", &yes, 1},
		{"false includes", &no, 2},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := SearchDirectory(dir, "needle", tc.hidden)
			require.NoError(t, err)
			assert.Len(t, got, tc.want)
		})
	}
}

func TestSearchDirectory_PerFileOrder(t *testing.T) {
	isolateGlobal(t)
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "a.txt"), sample)
	mustWrite(t, filepath.Join(dir, "sub", "b.txt"), sample)

	got, err := SearchDirectory(dir, "name", nil)
	require.NoError(t, err)
	require.Len(t, got, 4)
	byPath := map[string][]uint64{}
	for _, m := range got {
		byPath[m.Path] = append(byPath[m.Path], m.Line)
	}
	assert.Equal(t, map[string][]uint64{
		filepath.Join(dir, "a.txt"):        {1, 5},
		filepath.Join(dir, "sub", "b.txt"): {1, 5},
	}, byPath)
}

func TestSearchDirectoryWithStats_UnreadableFileIsolated(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permissions are not enforced for root")
	}
	isolateGlobal(t)
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "ok.txt"), "needle\n")
	locked := filepath.Join(dir, "locked.txt")
	mustWrite(t, locked, "needle\n")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o644) })

	var mu sync.Mutex
	var failed []string
	res, err := SearchDirectoryWithStats(context.Background(), Config{
		Root:    dir,
		Pattern: "needle",
		OnError: func(p string, err error) {
			mu.Lock()
			defer mu.Unlock()
			failed = append(failed, p)
			assert.Equal(t, types.ClassIO, types.Classify(err))
		},
	})
	require.NoError(t, err)
	require.Len(t, res.Matches, 1)
	assert.Equal(t, filepath.Join(dir, "ok.txt"), res.Matches[0].Path)
	assert.Equal(t, 2, res.FilesScanned)
	assert.Equal(t, 1, res.FilesSkipped)
	assert.Equal(t, []string{locked}, failed)
}

func TestSearchDirectoryWithStats_BrokenEntryIsolated(t *testing.T) {
	isolateGlobal(t)
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "ok.txt"), "needle\n")
	dangling := filepath.Join(dir, "dangling.txt")
	if err := os.Symlink(filepath.Join(dir, "gone.txt"), dangling); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	var mu sync.Mutex
	var failed []string
	res, err := SearchDirectoryWithStats(context.Background(), Config{
		Root:    dir,
		Pattern: "needle",
		OnError: func(p string, err error) {
			mu.Lock()
			defer mu.Unlock()
			failed = append(failed, p)
			assert.Equal(t, types.ClassIO, types.Classify(err))
		},
	})
	require.NoError(t, err)
	require.Len(t, res.Matches, 1)
	assert.Equal(t, filepath.Join(dir, "ok.txt"), res.Matches[0].Path)
	assert.Equal(t, 1, res.FilesSkipped)
	assert.Equal(t, []string{dangling}, failed)
}

func TestSearchDirectory_HiddenIncludesGitDir(t *testing.T) {
	isolateGlobal(t)
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, ".git", "config"), "needle\n")
	mustWrite(t, filepath.Join(dir, ".cfg", "x"), "needle\n")
	mustWrite(t, filepath.Join(dir, "v.txt"), "needle\n")
	no := false

	got, err := SearchDirectory(dir, "needle", &no)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	got, err = SearchDirectory(dir, "needle", nil)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSearchDirectory_NestedRepoGitignore(t *testing.T) {
	isolateGlobal(t)
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))
	mustWrite(t, filepath.Join(dir, ".gitignore"), "*.log\n")
	mustWrite(t, filepath.Join(dir, "outer.log"), "needle\n")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "inner", ".git"), 0o755))
	mustWrite(t, filepath.Join(dir, "inner", "a.log"), "needle\n")

	got, err := SearchDirectory(dir, "needle", nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, filepath.Join(dir, "inner", "a.log"), got[0].Path)
}

func TestSearchDirectoryWithStats_QuietAtInfo(t *testing.T) {
	isolateGlobal(t)
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "a.txt"), "needle\n")

	prev := logrus.GetLevel()
	logrus.SetLevel(logrus.InfoLevel)
	hook := test.NewGlobal()
	t.Cleanup(func() {
		logrus.SetLevel(prev)
		logrus.StandardLogger().ReplaceHooks(make(logrus.LevelHooks))
	})

	_, err := SearchDirectoryWithStats(context.Background(), Config{Root: dir, Pattern: "needle"})
	require.NoError(t, err)
	assert.Empty(t, hook.AllEntries())
}

func TestSearchDirectoryWithStats_MissingRoot(t *testing.T) {
	res, err := SearchDirectoryWithStats(context.Background(), Config{
		Root:    filepath.Join(t.TempDir(), "missing"),
		Pattern: "x",
	})
	require.NoError(t, err)
	assert.Empty(t, res.Matches)
	assert.Equal(t, 1, res.FilesSkipped)
}

func TestSearchDirectoryWithStats_Idempotent(t *testing.T) {
	isolateGlobal(t)
	dir := t.TempDir()
	for i := 0; i < 40; i++ {
		mustWrite(t, filepath.Join(dir, fmt.Sprintf("d%d", i%5), fmt.Sprintf("f%d.txt", i)), sample)
	}
	cfg := Config{Root: dir, Pattern: "name", Threads: 4, QueueSize: 2}

	first, err := SearchDirectoryWithStats(context.Background(), cfg)
	require.NoError(t, err)
	second, err := SearchDirectoryWithStats(context.Background(), cfg)
	require.NoError(t, err)
	assert.Len(t, first.Matches, 80)
	assert.Equal(t, 40, first.FilesScanned)
	assert.Equal(t, report.Digest(first.Matches), report.Digest(second.Matches))
}

func TestSearchDirectoryWithStats_Progress(t *testing.T) {
	isolateGlobal(t)
	dir := t.TempDir()
	for i := 0; i < 7; i++ {
		mustWrite(t, filepath.Join(dir, fmt.Sprintf("f%d.txt", i)), "x\n")
	}
	var ticks atomic.Int64
	cfg := Config{Root: dir, Pattern: "x", Threads: 3, Progress: func() { ticks.Add(1) }}
	res, err := SearchDirectoryWithStats(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, int64(7), ticks.Load())
	assert.Len(t, res.Matches, 7)

	n, err := CountTargets(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}

func TestSearchDirectoryWithStats_Cancelled(t *testing.T) {
	isolateGlobal(t)
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "a.txt"), "needle\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := SearchDirectoryWithStats(ctx, Config{Root: dir, Pattern: "needle"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, res.Matches)
}

func TestSearchDirectoryWithStats_Globs(t *testing.T) {
	isolateGlobal(t)
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "a.go"), "needle\n")
	mustWrite(t, filepath.Join(dir, "b.md"), "needle\n")

	res, err := SearchDirectoryWithStats(context.Background(), Config{Root: dir, Pattern: "needle", IncludeGlobs: "*.go"})
	require.NoError(t, err)
	var paths []string
	for _, m := range res.Matches {
		paths = append(paths, filepath.Base(m.Path))
	}
	sort.Strings(paths)
	assert.Equal(t, []string{"a.go"}, paths)

	_, err = SearchDirectoryWithStats(context.Background(), Config{Root: dir, Pattern: "needle", ExcludeGlobs: "[bad"})
	assert.Error(t, err)
}

func BenchmarkSearchDirectory(b *testing.B) {
	dir := b.TempDir()
	for i := 0; i < 200; i++ {
		p := filepath.Join(dir, fmt.Sprintf("d%d", i%10), fmt.Sprintf("f%d.txt", i))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			b.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(sample), 0o644); err != nil {
			b.Fatal(err)
		}
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := SearchDirectory(dir, "name", nil); err != nil {
			b.Fatal(err)
		}
	}
}
