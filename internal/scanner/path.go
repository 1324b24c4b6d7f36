package scanner

import (
	"errors"
	"os"

	"github.com/o3rg/o3rg/internal/matcher"
	"github.com/o3rg/o3rg/internal/types"
	"github.com/sirupsen/logrus"
)

// ScanPath opens path and scans its contents. Every failure to stat, open or
// read the file is returned as a *types.IOError for that path.
func ScanPath(path string, p *matcher.Pattern) ([]types.Match, error) {
	// stat before open so fifos and devices are rejected without blocking
	st, err := os.Stat(path)
	if err != nil {
		return nil, &types.IOError{Op: "stat", Path: path, Err: err}
	}
	if !st.Mode().IsRegular() {
		return nil, &types.IOError{Op: "open", Path: path, Err: types.ErrNotRegular}
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, &types.IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	matches, err := scan(f, p, func(de types.DecodeError) {
		logrus.WithFields(logrus.Fields{"path": path, "line": de.Line}).Trace("skipping line with invalid UTF-8")
	})
	if err != nil {
		var ioe *types.IOError
		if errors.As(err, &ioe) {
			ioe.Path = path
		}
		return matches, err
	}
	return matches, nil
}
