package scanner

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"unicode/utf8"

	"github.com/o3rg/o3rg/internal/matcher"
	"github.com/o3rg/o3rg/internal/types"
)

const readBufferSize = 64 * 1024

// Scan reads r to EOF and returns one Match per matching line, in line
// order. Lines end at '\n'; a trailing '\r' is dropped. A final line without
// a terminator counts if it is non-empty. Matching lines that are not valid
// UTF-8 are skipped.
//
// If reading fails part way, the matches collected so far are returned along
// with a *types.IOError.
func Scan(r io.Reader, p *matcher.Pattern) ([]types.Match, error) {
	return scan(r, p, nil)
}

func scan(r io.Reader, p *matcher.Pattern, onSkip func(types.DecodeError)) ([]types.Match, error) {
	br := bufio.NewReaderSize(r, readBufferSize)
	var (
		out     []types.Match
		lineNum uint64
		long    []byte
	)
	for {
		chunk, err := br.ReadSlice('\n')
		if errors.Is(err, bufio.ErrBufferFull) {
			// line longer than the buffer; accumulate and keep reading
			long = append(long, chunk...)
			continue
		}
		line := chunk
		if len(long) > 0 {
			long = append(long, chunk...)
			line = long
		}
		if len(line) > 0 {
			lineNum++
			if m, ok := matchLine(p, line, lineNum, onSkip); ok {
				out = append(out, m)
			}
		}
		long = long[:0]
		if err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return out, &types.IOError{Op: "read", Err: err}
		}
	}
}

func matchLine(p *matcher.Pattern, line []byte, n uint64, onSkip func(types.DecodeError)) (types.Match, bool) {
	line = bytes.TrimSuffix(line, []byte{'\n'})
	line = bytes.TrimSuffix(line, []byte{'\r'})
	start, end, ok := p.FindFirst(line)
	if !ok {
		return types.Match{}, false
	}
	if !utf8.Valid(line) {
		if onSkip != nil {
			onSkip(types.DecodeError{Line: n})
		}
		return types.Match{}, false
	}
	return types.Match{Line: n, Text: string(line[start:end])}, true
}
