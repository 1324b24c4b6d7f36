package report

import (
	xxhash "github.com/cespare/xxhash/v2"
	"github.com/o3rg/o3rg/internal/types"
)

// Digest fingerprints a result set independently of match order, so two
// searches over an unchanged tree yield the same digest.
func Digest(matches []types.FileMatches) string {
	var sum uint64
	d := xxhash.New()
	for _, m := range matches {
		d.Reset()
		_, _ = d.WriteString(m.Path)
		_, _ = d.Write([]byte{0})
		_, _ = d.WriteString(m.Text)
		var line [8]byte
		for i := range line {
			line[i] = byte(m.Line >> (8 * i))
		}
		_, _ = d.Write([]byte{0})
		_, _ = d.Write(line[:])
		sum += d.Sum64()
	}
	return hex16(sum)
}

func hex16(sum uint64) string {
	var buf [16]byte
	const hex = "0123456789abcdef"
	for i := 15; i >= 0; i-- {
		buf[i] = hex[sum&0xF]
		sum >>= 4
	}
	return string(buf[:])
}
