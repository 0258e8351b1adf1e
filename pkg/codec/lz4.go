// pkg/codec/lz4.go
package codec

import (
	"io"

	"github.com/pierrec/lz4/v4"
)

// lz4Levels maps level 0 (fast) through 9 to the lz4 level constants
var lz4Levels = []lz4.CompressionLevel{
	lz4.Fast,
	lz4.Level1, lz4.Level2, lz4.Level3,
	lz4.Level4, lz4.Level5, lz4.Level6,
	lz4.Level7, lz4.Level8, lz4.Level9,
}

type lz4Codec struct{}

func (lz4Codec) ID() ID            { return LZ4 }
func (lz4Codec) MinLevel() int     { return 0 }
func (lz4Codec) MaxLevel() int     { return 9 }
func (lz4Codec) DefaultLevel() int { return 0 }
func (lz4Codec) Extension() string { return "lz4" }

func (c lz4Codec) NewWriter(w io.Writer, level int) (io.WriteCloser, error) {
	if level < c.MinLevel() || level > c.MaxLevel() {
		level = c.DefaultLevel()
	}
	lw := lz4.NewWriter(w)
	if err := lw.Apply(lz4.CompressionLevelOption(lz4Levels[level])); err != nil {
		return nil, err
	}
	return lw, nil
}

func (lz4Codec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(lz4.NewReader(r)), nil
}

func init() {
	Register(lz4Codec{})
}
