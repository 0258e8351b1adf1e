// pkg/codec/zstd.go
package codec

import (
	"io"

	"github.com/klauspost/compress/zstd"
)

type zstdCodec struct{}

func (zstdCodec) ID() ID            { return Zstd }
func (zstdCodec) MinLevel() int     { return 1 }
func (zstdCodec) MaxLevel() int     { return 22 }
func (zstdCodec) DefaultLevel() int { return 5 }
func (zstdCodec) Extension() string { return "zst" }

func (c zstdCodec) NewWriter(w io.Writer, level int) (io.WriteCloser, error) {
	level = clampLevel(level, c.MinLevel(), c.MaxLevel(), c.DefaultLevel())
	return zstd.NewWriter(w,
		zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)),
		zstd.WithZeroFrames(true),
	)
}

func (zstdCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	return dec.IOReadCloser(), nil
}

func init() {
	Register(zstdCodec{})
}
