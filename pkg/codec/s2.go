// pkg/codec/s2.go
package codec

import (
	"io"

	"github.com/klauspost/compress/s2"
)

type s2Codec struct{}

func (s2Codec) ID() ID            { return S2 }
func (s2Codec) MinLevel() int     { return 1 }
func (s2Codec) MaxLevel() int     { return 3 }
func (s2Codec) DefaultLevel() int { return 1 }
func (s2Codec) Extension() string { return "s2" }

func (c s2Codec) NewWriter(w io.Writer, level int) (io.WriteCloser, error) {
	level = clampLevel(level, c.MinLevel(), c.MaxLevel(), c.DefaultLevel())

	var opts []s2.WriterOption
	switch level {
	case 2:
		opts = append(opts, s2.WriterBetterCompression())
	case 3:
		opts = append(opts, s2.WriterBestCompression())
	}
	return s2.NewWriter(w, opts...), nil
}

func (s2Codec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(s2.NewReader(r)), nil
}

func init() {
	Register(s2Codec{})
}
