// pkg/codec/gzip.go
package codec

import (
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
)

type gzipCodec struct{}

func (gzipCodec) ID() ID            { return Gzip }
func (gzipCodec) MinLevel() int     { return 1 }
func (gzipCodec) MaxLevel() int     { return 9 }
func (gzipCodec) DefaultLevel() int { return 6 }
func (gzipCodec) Extension() string { return "gz" }

func (c gzipCodec) NewWriter(w io.Writer, level int) (io.WriteCloser, error) {
	return gzip.NewWriterLevel(w, clampLevel(level, c.MinLevel(), c.MaxLevel(), c.DefaultLevel()))
}

func (gzipCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return gzip.NewReader(r)
}

type deflateCodec struct{}

func (deflateCodec) ID() ID            { return Deflate }
func (deflateCodec) MinLevel() int     { return 1 }
func (deflateCodec) MaxLevel() int     { return 9 }
func (deflateCodec) DefaultLevel() int { return 6 }
func (deflateCodec) Extension() string { return "zz" }

func (c deflateCodec) NewWriter(w io.Writer, level int) (io.WriteCloser, error) {
	return flate.NewWriter(w, clampLevel(level, c.MinLevel(), c.MaxLevel(), c.DefaultLevel()))
}

func (deflateCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return flate.NewReader(r), nil
}

func init() {
	Register(gzipCodec{})
	Register(deflateCodec{})
}
