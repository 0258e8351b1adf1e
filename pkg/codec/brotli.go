// pkg/codec/brotli.go
package codec

import (
	"io"

	"github.com/andybalholm/brotli"
)

type brotliCodec struct{}

func (brotliCodec) ID() ID            { return Brotli }
func (brotliCodec) MinLevel() int     { return brotli.BestSpeed }       // 0
func (brotliCodec) MaxLevel() int     { return brotli.BestCompression } // 11
func (brotliCodec) DefaultLevel() int { return brotli.DefaultCompression }
func (brotliCodec) Extension() string { return "br" }

func (c brotliCodec) NewWriter(w io.Writer, level int) (io.WriteCloser, error) {
	if level < c.MinLevel() || level > c.MaxLevel() {
		level = c.DefaultLevel()
	}
	return brotli.NewWriterLevel(w, level), nil
}

func (brotliCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(brotli.NewReader(r)), nil
}

func init() {
	Register(brotliCodec{})
}
