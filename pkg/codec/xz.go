// pkg/codec/xz.go
package codec

import (
	"io"

	"github.com/ulikunitz/xz"
)

type xzCodec struct{}

func (xzCodec) ID() ID            { return XZ }
func (xzCodec) MinLevel() int     { return 1 }
func (xzCodec) MaxLevel() int     { return 9 }
func (xzCodec) DefaultLevel() int { return 6 }
func (xzCodec) Extension() string { return "xz" }

func (c xzCodec) NewWriter(w io.Writer, level int) (io.WriteCloser, error) {
	level = clampLevel(level, c.MinLevel(), c.MaxLevel(), c.DefaultLevel())

	// xz has no direct level knob; scale the LZMA2 dictionary with level
	cfg := xz.WriterConfig{
		DictCap: 1 << (20 + level),
	}
	if level >= 7 {
		cfg.DictCap = 1 << 26 // 64MB ceiling for high levels
	}
	return cfg.NewWriter(w)
}

func (xzCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	xr, err := xz.NewReader(r)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(xr), nil
}

func init() {
	Register(xzCodec{})
}
