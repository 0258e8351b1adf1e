// pkg/negotiate/negotiate_test.go
package negotiate

import (
	"testing"

	"github.com/creativeyann17/go-squash/pkg/codec"
)

func TestBest(t *testing.T) {
	gzipBr := []codec.ID{codec.Gzip, codec.Brotli}

	tests := []struct {
		name      string
		header    string
		available []codec.ID
		want      codec.ID
		wantOK    bool
	}{
		{
			name:      "empty header means uncompressed",
			header:    "",
			available: gzipBr,
			wantOK:    false,
		},
		{
			name:      "highest quality wins",
			header:    "br;q=1.0, gzip;q=0.8",
			available: gzipBr,
			want:      codec.Brotli,
			wantOK:    true,
		},
		{
			name:      "all rejected",
			header:    "gzip;q=0, br;q=0",
			available: gzipBr,
			wantOK:    false,
		},
		{
			name:      "wildcard tie broken by priority order",
			header:    "*;q=0.1",
			available: gzipBr,
			want:      codec.Gzip,
			wantOK:    true,
		},
		{
			name:      "wildcard tie with reversed priority",
			header:    "*;q=0.1",
			available: []codec.ID{codec.Brotli, codec.Gzip},
			want:      codec.Brotli,
			wantOK:    true,
		},
		{
			name:      "identity outscores every codec",
			header:    "identity;q=1.0, gzip;q=0.5",
			available: []codec.ID{codec.Gzip},
			wantOK:    false,
		},
		{
			name:      "codec outscores identity",
			header:    "identity;q=0.5, gzip;q=1.0",
			available: []codec.ID{codec.Gzip},
			want:      codec.Gzip,
			wantOK:    true,
		},
		{
			name:      "identity tie does not outscore",
			header:    "identity, gzip",
			available: []codec.ID{codec.Gzip},
			wantOK:    false,
		},
		{
			name:      "identity rejected is ignored",
			header:    "identity;q=0, gzip;q=0.5",
			available: []codec.ID{codec.Gzip},
			want:      codec.Gzip,
			wantOK:    true,
		},
		{
			name:      "default quality is 1.0",
			header:    "gzip, br;q=0.9",
			available: gzipBr,
			want:      codec.Gzip,
			wantOK:    true,
		},
		{
			name:      "explicit entry overrides wildcard",
			header:    "gzip;q=0.2, *;q=0.9",
			available: gzipBr,
			want:      codec.Brotli,
			wantOK:    true,
		},
		{
			name:      "wildcard rejection spares explicit entries",
			header:    "gzip;q=0.3, *;q=0",
			available: gzipBr,
			want:      codec.Gzip,
			wantOK:    true,
		},
		{
			name:      "malformed quality degrades to 1.0",
			header:    "gzip;q=banana, br;q=0.9",
			available: gzipBr,
			want:      codec.Gzip,
			wantOK:    true,
		},
		{
			name:      "too many fractional digits degrades to 1.0",
			header:    "gzip;q=0.1234, br;q=0.9",
			available: gzipBr,
			want:      codec.Gzip,
			wantOK:    true,
		},
		{
			name:      "quality above one degrades to 1.0",
			header:    "gzip;q=7, br;q=0.9",
			available: gzipBr,
			want:      codec.Gzip,
			wantOK:    true,
		},
		{
			name:      "no available codec mentioned",
			header:    "zstd;q=0.9",
			available: gzipBr,
			wantOK:    false,
		},
		{
			name:      "case insensitive token names",
			header:    "GZIP;Q=0.8",
			available: gzipBr,
			want:      codec.Gzip,
			wantOK:    true,
		},
		{
			name:      "whitespace tolerant",
			header:    " br ; q=0.7 ,  gzip ; q=0.4 ",
			available: gzipBr,
			want:      codec.Brotli,
			wantOK:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Best(tt.header, tt.available)
			if ok != tt.wantOK {
				t.Fatalf("Best(%q) ok = %v, want %v", tt.header, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("Best(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}
