// pkg/squash/config_test.go
package squash

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/creativeyann17/go-squash/pkg/codec"
)

func TestNewSpecValidation(t *testing.T) {
	spec, err := NewSpec(codec.Gzip, 9)
	if err != nil {
		t.Fatalf("NewSpec(gzip, 9) failed: %v", err)
	}
	if spec.Level != 9 || spec.Optional {
		t.Errorf("unexpected spec: %+v", spec)
	}

	// Level 0 picks the codec default
	spec, err = NewSpec(codec.Zstd, 0)
	if err != nil {
		t.Fatalf("NewSpec(zstd, 0) failed: %v", err)
	}
	if spec.Level != 5 {
		t.Errorf("default zstd level = %d, want 5", spec.Level)
	}

	// Out-of-range level is a construction-time error
	if _, err := NewSpec(codec.Gzip, 99); !errors.Is(err, ErrInvalidLevel) {
		t.Errorf("NewSpec(gzip, 99) = %v, want ErrInvalidLevel", err)
	}
	if _, err := NewSpec(codec.Gzip, -3); !errors.Is(err, ErrInvalidLevel) {
		t.Errorf("NewSpec(gzip, -3) = %v, want ErrInvalidLevel", err)
	}

	// Unknown codec
	if _, err := NewSpec(codec.ID("nope"), 1); !errors.Is(err, ErrCodecUnavailable) {
		t.Errorf("NewSpec(nope) = %v, want ErrCodecUnavailable", err)
	}
}

func TestNewSpecLevelDefault(t *testing.T) {
	brotli, _ := codec.Lookup(codec.Brotli)

	// Brotli's range starts at 0, so 0 is its fastest setting, not a
	// request for the default
	spec, err := NewSpec(codec.Brotli, 0)
	if err != nil {
		t.Fatalf("NewSpec(br, 0) failed: %v", err)
	}
	if spec.Level != 0 {
		t.Errorf("NewSpec(br, 0).Level = %d, want 0", spec.Level)
	}

	spec, err = NewSpec(codec.Brotli, LevelDefault)
	if err != nil {
		t.Fatalf("NewSpec(br, LevelDefault) failed: %v", err)
	}
	if spec.Level != brotli.DefaultLevel() {
		t.Errorf("NewSpec(br, LevelDefault).Level = %d, want %d", spec.Level, brotli.DefaultLevel())
	}

	// Codecs whose range starts above 0 accept the sentinel too
	spec, err = NewSpec(codec.Gzip, LevelDefault)
	if err != nil {
		t.Fatalf("NewSpec(gzip, LevelDefault) failed: %v", err)
	}
	if spec.Level != 6 {
		t.Errorf("NewSpec(gzip, LevelDefault).Level = %d, want 6", spec.Level)
	}
}

func TestNewOptionalSpec(t *testing.T) {
	spec, err := NewOptionalSpec(codec.Brotli, 4)
	if err != nil {
		t.Fatalf("NewOptionalSpec failed: %v", err)
	}
	if !spec.Optional {
		t.Error("spec should be optional")
	}
}

func TestAlgorithmSetOrderAndUniqueness(t *testing.T) {
	gz5, _ := NewSpec(codec.Gzip, 5)
	gz9, _ := NewSpec(codec.Gzip, 9)
	zstd3, _ := NewSpec(codec.Zstd, 3)

	set := NewAlgorithmSet(gz5, zstd3, gz9)

	want := []AlgorithmSpec{gz9, zstd3}
	if diff := cmp.Diff(want, set.Specs()); diff != "" {
		t.Errorf("set mismatch (-want +got):\n%s", diff)
	}
}

func TestAlgorithmSetMerge(t *testing.T) {
	gz5, _ := NewSpec(codec.Gzip, 5)
	gz9, _ := NewSpec(codec.Gzip, 9)
	zstd3, _ := NewSpec(codec.Zstd, 3)
	br4, _ := NewSpec(codec.Brotli, 4)

	base := NewAlgorithmSet(gz5, zstd3)
	override := NewAlgorithmSet(gz9, br4)

	merged := base.Merge(override)

	// gzip keeps its position but takes the override's level; brotli
	// is appended
	want := []AlgorithmSpec{gz9, zstd3, br4}
	if diff := cmp.Diff(want, merged.Specs()); diff != "" {
		t.Errorf("merge mismatch (-want +got):\n%s", diff)
	}

	// Merge produced new sets; originals untouched
	if got, _ := base.Lookup(codec.Gzip); got.Level != 5 {
		t.Errorf("base mutated: gzip level = %d", got.Level)
	}
}

func TestNewItemConfigValidation(t *testing.T) {
	if _, err := NewItemConfig(AlgorithmSet{}, 0); !errors.Is(err, ErrNoAlgorithms) {
		t.Errorf("empty set: got %v, want ErrNoAlgorithms", err)
	}

	gz, _ := NewSpec(codec.Gzip, 0)
	if _, err := NewItemConfig(NewAlgorithmSet(gz), -1); !errors.Is(err, ErrInvalidMaxBytes) {
		t.Errorf("negative ceiling: got %v, want ErrInvalidMaxBytes", err)
	}

	cfg, err := NewItemConfig(NewAlgorithmSet(gz), 1024)
	if err != nil {
		t.Fatalf("NewItemConfig failed: %v", err)
	}
	if cfg.MaxBytes() != 1024 {
		t.Errorf("MaxBytes = %d, want 1024", cfg.MaxBytes())
	}
}

func TestDefaultItemConfig(t *testing.T) {
	cfg := DefaultItemConfig()
	if cfg.Algorithms().Len() == 0 {
		t.Fatal("default config has no algorithms")
	}
	if cfg.MaxBytes() != 0 {
		t.Errorf("default config has ceiling %d, want none", cfg.MaxBytes())
	}
}
