// pkg/squash/config.go
package squash

import (
	"fmt"

	"github.com/creativeyann17/go-squash/pkg/codec"
)

// LevelDefault selects the codec's own default compression level
const LevelDefault = -1

// AlgorithmSpec pairs a codec with a validated compression level.
// Construct through NewSpec/NewOptionalSpec; LevelDefault selects the
// codec's default. Level bounds are enforced at construction so an
// out-of-range level is never a runtime surprise.
type AlgorithmSpec struct {
	Codec    codec.ID
	Level    int
	Optional bool
}

// NewSpec builds a required algorithm spec, validating the level against
// the codec's bounds. LevelDefault means "codec default"; so does 0 for
// codecs whose range starts above it, which keeps 0 usable as a real
// level where the codec defines one (brotli's fastest setting).
func NewSpec(id codec.ID, level int) (AlgorithmSpec, error) {
	c, ok := codec.Lookup(id)
	if !ok {
		return AlgorithmSpec{}, fmt.Errorf("codec %q: %w", id, ErrCodecUnavailable)
	}
	if level == LevelDefault || (level == 0 && c.MinLevel() > 0) {
		level = c.DefaultLevel()
	}
	if level < c.MinLevel() || level > c.MaxLevel() {
		return AlgorithmSpec{}, fmt.Errorf("codec %q level %d (valid %d-%d): %w",
			id, level, c.MinLevel(), c.MaxLevel(), ErrInvalidLevel)
	}
	return AlgorithmSpec{Codec: id, Level: level}, nil
}

// NewOptionalSpec builds a spec whose failure does not block item success
func NewOptionalSpec(id codec.ID, level int) (AlgorithmSpec, error) {
	spec, err := NewSpec(id, level)
	if err != nil {
		return AlgorithmSpec{}, err
	}
	spec.Optional = true
	return spec, nil
}

// AlgorithmSet is an ordered set of algorithm specs, unique by codec.
// The zero value is an empty set. Sets are immutable; Add and Merge
// return new sets.
type AlgorithmSet struct {
	specs []AlgorithmSpec
}

// NewAlgorithmSet builds a set from specs in order. A repeated codec
// keeps its original position but takes the later spec's level and
// optionality (last write wins).
func NewAlgorithmSet(specs ...AlgorithmSpec) AlgorithmSet {
	var s AlgorithmSet
	for _, spec := range specs {
		s = s.Add(spec)
	}
	return s
}

// Add returns a new set with spec added (or overriding an existing
// entry for the same codec, in place)
func (s AlgorithmSet) Add(spec AlgorithmSpec) AlgorithmSet {
	out := make([]AlgorithmSpec, len(s.specs))
	copy(out, s.specs)
	for i, existing := range out {
		if existing.Codec == spec.Codec {
			out[i] = spec
			return AlgorithmSet{specs: out}
		}
	}
	return AlgorithmSet{specs: append(out, spec)}
}

// Merge returns a new set where other's entries override on conflict
func (s AlgorithmSet) Merge(other AlgorithmSet) AlgorithmSet {
	out := s
	for _, spec := range other.specs {
		out = out.Add(spec)
	}
	return out
}

// Specs returns the entries in iteration order
func (s AlgorithmSet) Specs() []AlgorithmSpec {
	out := make([]AlgorithmSpec, len(s.specs))
	copy(out, s.specs)
	return out
}

// Len returns the number of entries
func (s AlgorithmSet) Len() int { return len(s.specs) }

// Lookup returns the spec for a codec, if present
func (s AlgorithmSet) Lookup(id codec.ID) (AlgorithmSpec, bool) {
	for _, spec := range s.specs {
		if spec.Codec == id {
			return spec, true
		}
	}
	return AlgorithmSpec{}, false
}

// ItemConfig describes how one item is compressed: which codecs apply
// and an optional byte ceiling. Immutable; safe to share across
// concurrent compressions of different items.
type ItemConfig struct {
	algorithms AlgorithmSet
	maxBytes   int64
}

// NewItemConfig validates and builds an item configuration.
// maxBytes 0 means no ceiling.
func NewItemConfig(algorithms AlgorithmSet, maxBytes int64) (ItemConfig, error) {
	if algorithms.Len() == 0 {
		return ItemConfig{}, ErrNoAlgorithms
	}
	if maxBytes < 0 {
		return ItemConfig{}, fmt.Errorf("%d: %w", maxBytes, ErrInvalidMaxBytes)
	}
	return ItemConfig{algorithms: algorithms, maxBytes: maxBytes}, nil
}

// DefaultItemConfig compresses with every registered codec at its
// default level, no size ceiling.
func DefaultItemConfig() ItemConfig {
	var set AlgorithmSet
	for _, id := range codec.Available() {
		spec, err := NewSpec(id, LevelDefault)
		if err != nil {
			continue
		}
		set = set.Add(spec)
	}
	cfg, _ := NewItemConfig(set, 0)
	return cfg
}

// Algorithms returns the configured algorithm set
func (c ItemConfig) Algorithms() AlgorithmSet { return c.algorithms }

// withCeiling returns a config whose ceiling is the stricter of the
// current one and max
func (c ItemConfig) withCeiling(max int64) ItemConfig {
	if max <= 0 {
		return c
	}
	if c.maxBytes == 0 || max < c.maxBytes {
		c.maxBytes = max
	}
	return c
}

// MaxBytes returns the byte ceiling (0 = unlimited)
func (c ItemConfig) MaxBytes() int64 { return c.maxBytes }
