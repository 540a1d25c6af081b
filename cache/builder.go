package cache

import (
	"fmt"

	"github.com/sarchlab/csim/cache/internal/tagging"
)

// A ConfigError reports an invalid cache geometry parameter. It is
// always detected before any cache state exists.
type ConfigError struct {
	Param  string
	Value  int
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s %d: %s", e.Param, e.Value, e.Reason)
}

// Builder can build cache models.
type Builder struct {
	setIndexBits     int
	blockOffsetBits  int
	wayAssociativity int
	victimFinder     tagging.VictimFinder
}

// MakeBuilder creates a new builder with default geometry.
func MakeBuilder() Builder {
	return Builder{
		setIndexBits:     5,
		blockOffsetBits:  6,
		wayAssociativity: 4,
	}
}

// WithSetIndexBits sets the number of set-index bits. The cache will
// have 2^s sets.
func (b Builder) WithSetIndexBits(s int) Builder {
	b.setIndexBits = s
	return b
}

// WithBlockOffsetBits sets the number of block-offset bits. Blocks are
// 2^b bytes.
func (b Builder) WithBlockOffsetBits(bits int) Builder {
	b.blockOffsetBits = bits
	return b
}

// WithWayAssociativity sets the number of lines per set.
func (b Builder) WithWayAssociativity(e int) Builder {
	b.wayAssociativity = e
	return b
}

// WithVictimFinder sets the replacement policy of the builder.
func (b Builder) WithVictimFinder(vf tagging.VictimFinder) Builder {
	b.victimFinder = vf
	return b
}

// Build validates the geometry and builds a cache model. All sets and
// their line arenas are allocated here, so Access never allocates.
func (b Builder) Build() (*Model, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}

	vf := b.victimFinder
	if vf == nil {
		vf = tagging.NewLRUVictimFinder()
	}

	numSets := 1 << uint(b.setIndexBits)
	sets := make([]*tagging.Set, numSets)
	for i := range sets {
		sets[i] = tagging.NewSet(b.wayAssociativity)
	}

	return &Model{
		setIndexBits:     b.setIndexBits,
		blockOffsetBits:  b.blockOffsetBits,
		wayAssociativity: b.wayAssociativity,
		blockSize:        1 << uint(b.blockOffsetBits),
		sets:             sets,
		victimFinder:     vf,
	}, nil
}

func (b Builder) validate() error {
	if b.setIndexBits < 0 {
		return &ConfigError{
			Param:  "set-index bits",
			Value:  b.setIndexBits,
			Reason: "must be non-negative",
		}
	}

	if b.blockOffsetBits < 0 {
		return &ConfigError{
			Param:  "block-offset bits",
			Value:  b.blockOffsetBits,
			Reason: "must be non-negative",
		}
	}

	if b.wayAssociativity < 1 {
		return &ConfigError{
			Param:  "way associativity",
			Value:  b.wayAssociativity,
			Reason: "must be at least 1",
		}
	}

	if b.setIndexBits+b.blockOffsetBits >= tagging.AddressWidth {
		return &ConfigError{
			Param: "set-index plus block-offset bits",
			Value: b.setIndexBits + b.blockOffsetBits,
			Reason: fmt.Sprintf(
				"must be smaller than the address width %d",
				tagging.AddressWidth,
			),
		}
	}

	return nil
}
