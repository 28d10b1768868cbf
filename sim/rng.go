package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
)

// PartitionedRNG derives an isolated, deterministically-seeded random
// stream per named subsystem from a single master seed. Sampling more
// matrices for one treatment never shifts the draws of another, so adding
// scenarios to an experiment leaves existing scenarios bit-identical.
//
// Derivation: each stream is a PCG seeded with (masterSeed, fnv1a64(name)).
//
// Not safe for concurrent use. Build all scenario inputs up front, then
// hand the finished model to a strategy.
type PartitionedRNG struct {
	seed    int64
	streams map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a master seed.
func NewPartitionedRNG(seed int64) *PartitionedRNG {
	return &PartitionedRNG{
		seed:    seed,
		streams: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns the random stream for the named subsystem. The same
// name always returns the same *rand.Rand instance. Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.streams[name]; ok {
		return rng
	}
	rng := rand.New(rand.NewPCG(uint64(p.seed), fnv1a64(name)))
	p.streams[name] = rng
	return rng
}

// ForScenario returns the random stream that generates the transition
// matrix for one treatment and sample.
func (p *PartitionedRNG) ForScenario(treatment, sample int) *rand.Rand {
	return p.ForSubsystem(fmt.Sprintf("treatment_%d/sample_%d", treatment, sample))
}

// Seed returns the master seed this PartitionedRNG was created from.
func (p *PartitionedRNG) Seed() int64 {
	return p.seed
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}
