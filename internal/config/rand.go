package config

import "math/rand/v2"

// Rand returns the highlight source: seeded when Seed is set, random otherwise.
func (s Settings) Rand() *rand.Rand {
	if s.Seed != 0 {
		return rand.New(rand.NewPCG(s.Seed, s.Seed^0x9e3779b97f4a7c15))
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
