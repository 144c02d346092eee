package tiling

import (
	"cmp"
	"slices"
	"time"
)

// Source is the random source used for highlight sampling.
// *math/rand/v2.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

// Highlighter keeps the set of emphasised tiles. The set is replaced as a
// whole on every reshuffle; between reshuffles it is read-only.
type Highlighter struct {
	Count int
	Every time.Duration

	rng     Source
	set     map[TileKey]struct{}
	last    time.Time
	started bool
}

func NewHighlighter(count int, every time.Duration, rng Source) *Highlighter {
	return &Highlighter{Count: count, Every: every, rng: rng, set: map[TileKey]struct{}{}}
}

// Due reports whether the set should be resampled at now.
func (h *Highlighter) Due(now time.Time) bool {
	if !h.started {
		return true
	}
	return now.Sub(h.last) >= h.Every
}

// Reshuffle replaces the set with up to Count distinct keys drawn without
// replacement from candidates.
func (h *Highlighter) Reshuffle(now time.Time, candidates []TileKey) {
	h.started = true
	h.last = now

	pool := dedupe(candidates)
	n := min(h.Count, len(pool))
	next := make(map[TileKey]struct{}, n)
	for i := 0; i < n; i++ {
		j := i
		if h.rng != nil {
			j = i + h.rng.IntN(len(pool)-i)
		}
		pool[i], pool[j] = pool[j], pool[i]
		next[pool[i]] = struct{}{}
	}
	h.set = next
}

// Reset empties the set; the next Due call reports true.
func (h *Highlighter) Reset() {
	h.set = map[TileKey]struct{}{}
	h.last = time.Time{}
	h.started = false
}

// Has reports whether key is highlighted.
func (h *Highlighter) Has(key TileKey) bool {
	_, ok := h.set[key]
	return ok
}

func (h *Highlighter) Len() int { return len(h.set) }

// Keys returns the current set in row, column order.
func (h *Highlighter) Keys() []TileKey {
	keys := make([]TileKey, 0, len(h.set))
	for key := range h.set {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, compareKeys)
	return keys
}

// Since returns when the current set was sampled.
func (h *Highlighter) Since() time.Time { return h.last }

func compareKeys(a, b TileKey) int {
	if c := cmp.Compare(a.Row, b.Row); c != 0 {
		return c
	}
	return cmp.Compare(a.Col, b.Col)
}

func dedupe(keys []TileKey) []TileKey {
	seen := make(map[TileKey]struct{}, len(keys))
	out := make([]TileKey, 0, len(keys))
	for _, key := range keys {
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}
