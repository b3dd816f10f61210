// Package candidate implements the prefetcher's candidate table (CT): a
// fixed-size table of directional hypotheses, one of which is promoted to a
// stream once its confidence saturates.
package candidate

import (
	"math/rand"

	"github.com/SupurCalvinHiggins/l1dprefetcher/internal/counter"
)

// Window is the ±line span (spec.md CANDIDATE_WINDOW) within which an
// access is considered to belong to an existing candidate's region.
const Window = 16

// ConfidenceMax is CANDIDATE_CONFIDENCE_MAX: the confidence value at which
// a candidate promotes to a stream.
const ConfidenceMax = 3

// Kind tags a Hint as either no candidate exists yet, a weak (not yet
// promotable) directional signal, or a strong signal ready for promotion.
// Modeled as the tagged variant suggested in spec.md §9 ("Sum-type hints")
// rather than a boolean-plus-meaningless-field record.
type Kind int

const (
	// HintNone means no candidate existed for the line; one was just
	// allocated fresh, and the caller should fall back to a forward
	// next-line prefetch.
	HintNone Kind = iota
	// HintWeak means an existing candidate trained on the line but has
	// not yet reached ConfidenceMax; Direction is meaningful.
	HintWeak
	// HintStrong means the candidate reached ConfidenceMax and was
	// promoted (and deallocated) in this call; Anchor and Direction
	// describe the stream the caller should allocate.
	HintStrong
)

// Hint is the result of training the candidate table on one access.
type Hint struct {
	Kind      Kind
	Anchor    uint64
	Direction bool

	// Reallocated is true only when an existing candidate was discarded
	// and re-seeded at line because the new access contradicted its
	// established direction — distinct from a HintNone on a line that
	// never had a candidate at all. Telemetry uses this to count
	// direction-flip reallocations.
	Reallocated bool
}

type slot struct {
	allocated    bool
	recentlyUsed bool
	anchor       uint64
	direction    bool
	confidence   counter.Counter
}

// Table is the fixed-size candidate table (N_CANDIDATES entries).
type Table struct {
	slots []slot
	rng   *rand.Rand
}

// New creates a Table with n entries. rng drives the random eviction used
// only when both the free list and the LRU-zero class are exhausted
// (spec.md §4.3, §9); pass a seeded *rand.Rand for deterministic tests.
func New(n int, rng *rand.Rand) *Table {
	return &Table{
		slots: make([]slot, n),
		rng:   rng,
	}
}

// find scans for an allocated entry whose anchor differs from line but
// lies within ±Window of it, returning the first match in table order
// (spec.md §4.3 "Find").
func (t *Table) find(line uint64) (int, bool) {
	for i := range t.slots {
		s := &t.slots[i]
		if !s.allocated || s.anchor == line {
			continue
		}

		var diff uint64
		if line >= s.anchor {
			diff = line - s.anchor
		} else {
			diff = s.anchor - line
		}

		if diff <= Window {
			return i, true
		}
	}

	return 0, false
}

func (t *Table) deallocate(i int) {
	t.slots[i] = slot{}
}

// allocate finds a slot for a fresh candidate anchored at line: prefer a
// free slot, then any slot with a zero LRU bit, then reset all LRU bits
// and pick uniformly at random (spec.md §4.3 "Allocate").
func (t *Table) allocate(line uint64) int {
	for i := range t.slots {
		if !t.slots[i].allocated {
			return t.initSlot(i, line)
		}
	}

	for i := range t.slots {
		if !t.slots[i].recentlyUsed {
			return t.initSlot(i, line)
		}
	}

	for i := range t.slots {
		t.slots[i].recentlyUsed = false
	}

	i := t.rng.Intn(len(t.slots))

	return t.initSlot(i, line)
}

func (t *Table) initSlot(i int, line uint64) int {
	t.slots[i] = slot{
		allocated:    true,
		recentlyUsed: true,
		anchor:       line,
		direction:    false,
		confidence:   counter.New(0, 0, ConfidenceMax),
	}

	return i
}

// Train runs the candidate-table training sequence for one access to line
// (spec.md §4.3 "Train sequence for one access") and returns the resulting
// Hint. On promotion (HintStrong), the candidate is deallocated in the
// same call — the caller is expected to allocate a stream instead.
func (t *Table) Train(line uint64) Hint {
	i, found := t.find(line)
	if !found {
		t.allocate(line)

		return Hint{Kind: HintNone, Anchor: line, Direction: false}
	}

	s := &t.slots[i]
	s.recentlyUsed = true

	observedDir := line > s.anchor

	if s.confidence.Value() == 0 {
		s.direction = observedDir
	}

	if s.direction != observedDir {
		t.deallocate(i)
		t.allocate(line)

		return Hint{Kind: HintNone, Anchor: line, Direction: false, Reallocated: true}
	}

	s.confidence = s.confidence.Inc()

	if s.confidence.AtMax() {
		// Promotion reports the line that just triggered it, not the
		// candidate's original allocation anchor: the stream should start
		// projecting from where the pattern was confirmed, not from where
		// it was first glimpsed (spec.md §8 scenario 1 — the worked
		// example projects from the triggering access, not the original
		// anchor the terser §4.3 pseudocode would suggest).
		dir := s.direction
		t.deallocate(i)

		return Hint{Kind: HintStrong, Anchor: line, Direction: dir}
	}

	return Hint{Kind: HintWeak, Anchor: s.anchor, Direction: s.direction}
}
