// Package stream implements the prefetcher's stream table (ST): the set of
// active projected streams, their adaptive distance/degree, and the
// periodic retune that adjusts both from observed accuracy and timeliness.
package stream

import (
	"github.com/SupurCalvinHiggins/l1dprefetcher/internal/counter"
	"github.com/SupurCalvinHiggins/l1dprefetcher/internal/issuequeue"
)

// Tuning bundles the retune thresholds and period length so callers (and
// tests) can override them; New seeds the spec.md §6 defaults.
type Tuning struct {
	TimelinessBoostThreshold float64
	AccuracyBoostThreshold   float64
	AccuracyThrottleThresh   float64
	AccessPeriodMax          int
}

// DefaultTuning matches the compile-time constants in spec.md §6.
func DefaultTuning() Tuning {
	return Tuning{
		TimelinessBoostThreshold: 0.4,
		AccuracyBoostThreshold:   0.8,
		AccuracyThrottleThresh:   0.4,
		AccessPeriodMax:          511,
	}
}

type entry struct {
	allocated  bool
	direction  bool
	anchor     uint64
	distance   counter.Counter
	degree     counter.Counter
	usefulness counter.Counter

	periodIssued counter.Counter
	periodUseful counter.Counter
	periodTimely counter.Counter
}

// Table is the fixed-size stream table (N_STREAMS entries).
type Table struct {
	entries   []entry
	iq        *issuequeue.Queue
	tuning    Tuning
	evictions uint64
}

// New creates a Table with n entries backed by the given issue-tracking
// queue, using DefaultTuning.
func New(n int, iq *issuequeue.Queue) *Table {
	return NewWithTuning(n, iq, DefaultTuning())
}

// NewWithTuning is New with an explicit Tuning, for tests that exercise
// the retune thresholds directly.
func NewWithTuning(n int, iq *issuequeue.Queue, tuning Tuning) *Table {
	return &Table{
		entries: make([]entry, n),
		iq:      iq,
		tuning:  tuning,
	}
}

func freshCounter(lo, hi int) counter.Counter {
	return counter.New(0, lo, hi)
}

// realDistance maps a distance level (0,1,2) to {4,16,64}.
func realDistance(level int) uint64 {
	return 1 << uint(2*(level+1))
}

// realDegree maps a degree level (0,1,2) to {1,2,4}.
func realDegree(level int) int {
	return 1 << uint(level)
}

// project emits the next batch of prefetch lines for stream i starting
// from line, pushing each into the issue-tracking table and advancing the
// stream's anchor, per spec.md §4.4.1.
//
// Note: the ChampSim source this is ported from pushes the *incoming*
// line into the issue queue rather than the projected line (spec.md §9,
// item 1); this implementation tags the projected line, as the corrected
// behavior the spec prescribes.
func (t *Table) project(i int, line uint64) []uint64 {
	e := &t.entries[i]

	dist := realDistance(e.distance.Value())
	deg := realDegree(e.degree.Value())

	sign := int64(1)
	if !e.direction {
		sign = -1
	}

	var out []uint64
	for step := 1; step <= deg; step++ {
		offset := int64(dist) + int64(step)
		pf := uint64(int64(line) + offset*sign)

		if _, owned := t.iq.Find(pf); owned {
			continue
		}

		out = append(out, pf)
		t.iq.Push(pf, issuequeue.StreamID(i))
		e.periodIssued = e.periodIssued.Inc()
		e.anchor = pf
	}

	return out
}

// PrefetchOnHit implements spec.md §4.4.2: if line is owned by an
// allocated stream, credit usefulness (and timeliness, if the line was
// already filled) then project further prefetches from that stream.
//
// Note: the ChampSim source increments the usefulness counter before
// checking ownership freshness; this implementation only credits
// usefulness after confirming the owner is still allocated (spec.md §9,
// item 3).
func (t *Table) PrefetchOnHit(line uint64) []uint64 {
	owner, ok := t.iq.Find(line)
	if !ok {
		return nil
	}

	i := int(owner)
	if i < 0 || i >= len(t.entries) || !t.entries[i].allocated {
		return nil
	}

	t.entries[i].periodUseful = t.entries[i].periodUseful.Inc()
	if t.iq.IsFilled(line) {
		t.entries[i].periodTimely = t.entries[i].periodTimely.Inc()
	}

	return t.project(i, line)
}

func (t *Table) deallocate(i int) {
	t.iq.Invalidate(issuequeue.StreamID(i))
	t.entries[i] = entry{}
}

// allocate installs a fresh stream at line/direction, evicting the
// minimum-usefulness stream (ties broken by lowest index) if the table is
// full, per spec.md §4.4.4.
func (t *Table) allocate(line uint64, direction bool) int {
	for i := range t.entries {
		if !t.entries[i].allocated {
			return t.initEntry(i, line, direction)
		}
	}

	victim := 0
	for i := range t.entries {
		if t.entries[i].usefulness.Value() < t.entries[victim].usefulness.Value() {
			victim = i
		}
	}
	t.deallocate(victim)
	t.evictions++

	return t.initEntry(victim, line, direction)
}

// Evictions returns the running count of streams evicted to make room for
// a fresh allocation, for telemetry.
func (t *Table) Evictions() uint64 {
	return t.evictions
}

func (t *Table) initEntry(i int, line uint64, direction bool) int {
	t.entries[i] = entry{
		allocated:    true,
		direction:    direction,
		anchor:       line,
		distance:     freshCounter(0, 2),
		degree:       freshCounter(0, 2),
		usefulness:   counter.New(1, 0, 3),
		periodIssued: freshCounter(0, t.tuning.AccessPeriodMax),
		periodUseful: freshCounter(0, t.tuning.AccessPeriodMax),
		periodTimely: freshCounter(0, t.tuning.AccessPeriodMax),
	}

	return i
}

// AllocateAndPrefetch implements spec.md §4.4.3: reuse a stream via the
// issue-tracking table if one already owns line with a matching direction,
// otherwise allocate a fresh stream, then project from it.
func (t *Table) AllocateAndPrefetch(line uint64, direction bool) []uint64 {
	if owner, ok := t.iq.Find(line); ok {
		i := int(owner)
		if i >= 0 && i < len(t.entries) &&
			t.entries[i].allocated && t.entries[i].direction == direction {
			return t.project(i, line)
		}
	}

	i := t.allocate(line, direction)

	return t.project(i, line)
}

// Fill forwards to the issue-tracking table's Fill, per spec.md §4.4.6.
func (t *Table) Fill(line uint64) {
	t.iq.Fill(line)
}

// Train runs the periodic retune (spec.md §4.4.5) over every allocated
// stream, then zeroes each stream's period counters.
//
// Note: the (int)num_useful >= (int)max/(2N) comparison in the source
// truncates the usefulness threshold to integer arithmetic; this
// implementation preserves that truncation (spec.md §9, item 4). The
// timeliness and accuracy ratios are computed in floating point.
func (t *Table) Train() {
	n := len(t.entries)
	threshold := t.tuning.AccessPeriodMax / (2 * n)

	for i := range t.entries {
		e := &t.entries[i]
		if !e.allocated {
			continue
		}

		u := e.periodUseful.Value()
		tm := e.periodTimely.Value()
		iss := e.periodIssued.Value()

		var timeliness, accuracy float64
		if u != 0 {
			timeliness = float64(tm) / float64(u)
		}
		if iss != 0 {
			accuracy = float64(u) / float64(iss)
		}

		if timeliness <= t.tuning.TimelinessBoostThreshold {
			e.distance = e.distance.Inc()
		}

		if accuracy <= t.tuning.AccuracyThrottleThresh {
			e.degree = e.degree.Dec()
			e.distance = e.distance.Dec()
		} else if accuracy >= t.tuning.AccuracyBoostThreshold {
			e.degree = e.degree.Inc()
		}

		if accuracy >= t.tuning.AccuracyThrottleThresh && u >= threshold {
			e.usefulness = e.usefulness.Inc()
		} else {
			e.usefulness = e.usefulness.Dec()
		}

		e.periodIssued = freshCounter(0, t.tuning.AccessPeriodMax)
		e.periodUseful = freshCounter(0, t.tuning.AccessPeriodMax)
		e.periodTimely = freshCounter(0, t.tuning.AccessPeriodMax)
	}
}

// Snapshot exposes an allocated stream's tunable state, for tests and for
// telemetry export. ok is false if index is out of range or unallocated.
type Snapshot struct {
	Direction  bool
	Anchor     uint64
	Distance   int
	Degree     int
	Usefulness int
}

// At returns a Snapshot of stream i.
func (t *Table) At(i int) (Snapshot, bool) {
	if i < 0 || i >= len(t.entries) || !t.entries[i].allocated {
		return Snapshot{}, false
	}

	e := t.entries[i]

	return Snapshot{
		Direction:  e.direction,
		Anchor:     e.anchor,
		Distance:   e.distance.Value(),
		Degree:     e.degree.Value(),
		Usefulness: e.usefulness.Value(),
	}, true
}

// Len returns the number of stream slots (N_STREAMS).
func (t *Table) Len() int {
	return len(t.entries)
}
