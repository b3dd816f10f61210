// Package prefetcher implements the L1 data-cache hardware prefetcher
// itself: a host-agnostic shell that wires the candidate table, the stream
// table, and the issue-tracking table together behind the three callbacks
// a cache simulator drives it with.
package prefetcher

import (
	"math/rand"

	"github.com/SupurCalvinHiggins/l1dprefetcher/internal/candidate"
	"github.com/SupurCalvinHiggins/l1dprefetcher/internal/counter"
	"github.com/SupurCalvinHiggins/l1dprefetcher/internal/issuequeue"
	"github.com/SupurCalvinHiggins/l1dprefetcher/internal/stream"
)

// NextLineOffset is the fixed-distance fallback used when no stream claims
// an accessed line and no candidate is promoted by it.
const NextLineOffset = 17

// Config bundles the table sizes and retune tuning a Prefetcher is built
// with. DefaultConfig holds the spec defaults and NewDefault builds from
// it; New fills in no zero field except a nil Rand.
type Config struct {
	NumCandidates int
	NumStreams    int
	IQCapacity    int
	Tuning        stream.Tuning
	Rand          *rand.Rand
}

// DefaultConfig returns the tuning constants observed in the source:
// 32 candidates, 32 streams, a 512-entry issue-tracking table, and the
// default retune thresholds.
func DefaultConfig() Config {
	return Config{
		NumCandidates: 32,
		NumStreams:    32,
		IQCapacity:    512,
		Tuning:        stream.DefaultTuning(),
		Rand:          rand.New(rand.NewSource(1)),
	}
}

// Prefetcher is one L1-private prefetcher instance: a candidate table, a
// stream table, the issue-tracking table they share, and the global access
// counter driving the periodic retune. It holds no host-specific state and
// is safe to drive from a single goroutine only (spec.md §5).
type Prefetcher struct {
	ct *candidate.Table
	st *stream.Table
	iq *issuequeue.Queue

	globalAccess  counter.Counter
	reallocations uint64
}

// New builds a Prefetcher from cfg. A nil cfg.Rand defaults to a
// fixed-seed source so runs are reproducible unless the caller supplies
// their own.
func New(cfg Config) *Prefetcher {
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	iq := issuequeue.New(cfg.IQCapacity)

	return &Prefetcher{
		ct:           candidate.New(cfg.NumCandidates, rng),
		st:           stream.NewWithTuning(cfg.NumStreams, iq, cfg.Tuning),
		iq:           iq,
		globalAccess: counter.New(0, 0, cfg.Tuning.AccessPeriodMax),
	}
}

// NewDefault builds a Prefetcher with DefaultConfig.
func NewDefault() *Prefetcher {
	return New(DefaultConfig())
}

// Initialize is the host's one-time setup hook. New already establishes
// the power-on state, so Initialize does nothing; it does not reset a
// prefetcher that has already been driven. It is kept to satisfy the
// host's three-callback contract (spec.md §6).
func (p *Prefetcher) Initialize() {}

// OnAccess implements the full §4.5 dispatch for a single L1-D access to
// line. ip and accessType are accepted, per the host contract, but the
// core never consults them. It returns the cache lines to prefetch, in
// the order they were enumerated.
func (p *Prefetcher) OnAccess(line uint64, ip uint64, isHit bool, accessType int) []uint64 {
	_ = ip
	_ = isHit
	_ = accessType

	out := p.dispatch(line)
	p.monitor()

	return out
}

func (p *Prefetcher) dispatch(line uint64) []uint64 {
	if out := p.st.PrefetchOnHit(line); len(out) > 0 {
		return out
	}

	hint := p.ct.Train(line)
	if hint.Reallocated {
		p.reallocations++
	}

	switch hint.Kind {
	case candidate.HintStrong:
		return p.st.AllocateAndPrefetch(hint.Anchor, hint.Direction)
	case candidate.HintWeak:
		return []uint64{fallback(line, hint.Direction)}
	default:
		return []uint64{fallback(line, true)}
	}
}

// fallback computes the fixed-distance next-line prefetch at line+17 (or
// line-17 if direction is the descending case), per spec.md §4.5 steps 4
// and 5.
func fallback(line uint64, ascending bool) uint64 {
	if ascending {
		return line + NextLineOffset
	}

	return line - NextLineOffset
}

// monitor advances the global access counter and, once it saturates,
// resets it and runs the periodic retune (spec.md §4.5 step 6).
func (p *Prefetcher) monitor() {
	p.globalAccess = p.globalAccess.Inc()
	if !p.globalAccess.AtMax() {
		return
	}

	p.globalAccess = p.globalAccess.Add(-p.globalAccess.Value())
	p.st.Train()
}

// OnFill marks line as filled in the issue-tracking table so a later hit
// on it is scored as timely. setIdx, wayIdx, wasPrefetch, and evicted are
// accepted per the host contract but unused by the core (spec.md §4.5).
func (p *Prefetcher) OnFill(line uint64, setIdx, wayIdx int, wasPrefetch bool, evicted uint64) {
	_ = setIdx
	_ = wayIdx
	_ = wasPrefetch
	_ = evicted

	p.st.Fill(line)
}

// FinalStats is an optional hook the host may call at end of run. The
// core tracks nothing beyond the two live tables, so there is nothing to
// report; callers needing run statistics should use the telemetry
// package's Recorder instead, which observes the same calls from outside.
func (p *Prefetcher) FinalStats() {}

// StreamSnapshot exposes a stream table slot, for telemetry and tests.
func (p *Prefetcher) StreamSnapshot(i int) (stream.Snapshot, bool) {
	return p.st.At(i)
}

// NumStreamSlots returns the configured stream-table size.
func (p *Prefetcher) NumStreamSlots() int {
	return p.st.Len()
}

// Reallocations returns the running count of candidate direction-flip
// reallocations (spec.md §4.3), for telemetry.
func (p *Prefetcher) Reallocations() uint64 {
	return p.reallocations
}

// Evictions returns the running count of stream-table entries evicted to
// make room for a fresh allocation (spec.md §4.4.4), for telemetry.
func (p *Prefetcher) Evictions() uint64 {
	return p.st.Evictions()
}
