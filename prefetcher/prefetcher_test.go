package prefetcher

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/SupurCalvinHiggins/l1dprefetcher/internal/issuequeue"
)

func newTestPrefetcher() *Prefetcher {
	cfg := DefaultConfig()
	cfg.Rand = rand.New(rand.NewSource(1))
	return New(cfg)
}

var _ = Describe("Prefetcher", func() {
	var p *Prefetcher

	BeforeEach(func() {
		p = newTestPrefetcher()
	})

	It("runs the cold ascending stride scenario", func() {
		out := p.OnAccess(100, 0, false, 0)
		Expect(out).To(Equal([]uint64{117}))

		out = p.OnAccess(101, 0, false, 0)
		Expect(out).To(Equal([]uint64{118}))

		out = p.OnAccess(102, 0, false, 0)
		Expect(out).To(Equal([]uint64{119}))

		out = p.OnAccess(103, 0, false, 0)
		Expect(out).To(Equal([]uint64{108}))
	})

	It("reallocates the candidate on a direction flip", func() {
		p.OnAccess(200, 0, false, 0)
		p.OnAccess(201, 0, false, 0)

		out := p.OnAccess(199, 0, false, 0)
		Expect(out).To(Equal([]uint64{199 + NextLineOffset}))
		Expect(p.Reallocations()).To(Equal(uint64(1)))
	})

	It("does not count a first-time candidate allocation as a reallocation", func() {
		p.OnAccess(300, 0, false, 0)
		Expect(p.Reallocations()).To(Equal(uint64(0)))
	})

	It("counts a stream-table eviction once the table fills up", func() {
		cfg := DefaultConfig()
		cfg.Rand = rand.New(rand.NewSource(1))
		cfg.NumStreams = 1
		small := New(cfg)

		// Promote a stride-1 candidate at base 0 and at base 10000, far
		// outside each other's candidate window, to force two distinct
		// streams to compete for the single slot.
		for _, base := range []uint64{0, 10000} {
			small.OnAccess(base, 0, false, 0)
			small.OnAccess(base+1, 0, false, 0)
			small.OnAccess(base+2, 0, false, 0)
			small.OnAccess(base+3, 0, false, 0)
		}

		Expect(small.Evictions()).To(Equal(uint64(1)))
	})

	It("reuses the promoted stream on the next access", func() {
		p.OnAccess(100, 0, false, 0)
		p.OnAccess(101, 0, false, 0)
		p.OnAccess(102, 0, false, 0)
		p.OnAccess(103, 0, false, 0) // promotes, projects 108

		out := p.OnAccess(108, 0, false, 0)
		Expect(out).To(Equal([]uint64{113}))

		snap, ok := p.StreamSnapshot(0)
		Expect(ok).To(BeTrue())
		Expect(snap.Anchor).To(Equal(uint64(113)))
	})

	It("still dispatches correctly on a hit preceded by a fill", func() {
		p.OnAccess(100, 0, false, 0)
		p.OnAccess(101, 0, false, 0)
		p.OnAccess(102, 0, false, 0)
		p.OnAccess(103, 0, false, 0) // promotes, projects 108

		p.OnFill(108, 0, 0, true, 0)
		out := p.OnAccess(108, 0, false, 0)

		// period_useful and period_timely are both credited internally
		// (exercised directly in internal/stream); here we only confirm
		// on_fill doesn't disturb the projection that follows.
		Expect(out).To(Equal([]uint64{113}))
	})

	It("drives the periodic retune on a 511-access cadence without error", func() {
		// Stream-level accounting for the retune thresholds (scenario 5,
		// period_issued=511/period_useful=0) is exercised directly against
		// internal/stream, where the counters can be forced without going
		// through the public dispatch; this only drives the global access
		// counter to saturation, so one retune pass runs over cold streams
		// and all, and checks that it completes without panicking.
		for i := 0; i < 511; i++ {
			p.OnAccess(uint64(1_000_000+i), 0, false, 0)
		}
	})

	It("overflows the issue-tracking table after 513 distinct pushes", func() {
		iq := issuequeue.New(512)

		for i := uint64(0); i < 513; i++ {
			iq.Push(i, 0)
		}

		_, ok := iq.Find(0)
		Expect(ok).To(BeFalse())

		owner, ok := iq.Find(512)
		Expect(ok).To(BeTrue())
		Expect(owner).To(Equal(issuequeue.StreamID(0)))
	})
})
