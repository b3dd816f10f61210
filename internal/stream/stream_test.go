package stream

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/SupurCalvinHiggins/l1dprefetcher/internal/issuequeue"
)

var _ = Describe("Table", func() {
	var (
		iq  *issuequeue.Queue
		tbl *Table
	)

	BeforeEach(func() {
		iq = issuequeue.New(512)
		tbl = New(32, iq)
	})

	It("projects the exact deterministic set for a freshly allocated stream", func() {
		out := tbl.AllocateAndPrefetch(103, true)
		Expect(out).To(Equal([]uint64{108}))
	})

	It("reuses an existing stream owning the line with a matching direction", func() {
		tbl.AllocateAndPrefetch(103, true)

		out := tbl.PrefetchOnHit(108)
		Expect(out).To(Equal([]uint64{113}))
	})

	It("credits usefulness and timeliness only on a positive ownership check", func() {
		tbl.AllocateAndPrefetch(103, true)

		snapBefore, _ := tbl.At(0)
		Expect(snapBefore.Anchor).To(Equal(uint64(108)))

		tbl.Fill(108)
		tbl.PrefetchOnHit(108)

		Expect(iq.IsFilled(108)).To(BeTrue())
		Expect(tbl.entries[0].periodUseful.Value()).To(Equal(1))
		Expect(tbl.entries[0].periodTimely.Value()).To(Equal(1))
	})

	It("returns nil from PrefetchOnHit for a line with no owner", func() {
		out := tbl.PrefetchOnHit(999)
		Expect(out).To(BeNil())
	})

	It("evicts the minimum-usefulness stream, ties broken by lowest index, when full", func() {
		small := New(2, iq)
		small.AllocateAndPrefetch(0, true)
		small.AllocateAndPrefetch(10000, true)
		Expect(small.Evictions()).To(Equal(uint64(0)))

		small.entries[0].usefulness = small.entries[0].usefulness.Sub(1)

		small.AllocateAndPrefetch(999999, true)
		Expect(small.Evictions()).To(Equal(uint64(1)))

		survivor, ok := small.At(1)
		Expect(ok).To(BeTrue())
		Expect(survivor.Anchor).To(Equal(uint64(10005)))

		evicted, ok := small.At(0)
		Expect(ok).To(BeTrue())
		Expect(evicted.Anchor).To(Equal(uint64(1000004)))

		_, owned := iq.Find(5)
		Expect(owned).To(BeFalse())
	})

	Describe("Train", func() {
		It("increases degree by one under perfect accuracy", func() {
			tbl.AllocateAndPrefetch(0, true)
			e := &tbl.entries[0]
			e.periodIssued = e.periodIssued.Add(tbl.tuning.AccessPeriodMax)
			e.periodUseful = e.periodUseful.Add(tbl.tuning.AccessPeriodMax)
			e.periodTimely = e.periodTimely.Add(tbl.tuning.AccessPeriodMax)

			tbl.Train()

			snap, _ := tbl.At(0)
			Expect(snap.Degree).To(Equal(1))
		})

		It("decreases degree and distance by one when nothing issued was useful", func() {
			tbl.AllocateAndPrefetch(0, true)
			e := &tbl.entries[0]
			e.distance = e.distance.Add(2) // start at max, so the net effect is a visible decrease
			e.periodIssued = e.periodIssued.Add(tbl.tuning.AccessPeriodMax)

			tbl.Train()

			snap, _ := tbl.At(0)
			Expect(snap.Degree).To(Equal(0))
			Expect(snap.Distance).To(Equal(1))
		})

		It("throttles a stream that accumulates period_issued=511, period_useful=0", func() {
			tbl.AllocateAndPrefetch(0, true)
			e := &tbl.entries[0]
			e.distance = e.distance.Add(1)
			e.degree = e.degree.Add(1)
			usefulBefore := e.usefulness.Value()
			e.periodIssued = e.periodIssued.Add(511)

			tbl.Train()

			snap, _ := tbl.At(0)
			Expect(snap.Degree).To(Equal(0))
			Expect(snap.Distance).To(Equal(1))
			Expect(snap.Usefulness).To(Equal(usefulBefore - 1))
		})

		It("does not retune unallocated slots", func() {
			tbl.Train()
		})
	})
})
