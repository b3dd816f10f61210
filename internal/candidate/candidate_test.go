package candidate

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Table", func() {
	var tbl *Table

	BeforeEach(func() {
		tbl = New(32, rand.New(rand.NewSource(1)))
	})

	It("returns HintNone and allocates a fresh candidate on an unseen line", func() {
		hint := tbl.Train(100)
		Expect(hint.Kind).To(Equal(HintNone))
		Expect(hint.Reallocated).To(BeFalse())
	})

	It("promotes to a stream in exactly CANDIDATE_CONFIDENCE_MAX accesses after allocation", func() {
		tbl.Train(100)

		hint := tbl.Train(101)
		Expect(hint.Kind).To(Equal(HintWeak))
		Expect(hint.Direction).To(BeTrue())

		hint = tbl.Train(102)
		Expect(hint.Kind).To(Equal(HintWeak))

		hint = tbl.Train(103)
		Expect(hint.Kind).To(Equal(HintStrong))
		Expect(hint.Direction).To(BeTrue())
		Expect(hint.Anchor).To(Equal(uint64(103)))
	})

	It("reallocates on a contradicting direction", func() {
		tbl.Train(200)
		hint := tbl.Train(201)
		Expect(hint.Kind).To(Equal(HintWeak))

		hint = tbl.Train(199)
		Expect(hint.Kind).To(Equal(HintNone))
		Expect(hint.Anchor).To(Equal(uint64(199)))
		Expect(hint.Reallocated).To(BeTrue())
	})

	It("does not match an anchor further than the window away", func() {
		tbl.Train(1000)
		hint := tbl.Train(1000 + Window + 1)
		Expect(hint.Kind).To(Equal(HintNone))
	})

	It("matches an anchor exactly at the window boundary", func() {
		tbl.Train(1000)
		hint := tbl.Train(1000 + Window)
		Expect(hint.Kind).To(Equal(HintWeak))
	})

	It("falls back to LRU-zero and then random eviction once full", func() {
		small := New(1, rand.New(rand.NewSource(1)))

		small.Train(10)
		hint := small.Train(500)
		Expect(hint.Kind).To(Equal(HintNone))
		Expect(hint.Anchor).To(Equal(uint64(500)))
	})
})
