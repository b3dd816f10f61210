package telemetry

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Recorder", func() {
	It("starts every counter at zero", func() {
		r := NewRecorder()
		snap := r.Snapshot()

		Expect(snap.Accesses).To(Equal(uint64(0)))
		Expect(snap.PrefetchesIssued).To(Equal(uint64(0)))
		Expect(snap.StreamsAllocated).To(Equal(uint64(0)))
		Expect(snap.StreamsEvicted).To(Equal(uint64(0)))
		Expect(snap.CandidateRealloc).To(Equal(uint64(0)))
		Expect(snap.RunID).NotTo(BeEmpty())
	})

	It("accumulates each observer callback independently", func() {
		r := NewRecorder()

		r.OnAccess()
		r.OnAccess()
		r.OnPrefetchIssued(3)
		r.OnStreamAllocated()
		r.OnStreamEvicted()
		r.OnCandidateReallocated()

		snap := r.Snapshot()
		Expect(snap.Accesses).To(Equal(uint64(2)))
		Expect(snap.PrefetchesIssued).To(Equal(uint64(3)))
		Expect(snap.StreamsAllocated).To(Equal(uint64(1)))
		Expect(snap.StreamsEvicted).To(Equal(uint64(1)))
		Expect(snap.CandidateRealloc).To(Equal(uint64(1)))
	})

	It("assigns distinct run IDs to distinct recorders", func() {
		a := NewRecorder()
		b := NewRecorder()

		Expect(a.RunID().String()).NotTo(Equal(b.RunID().String()))
	})
})
