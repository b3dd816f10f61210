package telemetry

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Store", func() {
	It("round-trips a saved snapshot through ListRuns", func() {
		recorder := NewRecorder()
		store, err := OpenStore(":memory:", recorder)
		Expect(err).NotTo(HaveOccurred())
		defer store.Close()

		recorder.OnAccess()
		recorder.OnPrefetchIssued(2)

		Expect(store.Save(recorder.Snapshot())).To(Succeed())

		runs, err := store.ListRuns()
		Expect(err).NotTo(HaveOccurred())
		Expect(runs).To(HaveLen(1))
		Expect(runs[0].RunID).To(Equal(recorder.RunID().String()))
		Expect(runs[0].Accesses).To(Equal(uint64(1)))
		Expect(runs[0].PrefetchesIssued).To(Equal(uint64(2)))
	})

	It("replaces the row for a run ID saved twice", func() {
		recorder := NewRecorder()
		store, err := OpenStore(":memory:", recorder)
		Expect(err).NotTo(HaveOccurred())
		defer store.Close()

		Expect(store.Save(recorder.Snapshot())).To(Succeed())
		recorder.OnAccess()
		Expect(store.Save(recorder.Snapshot())).To(Succeed())

		runs, err := store.ListRuns()
		Expect(err).NotTo(HaveOccurred())
		Expect(runs).To(HaveLen(1))
		Expect(runs[0].Accesses).To(Equal(uint64(1)))
	})
})
