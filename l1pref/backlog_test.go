package l1pref

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("backlogQueue", func() {
	var q *backlogQueue

	BeforeEach(func() {
		q = newBacklogQueue(2)
	})

	It("drains in FIFO order", func() {
		q.Enqueue(pendingIssue{line: 10})
		q.Enqueue(pendingIssue{line: 20})

		first, err := q.Dequeue()
		Expect(err).NotTo(HaveOccurred())
		Expect(first.line).To(Equal(uint64(10)))

		second, err := q.Dequeue()
		Expect(err).NotTo(HaveOccurred())
		Expect(second.line).To(Equal(uint64(20)))
	})

	It("refuses to enqueue past capacity", func() {
		Expect(q.Enqueue(pendingIssue{line: 1})).To(Succeed())
		Expect(q.Enqueue(pendingIssue{line: 2})).To(Succeed())

		err := q.Enqueue(pendingIssue{line: 3})
		Expect(err).To(HaveOccurred())
		Expect(q.IsFull()).To(BeTrue())
	})

	It("errors dequeuing an empty queue", func() {
		_, err := q.Dequeue()
		Expect(err).To(HaveOccurred())
	})

	It("peeks without removing", func() {
		q.Enqueue(pendingIssue{line: 7})

		item, ok := q.Peek()
		Expect(ok).To(BeTrue())
		Expect(item.line).To(Equal(uint64(7)))
		Expect(q.Size()).To(Equal(1))
	})

	It("empties on Reset", func() {
		q.Enqueue(pendingIssue{line: 1})
		q.Reset()

		Expect(q.IsEmpty()).To(BeTrue())
	})
})
