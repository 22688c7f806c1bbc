package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("TransferQueue", func() {
	var q *TransferQueue

	BeforeEach(func() {
		q = NewTransferQueue("Queue")
	})

	It("should pop in push order", func() {
		q.Push(1)
		q.Push(2)
		q.Push(3)

		Expect(q.Pop()).To(Equal(1))
		Expect(q.Pop()).To(Equal(2))
		Expect(q.Pop()).To(Equal(3))
	})

	It("should report its size", func() {
		Expect(q.Size()).To(Equal(0))

		q.Push(1)
		q.Push(2)

		Expect(q.Size()).To(Equal(2))
	})

	It("should block pop until a push arrives", func() {
		popped := make(chan interface{})

		go func() {
			popped <- q.Pop()
		}()

		Consistently(popped).ShouldNot(Receive())

		q.Push("payload")

		Eventually(popped).Should(Receive(Equal("payload")))
	})

	It("should serve concurrent pushers and a popper", func() {
		const count = 100

		go func() {
			for i := 0; i < count; i++ {
				q.Push(i)
			}
		}()

		for i := 0; i < count; i++ {
			Expect(q.Pop()).To(Equal(i))
		}
	})

	It("should reject an invalid name", func() {
		Expect(func() { NewTransferQueue("") }).To(Panic())
		Expect(func() { NewTransferQueue("Broken.") }).To(Panic())
	})
})
