package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("CConnect", func() {
	var (
		alice *Agent
		bob   *Agent
		conn  *CConnect
	)

	BeforeEach(func() {
		alice = MakeAgentBuilder().Build("Alice")
		bob = MakeAgentBuilder().Build("Bob")

		conn = MakeCConnectBuilder().
			WithAgents(alice, bob).
			WithLength(10.0).
			Build("AliceBob")
	})

	It("should charge the per-bit time on put", func() {
		delay := conn.Put("Bob", []byte{1, 0, 1, 1})

		Expect(delay).To(Equal(DefaultBitTime * 4))
	})

	It("should add the size-scaled travel time on get", func() {
		conn.Put("Bob", []byte{1, 0})

		bits, total := conn.Get(bob)

		Expect(bits).To(Equal([]byte{1, 0}))
		expected := VTimeInSec(10.0/SignalSpeed)*2 + DefaultBitTime*2
		Expect(total).To(Equal(expected))
	})

	It("should keep each direction in FIFO order", func() {
		conn.Put("Bob", []byte{0})
		conn.Put("Bob", []byte{1})

		first, _ := conn.Get(bob)
		second, _ := conn.Get(bob)

		Expect(first).To(Equal([]byte{0}))
		Expect(second).To(Equal([]byte{1}))
	})

	It("should keep the two directions independent", func() {
		conn.Put("Bob", []byte{1})
		conn.Put("Alice", []byte{0})

		toBob, _ := conn.Get(bob)
		toAlice, _ := conn.Get(alice)

		Expect(toBob).To(Equal([]byte{1}))
		Expect(toAlice).To(Equal([]byte{0}))
	})

	It("should invoke hooks on put and get", func() {
		hook := &collectingHook{}
		conn.AcceptHook(hook)

		conn.Put("Bob", []byte{1, 1})
		conn.Get(bob)

		Expect(hook.ctxs).To(HaveLen(2))

		put := hook.ctxs[0].Item.(TransmissionInfo)
		Expect(put.Kind).To(Equal(TransmissionClassical))
		Expect(put.Src).To(Equal("Alice"))
		Expect(put.Dst).To(Equal("Bob"))
		Expect(put.PayloadSize).To(Equal(2))
	})
})
