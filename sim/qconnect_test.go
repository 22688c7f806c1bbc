package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	gomock "go.uber.org/mock/gomock"
)

type testProgram struct {
	owner string
}

var _ = Describe("QConnect", func() {
	var (
		mockCtrl  *gomock.Controller
		alice     *Agent
		bob       *Agent
		conn      *QConnect
		aliceProg *testProgram
		bobProg   *testProgram
	)

	makeConn := func(transit ...Device) {
		conn = MakeQConnectBuilder().
			WithAgents(alice, bob).
			WithTransitDevices(transit...).
			Build("AliceBob")
	}

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())

		aliceProg = &testProgram{owner: "alice"}
		bobProg = &testProgram{owner: "bob"}

		alice = MakeAgentBuilder().
			WithProgram(aliceProg).
			WithQubits(0, 1, 2).
			Build("Alice")
		bob = MakeAgentBuilder().
			WithProgram(bobProg).
			Build("Bob")
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should charge the default pulse length when no source device is "+
		"attached", func() {
		makeConn()

		delay := conn.Put("Alice", "Bob", []Qubit{0, 1}, 0)

		Expect(delay).To(Equal(DefaultPulseLength * 2))
	})

	It("should charge the default fiber travel time when no transit device "+
		"is attached", func() {
		makeConn()
		conn.Put("Alice", "Bob", []Qubit{0, 1}, 0)

		_, total, _ := conn.Get(bob)

		expected := DefaultPulseLength*2 +
			VTimeInSec(DefaultFiberLength/SignalSpeed)*2
		Expect(total).To(Equal(expected))
	})

	It("should sum device delays and scale by the qubit count", func() {
		source := NewMockDevice(mockCtrl)
		transit := NewMockDevice(mockCtrl)
		target := NewMockDevice(mockCtrl)

		Expect(alice.AttachDevice(RoleSource, source)).To(Succeed())
		Expect(bob.AttachDevice(RoleTarget, target)).To(Succeed())
		makeConn(transit)

		qubits := []Qubit{0, 1}
		source.EXPECT().
			Apply(aliceProg, qubits).
			Return(VTimeInSec(1.0))
		transit.EXPECT().
			Apply(bobProg, qubits).
			Return(VTimeInSec(0.5))
		target.EXPECT().
			Apply(bobProg, qubits).
			Return(VTimeInSec(0.25))

		sourceDelay := conn.Put("Alice", "Bob", qubits, 0)
		Expect(sourceDelay).To(Equal(VTimeInSec(1.0) * 2))

		_, total, _ := conn.Get(bob)
		Expect(total).To(Equal(
			(VTimeInSec(0.5)+VTimeInSec(0.25))*2 + sourceDelay))
	})

	It("should run source devices against the sender's program and the "+
		"rest against the receiver's", func() {
		source := NewMockDevice(mockCtrl)
		transit := NewMockDevice(mockCtrl)

		Expect(alice.AttachDevice(RoleSource, source)).To(Succeed())
		makeConn(transit)

		qubits := []Qubit{0}
		source.EXPECT().
			Apply(gomock.Eq(aliceProg), qubits).
			Return(VTimeInSec(0))
		transit.EXPECT().
			Apply(gomock.Eq(bobProg), qubits).
			Return(VTimeInSec(0))

		conn.Put("Alice", "Bob", qubits, 0)
		conn.Get(bob)
	})

	It("should reverse the transit chain for the opposite direction", func() {
		first := NewMockDevice(mockCtrl)
		second := NewMockDevice(mockCtrl)
		makeConn(first, second)

		qubits := []Qubit{0}
		secondCall := second.EXPECT().
			Apply(aliceProg, qubits).
			Return(VTimeInSec(0))
		first.EXPECT().
			Apply(aliceProg, qubits).
			Return(VTimeInSec(0)).
			After(secondCall)

		// Bob to Alice runs the chain second-then-first.
		bob.absorb(qubits)
		_, err := bob.Send("Alice", qubits)
		Expect(err).ToNot(HaveOccurred())

		_, err = alice.Receive("Bob")
		Expect(err).ToNot(HaveOccurred())
	})

	It("should keep each direction in FIFO order", func() {
		makeConn()

		conn.Put("Alice", "Bob", []Qubit{0}, 0)
		conn.Put("Alice", "Bob", []Qubit{1}, 0)
		conn.Put("Alice", "Bob", []Qubit{2}, 0)

		batch1, _, _ := conn.Get(bob)
		batch2, _, _ := conn.Get(bob)
		batch3, _, _ := conn.Get(bob)

		Expect(batch1).To(Equal([]Qubit{0}))
		Expect(batch2).To(Equal([]Qubit{1}))
		Expect(batch3).To(Equal([]Qubit{2}))
	})

	It("should carry the sender's clock with the transmission", func() {
		makeConn()

		conn.Put("Alice", "Bob", []Qubit{0}, VTimeInSec(3.5))

		_, _, sendTime := conn.Get(bob)

		Expect(sendTime).To(Equal(VTimeInSec(3.5)))
	})

	It("should merge qubits into the receiver on get", func() {
		makeConn()

		conn.Put("Alice", "Bob", []Qubit{1, 2}, 0)
		conn.Get(bob)

		Expect(bob.Qubits()).To(Equal([]Qubit{1, 2}))
	})

	It("should invoke hooks on put and get", func() {
		makeConn()
		hook := &collectingHook{}
		conn.AcceptHook(hook)

		conn.Put("Alice", "Bob", []Qubit{0, 1}, 0)
		conn.Get(bob)

		Expect(hook.ctxs).To(HaveLen(2))
		Expect(hook.ctxs[0].Pos).To(BeIdenticalTo(HookPosConnPut))
		Expect(hook.ctxs[1].Pos).To(BeIdenticalTo(HookPosConnGet))

		put := hook.ctxs[0].Item.(TransmissionInfo)
		get := hook.ctxs[1].Item.(TransmissionInfo)
		Expect(put.ID).To(Equal(get.ID))
		Expect(put.Kind).To(Equal(TransmissionQuantum))
		Expect(put.Src).To(Equal("Alice"))
		Expect(put.Dst).To(Equal("Bob"))
		Expect(put.PayloadSize).To(Equal(2))
		Expect(get.TotalDelay).To(Equal(get.SourceDelay))
	})

	It("should refuse to link an agent to itself", func() {
		Expect(func() {
			MakeQConnectBuilder().
				WithAgents(alice, alice).
				Build("AliceAlice")
		}).To(Panic())
	})
})

type collectingHook struct {
	ctxs []HookCtx
}

func (h *collectingHook) Func(ctx HookCtx) {
	h.ctxs = append(h.ctxs, ctx)
}
