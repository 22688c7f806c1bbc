package simulation_test

import (
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/rs/xid"

	"github.com/sarchlab/qnet/datarecording"
	"github.com/sarchlab/qnet/sim"
	"github.com/sarchlab/qnet/simulation"
)

var _ = Describe("Simulation", func() {
	var (
		s          *simulation.Simulation
		outputPath string
	)

	BeforeEach(func() {
		outputPath = "test_sim_" + xid.New().String()
		s = simulation.MakeBuilder().
			WithoutMonitoring().
			WithOutputFileName(outputPath).
			Build()
	})

	AfterEach(func() {
		os.Remove(outputPath + ".sqlite3")
	})

	It("should run the two-agent exchange to completion", func() {
		alice := sim.MakeAgentBuilder().
			WithQubits(0, 1).
			WithProtocol(func(a *sim.Agent) error {
				_, err := a.Send("Bob", []sim.Qubit{0, 1})
				return err
			}).
			Build("Alice")

		bob := sim.MakeAgentBuilder().
			WithProtocol(func(a *sim.Agent) error {
				_, err := a.Receive("Alice")
				return err
			}).
			Build("Bob")

		conn := sim.MakeQConnectBuilder().
			WithAgents(alice, bob).
			Build("AliceBob")

		s.RegisterAgent(alice)
		s.RegisterAgent(bob)
		s.RegisterQConnect(conn)

		Expect(s.Run()).To(Succeed())

		Expect(alice.Qubits()).To(BeEmpty())
		Expect(bob.Qubits()).To(Equal([]sim.Qubit{0, 1}))

		expected := 2*sim.DefaultPulseLength +
			sim.VTimeInSec(sim.DefaultFiberLength/sim.SignalSpeed)*2
		Expect(bob.Now()).To(Equal(expected))
	})

	It("should record transmissions to the trace database", func() {
		alice := sim.MakeAgentBuilder().
			WithQubits(0).
			WithProtocol(func(a *sim.Agent) error {
				_, err := a.Send("Bob", []sim.Qubit{0})
				return err
			}).
			Build("Alice")

		bob := sim.MakeAgentBuilder().
			WithProtocol(func(a *sim.Agent) error {
				_, err := a.Receive("Alice")
				return err
			}).
			Build("Bob")

		conn := sim.MakeQConnectBuilder().
			WithAgents(alice, bob).
			Build("AliceBob")

		s.RegisterAgent(alice)
		s.RegisterAgent(bob)
		s.RegisterQConnect(conn)

		Expect(s.Run()).To(Succeed())
		s.Terminate()

		reader := datarecording.NewReader(outputPath)
		defer reader.Close()

		reader.MapTable("transmissions_received", tracingRow{})
		results, err := reader.Query(
			"transmissions_received", datarecording.QueryParams{})
		Expect(err).ToNot(HaveOccurred())
		Expect(results).To(HaveLen(1))

		row := results[0].(tracingRow)
		Expect(row.Src).To(Equal("Alice"))
		Expect(row.Dst).To(Equal("Bob"))
		Expect(row.PayloadSize).To(Equal(1))
	})

	It("should surface protocol failures", func() {
		alice := sim.MakeAgentBuilder().
			WithProtocol(func(a *sim.Agent) error {
				_, err := a.Send("Nobody", []sim.Qubit{0})
				return err
			}).
			Build("Alice")

		s.RegisterAgent(alice)

		Expect(s.Run()).To(MatchError(sim.ErrUnknownPeer))
	})

	It("should reject duplicate agent names", func() {
		alice := sim.MakeAgentBuilder().Build("Alice")
		alsoAlice := sim.MakeAgentBuilder().Build("Alice")

		s.RegisterAgent(alice)

		Expect(func() { s.RegisterAgent(alsoAlice) }).To(Panic())
	})

	It("should find registered agents by name", func() {
		alice := sim.MakeAgentBuilder().Build("Alice")
		s.RegisterAgent(alice)

		Expect(s.GetAgentByName("Alice")).To(BeIdenticalTo(alice))
		Expect(func() { s.GetAgentByName("Bob") }).To(Panic())
	})
})

// tracingRow mirrors tracing.Transmission for reading traces back.
type tracingRow struct {
	ID   string
	Kind string
	Src  string
	Dst  string
	Link string

	PayloadSize int

	SourceDelay float64
	TotalDelay  float64
	SendTime    float64
}
