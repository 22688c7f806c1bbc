package sim

// A QConnect is a bidirectional quantum connection between two named
// agents. Each direction has its own FIFO queue, keyed by the destination
// agent's name, and its own transit-device chain: the chain given at build
// time runs agent-one to agent-two, and the reverse direction uses the
// reversed chain.
//
// Delay accumulates in two halves. Put runs the sender's source devices in
// the sender's goroutine; Get runs the transit and target devices in the
// receiver's goroutine. Each half is summed over its devices and scaled by
// the number of qubits in the transmission.
type QConnect struct {
	HookableBase

	name string

	agents         map[string]*Agent
	transitDevices map[string][]Device
	queues         map[string]*TransferQueue
}

type qEntry struct {
	id          string
	qubits      []Qubit
	transit     []Device
	target      []Device
	sourceDelay VTimeInSec
	sourceTime  VTimeInSec
}

// Name returns the name of the connection.
func (c *QConnect) Name() string {
	return c.name
}

// Put runs the qubits through the source agent's source devices, charges
// the scaled source-side delay, and enqueues the transmission toward
// target. If the sender has no source devices, the default pulse length is
// charged instead. Put never blocks; it returns the scaled source-side
// delay.
func (c *QConnect) Put(
	source, target string,
	qubits []Qubit,
	sourceTime VTimeInSec,
) VTimeInSec {
	sender := c.agents[source]
	receiver := c.agents[target]

	var sourceDelay VTimeInSec
	if len(sender.sourceDevices) == 0 {
		sourceDelay = DefaultPulseLength
	} else {
		for _, d := range sender.sourceDevices {
			sourceDelay += d.Apply(sender.program, qubits)
		}
	}

	scaledDelay := sourceDelay * VTimeInSec(len(qubits))

	entry := qEntry{
		id:          GetIDGenerator().Generate(),
		qubits:      qubits,
		transit:     c.transitDevices[source],
		target:      receiver.targetDevices,
		sourceDelay: scaledDelay,
		sourceTime:  sourceTime,
	}
	c.queues[target].Push(entry)

	if c.NumHooks() > 0 {
		c.InvokeHook(HookCtx{
			Domain: c,
			Pos:    HookPosConnPut,
			Item: TransmissionInfo{
				ID:          entry.id,
				Kind:        TransmissionQuantum,
				Src:         source,
				Dst:         target,
				PayloadSize: len(qubits),
				SourceDelay: scaledDelay,
				SendTime:    sourceTime,
			},
		})
	}

	return scaledDelay
}

// Get blocks until a transmission addressed to a is pending, merges its
// qubits into a's ownership, and runs them through the transit and target
// device chains. An empty transit chain charges the default fiber travel
// time; an empty target chain charges nothing. Get returns the qubits, the
// total delay including the stored source-side half, and the sender's
// clock at send time.
func (c *QConnect) Get(a *Agent) ([]Qubit, VTimeInSec, VTimeInSec) {
	entry := c.queues[a.name].Pop().(qEntry)

	a.absorb(entry.qubits)

	var travelDelay VTimeInSec
	if len(entry.transit) == 0 {
		travelDelay += VTimeInSec(DefaultFiberLength / SignalSpeed)
	}

	for _, d := range entry.transit {
		travelDelay += d.Apply(a.program, entry.qubits)
	}

	for _, d := range entry.target {
		travelDelay += d.Apply(a.program, entry.qubits)
	}

	totalDelay := travelDelay*VTimeInSec(len(entry.qubits)) +
		entry.sourceDelay

	if c.NumHooks() > 0 {
		c.InvokeHook(HookCtx{
			Domain: c,
			Pos:    HookPosConnGet,
			Item: TransmissionInfo{
				ID:          entry.id,
				Kind:        TransmissionQuantum,
				Src:         c.peerOf(a.name),
				Dst:         a.name,
				PayloadSize: len(entry.qubits),
				SourceDelay: entry.sourceDelay,
				TotalDelay:  totalDelay,
				SendTime:    entry.sourceTime,
			},
		})
	}

	return entry.qubits, totalDelay, entry.sourceTime
}

// PendingFor returns the number of transmissions queued toward the named
// agent.
func (c *QConnect) PendingFor(agentName string) int {
	return c.queues[agentName].Size()
}

// AgentNames returns the names of the two connected agents.
func (c *QConnect) AgentNames() []string {
	names := make([]string, 0, len(c.agents))
	for name := range c.agents {
		names = append(names, name)
	}

	return names
}

func (c *QConnect) peerOf(name string) string {
	for n := range c.agents {
		if n != name {
			return n
		}
	}

	return ""
}

// QConnectBuilder can build quantum connections.
type QConnectBuilder struct {
	agentOne *Agent
	agentTwo *Agent
	transit  []Device
}

// MakeQConnectBuilder creates a builder with default parameters.
func MakeQConnectBuilder() QConnectBuilder {
	return QConnectBuilder{}
}

// WithAgents sets the two agents the connection links.
func (b QConnectBuilder) WithAgents(one, two *Agent) QConnectBuilder {
	b.agentOne = one
	b.agentTwo = two
	return b
}

// WithTransitDevices sets the devices qubits travel through, ordered from
// agent one to agent two.
func (b QConnectBuilder) WithTransitDevices(devices ...Device) QConnectBuilder {
	b.transit = devices
	return b
}

// Build creates the connection and registers it on both agents under the
// peer's name.
func (b QConnectBuilder) Build(name string) *QConnect {
	NameMustBeValid(name)
	b.parametersMustBeValid()

	one, two := b.agentOne, b.agentTwo

	reversed := make([]Device, len(b.transit))
	for i, d := range b.transit {
		reversed[len(b.transit)-1-i] = d
	}

	c := &QConnect{
		name: name,
		agents: map[string]*Agent{
			one.name: one,
			two.name: two,
		},
		transitDevices: map[string][]Device{
			one.name: b.transit,
			two.name: reversed,
		},
		queues: map[string]*TransferQueue{
			one.name: NewTransferQueue(BuildName(name, one.name+"Queue")),
			two.name: NewTransferQueue(BuildName(name, two.name+"Queue")),
		},
	}

	one.registerQConnect(two.name, c)
	two.registerQConnect(one.name, c)

	return c
}

func (b QConnectBuilder) parametersMustBeValid() {
	if b.agentOne == nil || b.agentTwo == nil {
		panic("both agents must be set before building a connection")
	}

	if b.agentOne.name == b.agentTwo.name {
		panic("cannot connect an agent to itself")
	}
}
