package sim

// A CConnect is a bidirectional classical connection between two named
// agents. It carries bit sequences instead of qubits, and its delay comes
// from the payload size and the link length rather than from device
// chains.
type CConnect struct {
	HookableBase

	name   string
	length float64

	agents map[string]*Agent
	queues map[string]*TransferQueue
}

type cEntry struct {
	id          string
	bits        []byte
	sourceDelay VTimeInSec
}

// Name returns the name of the connection.
func (c *CConnect) Name() string {
	return c.name
}

// Length returns the link length in km.
func (c *CConnect) Length() float64 {
	return c.length
}

// Put charges the per-bit source transmission time and enqueues the bits
// toward target. Put never blocks; it returns the source-side delay.
func (c *CConnect) Put(target string, bits []byte) VTimeInSec {
	sourceDelay := DefaultBitTime * VTimeInSec(len(bits))

	entry := cEntry{
		id:          GetIDGenerator().Generate(),
		bits:        bits,
		sourceDelay: sourceDelay,
	}
	c.queues[target].Push(entry)

	if c.NumHooks() > 0 {
		c.InvokeHook(HookCtx{
			Domain: c,
			Pos:    HookPosConnPut,
			Item: TransmissionInfo{
				ID:          entry.id,
				Kind:        TransmissionClassical,
				Src:         c.peerOf(target),
				Dst:         target,
				PayloadSize: len(bits),
				SourceDelay: sourceDelay,
			},
		})
	}

	return sourceDelay
}

// Get blocks until bits addressed to a are pending and returns them along
// with the total delay: the link travel time scaled by the payload size,
// plus the stored source-side delay.
func (c *CConnect) Get(a *Agent) ([]byte, VTimeInSec) {
	entry := c.queues[a.name].Pop().(cEntry)

	travelDelay := VTimeInSec(c.length / SignalSpeed)
	totalDelay := travelDelay*VTimeInSec(len(entry.bits)) + entry.sourceDelay

	if c.NumHooks() > 0 {
		c.InvokeHook(HookCtx{
			Domain: c,
			Pos:    HookPosConnGet,
			Item: TransmissionInfo{
				ID:          entry.id,
				Kind:        TransmissionClassical,
				Src:         c.peerOf(a.name),
				Dst:         a.name,
				PayloadSize: len(entry.bits),
				SourceDelay: entry.sourceDelay,
				TotalDelay:  totalDelay,
			},
		})
	}

	return entry.bits, totalDelay
}

// PendingFor returns the number of transmissions queued toward the named
// agent.
func (c *CConnect) PendingFor(agentName string) int {
	return c.queues[agentName].Size()
}

// AgentNames returns the names of the two connected agents.
func (c *CConnect) AgentNames() []string {
	names := make([]string, 0, len(c.agents))
	for name := range c.agents {
		names = append(names, name)
	}

	return names
}

func (c *CConnect) peerOf(name string) string {
	for n := range c.agents {
		if n != name {
			return n
		}
	}

	return ""
}

// CConnectBuilder can build classical connections.
type CConnectBuilder struct {
	agentOne *Agent
	agentTwo *Agent
	length   float64
}

// MakeCConnectBuilder creates a builder with default parameters.
func MakeCConnectBuilder() CConnectBuilder {
	return CConnectBuilder{}
}

// WithAgents sets the two agents the connection links.
func (b CConnectBuilder) WithAgents(one, two *Agent) CConnectBuilder {
	b.agentOne = one
	b.agentTwo = two
	return b
}

// WithLength sets the link length in km.
func (b CConnectBuilder) WithLength(lengthKM float64) CConnectBuilder {
	b.length = lengthKM
	return b
}

// Build creates the connection and registers it on both agents under the
// peer's name.
func (b CConnectBuilder) Build(name string) *CConnect {
	NameMustBeValid(name)
	b.parametersMustBeValid()

	one, two := b.agentOne, b.agentTwo

	c := &CConnect{
		name:   name,
		length: b.length,
		agents: map[string]*Agent{
			one.name: one,
			two.name: two,
		},
		queues: map[string]*TransferQueue{
			one.name: NewTransferQueue(BuildName(name, one.name+"Queue")),
			two.name: NewTransferQueue(BuildName(name, two.name+"Queue")),
		},
	}

	one.registerCConnect(two.name, c)
	two.registerCConnect(one.name, c)

	return c
}

func (b CConnectBuilder) parametersMustBeValid() {
	if b.agentOne == nil || b.agentTwo == nil {
		panic("both agents must be set before building a connection")
	}

	if b.agentOne.name == b.agentTwo.name {
		panic("cannot connect an agent to itself")
	}

	if b.length < 0 {
		panic("link length must not be negative")
	}
}
