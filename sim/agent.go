package sim

import (
	"fmt"
	"sort"
	"sync"
)

// A Protocol is the local program an agent runs. It executes on the agent's
// own goroutine; the agent stops when it returns.
type Protocol func(a *Agent) error

// An Agent is an independently executing network participant. It owns a set
// of qubits, keeps a private logical clock, and reaches its peers only
// through the connections registered under their names.
//
// Agents are identified by name: two agents are the same agent iff their
// names match. The qubit set and the clock are guarded so that monitors
// can snapshot them while the protocol runs; all other agent state is
// confined to the agent's goroutine, and the only state shared with a
// peer is the connection queue between them.
type Agent struct {
	HookableBase

	name    string
	program Program

	stateMu sync.Mutex
	time    VTimeInSec
	qubits  map[Qubit]struct{}

	qConnects map[string]*QConnect
	cConnects map[string]*CConnect

	sourceDevices []Device
	targetDevices []Device

	protocol Protocol
	done     chan struct{}
	err      error
}

// Name returns the name of the agent.
func (a *Agent) Name() string {
	return a.name
}

// Equal compares two agents by name.
func (a *Agent) Equal(other *Agent) bool {
	return a.name == other.name
}

// Program returns the opaque program the agent carries.
func (a *Agent) Program() Program {
	return a.program
}

// Now returns the agent's local clock. The clock only advances by delays
// the agent itself experiences; there is no global simulated time.
func (a *Agent) Now() VTimeInSec {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()

	return a.time
}

// Qubits returns a sorted snapshot of the qubits the agent currently owns.
func (a *Agent) Qubits() []Qubit {
	a.stateMu.Lock()

	qubits := make([]Qubit, 0, len(a.qubits))
	for q := range a.qubits {
		qubits = append(qubits, q)
	}

	a.stateMu.Unlock()

	sort.Slice(qubits, func(i, j int) bool { return qubits[i] < qubits[j] })

	return qubits
}

// Owns reports whether the agent currently holds every given qubit.
func (a *Agent) Owns(qubits ...Qubit) bool {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()

	for _, q := range qubits {
		if _, ok := a.qubits[q]; !ok {
			return false
		}
	}

	return true
}

// AttachDevice adds a device to the agent. Source devices run against
// every transmission the agent sends; target devices run against every
// transmission it receives.
func (a *Agent) AttachDevice(role DeviceRole, d Device) error {
	switch role {
	case RoleSource:
		a.sourceDevices = append(a.sourceDevices, d)
	case RoleTarget:
		a.targetDevices = append(a.targetDevices, d)
	default:
		return fmt.Errorf("%w: %q", ErrInvalidDeviceRole, role)
	}

	return nil
}

// Send removes the qubits from the agent's ownership and hands them to the
// quantum connection registered under target. It returns the source-side
// delay, already scaled by the number of qubits, and advances the agent's
// clock by it. Send never blocks.
//
// Sending qubits the agent does not own fails with ErrQubitNotOwned before
// any queue mutation.
func (a *Agent) Send(target string, qubits []Qubit) (VTimeInSec, error) {
	conn, ok := a.qConnects[target]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownPeer, target)
	}

	if err := a.takeQubits(qubits); err != nil {
		return 0, err
	}

	if a.NumHooks() > 0 {
		a.InvokeHook(HookCtx{
			Domain: a,
			Pos:    HookPosQubitSend,
			Item:   qubits,
			Detail: target,
		})
	}

	delay := conn.Put(a.name, target, qubits, a.Now())
	a.advanceClock(delay)

	return delay, nil
}

// Receive blocks until the quantum connection registered under source has
// a transmission addressed to this agent, merges the qubits into the
// agent's ownership, advances the clock by the total delay, and returns
// the qubits.
func (a *Agent) Receive(source string) ([]Qubit, error) {
	conn, ok := a.qConnects[source]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPeer, source)
	}

	qubits, delay, _ := conn.Get(a)
	a.advanceClock(delay)

	if a.NumHooks() > 0 {
		a.InvokeHook(HookCtx{
			Domain: a,
			Pos:    HookPosQubitRecv,
			Item:   qubits,
			Detail: source,
		})
	}

	return qubits, nil
}

// SendClassical hands a bit sequence to the classical connection registered
// under target. It returns the source-side delay and advances the agent's
// clock by it. SendClassical never blocks.
func (a *Agent) SendClassical(target string, bits []byte) (VTimeInSec, error) {
	conn, ok := a.cConnects[target]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownPeer, target)
	}

	delay := conn.Put(target, bits)
	a.advanceClock(delay)

	return delay, nil
}

// ReceiveClassical blocks until the classical connection registered under
// source has bits addressed to this agent, advances the clock by the total
// delay, and returns the bits.
func (a *Agent) ReceiveClassical(source string) ([]byte, error) {
	conn, ok := a.cConnects[source]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPeer, source)
	}

	bits, delay := conn.Get(a)
	a.advanceClock(delay)

	return bits, nil
}

// Start launches the agent's protocol on its own goroutine. An agent
// without a protocol finishes immediately.
func (a *Agent) Start() {
	go func() {
		defer close(a.done)

		if a.protocol == nil {
			return
		}

		a.err = a.protocol(a)
	}()
}

// Wait blocks until the agent's protocol returns and reports its error.
func (a *Agent) Wait() error {
	<-a.done

	if a.err != nil {
		return fmt.Errorf("agent %s: %w", a.name, a.err)
	}

	return nil
}

// takeQubits atomically checks that the agent owns every qubit and removes
// them, so a failed send leaves ownership untouched.
func (a *Agent) takeQubits(qubits []Qubit) error {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()

	for _, q := range qubits {
		if _, owned := a.qubits[q]; !owned {
			return fmt.Errorf("%w: qubit %d", ErrQubitNotOwned, q)
		}
	}

	for _, q := range qubits {
		delete(a.qubits, q)
	}

	return nil
}

// absorb merges qubits into the agent's ownership. The union is
// idempotent; absorbing an already-owned qubit changes nothing.
func (a *Agent) absorb(qubits []Qubit) {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()

	for _, q := range qubits {
		a.qubits[q] = struct{}{}
	}
}

func (a *Agent) advanceClock(delay VTimeInSec) {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()

	a.time += delay
}

func (a *Agent) registerQConnect(peer string, c *QConnect) {
	if _, ok := a.qConnects[peer]; ok {
		panic("agent " + a.name +
			" already has a quantum connection to " + peer)
	}

	a.qConnects[peer] = c
}

func (a *Agent) registerCConnect(peer string, c *CConnect) {
	if _, ok := a.cConnects[peer]; ok {
		panic("agent " + a.name +
			" already has a classical connection to " + peer)
	}

	a.cConnects[peer] = c
}

// AgentBuilder can build agents.
type AgentBuilder struct {
	program  Program
	qubits   []Qubit
	protocol Protocol
}

// MakeAgentBuilder creates a builder with default parameters.
func MakeAgentBuilder() AgentBuilder {
	return AgentBuilder{}
}

// WithProgram sets the opaque program the agent carries. Devices see this
// program when they run in the agent's goroutine.
func (b AgentBuilder) WithProgram(p Program) AgentBuilder {
	b.program = p
	return b
}

// WithQubits sets the qubits the agent initially owns.
func (b AgentBuilder) WithQubits(qubits ...Qubit) AgentBuilder {
	b.qubits = qubits
	return b
}

// WithProtocol sets the protocol the agent runs when started.
func (b AgentBuilder) WithProtocol(p Protocol) AgentBuilder {
	b.protocol = p
	return b
}

// Build creates the agent. The name must be unique within a simulation; it
// is the sole key peers use to address the agent.
func (b AgentBuilder) Build(name string) *Agent {
	NameMustBeValid(name)

	a := &Agent{
		name:      name,
		program:   b.program,
		qubits:    make(map[Qubit]struct{}),
		qConnects: make(map[string]*QConnect),
		cConnects: make(map[string]*CConnect),
		protocol:  b.protocol,
		done:      make(chan struct{}),
	}

	a.absorb(b.qubits)

	return a
}
