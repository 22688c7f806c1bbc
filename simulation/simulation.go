// Package simulation composes agents and connections into a runnable
// experiment, with transmission recording and optional monitoring.
package simulation

import (
	"errors"
	"fmt"

	"github.com/sarchlab/qnet/datarecording"
	"github.com/sarchlab/qnet/monitoring"
	"github.com/sarchlab/qnet/sim"
	"github.com/sarchlab/qnet/tracing"
)

// A Simulation registers the agents and connections of one experiment and
// runs every agent's protocol to completion.
type Simulation struct {
	id string

	agents         []*sim.Agent
	agentNameIndex map[string]int
	qConnects      []*sim.QConnect
	cConnects      []*sim.CConnect

	dataRecorder datarecording.DataRecorder
	visTracer    *tracing.DBTracer
	monitor      *monitoring.Monitor
}

// ID returns the ID of the simulation.
func (s *Simulation) ID() string {
	return s.id
}

// DataRecorder returns the data recorder the simulation writes traces
// through.
func (s *Simulation) DataRecorder() datarecording.DataRecorder {
	return s.dataRecorder
}

// Monitor returns the monitor of the simulation. It returns nil if
// monitoring is disabled.
func (s *Simulation) Monitor() *monitoring.Monitor {
	return s.monitor
}

// RegisterAgent adds an agent to the simulation. Agent names must be
// unique within the simulation.
func (s *Simulation) RegisterAgent(a *sim.Agent) {
	name := a.Name()
	if _, ok := s.agentNameIndex[name]; ok {
		panic(fmt.Sprintf("agent %s already registered", name))
	}

	s.agentNameIndex[name] = len(s.agents)
	s.agents = append(s.agents, a)

	if s.monitor != nil {
		s.monitor.RegisterAgent(a)
	}
}

// RegisterQConnect adds a quantum connection to the simulation and starts
// collecting its transmission trace.
func (s *Simulation) RegisterQConnect(c *sim.QConnect) {
	s.qConnects = append(s.qConnects, c)

	tracing.CollectTrace(c, s.visTracer)

	if s.monitor != nil {
		s.monitor.RegisterQConnect(c)
	}
}

// RegisterCConnect adds a classical connection to the simulation and
// starts collecting its transmission trace.
func (s *Simulation) RegisterCConnect(c *sim.CConnect) {
	s.cConnects = append(s.cConnects, c)

	tracing.CollectTrace(c, s.visTracer)

	if s.monitor != nil {
		s.monitor.RegisterCConnect(c)
	}
}

// GetAgentByName returns the registered agent with the given name.
func (s *Simulation) GetAgentByName(name string) *sim.Agent {
	index, ok := s.agentNameIndex[name]
	if !ok {
		panic(fmt.Sprintf("agent %s not registered", name))
	}

	return s.agents[index]
}

// Run starts every registered agent and blocks until all their protocols
// return. It reports the combined error of all agents.
func (s *Simulation) Run() error {
	for _, a := range s.agents {
		a.Start()
	}

	errs := make([]error, 0, len(s.agents))
	for _, a := range s.agents {
		errs = append(errs, a.Wait())
	}

	return errors.Join(errs...)
}

// Terminate flushes the recorded traces. It must be called after Run.
func (s *Simulation) Terminate() {
	s.dataRecorder.Flush()
}
