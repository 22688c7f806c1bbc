// Package devices provides stock delay-only devices. They report transit
// time without touching the program, and serve as the usual building
// blocks for experiments that do not model noise.
package devices

import "github.com/sarchlab/qnet/sim"

// A PulseSource emits photon pulses of a fixed length. Attach it as a
// source device to charge a custom pulse length instead of the default.
type PulseSource struct {
	PulseLength sim.VTimeInSec
}

// Apply reports the pulse length. The program and qubits are untouched.
func (s PulseSource) Apply(_ sim.Program, _ []sim.Qubit) sim.VTimeInSec {
	return s.PulseLength
}

// A Fiber is a transit device modeling a fiber span of a given length.
type Fiber struct {
	LengthKM float64
}

// Apply reports the travel time over the span.
func (f Fiber) Apply(_ sim.Program, _ []sim.Qubit) sim.VTimeInSec {
	return sim.VTimeInSec(f.LengthKM / sim.SignalSpeed)
}

// An Attenuator adds a fixed latency wherever it sits in a chain.
type Attenuator struct {
	Latency sim.VTimeInSec
}

// Apply reports the configured latency.
func (a Attenuator) Apply(_ sim.Program, _ []sim.Qubit) sim.VTimeInSec {
	return a.Latency
}
