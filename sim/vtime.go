package sim

// VTimeInSec defines the time in the simulated space in the unit of second.
type VTimeInSec float64

// Default physical parameters, charged when a transmission traverses no
// device.
const (
	// DefaultPulseLength is the photon pulse length assumed when the sending
	// agent has no source devices, 10 ps.
	DefaultPulseLength VTimeInSec = 10e-12

	// DefaultBitTime is the source-side transmission time charged per
	// classical bit.
	DefaultBitTime VTimeInSec = 8 * DefaultPulseLength

	// DefaultFiberLength is the fiber length, in km, assumed when a quantum
	// connection has no transit devices.
	DefaultFiberLength float64 = 0.0

	// SignalSpeed is the signal propagation speed in fiber, in km/s.
	SignalSpeed float64 = 2.998e5
)
