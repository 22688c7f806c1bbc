package sim

// A Qubit identifies one unit of quantum state. A qubit is indivisible and
// is held by exactly one agent or one in-flight transmission at any
// instant.
type Qubit int

// A Program is the opaque quantum program an agent carries. The core never
// reads or writes its content; it only hands the program to devices.
type Program interface{}

// A Device is a pluggable capability that a transmission passes through.
// Apply may extend the program (e.g., append noise instructions), but it
// must not change which qubits the transmission names. The returned delay
// is charged once per qubit in the transmission.
type Device interface {
	Apply(program Program, qubits []Qubit) VTimeInSec
}

// DeviceRole tells an agent where an attached device acts.
type DeviceRole string

// Valid device roles. Source devices run when the owning agent sends;
// target devices run when it receives.
const (
	RoleSource DeviceRole = "source"
	RoleTarget DeviceRole = "target"
)
