package sim

// HookPosQubitSend marks an agent handing qubits to a connection.
var HookPosQubitSend = &HookPos{Name: "Qubit Send"}

// HookPosQubitRecv marks an agent completing a receive.
var HookPosQubitRecv = &HookPos{Name: "Qubit Recv"}

// HookPosConnPut marks a connection enqueuing a transmission.
var HookPosConnPut = &HookPos{Name: "Conn Put"}

// HookPosConnGet marks a connection handing a transmission to the receiver.
var HookPosConnGet = &HookPos{Name: "Conn Get"}

// TransmissionKind tells whether a transmission carries qubits or classical
// bits.
type TransmissionKind string

// The two transmission kinds.
const (
	TransmissionQuantum   TransmissionKind = "quantum"
	TransmissionClassical TransmissionKind = "classical"
)

// TransmissionInfo describes one payload transfer over a connection. It is
// the Item carried by the HookPosConnPut and HookPosConnGet hooks.
type TransmissionInfo struct {
	ID          string
	Kind        TransmissionKind
	Src         string
	Dst         string
	PayloadSize int

	// SourceDelay is the source-side delay, already scaled by the payload
	// size.
	SourceDelay VTimeInSec

	// TotalDelay includes the source-side delay. It is zero until the get
	// side completes.
	TotalDelay VTimeInSec

	// SendTime is the sender's local clock when the transmission was
	// enqueued. Classical transmissions do not record it.
	SendTime VTimeInSec
}
