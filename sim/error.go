package sim

import "errors"

// ErrQubitNotOwned is returned when an agent tries to send a qubit it does
// not currently hold. The send is rejected before any queue mutation.
var ErrQubitNotOwned = errors.New("agent does not own qubit")

// ErrUnknownPeer is returned when a send or receive names a peer with no
// registered connection.
var ErrUnknownPeer = errors.New("no connection registered for peer")

// ErrInvalidDeviceRole is returned when a device is attached with a role
// other than RoleSource or RoleTarget.
var ErrInvalidDeviceRole = errors.New("invalid device role")
