package gatt

// A Stack provides mediated access to a BLE host stack's attribute table.
// It is the seam between this package and the radio-owning stack:
// services hand it their characteristic layout at registration time and
// perform all live value access through it afterwards.
//
// Implementations must treat their own storage as authoritative. Read and
// Write act on that storage, never on a copy held by the caller.
type Stack interface {
	// RegisterService builds attribute-table entries for def and returns
	// the assigned value handle of each characteristic, in declaration
	// order. Handles are stable for the life of the stack.
	RegisterService(def *ServiceDefinition) ([]uint16, error)

	// Read copies the stored value for the given value handle into buf
	// and returns the full stored length, which may exceed len(buf).
	Read(handle uint16, buf []byte) (int, error)

	// Write replaces the stored value for the given value handle.
	// Unless localOnly is set, a notification is sent to a subscribed
	// peer as a side effect.
	Write(handle uint16, value []byte, localOnly bool) error

	// SetEventHandler installs the sole sink for peer-initiated events.
	// A second call replaces the first.
	SetEventHandler(h EventHandler)
}

// An EventHandler receives peer events from a Stack. Handles passed to the
// per-attribute callbacks are characteristic value handles.
type EventHandler interface {
	Connected()
	Disconnected()
	DataWritten(handle uint16, data []byte)
	DataRead(handle uint16)
	UpdatesEnabled(handle uint16)
	UpdatesDisabled(handle uint16)
	ConfirmationReceived(handle uint16)
}

// A ServiceDefinition is the frozen layout a created service hands to the
// stack's attribute-table builder.
type ServiceDefinition struct {
	UUID            UUID
	Characteristics []CharacteristicDefinition
}

// A CharacteristicDefinition describes one characteristic's attributes.
type CharacteristicDefinition struct {
	UUID        UUID
	Properties  Property
	Description string // user description; empty for none
	Value       []byte // initial value; nil for none
	MaxSize     int
}
