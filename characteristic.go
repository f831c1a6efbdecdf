package gatt

import "strings"

// A Property is a set of characteristic property flags.
type Property uint8

// Do not re-order the bit flags below;
// they are organized to match the BLE spec.
const (
	charBroadcast Property = 1 << iota // internal; not settable via AddCharacteristic

	// CharRead means the characteristic may be read.
	CharRead
	// CharWriteNR means the characteristic may be written to, with no reply.
	CharWriteNR
	// CharWrite means the characteristic may be written to, with a reply.
	CharWrite
	// CharNotify means the characteristic supports notifications.
	CharNotify
	// CharIndicate means the characteristic supports indications.
	CharIndicate
)

func (p Property) String() string {
	names := []struct {
		flag Property
		name string
	}{
		{CharRead, "read"},
		{CharWriteNR, "writeWithoutResponse"},
		{CharWrite, "write"},
		{CharNotify, "notify"},
		{CharIndicate, "indicate"},
	}
	var ss []string
	for _, n := range names {
		if p&n.flag != 0 {
			ss = append(ss, n.name)
		}
	}
	return strings.Join(ss, "|")
}

// A Characteristic describes one GATT characteristic of a Service.
//
// A Characteristic does not own its live value. Before registration the
// initial value is kept locally; once the owning service is registered,
// the host stack's attribute table is the sole authority for the value,
// and all access goes through the stack using the assigned handle.
type Characteristic struct {
	uuid    UUID
	props   Property
	desc    string // user description; empty means no 0x2901 descriptor
	initial []byte // value at registration time; nil for none
	maxSize int
	valuen  uint16 // value attribute handle; 0 until registration

	service *Service
}

// UUID returns the characteristic's UUID.
func (c *Characteristic) UUID() UUID {
	return c.uuid
}

// Properties returns the characteristic's property flags.
func (c *Characteristic) Properties() Property {
	return c.props
}

// Description returns the characteristic's user description,
// or the empty string if it has none.
func (c *Characteristic) Description() string {
	return c.desc
}

// MaxSize returns the capacity, in bytes, of the characteristic's value.
func (c *Characteristic) MaxSize() int {
	return c.maxSize
}

// SetInitialValue replaces the value the stack's attribute table will be
// seeded with at registration. It returns false once the stack has
// assigned a handle (the arena is authoritative from then on), or if v
// is non-nil with a length different from the characteristic's max size.
func (c *Characteristic) SetInitialValue(v []byte) bool {
	if c.Registered() {
		return false
	}
	if v != nil && len(v) != c.maxSize {
		return false
	}
	c.initial = v
	return true
}

// ValueHandle returns the handle assigned to the characteristic's
// value attribute, or 0 if the owning service has not been registered.
func (c *Characteristic) ValueHandle() uint16 {
	return c.valuen
}

// Registered reports whether the stack has assigned a value handle.
func (c *Characteristic) Registered() bool {
	return c.valuen != 0
}
