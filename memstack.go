package gatt

import (
	"errors"
	"fmt"
)

// ErrNoSuchHandle is returned for reads and writes against a handle the
// attribute table does not contain.
var ErrNoSuchHandle = errors.New("no attribute with that handle")

type attrType int

const (
	typService attrType = iota
	typCharacteristic
	typCharacteristicValue
	typDescriptor
)

// attr is one entry of the attribute table. Value attributes own their
// storage: the table is the arena the rest of the package reads and
// writes through, so no caller-held buffer can dangle.
type attr struct {
	h       uint16
	typ     attrType
	uuid    UUID
	props   Property
	value   []byte
	maxSize int

	notifiable bool
	subscribed bool
}

// An attrRange is a contiguous range of attributes.
type attrRange struct {
	aa   []attr
	base uint16 // handle number for first attr in aa
}

const (
	tooSmall = -1
	tooLarge = -2
)

// idx returns the index into aa corresponding to handle h.
// If h is too small, idx returns tooSmall (-1).
// If h is too large, idx returns tooLarge (-2).
func (r *attrRange) idx(h int) int {
	if h < int(r.base) {
		return tooSmall
	}
	if h >= int(r.base)+len(r.aa) {
		return tooLarge
	}
	return h - int(r.base)
}

// At returns attr h.
func (r *attrRange) At(h uint16) (a attr, ok bool) {
	i := r.idx(int(h))
	if i < 0 {
		return attr{}, false
	}
	return r.aa[i], true
}

// at returns a pointer to attr h, for mutation.
func (r *attrRange) at(h uint16) (*attr, bool) {
	i := r.idx(int(h))
	if i < 0 {
		return nil, false
	}
	return &r.aa[i], true
}

// Subrange returns attributes in range [start, end]; it may
// return an empty slice. Subrange does not panic for
// out-of-range start or end.
func (r *attrRange) Subrange(start, end uint16) []attr {
	startidx := r.idx(int(start))
	switch startidx {
	case tooSmall:
		startidx = 0
	case tooLarge:
		return []attr{}
	}

	endidx := r.idx(int(end) + 1) // [start, end] includes its upper bound!
	switch endidx {
	case tooSmall:
		return []attr{}
	case tooLarge:
		endidx = len(r.aa)
	}
	return r.aa[startidx:endidx]
}

// A Notification is one value push a subscribed peer would receive.
type Notification struct {
	Handle uint16
	Value  []byte
}

// MemStack is an in-memory host stack: an attribute arena plus a
// simulated peer. It implements Stack and is the transport behind tests
// and the loopback demo.
//
// MemStack follows the package's single-threaded event model: all calls,
// including the Peer* methods, must come from one goroutine (or from one
// EventQueue's dispatch loop).
type MemStack struct {
	attrs     *attrRange
	next      uint16
	handler   EventHandler
	connected bool
	pending   []Notification
}

// NewMemStack returns an empty MemStack. Attribute handles start at 1.
func NewMemStack() *MemStack {
	return &MemStack{
		attrs: &attrRange{base: 1},
		next:  1,
	}
}

func (m *MemStack) push(a attr) uint16 {
	a.h = m.next
	m.attrs.aa = append(m.attrs.aa, a)
	m.next++
	return a.h
}

// RegisterService lays out def in the attribute table: a service
// declaration, then per characteristic a declaration, a value attribute
// owning its buffer, an optional user-description descriptor, and a CCC
// descriptor when the characteristic is notifiable.
func (m *MemStack) RegisterService(def *ServiceDefinition) ([]uint16, error) {
	if def == nil || len(def.Characteristics) == 0 {
		return nil, errors.New("empty service definition")
	}
	m.push(attr{typ: typService, uuid: def.UUID})
	handles := make([]uint16, 0, len(def.Characteristics))
	for _, cd := range def.Characteristics {
		m.push(attr{typ: typCharacteristic, uuid: attrCharacteristicUUID, props: cd.Properties})
		value := make([]byte, len(cd.Value), max(cd.MaxSize, len(cd.Value)))
		copy(value, cd.Value)
		notifiable := cd.Properties&(CharNotify|CharIndicate) != 0
		vh := m.push(attr{
			typ:        typCharacteristicValue,
			uuid:       cd.UUID,
			props:      cd.Properties,
			value:      value,
			maxSize:    cd.MaxSize,
			notifiable: notifiable,
		})
		handles = append(handles, vh)
		if cd.Description != "" {
			m.push(attr{typ: typDescriptor, uuid: AttrUserDescriptionUUID, value: []byte(cd.Description)})
		}
		if notifiable {
			m.push(attr{typ: typDescriptor, uuid: AttrCCCUUID, value: []byte{0x00, 0x00}})
		}
	}
	return handles, nil
}

// SetEventHandler installs h as the sole peer-event sink.
func (m *MemStack) SetEventHandler(h EventHandler) {
	m.handler = h
}

// Read copies the stored value for handle into buf and returns the full
// stored length, which may exceed len(buf).
func (m *MemStack) Read(handle uint16, buf []byte) (int, error) {
	a, ok := m.attrs.At(handle)
	if !ok || a.typ != typCharacteristicValue {
		return 0, fmt.Errorf("read handle %d: %w", handle, ErrNoSuchHandle)
	}
	copy(buf, a.value)
	return len(a.value), nil
}

// Write replaces the stored value for handle. Unless localOnly is set, a
// notification is queued for the peer if it is connected and subscribed.
func (m *MemStack) Write(handle uint16, value []byte, localOnly bool) error {
	a, ok := m.attrs.at(handle)
	if !ok || a.typ != typCharacteristicValue {
		return fmt.Errorf("write handle %d: %w", handle, ErrNoSuchHandle)
	}
	if len(value) > a.maxSize {
		return fmt.Errorf("write handle %d: value length %d exceeds capacity %d", handle, len(value), a.maxSize)
	}
	a.value = append(a.value[:0], value...)
	if !localOnly && m.connected && a.subscribed {
		m.pending = append(m.pending, Notification{
			Handle: handle,
			Value:  append([]byte(nil), value...),
		})
	}
	return nil
}

// An AttrInfo describes one attribute-table entry, as a peer's
// discovery requests would see it.
type AttrInfo struct {
	Handle uint16
	UUID   UUID
	Value  []byte
}

// Attributes returns copies of the attribute-table entries with handles
// in [start, end], in handle order. It is the enumeration a discovery
// exchange would walk; [1, 0xFFFF] covers the whole table.
func (m *MemStack) Attributes(start, end uint16) []AttrInfo {
	aa := m.attrs.Subrange(start, end)
	out := make([]AttrInfo, 0, len(aa))
	for _, a := range aa {
		out = append(out, AttrInfo{
			Handle: a.h,
			UUID:   a.uuid,
			Value:  append([]byte(nil), a.value...),
		})
	}
	return out
}

// Notifications drains and returns the pushes queued for the peer since
// the previous call.
func (m *MemStack) Notifications() []Notification {
	nn := m.pending
	m.pending = nil
	return nn
}

// ccc returns the CCC descriptor attr of the characteristic whose value
// attr is at handle, if it has one.
func (m *MemStack) ccc(handle uint16) (*attr, bool) {
	for h := handle + 1; ; h++ {
		a, ok := m.attrs.at(h)
		if !ok || a.typ == typService || a.typ == typCharacteristic {
			return nil, false
		}
		if a.typ == typDescriptor && AttrCCCUUID.Equal(a.uuid) {
			return a, true
		}
	}
}

// PeerConnect simulates a peer connection.
func (m *MemStack) PeerConnect() {
	m.connected = true
	if m.handler != nil {
		m.handler.Connected()
	}
}

// PeerDisconnect simulates the peer disconnecting. Subscriptions do not
// survive the link.
func (m *MemStack) PeerDisconnect() {
	m.connected = false
	for i := range m.attrs.aa {
		a := &m.attrs.aa[i]
		a.subscribed = false
		if a.typ == typDescriptor && AttrCCCUUID.Equal(a.uuid) {
			a.value[0], a.value[1] = 0, 0
		}
	}
	if m.handler != nil {
		m.handler.Disconnected()
	}
}

// PeerWrite simulates a peer write to a value handle. Storage is updated
// only when the payload fits the attribute; the raw payload is delivered
// to the event handler either way, so protocol code sees malformed
// lengths and can reject them itself.
func (m *MemStack) PeerWrite(handle uint16, data []byte) error {
	a, ok := m.attrs.at(handle)
	if !ok || a.typ != typCharacteristicValue {
		return fmt.Errorf("peer write handle %d: %w", handle, ErrNoSuchHandle)
	}
	if len(data) <= a.maxSize {
		a.value = append(a.value[:0], data...)
	}
	if m.handler != nil {
		m.handler.DataWritten(handle, append([]byte(nil), data...))
	}
	return nil
}

// PeerRead simulates a peer read of a value handle.
func (m *MemStack) PeerRead(handle uint16) ([]byte, error) {
	a, ok := m.attrs.At(handle)
	if !ok || a.typ != typCharacteristicValue {
		return nil, fmt.Errorf("peer read handle %d: %w", handle, ErrNoSuchHandle)
	}
	if m.handler != nil {
		m.handler.DataRead(handle)
	}
	return append([]byte(nil), a.value...), nil
}

// PeerSubscribe simulates the peer enabling notifications for a value
// handle, as a CCC descriptor write would.
func (m *MemStack) PeerSubscribe(handle uint16) error {
	a, ok := m.attrs.at(handle)
	if !ok || a.typ != typCharacteristicValue {
		return fmt.Errorf("peer subscribe handle %d: %w", handle, ErrNoSuchHandle)
	}
	if !a.notifiable {
		return fmt.Errorf("peer subscribe handle %d: characteristic is not notifiable", handle)
	}
	a.subscribed = true
	if c, ok := m.ccc(handle); ok {
		c.value[0] = cccNotifyFlag
	}
	if m.handler != nil {
		m.handler.UpdatesEnabled(handle)
	}
	return nil
}

// PeerUnsubscribe simulates the peer disabling notifications.
func (m *MemStack) PeerUnsubscribe(handle uint16) error {
	a, ok := m.attrs.at(handle)
	if !ok || a.typ != typCharacteristicValue {
		return fmt.Errorf("peer unsubscribe handle %d: %w", handle, ErrNoSuchHandle)
	}
	a.subscribed = false
	if c, ok := m.ccc(handle); ok {
		c.value[0] = 0
	}
	if m.handler != nil {
		m.handler.UpdatesDisabled(handle)
	}
	return nil
}

// PeerConfirm simulates an indication confirmation from the peer.
func (m *MemStack) PeerConfirm(handle uint16) {
	if m.handler != nil {
		m.handler.ConfirmationReceived(handle)
	}
}
