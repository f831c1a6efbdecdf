package gatt

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrBufferOverflow is returned by ReadValue when the stored value is
// longer than the requested type. The value is never silently truncated.
var ErrBufferOverflow = errors.New("stored value longer than requested type")

// ReadValue reads the live value of c through the owning service's stack
// and decodes it, little-endian, into a value of type T. T must have a
// fixed binary size (integers, or structs of them).
//
// Reading an unregistered characteristic is a caller contract violation
// and panics. The stack's storage is authoritative; no local copy of the
// value is consulted.
func ReadValue[T any](c *Characteristic) (T, error) {
	var v T
	size := binary.Size(v)
	if size < 0 {
		return v, fmt.Errorf("type %T has no fixed binary size", v)
	}
	if !c.Registered() {
		panic("gatt: read of unregistered characteristic " + c.uuid.String())
	}
	buf := make([]byte, size)
	n, err := c.service.stack.Read(c.valuen, buf)
	if err != nil {
		return v, err
	}
	if n > size {
		return v, ErrBufferOverflow
	}
	// Shorter stored values decode with the remaining bytes zero.
	if err := binary.Read(bytes.NewReader(buf), binary.LittleEndian, &v); err != nil {
		return v, err
	}
	return v, nil
}

// ReadValueBytes reads the raw live value of c through the owning
// service's stack. It is the accessor for variable-length values that
// have no fixed binary layout, such as UTF-8 strings.
//
// Reading an unregistered characteristic is a caller contract violation
// and panics.
func ReadValueBytes(c *Characteristic) ([]byte, error) {
	if !c.Registered() {
		panic("gatt: read of unregistered characteristic " + c.uuid.String())
	}
	buf := make([]byte, c.maxSize)
	n, err := c.service.stack.Read(c.valuen, buf)
	if err != nil {
		return nil, err
	}
	if n > len(buf) {
		return nil, ErrBufferOverflow
	}
	return buf[:n], nil
}

// WriteValue encodes v little-endian and writes it as the live value of c
// through the owning service's stack. Unless localOnly is set, the stack
// notifies a subscribed peer.
//
// Writing an unregistered characteristic is a caller contract violation
// and panics.
func WriteValue[T any](c *Characteristic, v T, localOnly bool) error {
	if binary.Size(v) < 0 {
		return fmt.Errorf("type %T has no fixed binary size", v)
	}
	if !c.Registered() {
		panic("gatt: write of unregistered characteristic " + c.uuid.String())
	}
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
		return err
	}
	return c.service.stack.Write(c.valuen, buf.Bytes(), localOnly)
}
