// Package gap implements a minimal server-side Generic Access service
// (org.bluetooth.service.generic_access, 0x1800): the Device Name and
// Appearance characteristics every peripheral is expected to carry.
package gap

import (
	"encoding/binary"

	"github.com/nlmphung/gatt"
)

// An Appearance is the peer-visible device category, as assigned by the
// Bluetooth SIG.
type Appearance uint16

const (
	// Unknown is the unspecified appearance.
	Unknown Appearance = 0x0000
	// GenericComputer marks a generic computer.
	GenericComputer Appearance = 0x0080
	// GenericTag marks a generic proximity tag.
	GenericTag Appearance = 0x0200
)

// Service is a Generic Access service instance. Its identity values are
// fixed at construction; peers can only read them.
type Service struct {
	*gatt.Service
}

// New builds and creates a Generic Access service carrying name and
// appearance. An empty name falls back to "gopher".
func New(stack gatt.Stack, name string, appearance Appearance) (*Service, error) {
	if name == "" {
		name = "gopher"
	}
	app := make([]byte, 2)
	binary.LittleEndian.PutUint16(app, uint16(appearance))

	s := &Service{Service: gatt.NewService(stack)}
	if !s.AddCharacteristic(gatt.AttrDeviceNameUUID, gatt.CharRead, "Device Name", []byte(name), len(name)) {
		panic("gap: building device name characteristic")
	}
	if !s.AddCharacteristic(gatt.AttrAppearanceUUID, gatt.CharRead, "Appearance", app, 2) {
		panic("gap: building appearance characteristic")
	}
	if err := s.Create(gatt.AttrGAPUUID); err != nil {
		return nil, err
	}
	return s, nil
}

// Name returns the device name the service advertises.
func (s *Service) Name() (string, error) {
	v, err := gatt.ReadValueBytes(s.Characteristic(0))
	if err != nil {
		return "", err
	}
	return string(v), nil
}
