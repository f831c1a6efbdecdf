package gatt

import (
	"errors"

	pkgerrors "github.com/pkg/errors"
)

// ErrNoCharacteristics is returned by Service.Create for a service
// to which no characteristics have been added.
var ErrNoCharacteristics = errors.New("service has no characteristics")

// A Service is a BLE service under construction, and, once created,
// the owner of its characteristic records.
//
// Characteristics may be added only before Create is called. Create
// freezes the layout; Server.Start later registers it with the stack,
// which assigns the attribute handles.
type Service struct {
	stack   Stack
	uuid    UUID
	chars   []*Characteristic
	created bool
}

// NewService returns an empty service builder that will perform all
// live value access through stack.
func NewService(stack Stack) *Service {
	return &Service{stack: stack}
}

// AddCharacteristic appends a characteristic to the service.
// It returns false if the service has already been created, or if
// initial is non-nil with a length different from maxSize.
// The initial value is used once, to seed the stack's attribute table
// at registration; it is never consulted afterwards.
func (s *Service) AddCharacteristic(u UUID, props Property, desc string, initial []byte, maxSize int) bool {
	if s.created {
		return false
	}
	if initial != nil && len(initial) != maxSize {
		return false
	}
	c := &Characteristic{
		uuid:    u,
		props:   props & ^charBroadcast,
		desc:    desc,
		initial: initial,
		maxSize: maxSize,
		service: s,
	}
	s.chars = append(s.chars, c)
	return true
}

// Create finalizes the service with the given UUID. It returns
// ErrNoCharacteristics if no characteristics have been added.
// Creating a service twice is a caller contract violation and panics.
func (s *Service) Create(u UUID) error {
	if s.created {
		panic("gatt: service " + u.String() + " created twice")
	}
	if len(s.chars) == 0 {
		return ErrNoCharacteristics
	}
	s.uuid = u
	s.created = true
	return nil
}

// definition builds the layout handed to the stack's attribute-table
// builder. Seed values may still change between Create and registration
// (see Characteristic.SetInitialValue), so this is built at register time.
func (s *Service) definition() *ServiceDefinition {
	def := &ServiceDefinition{UUID: s.uuid}
	for _, c := range s.chars {
		def.Characteristics = append(def.Characteristics, CharacteristicDefinition{
			UUID:        c.uuid,
			Properties:  c.props,
			Description: c.desc,
			Value:       c.initial,
			MaxSize:     c.maxSize,
		})
	}
	return def
}

// Created reports whether Create has been called.
func (s *Service) Created() bool {
	return s.created
}

// UUID returns the service's UUID. It is the zero UUID before Create.
func (s *Service) UUID() UUID {
	return s.uuid
}

// CharacteristicCount returns the number of characteristics added so far.
func (s *Service) CharacteristicCount() int {
	return len(s.chars)
}

// Characteristic returns the i'th characteristic, in the order they were
// added. Order is significant: it is the key services use to correlate
// per-characteristic state of their own. Characteristic panics if i is
// out of range.
func (s *Service) Characteristic(i int) *Characteristic {
	return s.chars[i]
}

// register hands the frozen layout to the stack and records the
// assigned value handles. Called by Server.Start.
func (s *Service) register() error {
	handles, err := s.stack.RegisterService(s.definition())
	if err != nil {
		return pkgerrors.Wrapf(err, "registering service %s", s.uuid)
	}
	if len(handles) != len(s.chars) {
		return pkgerrors.Errorf("registering service %s: got %d handles for %d characteristics",
			s.uuid, len(handles), len(s.chars))
	}
	for i, c := range s.chars {
		c.valuen = handles[i]
	}
	return nil
}

// CharacteristicWithValueHandle returns the characteristic whose value
// attribute has the given handle, or nil if no characteristic of this
// service matches. Meaningful only after registration.
func (s *Service) CharacteristicWithValueHandle(handle uint16) *Characteristic {
	if handle == 0 {
		return nil
	}
	for _, c := range s.chars {
		if c.valuen == handle {
			return c
		}
	}
	return nil
}

// UserDescription returns the user description of the characteristic
// with the given value handle. ok is false if no characteristic of this
// service has that handle or its description is empty.
func (s *Service) UserDescription(handle uint16) (desc string, ok bool) {
	c := s.CharacteristicWithValueHandle(handle)
	if c == nil || c.desc == "" {
		return "", false
	}
	return c.desc, true
}

// The no-op handler methods below make a bare *Service usable as a
// ServiceHandler for services that only carry static data. Richer
// services embed *Service and shadow the methods they care about.

// GattService returns s itself, satisfying ServiceHandler.
func (s *Service) GattService() *Service { return s }

// ServeWrite ignores the write.
func (s *Service) ServeWrite(c *Characteristic, data []byte) {}

// Connected does nothing.
func (s *Service) Connected() {}

// Disconnected does nothing.
func (s *Service) Disconnected() {}
