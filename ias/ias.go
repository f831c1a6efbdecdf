// Package ias implements the server side of the Bluetooth Immediate
// Alert Service (org.bluetooth.service.immediate_alert, 0x1802): a
// single Alert Level characteristic the peer writes without response to
// raise or silence an alert on the device.
package ias

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/nlmphung/gatt"
)

// A Level is an Alert Level characteristic value.
type Level uint8

const (
	// NoAlert silences the alert.
	NoAlert Level = iota
	// Mild is a mild alert.
	Mild
	// High is a high alert.
	High
)

func (l Level) String() string {
	switch l {
	case NoAlert:
		return "no alert"
	case Mild:
		return "mild"
	case High:
		return "high"
	}
	return fmt.Sprintf("Level(%d)", uint8(l))
}

// Service is an Immediate Alert Service instance. Level changes are
// reported through a callback, which stands in for whatever indicator
// the device drives (originally an LED's duty cycle).
type Service struct {
	*gatt.Service

	log     *logrus.Logger
	char    *gatt.Characteristic
	level   Level
	onLevel func(Level)
}

// New builds and creates an Immediate Alert Service on stack.
// onLevel, if non-nil, is invoked for every accepted level change,
// including the defaults applied on connect and disconnect.
func New(stack gatt.Stack, log *logrus.Logger, onLevel func(Level)) (*Service, error) {
	if log == nil {
		log = logrus.New()
	}
	s := &Service{
		Service: gatt.NewService(stack),
		log:     log,
		onLevel: onLevel,
	}
	if !s.AddCharacteristic(gatt.AttrAlertLevelUUID, gatt.CharWriteNR, "Alert Level", []byte{byte(NoAlert)}, 1) {
		panic("ias: building service characteristic")
	}
	if err := s.Create(gatt.AttrImmediateAlertUUID); err != nil {
		return nil, err
	}
	s.char = s.Characteristic(0)
	return s, nil
}

// Level returns the current alert level.
func (s *Service) Level() Level { return s.level }

// ServeWrite applies a peer write of the alert level. Malformed payloads
// and undefined levels are logged and dropped.
func (s *Service) ServeWrite(c *gatt.Characteristic, data []byte) {
	if c != s.char || len(data) != 1 {
		s.log.WithField("len", len(data)).Warn("ias: malformed alert level write ignored")
		return
	}
	l := Level(data[0])
	if l > High {
		s.log.WithField("level", data[0]).Warn("ias: undefined alert level ignored")
		return
	}
	s.setLevel(l)
}

// Connected resets the alert level for the new session.
func (s *Service) Connected() {
	s.setLevel(NoAlert)
}

// Disconnected raises a mild alert, signaling the lost link.
func (s *Service) Disconnected() {
	s.setLevel(Mild)
}

func (s *Service) setLevel(l Level) {
	s.level = l
	s.log.WithField("level", l.String()).Info("ias: alert level changed")
	if s.char.Registered() {
		if err := gatt.WriteValue(s.char, uint8(l), true); err != nil {
			s.log.WithError(err).Warn("ias: storing alert level failed")
		}
	}
	if s.onLevel != nil {
		s.onLevel(l)
	}
}
