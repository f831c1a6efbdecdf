package gatt

import (
	"github.com/sirupsen/logrus"
)

// A ServiceHandler owns a created Service and reacts to its events.
// The Server holds a flat collection of these; services needing custom
// behavior embed *Service and shadow the methods they care about.
type ServiceHandler interface {
	// GattService returns the characteristic table the handler owns.
	GattService() *Service

	// ServeWrite is called when a peer writes the given characteristic.
	ServeWrite(c *Characteristic, data []byte)

	// Connected is called when a peer connects to the server.
	Connected()

	// Disconnected is called when the peer disconnects.
	Disconnected()
}

// A Server is a collection of services and the single sink for the host
// stack's server-wide events. Servers are single-shot: services are added
// while stopped, then Start registers them and installs the server as the
// stack's event handler. A started server cannot be stopped or restarted.
type Server struct {
	stack    Stack
	name     string
	log      *logrus.Logger
	handlers []ServiceHandler
	started  bool
}

// NewServer creates a Server using stack, with the specified options.
// See http://dave.cheney.net/2014/10/17/functional-options-for-friendly-apis for more discussion.
func NewServer(stack Stack, opts ...option) *Server {
	s := &Server{stack: stack, name: "gatt", log: logrus.New()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type option func(*Server)

// Name sets the server name used in log records.
func Name(n string) option {
	return func(s *Server) { s.name = n }
}

// Logger sets the server's logger. The default logs to stderr.
func Logger(l *logrus.Logger) option {
	return func(s *Server) { s.log = l }
}

// AddService registers h's service with the server. It returns false if
// the server has already started or if the service has not been created.
// All services must be added before starting the server.
func (s *Server) AddService(h ServiceHandler) bool {
	if s.started {
		return false
	}
	if !h.GattService().Created() {
		return false
	}
	s.handlers = append(s.handlers, h)
	return true
}

// Start registers every added service with the stack, which assigns the
// attribute handles, then installs the server as the stack's event
// handler. Starting a server twice is a caller contract violation and
// panics.
func (s *Server) Start() error {
	if s.started {
		panic("gatt: server " + s.name + " started twice")
	}
	for _, h := range s.handlers {
		svc := h.GattService()
		if err := svc.register(); err != nil {
			return err
		}
		s.log.WithFields(logrus.Fields{
			"server":  s.name,
			"service": svc.UUID().String(),
			"chars":   svc.CharacteristicCount(),
		}).Info("registered service")
	}
	s.stack.SetEventHandler(s)
	s.started = true
	return nil
}

// Started reports whether Start has completed.
func (s *Server) Started() bool {
	return s.started
}

// resolve scans the services in insertion order for the first one
// claiming the given value handle.
func (s *Server) resolve(handle uint16) (ServiceHandler, *Characteristic) {
	for _, h := range s.handlers {
		if c := h.GattService().CharacteristicWithValueHandle(handle); c != nil {
			return h, c
		}
	}
	return nil, nil
}

// logEvent records an attribute event, including the characteristic's
// user description when it has one.
func (s *Server) logEvent(event string, handle uint16, owner ServiceHandler, c *Characteristic) {
	fields := logrus.Fields{"server": s.name, "handle": handle}
	if c != nil {
		if desc, ok := owner.GattService().UserDescription(handle); ok {
			fields["characteristic"] = desc
		} else {
			fields["characteristic"] = c.UUID().String()
		}
	}
	s.log.WithFields(fields).Debug(event)
}

// Connected notifies every service, in insertion order, that a peer has
// connected. A panicking hook aborts the remaining notifications.
func (s *Server) Connected() {
	s.log.WithField("server", s.name).Info("peer connected")
	for _, h := range s.handlers {
		h.Connected()
	}
}

// Disconnected notifies every service, in insertion order, that the peer
// has disconnected.
func (s *Server) Disconnected() {
	s.log.WithField("server", s.name).Info("peer disconnected")
	for _, h := range s.handlers {
		h.Disconnected()
	}
}

// DataWritten resolves the written handle to its owning service and
// forwards the payload to that service's write handler. A write to a
// handle no service claims is logged and dropped: an unclaimed handle is
// a stack/application mismatch, not a protocol fault.
func (s *Server) DataWritten(handle uint16, data []byte) {
	owner, c := s.resolve(handle)
	if c == nil {
		s.log.WithFields(logrus.Fields{
			"server": s.name,
			"handle": handle,
			"len":    len(data),
		}).Warn("write to unclaimed handle dropped")
		return
	}
	s.logEvent("data written", handle, owner, c)
	owner.ServeWrite(c, data)
}

// DataRead reports a peer read. Observability only.
func (s *Server) DataRead(handle uint16) {
	owner, c := s.resolve(handle)
	s.logEvent("data read", handle, owner, c)
}

// UpdatesEnabled reports a peer subscription. Observability only.
func (s *Server) UpdatesEnabled(handle uint16) {
	owner, c := s.resolve(handle)
	s.logEvent("updates enabled", handle, owner, c)
}

// UpdatesDisabled reports a peer unsubscription. Observability only.
func (s *Server) UpdatesDisabled(handle uint16) {
	owner, c := s.resolve(handle)
	s.logEvent("updates disabled", handle, owner, c)
}

// ConfirmationReceived reports an indication confirmation. Observability only.
func (s *Server) ConfirmationReceived(handle uint16) {
	owner, c := s.resolve(handle)
	s.logEvent("confirmation received", handle, owner, c)
}
