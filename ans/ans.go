package ans

import (
	"encoding/binary"

	"github.com/sirupsen/logrus"

	"github.com/nlmphung/gatt"
)

// Characteristic order within the service. Order is the key correlating
// per-characteristic state across the service; do not reorder.
const (
	idxSupportedNew = iota
	idxSupportedUnread
	idxUnreadAlert
	idxNewAlert
	idxControlPoint
)

// alertStatus is the two-byte payload of the New Alert and Unread Alert
// Status characteristics.
type alertStatus struct {
	Category CategoryID
	Count    uint8
}

// Service is an Alert Notification Service instance: five
// characteristics plus the category state machine driven by
// control-point writes, connection events, and local alert producers.
//
// All methods must be called from the single event-dispatch goroutine;
// the one exception is ButtonPress, which only posts onto the queue.
type Service struct {
	*gatt.Service

	log   *logrus.Logger
	queue *gatt.EventQueue

	cpChar        *gatt.Characteristic
	newChar       *gatt.Characteristic
	unreadChar    *gatt.Characteristic
	supNewChar    *gatt.Characteristic
	supUnreadChar *gatt.Characteristic

	supportedNew    CategoryMask // set by local configuration only, never by the peer
	supportedUnread CategoryMask
	enabledNew      CategoryMask // set by peer control-point commands; link-session state
	enabledUnread   CategoryMask

	counts     [CategoryCount]uint8
	connected  bool
	pressCount uint32
}

// New builds and creates an Alert Notification Service on stack.
// Button presses are dispatched through q; a nil q makes ButtonPress
// run its handler inline, which is only safe in single-threaded tests.
// Initially only SimpleAlert is supported, for both alert classes.
func New(stack gatt.Stack, q *gatt.EventQueue, log *logrus.Logger) (*Service, error) {
	if log == nil {
		log = logrus.New()
	}
	s := &Service{
		Service:         gatt.NewService(stack),
		log:             log,
		queue:           q,
		supportedNew:    MaskForCategory(SimpleAlert),
		supportedUnread: MaskForCategory(SimpleAlert),
	}

	type charDef struct {
		uuid    gatt.UUID
		props   gatt.Property
		desc    string
		initial []byte
	}
	defs := []charDef{
		{gatt.AttrSupportedNewAlertCategoryUUID, gatt.CharRead, "Supported New Alert Category", maskBytes(s.supportedNew)},
		{gatt.AttrSupportedUnreadAlertCategoryUUID, gatt.CharRead, "Supported Unread Alert Category", maskBytes(s.supportedUnread)},
		{gatt.AttrUnreadAlertStatusUUID, gatt.CharNotify, "Unread Alert", []byte{0x00, 0x00}},
		{gatt.AttrNewAlertUUID, gatt.CharNotify, "New Alert", []byte{0x00, 0x00}},
		{gatt.AttrAlertNotificationControlPointUUID, gatt.CharWriteNR, "Alert Notification Control Point", nil},
	}
	for _, d := range defs {
		if !s.AddCharacteristic(d.uuid, d.props, d.desc, d.initial, 2) {
			panic("ans: building service characteristics")
		}
	}
	if err := s.Create(gatt.AttrAlertNotificationUUID); err != nil {
		return nil, err
	}

	s.supNewChar = s.Characteristic(idxSupportedNew)
	s.supUnreadChar = s.Characteristic(idxSupportedUnread)
	s.unreadChar = s.Characteristic(idxUnreadAlert)
	s.newChar = s.Characteristic(idxNewAlert)
	s.cpChar = s.Characteristic(idxControlPoint)
	return s, nil
}

func maskBytes(m CategoryMask) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, uint16(m))
	return b
}

// State accessors, mainly for the application layer and tests.

// SupportedNewAlerts returns the New Alert supported-category bitmask.
func (s *Service) SupportedNewAlerts() CategoryMask { return s.supportedNew }

// SupportedUnreadAlerts returns the Unread Alert supported-category bitmask.
func (s *Service) SupportedUnreadAlerts() CategoryMask { return s.supportedUnread }

// EnabledNewAlerts returns the categories the peer has enabled for New Alert.
func (s *Service) EnabledNewAlerts() CategoryMask { return s.enabledNew }

// EnabledUnreadAlerts returns the categories the peer has enabled for Unread Alert.
func (s *Service) EnabledUnreadAlerts() CategoryMask { return s.enabledUnread }

// Count returns the alert count of a category; 0 for AllCategories.
func (s *Service) Count(c CategoryID) uint8 {
	if c >= CategoryCount {
		return 0
	}
	return s.counts[c]
}

// ControlPoint returns the Alert Notification Control Point characteristic.
func (s *Service) ControlPoint() *gatt.Characteristic { return s.cpChar }

// NewAlert returns the New Alert characteristic.
func (s *Service) NewAlert() *gatt.Characteristic { return s.newChar }

// UnreadAlert returns the Unread Alert Status characteristic.
func (s *Service) UnreadAlert() *gatt.Characteristic { return s.unreadChar }

// PressCount returns the number of button presses since the last
// connection.
func (s *Service) PressCount() uint32 { return s.pressCount }

// IsConnected reports whether a peer is connected.
func (s *Service) IsConnected() bool { return s.connected }

// Connected implements the connection hook: all counters and the press
// counter start from zero for the new session.
func (s *Service) Connected() {
	s.clearCounters(AllCategories)
	s.pressCount = 0
	s.connected = true
}

// Disconnected clears the counters and releases the connected gate.
// The enabled bitmasks survive the link on purpose; see DESIGN.md.
func (s *Service) Disconnected() {
	s.connected = false
	s.clearCounters(AllCategories)
}

// ServeWrite routes peer writes. Only the control point is writable;
// anything else reaching here is a stack/application mismatch.
func (s *Service) ServeWrite(c *gatt.Characteristic, data []byte) {
	if c != s.cpChar {
		s.log.WithField("characteristic", c.UUID().String()).Warn("ans: write to non-control-point characteristic ignored")
		return
	}
	s.handleControlPoint(data)
}

// ButtonPress is the interrupt-context producer: it posts the press
// handler onto the event queue and touches no state itself.
func (s *Service) ButtonPress() {
	if s.queue == nil {
		s.buttonPressed()
		return
	}
	s.queue.Post(s.buttonPressed)
}

func (s *Service) buttonPressed() {
	s.pressCount++
	s.AddNewAlert(SimpleAlert)
	s.log.WithField("presses", s.pressCount).Info("ans: button pressed, added simple alert")
}

// AddNewAlert records one new alert in the given category. It returns
// false if the category is not in the supported New Alert set (the only
// true precondition), and otherwise counts the alert and pushes the New
// Alert and Unread Alert Status notifications for the categories the
// peer has enabled. Stopping early because a class is not enabled is a
// normal outcome, not an error: the count is retained either way.
func (s *Service) AddNewAlert(c CategoryID) bool {
	mask := MaskForCategory(c)
	if c >= CategoryCount || !s.supportedNew.Has(c) {
		s.log.WithField("category", c.String()).Warn("ans: alert for unsupported category")
		return false
	}
	if s.counts[c] < 0xFF { // counts saturate rather than wrap
		s.counts[c]++
	}
	s.log.WithFields(logrus.Fields{
		"category": c.String(),
		"count":    s.counts[c],
	}).Debug("ans: alert added")
	if s.enabledNew&mask == 0 {
		return false
	}
	s.notifyNew(c)
	if s.enabledUnread&mask == 0 {
		return false
	}
	s.notifyUnread(c)
	return true
}

// notifyNew pushes the New Alert characteristic for one category.
func (s *Service) notifyNew(c CategoryID) {
	status := alertStatus{Category: c, Count: s.counts[c]}
	if err := gatt.WriteValue(s.newChar, status, false); err != nil {
		s.log.WithError(err).Warn("ans: new alert notification failed")
	}
}

// notifyUnread pushes the Unread Alert Status characteristic for one category.
func (s *Service) notifyUnread(c CategoryID) {
	status := alertStatus{Category: c, Count: s.counts[c]}
	if err := gatt.WriteValue(s.unreadChar, status, false); err != nil {
		s.log.WithError(err).Warn("ans: unread alert notification failed")
	}
}

// clearCounters zeroes the counter of one category, or all of them for
// AllCategories. Undefined categories are ignored.
func (s *Service) clearCounters(c CategoryID) {
	switch {
	case c == AllCategories:
		for i := range s.counts {
			s.counts[i] = 0
		}
	case c < CategoryCount:
		s.counts[c] = 0
	}
}
