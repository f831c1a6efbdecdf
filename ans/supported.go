package ans

import "github.com/nlmphung/gatt"

// The supported-category bitmasks are local configuration: the peer can
// never change them, and they may only change while no peer is connected,
// so a session always sees one consistent capability set. Every mutator
// below refuses while connected, clears the counters of the categories
// whose supported bit changed, and pushes the updated bitmask value.

// SetSupportedNewAlerts replaces the New Alert supported-category set.
func (s *Service) SetSupportedNewAlerts(m CategoryMask) bool {
	return s.setSupported(&s.supportedNew, s.supNewChar, m&MaskAllCategories)
}

// AddSupportedNewAlerts adds one category (or all, for AllCategories) to
// the New Alert supported set.
func (s *Service) AddSupportedNewAlerts(c CategoryID) bool {
	return s.setSupported(&s.supportedNew, s.supNewChar, s.supportedNew|MaskForCategory(c))
}

// RemoveSupportedNewAlerts removes one category (or all) from the New
// Alert supported set.
func (s *Service) RemoveSupportedNewAlerts(c CategoryID) bool {
	return s.setSupported(&s.supportedNew, s.supNewChar, s.supportedNew&^MaskForCategory(c))
}

// SetSupportedUnreadAlerts replaces the Unread Alert supported-category set.
func (s *Service) SetSupportedUnreadAlerts(m CategoryMask) bool {
	return s.setSupported(&s.supportedUnread, s.supUnreadChar, m&MaskAllCategories)
}

// AddSupportedUnreadAlerts adds one category (or all) to the Unread
// Alert supported set.
func (s *Service) AddSupportedUnreadAlerts(c CategoryID) bool {
	return s.setSupported(&s.supportedUnread, s.supUnreadChar, s.supportedUnread|MaskForCategory(c))
}

// RemoveSupportedUnreadAlerts removes one category (or all) from the
// Unread Alert supported set.
func (s *Service) RemoveSupportedUnreadAlerts(c CategoryID) bool {
	return s.setSupported(&s.supportedUnread, s.supUnreadChar, s.supportedUnread&^MaskForCategory(c))
}

func (s *Service) setSupported(field *CategoryMask, char *gatt.Characteristic, m CategoryMask) bool {
	if s.connected {
		return false
	}
	changed := *field ^ m
	*field = m
	for c := CategoryID(0); c < CategoryCount; c++ {
		if changed.Has(c) {
			s.clearCounters(c)
		}
	}
	s.pushSupported(char, m)
	return true
}

// pushSupported makes the supported-bitmask characteristic reflect m.
// Before registration the stack has no storage yet, so the value is
// re-seeded instead of written.
func (s *Service) pushSupported(char *gatt.Characteristic, m CategoryMask) {
	if !char.Registered() {
		char.SetInitialValue(maskBytes(m))
		return
	}
	if err := gatt.WriteValue(char, uint16(m), false); err != nil {
		s.log.WithError(err).Warn("ans: updating supported category characteristic failed")
	}
}
