// Package ans implements the server side of the Bluetooth Alert
// Notification Service (org.bluetooth.service.alert_notification, 0x1811).
//
// The service tracks, per alert category, which categories the server
// supports and which the connected peer has enabled, counts alerts as
// they are produced locally, and interprets the Alert Notification
// Control Point commands a peer writes to enable, disable, and request
// immediate notifications.
package ans

import "fmt"

// CategoryCount is the number of defined alert categories.
const CategoryCount = 10

// A CategoryID identifies one alert category, as assigned by the Alert
// Notification Service specification.
type CategoryID uint8

const (
	// SimpleAlert is a general text alert or non-text alert.
	SimpleAlert CategoryID = iota
	// Email signals that an email message has arrived.
	Email
	// News signals a news feed item, such as RSS or Atom.
	News
	// NotificationCall signals an incoming call.
	NotificationCall
	// MissedCall signals a missed call.
	MissedCall
	// SMSMMS signals that an SMS or MMS message has arrived.
	SMSMMS
	// VoiceMail signals a voice mail.
	VoiceMail
	// Schedule is an alert from a calendar or planner.
	Schedule
	// HighPriorityAlert is an alert to be handled as high priority.
	HighPriorityAlert
	// InstantMessage signals an incoming instant message.
	InstantMessage

	// AllCategories is the broadcast pseudo-category. It is valid in
	// control-point commands and clear operations, never as a bit
	// position.
	AllCategories CategoryID = 0xFF
)

var categoryNames = [CategoryCount]string{
	"Simple Alert",
	"Email",
	"News",
	"Notification Call",
	"Missed Call",
	"SMS/MMS",
	"Voice Mail",
	"Schedule",
	"High Priority Alert",
	"Instant Message",
}

func (c CategoryID) String() string {
	if c < CategoryCount {
		return categoryNames[c]
	}
	if c == AllCategories {
		return "All Categories"
	}
	return fmt.Sprintf("CategoryID(%d)", uint8(c))
}

// Valid reports whether c is a defined category or AllCategories.
func (c CategoryID) Valid() bool {
	return c < CategoryCount || c == AllCategories
}

// A CategoryMask is a 10-bit field flagging one alert category per bit.
type CategoryMask uint16

// MaskAllCategories has every defined category's bit set.
const MaskAllCategories CategoryMask = 1<<CategoryCount - 1

// MaskForCategory returns the single-bit mask for a category, or the
// full 10-bit mask for AllCategories.
func MaskForCategory(c CategoryID) CategoryMask {
	if c == AllCategories {
		return MaskAllCategories
	}
	return 1 << c
}

// CategoryForMask returns the category of the lowest set bit of m.
// It returns SimpleAlert for an empty mask.
func CategoryForMask(m CategoryMask) CategoryID {
	for i := CategoryID(0); i < CategoryCount; i++ {
		if m&(1<<i) != 0 {
			return i
		}
	}
	return SimpleAlert
}

// Has reports whether the category's bit is set in m.
// For AllCategories it reports whether any bit is set.
func (m CategoryMask) Has(c CategoryID) bool {
	return m&MaskForCategory(c) != 0
}

// A Command is an Alert Notification Control Point command code.
type Command uint8

const (
	// CmdEnableNewAlert enables New Alert notifications for a category.
	CmdEnableNewAlert Command = iota
	// CmdEnableUnreadAlert enables Unread Alert Status notifications for a category.
	CmdEnableUnreadAlert
	// CmdDisableNewAlert disables New Alert notifications for a category.
	CmdDisableNewAlert
	// CmdDisableUnreadAlert disables Unread Alert Status notifications for a category.
	CmdDisableUnreadAlert
	// CmdNotifyNewAlertNow requests an immediate New Alert notification.
	CmdNotifyNewAlertNow
	// CmdNotifyUnreadAlertNow requests an immediate Unread Alert Status notification.
	CmdNotifyUnreadAlertNow
)

func (c Command) String() string {
	switch c {
	case CmdEnableNewAlert:
		return "enable new alert"
	case CmdEnableUnreadAlert:
		return "enable unread alert"
	case CmdDisableNewAlert:
		return "disable new alert"
	case CmdDisableUnreadAlert:
		return "disable unread alert"
	case CmdNotifyNewAlertNow:
		return "notify new alert now"
	case CmdNotifyUnreadAlertNow:
		return "notify unread alert now"
	}
	return fmt.Sprintf("Command(%d)", uint8(c))
}
