package gatt

// This file includes constants from the BLE spec.

var (
	attrCharacteristicUUID = UUID16(0x2803)

	// AttrCCCUUID is the Client Characteristic Configuration descriptor UUID.
	AttrCCCUUID = UUID16(0x2902)
	// AttrUserDescriptionUUID is the Characteristic User Description descriptor UUID.
	AttrUserDescriptionUUID = UUID16(0x2901)

	// AttrGAPUUID is the Generic Access service UUID.
	AttrGAPUUID = UUID16(0x1800)
	// AttrImmediateAlertUUID is the Immediate Alert service UUID.
	AttrImmediateAlertUUID = UUID16(0x1802)
	// AttrAlertNotificationUUID is the Alert Notification service UUID.
	AttrAlertNotificationUUID = UUID16(0x1811)

	// AttrDeviceNameUUID is the Device Name characteristic UUID (Generic Access).
	AttrDeviceNameUUID = UUID16(0x2A00)
	// AttrAppearanceUUID is the Appearance characteristic UUID (Generic Access).
	AttrAppearanceUUID = UUID16(0x2A01)

	// AttrAlertLevelUUID is the Alert Level characteristic UUID (Immediate Alert).
	AttrAlertLevelUUID = UUID16(0x2A06)
	// AttrSupportedNewAlertCategoryUUID is the Supported New Alert Category characteristic UUID.
	AttrSupportedNewAlertCategoryUUID = UUID16(0x2A47)
	// AttrNewAlertUUID is the New Alert characteristic UUID.
	AttrNewAlertUUID = UUID16(0x2A46)
	// AttrSupportedUnreadAlertCategoryUUID is the Supported Unread Alert Category characteristic UUID.
	AttrSupportedUnreadAlertCategoryUUID = UUID16(0x2A48)
	// AttrUnreadAlertStatusUUID is the Unread Alert Status characteristic UUID.
	AttrUnreadAlertStatusUUID = UUID16(0x2A45)
	// AttrAlertNotificationControlPointUUID is the Alert Notification Control Point characteristic UUID.
	AttrAlertNotificationControlPointUUID = UUID16(0x2A44)
)

const cccNotifyFlag = 1
