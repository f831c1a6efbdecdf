// Package gatt implements the server side of the Bluetooth Low Energy
// Generic Attribute Profile: services, characteristics, and the event
// dispatch that routes peer reads, writes, and subscriptions to the
// service owning the written attribute.
//
// The package does not drive a radio. It talks to a BLE host stack
// through the Stack interface, which owns the attribute table and the
// over-the-air transport; MemStack is an in-memory implementation used
// as a test double and loopback transport. Advertising, pairing, and
// link security belong to the stack, not to this package.
//
// USAGE
//
// Services are built characteristic by characteristic, created, and
// added to a Server, which registers them with the stack when started:
//
//	stack := gatt.NewMemStack()
//	svc := gatt.NewService(stack)
//	svc.AddCharacteristic(gatt.AttrAlertLevelUUID, gatt.CharWriteNR, "Alert Level", []byte{0x00}, 1)
//	if err := svc.Create(gatt.AttrImmediateAlertUUID); err != nil {
//		log.Fatal(err)
//	}
//
//	srv := gatt.NewServer(stack, gatt.Name("mtc-ble"))
//	srv.AddService(svc)
//	if err := srv.Start(); err != nil {
//		log.Fatal(err)
//	}
//
// A bare *Service ignores peer events. Services with behavior embed
// *Service and shadow the ServiceHandler methods they care about; see
// the ans package for a full example.
//
// All state mutation is synchronous within one event-queue callback:
// stack callbacks and local producers are funneled through an
// EventQueue and run on its single dispatch goroutine.
package gatt
