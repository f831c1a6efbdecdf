package gatt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoCharDefinition() *ServiceDefinition {
	return &ServiceDefinition{
		UUID: UUID16(0x1811),
		Characteristics: []CharacteristicDefinition{
			{
				UUID:        UUID16(0x2A46),
				Properties:  CharNotify,
				Description: "New Alert",
				Value:       []byte{0x00, 0x00},
				MaxSize:     2,
			},
			{
				UUID:       UUID16(0x2A47),
				Properties: CharRead,
				Value:      []byte{0x01, 0x00},
				MaxSize:    2,
			},
		},
	}
}

func TestMemStackLayout(t *testing.T) {
	m := NewMemStack()
	handles, err := m.RegisterService(twoCharDefinition())
	require.NoError(t, err)
	require.Len(t, handles, 2)

	// svc decl, char decl, value, user description, CCC descriptor,
	// then char decl, value for the read-only characteristic.
	assert.Equal(t, uint16(3), handles[0])
	assert.Equal(t, uint16(7), handles[1])

	a, ok := m.attrs.At(4)
	require.True(t, ok)
	assert.True(t, AttrUserDescriptionUUID.Equal(a.uuid))
	assert.Equal(t, "New Alert", string(a.value))

	a, ok = m.attrs.At(5)
	require.True(t, ok)
	assert.True(t, AttrCCCUUID.Equal(a.uuid))

	// The read-only characteristic gets neither descriptor.
	a, ok = m.attrs.At(6)
	require.True(t, ok)
	assert.Equal(t, typCharacteristic, a.typ)
}

func TestMemStackAttributes(t *testing.T) {
	m := NewMemStack()
	handles, err := m.RegisterService(twoCharDefinition())
	require.NoError(t, err)

	all := m.Attributes(1, 0xFFFF)
	require.Len(t, all, 7)
	for i, a := range all {
		assert.Equal(t, uint16(i+1), a.Handle, "entries come back in handle order")
	}
	assert.True(t, UUID16(0x2A46).Equal(all[2].UUID))
	assert.Equal(t, []byte("New Alert"), all[3].Value)

	// A window covering only the second characteristic.
	sub := m.Attributes(handles[1]-1, 0xFFFF)
	require.Len(t, sub, 2)
	assert.True(t, attrCharacteristicUUID.Equal(sub[0].UUID))
	assert.True(t, UUID16(0x2A47).Equal(sub[1].UUID))

	// Returned values are copies, not arena aliases.
	all[2].Value[0] = 0xEE
	buf := make([]byte, 2)
	_, err = m.Read(handles[0], buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x00}, buf)

	assert.Empty(t, m.Attributes(100, 200))
}

func TestMemStackRegisterEmpty(t *testing.T) {
	m := NewMemStack()
	_, err := m.RegisterService(&ServiceDefinition{UUID: UUID16(0x1811)})
	assert.Error(t, err)
	_, err = m.RegisterService(nil)
	assert.Error(t, err)
}

func TestMemStackReadWrite(t *testing.T) {
	m := NewMemStack()
	handles, err := m.RegisterService(twoCharDefinition())
	require.NoError(t, err)
	h := handles[1]

	buf := make([]byte, 2)
	n, err := m.Read(h, buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []byte{0x01, 0x00}, buf)

	require.NoError(t, m.Write(h, []byte{0xAB, 0xCD}, true))
	n, err = m.Read(h, buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []byte{0xAB, 0xCD}, buf)

	// Read reports the full stored length even into a short buffer.
	short := make([]byte, 1)
	n, err = m.Read(h, short)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, byte(0xAB), short[0])
}

func TestMemStackWriteOverflow(t *testing.T) {
	m := NewMemStack()
	handles, err := m.RegisterService(twoCharDefinition())
	require.NoError(t, err)

	err = m.Write(handles[1], []byte{1, 2, 3}, true)
	assert.Error(t, err)
}

func TestMemStackUnknownHandle(t *testing.T) {
	m := NewMemStack()
	_, err := m.Read(42, nil)
	assert.ErrorIs(t, err, ErrNoSuchHandle)
	err = m.Write(42, []byte{0}, true)
	assert.ErrorIs(t, err, ErrNoSuchHandle)
	err = m.PeerWrite(42, []byte{0})
	assert.ErrorIs(t, err, ErrNoSuchHandle)
}

func TestMemStackNotificationRules(t *testing.T) {
	m := NewMemStack()
	handles, err := m.RegisterService(twoCharDefinition())
	require.NoError(t, err)
	h := handles[0]

	// Not connected, not subscribed: nothing queued.
	require.NoError(t, m.Write(h, []byte{0x01, 0x02}, false))
	assert.Empty(t, m.Notifications())

	m.PeerConnect()
	require.NoError(t, m.Write(h, []byte{0x01, 0x02}, false))
	assert.Empty(t, m.Notifications(), "unsubscribed peer must not be notified")

	require.NoError(t, m.PeerSubscribe(h))
	require.NoError(t, m.Write(h, []byte{0x03, 0x04}, false))
	nn := m.Notifications()
	require.Len(t, nn, 1)
	assert.Equal(t, h, nn[0].Handle)
	assert.Equal(t, []byte{0x03, 0x04}, nn[0].Value)
	assert.Empty(t, m.Notifications(), "drain must clear the queue")

	// localOnly writes never notify.
	require.NoError(t, m.Write(h, []byte{0x05, 0x06}, true))
	assert.Empty(t, m.Notifications())
}

func TestMemStackSubscribeNonNotifiable(t *testing.T) {
	m := NewMemStack()
	handles, err := m.RegisterService(twoCharDefinition())
	require.NoError(t, err)

	err = m.PeerSubscribe(handles[1])
	assert.Error(t, err)
}

func TestMemStackDisconnectClearsSubscriptions(t *testing.T) {
	m := NewMemStack()
	handles, err := m.RegisterService(twoCharDefinition())
	require.NoError(t, err)
	h := handles[0]

	m.PeerConnect()
	require.NoError(t, m.PeerSubscribe(h))
	m.PeerDisconnect()
	m.PeerConnect()

	require.NoError(t, m.Write(h, []byte{0x09, 0x00}, false))
	assert.Empty(t, m.Notifications(), "subscription must not survive the link")
}

func TestMemStackCCCTracksSubscription(t *testing.T) {
	m := NewMemStack()
	handles, err := m.RegisterService(twoCharDefinition())
	require.NoError(t, err)
	h := handles[0]

	cccValue := func() byte {
		a, ok := m.attrs.At(h + 2) // value, user description, CCC
		require.True(t, ok)
		require.True(t, AttrCCCUUID.Equal(a.uuid))
		return a.value[0]
	}

	m.PeerConnect()
	assert.Equal(t, byte(0), cccValue())
	require.NoError(t, m.PeerSubscribe(h))
	assert.Equal(t, byte(1), cccValue())
	require.NoError(t, m.PeerUnsubscribe(h))
	assert.Equal(t, byte(0), cccValue())

	require.NoError(t, m.PeerSubscribe(h))
	m.PeerDisconnect()
	assert.Equal(t, byte(0), cccValue())
}

type writeRecorder struct {
	handle uint16
	data   []byte
}

func (r *writeRecorder) Connected()                         {}
func (r *writeRecorder) Disconnected()                      {}
func (r *writeRecorder) DataRead(handle uint16)             {}
func (r *writeRecorder) UpdatesEnabled(handle uint16)       {}
func (r *writeRecorder) UpdatesDisabled(handle uint16)      {}
func (r *writeRecorder) ConfirmationReceived(handle uint16) {}
func (r *writeRecorder) DataWritten(handle uint16, data []byte) {
	r.handle = handle
	r.data = data
}

func TestMemStackPeerWriteOversized(t *testing.T) {
	m := NewMemStack()
	handles, err := m.RegisterService(twoCharDefinition())
	require.NoError(t, err)
	h := handles[1]

	rec := &writeRecorder{}
	m.SetEventHandler(rec)

	// An oversized payload is not stored, but the handler still sees it
	// so protocol code can reject the length itself.
	require.NoError(t, m.PeerWrite(h, []byte{9, 9, 9}))
	assert.Equal(t, h, rec.handle)
	assert.Equal(t, []byte{9, 9, 9}, rec.data)

	buf := make([]byte, 2)
	n, err := m.Read(h, buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []byte{0x01, 0x00}, buf)
}

func TestMemStackPeerRead(t *testing.T) {
	m := NewMemStack()
	handles, err := m.RegisterService(twoCharDefinition())
	require.NoError(t, err)

	v, err := m.PeerRead(handles[1])
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x00}, v)
}
