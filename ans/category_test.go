package ans

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskForCategory(t *testing.T) {
	assert.Equal(t, CategoryMask(0x0001), MaskForCategory(SimpleAlert))
	assert.Equal(t, CategoryMask(0x0002), MaskForCategory(Email))
	assert.Equal(t, CategoryMask(0x0200), MaskForCategory(InstantMessage))
	assert.Equal(t, CategoryMask(0x03FF), MaskForCategory(AllCategories))
	assert.Equal(t, MaskAllCategories, MaskForCategory(AllCategories))
}

func TestCategoryMaskRoundTrip(t *testing.T) {
	for c := CategoryID(0); c < CategoryCount; c++ {
		assert.Equal(t, c, CategoryForMask(MaskForCategory(c)), c.String())
	}
	// The broadcast pseudo-category does not round-trip: its mask's
	// lowest bit belongs to SimpleAlert.
	assert.Equal(t, SimpleAlert, CategoryForMask(MaskForCategory(AllCategories)))
	assert.Equal(t, SimpleAlert, CategoryForMask(0))
}

func TestCategoryForMaskLowestBit(t *testing.T) {
	m := MaskForCategory(News) | MaskForCategory(Schedule)
	assert.Equal(t, News, CategoryForMask(m))
}

func TestCategoryMaskHas(t *testing.T) {
	m := MaskForCategory(Email) | MaskForCategory(VoiceMail)
	assert.True(t, m.Has(Email))
	assert.True(t, m.Has(VoiceMail))
	assert.False(t, m.Has(SimpleAlert))
	assert.True(t, m.Has(AllCategories), "any set bit satisfies AllCategories")
	assert.False(t, CategoryMask(0).Has(AllCategories))
}

func TestCategoryValid(t *testing.T) {
	for c := CategoryID(0); c < CategoryCount; c++ {
		assert.True(t, c.Valid())
	}
	assert.True(t, AllCategories.Valid())
	assert.False(t, CategoryID(CategoryCount).Valid())
	assert.False(t, CategoryID(0xFE).Valid())
}

func TestCategoryString(t *testing.T) {
	assert.Equal(t, "Simple Alert", SimpleAlert.String())
	assert.Equal(t, "Instant Message", InstantMessage.String())
	assert.Equal(t, "All Categories", AllCategories.String())
	assert.Equal(t, "CategoryID(13)", CategoryID(13).String())
}

func TestCommandString(t *testing.T) {
	assert.Equal(t, "enable new alert", CmdEnableNewAlert.String())
	assert.Equal(t, "notify unread alert now", CmdNotifyUnreadAlertNow.String())
	assert.Equal(t, "Command(9)", Command(9).String())
}
