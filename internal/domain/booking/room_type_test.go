package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoomType_RoundTrips(t *testing.T) {
	for _, code := range []RoomType{RoomTypeSingle, RoomTypeDouble} {
		assert.Equal(t, code, ToAPIRoomType(ToDisplayRoomType(code)))
	}
	for _, display := range []string{DisplayOneInOne, DisplayTwoInOne} {
		assert.Equal(t, display, ToDisplayRoomType(ToAPIRoomType(display)))
	}
}

func TestRoomType_Conversions(t *testing.T) {
	assert.Equal(t, RoomTypeSingle, ToAPIRoomType("one-in-one"))
	assert.Equal(t, RoomTypeDouble, ToAPIRoomType(" Two-in-one "))
	assert.Equal(t, RoomTypeSingle, ToAPIRoomType("SINGLE"))
	assert.Equal(t, DisplayTwoInOne, ToDisplayRoomType("DOUBLE"))
	assert.Equal(t, "SUITE", ToDisplayRoomType("SUITE"))
	assert.Equal(t, 2, RoomTypeDouble.Capacity())
	assert.False(t, RoomType("SUITE").IsValid())
}
