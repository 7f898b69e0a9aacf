package booking

import "strings"

// RoomType is the API code of a room type.
type RoomType string

const (
	RoomTypeSingle RoomType = "SINGLE"
	RoomTypeDouble RoomType = "DOUBLE"
)

const (
	DisplayOneInOne = "One-in-one"
	DisplayTwoInOne = "Two-in-one"
)

// IsValid returns true if the room type is a known API code.
func (r RoomType) IsValid() bool {
	switch r {
	case RoomTypeSingle, RoomTypeDouble:
		return true
	}
	return false
}

// Capacity returns the number of occupants the room type holds.
func (r RoomType) Capacity() int {
	switch r {
	case RoomTypeSingle:
		return 1
	case RoomTypeDouble:
		return 2
	}
	return 0
}

// ToAPIRoomType converts a display title ("One-in-one") to its API code. API codes are
// passed through, so the conversion is safe to apply twice.
func ToAPIRoomType(display string) RoomType {
	switch strings.ToLower(strings.TrimSpace(display)) {
	case "one-in-one", "single":
		return RoomTypeSingle
	case "two-in-one", "double":
		return RoomTypeDouble
	}
	return RoomType(strings.ToUpper(strings.TrimSpace(display)))
}

// ToDisplayRoomType converts an API code to the display title shown to admins.
func ToDisplayRoomType(code RoomType) string {
	switch ToAPIRoomType(string(code)) {
	case RoomTypeSingle:
		return DisplayOneInOne
	case RoomTypeDouble:
		return DisplayTwoInOne
	}
	return string(code)
}
