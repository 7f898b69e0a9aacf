package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFilter_StatusUsesNormalizer(t *testing.T) {
	allocated := ReconstructBooking("b1", "BK-1001", validOccupant(), validPreference(), EmergencyContact{}, Medical{},
		"room_allocated", ptr("A1"), nil, time.Now(), time.Now())
	pending := ReconstructBooking("b2", "BK-1002", validOccupant(), validPreference(), EmergencyContact{}, Medical{},
		"pending payment", nil, nil, time.Now(), time.Now())

	got := Filter{Status: "room allocated"}.Apply([]*Booking{allocated, pending})
	assert.Equal(t, []*Booking{allocated}, got)
}

func TestFilter_SearchAndGender(t *testing.T) {
	occ := validOccupant()
	bk := ReconstructBooking("b1", "BK-1001", occ, validPreference(), EmergencyContact{}, Medical{},
		"approved", nil, nil, time.Now(), time.Now())

	assert.True(t, Filter{Search: "bk-1001"}.Accepts(bk))
	assert.True(t, Filter{Search: "mensah"}.Accepts(bk))
	assert.False(t, Filter{Search: "kwame"}.Accepts(bk))
	assert.False(t, Filter{Gender: GenderMale}.Accepts(bk))
	assert.True(t, Filter{}.Accepts(bk))
}
