package room

import "sort"

// CapacityGroup is a presentation grouping of rooms sharing a capacity.
type CapacityGroup struct {
	Capacity int    `json:"capacity"`
	Label    string `json:"label"`
	Rooms    []Room `json:"rooms"`
}

// GroupByCapacity partitions rooms by capacity, smallest first. Grouping does not
// restrict which rooms can be selected.
func GroupByCapacity(rooms []Room) []CapacityGroup {
	index := make(map[int]int)
	var groups []CapacityGroup
	for _, r := range rooms {
		i, ok := index[r.Capacity]
		if !ok {
			i = len(groups)
			index[r.Capacity] = i
			groups = append(groups, CapacityGroup{Capacity: r.Capacity, Label: CapacityLabel(r.Capacity)})
		}
		groups[i].Rooms = append(groups[i].Rooms, r)
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Capacity < groups[j].Capacity })
	return groups
}

// Mode decides which commit endpoint a selection is sent to.
type Mode string

const (
	ModeAssign   Mode = "assign"
	ModeReassign Mode = "reassign"
)

// Selector holds the admin's pick among suitable rooms for one booking.
type Selector struct {
	bookingID string
	mode      Mode
	rooms     map[string]Room
	order     []string
	selected  string
}

// NewSelector creates a selector. isMember switches the commit to reassignment.
func NewSelector(bookingID string, isMember bool, rooms []Room) *Selector {
	s := &Selector{bookingID: bookingID, mode: ModeAssign, rooms: make(map[string]Room, len(rooms))}
	if isMember {
		s.mode = ModeReassign
	}
	for _, r := range rooms {
		r.Normalize()
		if _, dup := s.rooms[r.ID]; !dup {
			s.order = append(s.order, r.ID)
		}
		s.rooms[r.ID] = r
	}
	return s
}

// BookingID returns the booking the selection is for.
func (s *Selector) BookingID() string { return s.bookingID }

// Mode returns assign or reassign.
func (s *Selector) Mode() Mode { return s.mode }

// Empty returns true when no suitable rooms exist. This is a valid outcome, not an error.
func (s *Selector) Empty() bool { return len(s.rooms) == 0 }

// Rooms returns the candidate rooms in server order.
func (s *Selector) Rooms() []Room {
	out := make([]Room, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.rooms[id])
	}
	return out
}

// Groups returns the candidate rooms grouped by capacity.
func (s *Selector) Groups() []CapacityGroup { return GroupByCapacity(s.Rooms()) }

// Select picks a room. Selecting a full or unknown room is a no-op and returns false.
func (s *Selector) Select(roomID string) bool {
	r, ok := s.rooms[roomID]
	if !ok || !r.IsSelectable() {
		return false
	}
	s.selected = roomID
	return true
}

// Selected returns the picked room, if any.
func (s *Selector) Selected() (Room, bool) {
	if s.selected == "" {
		return Room{}, false
	}
	return s.rooms[s.selected], true
}

// CanConfirm returns true once a selectable room is picked.
func (s *Selector) CanConfirm() bool { return s.selected != "" }
