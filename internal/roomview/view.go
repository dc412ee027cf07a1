// Package roomview projects the backend's room table onto the fixed
// three-room occupancy board.
package roomview

import (
	"sync"
	"time"

	"escape-ops-console/internal/gameapi"
)

// RoomIDs are the physical rooms of the venue. The board always shows
// exactly these three, whatever the snapshot contains.
var RoomIDs = [3]string{"A", "B", "C"}

// Slot is the derived display state of one room.
type Slot struct {
	RoomID      string `json:"roomId"`
	InProgress  bool   `json:"inProgress"`
	GroupName   string `json:"groupName,omitempty"`
	GroupId     string `json:"groupId,omitempty"`
	Difficulty  int    `json:"difficulty,omitempty"`
	MemberCount int    `json:"memberCount,omitempty"`
	StartTime   string `json:"startTime,omitempty"`
}

// Project derives the three-slot board from a room snapshot. Every refresh
// starts from three empty slots, so a room that drops out of one poll and
// reappears in the next never leaves a stale entry behind, and unknown
// room IDs are ignored rather than accumulated.
func Project(rooms []gameapi.Room) [3]Slot {
	var slots [3]Slot
	for i, id := range RoomIDs {
		slots[i] = Slot{RoomID: id}
	}
	for _, room := range rooms {
		if room.Status != gameapi.RoomStarted {
			continue
		}
		for i, id := range RoomIDs {
			if room.RoomID == id {
				slots[i] = Slot{
					RoomID:      id,
					InProgress:  true,
					GroupName:   room.GroupName,
					GroupId:     room.GroupId,
					Difficulty:  room.Difficulty,
					MemberCount: room.MemberCount,
					StartTime:   room.StartTime,
				}
			}
		}
	}
	return slots
}

// View holds the latest board. Replace swaps the whole state; there is no
// incremental merge.
type View struct {
	mu        sync.RWMutex
	slots     [3]Slot
	updatedAt time.Time
}

// NewView returns a board with all rooms idle.
func NewView() *View {
	return &View{slots: Project(nil)}
}

// Replace installs a fresh snapshot.
func (v *View) Replace(rooms []gameapi.Room) {
	slots := Project(rooms)
	v.mu.Lock()
	v.slots = slots
	v.updatedAt = time.Now()
	v.mu.Unlock()
}

// Snapshot returns the current board and when it was last refreshed. The
// zero time means no poll has succeeded yet.
func (v *View) Snapshot() ([3]Slot, time.Time) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.slots, v.updatedAt
}
