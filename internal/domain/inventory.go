package domain

import "fmt"

type Hotel struct {
	ID         int64
	Name       string
	Address    string
	Categories []RoomCategory
}

type RoomCategory struct {
	ID             int64
	HotelID        int64
	Name           string
	BasePriceCents int64
	Rooms          []RoomNumber
}

// RoomNumber is a bookable room. ID is the room number, unique within its
// category.
type RoomNumber struct {
	ID         string
	CategoryID int64
}

// Category returns the category with the given id.
func (h *Hotel) Category(id int64) (*RoomCategory, bool) {
	for i := range h.Categories {
		if h.Categories[i].ID == id {
			return &h.Categories[i], true
		}
	}
	return nil, false
}

func (c *RoomCategory) HasRoom(roomID string) bool {
	for _, r := range c.Rooms {
		if r.ID == roomID {
			return true
		}
	}
	return false
}

// RoomKey is the compound identity of a room and the unit of locking.
type RoomKey struct {
	HotelID    int64
	CategoryID int64
	RoomID     string
}

func (k RoomKey) String() string {
	return fmt.Sprintf("hotel:%d:category:%d:room:%s", k.HotelID, k.CategoryID, k.RoomID)
}
