// internal/domain/models/room.go
package models

// Room is a physical room in the home.
type Room struct {
	ID         string `json:"_id"`
	RoomNumber string `json:"room_number"`
	BedCount   int    `json:"bed_count,omitempty"`
	RoomType   string `json:"room_type,omitempty"`
	Gender     string `json:"gender,omitempty"`
	Floor      int    `json:"floor,omitempty"`
	Status     string `json:"status,omitempty"`
}

// Bed belongs to a room. RoomID may come back populated.
type Bed struct {
	ID        string    `json:"_id"`
	BedNumber string    `json:"bed_number"`
	RoomID    Ref[Room] `json:"room_id"`
	BedType   string    `json:"bed_type,omitempty"`
	Status    string    `json:"status,omitempty"`
}

// BedAssignment links a resident to a bed and is subject to admin approval.
type BedAssignment struct {
	ID         string        `json:"_id"`
	ResidentID Ref[Resident] `json:"resident_id"`
	BedID      Ref[Bed]      `json:"bed_id"`
	Status     string        `json:"status"`
	Reason     string        `json:"reason,omitempty"`
}

// RoomRef returns the bed's room reference when the bed was populated.
func (a BedAssignment) RoomRef() Ref[Room] {
	if a.BedID.Doc == nil {
		return Ref[Room]{}
	}
	return a.BedID.Doc.RoomID
}
