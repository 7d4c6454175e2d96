package rooms

import "errors"

var (
	ErrRoomExists    = errors.New("room already exists")
	ErrRoomNotFound  = errors.New("room not found")
	ErrRoomFull      = errors.New("room is full")
	ErrAlreadyInRoom = errors.New("connection already in a room")
	ErrNotInRoom     = errors.New("connection not in a room")
	ErrBadCode       = errors.New("invalid room code")
)

// Kind maps a store error to the wire-level "kind" string clients
// switch on. Unknown errors collapse to "internal".
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrRoomExists):
		return "room_already_exists"
	case errors.Is(err, ErrRoomNotFound):
		return "room_not_found"
	case errors.Is(err, ErrRoomFull):
		return "room_full"
	case errors.Is(err, ErrAlreadyInRoom):
		return "already_in_room"
	case errors.Is(err, ErrNotInRoom):
		return "not_in_room"
	case errors.Is(err, ErrBadCode):
		return "bad_code"
	default:
		return "internal"
	}
}
