package roomhandler

// ErrorResponse is the uniform REST error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is returned by /healthz.
type HealthResponse struct {
	Status      string `json:"status" example:"ok"`
	Rooms       int    `json:"rooms"`
	Connections int    `json:"connections"`
}

// RoomSummary is the list-view projection of a live room.
type RoomSummary struct {
	Code        string `json:"code"`
	State       string `json:"state" example:"JOINED"`
	MemberCount int    `json:"member_count"`
	CreatedAt   int64  `json:"created_at"`
	IdleSeconds int64  `json:"idle_seconds"`
}
