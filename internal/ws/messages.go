package ws

import "encoding/json"

// Envelope wraps every WS frame in both directions.
type Envelope struct {
	Event string          `json:"event"`          // e.g. "create-room"
	Body  json.RawMessage `json:"body,omitempty"` // event-specific object
}

// outEnvelope is the outbound twin; Body is a typed value, not raw
// bytes.
type outEnvelope struct {
	Event string `json:"event"`
	Body  any    `json:"body,omitempty"`
}

// ──────────────────────────── Request DTOs ───────────────────────────

// RoomRequest is the body for "create-room" and "join-room".
type RoomRequest struct {
	Code string `json:"code"`
}

// SignalRequest is the body for "offer", "answer" and "ice-candidate".
// Code is advisory: the room is resolved from the sender's registry
// mapping, never trusted from the payload. To, when set, addresses one
// specific peer instead of the whole room.
type SignalRequest struct {
	Code      string          `json:"code,omitempty"`
	To        string          `json:"to,omitempty"`
	SDP       json.RawMessage `json:"sdp,omitempty"`
	Candidate json.RawMessage `json:"candidate,omitempty"`
}

// MuteRequest is the body for "set-mute".
type MuteRequest struct {
	Code  string `json:"code,omitempty"`
	Muted bool   `json:"muted"`
}

// SpeakerRequest is the body for "set-speaker".
type SpeakerRequest struct {
	Code       string `json:"code,omitempty"`
	SpeakerOff bool   `json:"speaker_off"`
}

// LeaveRequest is the body for "leave-call".
type LeaveRequest struct {
	Code string `json:"code,omitempty"`
}
