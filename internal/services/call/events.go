package call

import (
	"encoding/json"

	"callrelay/internal/rooms"
)

// Server->client event names. The negotiation events (offer, answer,
// ice-candidate) reuse the inbound name; everything else is
// server-originated.
const (
	EventConnected   = "connected"
	EventRoomCreated = "room-created"
	EventRoomJoined  = "room-joined"
	EventUserJoined  = "user-joined"
	EventOffer       = "offer"
	EventAnswer      = "answer"
	EventCandidate   = "ice-candidate"
	EventPeerMute    = "peer-mute"
	EventPeerSpeaker = "peer-speaker"
	EventPeerLeft    = "peer-left"
	EventCallEnded   = "call-ended"
	EventRoomTimeout = "room-timeout"
	EventError       = "error"
)

// ConnectedBody is pushed once per connection so the client learns the
// ID that later appears in "from" fields.
type ConnectedBody struct {
	ConnectionID string `json:"connection_id"`
}

type RoomBody struct {
	Code    string            `json:"code"`
	Members []rooms.MemberDTO `json:"members,omitempty"`
}

type UserJoinedBody struct {
	ConnectionID string `json:"connection_id"`
}

// SignalBody wraps a relayed negotiation payload. SDP and Candidate
// are opaque blobs: the relay forwards them verbatim and never looks
// inside.
type SignalBody struct {
	From      string          `json:"from"`
	SDP       json.RawMessage `json:"sdp,omitempty"`
	Candidate json.RawMessage `json:"candidate,omitempty"`
}

type PeerMuteBody struct {
	From  string `json:"from"`
	Muted bool   `json:"muted"`
}

type PeerSpeakerBody struct {
	From       string `json:"from"`
	SpeakerOff bool   `json:"speaker_off"`
}

type PeerLeftBody struct {
	ConnectionID string `json:"connection_id"`
}

type CallEndedBody struct {
	Code string `json:"code"`
}

type RoomTimeoutBody struct {
	Code string `json:"code"`
}

type ErrorBody struct {
	Kind  string `json:"kind"`
	Error string `json:"error"`
}
