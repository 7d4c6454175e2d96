package rooms

import (
	"strings"
	"time"
)

// State is the room lifecycle marker. Closing is transient: it is only
// ever held while a membership mutation is in flight under the shard
// lock, so snapshots never expose it.
type State string

const (
	StateCreated State = "CREATED"
	StateJoined  State = "JOINED"
	StateActive  State = "ACTIVE"
	StateClosing State = "CLOSING"
)

// MediaStatus is self-reported by the client and relayed to peers for
// UI purposes only; the server never enforces it.
type MediaStatus struct {
	Muted      bool `json:"muted"`
	SpeakerOff bool `json:"speaker_off"`
}

type participant struct {
	connID   string
	joinedAt time.Time
	media    MediaStatus
}

// room is the mutable record owned by the Store. All access goes
// through Store operations under the owning shard's lock.
type room struct {
	code         string
	state        State
	createdAt    time.Time
	lastActivity time.Time
	members      []*participant // ordered by join time, len ≤ cap
}

func (r *room) memberIndex(connID string) int {
	for i, p := range r.members {
		if p.connID == connID {
			return i
		}
	}
	return -1
}

func (r *room) peerIDs(except string) []string {
	out := make([]string, 0, len(r.members))
	for _, p := range r.members {
		if p.connID != except {
			out = append(out, p.connID)
		}
	}
	return out
}

// MemberDTO is the read-only projection handed to the router and the
// REST layer.
type MemberDTO struct {
	ConnectionID string      `json:"connection_id"`
	JoinedAt     time.Time   `json:"joined_at" example:"2025-07-27T16:05:05Z"`
	Media        MediaStatus `json:"media"`
}

type RoomDTO struct {
	Code         string      `json:"code"`
	State        State       `json:"state" example:"JOINED"`
	CreatedAt    time.Time   `json:"created_at"`
	LastActivity time.Time   `json:"last_activity"`
	Members      []MemberDTO `json:"members"`
}

func (r *room) dto() RoomDTO {
	members := make([]MemberDTO, len(r.members))
	for i, p := range r.members {
		members[i] = MemberDTO{
			ConnectionID: p.connID,
			JoinedAt:     p.joinedAt,
			Media:        p.media,
		}
	}
	return RoomDTO{
		Code:         r.code,
		State:        r.state,
		CreatedAt:    r.createdAt,
		LastActivity: r.lastActivity,
		Members:      members,
	}
}

// Normalize canonicalizes a room code for storage and lookup. Codes are
// compared case-insensitively.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
