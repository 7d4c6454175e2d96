package rooms

import (
	"hash/fnv"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

const numShards = 16

// shard serializes every mutation of the rooms it owns. Unrelated
// codes hash to different shards, so concurrent calls on different
// rooms do not contend.
type shard struct {
	mu    sync.Mutex
	rooms map[string]*room
}

// Store is the authoritative room table. It owns every Room and
// Participant record; callers only ever see DTO snapshots. A room
// exists here iff it has at least one member - the moment membership
// hits zero the room is removed inside the same critical section,
// never left for the sweeper.
type Store struct {
	reg        *Registry
	cap        int
	maxCodeLen int
	shards     [numShards]*shard
	now        func() time.Time // overridable in tests
}

func NewStore(reg *Registry, maxMembers, maxCodeLen int) *Store {
	s := &Store{
		reg:        reg,
		cap:        maxMembers,
		maxCodeLen: maxCodeLen,
		now:        time.Now,
	}
	for i := range s.shards {
		s.shards[i] = &shard{rooms: make(map[string]*room)}
	}
	return s
}

func (s *Store) shardFor(code string) *shard {
	h := fnv.New32a()
	h.Write([]byte(code))
	return s.shards[h.Sum32()%numShards]
}

func (s *Store) checkCode(code string) (string, error) {
	code = Normalize(code)
	if code == "" || (s.maxCodeLen > 0 && len(code) > s.maxCodeLen) {
		return "", ErrBadCode
	}
	return code, nil
}

// Create inserts a new room with connID as its sole member. The
// connection is claimed in the registry before the shard is touched;
// on any failure the claim is rolled back.
func (s *Store) Create(code, connID string) (RoomDTO, error) {
	code, err := s.checkCode(code)
	if err != nil {
		return RoomDTO{}, err
	}
	if err := s.reg.Claim(connID, code); err != nil {
		return RoomDTO{}, err
	}

	sh := s.shardFor(code)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	if _, ok := sh.rooms[code]; ok {
		s.reg.ReleaseIf(connID, code)
		return RoomDTO{}, ErrRoomExists
	}
	now := s.now()
	r := &room{
		code:         code,
		state:        StateCreated,
		createdAt:    now,
		lastActivity: now,
		members:      []*participant{{connID: connID, joinedAt: now}},
	}
	sh.rooms[code] = r
	return r.dto(), nil
}

// Join appends connID to an existing room and returns the full member
// list, new joiner included, so the router can greet both sides.
// Admission is decided under the shard lock: N racers for k free slots
// admit exactly min(N, k).
func (s *Store) Join(code, connID string) (RoomDTO, error) {
	code, err := s.checkCode(code)
	if err != nil {
		return RoomDTO{}, err
	}
	if err := s.reg.Claim(connID, code); err != nil {
		return RoomDTO{}, err
	}

	sh := s.shardFor(code)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	r, ok := sh.rooms[code]
	if !ok {
		s.reg.ReleaseIf(connID, code)
		return RoomDTO{}, ErrRoomNotFound
	}
	if len(r.members) >= s.cap {
		s.reg.ReleaseIf(connID, code)
		return RoomDTO{}, ErrRoomFull
	}
	now := s.now()
	r.members = append(r.members, &participant{connID: connID, joinedAt: now})
	r.state = StateJoined
	r.lastActivity = now
	return r.dto(), nil
}

// LeaveResult describes a completed departure. Remaining is empty when
// the room was deleted.
type LeaveResult struct {
	Code      string
	Remaining []MemberDTO
	Deleted   bool
}

// Leave removes connID from whatever room it occupies. Unmapped
// connections are a no-op, not an error: leave-call, transport
// disconnect and double teardown all funnel through here and must be
// idempotent.
func (s *Store) Leave(connID string) (LeaveResult, bool) {
	code, ok := s.reg.Release(connID)
	if !ok {
		return LeaveResult{}, false
	}

	sh := s.shardFor(code)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	r, ok := sh.rooms[code]
	if !ok {
		// Room already torn down (eviction raced the explicit leave).
		return LeaveResult{Code: code, Deleted: true}, true
	}
	i := r.memberIndex(connID)
	if i < 0 {
		// Stale mapping: the room was evicted and re-created by others
		// between the registry release and the shard lock. The current
		// occupants are not this connection's peers, so there is nobody
		// to notify.
		return LeaveResult{Code: code, Deleted: true}, true
	}
	r.state = StateClosing
	r.members = append(r.members[:i], r.members[i+1:]...)
	if len(r.members) == 0 {
		delete(sh.rooms, code)
		return LeaveResult{Code: code, Deleted: true}, true
	}
	r.lastActivity = s.now()
	if len(r.members) == 1 {
		r.state = StateCreated
	} else {
		r.state = StateJoined
	}
	return LeaveResult{Code: code, Remaining: r.dto().Members}, true
}

// RelayInfo tells the signaling router where a sender's traffic goes.
type RelayInfo struct {
	Code  string
	Peers []string // every current member except the sender
}

// Peers resolves the sender's room, bumps lastActivity so an active
// call is never swept as idle, and returns the recipient set.
func (s *Store) Peers(connID string) (RelayInfo, error) {
	code, ok := s.reg.RoomOf(connID)
	if !ok {
		return RelayInfo{}, ErrNotInRoom
	}
	sh := s.shardFor(code)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	r, ok := sh.rooms[code]
	if !ok {
		return RelayInfo{}, ErrNotInRoom
	}
	r.lastActivity = s.now()
	return RelayInfo{Code: code, Peers: r.peerIDs(connID)}, nil
}

// MarkActive flips the room into the Active state. Called on the first
// relayed answer; calling it again is harmless.
func (s *Store) MarkActive(code string) {
	sh := s.shardFor(code)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if r, ok := sh.rooms[code]; ok {
		r.state = StateActive
	}
}

// SetMute updates the sender's advisory mute flag.
func (s *Store) SetMute(connID string, muted bool) (RelayInfo, error) {
	return s.setStatus(connID, func(p *participant) { p.media.Muted = muted })
}

// SetSpeaker updates the sender's advisory speaker flag.
func (s *Store) SetSpeaker(connID string, speakerOff bool) (RelayInfo, error) {
	return s.setStatus(connID, func(p *participant) { p.media.SpeakerOff = speakerOff })
}

func (s *Store) setStatus(connID string, mutate func(*participant)) (RelayInfo, error) {
	code, ok := s.reg.RoomOf(connID)
	if !ok {
		return RelayInfo{}, ErrNotInRoom
	}
	sh := s.shardFor(code)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	r, ok := sh.rooms[code]
	if !ok {
		return RelayInfo{}, ErrNotInRoom
	}
	i := r.memberIndex(connID)
	if i < 0 {
		return RelayInfo{}, ErrNotInRoom
	}
	mutate(r.members[i])
	r.lastActivity = s.now()
	return RelayInfo{Code: code, Peers: r.peerIDs(connID)}, nil
}

// Eviction is one room reclaimed by the idle sweep.
type Eviction struct {
	Code    string
	Members []string
}

// ExpireIdle deletes every room whose lastActivity is older than ttl
// and clears the evicted members' registry mappings, all under the
// owning shard's lock so a concurrent join or leave on the same code
// cannot interleave.
func (s *Store) ExpireIdle(ttl time.Duration) []Eviction {
	cutoff := s.now().Add(-ttl)
	var out []Eviction
	for _, sh := range s.shards {
		sh.mu.Lock()
		for code, r := range sh.rooms {
			if r.lastActivity.After(cutoff) {
				continue
			}
			ev := Eviction{Code: code, Members: r.peerIDs("")}
			delete(sh.rooms, code)
			for _, id := range ev.Members {
				s.reg.ReleaseIf(id, code)
			}
			out = append(out, ev)
			zap.L().Info("rooms.expired",
				zap.String("code", code),
				zap.Int("members", len(ev.Members)),
				zap.Time("last_activity", r.lastActivity),
			)
		}
		sh.mu.Unlock()
	}
	return out
}

// Get returns a snapshot of one room.
func (s *Store) Get(code string) (RoomDTO, bool) {
	code = Normalize(code)
	sh := s.shardFor(code)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	r, ok := sh.rooms[code]
	if !ok {
		return RoomDTO{}, false
	}
	return r.dto(), true
}

// List returns snapshots of every live room, ordered by code.
func (s *Store) List() []RoomDTO {
	var out []RoomDTO
	for _, sh := range s.shards {
		sh.mu.Lock()
		for _, r := range sh.rooms {
			out = append(out, r.dto())
		}
		sh.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Len reports the number of live rooms.
func (s *Store) Len() int {
	n := 0
	for _, sh := range s.shards {
		sh.mu.Lock()
		n += len(sh.rooms)
		sh.mu.Unlock()
	}
	return n
}
