package rooms

import "sync"

// Registry maps a live connection to the single room it occupies.
// Claim/Release keep the "at most one room per connection" invariant:
// a connection reserves itself here before the Store touches any shard,
// so two racing create/join calls from the same connection cannot both
// win.
type Registry struct {
	mu     sync.RWMutex
	byConn map[string]string // connection ID -> normalized room code
}

func NewRegistry() *Registry {
	return &Registry{byConn: make(map[string]string)}
}

// Claim reserves connID for code. Fails with ErrAlreadyInRoom if the
// connection is mapped anywhere, including to code itself.
func (rg *Registry) Claim(connID, code string) error {
	rg.mu.Lock()
	defer rg.mu.Unlock()
	if _, ok := rg.byConn[connID]; ok {
		return ErrAlreadyInRoom
	}
	rg.byConn[connID] = code
	return nil
}

// Release clears the mapping and reports the code it pointed at.
// Releasing an unmapped connection is a no-op.
func (rg *Registry) Release(connID string) (string, bool) {
	rg.mu.Lock()
	defer rg.mu.Unlock()
	code, ok := rg.byConn[connID]
	if ok {
		delete(rg.byConn, connID)
	}
	return code, ok
}

// ReleaseIf clears the mapping only while it still points at code.
// Used by server-initiated eviction so it never clobbers a mapping the
// connection re-acquired in the meantime.
func (rg *Registry) ReleaseIf(connID, code string) {
	rg.mu.Lock()
	defer rg.mu.Unlock()
	if cur, ok := rg.byConn[connID]; ok && cur == code {
		delete(rg.byConn, connID)
	}
}

func (rg *Registry) RoomOf(connID string) (string, bool) {
	rg.mu.RLock()
	defer rg.mu.RUnlock()
	code, ok := rg.byConn[connID]
	return code, ok
}

func (rg *Registry) Len() int {
	rg.mu.RLock()
	defer rg.mu.RUnlock()
	return len(rg.byConn)
}
