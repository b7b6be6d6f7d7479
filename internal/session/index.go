package session

import "sync"

// sessionIndex maps session ids to their position in the sessions bucket.
//
// Call order for every mutation of the bucket: invalidate first, then write.
// A lookup between the two rebuilds from whatever the bucket holds.
type sessionIndex struct {
	mu        sync.Mutex
	positions map[string]int
}

func (i *sessionIndex) lookup(sessions []Session, id string) (int, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if pos, ok := i.positions[id]; ok && pos < len(sessions) && sessions[pos].ID == id {
		return pos, true
	}
	// stale or missing index
	i.positions = make(map[string]int, len(sessions))
	for pos, s := range sessions {
		i.positions[s.ID] = pos
	}
	pos, ok := i.positions[id]
	return pos, ok
}

func (i *sessionIndex) invalidate() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.positions = nil
}
