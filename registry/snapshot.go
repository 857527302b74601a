package registry

import "github.com/poiesic/termdex/core"

// Snapshot is an immutable point-in-time copy of the registry used to
// build a servable index. Terms are deep copies and the alias map is
// detached from the live registry, so a snapshot never changes once
// taken.
type Snapshot struct {
	Version uint64
	Terms   []*core.Term
	Aliases map[string]string // normalized alias -> canonical name
}

// Resolve maps a normalized key to its canonical term within the
// snapshot, via name or alias.
func (s *Snapshot) Resolve(key string) (*core.Term, bool) {
	if name, ok := s.Aliases[key]; ok {
		key = name
	}
	for _, term := range s.Terms {
		if term.Name == key {
			return term, true
		}
	}
	return nil, false
}
