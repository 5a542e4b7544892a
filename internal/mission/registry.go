package mission

import (
	"fmt"
	"sync"

	"github.com/ufoai/geoscape/pkg/core"
)

// Registry is the insertion-ordered set of live missions.
//
// Iteration walks a snapshot: missions removed while a walk is in progress
// are skipped, missions added during the walk are not visited.
type Registry struct {
	mu       sync.RWMutex
	missions []*Mission
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add appends m. Ids must be unique among live missions.
func (r *Registry) Add(m *Mission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.byIDLocked(m.ID) != nil {
		return fmt.Errorf("mission %q already registered", m.ID)
	}
	m.removed = false
	r.missions = append(r.missions, m)
	return nil
}

// Remove erases m. It returns false when m is not registered.
func (r *Registry) Remove(m *Mission) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, x := range r.missions {
		if x == m {
			r.missions = append(r.missions[:i:i], r.missions[i+1:]...)
			m.removed = true
			return true
		}
	}
	return false
}

// Contains reports whether m is registered.
func (r *Registry) Contains(m *Mission) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, x := range r.missions {
		if x == m {
			return true
		}
	}
	return false
}

// Each calls fn for every mission in insertion order until fn returns false.
func (r *Registry) Each(fn func(*Mission) bool) {
	for _, m := range r.All() {
		if m.removed {
			continue
		}
		if !fn(m) {
			return
		}
	}
}

// All returns a snapshot of the registered missions.
func (r *Registry) All() []*Mission {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Mission, len(r.missions))
	copy(out, r.missions)
	return out
}

// ByID returns the mission with the given id, or nil.
func (r *Registry) ByID(id string) *Mission {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byIDLocked(id)
}

func (r *Registry) byIDLocked(id string) *Mission {
	for _, m := range r.missions {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// ByIdx returns the mission with the given index, or nil.
func (r *Registry) ByIdx(idx int) *Mission {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.missions {
		if m.Idx == idx {
			return m
		}
	}
	return nil
}

// ByUFO returns the mission flown by u, or nil.
func (r *Registry) ByUFO(u *core.UFO) *Mission {
	if u == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.missions {
		if m.UFO == u {
			return m
		}
	}
	return nil
}

// Last returns the most recently added mission, or nil.
func (r *Registry) Last() *Mission {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.missions) == 0 {
		return nil
	}
	return r.missions[len(r.missions)-1]
}

// Count returns the number of registered missions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.missions)
}

// CountActive returns the number of begun missions that are not over.
func (r *Registry) CountActive() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, m := range r.missions {
		if m.Begun() {
			n++
		}
	}
	return n
}

// CountOnGeoscape returns the number of begun missions visible to the player.
func (r *Registry) CountOnGeoscape() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, m := range r.missions {
		if m.Begun() && m.OnGeoscape {
			n++
		}
	}
	return n
}

// Clear drops every mission without running any removal hooks.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.missions {
		m.removed = true
	}
	r.missions = nil
}

// UniqueID returns the first free id of the form
// cat<category>_interest<interest>_<n>.
func (r *Registry) UniqueID(c core.Category, interest int) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for num := 0; ; num++ {
		id := fmt.Sprintf("cat%d_interest%d_%d", int(c), interest, num)
		if r.byIDLocked(id) == nil {
			return id
		}
	}
}
