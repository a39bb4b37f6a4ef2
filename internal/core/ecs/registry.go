package ecs

import (
	"sort"

	"github.com/danielsamuels/Rocket-League-Replays/internal/present"
	"github.com/danielsamuels/Rocket-League-Replays/internal/replay"
)

// Entry links a logical actor to its live node on the presentation surface.
type Entry struct {
	ID     replay.ActorID
	Kind   replay.Kind
	Name   string
	Handle present.Handle
}

// Registry tracks which actors currently have a live renderable counterpart.
// Pure bookkeeping; it never talks to the surface itself.
type Registry struct {
	entries *Store[replay.ActorID, Entry]
}

func NewRegistry() *Registry {
	return &Registry{
		entries: NewStore[replay.ActorID, Entry](16),
	}
}

func (r *Registry) Has(id replay.ActorID) bool {
	return r.entries.Has(id)
}

func (r *Registry) Get(id replay.ActorID) (Entry, bool) {
	return r.entries.Get(id)
}

// Put records a live entry. It refuses to replace an existing one and
// reports false in that case, leaving the old entry in place.
func (r *Registry) Put(e Entry) bool {
	if r.entries.Has(e.ID) {
		return false
	}
	r.entries.Set(e.ID, e)
	return true
}

// Remove deletes and returns the entry for id.
func (r *Registry) Remove(id replay.ActorID) (Entry, bool) {
	e, ok := r.entries.Get(id)
	if ok {
		r.entries.Remove(id)
	}
	return e, ok
}

func (r *Registry) Len() int {
	return r.entries.Len()
}

// IDs returns the registered actor ids in ascending order.
func (r *Registry) IDs() []replay.ActorID {
	ids := make([]replay.ActorID, 0, r.entries.Len())
	r.entries.Each(func(id replay.ActorID, _ Entry) {
		ids = append(ids, id)
	})
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Drain removes every entry, handing each to fn in id order.
func (r *Registry) Drain(fn func(Entry)) {
	for _, id := range r.IDs() {
		e, _ := r.entries.Get(id)
		r.entries.Remove(id)
		if fn != nil {
			fn(e)
		}
	}
}
