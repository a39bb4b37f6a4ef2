// Package framesync applies one replay frame to the presentation surface:
// it removes actors whose lifetime ended, requests nodes for actors seen for
// the first time, and updates transforms of the rest.
package framesync

import (
	"errors"
	"fmt"
	"sync"

	"github.com/danielsamuels/Rocket-League-Replays/internal/core/ecs"
	"github.com/danielsamuels/Rocket-League-Replays/internal/core/event"
	"github.com/danielsamuels/Rocket-League-Replays/internal/factory"
	"github.com/danielsamuels/Rocket-League-Replays/internal/present"
	"github.com/danielsamuels/Rocket-League-Replays/internal/replay"
	"go.uber.org/zap"
)

// ErrFrameOutOfRange means the cursor points outside the dataset. This is a
// bug in the driving loop, not a data error.
var ErrFrameOutOfRange = errors.New("frame out of range")

// Stats counts synchronizer activity since construction or the last Reset.
type Stats struct {
	Requested  int `json:"requested"`
	Suppressed int `json:"suppressed"`
	Registered int `json:"registered"`
	Removed    int `json:"removed"`
	Reaped     int `json:"reaped"`
	Failed     int `json:"failed"`
	Unknown    int `json:"unknown_kind"`
}

// completion is a factory result waiting to be applied on the tick goroutine.
type completion struct {
	id     replay.ActorID
	kind   replay.Kind
	name   string
	epoch  uint64
	result factory.Result
}

// completionQueue is the only structure factory goroutines touch.
type completionQueue struct {
	mu    sync.Mutex
	items []completion
}

func (q *completionQueue) push(c completion) {
	q.mu.Lock()
	q.items = append(q.items, c)
	q.mu.Unlock()
}

func (q *completionQueue) drain() []completion {
	q.mu.Lock()
	items := q.items
	q.items = nil
	q.mu.Unlock()
	return items
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithBus publishes spawn/despawn events on b.
func WithBus(b *event.Bus) Option {
	return func(s *Synchronizer) { s.bus = b }
}

// WithDetach registers a hook run for every removed actor, used to drop the
// UI elements tied to it.
func WithDetach(fn func(replay.ActorID)) Option {
	return func(s *Synchronizer) { s.detach = fn }
}

// WithPlane sets the constant height every node is drawn at.
func WithPlane(z float64) Option {
	return func(s *Synchronizer) { s.plane = z }
}

// Synchronizer is owned by the tick goroutine. The pending set is the only
// guard against issuing two creation requests for one actor.
type Synchronizer struct {
	factory factory.Factory
	surface present.Surface
	bus     *event.Bus
	detach  func(replay.ActorID)
	plane   float64
	log     *zap.Logger

	pending *ecs.Store[replay.ActorID, replay.Kind]
	queue   completionQueue
	epoch   uint64
	stats   Stats
}

func New(f factory.Factory, surface present.Surface, log *zap.Logger, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		factory: f,
		surface: surface,
		log:     log,
		pending: ecs.NewStore[replay.ActorID, replay.Kind](16),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Stats returns a copy of the activity counters.
func (s *Synchronizer) Stats() Stats { return s.stats }

// Pending reports whether a creation request for id is in flight.
func (s *Synchronizer) Pending(id replay.ActorID) bool { return s.pending.Has(id) }

// PendingCount is the number of in-flight creation requests.
func (s *Synchronizer) PendingCount() int { return s.pending.Len() }

// Sync brings the surface in line with frame. Completed creations are
// applied before the removal pass and again after the creation pass, so a
// factory that finishes inline yields a live entry within the same call.
func (s *Synchronizer) Sync(frame int, ds *replay.Dataset, reg *ecs.Registry) error {
	if frame < 0 || frame >= ds.MaxFrame() {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrFrameOutOfRange, frame, ds.MaxFrame())
	}
	snap, ok := ds.Frame(frame)
	if !ok {
		return fmt.Errorf("%w: frame %d missing from dataset", ErrFrameOutOfRange, frame)
	}

	s.applyCompletions(frame, ds, reg, snap)
	s.removeExpired(frame, ds, reg)
	for i := range snap.Actors {
		s.syncActor(frame, ds, reg, snap.Actors[i])
	}
	s.applyCompletions(frame, ds, reg, snap)
	return nil
}

// Reset removes every live node and forgets in-flight requests. Completions
// of requests issued before the reset are discarded when they arrive.
func (s *Synchronizer) Reset(reg *ecs.Registry) {
	reg.Drain(func(e ecs.Entry) {
		s.surface.Remove(e.Handle)
		if s.detach != nil {
			s.detach(e.ID)
		}
	})
	s.pending.Clear()
	s.epoch++
	s.discardStale()
	s.stats = Stats{}
}

func (s *Synchronizer) removeExpired(frame int, ds *replay.Dataset, reg *ecs.Registry) {
	for _, id := range reg.IDs() {
		lt, ok := ds.Lifetime(id)
		if !ok || !lt.EndedBy(frame) {
			continue
		}
		e, _ := reg.Remove(id)
		s.surface.Remove(e.Handle)
		if s.detach != nil {
			s.detach(id)
		}
		s.stats.Removed++
		s.log.Debug("actor despawned", zap.Int("actor", int(id)), zap.Int("frame", frame))
		if s.bus != nil {
			event.Emit(s.bus, event.EntityDespawned{Actor: id, Frame: frame})
		}
	}
}

func (s *Synchronizer) syncActor(frame int, ds *replay.Dataset, reg *ecs.Registry, a replay.ActorState) {
	if a.Z < 0 {
		s.log.Warn("negative actor height",
			zap.Int("actor", int(a.ID)), zap.Int("frame", frame), zap.Float64("z", a.Z))
	}
	if lt, ok := ds.Lifetime(a.ID); ok && lt.EndedBy(frame) {
		return
	}
	if e, ok := reg.Get(a.ID); ok {
		apply(s.surface, e.Handle, TransformOf(a, s.plane))
		return
	}
	if s.pending.Has(a.ID) {
		s.stats.Suppressed++
		return
	}
	s.request(a)
}

func (s *Synchronizer) request(a replay.ActorState) {
	var create func(string, replay.ActorState, factory.Done)
	switch a.Kind {
	case replay.KindPlayer:
		create = s.factory.CreateCar
	case replay.KindBall:
		create = s.factory.CreateBall
	default:
		s.stats.Unknown++
		s.log.Warn("unknown actor kind, not creating",
			zap.Int("actor", int(a.ID)), zap.String("kind", string(a.Kind)))
		return
	}

	id, kind, epoch := a.ID, a.Kind, s.epoch
	name := factory.EntityName(kind, id)
	s.pending.Set(id, kind)
	s.stats.Requested++
	create(name, a, func(r factory.Result) {
		s.queue.push(completion{id: id, kind: kind, name: name, epoch: epoch, result: r})
	})
}

func (s *Synchronizer) applyCompletions(frame int, ds *replay.Dataset, reg *ecs.Registry, snap replay.FrameSnapshot) {
	for _, c := range s.queue.drain() {
		if c.epoch != s.epoch {
			s.discard(c)
			continue
		}
		s.pending.Remove(c.id)

		if c.result.Err != nil {
			s.stats.Failed++
			s.log.Warn("entity creation failed",
				zap.Int("actor", int(c.id)), zap.String("kind", string(c.kind)), zap.Error(c.result.Err))
			if s.bus != nil {
				event.Emit(s.bus, event.CreationFailed{Actor: c.id, Kind: c.kind, Err: c.result.Err})
			}
			continue
		}

		h := c.result.Handle
		if h.IsZero() {
			found, ok := s.surface.FindByName(c.name)
			if !ok {
				s.stats.Failed++
				s.log.Warn("created entity not found on surface", zap.String("name", c.name))
				continue
			}
			h = found
		}

		// The lifetime may have ended while the factory was working.
		if lt, ok := ds.Lifetime(c.id); ok && lt.EndedBy(frame) {
			s.surface.Remove(h)
			s.stats.Reaped++
			s.log.Debug("discarding late entity", zap.Int("actor", int(c.id)), zap.Int("frame", frame))
			if s.bus != nil {
				event.Emit(s.bus, event.EntityReaped{Actor: c.id, Frame: frame})
			}
			continue
		}

		if !reg.Put(ecs.Entry{ID: c.id, Kind: c.kind, Name: c.name, Handle: h}) {
			s.surface.Remove(h)
			s.log.Warn("duplicate entity for actor, dropping new node", zap.Int("actor", int(c.id)))
			continue
		}
		s.stats.Registered++
		if s.bus != nil {
			event.Emit(s.bus, event.EntitySpawned{Actor: c.id, Kind: c.kind, Handle: h, Frame: frame})
		}
		if a, ok := findActor(snap, c.id); ok {
			apply(s.surface, h, TransformOf(a, s.plane))
		}
	}
}

func (s *Synchronizer) discardStale() {
	for _, c := range s.queue.drain() {
		s.discard(c)
	}
}

// discard removes the node of a completion issued before the last Reset.
// Name-only results are left alone; the name may already belong to a newer node.
func (s *Synchronizer) discard(c completion) {
	if c.result.Err != nil || c.result.Handle.IsZero() {
		return
	}
	s.surface.Remove(c.result.Handle)
}

func findActor(snap replay.FrameSnapshot, id replay.ActorID) (replay.ActorState, bool) {
	for _, a := range snap.Actors {
		if a.ID == id {
			return a, true
		}
	}
	return replay.ActorState{}, false
}
