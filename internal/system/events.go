package system

import (
	"time"

	"github.com/danielsamuels/Rocket-League-Replays/internal/core/event"
	coresys "github.com/danielsamuels/Rocket-League-Replays/internal/core/system"
	"go.uber.org/zap"
)

// EventSystem delivers the events emitted during the previous tick.
// Phase 2 (Events).
type EventSystem struct {
	bus *event.Bus
}

func NewEventSystem(bus *event.Bus) *EventSystem {
	return &EventSystem{bus: bus}
}

func (s *EventSystem) Phase() coresys.Phase { return coresys.PhaseEvents }

func (s *EventSystem) Update(_ time.Duration) error {
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
	return nil
}

// RegisterJournal subscribes log writers for the playback events.
func RegisterJournal(bus *event.Bus, log *zap.Logger) {
	event.Subscribe(bus, func(e event.ReplayLoaded) {
		log.Info("playback ready", zap.String("source", e.Source), zap.Int("frames", e.MaxFrame))
	})
	event.Subscribe(bus, func(event.ReplayUnloaded) {
		log.Info("playback unloaded")
	})
	event.Subscribe(bus, func(e event.GoalScored) {
		log.Info("goal", zap.Int("team", e.Team), zap.Int("score", e.Score), zap.Int("frame", e.Frame))
	})
	event.Subscribe(bus, func(e event.EntitySpawned) {
		log.Debug("entity spawned",
			zap.Int("actor", int(e.Actor)), zap.String("kind", string(e.Kind)),
			zap.Stringer("handle", e.Handle), zap.Int("frame", e.Frame))
	})
	event.Subscribe(bus, func(e event.EntityReaped) {
		log.Debug("entity reaped", zap.Int("actor", int(e.Actor)), zap.Int("frame", e.Frame))
	})
}
