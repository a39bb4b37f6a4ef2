package event

import (
	"github.com/danielsamuels/Rocket-League-Replays/internal/present"
	"github.com/danielsamuels/Rocket-League-Replays/internal/replay"
)

// ReplayLoaded fires once when a dataset is adopted by the player.
type ReplayLoaded struct {
	Source   string
	MaxFrame int
}

// ReplayUnloaded fires when the player is reset.
type ReplayUnloaded struct{}

// EntitySpawned fires when a created node is registered for an actor.
type EntitySpawned struct {
	Actor  replay.ActorID
	Kind   replay.Kind
	Handle present.Handle
	Frame  int
}

// EntityDespawned fires when the removal pass drops an actor.
type EntityDespawned struct {
	Actor replay.ActorID
	Frame int
}

// EntityReaped fires when a creation completes after its actor's lifetime
// ended and the fresh node is discarded instead of registered.
type EntityReaped struct {
	Actor replay.ActorID
	Frame int
}

// CreationFailed fires when the factory reports an error.
type CreationFailed struct {
	Actor replay.ActorID
	Kind  replay.Kind
	Err   error
}

// GoalScored fires when the displayed score of a team increases.
type GoalScored struct {
	Team  int
	Score int
	Frame int
}
