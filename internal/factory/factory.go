// Package factory builds renderable nodes for newly appearing actors.
package factory

import (
	"fmt"

	"github.com/danielsamuels/Rocket-League-Replays/internal/present"
	"github.com/danielsamuels/Rocket-League-Replays/internal/replay"
)

// Result reports the outcome of one creation request. A zero Handle with a
// nil Err means the node was registered on the surface under its name only.
type Result struct {
	Handle present.Handle
	Err    error
}

// Done receives a creation result exactly once, from any goroutine.
type Done func(Result)

// Factory constructs nodes. Calls return immediately; completion is
// reported through done.
type Factory interface {
	CreateCar(name string, state replay.ActorState, done Done)
	CreateBall(name string, state replay.ActorState, done Done)
}

// EntityName is the logical scene name of an actor.
func EntityName(kind replay.Kind, id replay.ActorID) string {
	switch kind {
	case replay.KindPlayer:
		return fmt.Sprintf("car-%d", id)
	case replay.KindBall:
		return fmt.Sprintf("ball-%d", id)
	}
	return fmt.Sprintf("%s-%d", kind, id)
}
