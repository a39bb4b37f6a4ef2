package system

import "time"

// Phase defines execution ordering within a single playback tick.
type Phase int

const (
	PhaseLoad    Phase = iota // 0: adopt a finished dataset load
	PhaseInput                // 1: drain viewer seek commands
	PhaseEvents               // 2: dispatch last tick's events
	PhaseSync                 // 3: entity removal, creation, transform update
	PhaseDerive               // 4: overlay recomputation for the same frame
	PhaseOutput               // 5: publish view state
	PhaseAdvance              // 6: move the cursor for the next tick
)

func (p Phase) String() string {
	switch p {
	case PhaseLoad:
		return "load"
	case PhaseInput:
		return "input"
	case PhaseEvents:
		return "events"
	case PhaseSync:
		return "sync"
	case PhaseDerive:
		return "derive"
	case PhaseOutput:
		return "output"
	case PhaseAdvance:
		return "advance"
	}
	return "unknown"
}

// System is one step of the tick. Update must not block; a returned error
// is fatal to the playback loop.
type System interface {
	Phase() Phase
	Update(dt time.Duration) error
}
