package event

import "testing"

func TestBusDoubleBuffer(t *testing.T) {
	b := NewBus()
	var got []int
	Subscribe(b, func(ev EntityDespawned) { got = append(got, int(ev.Actor)) })

	Emit(b, EntityDespawned{Actor: 1})
	Emit(b, EntityDespawned{Actor: 2})
	if b.Pending() != 2 {
		t.Fatalf("Pending = %d", b.Pending())
	}

	// Nothing is visible before the swap.
	b.DispatchAll()
	if len(got) != 0 {
		t.Fatalf("dispatched before swap: %v", got)
	}

	b.SwapBuffers()
	b.DispatchAll()
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("got %v", got)
	}

	// The next swap clears what was delivered.
	b.SwapBuffers()
	b.DispatchAll()
	if len(got) != 2 {
		t.Errorf("events redelivered: %v", got)
	}
}

func TestBusTypeIsolation(t *testing.T) {
	b := NewBus()
	spawned, goals := 0, 0
	Subscribe(b, func(EntitySpawned) { spawned++ })
	Subscribe(b, func(GoalScored) { goals++ })

	Emit(b, GoalScored{Team: 0, Score: 1})
	b.SwapBuffers()
	b.DispatchAll()
	if spawned != 0 || goals != 1 {
		t.Errorf("spawned=%d goals=%d", spawned, goals)
	}
}
