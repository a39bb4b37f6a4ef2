package present

// Vec3 is a position in scene space.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Euler is a rotation in radians about each scene axis.
type Euler struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Model describes what a node draws. Produced by the entity factory.
type Model struct {
	Kind  string  `json:"kind"`
	Mesh  string  `json:"mesh"`
	Color string  `json:"color,omitempty"`
	Scale float64 `json:"base_scale"`
	Bytes int     `json:"bytes"`
}

// Surface is the scene the playback engine drives. Mutators taking a stale
// handle are ignored.
type Surface interface {
	FindByName(name string) (Handle, bool)
	Add(name string, m Model) Handle
	Remove(h Handle) bool
	SetPosition(h Handle, p Vec3)
	SetScale(h Handle, s float64)
	SetRotation(h Handle, r Euler)
}
