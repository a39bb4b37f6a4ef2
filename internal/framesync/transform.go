package framesync

import (
	"math"

	"github.com/danielsamuels/Rocket-League-Replays/internal/present"
	"github.com/danielsamuels/Rocket-League-Replays/internal/replay"
)

const (
	// groundHeight is the resting height of a car; it maps to scale 1.
	groundHeight = 18
	// ceilingHeight is the arena ceiling; it maps to scale 3.75.
	ceilingHeight = 2048
	heightGain    = 2.75
)

// ScaleFactor grows a node with its height so a top-down view conveys
// altitude. Not clamped.
func ScaleFactor(z float64) float64 {
	return 1 + heightGain*(z-groundHeight)/ceilingHeight
}

// Heading converts a normalised pitch to the on-screen yaw in radians.
func Heading(pitch float64) float64 {
	return math.Pi/2 - pitch*math.Pi
}

// Transform is the full visual state derived from one ActorState.
type Transform struct {
	Position present.Vec3
	Scale    float64
	Rotation present.Euler
}

// TransformOf maps an actor onto the scene. The first axis is mirrored and
// every node sits on the plane z = plane.
func TransformOf(a replay.ActorState, plane float64) Transform {
	return Transform{
		Position: present.Vec3{X: -a.X, Y: a.Y, Z: plane},
		Scale:    ScaleFactor(a.Z),
		Rotation: present.Euler{Z: Heading(a.Pitch)},
	}
}

func apply(s present.Surface, h present.Handle, t Transform) {
	s.SetPosition(h, t.Position)
	s.SetScale(h, t.Scale)
	s.SetRotation(h, t.Rotation)
}
