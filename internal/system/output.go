package system

import (
	"time"

	coresys "github.com/danielsamuels/Rocket-League-Replays/internal/core/system"
	"github.com/danielsamuels/Rocket-League-Replays/internal/overlay"
	"github.com/danielsamuels/Rocket-League-Replays/internal/playback"
	"github.com/danielsamuels/Rocket-League-Replays/internal/present"
	"go.uber.org/zap"
)

// Broadcaster is the viewer fan-out. *present.Hub implements it.
type Broadcaster interface {
	ClientCount() int
	Broadcast(v any) error
}

// View is the per-tick message sent to viewers.
type View struct {
	Type     string         `json:"type"`
	Frame    int            `json:"frame"`
	MaxFrame int            `json:"max_frame"`
	Nodes    []present.Node `json:"nodes"`
	Overlay  overlay.State  `json:"overlay"`
}

// OutputSystem publishes the scene and overlay after every synchronized
// frame. Phase 5 (Output). Nothing is encoded when no viewer is connected.
type OutputSystem struct {
	out    Broadcaster
	scene  *present.Scene
	player *playback.Player
	log    *zap.Logger
}

func NewOutputSystem(out Broadcaster, scene *present.Scene, player *playback.Player, log *zap.Logger) *OutputSystem {
	return &OutputSystem{out: out, scene: scene, player: player, log: log}
}

func (s *OutputSystem) Phase() coresys.Phase { return coresys.PhaseOutput }

func (s *OutputSystem) Update(_ time.Duration) error {
	if !s.player.Loaded() || s.out.ClientCount() == 0 {
		return nil
	}
	v := View{
		Type:     "view",
		Frame:    s.player.Frame(),
		MaxFrame: s.player.MaxFrame(),
		Nodes:    s.scene.Snapshot(),
		Overlay:  s.player.Overlay().Snapshot(),
	}
	if err := s.out.Broadcast(v); err != nil {
		s.log.Warn("broadcast failed", zap.Error(err))
	}
	return nil
}
