package system

import (
	"time"

	coresys "github.com/danielsamuels/Rocket-League-Replays/internal/core/system"
	"github.com/danielsamuels/Rocket-League-Replays/internal/playback"
	"github.com/danielsamuels/Rocket-League-Replays/internal/present"
	"go.uber.org/zap"
)

// InputSystem drains viewer commands and applies seeks to the cursor.
// Phase 1 (Input). A rejected seek is logged and otherwise ignored.
type InputSystem struct {
	commands   <-chan present.Command
	player     *playback.Player
	maxPerTick int
	log        *zap.Logger
}

func NewInputSystem(commands <-chan present.Command, player *playback.Player, maxPerTick int, log *zap.Logger) *InputSystem {
	if maxPerTick <= 0 {
		maxPerTick = 16
	}
	return &InputSystem{commands: commands, player: player, maxPerTick: maxPerTick, log: log}
}

func (s *InputSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *InputSystem) Update(_ time.Duration) error {
	for i := 0; i < s.maxPerTick; i++ {
		select {
		case cmd := <-s.commands:
			s.handle(cmd)
		default:
			return nil
		}
	}
	return nil
}

func (s *InputSystem) handle(cmd present.Command) {
	switch cmd.Op {
	case present.OpSeek:
		if err := s.player.Seek(cmd.Frame); err != nil {
			s.log.Warn("seek rejected",
				zap.String("viewer", cmd.Client.String()), zap.Int("frame", cmd.Frame), zap.Error(err))
			return
		}
		s.log.Debug("seek", zap.String("viewer", cmd.Client.String()), zap.Int("frame", cmd.Frame))
	default:
		s.log.Debug("ignoring command", zap.String("op", cmd.Op))
	}
}
