package system

import (
	"time"

	coresys "github.com/danielsamuels/Rocket-League-Replays/internal/core/system"
	"github.com/danielsamuels/Rocket-League-Replays/internal/playback"
	"go.uber.org/zap"
)

// LoadSystem adopts the dataset once the background load finishes.
// Phase 0 (Load). A failed load leaves the player Unloaded.
type LoadSystem struct {
	results    <-chan playback.LoadResult
	player     *playback.Player
	startFrame int
	log        *zap.Logger
}

func NewLoadSystem(results <-chan playback.LoadResult, player *playback.Player, startFrame int, log *zap.Logger) *LoadSystem {
	return &LoadSystem{results: results, player: player, startFrame: startFrame, log: log}
}

func (s *LoadSystem) Phase() coresys.Phase { return coresys.PhaseLoad }

func (s *LoadSystem) Update(_ time.Duration) error {
	if s.results == nil {
		return nil
	}
	select {
	case res := <-s.results:
		s.results = nil
		if res.Err != nil {
			s.log.Error("replay load failed", zap.String("source", res.Source), zap.Error(res.Err))
			return nil
		}
		if err := s.player.Load(res.Dataset, res.Source, s.startFrame); err != nil {
			s.log.Error("replay not adopted", zap.String("source", res.Source), zap.Error(err))
		}
	default:
	}
	return nil
}

// SyncSystem applies the current frame to the scene. Phase 3 (Sync).
type SyncSystem struct {
	player *playback.Player
}

func NewSyncSystem(player *playback.Player) *SyncSystem {
	return &SyncSystem{player: player}
}

func (s *SyncSystem) Phase() coresys.Phase { return coresys.PhaseSync }

func (s *SyncSystem) Update(_ time.Duration) error {
	return s.player.Step()
}

// OverlaySystem recomputes the overlay for the frame just synchronized.
// Phase 4 (Derive).
type OverlaySystem struct {
	player *playback.Player
}

func NewOverlaySystem(player *playback.Player) *OverlaySystem {
	return &OverlaySystem{player: player}
}

func (s *OverlaySystem) Phase() coresys.Phase { return coresys.PhaseDerive }

func (s *OverlaySystem) Update(_ time.Duration) error {
	s.player.Derive()
	return nil
}

// AdvanceSystem moves the cursor one frame per tick while autoplay is on.
// Phase 6 (Advance).
type AdvanceSystem struct {
	player   *playback.Player
	autoplay bool
	ended    bool
	log      *zap.Logger
}

func NewAdvanceSystem(player *playback.Player, autoplay bool, log *zap.Logger) *AdvanceSystem {
	return &AdvanceSystem{player: player, autoplay: autoplay, log: log}
}

func (s *AdvanceSystem) Phase() coresys.Phase { return coresys.PhaseAdvance }

func (s *AdvanceSystem) Update(_ time.Duration) error {
	if !s.autoplay || !s.player.Loaded() {
		return nil
	}
	if s.player.Advance() {
		s.ended = false
		return nil
	}
	if !s.ended && s.player.AtEnd() {
		s.ended = true
		s.log.Info("playback reached last frame", zap.Int("frame", s.player.Frame()))
	}
	return nil
}
