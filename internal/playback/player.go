// Package playback owns the playback cursor and the per-replay state driven
// by it. A Player is created once by main and touched only by the tick
// goroutine.
package playback

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/danielsamuels/Rocket-League-Replays/internal/core/ecs"
	"github.com/danielsamuels/Rocket-League-Replays/internal/core/event"
	"github.com/danielsamuels/Rocket-League-Replays/internal/factory"
	"github.com/danielsamuels/Rocket-League-Replays/internal/framesync"
	"github.com/danielsamuels/Rocket-League-Replays/internal/overlay"
	"github.com/danielsamuels/Rocket-League-Replays/internal/present"
	"github.com/danielsamuels/Rocket-League-Replays/internal/replay"
)

// Options carries the Player settings taken from config.
type Options struct {
	RecordFPS float64
	Plane     float64
}

// Status is the read-only summary served on /status.
type Status struct {
	Source   string          `json:"source"`
	Loaded   bool            `json:"loaded"`
	Frame    int             `json:"frame"`
	MaxFrame int             `json:"max_frame"`
	Entities int             `json:"entities"`
	Pending  int             `json:"pending"`
	Sync     framesync.Stats `json:"sync"`
}

type Player struct {
	cursor   *Cursor
	dataset  *replay.Dataset
	source   string
	registry *ecs.Registry
	sync     *framesync.Synchronizer
	overlay  *overlay.Overlay
	bus      *event.Bus
	fps      float64
	log      *zap.Logger

	published atomic.Pointer[Status]
}

func NewPlayer(f factory.Factory, surface present.Surface, ov *overlay.Overlay, bus *event.Bus, opts Options, log *zap.Logger) *Player {
	if opts.RecordFPS <= 0 {
		opts.RecordFPS = 30
	}
	p := &Player{
		cursor:   NewCursor(),
		registry: ecs.NewRegistry(),
		overlay:  ov,
		bus:      bus,
		fps:      opts.RecordFPS,
		log:      log,
	}
	p.sync = framesync.New(f, surface, log,
		framesync.WithBus(bus),
		framesync.WithPlane(opts.Plane),
		framesync.WithDetach(p.detach),
	)
	p.publish()
	return p
}

// detach drops the boost bar of a car leaving the scene.
func (p *Player) detach(id replay.ActorID) {
	if p.dataset == nil {
		return
	}
	if slot, ok := p.dataset.CarIndex(id); ok {
		p.overlay.RemoveBoost(slot)
	}
}

// Load adopts ds and moves the cursor to Ready. The first frame is applied
// on the next Step.
func (p *Player) Load(ds *replay.Dataset, source string, startFrame int) error {
	if err := p.cursor.Ready(ds.MaxFrame(), startFrame); err != nil {
		return err
	}
	p.dataset = ds
	p.source = source
	p.overlay.Init(ds, p.fps)
	event.Emit(p.bus, event.ReplayLoaded{Source: source, MaxFrame: ds.MaxFrame()})
	p.publish()
	p.log.Info("replay loaded",
		zap.String("source", source),
		zap.Int("frames", ds.MaxFrame()),
		zap.Int("start", p.cursor.Current()),
	)
	return nil
}

// Unload removes every node and returns to the Unloaded state.
func (p *Player) Unload() {
	if !p.cursor.Loaded() {
		return
	}
	p.sync.Reset(p.registry)
	p.overlay.Reset()
	p.cursor.Unload()
	p.dataset = nil
	p.source = ""
	event.Emit(p.bus, event.ReplayUnloaded{})
	p.publish()
}

// Loaded reports whether a dataset is adopted.
func (p *Player) Loaded() bool { return p.cursor.Loaded() }

// Seek moves the cursor; the frame is applied on the next Step.
func (p *Player) Seek(f int) error { return p.cursor.Seek(f) }

// Step synchronizes the surface with the current frame. It does nothing
// before a dataset is loaded.
func (p *Player) Step() error {
	if !p.cursor.Loaded() {
		return nil
	}
	err := p.sync.Sync(p.cursor.Current(), p.dataset, p.registry)
	p.publish()
	return err
}

// Derive refreshes the overlay for the current frame and announces score
// increases.
func (p *Player) Derive() {
	if !p.cursor.Loaded() {
		return
	}
	f := p.cursor.Current()
	for _, c := range p.overlay.Update(p.dataset, f) {
		if c.To > c.From {
			event.Emit(p.bus, event.GoalScored{Team: c.Team, Score: c.To, Frame: f})
		}
	}
}

// Advance moves to the next frame and reports whether it moved.
func (p *Player) Advance() bool { return p.cursor.Advance() }

// AtEnd reports whether the last frame is selected.
func (p *Player) AtEnd() bool { return p.cursor.AtEnd() }

// Frame is the current frame, -1 when unloaded.
func (p *Player) Frame() int { return p.cursor.Current() }

// MaxFrame is the frame count of the loaded replay.
func (p *Player) MaxFrame() int { return p.cursor.Max() }

// Registry exposes the live entries, read by tests and the output phase.
func (p *Player) Registry() *ecs.Registry { return p.registry }

// Overlay returns the overlay driven by this player.
func (p *Player) Overlay() *overlay.Overlay { return p.overlay }

// Status builds the summary. Tick goroutine only; other goroutines read
// PublishedStatus.
func (p *Player) Status() Status {
	return Status{
		Source:   p.source,
		Loaded:   p.cursor.Loaded(),
		Frame:    p.cursor.Current(),
		MaxFrame: p.cursor.Max(),
		Entities: p.registry.Len(),
		Pending:  p.sync.PendingCount(),
		Sync:     p.sync.Stats(),
	}
}

func (p *Player) publish() {
	s := p.Status()
	p.published.Store(&s)
}

// PublishedStatus returns the summary as of the last Load, Unload or Step.
// Safe for concurrent use.
func (p *Player) PublishedStatus() Status {
	return *p.published.Load()
}
