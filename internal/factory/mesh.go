package factory

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/danielsamuels/Rocket-League-Replays/internal/data"
	"github.com/danielsamuels/Rocket-League-Replays/internal/present"
	"github.com/danielsamuels/Rocket-League-Replays/internal/replay"
	"go.uber.org/zap"
)

var (
	ErrNoModel = errors.New("no model for kind")
	ErrClosed  = errors.New("factory closed")
)

// MeshFactory loads mesh assets off the tick goroutine and adds the finished
// node to the surface. At most `workers` builds run at once; callers never
// block.
type MeshFactory struct {
	models  *data.ModelTable
	meshDir string
	surface present.Surface
	sem     chan struct{}
	log     *zap.Logger

	mu     sync.Mutex
	meshes map[string]int // mesh path → byte size, filled on first read
	closed bool
	wg     sync.WaitGroup
}

func NewMeshFactory(models *data.ModelTable, meshDir string, surface present.Surface, workers int, log *zap.Logger) *MeshFactory {
	if workers < 1 {
		workers = 1
	}
	return &MeshFactory{
		models:  models,
		meshDir: meshDir,
		surface: surface,
		sem:     make(chan struct{}, workers),
		log:     log,
		meshes:  make(map[string]int),
	}
}

func (f *MeshFactory) CreateCar(name string, _ replay.ActorState, done Done) {
	f.submit(replay.KindPlayer, name, done)
}

func (f *MeshFactory) CreateBall(name string, _ replay.ActorState, done Done) {
	f.submit(replay.KindBall, name, done)
}

// Close waits for in-flight builds. Later requests fail with ErrClosed.
func (f *MeshFactory) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	f.wg.Wait()
}

func (f *MeshFactory) submit(kind replay.Kind, name string, done Done) {
	model := f.models.Get(string(kind))
	if model == nil {
		done(Result{Err: fmt.Errorf("%w: %s", ErrNoModel, kind)})
		return
	}
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		done(Result{Err: ErrClosed})
		return
	}
	f.wg.Add(1)
	f.mu.Unlock()

	go func() {
		defer f.wg.Done()
		f.sem <- struct{}{}
		defer func() { <-f.sem }()
		done(f.build(name, *model))
	}()
}

func (f *MeshFactory) build(name string, model data.ModelEntry) Result {
	size, err := f.loadMesh(model.Mesh)
	if err != nil {
		return Result{Err: err}
	}
	h := f.surface.Add(name, present.Model{
		Kind:  model.Kind,
		Mesh:  model.Mesh,
		Color: model.Color,
		Scale: model.Scale,
		Bytes: size,
	})
	f.log.Debug("entity built", zap.String("name", name), zap.String("mesh", model.Mesh), zap.Stringer("handle", h))
	return Result{Handle: h}
}

// loadMesh reads a mesh asset once and remembers its size. An empty path is
// a built-in primitive with no asset.
func (f *MeshFactory) loadMesh(mesh string) (int, error) {
	if mesh == "" {
		return 0, nil
	}
	f.mu.Lock()
	size, ok := f.meshes[mesh]
	f.mu.Unlock()
	if ok {
		return size, nil
	}
	raw, err := os.ReadFile(filepath.Join(f.meshDir, mesh))
	if err != nil {
		return 0, fmt.Errorf("load mesh %s: %w", mesh, err)
	}
	f.mu.Lock()
	f.meshes[mesh] = len(raw)
	f.mu.Unlock()
	return len(raw), nil
}
