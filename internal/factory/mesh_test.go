package factory

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielsamuels/Rocket-League-Replays/internal/data"
	"github.com/danielsamuels/Rocket-League-Replays/internal/present"
	"github.com/danielsamuels/Rocket-League-Replays/internal/replay"
	"go.uber.org/zap"
)

func waitResult(t *testing.T, ch <-chan Result) Result {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("factory did not complete")
	}
	return Result{}
}

func newTestFactory(t *testing.T) (*MeshFactory, *present.Scene) {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "octane.obj"), []byte("v 0 0 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	models := data.NewModelTable([]data.ModelEntry{
		{Kind: "player", Mesh: "octane.obj", Scale: 2, Color: "#2196f3"},
		{Kind: "ball"},
	})
	scene := present.NewScene()
	f := NewMeshFactory(models, dir, scene, 2, zap.NewNop())
	t.Cleanup(f.Close)
	return f, scene
}

func TestMeshFactoryCreatesNodes(t *testing.T) {
	f, scene := newTestFactory(t)

	ch := make(chan Result, 2)
	f.CreateCar("car-1", replay.ActorState{ID: 1}, func(r Result) { ch <- r })
	f.CreateBall("ball-2", replay.ActorState{ID: 2}, func(r Result) { ch <- r })

	for i := 0; i < 2; i++ {
		r := waitResult(t, ch)
		if r.Err != nil || r.Handle.IsZero() {
			t.Fatalf("result = %+v", r)
		}
	}
	h, ok := scene.FindByName("car-1")
	if !ok {
		t.Fatal("car not on surface")
	}
	n, _ := scene.Node(h)
	if n.Model.Bytes != len("v 0 0 0\n") || n.Model.Color != "#2196f3" || n.Scale.X != 2 {
		t.Errorf("car node = %+v", n)
	}
	if _, ok := scene.FindByName("ball-2"); !ok {
		t.Error("ball not on surface")
	}
}

func TestMeshFactoryMissingAsset(t *testing.T) {
	models := data.NewModelTable([]data.ModelEntry{{Kind: "player", Mesh: "nope.obj"}})
	scene := present.NewScene()
	f := NewMeshFactory(models, t.TempDir(), scene, 1, zap.NewNop())
	defer f.Close()

	ch := make(chan Result, 1)
	f.CreateCar("car-1", replay.ActorState{}, func(r Result) { ch <- r })
	if r := waitResult(t, ch); r.Err == nil {
		t.Fatal("expected mesh load error")
	}
	if scene.Len() != 0 {
		t.Error("failed build left a node")
	}
}

func TestMeshFactoryNoModel(t *testing.T) {
	f := NewMeshFactory(data.NewModelTable(nil), "", present.NewScene(), 1, zap.NewNop())
	defer f.Close()

	var got Result
	f.CreateBall("ball-1", replay.ActorState{}, func(r Result) { got = r })
	if !errors.Is(got.Err, ErrNoModel) {
		t.Errorf("err = %v, want ErrNoModel", got.Err)
	}
}

func TestMeshFactoryClosed(t *testing.T) {
	f, _ := newTestFactory(t)
	f.Close()
	var got Result
	f.CreateCar("car-9", replay.ActorState{}, func(r Result) { got = r })
	if !errors.Is(got.Err, ErrClosed) {
		t.Errorf("err = %v, want ErrClosed", got.Err)
	}
}

func TestEntityName(t *testing.T) {
	if got := EntityName(replay.KindPlayer, 4); got != "car-4" {
		t.Errorf("player name = %q", got)
	}
	if got := EntityName(replay.KindBall, 1); got != "ball-1" {
		t.Errorf("ball name = %q", got)
	}
}
