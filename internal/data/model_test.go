package data

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadModelTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model_list.yaml")
	doc := `models:
  - kind: player
    mesh: octane.obj
    scale: 1.5
    color: "#2196f3"
  - kind: ball
    mesh: ""
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	table, err := LoadModelTable(path)
	if err != nil {
		t.Fatalf("LoadModelTable: %v", err)
	}
	if table.Count() != 2 {
		t.Fatalf("Count = %d", table.Count())
	}
	car := table.Get("player")
	if car == nil || car.Mesh != "octane.obj" || car.Scale != 1.5 || car.Color != "#2196f3" {
		t.Errorf("player = %+v", car)
	}
	ball := table.Get("ball")
	if ball == nil || ball.Scale != 1 {
		t.Errorf("ball = %+v, want default scale 1", ball)
	}
	if table.Get("boostpad") != nil {
		t.Error("unexpected model for boostpad")
	}
}

func TestLoadModelTableErrors(t *testing.T) {
	if _, err := LoadModelTable(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected read error")
	}
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("models: [\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadModelTable(path); err == nil {
		t.Error("expected parse error")
	}
}
