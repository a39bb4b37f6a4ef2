package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "replayview.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadLayersOverDefaults(t *testing.T) {
	path := writeConfig(t, `
[playback]
tick_rate = "33ms"
autoplay = false

[source]
kind = "file"
path = "replays/final.json"

[logging]
level = "debug"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Playback.TickRate != 33*time.Millisecond || cfg.Playback.Autoplay {
		t.Errorf("playback = %+v", cfg.Playback)
	}
	if cfg.Playback.RecordFPS != 30 {
		t.Errorf("record_fps default lost: %v", cfg.Playback.RecordFPS)
	}
	if cfg.Source.Kind != SourceFile || cfg.Source.Path != "replays/final.json" {
		t.Errorf("source = %+v", cfg.Source)
	}
	if cfg.Presentation.BindAddress != "127.0.0.1:7400" {
		t.Errorf("presentation default lost: %+v", cfg.Presentation)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	if cfg.Server.StartTime == 0 {
		t.Error("start time not set")
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown kind", "[source]\nkind = \"ftp\"\n", "unknown source.kind"},
		{"file without path", "[source]\nkind = \"file\"\n", "source.path"},
		{"catalog without db", "[source]\nkind = \"catalog\"\nreplay_id = \"x\"\n", "database.enabled"},
		{"zero fps", "[playback]\nrecord_fps = 0.0\n", "record_fps"},
		{"bad toml", "[playback\n", "parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "none.toml")); err == nil {
		t.Fatal("expected error")
	}
}
