package derive

import (
	"testing"

	"github.com/danielsamuels/Rocket-League-Replays/internal/replay"
)

func mustDecode(t *testing.T, doc string) *replay.Dataset {
	t.Helper()
	ds, err := replay.Decode([]byte(doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return ds
}

func TestPercentOfRaw(t *testing.T) {
	tests := []struct {
		raw  int
		want int
	}{
		{0, 0},
		{1, 1},
		{128, 51},
		{255, 100},
		{51, 20},
	}
	for _, tt := range tests {
		if got := PercentOfRaw(tt.raw); got != tt.want {
			t.Errorf("PercentOfRaw(%d) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestBoostPercentAndSlot(t *testing.T) {
	ds := mustDecode(t, `{
		"boost": {"values": {"9": {"4": 128}}, "actors": {"9": 3}, "actor_to_car": {"3": 1}}
	}`)
	if v, ok := BoostPercent(ds, 9, 4); !ok || v != 51 {
		t.Errorf("BoostPercent(9,4) = %d, %v", v, ok)
	}
	if _, ok := BoostPercent(ds, 9, 5); ok {
		t.Error("missing frame should be unknown")
	}
	if _, ok := BoostPercent(ds, 1, 4); ok {
		t.Error("missing pad should be unknown")
	}
	if slot, ok := BoostSlot(ds, 9); !ok || slot != 1 {
		t.Errorf("BoostSlot(9) = %d, %v", slot, ok)
	}
	if _, ok := BoostSlot(ds, 2); ok {
		t.Error("unknown pad should have no slot")
	}
}

func TestScore(t *testing.T) {
	ds := mustDecode(t, `{"goals": [{"frame": 5, "team": 0}, {"frame": 9, "team": 1}, {"frame": 12, "team": 0}]}`)
	tests := []struct {
		team, frame, want int
	}{
		{0, 4, 0},
		{0, 5, 1},
		{0, 11, 1},
		{0, 100, 2},
		{1, 8, 0},
		{1, 9, 1},
	}
	for _, tt := range tests {
		if got := Score(ds, tt.team, tt.frame); got != tt.want {
			t.Errorf("Score(%d, %d) = %d, want %d", tt.team, tt.frame, got, tt.want)
		}
	}

	for team := 0; team < 2; team++ {
		prev := 0
		for f := 0; f < 20; f++ {
			s := Score(ds, team, f)
			if s < prev {
				t.Fatalf("score for team %d decreased at frame %d", team, f)
			}
			prev = s
		}
	}
}

func TestSingleGoalScenario(t *testing.T) {
	ds := mustDecode(t, `{"goals": [{"frame": 5, "team": 0}]}`)
	if Score(ds, 0, 4) != 0 || Score(ds, 0, 5) != 1 || Score(ds, 0, 100) != 1 {
		t.Error("single goal scenario failed")
	}
}

func TestProgressAndSeconds(t *testing.T) {
	ds := mustDecode(t, `{"frame_data": [{}, {}, {}, {}], "seconds_mapping": {"2": 61.7}}`)
	if got := Progress(ds, 0); got != 0 {
		t.Errorf("Progress(0) = %v", got)
	}
	if got := Progress(ds, 2); got != 0.5 {
		t.Errorf("Progress(2) = %v", got)
	}
	if got := Progress(ds, 9); got != 1 {
		t.Errorf("Progress(9) = %v, want clamp to 1", got)
	}
	if s, ok := ElapsedSeconds(ds, 2); !ok || s != 61.7 {
		t.Errorf("ElapsedSeconds(2) = %v, %v", s, ok)
	}
	if _, ok := ElapsedSeconds(ds, 1); ok {
		t.Error("frame 1 has no seconds")
	}

	empty := mustDecode(t, `{}`)
	if Progress(empty, 3) != 0 {
		t.Error("empty dataset progress should be 0")
	}
}

func TestClockFormatting(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0:00"},
		{59.9, "0:59"},
		{61.7, "1:01"},
		{300, "5:00"},
		{-3, "0:00"},
	}
	for _, tt := range tests {
		if got := FormatClock(tt.in); got != tt.want {
			t.Errorf("FormatClock(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got := MatchLength(9000, 30); got != "5:00" {
		t.Errorf("MatchLength = %q", got)
	}
	if got := MatchLength(9000, 0); got != "N/A" {
		t.Errorf("MatchLength without fps = %q", got)
	}
}

func TestGoalMarkers(t *testing.T) {
	ds := mustDecode(t, `{"frame_data": [{}, {}, {}, {}], "goals": [{"frame": 2, "team": 1}]}`)
	markers := GoalMarkers(ds, 1)
	if len(markers) != 1 {
		t.Fatalf("markers = %v", markers)
	}
	m := markers[0]
	if m.Team != 1 || m.Progress != 0.5 || m.Clock != "0:02" {
		t.Errorf("marker = %+v", m)
	}
}

func TestGoalClock(t *testing.T) {
	g := replay.Goal{Frame: 1830, Team: 0}
	if got := GoalClock(g, 30); got != "1:01" {
		t.Errorf("GoalClock = %q", got)
	}
	if got := GoalClock(g, 0); got != "N/A" {
		t.Errorf("GoalClock without fps = %q", got)
	}
}
