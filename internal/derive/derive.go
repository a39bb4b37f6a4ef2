// Package derive computes overlay values purely from a dataset and a frame
// index. Nothing here keeps state between calls.
package derive

import (
	"fmt"
	"math"

	"github.com/danielsamuels/Rocket-League-Replays/internal/replay"
)

// RawBoostMax is the replay's full-tank boost amount.
const RawBoostMax = 255

// ElapsedSeconds returns the recorded match clock at frame f.
func ElapsedSeconds(ds *replay.Dataset, f int) (float64, bool) {
	return ds.Seconds(f)
}

// BoostPercent converts a pad's raw amount at frame f to a whole percentage,
// rounding up.
func BoostPercent(ds *replay.Dataset, pad replay.PadID, f int) (int, bool) {
	raw, ok := ds.BoostValue(pad, f)
	if !ok {
		return 0, false
	}
	return PercentOfRaw(raw), true
}

// PercentOfRaw is ceil(raw * 100 / 255).
func PercentOfRaw(raw int) int {
	return int(math.Ceil(float64(raw) * 100 / RawBoostMax))
}

// BoostSlot resolves the UI slot of the car owning pad.
func BoostSlot(ds *replay.Dataset, pad replay.PadID) (int, bool) {
	owner, ok := ds.BoostOwner(pad)
	if !ok {
		return 0, false
	}
	return ds.CarIndex(owner)
}

// Score counts goals for team up to and including frame f.
func Score(ds *replay.Dataset, team, f int) int {
	n := 0
	for _, g := range ds.Goals() {
		if g.Frame <= f && g.Team == team {
			n++
		}
	}
	return n
}

// Progress is f / maxFrame, clamped to [0, 1].
func Progress(ds *replay.Dataset, f int) float64 {
	n := ds.MaxFrame()
	if n <= 0 {
		return 0
	}
	r := float64(f) / float64(n)
	switch {
	case r < 0:
		return 0
	case r > 1:
		return 1
	}
	return r
}

// FormatClock renders seconds as m:ss, truncating fractions.
func FormatClock(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// MatchLength is the replay duration at the recording frame rate.
func MatchLength(maxFrame int, fps float64) string {
	if maxFrame <= 0 || fps <= 0 {
		return "N/A"
	}
	return FormatClock(float64(maxFrame) / fps)
}

// GoalClock is the match time of a goal at the recording frame rate.
func GoalClock(g replay.Goal, fps float64) string {
	if fps <= 0 {
		return "N/A"
	}
	return FormatClock(float64(g.Frame) / fps)
}

// GoalMarker places a goal on the progress bar.
type GoalMarker struct {
	Team     int     `json:"team"`
	Frame    int     `json:"frame"`
	Progress float64 `json:"progress"`
	Clock    string  `json:"clock"`
}

// GoalMarkers lists every goal with its bar position and clock label.
func GoalMarkers(ds *replay.Dataset, fps float64) []GoalMarker {
	goals := ds.Goals()
	out := make([]GoalMarker, 0, len(goals))
	for _, g := range goals {
		out = append(out, GoalMarker{
			Team:     g.Team,
			Frame:    g.Frame,
			Progress: Progress(ds, g.Frame),
			Clock:    GoalClock(g, fps),
		})
	}
	return out
}
