// Package overlay holds the UI values shown over the scene: match clock,
// team scores, per-car boost bars and the progress bar. Every Update is a
// pure projection of (dataset, frame); values with no data for the frame
// keep whatever was last written.
package overlay

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/danielsamuels/Rocket-League-Replays/internal/derive"
	"github.com/danielsamuels/Rocket-League-Replays/internal/replay"
)

// Formatter renders labels. The Lua engine implements it.
type Formatter interface {
	FormatTimer(seconds float64) string
	FormatBoost(percent int) string
}

type plainFormatter struct{}

func (plainFormatter) FormatTimer(s float64) string { return derive.FormatClock(s) }
func (plainFormatter) FormatBoost(p int) string     { return fmt.Sprintf("%d", p) }

// TeamScore is one score counter.
type TeamScore struct {
	Team  int    `json:"team"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// BoostBar is the fill element of one car.
type BoostBar struct {
	Slot     int    `json:"slot"`
	WidthPct int    `json:"width_pct"`
	Label    string `json:"label"`
}

// State is a copy of everything the overlay shows.
type State struct {
	Timer       string              `json:"timer"`
	Teams       [2]TeamScore        `json:"teams"`
	Boost       []BoostBar          `json:"boost"`
	ProgressPct float64             `json:"progress_pct"`
	Goals       []derive.GoalMarker `json:"goals"`
	MatchLength string              `json:"match_length"`
}

// ScoreChange reports a counter that moved during an Update.
type ScoreChange struct {
	Team int
	From int
	To   int
}

var defaultTeamNames = [2]string{"Blue", "Orange"}

// Overlay is owned by the tick goroutine.
type Overlay struct {
	format      Formatter
	timer       string
	teams       [2]TeamScore
	boost       map[int]BoostBar
	progressPct float64
	goals       []derive.GoalMarker
	matchLength string
}

func New(f Formatter) *Overlay {
	if f == nil {
		f = plainFormatter{}
	}
	o := &Overlay{format: f}
	o.Reset()
	return o
}

// Reset returns the overlay to its unloaded state.
func (o *Overlay) Reset() {
	o.timer = o.format.FormatTimer(0)
	o.boost = make(map[int]BoostBar)
	o.progressPct = 0
	o.goals = nil
	o.matchLength = "N/A"
	for i := range o.teams {
		o.teams[i] = TeamScore{Team: i, Name: defaultTeamNames[i]}
	}
}

// Init sets the per-replay values that do not depend on the frame.
func (o *Overlay) Init(ds *replay.Dataset, fps float64) {
	o.Reset()
	for i := range o.teams {
		if t, ok := ds.Team(i); ok {
			if name := CleanLabel(t.Name); name != "" {
				o.teams[i].Name = name
			}
		}
	}
	o.goals = derive.GoalMarkers(ds, fps)
	o.matchLength = derive.MatchLength(ds.MaxFrame(), fps)
}

// CleanLabel trims and NFC-normalises a display name so that names written
// with combining marks compare and render the same as precomposed ones.
func CleanLabel(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// Update recomputes every value for frame f and reports score changes.
func (o *Overlay) Update(ds *replay.Dataset, f int) []ScoreChange {
	if secs, ok := derive.ElapsedSeconds(ds, f); ok {
		o.timer = o.format.FormatTimer(secs)
	}

	var changes []ScoreChange
	for i := range o.teams {
		score := derive.Score(ds, i, f)
		if score != o.teams[i].Score {
			changes = append(changes, ScoreChange{Team: i, From: o.teams[i].Score, To: score})
			o.teams[i].Score = score
		}
	}

	for _, pad := range ds.Pads() {
		pct, ok := derive.BoostPercent(ds, pad, f)
		if !ok {
			continue
		}
		owner, ok := ds.BoostOwner(pad)
		if !ok {
			continue
		}
		if lt, ok := ds.Lifetime(owner); ok && lt.EndedBy(f) {
			continue
		}
		slot, ok := ds.CarIndex(owner)
		if !ok {
			continue
		}
		o.boost[slot] = BoostBar{
			Slot:     slot,
			WidthPct: pct,
			Label:    o.format.FormatBoost(pct),
		}
	}

	o.progressPct = math.Round(derive.Progress(ds, f)*100*100) / 100
	return changes
}

// RemoveBoost drops the boost bar of a car that left the match.
func (o *Overlay) RemoveBoost(slot int) {
	delete(o.boost, slot)
}

// Timer is the current clock text.
func (o *Overlay) Timer() string { return o.timer }

// Score is the displayed score of team (0 or 1).
func (o *Overlay) Score(team int) int {
	if team < 0 || team >= len(o.teams) {
		return 0
	}
	return o.teams[team].Score
}

// Boost returns the bar for slot.
func (o *Overlay) Boost(slot int) (BoostBar, bool) {
	b, ok := o.boost[slot]
	return b, ok
}

// ProgressPct is the progress bar width in percent.
func (o *Overlay) ProgressPct() float64 { return o.progressPct }

// Snapshot copies the overlay state with boost bars ordered by slot.
func (o *Overlay) Snapshot() State {
	bars := make([]BoostBar, 0, len(o.boost))
	for _, b := range o.boost {
		bars = append(bars, b)
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Slot < bars[j].Slot })
	goals := make([]derive.GoalMarker, len(o.goals))
	copy(goals, o.goals)
	return State{
		Timer:       o.timer,
		Teams:       o.teams,
		Boost:       bars,
		ProgressPct: o.progressPct,
		Goals:       goals,
		MatchLength: o.matchLength,
	}
}
