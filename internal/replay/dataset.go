package replay

import (
	"encoding/json"
	"fmt"
	"sort"
)

// ActorID identifies a logical replay entity (car or ball) in the netstream.
type ActorID int

// PadID identifies a boost pad (the boost component actor of one car).
type PadID int

// Kind is the entity type of an actor.
type Kind string

const (
	KindPlayer Kind = "player"
	KindBall   Kind = "ball"
)

// ActorState is one actor's recorded transform at a single frame.
// Rotation components are normalised to [-1, 1] as stored by the parser.
type ActorState struct {
	ID    ActorID `json:"id"`
	Kind  Kind    `json:"type"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
	Roll  float64 `json:"roll"`
}

// FrameSnapshot holds every actor present at one frame.
type FrameSnapshot struct {
	Actors []ActorState `json:"actors"`
}

// Goal is a scoring event.
type Goal struct {
	Frame int `json:"frame"`
	Team  int `json:"team"`
}

// BoostData carries raw boost amounts (0..255) per pad per frame, the car
// actor owning each pad, and the car actor → UI slot mapping.
type BoostData struct {
	Values     map[PadID]map[int]int `json:"values"`
	Actors     map[PadID]ActorID     `json:"actors"`
	ActorToCar map[ActorID]int       `json:"actor_to_car"`
}

// Lifetime is the frame range an actor exists for. Despawn is nil when the
// actor lives through the end of the replay.
type Lifetime struct {
	Spawn   int  `json:"join"`
	Despawn *int `json:"left"`
}

// EndedBy reports whether the actor's lifetime is over at frame f.
func (l Lifetime) EndedBy(f int) bool {
	return l.Despawn != nil && *l.Despawn <= f
}

// Team is descriptive team metadata.
type Team struct {
	Name    string   `json:"name"`
	Color   string   `json:"color"`
	Players []string `json:"players"`
}

// Dataset is the immutable, frame-indexed record of one replay.
type Dataset struct {
	frames    map[int]FrameSnapshot
	goals     []Goal
	boost     BoostData
	seconds   map[int]float64
	lifetimes map[ActorID]Lifetime
	teams     map[int]Team
}

// document mirrors the JSON shape produced by the replay parser.
type document struct {
	FrameData json.RawMessage      `json:"frame_data"`
	Goals     []Goal               `json:"goals"`
	Boost     BoostData            `json:"boost"`
	Seconds   map[int]float64      `json:"seconds_mapping"`
	Actors    map[ActorID]Lifetime `json:"actors"`
	Teams     map[int]Team         `json:"teams"`
}

// Decode parses a replay document. Beyond JSON validity nothing is checked:
// absent keys simply yield "no data" lookups.
func Decode(raw []byte) (*Dataset, error) {
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse replay document: %w", err)
	}
	frames, err := decodeFrames(doc.FrameData)
	if err != nil {
		return nil, err
	}
	return &Dataset{
		frames:    frames,
		goals:     doc.Goals,
		boost:     doc.Boost,
		seconds:   doc.Seconds,
		lifetimes: doc.Actors,
		teams:     doc.Teams,
	}, nil
}

// decodeFrames accepts frame_data as an array or as an object keyed by
// decimal frame index.
func decodeFrames(raw json.RawMessage) (map[int]FrameSnapshot, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return map[int]FrameSnapshot{}, nil
	}
	if raw[0] == '[' {
		var list []FrameSnapshot
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("parse frame_data: %w", err)
		}
		frames := make(map[int]FrameSnapshot, len(list))
		for i, snap := range list {
			frames[i] = snap
		}
		return frames, nil
	}
	var keyed map[int]FrameSnapshot
	if err := json.Unmarshal(raw, &keyed); err != nil {
		return nil, fmt.Errorf("parse frame_data: %w", err)
	}
	if keyed == nil {
		keyed = map[int]FrameSnapshot{}
	}
	return keyed, nil
}

// MaxFrame is the number of recorded frames.
func (d *Dataset) MaxFrame() int { return len(d.frames) }

// Frame returns the snapshot at f.
func (d *Dataset) Frame(f int) (FrameSnapshot, bool) {
	s, ok := d.frames[f]
	return s, ok
}

// Goals returns the goal events in document order.
func (d *Dataset) Goals() []Goal { return d.goals }

// Seconds returns the elapsed match seconds recorded for frame f.
func (d *Dataset) Seconds(f int) (float64, bool) {
	s, ok := d.seconds[f]
	return s, ok
}

// Lifetime returns the spawn/despawn range of an actor.
func (d *Dataset) Lifetime(id ActorID) (Lifetime, bool) {
	l, ok := d.lifetimes[id]
	return l, ok
}

// Lifetimes iterates every actor lifetime.
func (d *Dataset) Lifetimes(fn func(ActorID, Lifetime)) {
	for id, l := range d.lifetimes {
		fn(id, l)
	}
}

// Pads returns all boost pad ids in ascending order.
func (d *Dataset) Pads() []PadID {
	pads := make([]PadID, 0, len(d.boost.Values))
	for id := range d.boost.Values {
		pads = append(pads, id)
	}
	sort.Slice(pads, func(i, j int) bool { return pads[i] < pads[j] })
	return pads
}

// BoostValue returns the raw boost amount of a pad at frame f.
func (d *Dataset) BoostValue(pad PadID, f int) (int, bool) {
	byFrame, ok := d.boost.Values[pad]
	if !ok {
		return 0, false
	}
	v, ok := byFrame[f]
	return v, ok
}

// BoostOwner returns the car actor a pad belongs to.
func (d *Dataset) BoostOwner(pad PadID) (ActorID, bool) {
	a, ok := d.boost.Actors[pad]
	return a, ok
}

// CarIndex returns the UI slot of a car actor.
func (d *Dataset) CarIndex(actor ActorID) (int, bool) {
	i, ok := d.boost.ActorToCar[actor]
	return i, ok
}

// Team returns team metadata.
func (d *Dataset) Team(id int) (Team, bool) {
	t, ok := d.teams[id]
	return t, ok
}
