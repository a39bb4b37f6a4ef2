package playback

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyLoaded  = errors.New("cursor already loaded")
	ErrNotLoaded      = errors.New("cursor not loaded")
	ErrEmptyReplay    = errors.New("replay has no frames")
	ErrSeekOutOfRange = errors.New("seek out of range")
)

// Cursor is the playback position. It starts Unloaded (current = -1) and
// moves to Ready exactly once per load; within Ready, current always lies in
// [0, max).
type Cursor struct {
	current int
	max     int
}

func NewCursor() *Cursor {
	return &Cursor{current: -1}
}

// Loaded reports whether the cursor is Ready.
func (c *Cursor) Loaded() bool { return c.current >= 0 }

// Current is the selected frame, -1 when unloaded.
func (c *Cursor) Current() int { return c.current }

// Max is the number of frames, 0 when unloaded.
func (c *Cursor) Max() int { return c.max }

// Ready performs the Unloaded → Ready transition.
func (c *Cursor) Ready(maxFrame, start int) error {
	if c.Loaded() {
		return ErrAlreadyLoaded
	}
	if maxFrame <= 0 {
		return ErrEmptyReplay
	}
	if start < 0 || start >= maxFrame {
		start = 0
	}
	c.max = maxFrame
	c.current = start
	return nil
}

// Seek selects any frame in [0, max).
func (c *Cursor) Seek(f int) error {
	if !c.Loaded() {
		return ErrNotLoaded
	}
	if f < 0 || f >= c.max {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrSeekOutOfRange, f, c.max)
	}
	c.current = f
	return nil
}

// Advance moves one frame forward and reports whether it moved. At the
// last frame the cursor stays put.
func (c *Cursor) Advance() bool {
	if !c.Loaded() || c.current >= c.max-1 {
		return false
	}
	c.current++
	return true
}

// AtEnd reports whether the last frame is selected.
func (c *Cursor) AtEnd() bool {
	return c.Loaded() && c.current == c.max-1
}

// Unload returns to the Unloaded state.
func (c *Cursor) Unload() {
	c.current = -1
	c.max = 0
}
