package models

// Cursor tracks the current position among playable items and the play/pause toggle.
//
// It only knows lengths; callers pass the length of the filtered (non-ticker) sequence.
type Cursor struct {
	index   int
	playing bool
}

// Index returns the current position.
func (c *Cursor) Index() int { return c.index }

// Playing reports whether the display is advancing on its own.
func (c *Cursor) Playing() bool { return c.playing }

// Advance moves to the next position, wrapping at n. With n == 0 the cursor stays at 0.
func (c *Cursor) Advance(n int) {
	if n <= 0 {
		c.index = 0
		return
	}
	c.index = (c.index + 1) % n
}

// Clamp resets the cursor to 0 when it points at or past the end of a sequence of length n.
func (c *Cursor) Clamp(n int) {
	if c.index >= n || c.index < 0 {
		c.index = 0
	}
}

// Reset moves back to the first position without touching the play state.
func (c *Cursor) Reset() { c.index = 0 }

// SetPlaying sets the play state.
func (c *Cursor) SetPlaying(v bool) { c.playing = v }

// Toggle flips play/pause and returns the new state.
func (c *Cursor) Toggle() bool {
	c.playing = !c.playing
	return c.playing
}

// Current returns the item at the cursor within the filtered sequence.
func (c *Cursor) Current(playable []PlaylistItem) (PlaylistItem, bool) {
	if c.index < 0 || c.index >= len(playable) {
		return PlaylistItem{}, false
	}
	return playable[c.index], true
}
