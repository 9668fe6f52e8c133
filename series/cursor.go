package series

// Cursor is a bounded index into a series of a known length.
//
// Whenever length > 0 the index stays within [0, length). With a length of
// zero the index is always 0 and every move is a no-op.
type Cursor struct {
	index  int
	length int
}

// NewCursor returns a cursor at 0 over length samples.
func NewCursor(length int) Cursor {
	c := Cursor{}
	c.Reset(length)
	return c
}

// Reset moves the cursor back to 0 over a new length.
func (c *Cursor) Reset(length int) {
	if length < 0 {
		length = 0
	}

	c.index = 0
	c.length = length
}

// Index returns the current index.
func (c Cursor) Index() int {
	return c.index
}

// Len returns the length the cursor walks over.
func (c Cursor) Len() int {
	return c.length
}

// Advance moves one step forward, wrapping at the end. It returns the index
// held before the move and whether the move wrapped back to 0.
func (c *Cursor) Advance() (prev int, wrapped bool) {
	prev = c.index

	if c.length == 0 {
		return prev, false
	}

	c.index = (c.index + 1) % c.length

	return prev, c.index == 0
}

// Seek moves to idx clamped into [0, length-1] and returns the new index.
func (c *Cursor) Seek(idx int) int {
	switch {
	case c.length == 0:
		c.index = 0
	case idx < 0:
		c.index = 0
	case idx >= c.length:
		c.index = c.length - 1
	default:
		c.index = idx
	}

	return c.index
}
