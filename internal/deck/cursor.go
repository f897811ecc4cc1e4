package deck

// Cursor is an index into an ordered list of blocks, always clamped to
// [0, count-1]. With zero blocks it stays at 0 and never moves.
type Cursor struct {
	index int
	count int
}

// NewCursor creates a cursor at 0 over count blocks.
func NewCursor(count int) Cursor {
	return Cursor{count: max(0, count)}
}

// Go clamps i into range and moves there. It is the only mutator.
func (c *Cursor) Go(i int) int {
	if c.count == 0 {
		return c.index
	}
	c.index = max(0, min(c.count-1, i))
	return c.index
}

// Index returns the current position.
func (c Cursor) Index() int { return c.index }

// Count returns the number of blocks the cursor ranges over.
func (c Cursor) Count() int { return c.count }
