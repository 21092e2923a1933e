package session

// Clock hands out strictly increasing tick sequence numbers.
//
// A Session is single-writer, so Clock carries no synchronization.
type Clock struct {
	seq int64
}

// NewClock creates a clock whose first Next returns 1.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock whose first Next returns start+1.
// Used to continue numbering after a stored run.
func NewClockAt(start int64) *Clock {
	return &Clock{seq: start}
}

// Next advances the clock and returns the new sequence number.
func (c *Clock) Next() int64 {
	c.seq++
	return c.seq
}

// Current returns the last sequence number handed out.
func (c *Clock) Current() int64 {
	return c.seq
}
