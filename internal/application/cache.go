package application

// HistoryBuffer is what the engine needs from a session cache: a bounded,
// append-only text buffer that can be drained and rewound.
type HistoryBuffer interface {
	Append(b []byte)
	IsFresh() bool
	ShouldEvict() bool
	Drain() (int, []byte)
	Increment() []byte
	Reset()
}

// SessionCache collects the entries broadcast since its session last drained
// it. One byte of capacity is reserved for the NUL terminator, so the cursor
// never exceeds capacity-1.
type SessionCache struct {
	buf        []byte
	cursor     int
	fresh      bool
	overflowed bool
}

var _ HistoryBuffer = (*SessionCache)(nil)

func NewSessionCache(capacity int) *SessionCache {
	if capacity < 1 {
		capacity = 1
	}
	return &SessionCache{buf: make([]byte, capacity), fresh: true}
}

func (c *SessionCache) Cap() int {
	return len(c.buf)
}

// Append writes b followed by a terminator. A write that does not fit is
// rejected whole and marks the cache overflowed.
func (c *SessionCache) Append(b []byte) {
	if c.overflowed {
		return
	}
	if c.cursor+len(b) > len(c.buf)-1 {
		c.overflowed = true
		return
	}
	c.cursor += copy(c.buf[c.cursor:], b)
	c.buf[c.cursor] = 0
}

// IsFresh reports whether the cache has never been drained. Only the first
// call returns true.
func (c *SessionCache) IsFresh() bool {
	fresh := c.fresh
	c.fresh = false
	return fresh
}

func (c *SessionCache) ShouldEvict() bool {
	return c.overflowed
}

// Drain returns the cursor and the bytes written since the last Reset.
func (c *SessionCache) Drain() (int, []byte) {
	return c.cursor, c.buf[:c.cursor]
}

// Increment is the wire form of Drain: the written bytes plus their
// terminator, or nothing when the cache is empty.
func (c *SessionCache) Increment() []byte {
	if c.cursor == 0 {
		return nil
	}
	return c.buf[:c.cursor+1]
}

func (c *SessionCache) Reset() {
	c.overflowed = false
	c.cursor = 0
	c.buf[0] = 0
}
