package tui

// pipeConn is the in-process transport between the bubbletea event
// loop and the engine: keystrokes are queued as raw bytes, engine
// output lands in the screen interpreter. Everything runs on the
// Update goroutine, so no locking.
type pipeConn struct {
	queue []byte
	scr   *screen
}

func newPipeConn(scr *screen) *pipeConn {
	return &pipeConn{scr: scr}
}

func (c *pipeConn) push(bs ...byte) {
	c.queue = append(c.queue, bs...)
}

func (c *pipeConn) ReadByte() (byte, bool) {
	if len(c.queue) == 0 {
		return 0, false
	}
	b := c.queue[0]
	c.queue = c.queue[1:]
	return b, true
}

func (c *pipeConn) WriteByte(b byte) {
	c.scr.WriteByte(b)
}
