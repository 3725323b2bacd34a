package engine

// LineBuffer is the fixed-capacity buffer holding the line under
// construction. The backing storage is allocated once at construction
// and never grows; a full buffer rejects further input with
// ErrBufferFull instead of reallocating.
type LineBuffer struct {
	buf []byte
}

// NewLineBuffer allocates a buffer that holds at most capacity bytes.
func NewLineBuffer(capacity int) *LineBuffer {
	if capacity < 1 {
		capacity = 1
	}
	return &LineBuffer{buf: make([]byte, 0, capacity)}
}

// Append adds one byte, or fails ErrBufferFull leaving the buffer
// unchanged.
func (l *LineBuffer) Append(b byte) error {
	if len(l.buf) == cap(l.buf) {
		return ErrBufferFull
	}
	l.buf = append(l.buf, b)
	return nil
}

// Backspace removes the last byte. Returns false on an empty buffer.
func (l *LineBuffer) Backspace() bool {
	if len(l.buf) == 0 {
		return false
	}
	l.buf = l.buf[:len(l.buf)-1]
	return true
}

// Set replaces the whole contents, used when recalling a history entry.
// A line longer than the capacity fails ErrBufferFull with the previous
// contents intact.
func (l *LineBuffer) Set(s string) error {
	if len(s) > cap(l.buf) {
		return ErrBufferFull
	}
	l.buf = append(l.buf[:0], s...)
	return nil
}

func (l *LineBuffer) Clear()         { l.buf = l.buf[:0] }
func (l *LineBuffer) Len() int       { return len(l.buf) }
func (l *LineBuffer) String() string { return string(l.buf) }

// ContainsByte reports whether b occurs in the buffer. The session
// manager uses this to decide when password masking starts.
func (l *LineBuffer) ContainsByte(b byte) bool {
	for _, c := range l.buf {
		if c == b {
			return true
		}
	}
	return false
}
