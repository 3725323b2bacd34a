package engine

// History is a fixed-capacity ring of submitted lines plus a browse
// cursor. A nil *History is the disabled subsystem: Add is a no-op and
// Prev/Next report nothing, so callers never branch on whether history
// was compiled in.
type History struct {
	entries []string
	count   int // filled entries, <= len(entries)
	head    int // next write slot
	cursor  int // distance from newest; -1 = not browsing
}

// NewHistory returns a ring holding up to capacity lines, or nil (the
// disabled subsystem) for capacity <= 0.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		return nil
	}
	return &History{
		entries: make([]string, capacity),
		cursor:  -1,
	}
}

// Add appends a line, overwriting the oldest entry when full, and
// stops any in-progress browsing. Empty lines are not recorded.
func (h *History) Add(line string) {
	if h == nil {
		return
	}
	h.cursor = -1
	if line == "" {
		return
	}
	h.entries[h.head] = line
	h.head = (h.head + 1) % len(h.entries)
	if h.count < len(h.entries) {
		h.count++
	}
}

// ResetCursor stops browsing without touching the entries.
func (h *History) ResetCursor() {
	if h != nil {
		h.cursor = -1
	}
}

// Prev moves toward older entries. At the oldest entry (or with no
// entries at all) it reports false without wrapping.
func (h *History) Prev() (string, bool) {
	if h == nil || h.cursor+1 >= h.count {
		return "", false
	}
	h.cursor++
	return h.at(h.cursor), true
}

// Next moves toward newer entries, reporting false at the newest.
func (h *History) Next() (string, bool) {
	if h == nil || h.cursor <= 0 {
		return "", false
	}
	h.cursor--
	return h.at(h.cursor), true
}

func (h *History) at(back int) string {
	n := len(h.entries)
	return h.entries[((h.head-1-back)%n+n)%n]
}
