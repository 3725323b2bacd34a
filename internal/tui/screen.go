package tui

import "bytes"

// screen is a minimal terminal interpreter for the engine's output.
// The engine only ever emits printable text, CR/LF, backspace rubout,
// bell, erase-to-end-of-line and clear-screen, so this handles exactly
// that alphabet and nothing more.
type screen struct {
	lines [][]byte
	col   int
	esc   []byte // partially read escape sequence
}

// maxScrollback bounds the kept lines.
const maxScrollback = 500

func newScreen() *screen {
	return &screen{lines: [][]byte{nil}}
}

func (sc *screen) WriteByte(b byte) {
	if len(sc.esc) > 0 {
		sc.esc = append(sc.esc, b)
		if len(sc.esc) == 2 {
			if b != '[' {
				sc.esc = nil // lone ESC, drop it
			}
			return
		}
		// Final byte of a CSI sequence.
		if b >= 0x40 && b < 0x7f {
			sc.interpret(sc.esc)
			sc.esc = nil
		}
		return
	}

	switch b {
	case 0x1b:
		sc.esc = append(sc.esc, b)
	case '\r':
		sc.col = 0
	case '\n':
		sc.lines = append(sc.lines, nil)
		if len(sc.lines) > maxScrollback {
			sc.lines = sc.lines[1:]
		}
		sc.col = 0
	case '\b':
		if sc.col > 0 {
			sc.col--
		}
	case '\a':
		// bell, nothing to draw
	default:
		if b < 0x20 {
			return
		}
		sc.put(b)
	}
}

func (sc *screen) put(b byte) {
	row := len(sc.lines) - 1
	line := sc.lines[row]
	for len(line) < sc.col {
		line = append(line, ' ')
	}
	if sc.col < len(line) {
		line[sc.col] = b
	} else {
		line = append(line, b)
	}
	sc.lines[row] = line
	sc.col++
}

func (sc *screen) interpret(seq []byte) {
	switch seq[len(seq)-1] {
	case 'K': // erase from cursor to end of line
		row := len(sc.lines) - 1
		if sc.col < len(sc.lines[row]) {
			sc.lines[row] = sc.lines[row][:sc.col]
		}
	case 'J': // clear screen (the engine always sends 2J then H)
		sc.lines = [][]byte{nil}
		sc.col = 0
	case 'H':
		sc.col = 0
	}
}

func (sc *screen) String() string {
	var out []byte
	for i, line := range sc.lines {
		if i > 0 {
			out = append(out, '\n')
		}
		// Rubout leaves trailing blanks; they are invisible on a real
		// terminal, so drop them here too.
		out = append(out, bytes.TrimRight(line, " ")...)
	}
	return string(out)
}
