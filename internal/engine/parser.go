package engine

// Parser is the per-byte input state machine. It owns no buffers: the
// caller passes the line buffer in and reads the resulting action back.
// One byte in, one action out; the parser never blocks and never looks
// ahead.
//
// The escape handling is deliberately minimal: ESC ESC clears the line,
// ESC [ A / ESC [ B drive history, anything else after ESC [ is
// swallowed. An ESC followed by an ordinary byte aborts the escape,
// clears the line, and then processes that byte as if freshly typed;
// so Esc then 'x' leaves a line containing just "x". Surprising when
// typing fast, but it is the established behavior and operators rely on
// the Esc-clears-line part of it.
type Parser struct {
	state parserState
}

type parserState uint8

const (
	stateNormal parserState = iota
	stateEscape             // one ESC seen
	stateCSI                // ESC [ seen, waiting for the final byte
)

// Action is what the shell should do after feeding one byte.
type Action uint8

const (
	ActionNone Action = iota
	// ActionEcho: the byte was appended; echo it (or a mask) back.
	ActionEcho
	// ActionErase: the last byte was removed; rub it out on screen.
	ActionErase
	// ActionSubmit: the line is complete, process it.
	ActionSubmit
	// ActionRedraw: the line changed wholesale (cleared, and possibly
	// refilled by escape-abort reprocessing); repaint prompt and line.
	ActionRedraw
	ActionHistPrev
	ActionHistNext
	ActionComplete
)

const (
	byteEsc       = 0x1b
	byteTab       = '\t'
	byteBackspace = 0x08
	byteDelete    = 0x7f
)

func NewParser() *Parser {
	return &Parser{}
}

// Reset returns the parser to Normal, dropping any half-read escape.
func (p *Parser) Reset() {
	p.state = stateNormal
}

// Feed processes exactly one byte against the line buffer and reports
// the resulting action. The only error is ErrBufferFull from a rejected
// append; the line is unchanged in that case.
func (p *Parser) Feed(b byte, line *LineBuffer) (Action, error) {
	switch p.state {
	case stateEscape:
		switch b {
		case byteEsc:
			// Double escape: wipe the line.
			line.Clear()
			p.state = stateNormal
			return ActionRedraw, nil
		case '[':
			p.state = stateCSI
			return ActionNone, nil
		default:
			// Abort the escape: clear the line, then treat the byte
			// as fresh input.
			line.Clear()
			p.state = stateNormal
			act, err := p.Feed(b, line)
			if act == ActionNone || act == ActionEcho || act == ActionErase {
				act = ActionRedraw
			}
			return act, err
		}

	case stateCSI:
		p.state = stateNormal
		switch b {
		case 'A':
			return ActionHistPrev, nil
		case 'B':
			return ActionHistNext, nil
		}
		// Unrecognized sequence, silently discarded.
		return ActionNone, nil
	}

	// stateNormal
	switch b {
	case '\n', '\r':
		return ActionSubmit, nil
	case byteEsc:
		p.state = stateEscape
		return ActionNone, nil
	case byteTab:
		return ActionComplete, nil
	case byteBackspace, byteDelete:
		if line.Backspace() {
			return ActionErase, nil
		}
		return ActionNone, nil
	}
	if b >= 0x20 && b < 0x7f {
		if err := line.Append(b); err != nil {
			return ActionNone, err
		}
		return ActionEcho, nil
	}
	// Other control bytes are ignored.
	return ActionNone, nil
}
