// Package engine implements the interactive shell core: a per-byte
// processing pipeline that turns transport input into line edits,
// login attempts and command dispatches against a static command tree.
// One Shell instance serves one connection; instances share nothing
// but the immutable tree and the read-only credential store.
package engine

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"conshell/internal/cmdtree"
)

// Conn is the character transport collaborator. ReadByte must not
// block: it returns false when no byte is available right now.
// WriteByte pushes one byte toward the operator's terminal.
type Conn interface {
	ReadByte() (byte, bool)
	WriteByte(b byte)
}

// Option configures a Shell at construction.
type Option func(*Shell)

// WithLogger attaches a structured logger. Default is a nop logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Shell) { s.log = log }
}

// WithCredentials enables access control. Without it the shell skips
// login entirely and the access gate never runs.
func WithCredentials(creds Credentials) Option {
	return func(s *Shell) { s.creds = creds }
}

// WithHostname sets the prompt prefix, e.g. "dev" for "dev:/> ".
func WithHostname(name string) Option {
	return func(s *Shell) { s.hostname = name }
}

// WithBanner sets the text printed on activation.
func WithBanner(text string) Option {
	return func(s *Shell) { s.banner = text }
}

// WithLineCapacity bounds the input line. Default 128 bytes.
func WithLineCapacity(n int) Option {
	return func(s *Shell) { s.lineCap = n }
}

// WithMaxArgs bounds the argument count per line. Default 8.
func WithMaxArgs(n int) Option {
	return func(s *Shell) { s.maxArgs = n }
}

// WithHistory sets the history ring size. Zero disables the subsystem.
func WithHistory(n int) Option {
	return func(s *Shell) { s.histSize = n }
}

// WithCompletionLimit bounds Tab completion candidates. Zero disables
// the subsystem; Tab then does nothing.
func WithCompletionLimit(n int) Option {
	return func(s *Shell) { s.maxCandidates = n }
}

// Shell binds the parser, navigator, session, history and dispatcher
// around one transport connection. It is not safe for concurrent use;
// drive it from a single goroutine via Step.
type Shell struct {
	root *cmdtree.Directory
	conn Conn
	exec Executor
	log  *zap.Logger

	// construction-time knobs
	creds         Credentials
	hostname      string
	banner        string
	lineCap       int
	maxArgs       int
	histSize      int
	maxCandidates int

	parser  Parser
	line    *LineBuffer
	path    PathStack
	session *Session
	hist    *History

	// in-flight suspendable command, nil when idle
	pending     <-chan ExecResult
	pendingName string

	lastWasCR bool
}

// New wires a shell around a tree, a transport and an executor. The
// shell starts Inactive; call Activate to begin a session.
func New(root *cmdtree.Directory, conn Conn, exec Executor, opts ...Option) *Shell {
	s := &Shell{
		root:          root,
		conn:          conn,
		exec:          exec,
		log:           zap.NewNop(),
		hostname:      "sh",
		lineCap:       128,
		maxArgs:       8,
		histSize:      32,
		maxCandidates: 8,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.line = NewLineBuffer(s.lineCap)
	s.session = NewSession(s.creds)
	s.hist = NewHistory(s.histSize)
	return s
}

// Active reports whether the shell is accepting input.
func (s *Shell) Active() bool { return s.session.State() != SessionInactive }

// Busy reports whether a suspendable command is in flight. While busy
// the shell draws no input from the transport.
func (s *Shell) Busy() bool { return s.pending != nil }

// Session exposes the session for status display; callers must not
// mutate it.
func (s *Shell) Session() *Session { return s.session }

// Activate starts a session: banner, then either the login prompt or
// the command prompt depending on whether access control is enabled.
func (s *Shell) Activate() {
	s.session.Activate()
	if s.banner != "" {
		s.writeString(s.banner)
		s.writeString("\n")
	}
	s.writePrompt()
	s.log.Info("session activated", zap.Bool("auth", s.session.AuthEnabled()))
}

// Deactivate unconditionally tears the session down: identity, line,
// path and parser state are cleared and input is ignored until the
// next Activate.
func (s *Shell) Deactivate() {
	s.session.Deactivate()
	s.line.Clear()
	s.path = PathStack{}
	s.parser.Reset()
	s.hist.ResetCursor()
	s.pending = nil
	s.pendingName = ""
	s.log.Info("session deactivated")
}

// Step performs exactly one processing step and reports whether any
// work was done. While a suspendable command is pending only its
// result channel is polled; otherwise at most one byte is drawn from
// the transport and processed to completion. Callers loop Step and
// idle (however suits their scheduler) when it returns false.
func (s *Shell) Step() bool {
	if s.pending != nil {
		select {
		case res := <-s.pending:
			s.finishPending(res)
			return true
		default:
			return false
		}
	}

	b, ok := s.conn.ReadByte()
	if !ok {
		return false
	}
	if s.session.State() == SessionInactive {
		// Inactive shells swallow input without parsing it.
		return true
	}

	// Telnet-style clients submit CRLF; the LF is part of the same
	// submit, not a second empty line.
	if b == '\n' && s.lastWasCR {
		s.lastWasCR = false
		return true
	}
	s.lastWasCR = b == '\r'

	s.process(b)
	return true
}

func (s *Shell) process(b byte) {
	// Masking starts after the login separator is typed; decided
	// before the byte lands in the buffer so the ':' itself echoes.
	masked := s.session.State() == SessionLoggedOut && s.line.ContainsByte(':')

	act, err := s.parser.Feed(b, s.line)
	if err != nil {
		// Line full: reject the byte audibly, state unchanged.
		s.conn.WriteByte('\a')
		return
	}

	switch act {
	case ActionEcho:
		if masked {
			s.conn.WriteByte('*')
		} else {
			s.conn.WriteByte(b)
		}
	case ActionErase:
		s.writeString("\b \b")
	case ActionSubmit:
		s.writeString("\n")
		s.submit(s.line.String())
	case ActionRedraw:
		s.hist.ResetCursor()
		s.redrawLine()
	case ActionHistPrev, ActionHistNext:
		s.recallHistory(act)
	case ActionComplete:
		s.complete()
	}
}

// submit routes a completed line: credentials while logged out,
// command text while logged in.
func (s *Shell) submit(line string) {
	s.line.Clear()
	s.hist.ResetCursor()

	if s.session.State() == SessionLoggedOut {
		s.login(line)
		return
	}

	s.hist.Add(line)
	s.dispatch(line)
	if s.pending == nil {
		s.writePrompt()
	}
}

func (s *Shell) login(line string) {
	if line == "" {
		s.writePrompt()
		return
	}
	err := s.session.Login(line)
	if err != nil {
		user, _, _ := strings.Cut(line, ":")
		s.log.Info("login failed", zap.String("user", user))
		s.reportError(err)
		s.writePrompt()
		return
	}
	user, _, _ := strings.Cut(line, ":")
	s.log.Info("login ok",
		zap.String("user", user),
		zap.String("level", s.session.Level().String()))
	s.writeString(fmt.Sprintf("access level: %s\n", s.session.Level()))
	s.writePrompt()
}

// finishPending completes a suspendable command and resumes drawing
// input.
func (s *Shell) finishPending(res ExecResult) {
	s.log.Debug("suspendable complete",
		zap.String("command", s.pendingName),
		zap.Error(res.Err))
	s.pending = nil
	s.pendingName = ""
	s.reportResult(res.Output, res.Err)
	s.writePrompt()
}

// recallHistory replaces the line with the previous/next entry. At
// either boundary nothing changes on screen.
func (s *Shell) recallHistory(act Action) {
	if s.session.State() != SessionLoggedIn {
		return
	}
	var entry string
	var ok bool
	if act == ActionHistPrev {
		entry, ok = s.hist.Prev()
	} else {
		entry, ok = s.hist.Next()
	}
	if !ok {
		return
	}
	if err := s.line.Set(entry); err != nil {
		return
	}
	s.redrawLine()
}

// complete handles Tab: only the first token (the command/path
// position) is completed. A single candidate is filled in; several are
// listed and the line repainted; none rings the bell.
func (s *Shell) complete() {
	if s.session.State() != SessionLoggedIn || s.maxCandidates <= 0 {
		return
	}
	token := s.line.String()
	if strings.ContainsAny(token, " \t") {
		return
	}

	// For a path-shaped token, match the final segment against the
	// directory the leading segments resolve to.
	prefixPath, partial := "", token
	if i := strings.LastIndexByte(token, '/'); i >= 0 {
		prefixPath, partial = token[:i+1], token[i+1:]
	}
	stack := s.path
	if prefixPath != "" {
		var err error
		stack, _, err = s.path.Locate(s.root, prefixPath)
		if err != nil {
			s.conn.WriteByte('\a')
			return
		}
	}
	dir, err := stack.Dir(s.root)
	if err != nil {
		s.conn.WriteByte('\a')
		return
	}

	globals := []string(nil)
	if prefixPath == "" {
		globals = globalNames(s.session.AuthEnabled())
	}
	cands := Suggest(dir, globals, partial, s.maxCandidates)
	switch len(cands) {
	case 0:
		s.conn.WriteByte('\a')
	case 1:
		for _, b := range []byte(cands[0][len(partial):]) {
			if s.line.Append(b) != nil {
				s.conn.WriteByte('\a')
				return
			}
			s.conn.WriteByte(b)
		}
	default:
		s.writeString("\n")
		s.writeString(strings.Join(cands, "  "))
		s.writeString("\n")
		s.redrawLine()
	}
}

// redrawLine repaints the prompt and current line contents in place.
func (s *Shell) redrawLine() {
	s.writeString("\r\x1b[K")
	s.writePrompt()
	if s.session.State() == SessionLoggedOut {
		// Re-echo with masking past the separator.
		line := s.line.String()
		if i := strings.IndexByte(line, ':'); i >= 0 {
			s.writeString(line[:i+1])
			s.writeString(strings.Repeat("*", len(line)-i-1))
		} else {
			s.writeString(line)
		}
		return
	}
	s.writeString(s.line.String())
}

func (s *Shell) writePrompt() {
	if s.session.State() == SessionLoggedOut {
		s.writeString("login: ")
		return
	}
	s.writeString(fmt.Sprintf("%s:%s> ", s.hostname, s.path.String(s.root)))
}

func (s *Shell) reportResult(out string, err error) {
	if err != nil {
		s.reportError(err)
		return
	}
	if out != "" {
		s.writeString(out)
		if !strings.HasSuffix(out, "\n") {
			s.writeString("\n")
		}
	}
}

func (s *Shell) reportError(err error) {
	s.writeString(fmt.Sprintf("%% %v\n", err))
}

// writeString pushes text through the one-byte transport primitive,
// expanding LF to CRLF for raw terminals.
func (s *Shell) writeString(text string) {
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			s.conn.WriteByte('\r')
		}
		s.conn.WriteByte(text[i])
	}
}
