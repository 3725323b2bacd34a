package engine

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"conshell/internal/cmdtree"
)

// ExecResult is the outcome of one command body.
type ExecResult struct {
	Output string
	Err    error
}

// Executor is the external collaborator holding the command bodies.
// Exec blocks and returns directly; ExecAsync returns immediately and
// delivers exactly one result on the channel when the body finishes.
// The shell validates the name against the tree before calling either,
// but a defensive implementation still reports ErrCommandNotFound for
// names it does not know.
type Executor interface {
	Exec(name string, args []string) (string, error)
	ExecAsync(name string, args []string) <-chan ExecResult
}

// globalCommands is the reserved set matched before any tree
// resolution. These are not tree nodes. "logout" joins the set only
// when access control is enabled.
var globalCommands = []struct {
	name string
	desc string
	auth bool // only present with auth enabled
}{
	{"ls", "list the current directory", false},
	{"?", "list global commands", false},
	{"clear", "clear the terminal", false},
	{"logout", "end the session", true},
}

// globalNames returns the reserved names valid for this session, for
// completion and `?`.
func globalNames(authEnabled bool) []string {
	out := make([]string, 0, len(globalCommands))
	for _, g := range globalCommands {
		if g.auth && !authEnabled {
			continue
		}
		out = append(out, g.name)
	}
	return out
}

// tokenize splits a submitted line on whitespace into the command/path
// token and its arguments. No quoting. Exceeding maxArgs fails
// ErrTooManyArgs before anything is executed.
func tokenize(line string, maxArgs int) (string, []string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil, nil
	}
	if len(fields)-1 > maxArgs {
		return "", nil, ErrTooManyArgs
	}
	return fields[0], fields[1:], nil
}

// dispatch handles one submitted, non-login line end to end: globals,
// then tree resolution, then gate, arity and execution. Every failure
// is reported as a one-line message and leaves the shell state exactly
// as it was.
func (s *Shell) dispatch(line string) {
	name, args, err := tokenize(line, s.maxArgs)
	if err != nil {
		s.reportError(err)
		return
	}
	if name == "" {
		return
	}

	if s.runGlobal(name, args) {
		return
	}

	stack, node, err := s.path.Locate(s.root, name)
	if err != nil {
		// A bare name that matches nothing is a missing command, not
		// a bad path.
		if errors.Is(err, ErrNotFound) && !strings.Contains(name, "/") {
			err = ErrCommandNotFound
		}
		s.reportError(err)
		return
	}

	if s.session.AuthEnabled() {
		if err := CheckAccess(s.root, stack, s.session.Level()); err != nil {
			s.log.Warn("access denied",
				zap.String("target", name),
				zap.String("level", s.session.Level().String()))
			s.reportError(err)
			return
		}
	}

	switch target := node.(type) {
	case *cmdtree.Directory:
		if len(args) > 0 {
			s.reportError(ErrArgCount)
			return
		}
		s.path = stack
	case *cmdtree.Command:
		s.invoke(target, args)
	}
}

// invoke runs a gate-cleared command after arity validation.
func (s *Shell) invoke(cmd *cmdtree.Command, args []string) {
	if len(args) < cmd.MinArgs || len(args) > cmd.MaxArgs {
		s.reportError(fmt.Errorf("%w: %s takes %s", ErrArgCount, cmd.Name, arityText(cmd)))
		return
	}

	s.log.Debug("dispatch",
		zap.String("command", cmd.Name),
		zap.Strings("args", args),
		zap.Uint8("kind", uint8(cmd.Kind)))

	switch cmd.Kind {
	case cmdtree.Suspendable:
		// The shell draws no further input until the result arrives;
		// Step polls the channel instead of the transport.
		s.pending = s.exec.ExecAsync(cmd.Name, args)
		s.pendingName = cmd.Name
	default:
		out, err := s.exec.Exec(cmd.Name, args)
		s.reportResult(out, err)
	}
}

func arityText(cmd *cmdtree.Command) string {
	switch {
	case cmd.MinArgs == cmd.MaxArgs && cmd.MinArgs == 0:
		return "no arguments"
	case cmd.MinArgs == cmd.MaxArgs:
		return fmt.Sprintf("%d argument(s)", cmd.MinArgs)
	default:
		return fmt.Sprintf("%d-%d arguments", cmd.MinArgs, cmd.MaxArgs)
	}
}

// runGlobal executes a reserved command, reporting whether the name
// was one.
func (s *Shell) runGlobal(name string, args []string) bool {
	switch name {
	case "ls":
		s.listDirectory()
	case "?":
		s.listGlobals()
	case "clear":
		s.writeString("\x1b[2J\x1b[H")
	case "logout":
		if !s.session.AuthEnabled() {
			return false
		}
		s.session.Logout()
		s.path = PathStack{}
		s.hist.ResetCursor()
		s.log.Info("logged out")
	default:
		return false
	}
	_ = args // globals take no arguments; extras are ignored
	return true
}

func (s *Shell) listDirectory() {
	dir, err := s.path.Dir(s.root)
	if err != nil {
		s.reportError(err)
		return
	}
	for _, child := range dir.Children {
		name := child.NodeName()
		if _, ok := child.(*cmdtree.Directory); ok {
			name += "/"
		}
		s.writeString(fmt.Sprintf("%-16s %-6s %s\n", name, child.NodeLevel(), child.NodeDesc()))
	}
}

func (s *Shell) listGlobals() {
	for _, g := range globalCommands {
		if g.auth && !s.session.AuthEnabled() {
			continue
		}
		s.writeString(fmt.Sprintf("%-16s %s\n", g.name, g.desc))
	}
}
