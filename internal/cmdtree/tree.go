// Package cmdtree defines the static command tree for the shell.
//
// This is the single source of truth for everything the shell can do:
// the dispatcher, access checks, tab completion and `ls` all derive from
// the same tree. The tree is pure data: it is built once (typically as
// package-level vars in the firmware image) and never mutated, so it can
// live in read-only memory. Nodes hold no back-references; the shell
// tracks its position as an index path from the root instead.
package cmdtree

import (
	"fmt"
	"strings"
)

// Level is a privilege tier. Levels are totally ordered: a session
// granted level L may use any node requiring L or below.
type Level uint8

const (
	LevelGuest Level = iota
	LevelUser
	LevelAdmin
)

func (l Level) String() string {
	switch l {
	case LevelGuest:
		return "guest"
	case LevelUser:
		return "user"
	case LevelAdmin:
		return "admin"
	}
	return fmt.Sprintf("level(%d)", uint8(l))
}

// ParseLevel maps a config-file spelling to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "guest", "":
		return LevelGuest, nil
	case "user":
		return LevelUser, nil
	case "admin":
		return LevelAdmin, nil
	}
	return LevelGuest, fmt.Errorf("unknown access level %q", s)
}

// Kind selects how a command's body is executed.
type Kind uint8

const (
	// Sync commands run to completion inside the dispatch call.
	Sync Kind = iota
	// Suspendable commands complete asynchronously; the shell keeps
	// polling a result channel and draws no input while one is pending.
	Suspendable
)

// Node is either a *Command or a *Directory. The set is closed.
type Node interface {
	NodeName() string
	NodeLevel() Level
	NodeDesc() string
}

// Command is the leaf metadata for one executable name.
type Command struct {
	Name    string
	Desc    string
	Level   Level
	Kind    Kind
	MinArgs int
	MaxArgs int
}

func (c *Command) NodeName() string { return c.Name }
func (c *Command) NodeLevel() Level { return c.Level }
func (c *Command) NodeDesc() string { return c.Desc }

// Directory groups child nodes. Child order is both display order and
// lookup order.
type Directory struct {
	Name     string
	Desc     string
	Level    Level
	Children []Node
}

func (d *Directory) NodeName() string { return d.Name }
func (d *Directory) NodeLevel() Level { return d.Level }
func (d *Directory) NodeDesc() string { return d.Desc }

// Child finds a direct child by exact, case-sensitive name.
func (d *Directory) Child(name string) (Node, int, bool) {
	for i, n := range d.Children {
		if n.NodeName() == name {
			return n, i, true
		}
	}
	return nil, 0, false
}
