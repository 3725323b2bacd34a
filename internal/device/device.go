// Package device holds the demo device behind the shell: its command
// tree and the executor implementing the command bodies. Firmware
// integrations replace this package wholesale; nothing in the engine
// depends on it.
package device

import (
	"fmt"
	"strings"
	"time"

	"conshell/internal/cmdtree"
	"conshell/internal/engine"
)

// Tree builds the demo command tree. In a real image this would be
// package-level constant data.
func Tree() *cmdtree.Directory {
	return &cmdtree.Directory{
		Name:  "/",
		Desc:  "device root",
		Level: cmdtree.LevelGuest,
		Children: []cmdtree.Node{
			&cmdtree.Command{
				Name: "echo", Desc: "print the arguments back",
				Level: cmdtree.LevelGuest, Kind: cmdtree.Sync,
				MinArgs: 0, MaxArgs: 8,
			},
			&cmdtree.Directory{
				Name: "system", Desc: "system management",
				Level: cmdtree.LevelUser,
				Children: []cmdtree.Node{
					&cmdtree.Command{
						Name: "status", Desc: "overall device status",
						Level: cmdtree.LevelUser, Kind: cmdtree.Sync,
					},
					&cmdtree.Command{
						Name: "uptime", Desc: "time since boot",
						Level: cmdtree.LevelUser, Kind: cmdtree.Sync,
					},
					&cmdtree.Command{
						Name: "reboot", Desc: "restart the device",
						Level: cmdtree.LevelAdmin, Kind: cmdtree.Suspendable,
					},
				},
			},
			&cmdtree.Directory{
				Name: "net", Desc: "network interfaces",
				Level: cmdtree.LevelUser,
				Children: []cmdtree.Node{
					&cmdtree.Command{
						Name: "ifconfig", Desc: "show interface configuration",
						Level: cmdtree.LevelUser, Kind: cmdtree.Sync,
					},
					&cmdtree.Command{
						Name: "ping", Desc: "probe a host: ping <host> [count]",
						Level: cmdtree.LevelUser, Kind: cmdtree.Suspendable,
						MinArgs: 1, MaxArgs: 2,
					},
				},
			},
		},
	}
}

// Executor implements engine.Executor for the demo tree.
type Executor struct {
	started time.Time
	// rebootDelay is shortened in tests.
	rebootDelay time.Duration
}

func NewExecutor() *Executor {
	return &Executor{started: time.Now(), rebootDelay: 2 * time.Second}
}

// Exec runs a synchronous command body.
func (e *Executor) Exec(name string, args []string) (string, error) {
	switch name {
	case "echo":
		return strings.Join(args, " "), nil
	case "status":
		return "power ok, temperature 41C, load nominal", nil
	case "uptime":
		return fmt.Sprintf("up %s", time.Since(e.started).Round(time.Second)), nil
	case "ifconfig":
		return "eth0: 10.0.0.7/24 up\nlo: 127.0.0.1/8 up", nil
	}
	// Defensive fallback: the shell validates names against the tree
	// before calling, so this only fires on a tree/executor mismatch.
	return "", engine.ErrCommandNotFound
}

// ExecAsync runs a suspendable command body; the result arrives on the
// returned channel when the body finishes.
func (e *Executor) ExecAsync(name string, args []string) <-chan engine.ExecResult {
	ch := make(chan engine.ExecResult, 1)
	go func() {
		switch name {
		case "reboot":
			time.Sleep(e.rebootDelay)
			ch <- engine.ExecResult{Output: "rebooting"}
		case "ping":
			count := 3
			if len(args) == 2 {
				fmt.Sscanf(args[1], "%d", &count)
			}
			time.Sleep(time.Duration(count) * 100 * time.Millisecond)
			ch <- engine.ExecResult{
				Output: fmt.Sprintf("%s: %d packets, 0%% loss", args[0], count),
			}
		default:
			ch <- engine.ExecResult{Err: engine.ErrCommandNotFound}
		}
	}()
	return ch
}
