package device

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conshell/internal/cmdtree"
	"conshell/internal/engine"
)

func TestTreeShape(t *testing.T) {
	root := Tree()

	sys, _, ok := root.Child("system")
	require.True(t, ok)
	sysDir, ok := sys.(*cmdtree.Directory)
	require.True(t, ok)
	assert.Equal(t, cmdtree.LevelUser, sysDir.Level)

	reboot, _, ok := sysDir.Child("reboot")
	require.True(t, ok)
	cmd, ok := reboot.(*cmdtree.Command)
	require.True(t, ok)
	assert.Equal(t, cmdtree.LevelAdmin, cmd.Level)
	assert.Equal(t, cmdtree.Suspendable, cmd.Kind)
	assert.Zero(t, cmd.MaxArgs, "reboot takes no arguments")
}

// Every command in the tree must have a body in the executor; a name
// falling through to the defensive fallback means the two drifted.
func TestTreeAndExecutorAgree(t *testing.T) {
	e := NewExecutor()
	e.rebootDelay = 0

	var check func(dir *cmdtree.Directory)
	check = func(dir *cmdtree.Directory) {
		for _, child := range dir.Children {
			switch n := child.(type) {
			case *cmdtree.Directory:
				check(n)
			case *cmdtree.Command:
				args := make([]string, n.MinArgs)
				for i := range args {
					args[i] = "host"
				}
				if n.Kind == cmdtree.Suspendable {
					res := <-e.ExecAsync(n.Name, args)
					assert.NotErrorIs(t, res.Err, engine.ErrCommandNotFound, n.Name)
				} else {
					_, err := e.Exec(n.Name, args)
					assert.NotErrorIs(t, err, engine.ErrCommandNotFound, n.Name)
				}
			}
		}
	}
	check(Tree())
}

func TestExecutor_Sync(t *testing.T) {
	e := NewExecutor()

	out, err := e.Exec("echo", []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, "a b", out)

	_, err = e.Exec("nonsense", nil)
	assert.ErrorIs(t, err, engine.ErrCommandNotFound)
}

func TestExecutor_Ping(t *testing.T) {
	e := NewExecutor()
	select {
	case res := <-e.ExecAsync("ping", []string{"10.0.0.1", "1"}):
		require.NoError(t, res.Err)
		assert.Contains(t, res.Output, "10.0.0.1")
		assert.Contains(t, res.Output, "1 packets")
	case <-time.After(2 * time.Second):
		t.Fatal("ping never completed")
	}
}
