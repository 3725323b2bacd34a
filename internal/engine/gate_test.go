package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conshell/internal/cmdtree"
)

func TestCheckAccess(t *testing.T) {
	root := testTree()

	locate := func(t *testing.T, text string) PathStack {
		t.Helper()
		var p PathStack
		stack, _, err := p.Locate(root, text)
		require.NoError(t, err)
		return stack
	}

	tests := []struct {
		name    string
		target  string
		granted cmdtree.Level
		denied  bool
	}{
		{name: "root passes for guest", target: ".", granted: cmdtree.LevelGuest},
		{name: "exact level is sufficient", target: "system/status", granted: cmdtree.LevelUser},
		{name: "higher level passes", target: "system/status", granted: cmdtree.LevelAdmin},
		{name: "guest denied at the directory segment", target: "system/status", granted: cmdtree.LevelGuest, denied: true},
		{name: "user denied at the admin leaf", target: "system/reboot", granted: cmdtree.LevelUser, denied: true},
		{name: "admin allowed through", target: "system/reboot", granted: cmdtree.LevelAdmin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckAccess(root, locate(t, tt.target), tt.granted)
			if tt.denied {
				assert.ErrorIs(t, err, ErrAccessDenied)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCheckAccess_DeniesIntermediateSegment(t *testing.T) {
	// A low-privilege command beneath a high-privilege directory must
	// not be reachable: the gate checks every segment, not the leaf.
	root := &cmdtree.Directory{
		Name: "/", Level: cmdtree.LevelGuest,
		Children: []cmdtree.Node{
			&cmdtree.Directory{
				Name: "vault", Level: cmdtree.LevelAdmin,
				Children: []cmdtree.Node{
					&cmdtree.Command{Name: "peek", Level: cmdtree.LevelGuest},
				},
			},
		},
	}

	var p PathStack
	stack, _, err := p.Locate(root, "vault/peek")
	require.NoError(t, err)

	assert.ErrorIs(t, CheckAccess(root, stack, cmdtree.LevelUser), ErrAccessDenied)
	assert.NoError(t, CheckAccess(root, stack, cmdtree.LevelAdmin))
}
