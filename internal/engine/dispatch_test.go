package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		maxArgs  int
		wantCmd  string
		wantArgs []string
		wantErr  error
	}{
		{name: "empty line", line: "", maxArgs: 4, wantCmd: ""},
		{name: "whitespace only", line: "   \t ", maxArgs: 4, wantCmd: ""},
		{name: "bare command", line: "status", maxArgs: 4, wantCmd: "status"},
		{
			name: "command with args", line: "ping host 3", maxArgs: 4,
			wantCmd: "ping", wantArgs: []string{"host", "3"},
		},
		{
			name: "runs of whitespace collapse", line: "  echo   a\t b ", maxArgs: 4,
			wantCmd: "echo", wantArgs: []string{"a", "b"},
		},
		{
			name: "at the arg limit", line: "echo a b c d", maxArgs: 4,
			wantCmd: "echo", wantArgs: []string{"a", "b", "c", "d"},
		},
		{name: "over the arg limit", line: "echo a b c d e", maxArgs: 4, wantErr: ErrTooManyArgs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, args, err := tokenize(tt.line, tt.maxArgs)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCmd, cmd)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestGlobalNames(t *testing.T) {
	assert.Equal(t, []string{"ls", "?", "clear", "logout"}, globalNames(true))
	assert.Equal(t, []string{"ls", "?", "clear"}, globalNames(false),
		"logout is reserved only when access control is enabled")
}
