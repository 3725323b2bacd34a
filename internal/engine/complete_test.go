package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggest(t *testing.T) {
	root := testTree()
	globals := []string{"ls", "?", "clear", "logout"}

	tests := []struct {
		name    string
		partial string
		max     int
		want    []string
	}{
		{
			name:    "prefix over children in tree order",
			partial: "s",
			max:     8,
			want:    []string{"system"},
		},
		{
			name:    "empty partial lists all children",
			partial: "",
			max:     8,
			want:    []string{"echo", "system", "net"},
		},
		{
			name:    "empty partial capped at max without error",
			partial: "",
			max:     2,
			want:    []string{"echo", "system"},
		},
		{
			name:    "globals match after children",
			partial: "l",
			max:     8,
			want:    []string{"ls", "logout"},
		},
		{
			name:    "case sensitive",
			partial: "S",
			max:     8,
			want:    nil,
		},
		{
			name:    "no candidates",
			partial: "zzz",
			max:     8,
			want:    nil,
		},
		{
			name:    "disabled subsystem always yields nothing",
			partial: "s",
			max:     0,
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Suggest(root, globals, tt.partial, tt.max)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSuggest_NilDirectory(t *testing.T) {
	assert.Nil(t, Suggest(nil, nil, "x", 8))
}
