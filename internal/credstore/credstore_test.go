package credstore

import (
	"crypto/subtle"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conshell/internal/cmdtree"
	"conshell/internal/engine"
)

func TestParseAndLookup(t *testing.T) {
	// Hashes generated with engine.DeriveKey("secret"/"hunter2", salt).
	salt := []byte("0123456789abcdef")
	aliceHash := engine.DeriveKey("secret", salt)
	bobHash := engine.DeriveKey("hunter2", salt)

	doc := "users:\n" +
		"  - name: alice\n    level: admin\n" +
		"    salt: " + hex.EncodeToString(salt) + "\n    hash: " + hex.EncodeToString(aliceHash) + "\n" +
		"  - name: bob\n    level: user\n" +
		"    salt: " + hex.EncodeToString(salt) + "\n    hash: " + hex.EncodeToString(bobHash) + "\n"

	store, err := Parse([]byte(doc))
	require.NoError(t, err)

	cred, ok := store.Lookup("alice")
	require.True(t, ok)
	assert.Equal(t, cmdtree.LevelAdmin, cred.Level)
	assert.Equal(t, 1, subtle.ConstantTimeCompare(cred.Hash, aliceHash))

	cred, ok = store.Lookup("bob")
	require.True(t, ok)
	assert.Equal(t, cmdtree.LevelUser, cred.Level)

	_, ok = store.Lookup("mallory")
	assert.False(t, ok)
}

func TestParseRejectsBadEntries(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "not yaml", doc: "users: ["},
		{name: "empty name", doc: "users:\n  - name: \"\"\n    level: user\n    salt: 00\n    hash: 00\n"},
		{name: "bad level", doc: "users:\n  - name: a\n    level: root\n    salt: 00\n    hash: 00\n"},
		{name: "bad salt hex", doc: "users:\n  - name: a\n    level: user\n    salt: zz\n    hash: 00\n"},
		{name: "bad hash hex", doc: "users:\n  - name: a\n    level: user\n    salt: 00\n    hash: zz\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestStanzaRoundTrip(t *testing.T) {
	stanza, err := Stanza("carol", "pa55word", cmdtree.LevelUser)
	require.NoError(t, err)

	store, err := Parse([]byte("users:\n" + stanza))
	require.NoError(t, err)

	cred, ok := store.Lookup("carol")
	require.True(t, ok)
	assert.Equal(t, cmdtree.LevelUser, cred.Level)
	assert.Len(t, cred.Salt, saltLen)

	// The stored hash verifies against the original password and
	// nothing else.
	assert.Equal(t, 1, subtle.ConstantTimeCompare(cred.Hash, engine.DeriveKey("pa55word", cred.Salt)))
	assert.Equal(t, 0, subtle.ConstantTimeCompare(cred.Hash, engine.DeriveKey("wrong", cred.Salt)))
}
