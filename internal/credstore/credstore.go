// Package credstore loads the shell's credential file: a small YAML
// document mapping usernames to salted PBKDF2-SHA256 hashes and access
// levels. The store is read once at startup and is read-only from the
// engine's point of view; the engine performs the actual constant-time
// comparison.
package credstore

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"conshell/internal/cmdtree"
	"conshell/internal/engine"
)

const saltLen = 16

type userRecord struct {
	Name  string `yaml:"name"`
	Level string `yaml:"level"`
	Salt  string `yaml:"salt"` // hex
	Hash  string `yaml:"hash"` // hex, PBKDF2-SHA256
}

type credFile struct {
	Users []userRecord `yaml:"users"`
}

// Store implements engine.Credentials over a parsed credential file.
type Store struct {
	users map[string]engine.Cred
}

// Load reads and parses the credential file at path.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading credentials: %w", err)
	}
	return Parse(data)
}

// Parse builds a Store from raw YAML.
func Parse(data []byte) (*Store, error) {
	var f credFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing credentials: %w", err)
	}
	s := &Store{users: make(map[string]engine.Cred, len(f.Users))}
	for _, u := range f.Users {
		if u.Name == "" {
			return nil, fmt.Errorf("credential entry with empty name")
		}
		level, err := cmdtree.ParseLevel(u.Level)
		if err != nil {
			return nil, fmt.Errorf("user %s: %w", u.Name, err)
		}
		salt, err := hex.DecodeString(u.Salt)
		if err != nil {
			return nil, fmt.Errorf("user %s: bad salt: %w", u.Name, err)
		}
		hash, err := hex.DecodeString(u.Hash)
		if err != nil {
			return nil, fmt.Errorf("user %s: bad hash: %w", u.Name, err)
		}
		s.users[u.Name] = engine.Cred{Salt: salt, Hash: hash, Level: level}
	}
	return s, nil
}

// Lookup implements engine.Credentials.
func (s *Store) Lookup(user string) (engine.Cred, bool) {
	c, ok := s.users[user]
	return c, ok
}

// Stanza produces a ready-to-paste YAML entry for one user, used by
// the --hash provisioning flag.
func Stanza(name, password string, level cmdtree.Level) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}
	hash := engine.DeriveKey(password, salt)
	return fmt.Sprintf("  - name: %s\n    level: %s\n    salt: %s\n    hash: %s\n",
		name, level, hex.EncodeToString(salt), hex.EncodeToString(hash)), nil
}
