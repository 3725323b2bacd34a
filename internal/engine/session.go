package engine

import (
	"crypto/sha256"
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/pbkdf2"

	"conshell/internal/cmdtree"
)

// SessionState is the shell's lifecycle state.
type SessionState uint8

const (
	// SessionInactive: the shell ignores all input.
	SessionInactive SessionState = iota
	// SessionLoggedOut: submitted lines are username:password attempts.
	SessionLoggedOut
	// SessionLoggedIn: submitted lines are commands.
	SessionLoggedIn
)

// PBKDF2 parameters shared by the engine and whatever provisions the
// credential file. Changing these invalidates stored hashes.
const (
	pbkdf2Iterations = 4096
	pbkdf2KeyLen     = 32
)

// DeriveKey turns a password into the stored-hash form.
func DeriveKey(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, pbkdf2KeyLen, sha256.New)
}

// deriveKey is what Login actually calls; tests swap it to count that
// the known-user and unknown-user paths do identical work.
var deriveKey = DeriveKey

// Cred is one credential record as handed back by the external store.
type Cred struct {
	Salt  []byte
	Hash  []byte // PBKDF2-SHA256(password, Salt)
	Level cmdtree.Level
}

// Credentials is the external credential store. Lookup only reports
// existence and the stored record; all comparison happens here.
type Credentials interface {
	Lookup(user string) (Cred, bool)
}

// dummy record used when the username does not exist, so that the
// failed-lookup path derives and compares exactly like the real one.
var (
	dummySalt = []byte("conshell.nouser.")
	dummyHash = make([]byte, pbkdf2KeyLen)
)

// Session tracks the granted identity and lifecycle state of one shell
// instance. A nil credential store means access control is disabled:
// activation lands straight in LoggedIn with no identity and the gate
// is never consulted.
type Session struct {
	creds Credentials
	state SessionState
	level cmdtree.Level
}

func NewSession(creds Credentials) *Session {
	return &Session{creds: creds}
}

func (s *Session) State() SessionState { return s.state }

// AuthEnabled reports whether a credential store is wired in.
func (s *Session) AuthEnabled() bool { return s.creds != nil }

// Level returns the granted access level. Only meaningful in LoggedIn
// with auth enabled; callers skip the gate entirely when auth is off.
func (s *Session) Level() cmdtree.Level { return s.level }

// Activate moves Inactive -> LoggedOut (auth enabled) or LoggedIn
// (auth disabled, identity absent).
func (s *Session) Activate() {
	if s.creds != nil {
		s.state = SessionLoggedOut
	} else {
		s.state = SessionLoggedIn
	}
	s.level = cmdtree.LevelGuest
}

// Deactivate unconditionally clears identity and returns to Inactive.
// Valid from any state.
func (s *Session) Deactivate() {
	s.state = SessionInactive
	s.level = cmdtree.LevelGuest
}

// Login interprets a submitted line as username:password. The password
// hash comparison runs in constant time, and a nonexistent username
// still pays for a full derivation and comparison so the two failure
// modes are indistinguishable, in both timing and message.
func (s *Session) Login(line string) error {
	user, pass, ok := strings.Cut(line, ":")
	if !ok {
		return ErrInvalidLoginFormat
	}

	rec, found := Cred{Salt: dummySalt, Hash: dummyHash}, false
	if s.creds != nil {
		if r, ok := s.creds.Lookup(user); ok {
			rec, found = r, true
		}
	}

	key := deriveKey(pass, rec.Salt)
	match := subtle.ConstantTimeCompare(key, rec.Hash)
	if found && match == 1 {
		s.state = SessionLoggedIn
		s.level = rec.Level
		return nil
	}
	return ErrLoginFailed
}

// Logout drops the identity and returns to LoggedOut. With auth
// disabled there is no identity to drop and the session stays LoggedIn.
func (s *Session) Logout() {
	if s.creds == nil {
		return
	}
	s.state = SessionLoggedOut
	s.level = cmdtree.LevelGuest
}
