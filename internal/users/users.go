// Package users is the persisted username -> password-hash ledger. The whole
// mapping lives in one YAML file and is rewritten atomically on every
// mutation; plaintext passwords never touch disk.
package users

import (
	"errors"
	"io/fs"
	"os"
	"sort"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"inkwell/internal/fsutil"
)

var (
	ErrUserExists         = errors.New("username is already taken")
	ErrEmptyUsername      = errors.New("username must not be empty")
	ErrEmptyPassword      = errors.New("password must not be empty")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Ledger holds the credential map and its backing file.
type Ledger struct {
	mu    sync.Mutex
	path  string
	cost  int
	creds map[string]string // username -> bcrypt hash
}

// Open loads the ledger at path, creating an empty file on first boot. cost
// is the bcrypt cost for newly registered passwords (tests pass
// bcrypt.MinCost).
func Open(path string, cost int) (*Ledger, error) {
	l := &Ledger{path: path, cost: cost, creds: map[string]string{}}
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := l.persist(); err != nil {
			return nil, err
		}
		return l, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(b, &l.creds); err != nil {
		return nil, err
	}
	if l.creds == nil {
		l.creds = map[string]string{}
	}
	return l, nil
}

// Verify reports whether the password matches the stored hash for username.
// Absent users verify false.
func (l *Ledger) Verify(username, password string) bool {
	l.mu.Lock()
	hash, ok := l.creds[username]
	l.mu.Unlock()
	if !ok {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Register stores a new user with a freshly computed hash. Blank usernames
// and passwords are rejected before any hashing happens.
func (l *Ledger) Register(username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ErrEmptyUsername
	}
	if password == "" {
		return ErrEmptyPassword
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.creds[username]; ok {
		return ErrUserExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), l.cost)
	if err != nil {
		return err
	}
	l.creds[username] = string(hash)
	return l.persist()
}

// Remove deletes a user. Removing an absent user is a no-op.
func (l *Ledger) Remove(username string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.creds[username]; !ok {
		return nil
	}
	delete(l.creds, username)
	return l.persist()
}

// Exists reports whether username is registered.
func (l *Ledger) Exists(username string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.creds[username]
	return ok
}

// Names returns all registered usernames, sorted.
func (l *Ledger) Names() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	names := make([]string, 0, len(l.creds))
	for n := range l.creds {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// persist rewrites the whole file. Callers other than Open hold l.mu.
func (l *Ledger) persist() error {
	b, err := yaml.Marshal(l.creds)
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(l.path, b, 0o600)
}
