// Package session keeps the per-user bearer tokens the CLI has collected
// and which one of them is active.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/spf13/afero"
)

const (
	dirName   = "photoapp"
	fileName  = "sessions.json"
	dirPerms  = 0700
	filePerms = 0600
)

// ErrUnknownUser is returned by Use when no session exists for the username.
var ErrUnknownUser = errors.New("no session for that user")

// Entry is one stored login.
type Entry struct {
	Token  string `json:"token"`
	Active bool   `json:"active"`
}

// Session is a display row returned by List.
type Session struct {
	Username string `json:"username"`
	Token    string `json:"token"`
	Active   bool   `json:"active"`
}

// Store is a username to token mapping persisted as JSON on fs.
type Store struct {
	mu      sync.Mutex
	fs      afero.Fs
	path    string
	entries map[string]Entry
}

// DefaultPath returns <user config dir>/photoapp/sessions.json.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, dirName, fileName), nil
}

// Open loads the store at path. A missing file yields an empty store.
func Open(fs afero.Fs, path string) (*Store, error) {
	s := &Store{fs: fs, path: path, entries: map[string]Entry{}}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("reading sessions: %w", err)
	}
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s.entries); err != nil {
		return nil, fmt.Errorf("decoding sessions: %w", err)
	}
	if s.entries == nil {
		s.entries = map[string]Entry{}
	}
	return s, nil
}

// Activate records token for username and makes it the only active session.
func (s *Store) Activate(username, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.copyEntries()
	for name, e := range next {
		e.Active = false
		next[name] = e
	}
	next[username] = Entry{Token: token, Active: true}
	return s.commit(next)
}

// Active returns the active session, if any. A hand-edited file may mark
// several entries active; the first username in sorted order wins.
func (s *Store) Active() (username, token string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if e := s.entries[name]; e.Active {
			return name, e.Token, true
		}
	}
	return "", "", false
}

// Use switches the active session to an existing entry.
func (s *Store) Use(username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[username]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownUser, username)
	}

	next := s.copyEntries()
	for name, e := range next {
		e.Active = name == username
		next[name] = e
	}
	return s.commit(next)
}

// List returns every session sorted by username.
func (s *Store) List() []Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Session, 0, len(s.entries))
	for name, e := range s.entries {
		out = append(out, Session{Username: name, Token: e.Token, Active: e.Active})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}

// ClearAll forgets every session.
func (s *Store) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.commit(map[string]Entry{})
}

func (s *Store) copyEntries() map[string]Entry {
	next := make(map[string]Entry, len(s.entries))
	for name, e := range s.entries {
		next[name] = e
	}
	return next
}

// commit persists next and only then swaps it in, so a failed write
// leaves both the file and the in-memory state untouched.
func (s *Store) commit(next map[string]Entry) error {
	if err := s.save(next); err != nil {
		return err
	}
	s.entries = next
	return nil
}

func (s *Store) save(entries map[string]Entry) error {
	dir := filepath.Dir(s.path)
	if err := s.fs.MkdirAll(dir, dirPerms); err != nil {
		return fmt.Errorf("creating session dir: %w", err)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := afero.TempFile(s.fs, dir, fileName+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("writing sessions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("writing sessions: %w", err)
	}
	if err := s.fs.Chmod(tmpName, filePerms); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("writing sessions: %w", err)
	}
	if err := s.fs.Rename(tmpName, s.path); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("replacing sessions file: %w", err)
	}
	return nil
}
