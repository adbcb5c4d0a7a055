// Package hooksession implements the Claude Hook Session Store (C8): a
// cross-process, lock-protected JSON file of active agent sessions with
// TTL pruning (spec §4.8). Locking and atomic-write discipline are
// grounded on the teacher's internal/config atomicWrite (temp file +
// rename) generalized to acquire an exclusive flock for the duration of
// each read-modify-write, per spec §4.8's locking invariants.
package hooksession

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"golang.org/x/sys/unix"

	"cmuxterm/internal/corerr"
)

// ttl is the inactivity window after which a record is pruned (spec §3
// invariant 7, §4.8 invariant 3).
const ttl = 7 * 24 * time.Hour

// Record is one active agent session (spec §3 ClaudeSession).
type Record struct {
	SessionID    string    `json:"session_id"`
	WorkspaceID  uuid.UUID `json:"workspace_id"`
	SurfaceID    uuid.UUID `json:"surface_id"`
	Cwd          string    `json:"cwd,omitempty"`
	LastSubtitle string    `json:"last_subtitle,omitempty"`
	LastBody     string    `json:"last_body,omitempty"`
	StartedAt    time.Time `json:"started_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type fileFormat struct {
	Version  int                `json:"version"`
	Sessions map[string]*Record `json:"sessions"`
}

// Store is the on-disk session store at Path, lock-protected via
// Path+".lock".
type Store struct {
	Path string

	mu      sync.Mutex // held in-process for the duration of the file lock
	now     func() time.Time
	watcher *fsnotify.Watcher
}

// New creates a Store backed by path, creating parent directories as
// needed. It registers an fsnotify watch on path's parent directory, released
// by Close; the watcher's events are not consumed, and every read re-reads
// the file under lock, so writes by other cmux processes are seen that way.
func New(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, corerr.Wrap(corerr.IOError, err, "create hook session directory")
	}
	s := &Store{Path: path, now: time.Now}

	watcher, err := fsnotify.NewWatcher()
	if err == nil {
		if err := watcher.Add(filepath.Dir(path)); err == nil {
			s.watcher = watcher
		} else {
			watcher.Close()
		}
	}
	return s, nil
}

// Close stops the filesystem watch, if any.
func (s *Store) Close() error {
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}

// NormalizeSessionID trims whitespace; an empty result becomes "no
// session" (spec §4.8).
func NormalizeSessionID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return "no session"
	}
	return id
}

// Lookup returns the record for sessionID, if any (spec §4.8 lookup).
func (s *Store) Lookup(sessionID string) (Record, bool, error) {
	sessionID = NormalizeSessionID(sessionID)
	var out Record
	var found bool
	err := s.withLock(func(f *fileFormat) (bool, error) {
		if rec, ok := f.Sessions[sessionID]; ok {
			out, found = *rec, true
		}
		return false, nil
	})
	return out, found, err
}

// Upsert creates or updates a session record (spec §4.8 upsert).
func (s *Store) Upsert(sessionID string, workspaceID, surfaceID uuid.UUID, cwd, lastSubtitle, lastBody string) error {
	sessionID = NormalizeSessionID(sessionID)
	return s.withLock(func(f *fileFormat) (bool, error) {
		now := s.now()
		rec, ok := f.Sessions[sessionID]
		if !ok {
			rec = &Record{SessionID: sessionID, StartedAt: now}
			f.Sessions[sessionID] = rec
		}
		rec.WorkspaceID = workspaceID
		rec.SurfaceID = surfaceID
		if cwd != "" {
			rec.Cwd = cwd
		}
		if lastSubtitle != "" {
			rec.LastSubtitle = lastSubtitle
		}
		if lastBody != "" {
			rec.LastBody = lastBody
		}
		rec.UpdatedAt = now
		return true, nil
	})
}

// ConsumeQuery selects which record Consume removes (spec §4.8 consume).
type ConsumeQuery struct {
	SessionID   string
	WorkspaceID uuid.UUID
	SurfaceID   uuid.UUID
}

// Consume removes and returns the record matching q (spec §4.8 consume
// fallback): exact session_id match first; else the newest record whose
// surface_id matches; else, if exactly one record matches the workspace,
// that one; else none.
func (s *Store) Consume(q ConsumeQuery) (Record, bool, error) {
	var out Record
	var found bool
	err := s.withLock(func(f *fileFormat) (bool, error) {
		if q.SessionID != "" {
			sessionID := NormalizeSessionID(q.SessionID)
			if rec, ok := f.Sessions[sessionID]; ok {
				out, found = *rec, true
				delete(f.Sessions, sessionID)
				return true, nil
			}
		}

		if q.SurfaceID != uuid.Nil {
			var newest *Record
			for _, rec := range f.Sessions {
				if rec.SurfaceID == q.SurfaceID && (newest == nil || rec.UpdatedAt.After(newest.UpdatedAt)) {
					newest = rec
				}
			}
			if newest != nil {
				out, found = *newest, true
				delete(f.Sessions, newest.SessionID)
				return true, nil
			}
		}

		if q.WorkspaceID != uuid.Nil {
			var matches []*Record
			for _, rec := range f.Sessions {
				if rec.WorkspaceID == q.WorkspaceID {
					matches = append(matches, rec)
				}
			}
			if len(matches) == 1 {
				out, found = *matches[0], true
				delete(f.Sessions, matches[0].SessionID)
				return true, nil
			}
		}

		return false, nil
	})
	return out, found, err
}

// withLock acquires the exclusive file lock, reads+prunes the store,
// applies fn, and writes back atomically if fn reports a mutation.
func (s *Store) withLock(fn func(f *fileFormat) (mutated bool, err error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lockPath := s.Path + ".lock"
	lockFile, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return corerr.Wrap(corerr.IOError, err, "open lock file")
	}
	defer lockFile.Close()

	if err := unix.Flock(int(lockFile.Fd()), unix.LOCK_EX); err != nil {
		return corerr.Wrap(corerr.IOError, err, "acquire file lock")
	}
	defer unix.Flock(int(lockFile.Fd()), unix.LOCK_UN)

	f, err := s.readLocked()
	if err != nil {
		return err
	}
	pruneExpired(f, s.now())

	mutated, err := fn(f)
	if err != nil {
		return err
	}
	if mutated {
		return s.writeLocked(f)
	}
	return nil
}

func (s *Store) readLocked() (*fileFormat, error) {
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return &fileFormat{Version: 1, Sessions: map[string]*Record{}}, nil
		}
		return nil, corerr.Wrap(corerr.IOError, err, "read hook session store")
	}
	if len(raw) == 0 {
		return &fileFormat{Version: 1, Sessions: map[string]*Record{}}, nil
	}
	var f fileFormat
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, corerr.Wrap(corerr.ParseError, err, "parse hook session store")
	}
	if f.Sessions == nil {
		f.Sessions = map[string]*Record{}
	}
	return &f, nil
}

func (s *Store) writeLocked(f *fileFormat) error {
	keys := make([]string, 0, len(f.Sessions))
	for k := range f.Sessions {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buf, err := marshalSorted(f, keys)
	if err != nil {
		return corerr.Wrap(corerr.IOError, err, "encode hook session store")
	}

	dir := filepath.Dir(s.Path)
	tmp, err := os.CreateTemp(dir, ".claude-hook-sessions.json.tmp.*")
	if err != nil {
		return corerr.Wrap(corerr.IOError, err, "create temp hook session file")
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(buf); err != nil {
		tmp.Close()
		return corerr.Wrap(corerr.IOError, err, "write hook session store")
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return corerr.Wrap(corerr.IOError, err, "sync hook session store")
	}
	if err := tmp.Close(); err != nil {
		return corerr.Wrap(corerr.IOError, err, "close hook session store")
	}
	if err := os.Rename(tmpPath, s.Path); err != nil {
		return corerr.Wrap(corerr.IOError, err, "rename hook session store")
	}
	return nil
}

// marshalSorted renders the store with session keys sorted, matching the
// "keys sorted, pretty-printed" on-disk layout (spec §6).
func marshalSorted(f *fileFormat, sortedKeys []string) ([]byte, error) {
	type entry struct {
		Key string
		Rec *Record
	}
	entries := make([]entry, 0, len(sortedKeys))
	for _, k := range sortedKeys {
		entries = append(entries, entry{Key: k, Rec: f.Sessions[k]})
	}

	var b strings.Builder
	fmt.Fprintf(&b, "{\n  \"version\": %d,\n  \"sessions\": {\n", f.Version)
	for i, e := range entries {
		recJSON, err := json.MarshalIndent(e.Rec, "    ", "  ")
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&b, "    %q: %s", e.Key, recJSON)
		if i < len(entries)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("  }\n}\n")
	return []byte(b.String()), nil
}

func pruneExpired(f *fileFormat, now time.Time) {
	for id, rec := range f.Sessions {
		if now.Sub(rec.UpdatedAt) > ttl {
			delete(f.Sessions, id)
		}
	}
}
