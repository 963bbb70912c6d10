// Package session holds the signed-in shopper: a bearer token and the user
// record it was issued for, persisted under the "session" key.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/ikkim/storefront/internal/client/kvstore"
	"github.com/ikkim/storefront/pkg/logger"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

var ErrIncomplete = errors.New("session: token and user id are required")

type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Session is either fully present or absent; a zero Session is never stored.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

func (s Session) Valid() bool {
	return s.Token != "" && s.User.ID != ""
}

// Listener receives the session after every Load, Save and Clear. A nil
// session means signed out.
type Listener func(*Session)

type Store struct {
	kv kvstore.Store

	mu        sync.RWMutex
	current   *Session
	loaded    bool
	listeners map[int]Listener
	nextID    int
}

func NewStore(kv kvstore.Store) *Store {
	return &Store{
		kv:        kv,
		listeners: make(map[int]Listener),
	}
}

// Load reads the persisted session. A record that does not decode, or that
// decodes into a partial session, is purged and treated as signed out.
// Only storage failures are returned.
func (s *Store) Load(ctx context.Context) (*Session, error) {
	data, err := s.kv.Get(ctx, kvstore.KeySession)
	switch {
	case errors.Is(err, kvstore.ErrNotFound):
		s.set(nil)
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("load session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil || !sess.Valid() {
		reason := "incomplete session"
		if err != nil {
			reason = err.Error()
		}
		logger.Warn("Discarding unreadable session", map[string]interface{}{
			"reason": reason,
		})
		if err := s.kv.Delete(ctx, kvstore.KeySession); err != nil {
			return nil, fmt.Errorf("purge session: %w", err)
		}
		s.set(nil)
		return nil, nil
	}

	s.set(&sess)
	return copySession(&sess), nil
}

// Save persists sess and makes it current.
func (s *Store) Save(ctx context.Context, sess Session) error {
	if !sess.Valid() {
		return ErrIncomplete
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.kv.Set(ctx, kvstore.KeySession, data); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	s.set(&sess)
	return nil
}

// Clear removes the persisted and the in-memory session.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, kvstore.KeySession); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.set(nil)
	return nil
}

// Current returns the signed-in session, if any.
func (s *Store) Current() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return Session{}, false
	}
	return *s.current, true
}

// Loaded reports whether Load has completed at least once.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// set swaps the current session and notifies listeners outside the lock.
func (s *Store) set(sess *Session) {
	s.mu.Lock()
	s.current = copySession(sess)
	s.loaded = true
	listeners := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(copySession(sess))
	}
}

func copySession(sess *Session) *Session {
	if sess == nil {
		return nil
	}
	c := *sess
	return &c
}
