// Package session tracks which chat users are busy with a long-running
// command, so one user never plays two battles at once.
package session

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Activity names what a user is busy with.
type Activity string

const (
	// ActivityStart is character creation.
	ActivityStart Activity = "start"
	// ActivityAdventure is an adventure, battle included.
	ActivityAdventure Activity = "adventure"
	// ActivityRest is a rest.
	ActivityRest Activity = "rest"
	// ActivityDuel is a friendly battle between two players.
	ActivityDuel Activity = "duel"
)

// ErrBusy matches every *BusyError.
var ErrBusy = errors.New("user is busy")

// BusyError reports the user that blocked an Acquire and what they are doing.
type BusyError struct {
	UserID   string
	Activity Activity
}

func (e *BusyError) Error() string {
	return fmt.Sprintf("user %q is busy with %s", e.UserID, e.Activity)
}

// Is reports whether target is ErrBusy.
func (e *BusyError) Is(target error) bool { return target == ErrBusy }

// Session is one user's current activity.
type Session struct {
	UserID   string
	Activity Activity
	Since    time.Time
}

// Manager tracks all active sessions.
// All methods are safe for concurrent use.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]Session // userID -> session
}

// NewManager creates an empty session Manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]Session)}
}

// Acquire marks every user in userIDs busy with activity, all or none.
//
// Precondition: userIDs must be non-empty and hold no empty or repeated ID.
// Postcondition: On success release frees exactly the sessions acquired and
// may be called more than once; otherwise nothing changes, and the error is a
// *BusyError naming the first busy user when one was busy.
func (m *Manager) Acquire(activity Activity, now time.Time, userIDs ...string) (release func(), err error) {
	if len(userIDs) == 0 {
		return nil, errors.New("acquire needs at least one user")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, id := range userIDs {
		if id == "" {
			return nil, errors.New("user id must not be empty")
		}
		for _, prev := range userIDs[:i] {
			if prev == id {
				return nil, fmt.Errorf("user %q listed twice", id)
			}
		}
		if s, busy := m.sessions[id]; busy {
			return nil, &BusyError{UserID: id, Activity: s.Activity}
		}
	}
	for _, id := range userIDs {
		m.sessions[id] = Session{UserID: id, Activity: activity, Since: now}
	}

	ids := append([]string(nil), userIDs...)
	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			for _, id := range ids {
				delete(m.sessions, id)
			}
		})
	}, nil
}

// Get returns the session of userID.
func (m *Manager) Get(userID string) (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[userID]
	return s, ok
}

// Count returns the number of busy users.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// All returns every session ordered by user ID.
func (m *Manager) All() []Session {
	m.mu.RLock()
	out := make([]Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	m.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}
