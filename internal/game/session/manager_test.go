package session

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestManager_AcquireAndRelease(t *testing.T) {
	m := NewManager()
	release, err := m.Acquire(ActivityAdventure, now, "u1")
	require.NoError(t, err)

	s, ok := m.Get("u1")
	require.True(t, ok)
	assert.Equal(t, ActivityAdventure, s.Activity)
	assert.Equal(t, now, s.Since)
	assert.Equal(t, 1, m.Count())

	release()
	release()
	_, ok = m.Get("u1")
	assert.False(t, ok)
	assert.Zero(t, m.Count())
}

func TestManager_AcquireBusy(t *testing.T) {
	m := NewManager()
	_, err := m.Acquire(ActivityAdventure, now, "u1")
	require.NoError(t, err)

	_, err = m.Acquire(ActivityDuel, now, "u2", "u1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBusy)
	var busy *BusyError
	require.True(t, errors.As(err, &busy))
	assert.Equal(t, "u1", busy.UserID)
	assert.Equal(t, ActivityAdventure, busy.Activity)

	_, ok := m.Get("u2")
	assert.False(t, ok, "a failed acquire takes nothing")
}

func TestManager_AcquireRejectsBadInput(t *testing.T) {
	m := NewManager()
	_, err := m.Acquire(ActivityDuel, now)
	assert.Error(t, err)
	_, err = m.Acquire(ActivityDuel, now, "")
	assert.Error(t, err)
	_, err = m.Acquire(ActivityDuel, now, "u1", "u1")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrBusy)
	assert.Zero(t, m.Count())
}

func TestManager_ReleaseLeavesOthers(t *testing.T) {
	m := NewManager()
	r1, err := m.Acquire(ActivityDuel, now, "a", "b")
	require.NoError(t, err)
	_, err = m.Acquire(ActivityRest, now, "c")
	require.NoError(t, err)

	r1()
	all := m.All()
	require.Len(t, all, 1)
	assert.Equal(t, "c", all[0].UserID)
}

func TestManager_ConcurrentAcquireSingleWinner(t *testing.T) {
	m := NewManager()
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := m.Acquire(ActivityAdventure, now, "same"); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}

func TestProperty_CountMatchesHeld(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		m := NewManager()
		held := map[string]func(){}
		ops := rapid.IntRange(1, 40).Draw(rt, "ops")
		for i := 0; i < ops; i++ {
			id := fmt.Sprintf("u%d", rapid.IntRange(0, 5).Draw(rt, "user"))
			if release, ok := held[id]; ok && rapid.Bool().Draw(rt, "release") {
				release()
				delete(held, id)
				continue
			}
			release, err := m.Acquire(ActivityAdventure, now, id)
			_, wasHeld := held[id]
			if wasHeld != (err != nil) {
				rt.Fatalf("acquire %s: held=%v err=%v", id, wasHeld, err)
			}
			if err == nil {
				held[id] = release
			}
		}
		if m.Count() != len(held) {
			rt.Fatalf("count %d, held %d", m.Count(), len(held))
		}
	})
}
