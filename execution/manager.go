// Package execution serializes message handling per sender so that each
// sender's state transitions stay linear.
package execution

import (
	"sync"

	"github.com/rs/zerolog/log"
)

type userLock struct {
	mu      sync.Mutex
	waiters int
}

type Manager struct {
	userLocks map[string]*userLock
	mutex     sync.Mutex
}

func NewManager() *Manager {
	return &Manager{
		userLocks: make(map[string]*userLock),
	}
}

// Lock blocks until userID is free and returns the function that releases
// it. Different users never block each other.
func (m *Manager) Lock(userID string) func() {
	m.mutex.Lock()
	l, exists := m.userLocks[userID]
	if !exists {
		l = &userLock{}
		m.userLocks[userID] = l
	}
	l.waiters++
	if l.waiters > 1 {
		log.Debug().Str("user_id", userID).Int("waiters", l.waiters).Msg("Waiting for previous message of user")
	}
	m.mutex.Unlock()

	l.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Unlock()
			m.release(userID, l)
		})
	}
}

func (m *Manager) release(userID string, l *userLock) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	l.waiters--
	if l.waiters == 0 && m.userLocks[userID] == l {
		delete(m.userLocks, userID)
	}
}

// Active returns the number of users with a message in flight or waiting.
func (m *Manager) Active() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.userLocks)
}
