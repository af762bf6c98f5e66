package execution

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLockSerializesSameUser(t *testing.T) {
	m := NewManager()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
	)

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := m.Lock("549111")
			defer unlock()

			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
		}()
	}

	wg.Wait()
	assert.Equal(t, 1, maxSeen)
	assert.Equal(t, 0, m.Active())
}

func TestLockDoesNotBlockOtherUsers(t *testing.T) {
	m := NewManager()

	unlockA := m.Lock("549111")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlockB := m.Lock("549222")
		unlockB()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock for a different user blocked")
	}
}

func TestUnlockIsIdempotent(t *testing.T) {
	m := NewManager()

	unlock := m.Lock("549111")
	unlock()
	unlock()

	assert.Equal(t, 0, m.Active())

	relock := m.Lock("549111")
	assert.Equal(t, 1, m.Active())
	relock()
}
