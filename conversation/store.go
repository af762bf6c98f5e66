package conversation

import (
	"context"
	"sort"
	"sync"
)

// Store is keyed storage of conversation records.
//
// Get never fails: an absent or unreadable record comes back as an empty
// Conversation. Update replaces the whole record atomically. Implementations
// do not serialize concurrent read-modify-write cycles for the same sender;
// callers hold a per-sender lock for that (see execution.Manager).
type Store interface {
	Get(ctx context.Context, sender string) Conversation
	Update(ctx context.Context, sender string, conv Conversation) error
	Delete(ctx context.Context, sender string) error
	List(ctx context.Context) ([]string, error)
}

// MemoryStore keeps records in process memory. Used in tests and local mode.
type MemoryStore struct {
	conversations map[string]Conversation
	mutex         sync.RWMutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		conversations: make(map[string]Conversation),
	}
}

func (m *MemoryStore) Get(_ context.Context, sender string) Conversation {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.conversations[sender].Clone()
}

func (m *MemoryStore) Update(_ context.Context, sender string, conv Conversation) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.conversations[sender] = conv.Clone()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, sender string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.conversations, sender)
	return nil
}

func (m *MemoryStore) List(_ context.Context) ([]string, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return sortedKeys(m.conversations), nil
}

// Has reports whether a record exists for sender.
func (m *MemoryStore) Has(sender string) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	_, ok := m.conversations[sender]
	return ok
}

func sortedKeys(conversations map[string]Conversation) []string {
	senders := make([]string, 0, len(conversations))
	for sender := range conversations {
		senders = append(senders, sender)
	}
	sort.Strings(senders)
	return senders
}
