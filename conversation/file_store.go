package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"
)

// FileStore keeps every record in memory and rewrites a single JSON file on
// each change, so state survives process restarts.
type FileStore struct {
	path          string
	conversations map[string]Conversation
	mutex         sync.RWMutex
}

// NewFileStore loads path if it exists. A missing file starts empty; a
// corrupt or unreadable file is logged and also starts empty.
func NewFileStore(path string) *FileStore {
	return &FileStore{
		path:          path,
		conversations: loadState(path),
	}
}

func loadState(path string) map[string]Conversation {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Info().Str("path", path).Msg("No state file found, starting fresh")
		} else {
			log.Error().Err(err).Str("path", path).Msg("Failed to read state file, starting fresh")
		}
		return make(map[string]Conversation)
	}

	conversations := make(map[string]Conversation)
	if err := json.Unmarshal(data, &conversations); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Corrupted state file, starting fresh")
		return make(map[string]Conversation)
	}

	log.Info().
		Str("path", path).
		Int("conversations", len(conversations)).
		Msg("Loaded conversation state")

	return conversations
}

func (f *FileStore) Get(_ context.Context, sender string) Conversation {
	f.mutex.RLock()
	defer f.mutex.RUnlock()
	return f.conversations[sender].Clone()
}

func (f *FileStore) Update(_ context.Context, sender string, conv Conversation) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	f.conversations[sender] = conv.Clone()
	return f.save()
}

func (f *FileStore) Delete(_ context.Context, sender string) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if _, ok := f.conversations[sender]; !ok {
		return nil
	}
	delete(f.conversations, sender)
	return f.save()
}

func (f *FileStore) List(_ context.Context) ([]string, error) {
	f.mutex.RLock()
	defer f.mutex.RUnlock()
	return sortedKeys(f.conversations), nil
}

// save must be called with the write lock held. The file is replaced through
// a rename so readers never see a half-written document.
func (f *FileStore) save() error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(f.conversations, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp state file: %w", err)
	}

	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace state file: %w", err)
	}

	log.Debug().Int("conversations", len(f.conversations)).Msg("Saved conversation state")
	return nil
}
