package nordia

import (
	"context"
	"path/filepath"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gonzacha/nordia-whatsapp-ia/config"
	"github.com/gonzacha/nordia-whatsapp-ia/conversation"
	"github.com/gonzacha/nordia-whatsapp-ia/processor"
	"github.com/gonzacha/nordia-whatsapp-ia/redis"
)

func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()

	dir := t.TempDir()
	return &config.Config{
		Port:           "0",
		LocalMode:      true,
		AdminWhitelist: []string{"5493794281273"},
		StateBackend:   backend,
		StateFile:      filepath.Join(dir, "conversations_state.json"),
		DraftsDBPath:   filepath.Join(dir, "nordia.db"),
	}
}

func TestNewWiresLocalApp(t *testing.T) {
	ctx := context.Background()
	app, err := New(ctx, testConfig(t, config.StateBackendFile))
	require.NoError(t, err)
	t.Cleanup(app.Close)

	reply, err := app.messageProcessor.ProcessLocalTestMessage(ctx, processor.InboundMessage{
		From:        "5493794281273",
		MessageType: "text",
		Text:        "activar cliente",
	})
	require.NoError(t, err)
	assert.Contains(t, reply, "Nombre del cliente")

	assert.IsType(t, &conversation.FileStore{}, app.messageProcessor.GetStore())
	assert.Equal(t, conversation.StateActivationName, app.messageProcessor.GetStore().Get(ctx, "5493794281273").State)
}

func TestStateBackends(t *testing.T) {
	mr := miniredis.RunT(t)

	testCases := []struct {
		backend  string
		expected conversation.Store
	}{
		{backend: config.StateBackendMemory, expected: &conversation.MemoryStore{}},
		{backend: config.StateBackendFile, expected: &conversation.FileStore{}},
		{backend: config.StateBackendRedis, expected: &redis.Client{}},
	}

	for _, tc := range testCases {
		t.Run(tc.backend, func(t *testing.T) {
			cfg := testConfig(t, tc.backend)
			cfg.RedisAddr = mr.Addr()

			app := &App{config: cfg}
			t.Cleanup(app.Close)

			store, history, err := app.newStateBackends(context.Background())
			require.NoError(t, err)
			assert.IsType(t, tc.expected, store)
			assert.NotNil(t, history)
		})
	}
}

func TestStateBackendRedisUnavailable(t *testing.T) {
	cfg := testConfig(t, config.StateBackendRedis)
	cfg.RedisAddr = "127.0.0.1:1"

	app := &App{config: cfg}
	_, _, err := app.newStateBackends(context.Background())

	assert.Error(t, err)
}
