package server

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gonzacha/nordia-whatsapp-ia/conversation"
	"github.com/gonzacha/nordia-whatsapp-ia/dispatcher"
	"github.com/gonzacha/nordia-whatsapp-ia/drafts"
	"github.com/gonzacha/nordia-whatsapp-ia/engine"
	"github.com/gonzacha/nordia-whatsapp-ia/execution"
	"github.com/gonzacha/nordia-whatsapp-ia/metrics"
	"github.com/gonzacha/nordia-whatsapp-ia/processor"
)

const (
	adminNumber = "5493794281273"
	verifyToken = "verify-me"
	appSecret   = "app-secret"
)

type testEnv struct {
	server    *Server
	messenger *processor.MockMessenger
	store     *conversation.MemoryStore
	drafts    *drafts.Store
}

func newTestEnv(t *testing.T, cfg Config) *testEnv {
	t.Helper()

	draftStore, err := drafts.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = draftStore.Close() })

	reg := prometheus.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(reg)

	store := conversation.NewMemoryStore()
	d := dispatcher.New([]string{adminNumber}, nil, dispatcher.DefaultAdminCommands)
	e := engine.New(store, d, draftStore, engine.WithRecorder(recorder), engine.WithLogger(zerolog.Nop()))

	messenger := &processor.MockMessenger{}
	mp := processor.NewMessageProcessor(messenger, processor.NewMemoryHistory(), e, store, execution.NewManager(), recorder)

	return &testEnv{
		server:    New(cfg, mp, draftStore, nil, reg),
		messenger: messenger,
		store:     store,
		drafts:    draftStore,
	}
}

func (env *testEnv) do(t *testing.T, req *http.Request) (*http.Response, string) {
	t.Helper()

	resp, err := env.server.app.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	return resp, string(body)
}

func textPayload(from, id, text string) string {
	return `{"object":"whatsapp_business_account","entry":[{"id":"1","changes":[{"field":"messages","value":{` +
		`"messaging_product":"whatsapp","messages":[{"from":"` + from + `","id":"` + id + `","timestamp":"1700000000","type":"text","text":{"body":"` + text + `"}}]}}]}]}`
}

func sign(body string) string {
	mac := hmac.New(sha256.New, []byte(appSecret))
	mac.Write([]byte(body))
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func postWebhook(body, signature string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set("X-Hub-Signature-256", signature)
	}
	return req
}

func TestRootAndHealth(t *testing.T) {
	env := newTestEnv(t, Config{})

	resp, body := env.do(t, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok","app":"Nordia"}`, body)

	resp, body = env.do(t, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"status":"ok"`)

	resp, body = env.do(t, httptest.NewRequest(http.MethodGet, "/health/whatsapp", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"stub"`)
}

func TestWebhookVerification(t *testing.T) {
	env := newTestEnv(t, Config{VerifyToken: verifyToken})

	resp, body := env.do(t, httptest.NewRequest(http.MethodGet,
		"/webhook?hub.mode=subscribe&hub.verify_token="+verifyToken+"&hub.challenge=12345", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "12345", body)

	resp, _ = env.do(t, httptest.NewRequest(http.MethodGet,
		"/webhook?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=12345", nil))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestWebhookProcessesTextMessage(t *testing.T) {
	env := newTestEnv(t, Config{AppSecret: appSecret})
	body := textPayload(adminNumber, "wamid.1", "setup")

	resp, respBody := env.do(t, postWebhook(body, sign(body)))
	env.server.Wait()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, respBody)

	sent := env.messenger.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, adminNumber, sent[0].To)
	assert.Equal(t, conversation.StateAwaitingName, env.store.Get(context.Background(), adminNumber).State)
}

func TestWebhookKeepsBatchOrder(t *testing.T) {
	env := newTestEnv(t, Config{})
	body := `{"object":"whatsapp_business_account","entry":[{"id":"1","changes":[{"field":"messages","value":{` +
		`"messaging_product":"whatsapp","messages":[` +
		`{"from":"` + adminNumber + `","id":"wamid.1","timestamp":"1700000000","type":"text","text":{"body":"setup"}},` +
		`{"from":"` + adminNumber + `","id":"wamid.2","timestamp":"1700000001","type":"text","text":{"body":"Óptica Sol"}},` +
		`{"from":"` + adminNumber + `","id":"wamid.3","timestamp":"1700000002","type":"text","text":{"body":"Lun-Vie 9-18"}}` +
		`]}}]}]}`

	for i := 0; i < 20; i++ {
		require.NoError(t, env.store.Delete(context.Background(), adminNumber))

		resp, _ := env.do(t, postWebhook(body, ""))
		env.server.Wait()

		require.Equal(t, http.StatusOK, resp.StatusCode)
		conv := env.store.Get(context.Background(), adminNumber)
		require.Equal(t, conversation.StateAwaitingServices, conv.State)
		require.Equal(t, "Óptica Sol", conv.Name)
	}
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	env := newTestEnv(t, Config{AppSecret: appSecret})
	body := textPayload(adminNumber, "wamid.1", "setup")

	resp, _ := env.do(t, postWebhook(body, "sha256=deadbeef"))
	env.server.Wait()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, env.messenger.Sent())
	assert.False(t, env.store.Has(adminNumber))
}

func TestWebhookNonTextMessage(t *testing.T) {
	env := newTestEnv(t, Config{})
	body := `{"object":"whatsapp_business_account","entry":[{"changes":[{"value":{"messages":[{"from":"5491112345678","id":"wamid.9","type":"image","image":{"id":"image123"}}]}}]}]}`

	resp, _ := env.do(t, postWebhook(body, ""))
	env.server.Wait()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	sent := env.messenger.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, processor.UnsupportedMessageReply, sent[0].Text)
	assert.False(t, env.store.Has("5491112345678"))
}

func TestWebhookInvalidJSON(t *testing.T) {
	env := newTestEnv(t, Config{})

	resp, _ := env.do(t, postWebhook("{not json", ""))

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLocalTestRoutes(t *testing.T) {
	env := newTestEnv(t, Config{LocalMode: true})

	req := httptest.NewRequest(http.MethodPost, "/test/chat", strings.NewReader(`{"text":"setup","user_id":"`+adminNumber+`"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, body := env.do(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out processor.LocalTestResponse
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.Contains(t, out.Response, "negocio")
	assert.True(t, env.store.Has(adminNumber))

	req = httptest.NewRequest(http.MethodPost, "/test/chat", strings.NewReader(`{"text":""}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ = env.do(t, req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, httptest.NewRequest(http.MethodDelete, "/test/chat/"+adminNumber, nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, env.store.Has(adminNumber))
}

func TestLocalTestRoutesDisabled(t *testing.T) {
	env := newTestEnv(t, Config{})

	req := httptest.NewRequest(http.MethodPost, "/test/chat", strings.NewReader(`{"text":"hola"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := env.do(t, req)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCRMConversations(t *testing.T) {
	env := newTestEnv(t, Config{LocalMode: true})

	for _, text := range []string{"setup", "Barbería X"} {
		req := httptest.NewRequest(http.MethodPost, "/test/chat", strings.NewReader(`{"text":"`+text+`","user_id":"`+adminNumber+`"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := env.do(t, req)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, body := env.do(t, httptest.NewRequest(http.MethodGet, "/crm/conversations", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var summaries []ConversationSummary
	require.NoError(t, json.Unmarshal([]byte(body), &summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, adminNumber, summaries[0].UserID)
	assert.Equal(t, "esperando_horarios", summaries[0].State)
	assert.Equal(t, "Barbería X", summaries[0].BusinessName)
	assert.Equal(t, 4, summaries[0].MessageCount)

	resp, body = env.do(t, httptest.NewRequest(http.MethodGet, "/crm/conversations/"+adminNumber+"?page=1&page_size=3", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var conv ConversationResponse
	require.NoError(t, json.Unmarshal([]byte(body), &conv))
	assert.Len(t, conv.Messages, 3)
	assert.Equal(t, 4, conv.TotalMessages)
	assert.Equal(t, 2, conv.TotalPages)
	assert.True(t, conv.HasNextPage)
	assert.False(t, conv.HasPreviousPage)
	assert.Equal(t, "user", conv.Messages[0].Sender)
	assert.Equal(t, "system", conv.Messages[1].Sender)
	assert.Equal(t, conversation.StateAwaitingHours, conv.Conversation.State)

	resp, _ = env.do(t, httptest.NewRequest(http.MethodGet, "/crm/conversations/"+adminNumber+"?start_date=yesterday", nil))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCRMMiddleware(t *testing.T) {
	env := newTestEnv(t, Config{AllowOrigins: []string{"https://crm.nordia.app"}})

	req := httptest.NewRequest(http.MethodOptions, "/crm/drafts", nil)
	req.Header.Set("Origin", "https://crm.nordia.app")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	resp, _ := env.do(t, req)

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "https://crm.nordia.app", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST, DELETE, OPTIONS", resp.Header.Get("Access-Control-Allow-Methods"))

	resp, _ = env.do(t, httptest.NewRequest(http.MethodGet, "/crm/drafts", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")
}

func TestCRMDrafts(t *testing.T) {
	env := newTestEnv(t, Config{})
	id := env.drafts.SaveDraft(context.Background(), "Juan", "ofrecer lentes nuevos", "Hola Juan")
	require.Positive(t, id)

	resp, body := env.do(t, httptest.NewRequest(http.MethodGet, "/crm/drafts", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list DraftsResponse
	require.NoError(t, json.Unmarshal([]byte(body), &list))
	require.Equal(t, 1, list.Count)
	assert.Equal(t, "Juan", list.Drafts[0].CustomerName)

	resp, _ = env.do(t, httptest.NewRequest(http.MethodGet, "/crm/drafts/999", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = env.do(t, httptest.NewRequest(http.MethodGet, "/crm/drafts/abc", nil))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, Config{})
	body := textPayload(adminNumber, "wamid.1", "hola")

	env.do(t, postWebhook(body, ""))
	env.server.Wait()

	resp, metricsBody := env.do(t, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, metricsBody, `nordia_inbound_total{type="text"} 1`)
	assert.Contains(t, metricsBody, `nordia_messages_total{plane="CUSTOMER"} 1`)
}

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"a":1}`)

	valid := sign(string(body))
	hexPart := strings.TrimPrefix(valid, "sha256=")

	assert.True(t, VerifySignature(appSecret, body, valid))
	assert.True(t, VerifySignature(appSecret, body, "sha256="+strings.ToUpper(hexPart)))
	assert.False(t, VerifySignature(appSecret, body, "SHA256="+hexPart))
	assert.False(t, VerifySignature(appSecret, body, hexPart))
	assert.False(t, VerifySignature(appSecret, body, "sha256="))
	assert.False(t, VerifySignature(appSecret, body, ""))
	assert.False(t, VerifySignature("", body, valid))
	assert.False(t, VerifySignature("other", body, valid))
}
