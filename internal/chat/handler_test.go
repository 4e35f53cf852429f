package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quotebot/internal/config"
	"quotebot/internal/model"
)

func newTestServer(t *testing.T) (http.Handler, *MemoryStore) {
	t.Helper()
	bot := testBot()
	store := NewMemoryStore(0)
	srv := NewServer(bot, newTestController(bot, nil), store, zerolog.Nop())
	r := chi.NewRouter()
	srv.Routes(r)
	return r, store
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) (*httptest.ResponseRecorder, ChatResponse) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp ChatResponse
	if rec.Code < 300 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func TestServer_Config(t *testing.T) {
	h, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/chat/config", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var cfg WidgetConfig
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cfg))
	assert.Equal(t, "Website Assistant", cfg.Title)
	assert.Equal(t, "/contact.html", cfg.Links.ContactURL)
}

func TestServer_SessionAndConversation(t *testing.T) {
	h, store := newTestServer(t)

	rec, created := doJSON(t, h, http.MethodPost, "/chat/session", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotEmpty(t, created.SessionID)
	require.Len(t, created.Messages, 1)
	assert.True(t, created.Messages[0].AllowHTML)

	rec, resp := doJSON(t, h, http.MethodPost, "/chat", ChatRequest{SessionID: created.SessionID, Message: "quote please"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created.SessionID, resp.SessionID)
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, testBot().Message(config.MsgLocationPrompt, model.LangEN), resp.Messages[0].Text)

	st, ok, err := store.Get(context.Background(), created.SessionID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, model.SlotLocation, st.PendingSlot)

	_, resp = doJSON(t, h, http.MethodPost, "/chat", ChatRequest{SessionID: created.SessionID, Message: "Dallas"})
	assert.Equal(t, testBot().Message(config.MsgHoursPrompt, model.LangEN), resp.Messages[0].Text)
}

func TestServer_ChatWithoutSessionCreatesOne(t *testing.T) {
	h, _ := newTestServer(t)

	rec, resp := doJSON(t, h, http.MethodPost, "/chat", ChatRequest{Message: "hola"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, model.LangES, resp.Language)
}

func TestServer_EmptyMessageReturnsEmptyList(t *testing.T) {
	h, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/chat", bytes.NewBufferString(`{"session_id":"s1","message":"  "}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"messages":[]`)
}

func TestServer_InvalidBody(t *testing.T) {
	h, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/chat", bytes.NewBufferString("{")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid request body")
}

func TestServer_Language(t *testing.T) {
	h, store := newTestServer(t)

	rec, _ := doJSON(t, h, http.MethodPost, "/chat/language", LanguageRequest{Language: "es"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, resp := doJSON(t, h, http.MethodPost, "/chat/language", LanguageRequest{SessionID: "s1", Language: "es"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.LangES, resp.Language)
	assert.Equal(t, "Idioma cambiado a espanol.", resp.Messages[0].Text)

	st, _, _ := store.Get(context.Background(), "s1")
	assert.True(t, st.LanguagePinned)

	// sem idioma o botão alterna
	_, resp = doJSON(t, h, http.MethodPost, "/chat/language", LanguageRequest{SessionID: "s1"})
	assert.Equal(t, model.LangEN, resp.Language)

	// fixado: mensagem em espanhol não muda o idioma
	_, resp = doJSON(t, h, http.MethodPost, "/chat", ChatRequest{SessionID: "s1", Message: "hola"})
	assert.Equal(t, model.LangEN, resp.Language)
}
