package assistant

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/avendano/fixhub/backend/internal/model/catalog"
	"github.com/avendano/fixhub/backend/internal/model/chat"
	"github.com/avendano/fixhub/backend/internal/service/analytics"
	"github.com/avendano/fixhub/backend/internal/service/dispatch"
	"github.com/avendano/fixhub/backend/internal/service/respond"
	"github.com/avendano/fixhub/backend/internal/service/session"
	"github.com/avendano/fixhub/backend/internal/service/suggest"
	"github.com/avendano/fixhub/backend/internal/store"
)

func setupRouter() (*chi.Mux, *session.Manager, *dispatch.Dispatcher) {
	return setupRouterWithLatency(time.Millisecond)
}

func setupRouterWithLatency(latency time.Duration) (*chi.Mux, *session.Manager, *dispatch.Dispatcher) {
	sessions := session.NewManager(store.NewMemory(), nil)
	knowledge := catalog.NewMemoryCatalog(catalog.SeedReviews(), catalog.SeedProviders())
	synth := respond.NewSynthesizerWithSeed(knowledge, 3)
	agg := analytics.NewAggregator()
	dispatcher := dispatch.NewDispatcher(sessions, synth, suggest.NewEngine(), agg, latency, nil)
	handler := New(sessions, dispatcher, agg, "en")

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, sessions, dispatcher
}

func createSession(t *testing.T, r *chi.Mux) chat.Session {
	t.Helper()
	payload := []byte(`{"language":"en"}`)
	req := httptest.NewRequest(http.MethodPost, "/assistant/session", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}
	var created chat.Session
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	return created
}

func waitForTranscript(t *testing.T, sessions *session.Manager, sessionID string, want int) []chat.Message {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		transcript, err := sessions.Transcript(sessionID)
		if err != nil {
			t.Fatalf("transcript: %v", err)
		}
		if len(transcript) >= want {
			return transcript
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("transcript never reached %d messages", want)
	return nil
}

func TestCreateSession(t *testing.T) {
	r, _, _ := setupRouter()
	created := createSession(t, r)
	if created.ID == "" {
		t.Fatal("expected a session id")
	}
	if created.State != chat.StateNew {
		t.Fatalf("expected new state, got %s", created.State)
	}
}

func TestDispatchMessageAccepted(t *testing.T) {
	r, sessions, _ := setupRouter()
	created := createSession(t, r)

	payload := []byte(`{"text":"my sink is leaking"}`)
	req := httptest.NewRequest(http.MethodPost, "/assistant/session/"+created.ID+"/message", bytes.NewReader(payload))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", resp.Code, resp.Body.String())
	}
	transcript := waitForTranscript(t, sessions, created.ID, 2)
	if transcript[1].Role != chat.RoleAssistant {
		t.Fatalf("expected assistant reply, got %s", transcript[1].Role)
	}
}

func TestDispatchWhilePendingConflicts(t *testing.T) {
	r, _, _ := setupRouterWithLatency(200 * time.Millisecond)
	created := createSession(t, r)

	first := httptest.NewRequest(http.MethodPost, "/assistant/session/"+created.ID+"/message", bytes.NewReader([]byte(`{"text":"first"}`)))
	second := httptest.NewRequest(http.MethodPost, "/assistant/session/"+created.ID+"/message", bytes.NewReader([]byte(`{"text":"second"}`)))

	resp1 := httptest.NewRecorder()
	r.ServeHTTP(resp1, first)
	if resp1.Code != http.StatusAccepted {
		t.Fatalf("expected 202 for first dispatch, got %d", resp1.Code)
	}

	resp2 := httptest.NewRecorder()
	r.ServeHTTP(resp2, second)
	if resp2.Code != http.StatusConflict {
		t.Fatalf("expected 409 while a response is pending, got %d", resp2.Code)
	}
}

func TestDispatchMissingText(t *testing.T) {
	r, _, _ := setupRouter()
	created := createSession(t, r)

	req := httptest.NewRequest(http.MethodPost, "/assistant/session/"+created.ID+"/message", bytes.NewReader([]byte(`{}`)))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestDispatchUnknownSession(t *testing.T) {
	r, _, _ := setupRouter()

	req := httptest.NewRequest(http.MethodPost, "/assistant/session/ghost/message", bytes.NewReader([]byte(`{"text":"hi"}`)))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestVoiceDispatchRequiresTranscript(t *testing.T) {
	r, _, _ := setupRouter()
	created := createSession(t, r)

	req := httptest.NewRequest(http.MethodPost, "/assistant/session/"+created.ID+"/voice", bytes.NewReader([]byte(`{"id":"v1","duration":2.5}`)))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestClearSessionThenTranscriptIsGone(t *testing.T) {
	r, _, _ := setupRouter()
	created := createSession(t, r)

	del := httptest.NewRequest(http.MethodDelete, "/assistant/session/"+created.ID, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, del)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	get := httptest.NewRequest(http.MethodGet, "/assistant/session/"+created.ID+"/messages", nil)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, get)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after clear, got %d", resp.Code)
	}
}

func TestSuggestionsForPartialInput(t *testing.T) {
	r, _, _ := setupRouter()
	created := createSession(t, r)

	req := httptest.NewRequest(http.MethodGet, "/assistant/session/"+created.ID+"/suggestions?input=leaking+pipe", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var suggestions []suggest.Suggestion
	if err := json.Unmarshal(resp.Body.Bytes(), &suggestions); err != nil {
		t.Fatalf("decode suggestions: %v", err)
	}
	if len(suggestions) == 0 || len(suggestions) > suggest.MaxSuggestions {
		t.Fatalf("expected 1..5 suggestions, got %d", len(suggestions))
	}
}

func TestExportReturnsSessionSnapshot(t *testing.T) {
	r, sessions, _ := setupRouter()
	created := createSession(t, r)

	post := httptest.NewRequest(http.MethodPost, "/assistant/session/"+created.ID+"/message", bytes.NewReader([]byte(`{"text":"hello"}`)))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, post)
	waitForTranscript(t, sessions, created.ID, 2)

	req := httptest.NewRequest(http.MethodGet, "/assistant/session/"+created.ID+"/export", nil)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var exported chat.Session
	if err := json.Unmarshal(resp.Body.Bytes(), &exported); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if exported.ID != created.ID || len(exported.Messages) != 2 {
		t.Fatalf("unexpected export: id=%s messages=%d", exported.ID, len(exported.Messages))
	}
}

func TestAnalyticsEndpoint(t *testing.T) {
	r, sessions, _ := setupRouter()
	created := createSession(t, r)

	post := httptest.NewRequest(http.MethodPost, "/assistant/session/"+created.ID+"/message", bytes.NewReader([]byte(`{"text":"clean my flat"}`)))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, post)
	waitForTranscript(t, sessions, created.ID, 2)

	req := httptest.NewRequest(http.MethodGet, "/assistant/analytics", nil)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var snapshot analytics.Snapshot
	if err := json.Unmarshal(resp.Body.Bytes(), &snapshot); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snapshot.TotalMessages != 2 {
		t.Fatalf("expected 2 messages recorded, got %d", snapshot.TotalMessages)
	}
}

func TestCreateSessionUsesConfiguredDefaultLanguage(t *testing.T) {
	sessions := session.NewManager(store.NewMemory(), nil)
	knowledge := catalog.NewMemoryCatalog(catalog.SeedReviews(), catalog.SeedProviders())
	synth := respond.NewSynthesizerWithSeed(knowledge, 3)
	agg := analytics.NewAggregator()
	dispatcher := dispatch.NewDispatcher(sessions, synth, suggest.NewEngine(), agg, time.Millisecond, nil)
	handler := New(sessions, dispatcher, agg, "es")

	r := chi.NewRouter()
	handler.RegisterRoutes(r)

	req := httptest.NewRequest(http.MethodPost, "/assistant/session", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}
	var created chat.Session
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if created.Language != "es" {
		t.Fatalf("expected configured default language es, got %q", created.Language)
	}
}
