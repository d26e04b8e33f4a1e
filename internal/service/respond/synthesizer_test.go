package respond

import (
	"strings"
	"testing"
	"time"

	"github.com/avendano/fixhub/backend/internal/analysis/classify"
	"github.com/avendano/fixhub/backend/internal/model/catalog"
	"github.com/avendano/fixhub/backend/internal/model/chat"
)

func newTestSynthesizer() *Synthesizer {
	knowledge := catalog.NewMemoryCatalog(catalog.SeedReviews(), catalog.SeedProviders())
	return NewSynthesizerWithSeed(knowledge, 42)
}

func testSession(language string) *chat.Session {
	return &chat.Session{
		ID:        "sess-test",
		State:     chat.StateNew,
		Language:  language,
		CreatedAt: time.Now().UTC(),
	}
}

func TestSynthesizeAssistantRole(t *testing.T) {
	s := newTestSynthesizer()
	msg := s.Synthesize(classify.Classify("my drain is clogged", "en"), testSession("en"))
	if msg.Role != chat.RoleAssistant {
		t.Fatalf("expected assistant role, got %s", msg.Role)
	}
	if msg.SessionID != "sess-test" {
		t.Fatalf("expected session binding, got %q", msg.SessionID)
	}
	if msg.ID == "" {
		t.Fatal("expected a message id")
	}
}

func TestSynthesizeCategoryTemplateAndExcerpts(t *testing.T) {
	s := newTestSynthesizer()
	msg := s.Synthesize(classify.Classify("need a plumber for a leaking pipe", "en"), testSession("en"))

	if msg.Category != "plumbing" {
		t.Fatalf("expected plumbing category, got %s", msg.Category)
	}
	if len(msg.Metadata.SuggestedActions) == 0 {
		t.Fatal("expected suggested actions from the plumbing template")
	}
	if len(msg.Metadata.Reviews) == 0 || len(msg.Metadata.Reviews) > 3 {
		t.Fatalf("expected 1..3 review excerpts, got %d", len(msg.Metadata.Reviews))
	}
	if len(msg.Metadata.Providers) == 0 || len(msg.Metadata.Providers) > 3 {
		t.Fatalf("expected 1..3 provider excerpts, got %d", len(msg.Metadata.Providers))
	}
	for i := 1; i < len(msg.Metadata.Reviews); i++ {
		if msg.Metadata.Reviews[i-1].Helpful < msg.Metadata.Reviews[i].Helpful {
			t.Fatal("reviews must be sorted by helpful count descending")
		}
	}
}

func TestSynthesizeGenericFallbackNeverFails(t *testing.T) {
	s := newTestSynthesizer()
	msg := s.Synthesize(classify.Classify("what are your opening hours", "en"), testSession("en"))

	if msg.Category != classify.CategoryGeneral {
		t.Fatalf("expected general category, got %s", msg.Category)
	}
	if msg.Text == "" {
		t.Fatal("generic fallback must still produce a body")
	}
	if len(msg.Metadata.SuggestedActions) == 0 {
		t.Fatal("generic template must carry suggested actions")
	}
}

func TestSynthesizeEmptyLookupOmitsExcerpts(t *testing.T) {
	empty := catalog.NewMemoryCatalog(nil, nil)
	s := NewSynthesizerWithSeed(empty, 7)
	msg := s.Synthesize(classify.Classify("pipe leak", "en"), testSession("en"))

	if msg.Metadata.Reviews != nil {
		t.Fatalf("expected reviews omitted, got %v", msg.Metadata.Reviews)
	}
	if msg.Metadata.Providers != nil {
		t.Fatalf("expected providers omitted, got %v", msg.Metadata.Providers)
	}
}

func TestSynthesizeConfidenceBounds(t *testing.T) {
	s := newTestSynthesizer()
	for i := 0; i < 50; i++ {
		msg := s.Synthesize(classify.Classify("clean my flat", "en"), testSession("en"))
		if msg.Metadata.Confidence < 0.7 || msg.Metadata.Confidence >= 1.0 {
			t.Fatalf("confidence %f outside [0.7, 1.0)", msg.Metadata.Confidence)
		}
	}
}

func TestSynthesizeEmpathyPrefixForAngryUrgentUser(t *testing.T) {
	s := newTestSynthesizer()
	msg := s.Synthesize(classify.Classify("this is terrible, my pipe burst, fix it asap", "en"), testSession("en"))
	if !strings.Contains(msg.Text, "sorry") {
		t.Fatalf("expected an apologetic prefix, got %q", msg.Text)
	}
	if msg.Metadata.Urgency != chat.UrgencyHigh {
		t.Fatalf("expected high urgency carried into metadata, got %s", msg.Metadata.Urgency)
	}
}

func TestSynthesizeGreetingOnlyOnFirstExchange(t *testing.T) {
	s := newTestSynthesizer()
	session := testSession("en")

	first := s.Synthesize(classify.Classify("hello", "en"), session)
	if !strings.Contains(first.Text, "home services assistant") {
		t.Fatalf("expected greeting on first exchange, got %q", first.Text)
	}

	session.Messages = append(session.Messages, first)
	second := s.Synthesize(classify.Classify("need cleaning", "en"), session)
	if strings.Contains(second.Text, "home services assistant") {
		t.Fatalf("greeting must not repeat, got %q", second.Text)
	}
}

func TestSynthesizeLocalizedGreeting(t *testing.T) {
	s := newTestSynthesizer()
	msg := s.Synthesize(classify.Classify("hola", "es"), testSession("es"))
	if !strings.Contains(msg.Text, "asistente") {
		t.Fatalf("expected Spanish greeting, got %q", msg.Text)
	}
	if msg.Language != "es" {
		t.Fatalf("expected language carried onto message, got %q", msg.Language)
	}
}
