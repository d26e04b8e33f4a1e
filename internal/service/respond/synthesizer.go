// Package respond builds assistant replies from a classification and the
// session context. Synthesis is read-only towards the knowledge base and
// never fails: missing templates and empty lookups degrade, they do not
// error.
package respond

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/avendano/fixhub/backend/internal/analysis/classify"
	"github.com/avendano/fixhub/backend/internal/locale"
	"github.com/avendano/fixhub/backend/internal/model/catalog"
	"github.com/avendano/fixhub/backend/internal/model/chat"
)

const excerptLimit = 3

// Synthesizer turns classifications into assistant messages.
type Synthesizer struct {
	knowledge catalog.Catalog

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSynthesizer wires the synthesizer to a knowledge base. The RNG only
// feeds the placeholder confidence score.
func NewSynthesizer(knowledge catalog.Catalog) *Synthesizer {
	return NewSynthesizerWithSeed(knowledge, time.Now().UnixNano())
}

// NewSynthesizerWithSeed fixes the RNG seed, for deterministic tests.
func NewSynthesizerWithSeed(knowledge catalog.Catalog, seed int64) *Synthesizer {
	return &Synthesizer{
		knowledge: knowledge,
		rng:       rand.New(rand.NewSource(seed)),
	}
}

// Synthesize builds the assistant reply for one classified user turn.
// The session is only read: its language selects the locale bundle and its
// transcript decides whether the localized greeting leads the reply.
func (s *Synthesizer) Synthesize(classification classify.Classification, session *chat.Session) chat.Message {
	bundle := locale.For(sessionLanguage(session, classification))
	tpl := templateFor(classification.Category)

	body := empathyFor(classification.Sentiment, classification.Urgency) + tpl.Body
	if firstAssistantTurn(session) {
		body = bundle.Greeting + " " + body
	}

	meta := &chat.Metadata{
		SuggestedActions:  append([]string(nil), tpl.SuggestedActions...),
		FollowUpQuestions: append([]string(nil), tpl.FollowUpQuestions...),
		Keywords:          append([]string(nil), classification.Keywords...),
		Urgency:           classification.Urgency,
		Confidence:        s.confidence(),
	}

	if s.knowledge != nil {
		if reviews := s.knowledge.ReviewsFor(classification.Category, classification.Keywords, excerptLimit); len(reviews) > 0 {
			meta.Reviews = reviews
		}
		if providers := s.knowledge.ProvidersFor(classification.Category, classification.Keywords, excerptLimit); len(providers) > 0 {
			meta.Providers = providers
		}
	}

	return chat.Message{
		ID:        uuid.NewString(),
		SessionID: sessionID(session),
		Role:      chat.RoleAssistant,
		Text:      body,
		Sentiment: classification.Sentiment,
		Category:  classification.Category,
		Language:  sessionLanguage(session, classification),
		Metadata:  meta,
		CreatedAt: time.Now().UTC(),
	}
}

// confidence is a placeholder bounded to [0.7, 1.0) until a real scoring
// function replaces it. Callers must not treat it as meaningful.
func (s *Synthesizer) confidence() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return 0.7 + s.rng.Float64()*0.3
}

func sessionLanguage(session *chat.Session, classification classify.Classification) string {
	if session != nil && session.Language != "" {
		return session.Language
	}
	if classification.Language != "" {
		return classification.Language
	}
	return locale.DefaultLanguage
}

func sessionID(session *chat.Session) string {
	if session == nil {
		return ""
	}
	return session.ID
}

func firstAssistantTurn(session *chat.Session) bool {
	if session == nil {
		return true
	}
	for _, message := range session.Messages {
		if message.Role == chat.RoleAssistant {
			return false
		}
	}
	return true
}
