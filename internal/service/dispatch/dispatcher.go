// Package dispatch sequences one user turn through the assistant pipeline:
// classify, synthesize, append, suggest, record. It owns the per-session
// typing state and the cancellation token that keeps a stale reply from ever
// landing in a cleared session.
package dispatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/avendano/fixhub/backend/internal/analysis/classify"
	"github.com/avendano/fixhub/backend/internal/model/chat"
	"github.com/avendano/fixhub/backend/internal/platform/logger"
	"github.com/avendano/fixhub/backend/internal/service/analytics"
	"github.com/avendano/fixhub/backend/internal/service/respond"
	"github.com/avendano/fixhub/backend/internal/service/session"
	"github.com/avendano/fixhub/backend/internal/service/suggest"
)

// EventType tags events pushed to transcript subscribers.
type EventType string

const (
	EventTyping      EventType = "typing"
	EventMessage     EventType = "message"
	EventSuggestions EventType = "suggestions"
	EventCleared     EventType = "cleared"
)

// Event is one update on a session's event stream.
type Event struct {
	Type        EventType            `json:"type"`
	SessionID   string               `json:"sessionId"`
	Typing      bool                 `json:"typing,omitempty"`
	Message     *chat.Message        `json:"message,omitempty"`
	Suggestions []suggest.Suggestion `json:"suggestions,omitempty"`
}

// turnState is the per-session dispatch bookkeeping. The epoch is the
// cancellation token: each accepted dispatch draws a fresh value from the
// dispatcher-wide counter, so a deferred task can tell whether its turn is
// still the live one. Values are never reused, which keeps the check valid
// even when a session is cleared and later restored under the same id.
type turnState struct {
	epoch   uint64
	pending bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// Dispatcher drives the classify -> synthesize -> append -> suggest ->
// record pipeline with at most one in-flight response task per session.
type Dispatcher struct {
	sessions  *session.Manager
	synth     *respond.Synthesizer
	engine    *suggest.Engine
	analytics *analytics.Aggregator
	latency   time.Duration
	log       *logger.Logger

	mu          sync.Mutex
	epochSeq    uint64
	turns       map[string]*turnState
	delivery    map[string]chat.DeliveryState
	suggestions map[string][]suggest.Suggestion
	subscribers map[string]map[chan Event]struct{}
}

// NewDispatcher wires the pipeline. latency is the simulated thinking delay
// before the assistant reply is produced.
func NewDispatcher(sessions *session.Manager, synth *respond.Synthesizer, engine *suggest.Engine, agg *analytics.Aggregator, latency time.Duration, log *logger.Logger) *Dispatcher {
	if log == nil {
		log = logger.NewNop()
	}
	return &Dispatcher{
		sessions:    sessions,
		synth:       synth,
		engine:      engine,
		analytics:   agg,
		latency:     latency,
		log:         log,
		turns:       make(map[string]*turnState),
		delivery:    make(map[string]chat.DeliveryState),
		suggestions: make(map[string][]suggest.Suggestion),
		subscribers: make(map[string]map[chan Event]struct{}),
	}
}

// Dispatch runs one typed-text user turn. It returns false without error
// when the session already has a response pending: the call is a no-op by
// contract, not a failure.
func (d *Dispatcher) Dispatch(sessionID, text string) (bool, error) {
	return d.dispatch(sessionID, text, nil)
}

// DispatchVoice feeds a finished voice capture through the same single
// in-flight gate as typed text; only the transcript is classified.
func (d *Dispatcher) DispatchVoice(sessionID string, voice chat.VoiceMessage) (bool, error) {
	meta := &chat.Metadata{Voice: &voice}
	return d.dispatch(sessionID, voice.Transcript, meta)
}

// DispatchAttachment feeds a finished upload record through the dispatch
// pipeline as a user message.
func (d *Dispatcher) DispatchAttachment(sessionID string, attachment chat.Attachment) (bool, error) {
	meta := &chat.Metadata{Attachments: []chat.Attachment{attachment}}
	text := fmt.Sprintf("Shared a file: %s", attachment.Name)
	return d.dispatch(sessionID, text, meta)
}

func (d *Dispatcher) dispatch(sessionID, text string, meta *chat.Metadata) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	t, ok := d.turns[sessionID]
	if !ok {
		t = &turnState{}
		d.turns[sessionID] = t
	}
	if t.pending {
		d.log.Debug("dispatch rejected, turn pending", "session_id", sessionID)
		return false, nil
	}

	snapshot, err := d.sessions.Get(sessionID)
	if err != nil {
		return false, err
	}

	userMsg := chat.Message{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Role:      chat.RoleUser,
		Text:      text,
		Language:  snapshot.Language,
		Metadata:  meta,
		CreatedAt: time.Now().UTC(),
	}
	if err := d.sessions.Append(userMsg); err != nil {
		return false, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	d.epochSeq++
	t.epoch = d.epochSeq
	t.pending = true
	t.cancel = cancel
	t.done = make(chan struct{})
	epoch := t.epoch

	d.delivery[userMsg.ID] = chat.DeliveryPending
	d.publishLocked(sessionID, Event{Type: EventMessage, SessionID: sessionID, Message: &userMsg})
	d.publishLocked(sessionID, Event{Type: EventTyping, SessionID: sessionID, Typing: true})

	go d.runTurn(ctx, sessionID, epoch, userMsg, t.done)
	return true, nil
}

// runTurn is the deferred response task. All pipeline work is synchronous;
// the only suspension point is the latency timer, and the only shared-state
// touch is the final commit under the dispatcher lock.
func (d *Dispatcher) runTurn(ctx context.Context, sessionID string, epoch uint64, userMsg chat.Message, done chan struct{}) {
	defer close(done)

	timer := time.NewTimer(d.latency)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		d.log.Debug("response task cancelled before synthesis", "session_id", sessionID)
		return
	case <-timer.C:
	}

	classification := classify.Classify(userMsg.Text, userMsg.Language)

	snapshot, err := d.sessions.Get(sessionID)
	if err != nil {
		// Session cleared while the timer ran; nothing to commit.
		return
	}
	assistantMsg := d.synth.Synthesize(classification, &snapshot)

	d.commit(sessionID, epoch, userMsg, assistantMsg)
}

// commit appends the assistant reply if and only if the cancellation token
// still matches the live session. A stale result is discarded silently:
// cancellation is expected control flow, not an error.
func (d *Dispatcher) commit(sessionID string, epoch uint64, userMsg, assistantMsg chat.Message) {
	d.mu.Lock()
	defer d.mu.Unlock()

	t, ok := d.turns[sessionID]
	if !ok || t.epoch != epoch {
		delete(d.delivery, userMsg.ID)
		d.log.Debug("stale response discarded", "session_id", sessionID)
		return
	}

	if err := d.sessions.Append(assistantMsg); err != nil {
		// The session vanished between the epoch check and the append.
		t.pending = false
		t.cancel = nil
		d.delivery[userMsg.ID] = chat.DeliveryFailed
		return
	}

	t.pending = false
	t.cancel = nil
	d.delivery[userMsg.ID] = chat.DeliverySucceeded
	d.delivery[assistantMsg.ID] = chat.DeliverySucceeded

	suggestions := d.engine.FromResponse(assistantMsg)
	d.suggestions[sessionID] = suggestions

	d.analytics.Record(userMsg, assistantMsg)

	d.publishLocked(sessionID, Event{Type: EventTyping, SessionID: sessionID, Typing: false})
	d.publishLocked(sessionID, Event{Type: EventMessage, SessionID: sessionID, Message: &assistantMsg})
	d.publishLocked(sessionID, Event{Type: EventSuggestions, SessionID: sessionID, Suggestions: suggestions})
}

// Clear cancels any in-flight response task and discards the session. The
// turn entry goes with it; since epoch values are never reused, a deferred
// task from before the call can never pass the commit check again, even if
// the same session id is later restored.
func (d *Dispatcher) Clear(sessionID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if t, ok := d.turns[sessionID]; ok && t.cancel != nil {
		t.cancel()
	}
	delete(d.turns, sessionID)
	delete(d.suggestions, sessionID)

	err := d.sessions.Clear(sessionID)
	if err != nil {
		return err
	}

	d.publishLocked(sessionID, Event{Type: EventCleared, SessionID: sessionID})
	d.closeSubscribersLocked(sessionID)
	return nil
}

// Typing reports whether a response task is pending for the session.
func (d *Dispatcher) Typing(sessionID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	t, ok := d.turns[sessionID]
	return ok && t.pending
}

// Suggestions returns the quick replies computed after the last completed
// turn.
func (d *Dispatcher) Suggestions(sessionID string) []suggest.Suggestion {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]suggest.Suggestion(nil), d.suggestions[sessionID]...)
}

// SuggestForInput proxies partial-input suggestions from the engine.
func (d *Dispatcher) SuggestForInput(partial string) []suggest.Suggestion {
	return d.engine.FromInput(partial)
}

// DeliveryState reports the send state for a message id, DeliveryIdle when
// unknown.
func (d *Dispatcher) DeliveryState(messageID string) chat.DeliveryState {
	d.mu.Lock()
	defer d.mu.Unlock()
	if state, ok := d.delivery[messageID]; ok {
		return state
	}
	return chat.DeliveryIdle
}

// Subscribe registers an event listener for one session. The returned
// cancel function must be called exactly once; the channel is closed when
// the session is cleared.
func (d *Dispatcher) Subscribe(sessionID string) (<-chan Event, func()) {
	ch := make(chan Event, 16)

	d.mu.Lock()
	subs, ok := d.subscribers[sessionID]
	if !ok {
		subs = make(map[chan Event]struct{})
		d.subscribers[sessionID] = subs
	}
	subs[ch] = struct{}{}
	d.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			d.mu.Lock()
			if subs, ok := d.subscribers[sessionID]; ok {
				if _, live := subs[ch]; live {
					delete(subs, ch)
					close(ch)
				}
				if len(subs) == 0 {
					delete(d.subscribers, sessionID)
				}
			}
			d.mu.Unlock()
		})
	}
	return ch, cancel
}

// publishLocked fans an event out without blocking: a subscriber that has
// fallen 16 events behind misses the update and resyncs from the transcript.
func (d *Dispatcher) publishLocked(sessionID string, event Event) {
	for ch := range d.subscribers[sessionID] {
		select {
		case ch <- event:
		default:
		}
	}
}

func (d *Dispatcher) closeSubscribersLocked(sessionID string) {
	for ch := range d.subscribers[sessionID] {
		close(ch)
	}
	delete(d.subscribers, sessionID)
}

// turnDone exposes the current turn's completion channel to tests.
func (d *Dispatcher) turnDone(sessionID string) <-chan struct{} {
	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := d.turns[sessionID]; ok && t.done != nil {
		return t.done
	}
	closed := make(chan struct{})
	close(closed)
	return closed
}
