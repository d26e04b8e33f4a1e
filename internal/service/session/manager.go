// Package session owns the conversation lifecycle: the ordered message log,
// session metadata, and snapshot persistence. Append is the only mutator of
// a transcript; clearing discards the whole session object rather than
// truncating it.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/avendano/fixhub/backend/internal/model/chat"
	"github.com/avendano/fixhub/backend/internal/platform/logger"
	"github.com/avendano/fixhub/backend/internal/store"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionClosed   = errors.New("session closed")
)

// PersistStatus is the tri-state persistence indicator surfaced to callers.
type PersistStatus string

const (
	PersistIdle   PersistStatus = "idle"
	PersistSaving PersistStatus = "saving"
	PersistSaved  PersistStatus = "saved"
	PersistError  PersistStatus = "error"
)

const defaultTitle = "New conversation"

type record struct {
	session       chat.Session
	persistGen    uint64
	persistBusy   bool
	pendingBlob   []byte
	persistStatus PersistStatus
}

// Manager keeps live sessions in memory and snapshots them into the blob
// store. One writer (the dispatcher, through Append), many readers.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*record
	blobs    store.Blobs
	log      *logger.Logger
}

// NewManager bootstraps the session manager on top of a persistence sink.
func NewManager(blobs store.Blobs, log *logger.Logger) *Manager {
	if log == nil {
		log = logger.NewNop()
	}
	return &Manager{
		sessions: make(map[string]*record),
		blobs:    blobs,
		log:      log,
	}
}

// Create provisions a new session in state NEW.
func (m *Manager) Create(language string) chat.Session {
	now := time.Now().UTC()
	session := chat.Session{
		ID:         uuid.NewString(),
		Title:      defaultTitle,
		State:      chat.StateNew,
		Language:   language,
		Messages:   make([]chat.Message, 0, 16),
		CreatedAt:  now,
		LastActive: now,
	}

	m.mu.Lock()
	m.sessions[session.ID] = &record{session: session, persistStatus: PersistIdle}
	m.mu.Unlock()

	m.log.Info("session created", "session_id", session.ID, "language", language)
	return session
}

// Append adds exactly one message to the session transcript and bumps
// lastActive. The session moves NEW -> ACTIVE once the first assistant
// message lands (first completed exchange). Each append schedules a
// fire-and-forget persist; a previous persist error is thereby retried on
// the next mutation.
func (m *Manager) Append(message chat.Message) error {
	m.mu.Lock()
	r, ok := m.sessions[message.SessionID]
	if !ok {
		m.mu.Unlock()
		return ErrSessionNotFound
	}

	if message.ID == "" {
		message.ID = uuid.NewString()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}

	r.session.Messages = append(r.session.Messages, message)
	r.session.LastActive = message.CreatedAt

	switch message.Role {
	case chat.RoleUser:
		if r.session.Title == defaultTitle && strings.TrimSpace(message.Text) != "" {
			r.session.Title = truncateTitle(message.Text)
		}
	case chat.RoleAssistant:
		if r.session.State == chat.StateNew {
			r.session.State = chat.StateActive
		}
		if message.Category != "" {
			r.session.Category = message.Category
		}
		if message.Sentiment != "" {
			r.session.Sentiment = message.Sentiment
		}
		if message.Metadata != nil && message.Metadata.Urgency != "" {
			r.session.Priority = message.Metadata.Urgency
		}
	}

	m.persistLocked(message.SessionID, r)
	m.mu.Unlock()
	return nil
}

// Clear closes and discards the session synchronously: once it returns, no
// append to this session can succeed. The stored blob is removed in the
// background.
func (m *Manager) Clear(id string) error {
	m.mu.Lock()
	_, ok := m.sessions[id]
	if !ok {
		m.mu.Unlock()
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	m.mu.Unlock()

	m.log.Info("session cleared", "session_id", id)
	if m.blobs != nil {
		go func() {
			if err := m.blobs.Delete(context.Background(), id); err != nil {
				m.log.Warn("failed to delete session blob", "session_id", id, "error", err)
			}
		}()
	}
	return nil
}

// Get returns a copy of the session.
func (m *Manager) Get(id string) (chat.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.sessions[id]
	if !ok {
		return chat.Session{}, ErrSessionNotFound
	}
	return copySession(r.session), nil
}

// Transcript returns a copy of the ordered message log.
func (m *Manager) Transcript(id string) ([]chat.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	messages := make([]chat.Message, len(r.session.Messages))
	copy(messages, r.session.Messages)
	return messages, nil
}

// Export serializes the whole session as indented JSON.
func (m *Manager) Export(id string) ([]byte, error) {
	snapshot, err := m.Get(id)
	if err != nil {
		return nil, err
	}
	blob, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export session: %w", err)
	}
	return blob, nil
}

// Persist snapshots the session into the blob store without blocking the
// caller. Status moves to saving immediately and settles on saved or error;
// overlapping persists resolve last-write-wins.
func (m *Manager) Persist(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	m.persistLocked(id, r)
	return nil
}

// persistLocked snapshots under the held lock and queues it for the single
// persist worker of this session. At most one Save is in flight per session,
// and the worker always writes the newest queued snapshot, so the latest
// persist call wins.
func (m *Manager) persistLocked(id string, r *record) {
	if m.blobs == nil {
		return
	}

	blob, err := json.Marshal(r.session)
	if err != nil {
		r.persistStatus = PersistError
		m.log.Error("failed to snapshot session", "session_id", id, "error", err)
		return
	}

	r.persistGen++
	r.pendingBlob = blob
	r.persistStatus = PersistSaving

	if !r.persistBusy {
		r.persistBusy = true
		go m.persistLoop(id)
	}
}

func (m *Manager) persistLoop(id string) {
	for {
		m.mu.Lock()
		r, ok := m.sessions[id]
		if !ok {
			m.mu.Unlock()
			return
		}
		blob := r.pendingBlob
		generation := r.persistGen
		m.mu.Unlock()

		saveErr := m.blobs.Save(context.Background(), id, blob)

		m.mu.Lock()
		r, ok = m.sessions[id]
		if !ok {
			m.mu.Unlock()
			return
		}
		if r.persistGen != generation {
			// Newer snapshot queued while saving; write it before settling.
			m.mu.Unlock()
			continue
		}
		if saveErr != nil {
			r.persistStatus = PersistError
			m.log.Warn("session persist failed", "session_id", id, "error", saveErr)
		} else {
			r.persistStatus = PersistSaved
		}
		r.persistBusy = false
		m.mu.Unlock()
		return
	}
}

// StatusOf reports the current persistence status for a session.
func (m *Manager) StatusOf(id string) (PersistStatus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.sessions[id]
	if !ok {
		return "", ErrSessionNotFound
	}
	return r.persistStatus, nil
}

// Load restores a session from the blob store and installs it as live.
func (m *Manager) Load(ctx context.Context, id string) (chat.Session, error) {
	if m.blobs == nil {
		return chat.Session{}, ErrSessionNotFound
	}
	blob, err := m.blobs.Load(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return chat.Session{}, ErrSessionNotFound
		}
		return chat.Session{}, fmt.Errorf("load session: %w", err)
	}

	var session chat.Session
	if err := json.Unmarshal(blob, &session); err != nil {
		return chat.Session{}, fmt.Errorf("decode session blob: %w", err)
	}

	m.mu.Lock()
	m.sessions[session.ID] = &record{session: session, persistStatus: PersistSaved}
	m.mu.Unlock()

	m.log.Info("session loaded", "session_id", session.ID, "messages", len(session.Messages))
	return copySession(session), nil
}

func copySession(s chat.Session) chat.Session {
	out := s
	out.Messages = make([]chat.Message, len(s.Messages))
	copy(out.Messages, s.Messages)
	out.Tags = append([]string(nil), s.Tags...)
	return out
}

func truncateTitle(text string) string {
	title := strings.TrimSpace(text)
	const maxTitle = 40
	if utf8.RuneCountInString(title) > maxTitle {
		runes := []rune(title)
		title = strings.TrimSpace(string(runes[:maxTitle])) + "…"
	}
	return title
}
