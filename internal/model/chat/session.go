package chat

import "time"

// State is the session lifecycle phase.
type State string

const (
	StateNew    State = "new"
	StateActive State = "active"
	StateClosed State = "closed"
)

// Session is one ordered, append-only conversation plus its metadata.
// Messages grow monotonically while the session is active; clearing discards
// the whole object rather than truncating it.
type Session struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	State      State     `json:"state"`
	Language   string    `json:"language"`
	Category   string    `json:"category,omitempty"`
	Resolved   bool      `json:"resolved"`
	Sentiment  Sentiment `json:"sentiment,omitempty"`
	Tags       []string  `json:"tags,omitempty"`
	Priority   Urgency   `json:"priority,omitempty"`
	Messages   []Message `json:"messages"`
	CreatedAt  time.Time `json:"createdAt"`
	LastActive time.Time `json:"lastActive"`
}
