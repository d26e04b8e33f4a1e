package chat

import "time"

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Sentiment is the coarse emotional tone detected for a message.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Urgency is the three-level priority signal attached to a turn.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// DeliveryState tracks a single message through its send lifecycle.
type DeliveryState string

const (
	DeliveryIdle      DeliveryState = "idle"
	DeliveryPending   DeliveryState = "pending"
	DeliverySucceeded DeliveryState = "succeeded"
	DeliveryFailed    DeliveryState = "failed"
)

// Attachment is a finished upload record handed to the core by the capture
// layer. The core never touches upload or filesystem APIs itself.
type Attachment struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	Size       int64     `json:"size"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// VoiceMessage is a finished voice capture; the core only consumes the
// transcript, never raw audio.
type VoiceMessage struct {
	ID         string  `json:"id"`
	Duration   float64 `json:"duration"`
	URL        string  `json:"url"`
	Transcript string  `json:"transcript"`
	Language   string  `json:"language"`
	Confidence float64 `json:"confidence"`
}

// Metadata carries the optional enrichment attached to a message by the
// synthesizer. Every field is optional; an empty lookup simply leaves the
// field unset.
type Metadata struct {
	SuggestedActions  []string      `json:"suggestedActions,omitempty"`
	FollowUpQuestions []string      `json:"followUpQuestions,omitempty"`
	Keywords          []string      `json:"keywords,omitempty"`
	Urgency           Urgency       `json:"urgency,omitempty"`
	Confidence        float64       `json:"confidence,omitempty"`
	Reviews           []Review      `json:"reviews,omitempty"`
	Providers         []Provider    `json:"serviceProviders,omitempty"`
	Attachments       []Attachment  `json:"attachments,omitempty"`
	Voice             *VoiceMessage `json:"voiceMessage,omitempty"`
	TranslatedText    string        `json:"translatedText,omitempty"`
}

// Review is a knowledge-base excerpt embedded into assistant metadata.
type Review struct {
	ID      string  `json:"id"`
	Service string  `json:"service"`
	Author  string  `json:"author"`
	Rating  float64 `json:"rating"`
	Helpful int     `json:"helpful"`
	Text    string  `json:"text"`
}

// Provider is a knowledge-base excerpt for a service provider.
type Provider struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Services  []string `json:"services"`
	Rating    float64  `json:"rating"`
	Available bool     `json:"available"`
}

// Message is one turn in a session transcript. Core fields are immutable
// after creation; only Metadata.TranslatedText may be filled in later by an
// asynchronous enrichment.
type Message struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Sentiment Sentiment `json:"sentiment,omitempty"`
	Category  string    `json:"category,omitempty"`
	Language  string    `json:"language,omitempty"`
	Metadata  *Metadata `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
