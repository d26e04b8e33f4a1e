// Package analytics accumulates usage counters from the message stream.
// The aggregator only ever adds to its own counters; it never reads or
// mutates session storage.
package analytics

import (
	"sync"

	"github.com/avendano/fixhub/backend/internal/model/chat"
)

// Snapshot is a point-in-time copy of the accumulated counters.
type Snapshot struct {
	TotalMessages       int            `json:"totalMessages"`
	AverageResponseTime float64        `json:"averageResponseTime"`
	SentimentScore      float64        `json:"sentimentScore"`
	CategoryFrequency   map[string]int `json:"categoryFrequency"`
	LanguageUsage       map[string]int `json:"languageUsage"`
	AttachmentCount     int            `json:"attachmentCount"`
	VoiceMessageCount   int            `json:"voiceMessageCount"`
}

// Aggregator accumulates per-turn counters.
type Aggregator struct {
	mu                sync.Mutex
	totalMessages     int
	totalResponseSecs float64
	turns             int
	sentimentScore    float64
	categoryFrequency map[string]int
	languageUsage     map[string]int
	attachmentCount   int
	voiceMessageCount int
}

// NewAggregator returns an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		categoryFrequency: make(map[string]int),
		languageUsage:     make(map[string]int),
	}
}

// Record folds one completed exchange into the counters. The sentiment
// score accumulates unbounded at ±0.1 per turn; see the design notes before
// changing that.
func (a *Aggregator) Record(userMsg, assistantMsg chat.Message) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.totalMessages += 2

	if assistantMsg.Category != "" {
		a.categoryFrequency[assistantMsg.Category]++
	}

	language := assistantMsg.Language
	if language == "" {
		language = userMsg.Language
	}
	if language != "" {
		a.languageUsage[language]++
	}

	switch assistantMsg.Sentiment {
	case chat.SentimentPositive:
		a.sentimentScore += 0.1
	case chat.SentimentNegative:
		a.sentimentScore -= 0.1
	}

	if !userMsg.CreatedAt.IsZero() && !assistantMsg.CreatedAt.IsZero() {
		if delta := assistantMsg.CreatedAt.Sub(userMsg.CreatedAt); delta > 0 {
			a.totalResponseSecs += delta.Seconds()
			a.turns++
		}
	}

	if userMsg.Metadata != nil {
		a.attachmentCount += len(userMsg.Metadata.Attachments)
		if userMsg.Metadata.Voice != nil {
			a.voiceMessageCount++
		}
	}
}

// Snapshot returns a copy of the counters; the maps are never shared.
func (a *Aggregator) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	categories := make(map[string]int, len(a.categoryFrequency))
	for category, count := range a.categoryFrequency {
		categories[category] = count
	}
	languages := make(map[string]int, len(a.languageUsage))
	for language, count := range a.languageUsage {
		languages[language] = count
	}

	var avg float64
	if a.turns > 0 {
		avg = a.totalResponseSecs / float64(a.turns)
	}

	return Snapshot{
		TotalMessages:       a.totalMessages,
		AverageResponseTime: avg,
		SentimentScore:      a.sentimentScore,
		CategoryFrequency:   categories,
		LanguageUsage:       languages,
		AttachmentCount:     a.attachmentCount,
		VoiceMessageCount:   a.voiceMessageCount,
	}
}
