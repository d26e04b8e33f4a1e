package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/avendano/fixhub/backend/internal/model/chat"
)

func exchange(category string, sentiment chat.Sentiment) (chat.Message, chat.Message) {
	now := time.Now().UTC()
	user := chat.Message{Role: chat.RoleUser, Text: "hi", Language: "en", CreatedAt: now}
	assistant := chat.Message{
		Role:      chat.RoleAssistant,
		Text:      "hello",
		Category:  category,
		Sentiment: sentiment,
		Language:  "en",
		CreatedAt: now.Add(1200 * time.Millisecond),
	}
	return user, assistant
}

func TestRecordCountsTwoPerExchange(t *testing.T) {
	a := NewAggregator()
	const turns = 7
	for i := 0; i < turns; i++ {
		a.Record(exchange("cleaning", chat.SentimentNeutral))
	}
	snapshot := a.Snapshot()
	if snapshot.TotalMessages != 2*turns {
		t.Fatalf("expected %d messages, got %d", 2*turns, snapshot.TotalMessages)
	}
	if snapshot.CategoryFrequency["cleaning"] != turns {
		t.Fatalf("expected %d cleaning turns, got %d", turns, snapshot.CategoryFrequency["cleaning"])
	}
	if snapshot.LanguageUsage["en"] != turns {
		t.Fatalf("expected %d en turns, got %d", turns, snapshot.LanguageUsage["en"])
	}
}

func TestSentimentScoreAccumulates(t *testing.T) {
	a := NewAggregator()
	a.Record(exchange("cleaning", chat.SentimentPositive))
	a.Record(exchange("cleaning", chat.SentimentPositive))
	a.Record(exchange("cleaning", chat.SentimentNegative))
	a.Record(exchange("cleaning", chat.SentimentNeutral))

	snapshot := a.Snapshot()
	if math.Abs(snapshot.SentimentScore-0.1) > 1e-9 {
		t.Fatalf("expected score 0.1, got %f", snapshot.SentimentScore)
	}
}

func TestAverageResponseTime(t *testing.T) {
	a := NewAggregator()
	a.Record(exchange("plumbing", chat.SentimentNeutral))
	snapshot := a.Snapshot()
	if math.Abs(snapshot.AverageResponseTime-1.2) > 0.01 {
		t.Fatalf("expected ~1.2s average, got %f", snapshot.AverageResponseTime)
	}
}

func TestAttachmentAndVoiceCounters(t *testing.T) {
	a := NewAggregator()
	user, assistant := exchange("general", chat.SentimentNeutral)
	user.Metadata = &chat.Metadata{
		Attachments: []chat.Attachment{{ID: "att-1"}, {ID: "att-2"}},
		Voice:       &chat.VoiceMessage{ID: "voice-1", Transcript: "hello"},
	}
	a.Record(user, assistant)

	snapshot := a.Snapshot()
	if snapshot.AttachmentCount != 2 {
		t.Fatalf("expected 2 attachments, got %d", snapshot.AttachmentCount)
	}
	if snapshot.VoiceMessageCount != 1 {
		t.Fatalf("expected 1 voice message, got %d", snapshot.VoiceMessageCount)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	a := NewAggregator()
	a.Record(exchange("hvac", chat.SentimentNeutral))

	snapshot := a.Snapshot()
	snapshot.CategoryFrequency["hvac"] = 99

	if a.Snapshot().CategoryFrequency["hvac"] != 1 {
		t.Fatal("mutating a snapshot must not touch the aggregator")
	}
}
