package classify

import (
	"strings"
	"unicode"

	"github.com/avendano/fixhub/backend/internal/model/chat"
)

// Classification is the deterministic tuple derived from one user message.
// It is transient: the dispatcher folds it into the assistant reply and the
// analytics counters, but never persists it on its own.
type Classification struct {
	Sentiment chat.Sentiment
	Category  string
	Urgency   chat.Urgency
	Keywords  []string
	Language  string
}

// Classify maps free text onto {sentiment, category, urgency, keywords}.
// It is a total function of the text and the fixed tables: every input,
// including the empty string, yields exactly one classification and no error.
func Classify(text, language string) Classification {
	result := Classification{
		Sentiment: chat.SentimentNeutral,
		Category:  CategoryGeneral,
		Urgency:   chat.UrgencyMedium,
		Language:  language,
	}

	normalized := strings.TrimSpace(strings.ToLower(text))
	if normalized == "" {
		return result
	}

	forcedHigh := matchAny(normalized, urgencyCues) != ""

	switch {
	case matchAny(normalized, negativeCues) != "":
		result.Sentiment = chat.SentimentNegative
	case matchAny(normalized, positiveCues) != "":
		result.Sentiment = chat.SentimentPositive
	}

	switch {
	case forcedHigh:
		result.Urgency = chat.UrgencyHigh
	case result.Sentiment == chat.SentimentNegative:
		// Frustrated users get the fast lane even without an explicit cue.
		result.Urgency = chat.UrgencyHigh
	case result.Sentiment == chat.SentimentPositive:
		result.Urgency = chat.UrgencyLow
	default:
		result.Urgency = chat.UrgencyMedium
	}

	category, keywords := matchCategory(normalized)
	result.Category = category
	if category == CategoryGeneral {
		result.Keywords = longWords(normalized)
	} else {
		result.Keywords = keywords
	}

	return result
}

// matchCategory walks the category table in declared order and returns the
// first category with at least one keyword hit, together with the matched
// tokens from that set.
func matchCategory(normalized string) (string, []string) {
	for _, category := range categoryOrder {
		var matched []string
		for _, keyword := range categoryKeywords[category] {
			if strings.Contains(normalized, keyword) {
				matched = append(matched, keyword)
			}
		}
		if len(matched) > 0 {
			return category, matched
		}
	}
	return CategoryGeneral, nil
}

// matchAny returns the first cue contained in the text, or "".
func matchAny(normalized string, cues []string) string {
	for _, cue := range cues {
		if strings.Contains(normalized, cue) {
			return cue
		}
	}
	return ""
}

// longWords is the generic keyword fallback: every word longer than three
// characters, in text order, without duplicates.
func longWords(normalized string) []string {
	fields := strings.FieldsFunc(normalized, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := make(map[string]struct{}, len(fields))
	var words []string
	for _, field := range fields {
		if len(field) <= 3 {
			continue
		}
		if _, dup := seen[field]; dup {
			continue
		}
		seen[field] = struct{}{}
		words = append(words, field)
	}
	return words
}
