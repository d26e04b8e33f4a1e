// Package suggest derives the quick-reply chips shown under the composer:
// either from the user's partial input or from the assistant's last reply.
// Suggestion lists never exceed five entries.
package suggest

import (
	"strings"

	"github.com/avendano/fixhub/backend/internal/analysis/classify"
	"github.com/avendano/fixhub/backend/internal/model/chat"
)

// MaxSuggestions caps every suggestion list.
const MaxSuggestions = 5

// minInputLength gates partial-input suggestions; shorter input is noise.
const minInputLength = 3

// Suggestion is one proposed quick reply. Action is an opaque identifier;
// executing it is entirely the caller's responsibility.
type Suggestion struct {
	Text   string `json:"text"`
	Action string `json:"action"`
	Icon   string `json:"icon"`
}

// categoryIcons is the fixed category -> icon lookup.
var categoryIcons = map[string]string{
	"cleaning":    "broom",
	"plumbing":    "wrench",
	"electrical":  "zap",
	"pest":        "bug",
	"painting":    "paintbrush",
	"carpentry":   "hammer",
	"appliance":   "plug",
	"hvac":        "thermometer",
	"landscaping": "leaf",
	"general":     "sparkles",
}

// inputBanks holds per-category quick replies for partial-input matching.
// Banks are pre-capped at five entries.
var inputBanks = map[string][]Suggestion{
	"cleaning": {
		{Text: "Book a deep clean", Action: "book_now", Icon: "broom"},
		{Text: "Compare cleaning prices", Action: "compare_prices", Icon: "broom"},
		{Text: "See top-rated cleaners", Action: "view_providers", Icon: "broom"},
	},
	"plumbing": {
		{Text: "Find an emergency plumber", Action: "book_now", Icon: "wrench"},
		{Text: "Get a repair quote", Action: "get_quote", Icon: "wrench"},
		{Text: "See top-rated plumbers", Action: "view_providers", Icon: "wrench"},
	},
	"electrical": {
		{Text: "Find a certified electrician", Action: "view_providers", Icon: "zap"},
		{Text: "Book an inspection", Action: "book_now", Icon: "zap"},
		{Text: "Get an installation quote", Action: "get_quote", Icon: "zap"},
	},
	"pest": {
		{Text: "Book a pest inspection", Action: "book_now", Icon: "bug"},
		{Text: "See pest control options", Action: "view_providers", Icon: "bug"},
	},
	"painting": {
		{Text: "Get a painting quote", Action: "get_quote", Icon: "paintbrush"},
		{Text: "Browse painters", Action: "view_providers", Icon: "paintbrush"},
	},
	"carpentry": {
		{Text: "Describe your carpentry project", Action: "get_quote", Icon: "hammer"},
		{Text: "Browse carpenters", Action: "view_providers", Icon: "hammer"},
	},
	"appliance": {
		{Text: "Book an appliance repair", Action: "book_now", Icon: "plug"},
		{Text: "Find repair technicians", Action: "view_providers", Icon: "plug"},
	},
	"hvac": {
		{Text: "Book an HVAC visit", Action: "book_now", Icon: "thermometer"},
		{Text: "Get a maintenance quote", Action: "get_quote", Icon: "thermometer"},
	},
	"landscaping": {
		{Text: "Get a landscaping quote", Action: "get_quote", Icon: "leaf"},
		{Text: "Browse landscapers", Action: "view_providers", Icon: "leaf"},
	},
	"general": {
		{Text: "Browse popular services", Action: "browse_services", Icon: "sparkles"},
		{Text: "Get a quote", Action: "get_quote", Icon: "sparkles"},
		{Text: "Talk to support", Action: "contact_support", Icon: "sparkles"},
	},
}

// actionLabels turns opaque action identifiers into chip text for
// response-derived suggestions.
var actionLabels = map[string]string{
	"book_now":        "Book now",
	"call_provider":   "Call the provider",
	"view_providers":  "View providers",
	"get_quote":       "Get a quote",
	"compare_prices":  "Compare prices",
	"browse_services": "Browse services",
	"contact_support": "Talk to support",
}

// Engine computes contextual suggestions. It is stateless; both entry
// points are pure functions of their input and the fixed tables.
type Engine struct{}

// NewEngine returns a suggestion engine.
func NewEngine() *Engine {
	return &Engine{}
}

// FromInput suggests quick replies for partial composer input. Input at or
// below the minimum length yields nothing. Category selection reuses the
// classifier, so ties follow the same declared category order.
func (e *Engine) FromInput(partial string) []Suggestion {
	trimmed := strings.TrimSpace(partial)
	if len(trimmed) < minInputLength {
		return nil
	}

	classification := classify.Classify(trimmed, "")
	bank := inputBanks[classification.Category]
	if len(bank) == 0 {
		bank = inputBanks[classify.CategoryGeneral]
	}
	return capSuggestions(bank)
}

// FromResponse maps the assistant's suggested actions 1:1 into suggestion
// chips, attaching the icon of the message category.
func (e *Engine) FromResponse(message chat.Message) []Suggestion {
	if message.Metadata == nil || len(message.Metadata.SuggestedActions) == 0 {
		return nil
	}

	icon := categoryIcons[message.Category]
	if icon == "" {
		icon = categoryIcons[classify.CategoryGeneral]
	}

	suggestions := make([]Suggestion, 0, len(message.Metadata.SuggestedActions))
	for _, action := range message.Metadata.SuggestedActions {
		label := actionLabels[action]
		if label == "" {
			label = strings.ReplaceAll(action, "_", " ")
		}
		suggestions = append(suggestions, Suggestion{Text: label, Action: action, Icon: icon})
	}
	return capSuggestions(suggestions)
}

func capSuggestions(suggestions []Suggestion) []Suggestion {
	if len(suggestions) > MaxSuggestions {
		suggestions = suggestions[:MaxSuggestions]
	}
	return append([]Suggestion(nil), suggestions...)
}
