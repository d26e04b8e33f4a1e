package respond

import "github.com/avendano/fixhub/backend/internal/model/chat"

// template is the per-category reply skeleton. The synthesizer never fails a
// lookup: categories without a template use genericTemplate.
type template struct {
	Body              string
	SuggestedActions  []string
	FollowUpQuestions []string
}

var genericTemplate = template{
	Body: "I can help you find the right service for that. Tell me a bit more about what you need, or browse the options below.",
	SuggestedActions: []string{
		"browse_services", "view_providers", "get_quote",
	},
	FollowUpQuestions: []string{
		"What kind of service are you looking for?",
		"Is this for your home or a business?",
	},
}

var categoryTemplates = map[string]template{
	"cleaning": {
		Body: "Our cleaning professionals handle everything from routine housekeeping to full deep cleans. I found some highly rated options for you.",
		SuggestedActions: []string{
			"book_now", "view_providers", "get_quote", "compare_prices",
		},
		FollowUpQuestions: []string{
			"How many rooms need cleaning?",
			"Do you need a one-time or recurring service?",
		},
	},
	"plumbing": {
		Body: "Plumbing issues are best handled quickly before they get worse. Here are trusted plumbers available in your area.",
		SuggestedActions: []string{
			"book_now", "call_provider", "view_providers", "get_quote",
		},
		FollowUpQuestions: []string{
			"Is water currently leaking?",
			"When did the problem start?",
		},
	},
	"electrical": {
		Body: "Electrical work should always be done by a certified professional. These electricians come highly recommended.",
		SuggestedActions: []string{
			"book_now", "call_provider", "view_providers",
		},
		FollowUpQuestions: []string{
			"Is the power out completely or only in part of the home?",
			"Have you checked the breaker panel?",
		},
	},
	"pest": {
		Body: "Nobody wants uninvited guests. Our pest control specialists can inspect and treat the problem discreetly.",
		SuggestedActions: []string{
			"book_now", "view_providers", "get_quote",
		},
		FollowUpQuestions: []string{
			"What kind of pest have you spotted?",
			"How long has this been going on?",
		},
	},
	"painting": {
		Body: "A fresh coat of paint makes a big difference. These painters have excellent reviews for quality and cleanliness.",
		SuggestedActions: []string{
			"get_quote", "view_providers", "book_now",
		},
		FollowUpQuestions: []string{
			"Which rooms are you thinking of painting?",
			"Do you already have colors in mind?",
		},
	},
	"carpentry": {
		Body: "From custom shelving to repairs, our carpenters can build exactly what you need.",
		SuggestedActions: []string{
			"get_quote", "view_providers", "book_now",
		},
		FollowUpQuestions: []string{
			"Is this a repair or a new build?",
			"Do you have measurements or photos to share?",
		},
	},
	"appliance": {
		Body: "Appliance trouble is frustrating. These repair technicians service most major brands and usually carry common parts.",
		SuggestedActions: []string{
			"book_now", "call_provider", "get_quote",
		},
		FollowUpQuestions: []string{
			"Which appliance is having trouble?",
			"What brand and model is it?",
		},
	},
	"hvac": {
		Body: "Heating and cooling problems shouldn't wait. Here are certified HVAC technicians near you.",
		SuggestedActions: []string{
			"book_now", "call_provider", "view_providers",
		},
		FollowUpQuestions: []string{
			"Is the unit not turning on, or not keeping temperature?",
			"When was it last serviced?",
		},
	},
	"landscaping": {
		Body: "A well-kept outdoor space adds real value. These landscapers handle everything from lawn care to full garden design.",
		SuggestedActions: []string{
			"get_quote", "view_providers", "book_now",
		},
		FollowUpQuestions: []string{
			"How large is the area?",
			"Are you after regular maintenance or a one-off project?",
		},
	},
}

// empathyKey indexes the prefix table by detected tone and priority.
type empathyKey struct {
	Sentiment chat.Sentiment
	Urgency   chat.Urgency
}

var empathyPrefixes = map[empathyKey]string{
	{chat.SentimentNegative, chat.UrgencyHigh}:   "I'm really sorry you're dealing with this — let's get it sorted right away. ",
	{chat.SentimentNegative, chat.UrgencyMedium}: "I'm sorry to hear that. Let's see how we can fix it. ",
	{chat.SentimentNegative, chat.UrgencyLow}:    "Sorry about the trouble. ",
	{chat.SentimentNeutral, chat.UrgencyHigh}:    "Understood — this sounds time-sensitive, so let's move fast. ",
	{chat.SentimentNeutral, chat.UrgencyMedium}:  "",
	{chat.SentimentNeutral, chat.UrgencyLow}:     "",
	{chat.SentimentPositive, chat.UrgencyHigh}:   "Happy to help with that right away! ",
	{chat.SentimentPositive, chat.UrgencyMedium}: "Happy to help! ",
	{chat.SentimentPositive, chat.UrgencyLow}:    "Glad to hear it! ",
}

func templateFor(category string) template {
	if tpl, ok := categoryTemplates[category]; ok {
		return tpl
	}
	return genericTemplate
}

func empathyFor(sentiment chat.Sentiment, urgency chat.Urgency) string {
	return empathyPrefixes[empathyKey{sentiment, urgency}]
}
