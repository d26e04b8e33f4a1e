package classify

// CategoryGeneral is the fallback category used when no keyword set matches.
const CategoryGeneral = "general"

// categoryOrder fixes the precedence between service categories. When a
// message matches keywords from more than one set, the earliest category in
// this list wins. Keep the tables below keyed by these names.
var categoryOrder = []string{
	"cleaning",
	"plumbing",
	"electrical",
	"pest",
	"painting",
	"carpentry",
	"appliance",
	"hvac",
	"landscaping",
}

var categoryKeywords = map[string][]string{
	"cleaning": {
		"clean", "cleaning", "maid", "dust", "vacuum", "mop", "tidy", "spotless",
		"deep clean", "housekeeping", "scrub",
	},
	"plumbing": {
		"plumb", "plumber", "plumbing", "pipe", "leak", "drain", "faucet", "tap",
		"toilet", "clog", "water heater", "sink",
	},
	"electrical": {
		"electric", "electrical", "electrician", "wiring", "outlet", "socket",
		"breaker", "fuse", "light switch", "short circuit", "power outage",
	},
	"pest": {
		"pest", "cockroach", "roach", "ant", "termite", "rodent", "mice", "rat",
		"bed bug", "bedbug", "wasp", "infestation", "exterminator",
	},
	"painting": {
		"paint", "painting", "painter", "repaint", "wall color", "primer",
		"wallpaper", "varnish",
	},
	"carpentry": {
		"carpenter", "carpentry", "woodwork", "cabinet", "shelf", "shelving",
		"furniture", "door frame", "deck", "joinery",
	},
	"appliance": {
		"appliance", "fridge", "refrigerator", "washer", "washing machine",
		"dryer", "dishwasher", "oven", "microwave", "stove",
	},
	"hvac": {
		"hvac", "air conditioning", "air conditioner", "heating", "furnace",
		"thermostat", "ventilation", "radiator", "boiler",
	},
	"landscaping": {
		"landscaping", "landscape", "lawn", "garden", "gardening", "hedge",
		"mowing", "tree trimming", "yard",
	},
}

// urgencyCues force urgency high no matter what else the text says.
var urgencyCues = []string{
	"urgent", "emergency", "asap", "right now", "immediately", "right away",
	"as soon as possible", "critical", "can't wait", "cannot wait",
}

var negativeCues = []string{
	"angry", "furious", "frustrated", "frustrating", "disappointed",
	"disappointing", "terrible", "awful", "horrible", "worst", "unacceptable",
	"annoyed", "upset", "broken", "useless", "complaint", "refund", "scam",
	"never again", "fed up",
}

var positiveCues = []string{
	"thanks", "thank you", "great", "awesome", "amazing", "excellent",
	"wonderful", "love", "perfect", "fantastic", "happy", "appreciate",
	"well done", "brilliant",
}

// CategoryOrder returns the fixed category precedence, earliest first.
func CategoryOrder() []string {
	return append([]string(nil), categoryOrder...)
}

// KnownCategory reports whether name belongs to the closed category set.
func KnownCategory(name string) bool {
	_, ok := categoryKeywords[name]
	return ok
}
