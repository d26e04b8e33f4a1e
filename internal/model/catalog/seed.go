package catalog

import "github.com/avendano/fixhub/backend/internal/model/chat"

// SeedReviews provides the default review excerpts surfaced by the assistant
// until the live catalog feed is wired in.
func SeedReviews() []chat.Review {
	return []chat.Review{
		{ID: "rev-001", Service: "Deep Cleaning", Author: "Marta G.", Rating: 4.9, Helpful: 212, Text: "The crew left the apartment spotless, even the oven. Booked again for next month."},
		{ID: "rev-002", Service: "House Cleaning", Author: "Deniz K.", Rating: 4.6, Helpful: 148, Text: "Punctual and thorough. Slightly pricey but worth it."},
		{ID: "rev-003", Service: "Plumbing Repair", Author: "Owen T.", Rating: 4.8, Helpful: 301, Text: "Fixed a burst pipe under the sink in under an hour. Lifesaver."},
		{ID: "rev-004", Service: "Drain Plumbing", Author: "Aiko S.", Rating: 4.4, Helpful: 97, Text: "Cleared a stubborn clog other companies gave up on."},
		{ID: "rev-005", Service: "Electrical Installation", Author: "Priya R.", Rating: 4.9, Helpful: 264, Text: "Rewired the whole kitchen safely and explained every step."},
		{ID: "rev-006", Service: "Electrical Repair", Author: "Hugo M.", Rating: 4.5, Helpful: 119, Text: "Found the short circuit quickly. Fair pricing."},
		{ID: "rev-007", Service: "Pest Control", Author: "Lena W.", Rating: 4.7, Helpful: 186, Text: "No sign of the ants two months later. Very discreet visit."},
		{ID: "rev-008", Service: "Interior Painting", Author: "Carlos B.", Rating: 4.8, Helpful: 174, Text: "Clean edges, zero splatter, done a day early."},
		{ID: "rev-009", Service: "Carpentry", Author: "Ines F.", Rating: 4.6, Helpful: 133, Text: "Built custom shelving that fits the alcove perfectly."},
		{ID: "rev-010", Service: "Appliance Repair", Author: "Tomas V.", Rating: 4.3, Helpful: 88, Text: "Washing machine runs like new. Brought the spare part on the first visit."},
		{ID: "rev-011", Service: "HVAC Maintenance", Author: "Sofia L.", Rating: 4.7, Helpful: 156, Text: "AC stopped leaking and the unit is much quieter now."},
		{ID: "rev-012", Service: "Landscaping", Author: "Noah P.", Rating: 4.5, Helpful: 102, Text: "Transformed the backyard in a weekend."},
	}
}

// SeedProviders provides the default provider records for assistant lookups.
func SeedProviders() []chat.Provider {
	return []chat.Provider{
		{ID: "prov-001", Name: "Sparkle Home Co.", Services: []string{"House Cleaning", "Deep Cleaning", "Move-out Cleaning"}, Rating: 4.9, Available: true},
		{ID: "prov-002", Name: "BlueWrench Plumbing", Services: []string{"Plumbing Repair", "Drain Cleaning", "Water Heater Installation"}, Rating: 4.8, Available: true},
		{ID: "prov-003", Name: "Ampere Electric", Services: []string{"Electrical Repair", "Electrical Installation", "Panel Upgrades"}, Rating: 4.9, Available: false},
		{ID: "prov-004", Name: "ShieldPest Solutions", Services: []string{"Pest Control", "Termite Inspection"}, Rating: 4.7, Available: true},
		{ID: "prov-005", Name: "FreshCoat Painters", Services: []string{"Interior Painting", "Exterior Painting"}, Rating: 4.8, Available: true},
		{ID: "prov-006", Name: "Oak & Grain Carpentry", Services: []string{"Carpentry", "Furniture Assembly", "Custom Shelving"}, Rating: 4.6, Available: true},
		{ID: "prov-007", Name: "HomeFix Appliance", Services: []string{"Appliance Repair", "Appliance Installation"}, Rating: 4.4, Available: true},
		{ID: "prov-008", Name: "Climate Pro HVAC", Services: []string{"HVAC Maintenance", "AC Repair", "Heating Installation"}, Rating: 4.7, Available: true},
		{ID: "prov-009", Name: "GreenEdge Landscaping", Services: []string{"Landscaping", "Lawn Care", "Garden Design"}, Rating: 4.5, Available: true},
	}
}
