package catalog

import (
	"sort"
	"strings"

	"github.com/avendano/fixhub/backend/internal/model/chat"
)

// Catalog exposes read-only knowledge-base lookups for the assistant core.
// The marketplace backend owns the real catalog; the core only consults it.
type Catalog interface {
	ReviewsFor(category string, keywords []string, limit int) []chat.Review
	ProvidersFor(category string, keywords []string, limit int) []chat.Provider
}

// MemoryCatalog implements Catalog with in-memory slices, suitable for the
// embedded assistant and for tests.
type MemoryCatalog struct {
	reviews   []chat.Review
	providers []chat.Provider
}

// NewMemoryCatalog returns a MemoryCatalog preloaded with the supplied records.
func NewMemoryCatalog(reviews []chat.Review, providers []chat.Provider) *MemoryCatalog {
	return &MemoryCatalog{
		reviews:   append([]chat.Review(nil), reviews...),
		providers: append([]chat.Provider(nil), providers...),
	}
}

// ReviewsFor returns reviews whose service matches the category or any
// keyword, case-insensitively, sorted by helpful count descending and capped
// to limit.
func (c *MemoryCatalog) ReviewsFor(category string, keywords []string, limit int) []chat.Review {
	var matched []chat.Review
	for _, review := range c.reviews {
		if matchesTerm(review.Service, category, keywords) {
			matched = append(matched, review)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Helpful > matched[j].Helpful
	})
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched
}

// ProvidersFor returns providers offering a matching service, sorted by
// rating descending and capped to limit.
func (c *MemoryCatalog) ProvidersFor(category string, keywords []string, limit int) []chat.Provider {
	var matched []chat.Provider
	for _, provider := range c.providers {
		for _, service := range provider.Services {
			if matchesTerm(service, category, keywords) {
				matched = append(matched, provider)
				break
			}
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Rating > matched[j].Rating
	})
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched
}

func matchesTerm(service, category string, keywords []string) bool {
	normalized := strings.ToLower(service)
	if category != "" && category != "general" && strings.Contains(normalized, strings.ToLower(category)) {
		return true
	}
	for _, keyword := range keywords {
		if keyword == "" {
			continue
		}
		if strings.Contains(normalized, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}
