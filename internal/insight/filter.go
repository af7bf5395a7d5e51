package insight

import (
	"time"

	"github.com/andresuchdata/tabloide-insight/internal/domain"
)

// FilterByDateRange keeps promotions that run entirely inside [from, to].
func FilterByDateRange(promotions []domain.Promotion, from, to time.Time) []domain.Promotion {
	var out []domain.Promotion
	for _, p := range promotions {
		if !p.StartDate.Before(from) && !p.EndDate.After(to) {
			out = append(out, p)
		}
	}
	return out
}

// PromotionNames lists distinct names in first-seen order.
func PromotionNames(promotions []domain.Promotion) []string {
	seen := make(map[string]struct{}, len(promotions))
	var names []string
	for _, p := range promotions {
		if _, ok := seen[p.Name]; ok {
			continue
		}
		seen[p.Name] = struct{}{}
		names = append(names, p.Name)
	}
	return names
}

// FindByName returns the key of the first promotion with the given name.
func FindByName(promotions []domain.Promotion, name string) (domain.PromotionKey, bool) {
	for _, p := range promotions {
		if p.Name == name {
			return p.Key, true
		}
	}
	return domain.PromotionKey{}, false
}

// FilterByGroup keeps the promotions of the same period and campaign as key,
// across all stores.
func FilterByGroup(promotions []domain.Promotion, key domain.PromotionKey) []domain.Promotion {
	var out []domain.Promotion
	for _, p := range promotions {
		if p.Key.SameGroup(key) {
			out = append(out, p)
		}
	}
	return out
}

// DateBounds returns the earliest start and latest end date.
func DateBounds(promotions []domain.Promotion) (domain.DateBounds, error) {
	if len(promotions) == 0 {
		return domain.DateBounds{}, domain.ErrNoPromotions
	}
	b := domain.DateBounds{Min: promotions[0].StartDate, Max: promotions[0].EndDate}
	for _, p := range promotions[1:] {
		if p.StartDate.Before(b.Min) {
			b.Min = p.StartDate
		}
		if p.EndDate.After(b.Max) {
			b.Max = p.EndDate
		}
	}
	return b, nil
}
