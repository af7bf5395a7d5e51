package domain

import "strings"

// PromotionNameSeparator splits "<period> - <store> - <campaign>" names.
const PromotionNameSeparator = " - "

// PromotionKey is the structured form of a promotion name. It is built once
// when the report is ingested and compared field by field afterwards.
type PromotionKey struct {
	Period   string `json:"period"`
	Store    string `json:"store"`
	Campaign string `json:"campaign"`
}

// ParsePromotionName splits a name into its period, store and campaign
// segments. Names with fewer than three segments keep what they have; a
// single-segment name is all period.
func ParsePromotionName(name string) PromotionKey {
	parts := strings.Split(strings.TrimSpace(name), PromotionNameSeparator)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	key := PromotionKey{Period: parts[0]}
	if len(parts) > 1 {
		key.Store = parts[1]
	}
	if len(parts) > 2 {
		key.Campaign = strings.Join(parts[2:], PromotionNameSeparator)
	}
	return key
}

// GroupID identifies the period-and-campaign group a promotion belongs to,
// independent of the store.
func (k PromotionKey) GroupID() string {
	if k.Campaign == "" {
		return k.Period
	}
	return k.Period + PromotionNameSeparator + k.Campaign
}

func (k PromotionKey) SameGroup(other PromotionKey) bool {
	return k.Period == other.Period && k.Campaign == other.Campaign
}

func (k PromotionKey) IsZero() bool {
	return k == PromotionKey{}
}
