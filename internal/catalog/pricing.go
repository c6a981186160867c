// internal/catalog/pricing.go
package catalog

import (
	"fmt"
	"strings"
)

// Stats is the computed quote for a category with a set of selected specs.
type Stats struct {
	Price    float64 `json:"price"`
	LeadTime int     `json:"lead_time"`
}

// ComputeStats sums the category base price and lead time with the deltas of
// every matched selection. Selections that match no value fall back silently
// to the base; selection integrity is the caller's concern.
func ComputeStats(info CategoryInfo, specs map[string]string) Stats {
	stats := Stats{Price: info.BasePrice, LeadTime: info.BaseLeadTime}
	for _, opt := range info.Options {
		selected, ok := opt.FindValue(specs[opt.Key])
		if !ok {
			continue
		}
		stats.Price += selected.ExtraPrice
		stats.LeadTime += selected.ExtraLeadTime
	}
	return stats
}

// DescribeSpecs renders a selection as "label: value name" pairs for the
// mockup refresh prompt. Unknown keys keep their raw value.
func DescribeSpecs(info CategoryInfo, specs map[string]string) string {
	var parts []string
	for _, opt := range info.Options {
		raw, ok := specs[opt.Key]
		if !ok {
			continue
		}
		name := raw
		if v, ok := opt.FindValue(raw); ok {
			name = v.Name
		}
		parts = append(parts, fmt.Sprintf("%s: %s", opt.Label, name))
	}
	return strings.Join(parts, ", ")
}
