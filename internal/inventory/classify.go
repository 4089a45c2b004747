package inventory

import (
	"log/slog"
	"sort"

	"github.com/jmacedo/abcstock/internal/model"
)

// Cumulative percentage ceilings for the A and B tiers, inclusive. An item
// whose running total lands exactly on a boundary belongs to the higher tier.
const (
	classACeiling = 80.0
	classBCeiling = 95.0
)

// ClassifyAll runs the ABC classification pass over the live collection,
// writing AccumulatedPercentage and Classification onto each item in place.
//
// Items are ranked by TotalValue descending; ties keep insertion order so
// the result is deterministic. Walking the ranked sequence, each item's
// share of the total inventory value accumulates into a running percentage:
// A while the running total stays within 80%, B within 95%, C beyond.
func (s *Store) ClassifyAll() {
	if len(s.items) == 0 {
		return
	}

	var total float64
	for _, item := range s.items {
		total += item.TotalValue()
	}

	// No economic signal anywhere: everything is a C with no share.
	if total == 0 {
		for _, item := range s.items {
			item.AccumulatedPercentage = 0
			item.Classification = model.ClassC
		}
		return
	}

	ranked := make([]*model.Item, len(s.items))
	copy(ranked, s.items)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalValue() > ranked[j].TotalValue()
	})

	var running float64
	for _, item := range ranked {
		running += item.TotalValue() / total * 100
		item.AccumulatedPercentage = running

		switch {
		case running <= classACeiling:
			item.Classification = model.ClassA
		case running <= classBCeiling:
			item.Classification = model.ClassB
		default:
			item.Classification = model.ClassC
		}
	}

	slog.Debug("classified inventory", "count", len(s.items), "total_value", total)
}
