package core

import "time"

// Cost is a monetary amount denominated in the storage network's native
// payment unit. It is opaque to the core beyond addition and comparison.
type Cost uint64

// LineItem is a single accrued cost with the time it was incurred.
type LineItem struct {
	Cost      Cost
	Timestamp time.Time
}

// Receipt is an append-only log of costs incurred by a mutating operation.
// It is returned alongside both success and error outcomes (see
// WithReceipt) so callers always learn what was actually spent.
type Receipt struct {
	items []LineItem
}

// NewReceipt returns an empty Receipt ready for use.
func NewReceipt() *Receipt {
	return &Receipt{}
}

// Add appends a line item. now is accepted as a parameter (rather than read
// from time.Now internally) so callers can keep receipt timestamps
// deterministic in tests.
func (r *Receipt) Add(cost Cost, now time.Time) {
	r.items = append(r.items, LineItem{Cost: cost, Timestamp: now})
}

// Merge appends every line item of other onto r, in order. Used when a
// multi-step rotation shares one Receipt across sub-operations.
func (r *Receipt) Merge(other *Receipt) {
	if other == nil {
		return
	}
	r.items = append(r.items, other.items...)
}

// TotalCost sums every line item.
func (r *Receipt) TotalCost() Cost {
	var total Cost
	for _, it := range r.items {
		total += it.Cost
	}
	return total
}

// Len returns the number of line items recorded.
func (r *Receipt) Len() int { return len(r.items) }

// Items returns a defensive copy of the recorded line items in order.
func (r *Receipt) Items() []LineItem {
	out := make([]LineItem, len(r.items))
	copy(out, r.items)
	return out
}
