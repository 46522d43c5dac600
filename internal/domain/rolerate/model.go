package rolerate

// Rate is the hourly pay for a role.
type Rate struct {
	Role     string
	Rate     float64 // EUR per hour
	Billable bool
}

// Defaults are seeded on first start.
var Defaults = []Rate{
	{Role: "Trainer", Rate: 15, Billable: true},
	{Role: "Co-Trainer", Rate: 10, Billable: true},
	{Role: "Helfer", Rate: 0, Billable: false},
}

// Table indexes rates by role name.
type Table map[string]Rate

// NewTable builds a lookup table.
func NewTable(rates []Rate) Table {
	t := make(Table, len(rates))
	for _, r := range rates {
		t[r.Role] = r
	}
	return t
}

// SessionRate returns the rate shown on a login snapshot: the role's rate
// when the role is known, the trainer's own rate otherwise.
func (t Table) SessionRate(role string, fallback float64) float64 {
	if r, ok := t[role]; ok {
		return r.Rate
	}
	return fallback
}

// BillableRate returns the rate used for billing a training hour.
// PRE: none
// POST: Known non-billable roles yield 0; unknown roles yield fallback
func (t Table) BillableRate(role string, fallback float64) float64 {
	r, ok := t[role]
	if !ok {
		return fallback
	}
	if !r.Billable {
		return 0
	}
	return r.Rate
}
