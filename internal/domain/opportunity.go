package domain

// OpportunityRow is one ranked cost-saving opportunity. At most three are
// produced per run; rows are derived and read-only.
type OpportunityRow struct {
	Vendor      string
	Action      string
	Explanation string
}
