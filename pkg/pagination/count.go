package pagination

// Count is the result of a cardinality-only connection query.
type Count struct {
	TotalCount uint `json:"totalCount"`
}

// Uint returns the count as a plain value.
func (c Count) Uint() uint {
	return c.TotalCount
}

// CountSelector builds `name(filter){ totalCount }`. An empty filter drops
// the parentheses.
func CountSelector(name, filter string) string {
	if filter == "" {
		return name + "{ totalCount }"
	}
	return name + "(" + filter + "){ totalCount }"
}
