// Package pagination builds the query fragments needed to page through a
// GraphQL connection and reads the cursor of the next page.
//
// Fragments are assembled by plain text concatenation. Cursors, filters and
// item selections are inserted verbatim: nothing is escaped or validated, the
// caller is responsible for producing valid GraphQL.
package pagination

import (
	"fmt"
	"strings"
)

// PageInfo is the standard connection cursor record.
type PageInfo struct {
	StartCursor     *string `json:"startCursor"`
	EndCursor       *string `json:"endCursor"`
	HasPreviousPage *bool   `json:"hasPreviousPage"`
	HasNextPage     *bool   `json:"hasNextPage"`
}

// Connection is one fetched page of a GraphQL connection.
// Nodes keep the order the server sent them in.
type Connection[Item any] struct {
	TotalCount *uint     `json:"totalCount"`
	Nodes      []Item    `json:"nodes"`
	PageInfo   *PageInfo `json:"pageInfo"`
}

// NextCursor returns the cursor to pass as `after` for the following page.
// It is nil unless pageInfo is present and hasNextPage is exactly true; a
// missing pageInfo or a null hasNextPage never means "more pages".
func (c Connection[Item]) NextCursor() *string {
	if c.PageInfo == nil || c.PageInfo.HasNextPage == nil || !*c.PageInfo.HasNextPage {
		return nil
	}
	return c.PageInfo.EndCursor
}

// PageSelector builds the argument list of a connection field:
//
//	(first:10 after:"Y3Vyc29y" states: OPEN)
//
// The after clause is left out when after is nil. extraClauses (filters,
// ordering) is appended as is, even when empty.
func PageSelector(after *string, first uint, extraClauses string) string {
	if after != nil {
		return fmt.Sprintf(`(first:%d after:"%s" %s)`, first, *after, extraClauses)
	}
	return fmt.Sprintf(`(first:%d %s)`, first, extraClauses)
}

// PageBody builds the selection set of a connection field, requesting the
// total count, the nodes with itemSelection, and the whole pageInfo block.
func PageBody(itemSelection string) string {
	var b strings.Builder
	b.WriteString("{ totalCount nodes ")
	b.WriteString(itemSelection)
	b.WriteString(" pageInfo { startCursor endCursor hasPreviousPage hasNextPage } }")
	return b.String()
}
