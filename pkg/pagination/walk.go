package pagination

import "context"

// FetchFunc fetches the page that follows the after cursor; a nil cursor
// asks for the first page.
type FetchFunc[Item any] func(ctx context.Context, after *string) (*Connection[Item], error)

// Walk requests pages one after the other, starting without a cursor and
// continuing with each page's NextCursor until it is nil. Nodes are returned
// in page order, then server order within a page.
//
// There is no page limit and no repeated-cursor detection: a server that keeps
// answering hasNextPage=true walks until ctx is done.
//
// When fetch fails or ctx is done, the nodes collected from the earlier
// pages are returned along with the error.
func Walk[Item any](ctx context.Context, fetch FetchFunc[Item]) ([]Item, error) {
	var (
		all    []Item
		cursor *string
	)
	for {
		if err := ctx.Err(); err != nil {
			return all, err
		}
		page, err := fetch(ctx, cursor)
		if err != nil {
			return all, err
		}
		if page == nil {
			return all, nil
		}
		all = append(all, page.Nodes...)

		cursor = page.NextCursor()
		if cursor == nil {
			return all, nil
		}
	}
}
