package graphql

import (
	"context"

	"github.com/saturnines/byo-graphql/pkg/pagination"
	"go.uber.org/zap"
)

// FetchAll walks a whole connection, one GetFirstItem[D] per page.
//
// query builds the full query text for the page after the given cursor (nil
// for the first page), typically with pagination.PageSelector and
// pagination.PageBody. connection picks the connection out of the decoded
// top-level item; returning nil ends the walk.
//
// Pages are fetched strictly one after the other and the walk ends only when
// a page does not report hasNextPage=true (see pagination.Walk). On error,
// the items of the earlier pages are returned with it.
func FetchAll[D, Item any](
	ctx context.Context,
	c *Client,
	query func(after *string) string,
	connection func(*D) *pagination.Connection[Item],
) ([]Item, error) {
	page := 0
	return pagination.Walk[Item](ctx, func(ctx context.Context, after *string) (*pagination.Connection[Item], error) {
		item, err := GetFirstItem[D](ctx, c, query(after))
		if err != nil {
			return nil, err
		}
		conn := connection(&item)
		page++
		c.metrics.ObservePage()
		if conn != nil {
			c.logger.Debug("connection page fetched",
				zap.Int("page", page),
				zap.Int("nodes", len(conn.Nodes)),
				zap.Bool("has_cursor", after != nil))
		}
		return conn, nil
	})
}
