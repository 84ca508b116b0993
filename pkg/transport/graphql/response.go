package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/saturnines/byo-graphql/pkg/errors"
	"go.uber.org/zap"
)

// Response is the envelope of every GraphQL answer. Data is kept raw until
// the caller's type is known.
type Response struct {
	Data   json.RawMessage     `json:"data"`
	Errors []errors.ErrorEntry `json:"errors"`
}

// HasErrors reports whether the server sent at least one error entry.
func (r Response) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasData reports whether data is present and not null.
func (r Response) HasData() bool {
	return len(r.Data) > 0 && !bytes.Equal(r.Data, []byte("null"))
}

// ParseResponse decodes an envelope and checks it: server errors win over
// data, then missing data fails with errors.ErrNoData.
func ParseResponse(body []byte) (*Response, error) {
	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.WrapError(err, errors.ErrDeserialization, "decode response envelope")
	}
	if resp.HasErrors() {
		return nil, &errors.GraphQLError{Entries: resp.Errors}
	}
	if !resp.HasData() {
		return nil, errors.ErrNoData
	}
	return &resp, nil
}

// Get posts query and decodes the "data" part of the answer into D (it
// usually looks like a map or a struct with one field per top-level
// selection).
func Get[D any](ctx context.Context, c *Client, query string) (D, error) {
	return GetRequest[D](ctx, c, Request{Query: query})
}

// GetRequest is Get for a request carrying variables.
func GetRequest[D any](ctx context.Context, c *Client, r Request) (D, error) {
	start := time.Now()
	data, err := getData[D](ctx, c, r)
	c.observe(start, err)
	return data, err
}

// GetFirstItem returns the value of the first top-level field of the answer,
// in response order. This is the convenience for the common case of a query
// with exactly one top-level selection, such as a query for a unique item.
// An empty data object or a null value fails with errors.ErrNoData.
func GetFirstItem[D any](ctx context.Context, c *Client, query string) (D, error) {
	start := time.Now()
	item, err := getFirstItem[D](ctx, c, Request{Query: query})
	c.observe(start, err)
	return item, err
}

func getData[D any](ctx context.Context, c *Client, r Request) (D, error) {
	var data D
	resp, err := c.fetchEnvelope(ctx, r)
	if err != nil {
		return data, err
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return data, errors.WrapError(err, errors.ErrDeserialization, "decode data")
	}
	return data, nil
}

func getFirstItem[D any](ctx context.Context, c *Client, r Request) (D, error) {
	var zero D
	resp, err := c.fetchEnvelope(ctx, r)
	if err != nil {
		return zero, err
	}
	return firstField[D](resp.Data)
}

func (c *Client) fetchEnvelope(ctx context.Context, r Request) (*Response, error) {
	body, err := c.postAndRead(ctx, r)
	if err != nil {
		return nil, err
	}
	resp, err := ParseResponse(body)
	var gqlErr *errors.GraphQLError
	if errors.As(err, &gqlErr) {
		c.logger.Debug("graphql errors in response",
			zap.String("endpoint", c.endpoint),
			zap.Int("count", len(gqlErr.Entries)))
	}
	return resp, err
}

// firstField streams the data object so the first key is the first one the
// server wrote, not an arbitrary map entry.
func firstField[D any](data json.RawMessage) (D, error) {
	var zero D
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return zero, errors.WrapError(err, errors.ErrDeserialization, "read data object")
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return zero, errors.WrapError(
			fmt.Errorf("data is not an object"),
			errors.ErrDeserialization,
			"read data object",
		)
	}
	if !dec.More() {
		return zero, errors.WrapError(fmt.Errorf("data object is empty"), errors.ErrNoData, "first item")
	}

	key, err := dec.Token()
	if err != nil {
		return zero, errors.WrapError(err, errors.ErrDeserialization, "read top-level field")
	}

	var item *D
	if err := dec.Decode(&item); err != nil {
		return zero, errors.WrapError(err, errors.ErrDeserialization, fmt.Sprintf("decode field %q", key))
	}
	if item == nil {
		return zero, errors.WrapError(fmt.Errorf("field %q is null", key), errors.ErrNoData, "first item")
	}
	return *item, nil
}
