package errors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// HTTPError is a non-2xx answer from the GraphQL endpoint.
type HTTPError struct {
	StatusCode int
	Status     string
	Body       string // truncated
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Status)
	}
	return fmt.Sprintf("HTTP %d: %s: got body %q", e.StatusCode, e.Status, e.Body)
}

// Is makes every HTTPError match ErrTransport.
func (e *HTTPError) Is(target error) bool {
	return target == ErrTransport
}

// Path identifies the field an ErrorEntry refers to. List indices sent by the
// server as numbers are kept as their decimal text.
type Path []string

// UnmarshalJSON accepts both string and integer segments.
func (p *Path) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*p = nil
		return nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Path, 0, len(raw))
	for _, seg := range raw {
		var s string
		if err := json.Unmarshal(seg, &s); err == nil {
			out = append(out, s)
			continue
		}
		var n json.Number
		if err := json.Unmarshal(seg, &n); err != nil {
			return fmt.Errorf("path segment %s is neither a string nor a number", seg)
		}
		out = append(out, n.String())
	}
	*p = out
	return nil
}

func (p Path) String() string {
	return strings.Join(p, ".")
}

// ErrorEntry is one element of the "errors" array of a GraphQL response.
type ErrorEntry struct {
	Path       Path           `json:"path,omitempty"`
	Message    string         `json:"message,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

func (e ErrorEntry) String() string {
	if len(e.Path) == 0 {
		return e.Message
	}
	return e.Path.String() + ": " + e.Message
}

// GraphQLError carries the errors reported by the server, verbatim.
type GraphQLError struct {
	Entries []ErrorEntry
}

func (e *GraphQLError) Error() string {
	parts := make([]string, len(e.Entries))
	for i, entry := range e.Entries {
		parts[i] = strconv.Quote(entry.String())
	}
	return fmt.Sprintf("%s: [%s]", ErrGraphQL, strings.Join(parts, ", "))
}

// Is makes every GraphQLError match ErrGraphQL.
func (e *GraphQLError) Is(target error) bool {
	return target == ErrGraphQL
}
