package auth

import (
	"fmt"
	"net/http"

	"github.com/saturnines/byo-graphql/pkg/errors"
)

// Handler defines the interface for auth handlers
type Handler interface {
	ApplyAuth(req *http.Request) error
}

// APIKeyAuth implements the Handler interface for API key authentication
type APIKeyAuth struct {
	HeaderName string // Header name for header-based auth (e.g., "X-API-Key")
	QueryParam string // Query parameter name for query-based auth (e.g., "api_key")
	Value      string // The actual API key value
}

// NewAPIKeyAuth creates a new API key authentication handler.
// Either headerName or queryParam must be set; both may be.
func NewAPIKeyAuth(headerName, queryParam, value string) *APIKeyAuth {
	return &APIKeyAuth{
		HeaderName: headerName,
		QueryParam: queryParam,
		Value:      value,
	}
}

// ApplyAuth adds the API key to the request, either as a header or query parameter
func (a *APIKeyAuth) ApplyAuth(req *http.Request) error {
	if a.Value == "" {
		return errors.WrapError(
			fmt.Errorf("API key value is required"),
			errors.ErrConfiguration,
			"apply API key auth",
		)
	}
	if a.HeaderName == "" && a.QueryParam == "" {
		return errors.WrapError(
			fmt.Errorf("API key auth requires either header name or query parameter name"),
			errors.ErrConfiguration,
			"apply API key auth",
		)
	}

	if a.HeaderName != "" {
		req.Header.Set(a.HeaderName, a.Value)
	}

	if a.QueryParam != "" {
		query := req.URL.Query()
		query.Set(a.QueryParam, a.Value)
		req.URL.RawQuery = query.Encode()
	}

	return nil
}

// String returns a string representation of this auth method
func (a *APIKeyAuth) String() string {
	if a.HeaderName != "" {
		return fmt.Sprintf("APIKeyAuth(header: %s)", a.HeaderName)
	}
	return fmt.Sprintf("APIKeyAuth(query: %s)", a.QueryParam)
}
