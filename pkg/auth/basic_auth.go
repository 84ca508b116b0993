package auth

import (
	"fmt"
	"net/http"

	"github.com/saturnines/byo-graphql/pkg/errors"
)

// BasicAuth implements the interface for HTTP basic authentication
type BasicAuth struct {
	Username string
	Password string
}

// NewBasicAuth creates a new basic authentication handler
func NewBasicAuth(username, password string) *BasicAuth {
	return &BasicAuth{
		Username: username,
		Password: password,
	}
}

// ApplyAuth adds the basic auth header to the request.
// An empty password is allowed.
func (b *BasicAuth) ApplyAuth(req *http.Request) error {
	if b.Username == "" {
		return errors.WrapError(
			fmt.Errorf("username is empty"),
			errors.ErrConfiguration,
			"apply basic auth",
		)
	}

	req.SetBasicAuth(b.Username, b.Password)

	return nil
}

// String returns a string representation of this auth method for testing
func (b *BasicAuth) String() string {
	return fmt.Sprintf("BasicAuth(username: %s)", b.Username)
}
