package auth

import (
	"fmt"
	"net/http"

	"github.com/saturnines/byo-graphql/pkg/errors"
)

// BearerAuth implements the interface for Bearer token authentication
type BearerAuth struct {
	Token string // The bearer token
}

// NewBearerAuth creates a new bearer token authentication handler
func NewBearerAuth(token string) *BearerAuth {
	return &BearerAuth{
		Token: token,
	}
}

// ApplyAuth adds the Bearer token to the Authorization header
func (b *BearerAuth) ApplyAuth(req *http.Request) error {
	if b.Token == "" {
		return errors.WrapError(
			fmt.Errorf("token is empty"),
			errors.ErrConfiguration,
			"apply bearer auth",
		)
	}

	req.Header.Set("Authorization", "Bearer "+b.Token)

	return nil
}

// String keeps the token out of logs
func (b *BearerAuth) String() string {
	return "BearerAuth(token: [REDACTED])"
}
