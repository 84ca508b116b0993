package auth

import (
	"fmt"
	"net/http"

	"github.com/saturnines/byo-graphql/pkg/errors"
	"golang.org/x/oauth2"
)

// TokenSourceAuth sets the Authorization header from an oauth2.TokenSource.
// Refreshing and caching are left to the source (oauth2.ReuseTokenSource,
// clientcredentials.Config.TokenSource, ...).
type TokenSourceAuth struct {
	Source oauth2.TokenSource
}

// NewTokenSourceAuth wraps src.
func NewTokenSourceAuth(src oauth2.TokenSource) *TokenSourceAuth {
	return &TokenSourceAuth{Source: src}
}

// NewStaticTokenAuth is a TokenSourceAuth that always sends the same token.
func NewStaticTokenAuth(token string) *TokenSourceAuth {
	return NewTokenSourceAuth(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
}

// ApplyAuth fetches a token and sets it on req
func (t *TokenSourceAuth) ApplyAuth(req *http.Request) error {
	if t.Source == nil {
		return errors.WrapError(
			fmt.Errorf("token source is nil"),
			errors.ErrConfiguration,
			"apply token source auth",
		)
	}

	tok, err := t.Source.Token()
	if err != nil {
		return errors.WrapError(err, errors.ErrAuthentication, "fetch token")
	}
	if !tok.Valid() {
		return errors.WrapError(
			fmt.Errorf("token source returned an invalid token"),
			errors.ErrAuthentication,
			"fetch token",
		)
	}

	tok.SetAuthHeader(req)
	return nil
}

func (t *TokenSourceAuth) String() string {
	return "TokenSourceAuth(token: [REDACTED])"
}
