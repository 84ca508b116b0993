package auth

import (
	"context"
	"fmt"

	"github.com/saturnines/byo-graphql/pkg/config"
	"github.com/saturnines/byo-graphql/pkg/errors"
	"golang.org/x/oauth2/clientcredentials"
)

// Creator functions for auth handlers

func createBearerAuth(authConfig *config.Auth) (Handler, error) {
	if authConfig.Bearer == nil {
		return nil, errors.WrapError(
			fmt.Errorf("bearer token configuration is required"),
			errors.ErrConfiguration,
			"create bearer auth",
		)
	}
	return NewBearerAuth(authConfig.Bearer.Token), nil
}

func createBasicAuth(authConfig *config.Auth) (Handler, error) {
	if authConfig.Basic == nil {
		return nil, errors.WrapError(
			fmt.Errorf("basic auth configuration is required"),
			errors.ErrConfiguration,
			"create basic auth",
		)
	}
	return NewBasicAuth(authConfig.Basic.Username, authConfig.Basic.Password), nil
}

func createAPIKeyAuth(authConfig *config.Auth) (Handler, error) {
	if authConfig.APIKey == nil {
		return nil, errors.WrapError(
			fmt.Errorf("api key configuration is required"),
			errors.ErrConfiguration,
			"create API key auth",
		)
	}
	return NewAPIKeyAuth(
		authConfig.APIKey.Header,
		authConfig.APIKey.QueryParam,
		authConfig.APIKey.Value,
	), nil
}

// createOAuth2Auth uses the client credentials grant; tokens are cached and
// refreshed by the returned source.
func createOAuth2Auth(authConfig *config.Auth) (Handler, error) {
	if authConfig.OAuth2 == nil {
		return nil, errors.WrapError(
			fmt.Errorf("oauth2 configuration is required"),
			errors.ErrConfiguration,
			"create OAuth2 auth",
		)
	}

	cc := &clientcredentials.Config{
		ClientID:     authConfig.OAuth2.ClientID,
		ClientSecret: authConfig.OAuth2.ClientSecret,
		TokenURL:     authConfig.OAuth2.TokenURL,
		Scopes:       authConfig.OAuth2.Scopes,
	}
	if len(authConfig.OAuth2.ExtraParams) > 0 {
		cc.EndpointParams = make(map[string][]string, len(authConfig.OAuth2.ExtraParams))
		for k, v := range authConfig.OAuth2.ExtraParams {
			cc.EndpointParams.Set(k, v)
		}
	}

	return NewTokenSourceAuth(cc.TokenSource(context.Background())), nil
}
