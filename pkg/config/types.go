package config

import "time"

// Client represents the full config for one GraphQL client
type Client struct {
	Endpoint  string            `yaml:"endpoint" validate:"required,url"`       // Required GraphQL URL
	UserAgent string            `yaml:"user_agent,omitempty"`                   // Defaults to DefaultUserAgent
	Timeout   time.Duration     `yaml:"timeout,omitempty"`                      // Defaults to DefaultTimeout
	Headers   map[string]string `yaml:"headers,omitempty"`                      // Extra HTTP headers
	PageSize  uint              `yaml:"page_size,omitempty" validate:"lte=100"` // Connection page size
	Auth      *Auth             `yaml:"auth,omitempty"`                         // Optional authentication
}

const (
	DefaultUserAgent = "byo/0.1"
	DefaultTimeout   = 30 * time.Second
	DefaultPageSize  = 10
)

// Auth defines auth methods.
type Auth struct {
	Type   AuthType    `yaml:"type"`              // Required authentication type
	Bearer *BearerAuth `yaml:"bearer,omitempty"`  // Bearer token
	Basic  *BasicAuth  `yaml:"basic,omitempty"`   // Basic authentication
	APIKey *APIKeyAuth `yaml:"api_key,omitempty"` // API key authentication
	OAuth2 *OAuth2Auth `yaml:"oauth2,omitempty"`  // OAuth2 client credentials
}

// AuthType defines current supported authentication types
type AuthType string

const (
	AuthTypeBearer AuthType = "bearer"
	AuthTypeBasic  AuthType = "basic"
	AuthTypeAPIKey AuthType = "api_key"
	AuthTypeOAuth2 AuthType = "oauth2"
)

// BearerAuth holds a static token
type BearerAuth struct {
	Token string `yaml:"token"`
}

// BasicAuth contains auth credentials for the api
type BasicAuth struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// APIKeyAuth contains API details
type APIKeyAuth struct {
	Header     string `yaml:"header,omitempty"`      // Header name
	QueryParam string `yaml:"query_param,omitempty"` // Query parameter name
	Value      string `yaml:"value"`                 // API key value
}

// OAuth2Auth contains OAuth2 client credentials details
type OAuth2Auth struct {
	TokenURL     string            `yaml:"token_url"`
	ClientID     string            `yaml:"client_id"`
	ClientSecret string            `yaml:"client_secret"`
	Scopes       []string          `yaml:"scopes,omitempty"`
	ExtraParams  map[string]string `yaml:"extra_params,omitempty"`
}
