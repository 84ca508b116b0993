package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/saturnines/byo-graphql/pkg/errors"
	"gopkg.in/yaml.v3"
)

type ValidationError struct {
	Field   string
	Message string
}

// Validator checks a decoded Client config
type Validator interface {
	Validate(cfg *Client) []ValidationError
}

// Returns the string representation of validation error
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// DefaultValueSetter fills in values the YAML left out
type DefaultValueSetter interface {
	SetDefaults(cfg *Client)
}

// VariableExpander defines the interface for expanding variables
type VariableExpander interface {
	Expand(data []byte) []byte
}

// EnvExpander implements VariableExpander using environment variables
type EnvExpander struct{}

// Expand expands environment variables with the given data
func (e *EnvExpander) Expand(data []byte) []byte {
	expanded := os.Expand(string(data), os.Getenv)
	return []byte(expanded)
}

// ClientLoader reads Client configurations
type ClientLoader struct {
	expander      VariableExpander
	validators    []Validator
	defaultSetter DefaultValueSetter
}

// NewClientLoader creates a new ClientLoader with the given components
func NewClientLoader(
	expander VariableExpander,
	defaultSetter DefaultValueSetter,
	validators ...Validator,
) *ClientLoader {
	return &ClientLoader{
		expander:      expander,
		validators:    validators,
		defaultSetter: defaultSetter,
	}
}

// NewDefaultLoader wires the env expander, the defaults and every validator.
func NewDefaultLoader() *ClientLoader {
	return NewClientLoader(
		&EnvExpander{},
		&ClientDefaults{},
		NewStructValidator(),
		&AuthValidator{},
	)
}

// Load a client config from a YAML file
func (l *ClientLoader) Load(path string) (*Client, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrConfiguration, "read config file")
	}

	return l.Parse(data)
}

// Parse parses a yaml config
func (l *ClientLoader) Parse(data []byte) (*Client, error) {
	if l.expander != nil {
		data = l.expander.Expand(data)
	}

	var cfg Client
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.WrapError(err, errors.ErrConfiguration, "parse YAML")
	}

	if l.defaultSetter != nil {
		l.defaultSetter.SetDefaults(&cfg)
	}

	var allErrors []ValidationError
	for _, v := range l.validators {
		allErrors = append(allErrors, v.Validate(&cfg)...)
	}

	if len(allErrors) > 0 {
		return nil, errors.WrapError(
			fmt.Errorf("%v", allErrors),
			errors.ErrConfiguration,
			"validation errors",
		)
	}

	return &cfg, nil
}

// ClientDefaults implements DefaultValueSetter for Client
type ClientDefaults struct{}

// SetDefaults sets default values for Client
func (d *ClientDefaults) SetDefaults(cfg *Client) {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.PageSize == 0 {
		cfg.PageSize = DefaultPageSize
	}
}

// StructValidator runs the `validate` struct tags.
type StructValidator struct {
	validate *validator.Validate
}

// NewStructValidator reports fields by their yaml names.
func NewStructValidator() *StructValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(yamlFieldName)
	return &StructValidator{validate: v}
}

// Validate converts validator failures into ValidationErrors
func (v *StructValidator) Validate(cfg *Client) []ValidationError {
	err := v.validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return []ValidationError{{Field: "config", Message: err.Error()}}
	}

	var out []ValidationError
	for _, fe := range fieldErrors {
		out = append(out, ValidationError{
			Field:   fe.Field(),
			Message: describeTag(fe),
		})
	}
	return out
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "url":
		return "must be an absolute URL"
	case "lte":
		return "must be at most " + fe.Param()
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}

func yamlFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("yaml"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// AuthValidator handles authentication validation
type AuthValidator struct{}

// Validate checks that authentication configuration is valid
func (v *AuthValidator) Validate(cfg *Client) []ValidationError {
	var errs []ValidationError

	// Skip validation if auth is not configured
	if cfg.Auth == nil {
		return errs
	}

	switch cfg.Auth.Type {
	case AuthTypeBearer:
		if cfg.Auth.Bearer == nil || cfg.Auth.Bearer.Token == "" {
			errs = append(errs, ValidationError{Field: "auth.bearer.token", Message: "is required for bearer auth"})
		}
	case AuthTypeBasic:
		if cfg.Auth.Basic == nil {
			errs = append(errs, ValidationError{Field: "auth.basic", Message: "is required for basic auth"})
		} else if cfg.Auth.Basic.Username == "" {
			errs = append(errs, ValidationError{Field: "auth.basic.username", Message: "is required for basic auth"})
		}
	case AuthTypeAPIKey:
		if cfg.Auth.APIKey == nil {
			errs = append(errs, ValidationError{Field: "auth.api_key", Message: "is required for api_key auth"})
		} else {
			if cfg.Auth.APIKey.Value == "" {
				errs = append(errs, ValidationError{Field: "auth.api_key.value", Message: "is required for api_key auth"})
			}
			if cfg.Auth.APIKey.Header == "" && cfg.Auth.APIKey.QueryParam == "" {
				errs = append(errs, ValidationError{Field: "auth.api_key", Message: "either header or query_param must be specified for api_key auth"})
			}
		}
	case AuthTypeOAuth2:
		if cfg.Auth.OAuth2 == nil {
			errs = append(errs, ValidationError{Field: "auth.oauth2", Message: "is required for oauth2 auth"})
		} else {
			if cfg.Auth.OAuth2.TokenURL == "" {
				errs = append(errs, ValidationError{Field: "auth.oauth2.token_url", Message: "is required for oauth2 auth"})
			}
			if cfg.Auth.OAuth2.ClientID == "" {
				errs = append(errs, ValidationError{Field: "auth.oauth2.client_id", Message: "is required for oauth2 auth"})
			}
			if cfg.Auth.OAuth2.ClientSecret == "" {
				errs = append(errs, ValidationError{Field: "auth.oauth2.client_secret", Message: "is required for oauth2 auth"})
			}
		}
	default:
		errs = append(errs, ValidationError{Field: "auth.type", Message: fmt.Sprintf("unknown auth type: %s", cfg.Auth.Type)})
	}

	return errs
}
