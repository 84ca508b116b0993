package auth

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/saturnines/byo-graphql/pkg/config"
	"github.com/saturnines/byo-graphql/pkg/errors"
	"golang.org/x/oauth2"
)

// Helper functions for tests
func assertHeader(t *testing.T, req *http.Request, header, expected string) {
	t.Helper()
	if value := req.Header.Get(header); value != expected {
		t.Errorf("Expected %s header '%s', got '%s'", header, expected, value)
	}
}

func assertQueryParam(t *testing.T, req *http.Request, param, expected string) {
	t.Helper()
	if value := req.URL.Query().Get(param); value != expected {
		t.Errorf("Expected %s query param '%s', got '%s'", param, expected, value)
	}
}

func assertErrorContains(t *testing.T, err error, expected string) {
	t.Helper()
	if err == nil {
		t.Errorf("Expected error containing '%s', got nil", expected)
		return
	}
	if !strings.Contains(err.Error(), expected) {
		t.Errorf("Expected error containing '%s', got '%s'", expected, err.Error())
	}
}

func newRequest(t *testing.T) *http.Request {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, "https://api.example.com/graphql", nil)
	if err != nil {
		t.Fatalf("NewRequest failed: %v", err)
	}
	return req
}

func TestAPIKeyAuth(t *testing.T) {
	t.Run("HeaderBased", func(t *testing.T) {
		auth := NewAPIKeyAuth("X-API-Key", "", "test-api-key")
		req := newRequest(t)

		if err := auth.ApplyAuth(req); err != nil {
			t.Fatalf("ApplyAuth failed: %v", err)
		}

		assertHeader(t, req, "X-API-Key", "test-api-key")
	})

	t.Run("BothHeaderAndQuery", func(t *testing.T) {
		auth := NewAPIKeyAuth("X-API-Key", "api_key", "test-api-key")
		req := newRequest(t)

		if err := auth.ApplyAuth(req); err != nil {
			t.Fatalf("ApplyAuth failed: %v", err)
		}

		assertHeader(t, req, "X-API-Key", "test-api-key")
		assertQueryParam(t, req, "api_key", "test-api-key")
	})

	t.Run("MissingValue", func(t *testing.T) {
		err := NewAPIKeyAuth("X-API-Key", "", "").ApplyAuth(newRequest(t))
		assertErrorContains(t, err, "API key value is required")
		if !errors.Is(err, errors.ErrConfiguration) {
			t.Errorf("Expected ErrConfiguration, got %v", err)
		}
	})

	t.Run("MissingHeaderAndQuery", func(t *testing.T) {
		err := NewAPIKeyAuth("", "", "test-api-key").ApplyAuth(newRequest(t))
		assertErrorContains(t, err, "requires either header name or query parameter name")
	})

	t.Run("StringMethod", func(t *testing.T) {
		if str := NewAPIKeyAuth("", "api_key", "v").String(); str != "APIKeyAuth(query: api_key)" {
			t.Errorf("Unexpected String(): %s", str)
		}
	})
}

func TestBasicAuth(t *testing.T) {
	t.Run("ValidCredentials", func(t *testing.T) {
		req := newRequest(t)
		if err := NewBasicAuth("testuser", "testpass").ApplyAuth(req); err != nil {
			t.Fatalf("ApplyAuth failed: %v", err)
		}

		encoded := base64.StdEncoding.EncodeToString([]byte("testuser:testpass"))
		assertHeader(t, req, "Authorization", "Basic "+encoded)
	})

	t.Run("EmptyUsername", func(t *testing.T) {
		err := NewBasicAuth("", "testpass").ApplyAuth(newRequest(t))
		assertErrorContains(t, err, "username is empty")
	})

	t.Run("EmptyPassword", func(t *testing.T) {
		req := newRequest(t)
		if err := NewBasicAuth("testuser", "").ApplyAuth(req); err != nil {
			t.Fatalf("ApplyAuth with empty password failed: %v", err)
		}

		encoded := base64.StdEncoding.EncodeToString([]byte("testuser:"))
		assertHeader(t, req, "Authorization", "Basic "+encoded)
	})

	t.Run("StringMethod", func(t *testing.T) {
		str := NewBasicAuth("testuser", "testpass").String()
		if strings.Contains(str, "testpass") {
			t.Errorf("String() should not contain password, got: %s", str)
		}
	})
}

func TestBearerAuth(t *testing.T) {
	t.Run("ValidToken", func(t *testing.T) {
		req := newRequest(t)
		if err := NewBearerAuth("test-token").ApplyAuth(req); err != nil {
			t.Fatalf("ApplyAuth failed: %v", err)
		}

		assertHeader(t, req, "Authorization", "Bearer test-token")
	})

	t.Run("EmptyToken", func(t *testing.T) {
		err := NewBearerAuth("").ApplyAuth(newRequest(t))
		assertErrorContains(t, err, "token is empty")
	})

	t.Run("StringMethod", func(t *testing.T) {
		if str := NewBearerAuth("test-token").String(); strings.Contains(str, "test-token") {
			t.Errorf("String() should not contain the actual token, got: %s", str)
		}
	})
}

type failingSource struct{}

func (failingSource) Token() (*oauth2.Token, error) {
	return nil, fmt.Errorf("identity provider unavailable")
}

func TestTokenSourceAuth(t *testing.T) {
	t.Run("StaticToken", func(t *testing.T) {
		req := newRequest(t)
		if err := NewStaticTokenAuth("abc").ApplyAuth(req); err != nil {
			t.Fatalf("ApplyAuth failed: %v", err)
		}

		assertHeader(t, req, "Authorization", "Bearer abc")
	})

	t.Run("EmptyStaticToken", func(t *testing.T) {
		err := NewStaticTokenAuth("").ApplyAuth(newRequest(t))
		if !errors.Is(err, errors.ErrAuthentication) {
			t.Errorf("Expected ErrAuthentication, got %v", err)
		}
	})

	t.Run("SourceFailure", func(t *testing.T) {
		err := NewTokenSourceAuth(failingSource{}).ApplyAuth(newRequest(t))
		if !errors.Is(err, errors.ErrAuthentication) {
			t.Errorf("Expected ErrAuthentication, got %v", err)
		}
	})

	t.Run("NilSource", func(t *testing.T) {
		err := NewTokenSourceAuth(nil).ApplyAuth(newRequest(t))
		assertErrorContains(t, err, "token source is nil")
	})
}

func TestRegistry(t *testing.T) {
	t.Run("NilConfig", func(t *testing.T) {
		h, err := CreateHandler(nil)
		if err != nil || h != nil {
			t.Fatalf("Expected nil handler and nil error, got %v, %v", h, err)
		}
	})

	t.Run("Bearer", func(t *testing.T) {
		h, err := CreateHandler(&config.Auth{
			Type:   config.AuthTypeBearer,
			Bearer: &config.BearerAuth{Token: "tok"},
		})
		if err != nil {
			t.Fatalf("CreateHandler failed: %v", err)
		}
		req := newRequest(t)
		if err := h.ApplyAuth(req); err != nil {
			t.Fatalf("ApplyAuth failed: %v", err)
		}
		assertHeader(t, req, "Authorization", "Bearer tok")
	})

	t.Run("MissingBlock", func(t *testing.T) {
		_, err := CreateHandler(&config.Auth{Type: config.AuthTypeBasic})
		assertErrorContains(t, err, "basic auth configuration is required")
	})

	t.Run("UnknownType", func(t *testing.T) {
		_, err := CreateHandler(&config.Auth{Type: "kerberos"})
		assertErrorContains(t, err, "unsupported auth type: kerberos")
	})

	t.Run("CustomCreator", func(t *testing.T) {
		r := NewAuthRegistry()
		r.Register("static", func(*config.Auth) (Handler, error) {
			return NewStaticTokenAuth("custom"), nil
		})
		h, err := r.Create(&config.Auth{Type: "static"})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		req := newRequest(t)
		if err := h.ApplyAuth(req); err != nil {
			t.Fatalf("ApplyAuth failed: %v", err)
		}
		assertHeader(t, req, "Authorization", "Bearer custom")
	})
}

func TestOAuth2ClientCredentials(t *testing.T) {
	tokenRequests := 0
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenRequests++
		if err := r.ParseForm(); err != nil {
			t.Errorf("Failed to parse form: %v", err)
		}
		if gt := r.Form.Get("grant_type"); gt != "client_credentials" {
			t.Errorf("Expected grant_type client_credentials, got %q", gt)
		}
		if aud := r.Form.Get("audience"); aud != "graphql" {
			t.Errorf("Expected audience graphql, got %q", aud)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "minted-token",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	}))
	defer mockServer.Close()

	h, err := CreateHandler(&config.Auth{
		Type: config.AuthTypeOAuth2,
		OAuth2: &config.OAuth2Auth{
			TokenURL:     mockServer.URL,
			ClientID:     "id",
			ClientSecret: "secret",
			ExtraParams:  map[string]string{"audience": "graphql"},
		},
	})
	if err != nil {
		t.Fatalf("CreateHandler failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		req := newRequest(t)
		if err := h.ApplyAuth(req); err != nil {
			t.Fatalf("ApplyAuth failed: %v", err)
		}
		assertHeader(t, req, "Authorization", "Bearer minted-token")
	}

	if tokenRequests != 1 {
		t.Errorf("Expected the token to be fetched once and reused, got %d fetches", tokenRequests)
	}
}
