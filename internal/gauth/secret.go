// Package gauth handles Google OAuth2 for the CLI: parsing downloaded client
// credentials, the browser authorization flow, and token sources that keep
// the cached token file current across refreshes.
package gauth

import (
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/oauth2"
)

// Google OAuth2 endpoints, used when the client secret file omits them.
const (
	defaultAuthURL  = "https://accounts.google.com/o/oauth2/auth"
	defaultTokenURL = "https://oauth2.googleapis.com/token" //nolint:gosec // endpoint URL, not a credential
)

// Read-only scopes for the two services.
const (
	ScopeDriveReadonly  = "https://www.googleapis.com/auth/drive.readonly"
	ScopePhotosReadonly = "https://www.googleapis.com/auth/photoslibrary.readonly"
)

// ClientSecret holds the OAuth2 client credentials from a client_secret.json
// downloaded from the Google Cloud console.
type ClientSecret struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	AuthURI      string `json:"auth_uri"`
	TokenURI     string `json:"token_uri"`
}

// secretFile mirrors the client_secret.json wrapper object. Desktop apps use
// the "installed" key; "web" is accepted for completeness.
type secretFile struct {
	Installed *ClientSecret `json:"installed"`
	Web       *ClientSecret `json:"web"`
}

// LoadClientSecret reads and parses a client_secret.json file.
func LoadClientSecret(path string) (*ClientSecret, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("gauth: reading client secret %s: %w", path, err)
	}

	var sf secretFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("gauth: decoding client secret %s: %w", path, err)
	}

	cs := sf.Installed
	if cs == nil {
		cs = sf.Web
	}

	if cs == nil {
		return nil, fmt.Errorf("gauth: %s has neither installed nor web credentials", path)
	}

	if cs.ClientID == "" {
		return nil, fmt.Errorf("gauth: %s missing client_id", path)
	}

	return cs, nil
}

// OAuthConfig builds an oauth2.Config for the given scopes. Endpoint URLs
// from the secret file win over the defaults.
func (cs *ClientSecret) OAuthConfig(scopes ...string) *oauth2.Config {
	authURL := cs.AuthURI
	if authURL == "" {
		authURL = defaultAuthURL
	}

	tokenURL := cs.TokenURI
	if tokenURL == "" {
		tokenURL = defaultTokenURL
	}

	return &oauth2.Config{
		ClientID:     cs.ClientID,
		ClientSecret: cs.ClientSecret,
		Scopes:       scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  authURL,
			TokenURL: tokenURL,
		},
	}
}
