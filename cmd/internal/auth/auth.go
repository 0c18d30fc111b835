package auth

import (
	"context"
	"fmt"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"os"
)

const FormsBodyScope = "https://www.googleapis.com/auth/forms.body"

type Action int

const (
	UseCached Action = iota
	Refresh
	Authorize
)

func (a Action) String() string {
	switch a {
	case UseCached:
		return "use cached token"
	case Refresh:
		return "refresh token"
	default:
		return "authorize"
	}
}

// Decide picks how to obtain a usable credential from the cached token, which may be nil.
func Decide(token *oauth2.Token) Action {
	if token.Valid() {
		return UseCached
	}

	if token != nil && token.RefreshToken != "" {
		return Refresh
	}

	return Authorize
}

// Authorizer obtains a brand new token from the user.
type Authorizer interface {
	Authorize(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error)
}

type Options struct {
	CredentialsFile string
	TokenFile       string
	Scopes          []string
	Authorizer      Authorizer
}

// LoadConfig reads an OAuth client secret file as downloaded from the Google Cloud console.
func LoadConfig(path string, scopes []string) (*oauth2.Config, error) {
	data, err := os.ReadFile(path)

	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file %s: %w", path, err)
	}

	config, err := google.ConfigFromJSON(data, scopes...)

	if err != nil {
		return nil, fmt.Errorf("failed to parse credentials file %s: %w", path, err)
	}

	return config, nil
}

// Acquire returns a credential that is valid now. The cached token is used as is when it is valid,
// otherwise a refreshed or newly authorized token is returned and written to the token file.
// The client secret file is only read when the cached token can not be used.
func Acquire(ctx context.Context, options Options) (*oauth2.Token, error) {
	cached, err := LoadToken(options.TokenFile)

	if err != nil {
		return nil, err
	}

	action := Decide(cached)
	zap.L().Debug("Credential action: " + action.String())

	if action == UseCached {
		return cached, nil
	}

	config, err := LoadConfig(options.CredentialsFile, options.Scopes)

	if err != nil {
		return nil, err
	}

	var token *oauth2.Token
	if action == Refresh {
		token, err = config.TokenSource(ctx, cached).Token()

		if err != nil {
			return nil, fmt.Errorf("failed to refresh the cached token: %w", err)
		}
	} else {
		authorizer := options.Authorizer
		if authorizer == nil {
			authorizer = LocalServerFlow{}
		}

		token, err = authorizer.Authorize(ctx, config)

		if err != nil {
			return nil, fmt.Errorf("failed to authorize: %w", err)
		}
	}

	if err := SaveToken(options.TokenFile, token, options.Scopes); err != nil {
		return nil, fmt.Errorf("failed to save token file %s: %w", options.TokenFile, err)
	}

	return token, nil
}
