package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"github.com/OctopusSolutionsEngineering/FormReplicator/cmd/internal/writers"
	"golang.org/x/oauth2"
	"io/fs"
	"os"
	"time"
)

// tokenFile is the on disk form of a cached credential. Token is the key used by other Google
// client libraries for the access token, and is accepted when reading.
type tokenFile struct {
	AccessToken  string    `json:"access_token,omitempty"`
	Token        string    `json:"token,omitempty"`
	TokenType    string    `json:"token_type,omitempty"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	Expiry       time.Time `json:"expiry,omitempty"`
	Scopes       []string  `json:"scopes,omitempty"`
}

// LoadToken reads a cached token. A missing file is not an error: it returns a nil token.
func LoadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)

	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read token file %s: %w", path, err)
	}

	stored := tokenFile{}
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("failed to parse token file %s: %w", path, err)
	}

	accessToken := stored.AccessToken
	if accessToken == "" {
		accessToken = stored.Token
	}

	return &oauth2.Token{
		AccessToken:  accessToken,
		TokenType:    stored.TokenType,
		RefreshToken: stored.RefreshToken,
		Expiry:       stored.Expiry,
	}, nil
}

// SaveToken writes the token so the next run can skip authorization.
func SaveToken(path string, token *oauth2.Token, scopes []string) error {
	if token == nil {
		return errors.New("can not save an empty token")
	}

	data, err := json.MarshalIndent(tokenFile{
		AccessToken:  token.AccessToken,
		TokenType:    token.TokenType,
		RefreshToken: token.RefreshToken,
		Expiry:       token.Expiry,
		Scopes:       scopes,
	}, "", "  ")

	if err != nil {
		return err
	}

	return writers.NewFileWriter(path, 0600).Write(data)
}
