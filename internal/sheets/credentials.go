// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

package sheets

import (
	"context"
	"encoding/pem"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/jwt"

	"github.com/tomtom215/storefront-catalog/internal/config"
)

// ReadOnlyScope is the only OAuth scope requested.
const ReadOnlyScope = "https://www.googleapis.com/auth/spreadsheets.readonly"

// serviceAccountFile is the subset of a Google service account key file we read.
type serviceAccountFile struct {
	Type         string `json:"type"`
	ClientEmail  string `json:"client_email"`
	PrivateKey   string `json:"private_key"`
	PrivateKeyID string `json:"private_key_id"`
	TokenURI     string `json:"token_uri"`
}

// jwtConfig builds the JWT bearer flow from either the credentials file or
// the email and private key settings. The file wins when both are present.
func jwtConfig(cfg *config.SheetConfig) (*jwt.Config, error) {
	email, key, keyID, tokenURL := cfg.ServiceAccountEmail, cfg.PrivateKey, "", cfg.TokenURL

	if !config.IsPlaceholder(cfg.CredentialsFile) {
		raw, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}
		var sa serviceAccountFile
		if err := json.Unmarshal(raw, &sa); err != nil {
			return nil, fmt.Errorf("parse credentials file: %w", err)
		}
		if sa.Type != "" && sa.Type != "service_account" {
			return nil, fmt.Errorf("credentials file type %q is not service_account", sa.Type)
		}
		email, key, keyID = sa.ClientEmail, sa.PrivateKey, sa.PrivateKeyID
		if sa.TokenURI != "" {
			tokenURL = sa.TokenURI
		}
	}

	// Keys pasted into env files usually carry literal \n sequences.
	key = strings.ReplaceAll(key, `\n`, "\n")
	if email == "" {
		return nil, errors.New("service account email is empty")
	}
	if block, _ := pem.Decode([]byte(key)); block == nil {
		return nil, errors.New("private key is not PEM encoded")
	}

	return &jwt.Config{
		Email:        email,
		PrivateKey:   []byte(key),
		PrivateKeyID: keyID,
		Scopes:       []string{ReadOnlyScope},
		TokenURL:     tokenURL,
	}, nil
}

// oauthClient returns an HTTP client that attaches bearer tokens. Token
// exchanges go through base so they share its timeout.
func oauthClient(conf *jwt.Config, base *http.Client) *http.Client {
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	client := conf.Client(ctx)
	client.Timeout = base.Timeout
	return client
}
