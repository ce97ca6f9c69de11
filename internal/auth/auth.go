package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
)

// Identity is the caller a token resolved to. ClientID keys per-client
// rate limiting.
type Identity struct {
	ClientID string
}

type TokenValidator interface {
	Validate(ctx context.Context, token string) (Identity, bool)
}

type staticToken struct {
	token    []byte
	identity Identity
}

type StaticTokenValidator struct {
	tokens []staticToken
}

// NewStaticTokenValidator parses a comma separated list of "token:client"
// or bare "token" entries. A non-empty bearerToken is added under the
// client "default".
func NewStaticTokenValidator(tokens, bearerToken string) (*StaticTokenValidator, error) {
	validator := &StaticTokenValidator{}
	seen := map[string]struct{}{}
	add := func(token, client string) error {
		if _, dup := seen[token]; dup {
			return fmt.Errorf("duplicate static token for client %q", client)
		}
		seen[token] = struct{}{}
		validator.tokens = append(validator.tokens, staticToken{token: []byte(token), identity: Identity{ClientID: client}})
		return nil
	}

	for _, entry := range strings.Split(tokens, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		token, client, hasClient := strings.Cut(entry, ":")
		token = strings.TrimSpace(token)
		client = strings.TrimSpace(client)
		if token == "" {
			return nil, fmt.Errorf("invalid static token entry %q: empty token", entry)
		}
		if hasClient && client == "" {
			return nil, fmt.Errorf("invalid static token entry %q: empty client", entry)
		}
		if !hasClient {
			client = fmt.Sprintf("client-%d", len(validator.tokens)+1)
		}
		if err := add(token, client); err != nil {
			return nil, err
		}
	}

	if bearerToken = strings.TrimSpace(bearerToken); bearerToken != "" {
		if err := add(bearerToken, "default"); err != nil {
			return nil, err
		}
	}
	return validator, nil
}

func (v *StaticTokenValidator) Len() int {
	return len(v.tokens)
}

func (v *StaticTokenValidator) Validate(_ context.Context, token string) (Identity, bool) {
	candidate := []byte(token)
	var (
		found   Identity
		matched bool
	)
	for _, entry := range v.tokens {
		if subtle.ConstantTimeCompare(entry.token, candidate) == 1 {
			found = entry.identity
			matched = true
		}
	}
	return found, matched
}
