package authflow

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// oauthConfig assembles the oauth2 client configuration for the provider.
// Fails with ConfigurationErr when the client id or redirect URI is missing.
func (s *Service) oauthConfig(ctx context.Context) (*oauth2.Config, error) {
	if s.cfg.OAuth.ClientID == "" || s.cfg.OAuth.RedirectURI == "" {
		return nil, ConfigurationErr
	}

	endpoint, err := s.resolveEndpoint(ctx)
	if err != nil {
		return nil, err
	}

	return &oauth2.Config{
		ClientID:     s.cfg.OAuth.ClientID,
		ClientSecret: s.cfg.OAuth.ClientSecret,
		Endpoint:     endpoint,
		RedirectURL:  s.cfg.OAuth.RedirectURI,
		Scopes:       s.cfg.OAuth.Scopes,
	}, nil
}

// resolveEndpoint returns the provider's authorize and token endpoints.
// With an issuer configured they come from OIDC discovery, once, and are
// cached for the life of the process; otherwise they are derived from the
// authority base URL using the v2.0 endpoint layout.
func (s *Service) resolveEndpoint(ctx context.Context) (oauth2.Endpoint, error) {
	s.endpointLock.RLock()
	cached := s.endpoint
	s.endpointLock.RUnlock()
	if cached != nil {
		return *cached, nil
	}

	var endpoint oauth2.Endpoint
	if issuer := s.cfg.OAuth.Issuer; issuer != "" {
		provider, err := oidc.NewProvider(ctx, issuer)
		if err != nil {
			return oauth2.Endpoint{}, fmt.Errorf("oidc discovery for %s: %w", issuer, err)
		}
		endpoint = provider.Endpoint()
	} else {
		authority := s.cfg.ResolvedAuthority()
		if authority == "" {
			return oauth2.Endpoint{}, ConfigurationErr
		}
		endpoint = oauth2.Endpoint{
			AuthURL:  authority + "/oauth2/v2.0/authorize",
			TokenURL: authority + "/oauth2/v2.0/token",
		}
	}

	s.endpointLock.Lock()
	s.endpoint = &endpoint
	s.endpointLock.Unlock()
	return endpoint, nil
}

// ResolveEndpoints primes the endpoint cache at startup so the first login
// initiation performs no network call even when discovery is configured.
func (s *Service) ResolveEndpoints(ctx context.Context) error {
	if s.cfg.OAuth.ClientID == "" {
		return nil // not configured, nothing to resolve
	}
	_, err := s.resolveEndpoint(ctx)
	return err
}
