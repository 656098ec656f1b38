package authflow

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// fetchProfile looks up the logged-in user's profile with the freshly
// obtained access token. Failures are logged at warn level and fall back to
// whatever the id_token claims carry; they never fail the login.
func (s *Service) fetchProfile(ctx context.Context, token *oauth2.Token, rawIDToken string) map[string]any {
	ctx, cancel := context.WithTimeout(ctx, exchangeTimeout)
	defer cancel()

	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.client)
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.Graph.BaseURL+"/me", nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("profile lookup request failed")
		return s.claimsProfile(rawIDToken)
	}

	resp, err := client.Do(req)
	if err != nil {
		s.log.Warn().Err(err).Msg("profile lookup failed")
		return s.claimsProfile(rawIDToken)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.log.Warn().Int("status", resp.StatusCode).Msg("profile lookup rejected")
		return s.claimsProfile(rawIDToken)
	}

	var profile map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		s.log.Warn().Err(err).Msg("profile response decode failed")
		return s.claimsProfile(rawIDToken)
	}
	return profile
}

// claimsProfile extracts display claims from the id_token as a degraded
// profile. The token came straight from the provider over TLS, so the
// signature is not re-verified here.
func (s *Service) claimsProfile(rawIDToken string) map[string]any {
	if rawIDToken == "" {
		return nil
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(rawIDToken, claims); err != nil {
		s.log.Warn().Err(err).Msg("id_token claims parse failed")
		return nil
	}
	return map[string]any(claims)
}
