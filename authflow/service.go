// Package authflow implements the OAuth2 authorization-code login flow
// against an external identity provider: login initiation, callback
// validation, token exchange and the session-bound authentication state.
package authflow

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/kylekyl-khan/contacts-server/internal/config"
)

// Reserved session keys. The auth flow is the only writer of these entries.
const (
	sessionKeyState = "auth_state"
	sessionKeyAuth  = "auth"
)

const exchangeTimeout = 10 * time.Second

// Bag is the slice of per-client session state the flow reads and writes.
// Operations take it as an explicit argument so the state machine is
// testable without a transport layer.
type Bag interface {
	Get(key string) (any, bool)
	Set(key string, value any)
	Delete(key string)
}

// TokenBundle holds the credentials obtained from a successful exchange,
// plus the user profile fetched with the new access token. It lives in the
// session auth entry until logout or session expiry and nowhere else.
type TokenBundle struct {
	AccessToken  string
	RefreshToken string
	IDToken      string
	User         map[string]any
}

// Service is the authorization state machine. It is stateless apart from the
// cached provider endpoint; all per-client state lives in the session bag.
type Service struct {
	cfg    *config.Settings
	client *http.Client
	log    zerolog.Logger

	endpointLock sync.RWMutex
	endpoint     *oauth2.Endpoint
}

func New(cfg *config.Settings, logger zerolog.Logger) *Service {
	return &Service{
		cfg:    cfg,
		client: &http.Client{Timeout: exchangeTimeout},
		log:    logger,
	}
}

// generateState creates a random base64url state value
func generateState(length int) string {
	b := make([]byte, length)
	rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

// InitiateLogin writes a fresh CSRF state into the session and returns the
// provider authorize URL to redirect the client to. A prior in-flight state
// is overwritten: only one login attempt is in flight per session. Fails
// with ConfigurationErr, without touching the session, when the provider
// settings are incomplete.
func (s *Service) InitiateLogin(ctx context.Context, sess Bag) (string, error) {
	conf, err := s.oauthConfig(ctx)
	if err != nil {
		return "", err
	}

	state := generateState(32)
	sess.Set(sessionKeyState, state)

	return conf.AuthCodeURL(state, oauth2.SetAuthURLParam("response_mode", "query")), nil
}

// HandleCallback validates the provider callback and, when everything checks
// out, exchanges the code and writes the token bundle into the session.
//
// The stored state is consumed on the first callback attempt regardless of
// the validation outcome, so a replayed callback can never succeed twice.
// The exceptions are the provider-error and missing-parameter branches,
// which fail before the state is read and leave the attempt retryable.
func (s *Service) HandleCallback(ctx context.Context, sess Bag, code, state, errParam, errDesc string) error {
	if errParam != "" {
		return &ProviderDeniedError{Code: errParam, Description: errDesc}
	}
	if code == "" || state == "" {
		return MalformedCallbackErr
	}

	stored, ok := sess.Get(sessionKeyState)
	sess.Delete(sessionKeyState)
	storedState, _ := stored.(string)
	if !ok || storedState == "" || storedState != state {
		return CsrfValidationErr
	}

	conf, err := s.oauthConfig(ctx)
	if err != nil {
		return err
	}

	bundle, token, err := s.exchange(ctx, conf, code)
	if err != nil {
		return err
	}

	// Enrichment is best-effort: a failed profile lookup must never fail the
	// login, it just leaves a degraded profile.
	bundle.User = s.fetchProfile(ctx, token, bundle.IDToken)

	sess.Set(sessionKeyAuth, bundle)
	return nil
}

// exchange trades the authorization code for tokens at the provider's token
// endpoint.
func (s *Service) exchange(ctx context.Context, conf *oauth2.Config, code string) (*TokenBundle, *oauth2.Token, error) {
	ctx, cancel := context.WithTimeout(ctx, exchangeTimeout)
	defer cancel()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.client)

	token, err := conf.Exchange(ctx, code)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
			return nil, nil, &TokenExchangeError{
				StatusCode: retrieveErr.Response.StatusCode,
				Body:       string(retrieveErr.Body),
				Err:        err,
			}
		}
		return nil, nil, &TokenExchangeError{Err: err}
	}
	if token.AccessToken == "" {
		return nil, nil, &TokenExchangeError{Err: errors.New("no access_token in provider response")}
	}

	bundle := &TokenBundle{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
	}
	if idToken, ok := token.Extra("id_token").(string); ok {
		bundle.IDToken = idToken
	}
	return bundle, token, nil
}

// Logout removes the auth entry. Calling it on an anonymous session is a
// no-op.
func (s *Service) Logout(sess Bag) {
	sess.Delete(sessionKeyAuth)
}

// CurrentUser returns the stored profile without mutating the session.
// ok is false when the session holds no usable auth entry.
func (s *Service) CurrentUser(sess Bag) (map[string]any, bool) {
	bundle, ok := authBundle(sess)
	if !ok {
		return nil, false
	}
	return bundle.User, true
}

// RequireUser is the authorization gate for protected endpoints: it fails
// with UnauthenticatedErr unless the session holds an auth entry with a
// non-empty access token.
func (s *Service) RequireUser(sess Bag) (map[string]any, error) {
	user, ok := s.CurrentUser(sess)
	if !ok {
		return nil, UnauthenticatedErr
	}
	return user, nil
}

// AccessToken returns the session's access token for on-behalf-of calls to
// the directory provider.
func (s *Service) AccessToken(sess Bag) (string, bool) {
	bundle, ok := authBundle(sess)
	if !ok {
		return "", false
	}
	return bundle.AccessToken, true
}

func authBundle(sess Bag) (*TokenBundle, bool) {
	v, ok := sess.Get(sessionKeyAuth)
	if !ok {
		return nil, false
	}
	bundle, ok := v.(*TokenBundle)
	if !ok || bundle == nil || bundle.AccessToken == "" {
		return nil, false
	}
	return bundle, true
}
