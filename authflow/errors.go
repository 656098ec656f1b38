package authflow

import (
	"errors"
	"fmt"
)

var (
	ConfigurationErr     = errors.New("oauth provider settings are not configured")
	MalformedCallbackErr = errors.New("missing code or state in callback")
	CsrfValidationErr    = errors.New("invalid state parameter")
	UnauthenticatedErr   = errors.New("not authenticated")
)

// ProviderDeniedError carries the error the identity provider sent back on
// the callback, e.g. access_denied when the user refused consent.
type ProviderDeniedError struct {
	Code        string
	Description string
}

func (e *ProviderDeniedError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("provider denied authorization: %s", e.Code)
	}
	return fmt.Sprintf("provider denied authorization: %s - %s", e.Code, e.Description)
}

// TokenExchangeError reports a failed or malformed response from the token
// endpoint. StatusCode and Body hold the upstream response when one was
// received; both are zero when the call itself failed.
type TokenExchangeError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *TokenExchangeError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("token exchange failed with status %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("token exchange failed: %v", e.Err)
}

func (e *TokenExchangeError) Unwrap() error {
	return e.Err
}
