package httpauth

import (
	"fmt"
	"net/http"

	"github.com/jeremyhahn/go-hashauth/pkg/hashauth"
)

// Transport is an http.RoundTripper that authenticates every request it
// sends with a fresh random nonce.
type Transport struct {
	// Signer creates the request hash (required).
	Signer Signer
	// Base performs the request.
	// Default: http.DefaultTransport
	Base http.RoundTripper
	// NewRandom produces the nonce for each request.
	// Default: hashauth.GenerateRandom
	NewRandom func() (string, error)
}

// RoundTrip signs a clone of req and passes it to the base transport.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t == nil || t.Signer == nil {
		closeBody(req)
		return nil, fmt.Errorf("%w: signer is required", ErrInvalidConfig)
	}

	newRandom := t.NewRandom
	if newRandom == nil {
		newRandom = hashauth.GenerateRandom
	}
	random, err := newRandom()
	if err != nil {
		closeBody(req)
		return nil, fmt.Errorf("httpauth: failed to generate random: %w", err)
	}

	signed := req.Clone(req.Context())
	if err := Sign(req.Context(), signed, t.Signer, random); err != nil {
		closeBody(req)
		return nil, err
	}

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(signed)
}

// NewClient returns an HTTP client whose requests are signed by signer.
func NewClient(signer Signer) *http.Client {
	return &http.Client{Transport: &Transport{Signer: signer}}
}

// closeBody closes the request body, which RoundTrip must do even on error.
func closeBody(req *http.Request) {
	if req.Body != nil {
		req.Body.Close()
	}
}
