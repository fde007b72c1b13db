package httpauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jeremyhahn/go-hashauth/pkg/hashauth"
)

// Header names carrying the credentials of an authenticated request.
const (
	HeaderRandom    = "X-Auth-Random"
	HeaderTimestamp = "X-Auth-Timestamp"
	HeaderHash      = "X-Auth-Hash"
)

// Query parameters accepted when the headers are absent.
const (
	ParamRandom    = "random"
	ParamTimestamp = "timestamp"
	ParamHash      = "hash"
)

var (
	// ErrMissingCredentials indicates the request lacks the random, timestamp or hash value.
	ErrMissingCredentials = errors.New("httpauth: random, timestamp and hash are required")
	// ErrInvalidTimestamp indicates the timestamp could not be parsed.
	ErrInvalidTimestamp = errors.New("httpauth: invalid timestamp")
	// ErrUnauthorized indicates the credentials did not authenticate. It covers
	// both a wrong hash and an expired timestamp.
	ErrUnauthorized = errors.New("httpauth: unauthorized")
	// ErrInvalidConfig indicates the middleware or transport configuration is invalid.
	ErrInvalidConfig = errors.New("httpauth: invalid configuration")
)

// Verifier checks request credentials. *hashauth.Authenticator implements it.
type Verifier interface {
	Authenticate(ctx context.Context, timestamp time.Time, random, hash string) (bool, error)
}

// VerifierFunc adapts a function to the Verifier interface.
type VerifierFunc func(ctx context.Context, timestamp time.Time, random, hash string) (bool, error)

// Authenticate executes the underlying function.
func (f VerifierFunc) Authenticate(ctx context.Context, timestamp time.Time, random, hash string) (bool, error) {
	return f(ctx, timestamp, random, hash)
}

// Signer produces the hash for outgoing requests. *hashauth.Authenticator implements it.
type Signer interface {
	CreateAuthenticationAt(ctx context.Context, random string, timestamp time.Time) (string, error)
}

// Credentials are the values a client sends to authenticate a request.
type Credentials struct {
	Random    string
	Timestamp time.Time
	Hash      string
}

// Apply writes the credentials to h, replacing any existing values.
func (c Credentials) Apply(h http.Header) {
	h.Set(HeaderRandom, c.Random)
	h.Set(HeaderTimestamp, hashauth.FormatTimestamp(c.Timestamp))
	h.Set(HeaderHash, c.Hash)
}

// FromRequest extracts credentials from the request headers, falling back to
// the query string for each value that has no header.
func FromRequest(r *http.Request) (Credentials, error) {
	query := r.URL.Query()
	value := func(header, param string) string {
		if v := r.Header.Get(header); v != "" {
			return v
		}
		return query.Get(param)
	}

	random := value(HeaderRandom, ParamRandom)
	timestamp := value(HeaderTimestamp, ParamTimestamp)
	hash := value(HeaderHash, ParamHash)
	if random == "" || timestamp == "" || hash == "" {
		return Credentials{}, ErrMissingCredentials
	}

	ts, err := ParseTimestamp(timestamp)
	if err != nil {
		return Credentials{}, err
	}

	return Credentials{Random: random, Timestamp: ts, Hash: hash}, nil
}

// ParseTimestamp parses an ISO-8601 timestamp with offset. Integer Unix
// seconds are accepted as well.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
}

// Sign authenticates req for the current time using random as the nonce.
func Sign(ctx context.Context, req *http.Request, signer Signer, random string) error {
	if signer == nil {
		return fmt.Errorf("%w: signer is required", ErrInvalidConfig)
	}
	now := time.Now()
	hash, err := signer.CreateAuthenticationAt(ctx, random, now)
	if err != nil {
		return fmt.Errorf("httpauth: failed to sign request: %w", err)
	}
	Credentials{Random: random, Timestamp: now, Hash: hash}.Apply(req.Header)
	return nil
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying the authenticated credentials.
func NewContext(ctx context.Context, c Credentials) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

// CredentialsFromContext returns the credentials stored by the middleware.
func CredentialsFromContext(ctx context.Context) (Credentials, bool) {
	c, ok := ctx.Value(contextKey{}).(Credentials)
	return c, ok
}

// Ensure the authenticator satisfies both interfaces.
var (
	_ Verifier = (*hashauth.Authenticator)(nil)
	_ Signer   = (*hashauth.Authenticator)(nil)
)
