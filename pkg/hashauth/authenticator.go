package hashauth

import (
	"context"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"sync"
	"time"
)

// TimestampLayout renders a UTC timestamp as ISO-8601 with a numeric offset,
// e.g. 2015-05-11T12:17:57+00:00.
const TimestampLayout = "2006-01-02T15:04:05-07:00"

// ctxCheckInterval is the number of hash applications between context checks.
const ctxCheckInterval = 1 << 12

// Config holds authenticator configuration.
type Config struct {
	// Secret is the shared secret (required).
	Secret string `yaml:"secret"`
	// HashAlgorithm names a registered hash algorithm.
	// Default: the process-wide default hash algorithm (sha256)
	HashAlgorithm string `yaml:"hash_algorithm"`
	// HashRounds is the round exponent. The hash is applied 2^HashRounds times.
	HashRounds int `yaml:"hash_rounds"`
	// TimeDifference is the maximum permitted difference, in seconds, between
	// the timestamp of a request and the verifier's clock.
	TimeDifference int `yaml:"time_difference"`
}

// validate checks that the configuration is valid.
func (c Config) validate() error {
	if c.Secret == "" {
		return fmt.Errorf("%w: secret must not be empty", ErrInvalidArgument)
	}
	if err := validateHashAlgorithm(c.HashAlgorithm); err != nil {
		return err
	}
	if err := validateHashRounds(c.HashRounds); err != nil {
		return err
	}
	return validateTimeDifference(c.TimeDifference)
}

// Authenticator creates and verifies time-bounded shared-secret hashes.
// It is safe for concurrent use, including concurrent calls to its setters.
type Authenticator struct {
	mu  sync.RWMutex
	cfg Config
	now func() time.Time
}

// New creates an authenticator for secret using the process-wide defaults
// in effect at the time of the call.
func New(secret string) (*Authenticator, error) {
	return NewAuthenticator(DefaultConfig(secret))
}

// NewAuthenticator creates an authenticator from an explicit configuration.
// An empty HashAlgorithm takes the process-wide default; all other fields are
// used as given.
func NewAuthenticator(cfg Config) (*Authenticator, error) {
	if cfg.HashAlgorithm == "" {
		cfg.HashAlgorithm = DefaultHashAlgorithmName()
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &Authenticator{
		cfg: cfg,
		now: time.Now,
	}, nil
}

// SetHashAlgorithm sets the hash algorithm used for creation and comparison.
// The configuration is left unchanged if name is not a registered algorithm.
func (a *Authenticator) SetHashAlgorithm(name string) error {
	if a == nil {
		return ErrNilAuthenticator
	}
	if err := validateHashAlgorithm(name); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cfg.HashAlgorithm = name
	return nil
}

// SetTimeDifference sets the maximum time difference, in seconds, a request
// may have to be authenticated.
func (a *Authenticator) SetTimeDifference(seconds int) error {
	if a == nil {
		return ErrNilAuthenticator
	}
	if err := validateTimeDifference(seconds); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cfg.TimeDifference = seconds
	return nil
}

// SetHashRounds sets the round exponent. Each hash is computed 2^rounds times.
func (a *Authenticator) SetHashRounds(rounds int) error {
	if a == nil {
		return ErrNilAuthenticator
	}
	if err := validateHashRounds(rounds); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cfg.HashRounds = rounds
	return nil
}

// HashAlgorithm returns the configured hash algorithm name.
func (a *Authenticator) HashAlgorithm() string {
	return a.Config().HashAlgorithm
}

// HashRounds returns the configured round exponent.
func (a *Authenticator) HashRounds() int {
	return a.Config().HashRounds
}

// TimeDifference returns the configured time difference in seconds.
func (a *Authenticator) TimeDifference() int {
	return a.Config().TimeDifference
}

// Config returns a copy of the current configuration.
func (a *Authenticator) Config() Config {
	if a == nil {
		return Config{}
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.cfg
}

// CreateAuthentication creates the hash for random at the current time.
func (a *Authenticator) CreateAuthentication(ctx context.Context, random string) (string, error) {
	if a == nil {
		return "", ErrNilAuthenticator
	}
	return a.CreateAuthenticationAt(ctx, random, a.now())
}

// CreateAuthenticationAt creates the hash to send for random at timestamp.
// The result is a lowercase hex digest and is deterministic for identical
// inputs and configuration.
func (a *Authenticator) CreateAuthenticationAt(ctx context.Context, random string, timestamp time.Time) (string, error) {
	if a == nil {
		return "", ErrNilAuthenticator
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return digest(ctx, a.Config(), random, timestamp)
}

// Authenticate reports whether hash was created from random and timestamp with
// this authenticator's secret and configuration, and whether timestamp lies
// within the permitted time difference of the current time.
//
// A wrong hash and an expired timestamp both return false with a nil error;
// callers cannot tell the two apart. An error is returned only for a nil
// authenticator or a cancelled context.
func (a *Authenticator) Authenticate(ctx context.Context, timestamp time.Time, random, hash string) (bool, error) {
	if a == nil {
		return false, ErrNilAuthenticator
	}
	if ctx == nil {
		ctx = context.Background()
	}

	cfg := a.Config()
	expected, err := digest(ctx, cfg, random, timestamp)
	if err != nil {
		return false, err
	}

	if subtle.ConstantTimeCompare([]byte(expected), []byte(hash)) != 1 {
		return false, nil
	}

	diff := timestamp.Unix() - a.now().Unix()
	if diff < 0 {
		diff = -diff
	}
	return diff <= int64(cfg.TimeDifference), nil
}

// FormatTimestamp renders t in UTC using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// digest hashes random || timestamp || secret, then re-hashes the hex encoded
// digest until the algorithm has been applied 2^HashRounds times.
func digest(ctx context.Context, cfg Config, random string, timestamp time.Time) (string, error) {
	newHash, ok := lookupHashAlgorithm(cfg.HashAlgorithm)
	if !ok {
		return "", fmt.Errorf("%w: unsupported hash algorithm %q", ErrInvalidArgument, cfg.HashAlgorithm)
	}

	h := newHash()
	input := []byte(random + FormatTimestamp(timestamp) + cfg.Secret)
	var sum, out []byte

	iterations := uint64(1) << uint(cfg.HashRounds)
	for i := uint64(0); i < iterations; i++ {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return "", err
			}
		}
		h.Reset()
		h.Write(input)
		sum = h.Sum(sum[:0])
		// The encoded length follows what Sum returned, not what Size claims.
		out = hex.AppendEncode(out[:0], sum)
		input = out
	}

	return string(out), nil
}
