package hashauth

import (
	"fmt"
	"sync"
)

const (
	// DefaultHashAlgorithm is the hash algorithm used when none is configured.
	DefaultHashAlgorithm = AlgorithmSHA256
	// DefaultHashRounds is the default round exponent (2^10 hash applications).
	DefaultHashRounds = 10
	// DefaultTimeDifference is the default permitted clock skew in seconds.
	DefaultTimeDifference = 60
	// MaxHashRounds is the largest accepted round exponent.
	MaxHashRounds = 63
)

// Process-wide defaults. They are read once when an authenticator is
// constructed and never applied to existing authenticators.
var (
	defaultsMu            sync.RWMutex
	defaultHashAlgorithm  = DefaultHashAlgorithm
	defaultHashRounds     = DefaultHashRounds
	defaultTimeDifference = DefaultTimeDifference
)

// SetDefaultHashAlgorithm sets the hash algorithm used by authenticators
// constructed afterwards.
func SetDefaultHashAlgorithm(name string) error {
	if err := validateHashAlgorithm(name); err != nil {
		return err
	}
	defaultsMu.Lock()
	defer defaultsMu.Unlock()
	defaultHashAlgorithm = name
	return nil
}

// SetDefaultHashRounds sets the round exponent used by authenticators
// constructed afterwards.
func SetDefaultHashRounds(rounds int) error {
	if err := validateHashRounds(rounds); err != nil {
		return err
	}
	defaultsMu.Lock()
	defer defaultsMu.Unlock()
	defaultHashRounds = rounds
	return nil
}

// SetDefaultTimeDifference sets the permitted clock skew, in seconds, used by
// authenticators constructed afterwards.
func SetDefaultTimeDifference(seconds int) error {
	if err := validateTimeDifference(seconds); err != nil {
		return err
	}
	defaultsMu.Lock()
	defer defaultsMu.Unlock()
	defaultTimeDifference = seconds
	return nil
}

// DefaultHashAlgorithmName returns the current process-wide hash algorithm.
func DefaultHashAlgorithmName() string {
	defaultsMu.RLock()
	defer defaultsMu.RUnlock()
	return defaultHashAlgorithm
}

// DefaultHashRoundsValue returns the current process-wide round exponent.
func DefaultHashRoundsValue() int {
	defaultsMu.RLock()
	defer defaultsMu.RUnlock()
	return defaultHashRounds
}

// DefaultTimeDifferenceValue returns the current process-wide clock skew in seconds.
func DefaultTimeDifferenceValue() int {
	defaultsMu.RLock()
	defer defaultsMu.RUnlock()
	return defaultTimeDifference
}

// ResetDefaults restores the built-in process-wide defaults.
func ResetDefaults() {
	defaultsMu.Lock()
	defer defaultsMu.Unlock()
	defaultHashAlgorithm = DefaultHashAlgorithm
	defaultHashRounds = DefaultHashRounds
	defaultTimeDifference = DefaultTimeDifference
}

// DefaultConfig returns a Config holding secret and a snapshot of the
// process-wide defaults.
func DefaultConfig(secret string) Config {
	defaultsMu.RLock()
	defer defaultsMu.RUnlock()
	return Config{
		Secret:         secret,
		HashAlgorithm:  defaultHashAlgorithm,
		HashRounds:     defaultHashRounds,
		TimeDifference: defaultTimeDifference,
	}
}

func validateHashRounds(rounds int) error {
	if rounds < 0 {
		return fmt.Errorf("%w: hash rounds must not be negative", ErrInvalidArgument)
	}
	if rounds > MaxHashRounds {
		return fmt.Errorf("%w: hash rounds must not exceed %d", ErrInvalidArgument, MaxHashRounds)
	}
	return nil
}

func validateTimeDifference(seconds int) error {
	if seconds < 0 {
		return fmt.Errorf("%w: time difference must not be negative", ErrInvalidArgument)
	}
	return nil
}
