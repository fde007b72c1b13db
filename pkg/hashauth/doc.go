// Package hashauth provides time-bounded, shared-secret request authentication.
//
// A client hashes a random nonce, a timestamp and a shared secret and sends the
// nonce, the timestamp and the resulting hash with its request. The server
// recomputes the hash and accepts the request only if the hashes match and the
// timestamp is within the permitted clock skew.
//
// # Client
//
//	auth, err := hashauth.New("shared-secret")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	random, err := hashauth.GenerateRandom()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	now := time.Now()
//	hash, err := auth.CreateAuthenticationAt(ctx, random, now)
//	// Send random, hashauth.FormatTimestamp(now) and hash to the server
//
// # Server
//
//	ok, err := auth.Authenticate(ctx, timestamp, random, hash)
//	if err != nil {
//	    return err
//	}
//	if !ok {
//	    // reject the request
//	}
//
// Authenticate returns false both for a wrong hash and for a timestamp outside
// the permitted window. The two cases are deliberately indistinguishable.
//
// # Hash Construction
//
// The timestamp is rendered in UTC as ISO-8601 with offset
// (2006-01-02T15:04:05+00:00) and concatenated as random || timestamp || secret.
// The configured algorithm is applied to the concatenation and then repeatedly
// to the lowercase hex encoding of the previous digest, 2^HashRounds times in
// total. The default of 10 rounds therefore performs 1024 hash applications.
//
// # Configuration
//
// New reads the process-wide defaults (sha256, 10 rounds, 60 seconds) once at
// construction. Defaults may be changed with SetDefaultHashAlgorithm,
// SetDefaultHashRounds and SetDefaultTimeDifference; existing authenticators
// keep their configuration. NewAuthenticator accepts an explicit Config and is
// preferred when the configuration is known at startup.
//
// Invalid configuration is reported with an error wrapping ErrInvalidArgument.
//
// # Thread Safety
//
// The Authenticator type is safe for concurrent use. Setters may be called
// while other goroutines authenticate; each call works on a snapshot of the
// configuration.
//
// # Replay Protection
//
// This package does not remember nonces. Callers that need replay protection
// must record accepted nonces for at least the configured time difference.
package hashauth
