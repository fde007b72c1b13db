package hashauth

import "errors"

var (
	// ErrInvalidArgument indicates a malformed construction or configuration input:
	// an empty secret, an unsupported hash algorithm, or a negative round count or
	// time difference.
	ErrInvalidArgument = errors.New("hashauth: invalid argument")

	// ErrNilAuthenticator indicates a nil authenticator was used.
	ErrNilAuthenticator = errors.New("hashauth: authenticator is nil")
)
