package httpauth

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
)

// ErrorHandler writes the response for a rejected request.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, status int, err error)

// Config holds middleware configuration.
type Config struct {
	// Verifier checks the request credentials (required).
	Verifier Verifier
	// Logger receives a record of every rejected request.
	// Default: logrus.StandardLogger()
	Logger logrus.FieldLogger
	// ErrorHandler writes the response for rejected requests.
	// Default: a plain-text response with the status text
	ErrorHandler ErrorHandler
}

// validate checks that the configuration is valid.
func (c Config) validate() error {
	if c.Verifier == nil {
		return fmt.Errorf("%w: verifier is required", ErrInvalidConfig)
	}
	return nil
}

// Middleware rejects requests that do not carry valid credentials.
// It is safe for concurrent use.
type Middleware struct {
	verifier     Verifier
	logger       logrus.FieldLogger
	errorHandler ErrorHandler
}

// NewMiddleware creates an authentication middleware.
func NewMiddleware(cfg Config) (*Middleware, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = defaultErrorHandler
	}

	return &Middleware{
		verifier:     cfg.Verifier,
		logger:       cfg.Logger,
		errorHandler: cfg.ErrorHandler,
	}, nil
}

// Handler wraps next so it only receives authenticated requests. The
// credentials are available to next through CredentialsFromContext.
// Handler has the signature of mux.MiddlewareFunc.
//
// Malformed credentials are answered with 400, credentials that do not
// authenticate with 401 and verifier failures with 500. A wrong hash and an
// expired timestamp produce identical responses.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := m.logger.WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
			"remote": r.RemoteAddr,
		})

		creds, err := FromRequest(r)
		if err != nil {
			log.WithError(err).Debug("httpauth: malformed credentials")
			m.errorHandler(w, r, http.StatusBadRequest, err)
			return
		}

		ok, err := m.verifier.Authenticate(r.Context(), creds.Timestamp, creds.Random, creds.Hash)
		if err != nil {
			log.WithError(err).Error("httpauth: verifier failed")
			m.errorHandler(w, r, http.StatusInternalServerError, err)
			return
		}
		if !ok {
			log.Info("httpauth: authentication failed")
			m.errorHandler(w, r, http.StatusUnauthorized, ErrUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), creds)))
	})
}

func defaultErrorHandler(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status == http.StatusBadRequest && errors.Is(err, ErrInvalidTimestamp) {
		http.Error(w, "invalid timestamp", status)
		return
	}
	http.Error(w, http.StatusText(status), status)
}
