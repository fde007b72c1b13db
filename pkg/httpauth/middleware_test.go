package httpauth

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func newTestMiddleware(t *testing.T, v Verifier) (*Middleware, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	mw, err := NewMiddleware(Config{Verifier: v, Logger: logger})
	if err != nil {
		t.Fatalf("NewMiddleware error: %v", err)
	}
	return mw, hook
}

// okHandler records whether it was reached and echoes the authenticated random.
type okHandler struct {
	calls int
}

func (h *okHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.calls++
	creds, _ := CredentialsFromContext(r.Context())
	io.WriteString(w, creds.Random)
}

func TestNewMiddlewareRequiresVerifier(t *testing.T) {
	if _, err := NewMiddleware(Config{}); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestMiddlewareAccepts(t *testing.T) {
	auth := newTestAuthenticator(t)
	mw, _ := newTestMiddleware(t, auth)
	next := &okHandler{}

	req := httptest.NewRequest(http.MethodGet, "/v1/items", nil)
	if err := Sign(context.Background(), req, auth, "nonce-1"); err != nil {
		t.Fatalf("Sign error: %v", err)
	}
	rec := httptest.NewRecorder()
	mw.Handler(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if next.calls != 1 {
		t.Fatalf("expected next handler to be called once, got %d", next.calls)
	}
	if rec.Body.String() != "nonce-1" {
		t.Fatalf("expected credentials in context, got body %q", rec.Body.String())
	}
}

func TestMiddlewareRejects(t *testing.T) {
	auth := newTestAuthenticator(t)
	ctx := context.Background()
	now := time.Now()
	expired := now.Add(-2 * time.Minute)

	validHash, err := auth.CreateAuthenticationAt(ctx, "nonce", now)
	if err != nil {
		t.Fatalf("CreateAuthenticationAt error: %v", err)
	}
	expiredHash, err := auth.CreateAuthenticationAt(ctx, "nonce", expired)
	if err != nil {
		t.Fatalf("CreateAuthenticationAt error: %v", err)
	}

	tests := []struct {
		name       string
		creds      *Credentials
		wantStatus int
	}{
		{"missing credentials", nil, http.StatusBadRequest},
		{"wrong hash", &Credentials{Random: "nonce", Timestamp: now, Hash: strings.Repeat("0", 64)}, http.StatusUnauthorized},
		{"wrong random", &Credentials{Random: "other", Timestamp: now, Hash: validHash}, http.StatusUnauthorized},
		{"expired timestamp", &Credentials{Random: "nonce", Timestamp: expired, Hash: expiredHash}, http.StatusUnauthorized},
	}

	bodies := map[string]string{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mw, _ := newTestMiddleware(t, auth)
			next := &okHandler{}

			req := httptest.NewRequest(http.MethodGet, "/v1/items", nil)
			if tt.creds != nil {
				tt.creds.Apply(req.Header)
			}
			rec := httptest.NewRecorder()
			mw.Handler(next).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			if next.calls != 0 {
				t.Fatalf("expected next handler not to be called")
			}
			bodies[tt.name] = rec.Body.String()
		})
	}

	if bodies["wrong hash"] != bodies["expired timestamp"] {
		t.Fatalf("expected identical responses for wrong hash and expired timestamp, got %q and %q",
			bodies["wrong hash"], bodies["expired timestamp"])
	}
}

func TestMiddlewareInvalidTimestamp(t *testing.T) {
	mw, _ := newTestMiddleware(t, newTestAuthenticator(t))

	req := httptest.NewRequest(http.MethodGet, "/?random=r&hash=h&timestamp=soon", nil)
	rec := httptest.NewRecorder()
	mw.Handler(&okHandler{}).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "invalid timestamp") {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}

func TestMiddlewareVerifierError(t *testing.T) {
	verifierErr := errors.New("verifier unavailable")
	mw, hook := newTestMiddleware(t, VerifierFunc(func(ctx context.Context, timestamp time.Time, random, hash string) (bool, error) {
		return false, verifierErr
	}))

	req := httptest.NewRequest(http.MethodGet, "/?random=r&hash=h&timestamp=1431346677", nil)
	rec := httptest.NewRecorder()
	mw.Handler(&okHandler{}).ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	entry := hook.LastEntry()
	if entry == nil || entry.Level != logrus.ErrorLevel {
		t.Fatalf("expected an error log entry, got %+v", entry)
	}
	if err, _ := entry.Data[logrus.ErrorKey].(error); !errors.Is(err, verifierErr) {
		t.Fatalf("expected logged verifier error, got %v", entry.Data[logrus.ErrorKey])
	}
}

func TestMiddlewareLogsFailures(t *testing.T) {
	mw, hook := newTestMiddleware(t, VerifierFunc(func(ctx context.Context, timestamp time.Time, random, hash string) (bool, error) {
		return false, nil
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/items?random=r&hash=h&timestamp=1431346677", nil)
	mw.Handler(&okHandler{}).ServeHTTP(httptest.NewRecorder(), req)

	entry := hook.LastEntry()
	if entry == nil {
		t.Fatalf("expected a log entry")
	}
	if entry.Level != logrus.InfoLevel {
		t.Fatalf("expected info level, got %v", entry.Level)
	}
	if entry.Data["path"] != "/v1/items" {
		t.Fatalf("expected path field, got %v", entry.Data["path"])
	}
	for _, e := range hook.AllEntries() {
		if _, ok := e.Data["random"]; ok {
			t.Fatalf("expected client nonce not to be logged, got %v", e.Data)
		}
	}
}

func TestMiddlewareCustomErrorHandler(t *testing.T) {
	var gotStatus int
	var gotErr error
	mw, err := NewMiddleware(Config{
		Verifier: newTestAuthenticator(t),
		Logger:   logrus.New(),
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, status int, err error) {
			gotStatus, gotErr = status, err
			w.WriteHeader(http.StatusTeapot)
		},
	})
	if err != nil {
		t.Fatalf("NewMiddleware error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/?random=r&hash=h&timestamp=1431346677", nil)
	rec := httptest.NewRecorder()
	mw.Handler(&okHandler{}).ServeHTTP(rec, req)

	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected custom status, got %d", rec.Code)
	}
	if gotStatus != http.StatusUnauthorized || !errors.Is(gotErr, ErrUnauthorized) {
		t.Fatalf("unexpected error handler arguments: %d %v", gotStatus, gotErr)
	}
}
