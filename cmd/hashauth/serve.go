package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/jeremyhahn/go-hashauth/pkg/hashauth"
	"github.com/jeremyhahn/go-hashauth/pkg/httpauth"
)

type serveCommand struct {
	Listen string `short:"l" long:"listen" description:"listen address (overrides the config file)"`
}

type whoamiReply struct {
	Random    string `json:"random"`
	Timestamp string `json:"timestamp"`
}

// newRouter serves /healthz without authentication and everything under
// /v1 behind mw.
func newRouter(mw *httpauth.Middleware) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodGet)

	v1 := router.PathPrefix("/v1").Subrouter()
	v1.Use(mw.Handler)
	v1.HandleFunc("/whoami", func(w http.ResponseWriter, r *http.Request) {
		creds, _ := httpauth.CredentialsFromContext(r.Context())
		w.Header().Set("Content-Type", "application/json")
		err := json.NewEncoder(w).Encode(whoamiReply{
			Random:    creds.Random,
			Timestamp: hashauth.FormatTimestamp(creds.Timestamp),
		})
		if err != nil {
			logger.WithError(err).Error("failed to write whoami reply")
		}
	}).Methods(http.MethodGet, http.MethodPost)

	return router
}

func (c *serveCommand) Execute(args []string) error {
	auth, cfg, err := newAuthenticator()
	if err != nil {
		return err
	}

	mw, err := httpauth.NewMiddleware(httpauth.Config{
		Verifier: auth,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	addr := cfg.Listen
	if c.Listen != "" {
		addr = c.Listen
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           newRouter(mw),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.WithField("addr", addr).Info("listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
