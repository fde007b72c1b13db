package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"

	"github.com/jeremyhahn/go-hashauth/pkg/hashauth"
)

type options struct {
	Config         string `short:"c" long:"config" description:"YAML configuration file"`
	Secret         string `short:"s" long:"secret" env:"HASHAUTH_SECRET" description:"shared secret"`
	Algorithm      string `short:"a" long:"algorithm" description:"hash algorithm (see the algorithms command)"`
	Rounds         *int   `short:"r" long:"rounds" description:"hash round exponent; the hash is applied 2^rounds times"`
	TimeDifference *int   `short:"t" long:"time-difference" description:"permitted clock skew in seconds"`
	LogLevel       string `long:"log-level" description:"log level (panic, fatal, error, warn, info, debug, trace)"`
}

var globalOptions options

var (
	stdout io.Writer = os.Stdout
	logger           = logrus.New()
)

// errRejected is returned by verify when the credentials do not authenticate.
var errRejected = errors.New("authentication rejected")

func newParser() *flags.Parser {
	parser := flags.NewParser(&globalOptions, flags.HelpFlag|flags.PassDoubleDash)
	parser.AddCommand("create", "Create an authentication hash",
		"Create the hash for a random nonce and timestamp. A nonce is generated and the current time used when omitted.",
		&createCommand{})
	parser.AddCommand("verify", "Verify an authentication hash",
		"Verify a random nonce, timestamp and hash. Exits non-zero when the hash is rejected.",
		&verifyCommand{})
	parser.AddCommand("algorithms", "List supported hash algorithms", "", &algorithmsCommand{})
	parser.AddCommand("nonce", "Generate a random nonce", "", &nonceCommand{})
	parser.AddCommand("serve", "Run a verifying HTTP server",
		"Serve /healthz unauthenticated and /v1/* behind hash authentication.",
		&serveCommand{})
	return parser
}

// loadSettings resolves the configuration file and command line options,
// installs the result as the process-wide hashauth defaults and configures
// logging. It runs once, before any authenticator is constructed.
func loadSettings() (Configuration, error) {
	cfg, err := loadConfiguration(globalOptions.Config)
	if err != nil {
		return cfg, err
	}

	if globalOptions.Secret != "" {
		cfg.Secret = globalOptions.Secret
	}
	if globalOptions.Algorithm != "" {
		cfg.HashAlgorithm = globalOptions.Algorithm
	}
	if globalOptions.Rounds != nil {
		cfg.HashRounds = *globalOptions.Rounds
	}
	if globalOptions.TimeDifference != nil {
		cfg.TimeDifference = *globalOptions.TimeDifference
	}

	level := cfg.LogLevel.LogrusLevel()
	if globalOptions.LogLevel != "" {
		level, err = logrus.ParseLevel(globalOptions.LogLevel)
		if err != nil {
			return cfg, err
		}
	}
	logger.SetLevel(level)

	if err := hashauth.SetDefaultHashAlgorithm(cfg.HashAlgorithm); err != nil {
		return cfg, err
	}
	if err := hashauth.SetDefaultHashRounds(cfg.HashRounds); err != nil {
		return cfg, err
	}
	if err := hashauth.SetDefaultTimeDifference(cfg.TimeDifference); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// newAuthenticator loads the settings and builds an authenticator from them.
func newAuthenticator() (*hashauth.Authenticator, Configuration, error) {
	cfg, err := loadSettings()
	if err != nil {
		return nil, cfg, err
	}
	if cfg.Secret == "" {
		return nil, cfg, fmt.Errorf("%w: a secret is required (--secret, HASHAUTH_SECRET or the config file)", hashauth.ErrInvalidArgument)
	}
	auth, err := hashauth.New(cfg.Secret)
	return auth, cfg, err
}

func main() {
	if _, err := newParser().Parse(); err != nil {
		var flagsErr *flags.Error
		switch {
		case errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp:
			fmt.Fprintln(stdout, err)
			os.Exit(0)
		case errors.As(err, &flagsErr):
			fmt.Fprintln(os.Stderr, err)
		case errors.Is(err, errRejected):
			os.Exit(1)
		default:
			logger.Error(err)
		}
		os.Exit(2)
	}
}
