package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jeremyhahn/go-hashauth/pkg/hashauth"
	"github.com/jeremyhahn/go-hashauth/pkg/httpauth"
)

type createCommand struct {
	Random    string `long:"random" description:"random nonce (generated when omitted)"`
	Timestamp string `long:"timestamp" description:"ISO-8601 timestamp or Unix seconds (defaults to now)"`
}

// Execute prints the credentials as HTTP headers.
func (c *createCommand) Execute(args []string) error {
	auth, _, err := newAuthenticator()
	if err != nil {
		return err
	}

	random := c.Random
	if random == "" {
		if random, err = hashauth.GenerateRandom(); err != nil {
			return err
		}
	}

	ts := time.Now()
	if c.Timestamp != "" {
		if ts, err = httpauth.ParseTimestamp(c.Timestamp); err != nil {
			return err
		}
	}

	hash, err := auth.CreateAuthenticationAt(context.Background(), random, ts)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "%s: %s\n", httpauth.HeaderRandom, random)
	fmt.Fprintf(stdout, "%s: %s\n", httpauth.HeaderTimestamp, hashauth.FormatTimestamp(ts))
	fmt.Fprintf(stdout, "%s: %s\n", httpauth.HeaderHash, hash)
	return nil
}

type verifyCommand struct {
	Random    string `long:"random" required:"true" description:"random nonce"`
	Timestamp string `long:"timestamp" required:"true" description:"ISO-8601 timestamp or Unix seconds"`
	Hash      string `long:"hash" required:"true" description:"hash to verify"`
}

// Execute prints "ok" or "rejected"; a rejection is returned as errRejected.
func (c *verifyCommand) Execute(args []string) error {
	auth, _, err := newAuthenticator()
	if err != nil {
		return err
	}

	ts, err := httpauth.ParseTimestamp(c.Timestamp)
	if err != nil {
		return err
	}

	ok, err := auth.Authenticate(context.Background(), ts, c.Random, c.Hash)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(stdout, "rejected")
		return errRejected
	}
	fmt.Fprintln(stdout, "ok")
	return nil
}

type algorithmsCommand struct{}

func (c *algorithmsCommand) Execute(args []string) error {
	for _, name := range hashauth.HashAlgorithms() {
		fmt.Fprintln(stdout, name)
	}
	return nil
}

type nonceCommand struct {
	Count int `short:"n" long:"count" default:"1" description:"number of nonces to generate"`
}

func (c *nonceCommand) Execute(args []string) error {
	for i := 0; i < c.Count; i++ {
		random, err := hashauth.GenerateRandom()
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, random)
	}
	return nil
}
