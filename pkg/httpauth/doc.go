// Package httpauth carries hashauth credentials over HTTP.
//
// Clients send the nonce, the ISO-8601 timestamp and the hash in the
// X-Auth-Random, X-Auth-Timestamp and X-Auth-Hash headers (or the random,
// timestamp and hash query parameters). Servers wrap their handlers with a
// Middleware that verifies them:
//
//	auth, _ := hashauth.New(secret)
//	mw, err := httpauth.NewMiddleware(httpauth.Config{Verifier: auth})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	router.Use(mw.Handler)
//
// Clients use a Transport, or Sign for individual requests:
//
//	client := httpauth.NewClient(auth)
//	resp, err := client.Get("https://api.example.com/v1/items")
//
// The middleware does not remember nonces; replay protection is left to the
// application.
package httpauth
