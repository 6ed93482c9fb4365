// Package server provides the temporary local HTTP server used for Google sign-in.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # OAuth Callback Handler
//
// OAuthHandler implements the OAuth2 authorization code callback flow.
//
// The handler validates the state parameter (CSRF protection), exchanges the authorization code for tokens,
// and sends the result through a channel.
//
// It only processes one callback to prevent replay attacks.
//
// # Usage
//
// When the user runs `lysn auth google`, a temporary HTTP server starts on the
// configured localhost port, the browser opens Google's consent page, the
// handler receives the redirect and exchanges the code, and the server shuts
// down. The resulting access token is then posted to the Lysn backend to mint
// a session.
package server
