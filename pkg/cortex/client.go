// Package cortex provides a Go client for the Emotiv Cortex service.
//
// Cortex speaks JSON-RPC 2.0 over a WebSocket. Every request carries a
// numeric id and is answered asynchronously; the client matches each
// response back to its request, so callers see a plain blocking call:
//
//	client := cortex.New(clientID, clientSecret)
//	if err := client.Dial(ctx); err != nil { ... }
//	defer client.Close()
//
//	logins, err := client.GetUserLogin(ctx)
//
// Separately from request/response traffic, Cortex pushes unsolicited
// "warning" frames (headset scan finished, connection outcomes, ...).
// These are not replies to any request; AwaitWarning blocks until the
// next warning with one of the wanted codes arrives, with a bounded
// timeout.
//
// # Authentication
//
// The client id and secret come from an Emotiv developer account. Most
// operations additionally require a cortex token, obtained once per run
// via RequestAccess + Authorize (or GenerateNewToken to rotate one).
package cortex

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// DefaultURL is the WebSocket endpoint of a locally running Cortex
	// service. Cortex listens on localhost with a self-signed certificate,
	// so most setups also need WithInsecureTLS.
	DefaultURL = "wss://localhost:6868"

	defaultTimeout = 30 * time.Second
)

// clientConfig holds the client configuration.
type clientConfig struct {
	clientID     string
	clientSecret string
	url          string
	timeout      time.Duration
	handshake    time.Duration
	tlsConfig    *tls.Config
}

// Option configures the Client.
type Option func(*clientConfig)

// WithURL sets the WebSocket endpoint.
func WithURL(url string) Option {
	return func(c *clientConfig) {
		c.url = url
	}
}

// WithTimeout bounds every suspension point: request/response calls and
// warning waits both fail after this long. Default is 30s.
func WithTimeout(d time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = d
	}
}

// WithHandshakeTimeout sets the WebSocket handshake timeout for Dial.
func WithHandshakeTimeout(d time.Duration) Option {
	return func(c *clientConfig) {
		c.handshake = d
	}
}

// WithInsecureTLS skips certificate verification. The local Cortex
// service serves a self-signed certificate, so connecting to the
// default endpoint normally requires this.
func WithInsecureTLS() Option {
	return func(c *clientConfig) {
		c.tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}
}

// WithTLSConfig sets an explicit TLS configuration for the dialer.
func WithTLSConfig(cfg *tls.Config) Option {
	return func(c *clientConfig) {
		c.tlsConfig = cfg
	}
}

// New creates a Cortex client. The connection is not opened until Dial.
func New(clientID, clientSecret string, opts ...Option) *Client {
	cfg := &clientConfig{
		clientID:     clientID,
		clientSecret: clientSecret,
		url:          DefaultURL,
		timeout:      defaultTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return newClient(cfg)
}

// Dial opens the WebSocket connection and starts the background reader.
func (c *Client) Dial(ctx context.Context) error {
	dialer := websocket.Dialer{
		HandshakeTimeout: c.config.handshake,
		TLSClientConfig:  c.config.tlsConfig,
	}
	conn, _, err := dialer.DialContext(ctx, c.config.url, nil)
	if err != nil {
		return fmt.Errorf("cortex: dial %s: %w", c.config.url, err)
	}
	c.start(conn)
	return nil
}
