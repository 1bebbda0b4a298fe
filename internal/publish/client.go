// Package publish streams round snapshots to a socket.io endpoint so that
// a dashboard can follow a long run.
package publish

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/specialistvlad/keepaway/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// DefaultTimeout bounds the initial connection when Config.Timeout is zero.
const DefaultTimeout = 10 * time.Second

// Config describes the socket.io endpoint.
type Config struct {
	// URL is the server address. Its path, if any, is the socket.io path;
	// it defaults to /socket.io/.
	URL                string
	Namespace          string
	Timeout            time.Duration
	InsecureSkipVerify bool
}

// Emitter sends one event with a JSON-serializable payload.
type Emitter interface {
	Emit(event string, payload any) error
	Close() error
}

// Client is a connected socket.io client.
type Client struct {
	emit  func(event string, payload any)
	close func()
	once  sync.Once
}

// Emit sends event with payload.
func (c *Client) Emit(event string, payload any) error {
	c.emit(event, payload)
	return nil
}

// Close disconnects the client. It is safe to call more than once.
func (c *Client) Close() error {
	c.once.Do(c.close)
	return nil
}

// Dial connects to the endpoint and waits until the connection is
// acknowledged, refused or the timeout passes.
func Dial(ctx context.Context, cfg Config) (*Client, error) {
	logger := ctxlog.FromContext(ctx).With("url", cfg.URL)

	parsedURL, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("publish URL %q must be absolute", cfg.URL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	namespace := cfg.Namespace
	if namespace == "" {
		namespace = "/"
	}
	path := parsedURL.Path
	if strings.Trim(path, "/") == "" {
		path = "/socket.io/"
	}

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	opts := socket.DefaultOptions()
	opts.SetPath(path)
	if cfg.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(namespace, opts)

	connected := make(chan error, 1)
	io.On(types.EventName("connect"), func(...any) {
		logger.Info("Publisher connected", "namespace", namespace, "sid", io.Id())
		select {
		case connected <- nil:
		default:
		}
	})
	io.On(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connection refused")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		select {
		case connected <- err:
		default:
		}
	})

	io.Connect()

	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	select {
	case <-dialCtx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s while waiting for initial connection", timeout)
	case err := <-connected:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("failed to connect to %s: %w", cfg.URL, err)
		}
	}

	return &Client{
		emit: func(event string, payload any) { io.Emit(event, payload) },
		close: func() {
			logger.Debug("Disconnecting publisher")
			io.Disconnect()
		},
	}, nil
}
