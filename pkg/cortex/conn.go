package cortex

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

const warningBuffer = 32

// rpcRequest is a JSON-RPC 2.0 request frame.
type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

// rpcFrame is anything Cortex sends: a response (id + result/error) or
// an unsolicited warning. The two never share a frame.
type rpcFrame struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
	Warning *Warning        `json:"warning,omitempty"`
}

// Warning is an unsolicited event pushed by Cortex, identified by a
// numeric code. Message is kept raw because Cortex sends either a plain
// string or an object depending on the code.
type Warning struct {
	Code    WarningCode     `json:"code"`
	Message json.RawMessage `json:"message,omitempty"`
}

// Text renders the warning message for display.
func (w *Warning) Text() string {
	var s string
	if json.Unmarshal(w.Message, &s) == nil {
		return s
	}
	return string(w.Message)
}

// Client is a connected Cortex client. See the package documentation
// for the call and warning contracts.
type Client struct {
	config *clientConfig

	conn connWriter

	nextID atomic.Uint64

	mu      sync.Mutex // guards conn writes and pending
	pending map[uint64]chan *rpcFrame

	warnings chan *Warning

	closeCh   chan struct{}
	closeOnce sync.Once
	readErr   error // set before closeCh closes on reader failure
}

// connWriter is the slice of *websocket.Conn the client uses.
type connWriter interface {
	WriteJSON(v any) error
	ReadMessage() (int, []byte, error)
	Close() error
}

func newClient(cfg *clientConfig) *Client {
	return &Client{
		config:   cfg,
		pending:  make(map[uint64]chan *rpcFrame),
		warnings: make(chan *Warning, warningBuffer),
		closeCh:  make(chan struct{}),
	}
}

// start attaches an open connection and spawns the read loop.
func (c *Client) start(conn connWriter) {
	c.conn = conn
	go c.readLoop()
}

// Close tears the connection down. In-flight calls and warning waits
// fail with ErrClosed.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closeCh)
		if c.conn != nil {
			err = c.conn.Close()
		}
	})
	return err
}

// Call issues a named command and blocks until its matching response
// arrives. A JSON-RPC error response is returned as *Error; use
// errors.As (or AsError) to branch on it. The wait is bounded by the
// client timeout and the context.
func (c *Client) Call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	if c.conn == nil {
		return nil, fmt.Errorf("cortex: %s: %w", method, ErrNotConnected)
	}

	id := c.nextID.Add(1)
	ch := make(chan *rpcFrame, 1)

	c.mu.Lock()
	c.pending[id] = ch
	err := c.conn.WriteJSON(rpcRequest{JSONRPC: "2.0", ID: id, Method: method, Params: params})
	c.mu.Unlock()
	if err != nil {
		c.forget(id)
		return nil, fmt.Errorf("cortex: %s: write: %w", method, err)
	}
	defer c.forget(id)

	slog.Debug("cortex: call sent", "method", method, "id", id)

	timer := time.NewTimer(c.config.timeout)
	defer timer.Stop()

	select {
	case frame := <-ch:
		if frame.Error != nil {
			return nil, frame.Error
		}
		return frame.Result, nil
	case <-timer.C:
		return nil, fmt.Errorf("cortex: %s: %w", method, ErrCallTimeout)
	case <-ctx.Done():
		return nil, fmt.Errorf("cortex: %s: %w", method, ctx.Err())
	case <-c.closeCh:
		return nil, c.closedErr(method)
	}
}

// AwaitWarning blocks until an unsolicited warning with one of the
// given codes arrives. With no codes, the next warning of any kind is
// returned. Warnings with other codes are discarded while waiting. The
// wait is bounded by the client timeout; on expiry the error wraps
// ErrWarningTimeout.
func (c *Client) AwaitWarning(ctx context.Context, codes ...WarningCode) (*Warning, error) {
	timer := time.NewTimer(c.config.timeout)
	defer timer.Stop()

	for {
		select {
		case w := <-c.warnings:
			if len(codes) == 0 || w.Code.in(codes) {
				return w, nil
			}
			slog.Debug("cortex: skipping warning", "code", w.Code, "wanted", codes)
		case <-timer.C:
			return nil, fmt.Errorf("cortex: await warning %v: %w", codes, ErrWarningTimeout)
		case <-ctx.Done():
			return nil, fmt.Errorf("cortex: await warning %v: %w", codes, ctx.Err())
		case <-c.closeCh:
			return nil, c.closedErr("await warning")
		}
	}
}

func (c *Client) forget(id uint64) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

func (c *Client) closedErr(op string) error {
	if c.readErr != nil {
		return fmt.Errorf("cortex: %s: %w", op, c.readErr)
	}
	return fmt.Errorf("cortex: %s: %w", op, ErrClosed)
}

// fail records a reader error and unblocks everything waiting on the
// connection.
func (c *Client) fail(err error) {
	c.closeOnce.Do(func() {
		c.readErr = err
		close(c.closeCh)
		if c.conn != nil {
			c.conn.Close()
		}
	})
}

// readLoop pumps frames off the socket: responses are matched to their
// pending call by id, warnings go to the warning channel.
func (c *Client) readLoop() {
	for {
		select {
		case <-c.closeCh:
			return
		default:
		}

		_, message, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.closeCh: // normal Close
			default:
				c.fail(fmt.Errorf("read: %w", err))
			}
			return
		}

		if slog.Default().Enabled(context.Background(), slog.LevelDebug) {
			msg := string(message)
			if len(msg) > 1000 {
				msg = msg[:1000] + "..."
			}
			slog.Debug("cortex: received frame", "content", msg)
		}

		var frame rpcFrame
		if err := json.Unmarshal(message, &frame); err != nil {
			slog.Warn("cortex: discarding unparseable frame", "error", err)
			continue
		}

		if frame.Warning != nil {
			select {
			case c.warnings <- frame.Warning:
			default:
				slog.Warn("cortex: warning buffer full, dropping", "code", frame.Warning.Code)
			}
			continue
		}

		c.mu.Lock()
		ch, ok := c.pending[frame.ID]
		c.mu.Unlock()
		if !ok {
			slog.Debug("cortex: response for unknown id", "id", frame.ID)
			continue
		}
		ch <- &frame
	}
}
