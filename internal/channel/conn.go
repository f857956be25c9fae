package channel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"
)

var (
	// ErrDisconnected reports a transport failure while sending. The caller
	// decides whether to retry; the connection itself is already marked for
	// reset and the owning worker loop will reconnect.
	ErrDisconnected = errors.New("disconnected from robot")

	// ErrReceive reports a transport or protocol failure while receiving.
	// Worker loops absorb it into loss counting; it is not surfaced to
	// external callers.
	ErrReceive = errors.New("error receiving from robot")
)

// DialTimeout bounds the initial handshake and each reconnect attempt.
const DialTimeout = 4 * time.Second

var exitFunc = os.Exit

// Conn owns one named robot endpoint. After the initial dial it never gives
// up: send/receive failures mark it for reset and Maintain reconnects on the
// owning worker's next iteration. Callers never reconnect directly.
type Conn struct {
	name   string
	url    string
	dialer Dialer
	logger *slog.Logger

	mu         sync.Mutex
	sock       Socket
	needsReset bool
}

// Dial connects to ws://<host>/<name>. The first attempt is the only one
// without a retry: a client that cannot reach the robot at startup is
// useless, so failure logs a hint and exits the process.
func Dial(ctx context.Context, host, name string, dialer Dialer, logger *slog.Logger) *Conn {
	c := &Conn{
		name:   name,
		url:    fmt.Sprintf("ws://%s/%s", host, name),
		dialer: dialer,
		logger: logger,
	}
	dctx, cancel := context.WithTimeout(ctx, DialTimeout)
	defer cancel()
	sock, err := dialer.Dial(dctx, c.url)
	if err != nil {
		logger.Error("could not connect to robot",
			"url", c.url,
			"err", err,
			"hint", "verify the host is the robot's IP/hostname on the same network (AP mode is 192.168.4.1)")
		exitFunc(1)
		return c
	}
	c.sock = sock
	return c
}

func (c *Conn) Name() string { return c.name }

func (c *Conn) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sock != nil && !c.needsReset
}

// Send writes one frame. A transport error marks the connection for reset
// and returns ErrDisconnected; Send never retries internally.
func (c *Conn) Send(ctx context.Context, payload []byte, binary bool) error {
	sock := c.socket()
	if sock == nil {
		return fmt.Errorf("%s: not connected: %w", c.name, ErrDisconnected)
	}
	if err := sock.Write(ctx, payload, binary); err != nil {
		c.MarkReset()
		return fmt.Errorf("%s: send failed (%v), will reconnect: %w", c.name, err, ErrDisconnected)
	}
	return nil
}

// Receive reads one frame. A transport error marks the connection for reset
// and returns ErrReceive.
func (c *Conn) Receive(ctx context.Context) ([]byte, error) {
	sock := c.socket()
	if sock == nil {
		return nil, fmt.Errorf("%s: not connected: %w", c.name, ErrReceive)
	}
	data, err := sock.Read(ctx)
	if err != nil {
		c.MarkReset()
		return nil, fmt.Errorf("%s: receive failed (%v), will reconnect: %w", c.name, err, ErrReceive)
	}
	return data, nil
}

// MarkReset flags the connection to be torn down and re-dialed by Maintain.
func (c *Conn) MarkReset() {
	c.mu.Lock()
	c.needsReset = true
	c.mu.Unlock()
}

// Maintain performs one step of the reconnect discipline: drop a connection
// marked for reset, then attempt a single non-blocking redial if not
// connected. It reports whether the connection is usable afterwards.
func (c *Conn) Maintain(ctx context.Context) bool {
	c.mu.Lock()
	if c.needsReset && c.sock != nil {
		_ = c.sock.Close()
		c.sock = nil
	}
	c.needsReset = false
	connected := c.sock != nil
	c.mu.Unlock()

	if connected {
		return true
	}

	c.logger.Info("reconnecting", "url", c.url)
	dctx, cancel := context.WithTimeout(ctx, DialTimeout)
	defer cancel()
	sock, err := c.dialer.Dial(dctx, c.url)
	if err != nil {
		// Keep trying on the next iteration.
		return false
	}
	c.mu.Lock()
	c.sock = sock
	c.mu.Unlock()
	return true
}

func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sock == nil {
		return nil
	}
	err := c.sock.Close()
	c.sock = nil
	return err
}

func (c *Conn) socket() Socket {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sock
}
