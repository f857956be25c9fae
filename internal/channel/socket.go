package channel

import (
	"context"

	"github.com/coder/websocket"
)

// Socket is one websocket connection to one robot endpoint. Implementations
// must be safe to close while a read is in flight.
type Socket interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, payload []byte, binary bool) error
	Close() error
}

type Dialer interface {
	Dial(ctx context.Context, url string) (Socket, error)
}

// Camera frames exceed the library's 32 KiB default read limit.
const readLimitBytes = 1 << 20

type WebsocketDialer struct{}

func (WebsocketDialer) Dial(ctx context.Context, url string) (Socket, error) {
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	conn.SetReadLimit(readLimitBytes)
	return &websocketSocket{conn: conn}, nil
}

type websocketSocket struct {
	conn *websocket.Conn
}

func (s *websocketSocket) Read(ctx context.Context) ([]byte, error) {
	_, data, err := s.conn.Read(ctx)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *websocketSocket) Write(ctx context.Context, payload []byte, binary bool) error {
	typ := websocket.MessageText
	if binary {
		typ = websocket.MessageBinary
	}
	return s.conn.Write(ctx, typ, payload)
}

func (s *websocketSocket) Close() error {
	return s.conn.Close(websocket.StatusNormalClosure, "")
}
