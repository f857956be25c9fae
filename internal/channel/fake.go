package channel

import (
	"context"
	"errors"
	"io"
	"sync"
)

// FakeSocket queues scripted reads and records writes. Worker tests across
// the module drive their duty cycles through it.
type FakeSocket struct {
	readCh chan fakeRead

	mu       sync.Mutex
	writes   []FakeWrite
	writeErr error
	closed   bool
}

type fakeRead struct {
	data []byte
	err  error
}

type FakeWrite struct {
	Payload []byte
	Binary  bool
}

func NewFakeSocket() *FakeSocket {
	return &FakeSocket{readCh: make(chan fakeRead, 64)}
}

func (f *FakeSocket) QueueRead(data []byte) {
	f.queue(fakeRead{data: data})
}

func (f *FakeSocket) QueueReadError(err error) {
	f.queue(fakeRead{err: err})
}

// queue drops the frame if the socket is already closed so that feeder
// goroutines outliving a test's cleanup don't send on a closed channel.
func (f *FakeSocket) queue(r fakeRead) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.readCh <- r
}

func (f *FakeSocket) FailWrites(err error) {
	f.mu.Lock()
	f.writeErr = err
	f.mu.Unlock()
}

func (f *FakeSocket) Read(ctx context.Context) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r, ok := <-f.readCh:
		if !ok {
			return nil, io.EOF
		}
		return r.data, r.err
	}
}

func (f *FakeSocket) Write(ctx context.Context, payload []byte, binary bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	cp := make([]byte, len(payload))
	copy(cp, payload)
	f.writes = append(f.writes, FakeWrite{Payload: cp, Binary: binary})
	return nil
}

func (f *FakeSocket) Writes() []FakeWrite {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]FakeWrite, len(f.writes))
	copy(out, f.writes)
	return out
}

func (f *FakeSocket) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		close(f.readCh)
	}
	return nil
}

func (f *FakeSocket) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// FakeDialer hands out sockets in order, or fails once the script runs dry.
type FakeDialer struct {
	mu      sync.Mutex
	sockets []Socket
	dials   int
}

func NewFakeDialer(sockets ...Socket) *FakeDialer {
	return &FakeDialer{sockets: sockets}
}

func (d *FakeDialer) Dial(ctx context.Context, url string) (Socket, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dials++
	if len(d.sockets) == 0 {
		return nil, errors.New("fake dialer: no socket available")
	}
	s := d.sockets[0]
	d.sockets = d.sockets[1:]
	return s, nil
}

func (d *FakeDialer) Dials() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dials
}
