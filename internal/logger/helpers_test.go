package logger

import (
	"bytes"
	"sync"
)

// zaptestBuffer is a goroutine-safe in-memory sink.
type zaptestBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *zaptestBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *zaptestBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}
