package window

import "sync"

// Buffer is a thread-safe circular buffer holding transcript text.
type Buffer struct {
	data []byte
	size int
	head int
	tail int
	full bool
	mu   sync.RWMutex
}

// NewBuffer creates a circular buffer of the given capacity.
func NewBuffer(size int) *Buffer {
	return &Buffer{
		data: make([]byte, size),
		size: size,
	}
}

// Write appends data, overwriting the oldest bytes when full.
func (b *Buffer) Write(p []byte) (n int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, c := range p {
		b.data[b.tail] = c
		b.tail = (b.tail + 1) % b.size
		if b.full {
			b.head = b.tail
		}
		if b.tail == b.head {
			b.full = true
		}
	}

	return len(p), nil
}

// Len reports the number of buffered bytes.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.full {
		return b.size
	}
	if b.tail >= b.head {
		return b.tail - b.head
	}
	return b.size - b.head + b.tail
}

// Snapshot returns a copy of the buffered bytes without consuming them.
func (b *Buffer) Snapshot() []byte {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.full && b.head == b.tail {
		return []byte{}
	}

	if !b.full && b.tail > b.head {
		out := make([]byte, b.tail-b.head)
		copy(out, b.data[b.head:b.tail])
		return out
	}

	// Wrapped around.
	first := b.data[b.head:]
	second := b.data[:b.tail]
	out := make([]byte, len(first)+len(second))
	copy(out, first)
	copy(out[len(first):], second)
	return out
}
