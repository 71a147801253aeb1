package transcript

import "sync"

// BufferPool manages a pool of byte buffers to reduce allocations while
// assembling transcripts. It uses sync.Pool internally for efficient reuse.
type BufferPool interface {
	// Get retrieves a buffer from the pool.
	// The buffer is reset to zero length but retains its capacity.
	Get() *[]byte

	// Put returns a buffer to the pool for reuse.
	// The buffer must not be used after calling Put(). Nil is a no-op.
	Put(buf *[]byte)

	// GetInitialSize returns the initial capacity of buffers from this pool.
	GetInitialSize() int
}

// bufferPool implements BufferPool using sync.Pool.
//
// Memory behavior:
//   - Buffers are allocated on heap (required for sync.Pool)
//   - Unused buffers are garbage collected during GC
//   - No manual cleanup required
type bufferPool struct {
	pool        *sync.Pool
	initialSize int
}

// NewBufferPool creates a new buffer pool with the specified initial
// capacity per buffer. Buffers may grow beyond the initial size; growth
// uses Go's built-in slice growth strategy.
func NewBufferPool(initialSize int) BufferPool {
	if initialSize <= 0 {
		initialSize = 16 * 1024 // enough for a typical full transcript
	}

	return &bufferPool{
		initialSize: initialSize,
		pool: &sync.Pool{
			New: func() interface{} {
				buf := make([]byte, 0, initialSize)
				return &buf
			},
		},
	}
}

func (p *bufferPool) Get() *[]byte {
	buf := p.pool.Get().(*[]byte)

	// Reset length to 0 while preserving capacity so old data is not visible
	*buf = (*buf)[:0]

	return buf
}

func (p *bufferPool) Put(buf *[]byte) {
	if buf == nil {
		return
	}
	p.pool.Put(buf)
}

func (p *bufferPool) GetInitialSize() int {
	return p.initialSize
}
