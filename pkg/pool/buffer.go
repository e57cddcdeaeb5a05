package pool

import "sync"

// DefaultCopyBufferSize is the I/O buffer size used for staging copies.
// Import libraries and headers are small, the largest static archives are a few
// hundred megabytes; 256 KiB keeps the syscall count low for both.
const DefaultCopyBufferSize int64 = 256 * 1024

// FixedBufferPool hands out byte slices of one fixed size.
type FixedBufferPool struct {
	size int64
	pool sync.Pool
}

// NewFixedBuffer creates a pool of buffers of exactly size bytes.
// A non-positive size falls back to DefaultCopyBufferSize.
func NewFixedBuffer(size int64) *FixedBufferPool {
	if size <= 0 {
		size = DefaultCopyBufferSize
	}
	return &FixedBufferPool{
		size: size,
		pool: sync.Pool{
			New: func() any {
				b := make([]byte, int(size))
				return &b
			},
		},
	}
}

// Get returns a buffer of the pool's size.
func (fp *FixedBufferPool) Get() *[]byte {
	return fp.pool.Get().(*[]byte)
}

// Put returns a buffer to the pool. Buffers of a foreign capacity are dropped.
func (fp *FixedBufferPool) Put(b *[]byte) {
	if b == nil || int64(cap(*b)) != fp.size {
		return
	}
	*b = (*b)[:fp.size]
	fp.pool.Put(b)
}
