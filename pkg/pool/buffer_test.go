package pool

import "testing"

func TestFixedBufferPool(t *testing.T) {
	t.Run("Returns buffers of the configured size", func(t *testing.T) {
		p := NewFixedBuffer(4096)
		buf := p.Get()
		if len(*buf) != 4096 {
			t.Errorf("expected buffer length 4096, got %d", len(*buf))
		}
		p.Put(buf)
	})

	t.Run("Falls back to the default size", func(t *testing.T) {
		p := NewFixedBuffer(0)
		buf := p.Get()
		if int64(len(*buf)) != DefaultCopyBufferSize {
			t.Errorf("expected default size %d, got %d", DefaultCopyBufferSize, len(*buf))
		}
	})

	t.Run("Restores full length on Put", func(t *testing.T) {
		p := NewFixedBuffer(1024)
		buf := p.Get()
		*buf = (*buf)[:10]
		p.Put(buf)

		again := p.Get()
		if len(*again) != 1024 {
			t.Errorf("expected buffer length 1024 after reuse, got %d", len(*again))
		}
	})

	t.Run("Ignores foreign buffers", func(t *testing.T) {
		p := NewFixedBuffer(1024)
		foreign := make([]byte, 10)
		p.Put(&foreign) // must not panic or poison the pool
		p.Put(nil)

		buf := p.Get()
		if len(*buf) != 1024 {
			t.Errorf("expected buffer length 1024, got %d", len(*buf))
		}
	})
}
