package encoding

import (
	"bytes"
	"io"
	"sync"
)

// maxPooledCap keeps outlier buffers (large reports) out of the pool.
const maxPooledCap = 256 * 1024

// BufferPool pools bytes.Buffer for request bodies and response reads.
var BufferPool = sync.Pool{
	New: func() interface{} {
		return new(bytes.Buffer)
	},
}

// GetBuffer retrieves an empty bytes.Buffer from the pool
func GetBuffer() *bytes.Buffer {
	buf := BufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// PutBuffer returns a bytes.Buffer to the pool
func PutBuffer(buf *bytes.Buffer) {
	if buf.Cap() > maxPooledCap {
		return
	}
	buf.Reset()
	BufferPool.Put(buf)
}

// ReadAll reads r to EOF through a pooled buffer and returns a copy of
// the bytes, so the buffer can go back to the pool.
func ReadAll(r io.Reader) ([]byte, error) {
	buf := GetBuffer()
	defer PutBuffer(buf)

	if _, err := buf.ReadFrom(r); err != nil {
		return nil, err
	}
	return copyBytes(buf), nil
}

// Encode runs write against a pooled buffer and returns a copy of what
// was written. write is typically an etree Document's WriteTo.
func Encode(write func(w io.Writer) (int64, error)) ([]byte, error) {
	buf := GetBuffer()
	defer PutBuffer(buf)

	if _, err := write(buf); err != nil {
		return nil, err
	}
	return copyBytes(buf), nil
}

func copyBytes(buf *bytes.Buffer) []byte {
	result := make([]byte, buf.Len())
	copy(result, buf.Bytes())
	return result
}
