package bgzf

import (
	"io"
	"os"
)

// countingWriter tracks the total number of bytes written through it,
// so Writer.Tell has an accurate block-start offset even when the
// underlying sink (e.g. stdout) isn't seekable.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// Writer is a sequential BGZF writer: it buffers input, slices it
// into blocks of at most MaxBlockSize decompressed bytes, and
// compresses each block independently as it fills.
//
// A Writer is not safe for concurrent use by multiple goroutines, and
// must be closed to emit a valid stream: Close flushes any buffered
// remainder and appends the fixed EOF sentinel block.
type Writer struct {
	w     *countingWriter
	owned io.Closer
	level int

	buffer []byte

	closed bool
}

// NewWriter constructs a Writer over an already-open sink at DEFLATE
// level. It does not take ownership of w; Close will not close it.
func NewWriter(w io.Writer, level int) (*Writer, error) {
	return &Writer{w: &countingWriter{w: w}, level: level}, nil
}

// CreateWriter creates (or truncates) path and returns a Writer that
// owns the resulting file handle: Close on the returned Writer also
// closes the file.
func CreateWriter(path string, level int) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, newErr("bgzf.CreateWriter", KindOther, "creating "+path, err)
	}
	return &Writer{w: &countingWriter{w: f}, owned: f, level: level}, nil
}

// Write implements io.Writer. Input is appended to an internal
// buffer and sliced into MaxBlockSize-byte blocks as it fills, using
// a uniform 65536-byte cutoff rather than an off-by-one 65535.
func (w *Writer) Write(p []byte) (int, error) {
	const op = "bgzf.Writer.Write"
	if w.closed {
		return 0, newErr(op, KindNotSupported, "write on closed writer", nil)
	}
	w.buffer = append(w.buffer, p...)
	for len(w.buffer) >= MaxBlockSize {
		if err := encodeBlock(w.w, w.buffer[:MaxBlockSize], w.level); err != nil {
			return 0, err
		}
		w.buffer = w.buffer[MaxBlockSize:]
	}
	return len(p), nil
}

// Flush forces out a block containing whatever is currently buffered,
// even if it is smaller than MaxBlockSize. It is a no-op when nothing
// is buffered.
func (w *Writer) Flush() error {
	if w.closed {
		return newErr("bgzf.Writer.Flush", KindNotSupported, "flush on closed writer", nil)
	}
	if len(w.buffer) == 0 {
		return nil
	}
	if err := encodeBlock(w.w, w.buffer, w.level); err != nil {
		return err
	}
	w.buffer = nil
	return nil
}

// Tell returns the writer's current position as a BGZF virtual
// offset: the file offset at which the current (not yet flushed)
// block started, paired with how much of it is buffered so far.
func (w *Writer) Tell() uint64 {
	v, _ := MakeVirtualOffset(w.w.n, int64(len(w.buffer)))
	return v
}

// Close flushes any buffered data, appends the fixed 28-byte EOF
// sentinel block, and if this Writer owns its sink (via
// CreateWriter), closes it too.
func (w *Writer) Close() error {
	const op = "bgzf.Writer.Close"
	if w.closed {
		return nil
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if _, err := w.w.Write(eofSentinel[:]); err != nil {
		return newErr(op, KindOther, "writing EOF sentinel", err)
	}
	w.closed = true
	if w.owned != nil {
		return w.owned.Close()
	}
	return nil
}
