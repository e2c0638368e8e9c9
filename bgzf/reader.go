package bgzf

import (
	"bytes"
	"io"
	"os"
)

// Reader is a random-access BGZF reader. It behaves like a read-only
// byte stream, except that Tell and Seek operate on BGZF virtual
// offsets rather than plain byte counts.
//
// A Reader is not safe for concurrent use by multiple goroutines.
type Reader struct {
	r     io.Reader
	owned io.Closer // non-nil when this Reader opened its own source and should close it

	blockStart  int64
	blockRawLen int
	buffer      []byte
	within      int

	cache *blockCache

	closed bool
}

// NewReader constructs a Reader over an already-open source. The
// source is read from its current position; if it also implements
// io.Seeker, that position is used as the first block's start offset,
// otherwise reading begins at file offset 0 (relevant only for
// non-seekable sources, which support sequential reads but not Seek).
//
// NewReader does not take ownership of r; Close will not close it.
// maxCache is the number of decoded blocks to keep cached, and must be
// at least 1.
func NewReader(r io.Reader, maxCache int) (*Reader, error) {
	return newReader(r, nil, maxCache)
}

// OpenReader opens path and constructs a Reader that owns the
// resulting file handle: Close on the returned Reader also closes the
// file. This is the path-based constructor, a companion to NewReader
// taking an already-open handle.
func OpenReader(path string, maxCache int) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, newErr("bgzf.OpenReader", KindOther, "opening "+path, err)
	}
	rd, err := newReader(f, f, maxCache)
	if err != nil {
		f.Close()
		return nil, err
	}
	return rd, nil
}

func newReader(r io.Reader, owned io.Closer, maxCache int) (*Reader, error) {
	if maxCache < 1 {
		return nil, newErr("bgzf.NewReader", KindNotSupported, "max_cache must be >= 1", nil)
	}
	rd := &Reader{
		r:          r,
		owned:      owned,
		cache:      newBlockCache(maxCache),
		blockStart: -1,
	}
	var start int64
	if s, ok := r.(io.Seeker); ok {
		if pos, err := s.Seek(0, io.SeekCurrent); err == nil {
			start = pos
		}
	}
	if err := rd.loadBlockAt(start, true); err != nil {
		return nil, err
	}
	return rd, nil
}

// loadBlockAt installs the block starting at file offset start as the
// current block: a no-op if it is already current, a cache hit if
// cached, otherwise a decode from the underlying source (evicting an
// LRU entry first if the cache is full). sequential must be true only
// when start is already exactly where the underlying source's read
// head sits (the loadNextBlock case), which needs no actual seek and
// so works even on a non-seekable source; an explicit Seek to a
// target that isn't already current requires the source to implement
// io.Seeker.
func (r *Reader) loadBlockAt(start int64, sequential bool) error {
	if start == r.blockStart {
		r.within = 0
		return nil
	}
	s, seekable := r.r.(io.Seeker)
	if !seekable && !sequential {
		return newErr("bgzf.Reader.Seek", KindNotSupported,
			"source does not support seeking", nil)
	}
	if e, ok := r.cache.get(start); ok {
		r.buffer = e.buffer
		r.blockRawLen = e.rawLen
		r.blockStart = start
		r.within = 0
		return nil
	}

	if seekable {
		if _, err := s.Seek(start, io.SeekStart); err != nil {
			return newErrAt("bgzf.Reader", KindOther, start, "seeking to block", err)
		}
	}

	rawLen, data, err := decodeBlock(r.r)
	if err == io.EOF {
		r.blockStart = start
		r.blockRawLen = 0
		r.buffer = nil
		r.within = 0
		r.cache.put(start, nil, 0)
		return nil
	}
	if err != nil {
		return err
	}
	r.blockStart = start
	r.blockRawLen = rawLen
	r.buffer = data
	r.within = 0
	r.cache.put(start, data, rawLen)
	return nil
}

func (r *Reader) loadNextBlock() error {
	return r.loadBlockAt(r.blockStart+int64(r.blockRawLen), true)
}

// Tell returns the reader's current position as a 64-bit BGZF virtual
// offset. At the end of a non-empty block it canonicalizes to the
// start of the next block with a zero within-block offset, since that
// is the only representation that also works for a maximal
// (65536-byte) block.
func (r *Reader) Tell() uint64 {
	if r.within > 0 && r.within == len(r.buffer) {
		v, _ := MakeVirtualOffset(r.blockStart+int64(r.blockRawLen), 0)
		return v
	}
	v, _ := MakeVirtualOffset(r.blockStart, int64(r.within))
	return v
}

// Seek repositions the reader at a 64-bit BGZF virtual offset
// previously obtained from Tell, returning it back on success.
func (r *Reader) Seek(voffset uint64) (uint64, error) {
	const op = "bgzf.Reader.Seek"
	coffset, uoffset := SplitVirtualOffset(voffset)
	if coffset != r.blockStart {
		if err := r.loadBlockAt(coffset, false); err != nil {
			return 0, err
		}
	}
	u := int(uoffset)
	if u > len(r.buffer) || (u == len(r.buffer) && len(r.buffer) > 0) {
		return 0, newErr(op, KindRange, "within-block offset past end of block", nil)
	}
	r.within = u
	return voffset, nil
}

// Read implements io.Reader. It never returns io.EOF alongside n>0; it
// keeps loading blocks until p is full, so a short read below len(p)
// without an error means end of stream was reached. A read that ends
// exactly at the end of a block returns without loading the next one.
// io.EOF is returned once the stream's terminal empty block has been
// consumed.
func (r *Reader) Read(p []byte) (int, error) {
	if r.closed {
		return 0, newErr("bgzf.Reader.Read", KindNotSupported, "read on closed reader", nil)
	}
	n := len(p)
	total := 0
	for total < n {
		avail := len(r.buffer) - r.within
		if avail > 0 {
			want := n - total
			if want > avail {
				want = avail
			}
			copy(p[total:total+want], r.buffer[r.within:r.within+want])
			r.within += want
			total += want
			if total == n {
				return total, nil
			}
			continue
		}

		if err := r.loadNextBlock(); err != nil {
			return total, err
		}
		if len(r.buffer) == 0 {
			if r.blockRawLen == 0 {
				if total > 0 {
					return total, nil
				}
				return 0, io.EOF
			}
			// A successfully decoded block with zero payload
			// (blockRawLen > 0), such as the EOF sentinel itself:
			// keep reading forward; only the end of the underlying
			// source (blockRawLen == 0) ends the stream.
			continue
		}
	}
	return total, nil
}

// ReadN reads exactly n bytes, or as many as remain before end of
// stream (n==0 returns immediately without touching any block).
func (r *Reader) ReadN(n int) ([]byte, error) {
	if n < 0 {
		return nil, newErr("bgzf.Reader.ReadN", KindNotSupported, "unbounded reads are not supported", nil)
	}
	if n == 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	read, err := io.ReadFull(r, buf)
	if err == io.ErrUnexpectedEOF || err == io.EOF {
		return buf[:read], nil
	}
	if err != nil {
		return buf[:read], err
	}
	return buf, nil
}

// ReadLine reads up to and including the next newline byte. It scans
// forward iteratively across block boundaries, and when the newline
// falls on the very last byte of a block it loads the next block
// immediately so that a following Tell is already canonical. It
// returns io.EOF once an empty line would be produced at true end of
// stream.
func (r *Reader) ReadLine() ([]byte, error) {
	var out []byte
	for {
		rest := r.buffer[r.within:]
		if idx := bytes.IndexByte(rest, '\n'); idx >= 0 {
			end := r.within + idx + 1
			out = append(out, r.buffer[r.within:end]...)
			atBlockEnd := end == len(r.buffer)
			r.within = end
			if atBlockEnd {
				if err := r.loadNextBlock(); err != nil {
					return out, err
				}
			}
			return out, nil
		}

		out = append(out, rest...)
		if err := r.loadNextBlock(); err != nil {
			return out, err
		}
		if len(r.buffer) == 0 && r.blockRawLen == 0 {
			if len(out) == 0 {
				return nil, io.EOF
			}
			return out, nil
		}
		// Either more data arrived, or an empty block (such as the EOF
		// sentinel) was read: loop and keep scanning.
	}
}

// Close releases the reader's buffers and, if the reader opened its
// own source (via OpenReader), closes it. Further reads after Close
// fail.
func (r *Reader) Close() error {
	r.closed = true
	r.buffer = nil
	r.blockStart = -1
	if r.owned != nil {
		return r.owned.Close()
	}
	return nil
}
