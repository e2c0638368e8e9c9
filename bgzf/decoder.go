package bgzf

import (
	"bytes"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/klauspost/compress/flate"
)

// tellable reports the current position of r if it happens to support
// seeking, used only for error reporting. Non-seekable sources just
// report -1.
func tellable(r io.Reader) int64 {
	s, ok := r.(io.Seeker)
	if !ok {
		return -1
	}
	pos, err := s.Seek(0, io.SeekCurrent)
	if err != nil {
		return -1
	}
	return pos
}

// decodeBlock reads one BGZF block from r: magic, the fixed 12-byte
// gzip header fields, an extra area that must contain exactly one
// "BC" subfield, a raw DEFLATE payload of the implied length, and a
// CRC32+ISIZE trailer that must match the inflated data.
//
// It returns the block's on-disk length (BSIZE) and its decompressed
// payload. At true end of stream (zero bytes available where a block
// would start) it returns io.EOF with a nil payload; this is the
// EndOfStream signal, not a format error.
func decodeBlock(r io.Reader) (rawLen int, data []byte, err error) {
	const op = "bgzf.decodeBlock"
	startPos := tellable(r)
	// readKind classifies a failed read inside the block: running out of
	// bytes mid-block is a format error, any other failure is an I/O
	// error from the source and carries no Kind.
	readKind := func(err error) Kind {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return KindFormat
		}
		return KindOther
	}

	var head [4]byte
	n, rerr := io.ReadFull(r, head[:])
	if n == 0 && rerr == io.EOF {
		return 0, nil, io.EOF
	}
	if rerr != nil {
		return 0, nil, newErrAt(op, readKind(rerr), startPos, "truncated block header", rerr)
	}
	if head != bgzfMagic {
		return 0, nil, newErrAt(op, KindFormat, startPos,
			fmt.Sprintf("bad magic %x, want %x", head, bgzfMagic), nil)
	}

	// mtime(4) xfl(1) os(1) xlen(2), none of which BGZF constrains
	// semantically; only xlen is needed to continue parsing.
	var rest [8]byte
	if _, rerr := io.ReadFull(r, rest[:]); rerr != nil {
		return 0, nil, newErrAt(op, readKind(rerr), startPos, "truncated block header", rerr)
	}
	xlen := int(uint16At(rest[6:8]))

	extra := make([]byte, xlen)
	if _, rerr := io.ReadFull(r, extra); rerr != nil {
		return 0, nil, newErrAt(op, readKind(rerr), startPos, "truncated extra area", rerr)
	}

	bsize := -1
	cursor := 0
	for cursor < len(extra) {
		if cursor+4 > len(extra) {
			return 0, nil, newErrAt(op, KindFormat, startPos, "truncated extra subfield header", nil)
		}
		subID := extra[cursor : cursor+2]
		subLen := int(uint16At(extra[cursor+2 : cursor+4]))
		cursor += 4
		if cursor+subLen > len(extra) {
			return 0, nil, newErrAt(op, KindFormat, startPos, "extra subfield overruns extra area", nil)
		}
		payload := extra[cursor : cursor+subLen]
		cursor += subLen
		if subID[0] == 'B' && subID[1] == 'C' {
			if subLen != 2 {
				return 0, nil, newErrAt(op, KindFormat, startPos,
					fmt.Sprintf("BC subfield has length %d, want 2", subLen), nil)
			}
			if bsize != -1 {
				return 0, nil, newErrAt(op, KindFormat, startPos, "duplicate BC subfield", nil)
			}
			bsize = int(uint16At(payload)) + 1
		}
	}
	if cursor != len(extra) {
		return 0, nil, newErrAt(op, KindFormat, startPos, "extra subfields do not exactly cover xlen", nil)
	}
	if bsize == -1 {
		return 0, nil, newErrAt(op, KindFormat, startPos, "missing BC subfield, not a BGZF block", nil)
	}

	deflateSize := bsize - xlen - 20
	if deflateSize < 0 {
		return 0, nil, newErrAt(op, KindFormat, startPos,
			fmt.Sprintf("BSIZE %d too small for header of %d extra bytes", bsize, xlen), nil)
	}
	compressed := make([]byte, deflateSize)
	if _, rerr := io.ReadFull(r, compressed); rerr != nil {
		return 0, nil, newErrAt(op, readKind(rerr), startPos, "truncated deflate payload", rerr)
	}

	fr := flate.NewReader(bytes.NewReader(compressed))
	defer fr.Close()
	data, rerr = io.ReadAll(fr)
	if rerr != nil {
		return 0, nil, newErrAt(op, KindFormat, startPos, "invalid deflate payload", rerr)
	}

	var trailer [8]byte
	if _, rerr := io.ReadFull(r, trailer[:]); rerr != nil {
		return 0, nil, newErrAt(op, readKind(rerr), startPos, "truncated block trailer", rerr)
	}
	wantCRC := uint32At(trailer[0:4])
	wantSize := uint32At(trailer[4:8])

	if int(wantSize) != len(data) {
		return 0, nil, newErrAt(op, KindChecksum, startPos,
			fmt.Sprintf("decompressed to %d bytes, ISIZE says %d", len(data), wantSize), nil)
	}
	gotCRC := crc32.ChecksumIEEE(data) & 0xffffffff
	if gotCRC != wantCRC {
		return 0, nil, newErrAt(op, KindChecksum, startPos,
			fmt.Sprintf("CRC-32 mismatch: got %08x, want %08x", gotCRC, wantCRC), nil)
	}

	return bsize, data, nil
}
