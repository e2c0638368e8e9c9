package bgzf

import (
	"bytes"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/klauspost/compress/flate"
)

// encodeBlock compresses block (0 <= len(block) <= MaxBlockSize) at
// the given DEFLATE level and writes a complete framed BGZF block to
// w: the fixed 12-byte header, the 4-byte
// BC subfield prefix, the 2-byte BSIZE, the compressed payload, and
// the CRC32+ISIZE trailer.
//
// It fails with a KindBlockTooLarge error if the compressed output
// would not fit the 16-bit BSIZE field.
func encodeBlock(w io.Writer, block []byte, level int) error {
	const op = "bgzf.encodeBlock"
	if len(block) > MaxBlockSize {
		return newErr(op, KindRange, fmt.Sprintf("block of %d bytes exceeds %d", len(block), MaxBlockSize), nil)
	}

	var compressed bytes.Buffer
	fw, err := flate.NewWriter(&compressed, level)
	if err != nil {
		return newErr(op, KindOther, "constructing deflate writer", err)
	}
	if _, err := fw.Write(block); err != nil {
		return newErr(op, KindOther, "compressing block", err)
	}
	if err := fw.Close(); err != nil {
		return newErr(op, KindOther, "flushing deflate writer", err)
	}

	if compressed.Len()+blockFixedOverhead > MaxBlockSize {
		return newErr(op, KindBlockTooLarge,
			fmt.Sprintf("compressed block is %d bytes, would make BSIZE %d > %d",
				compressed.Len(), compressed.Len()+blockFixedOverhead, MaxBlockSize), nil)
	}

	bsize := uint16(compressed.Len() + blockFixedOverhead - 1)
	var head [blockHeaderPrefixLen + bcSubfieldPrefixLen + 2]byte
	copy(head[:blockHeaderPrefixLen], blockHeaderPrefix[:])
	copy(head[blockHeaderPrefixLen:blockHeaderPrefixLen+bcSubfieldPrefixLen], bcSubfieldPrefix[:])
	putUint16(head[blockHeaderPrefixLen+bcSubfieldPrefixLen:], bsize)

	if _, err := w.Write(head[:]); err != nil {
		return newErr(op, KindOther, "writing block header", err)
	}
	if _, err := w.Write(compressed.Bytes()); err != nil {
		return newErr(op, KindOther, "writing compressed payload", err)
	}

	var trailer [8]byte
	putUint32(trailer[0:4], crc32.ChecksumIEEE(block)&0xffffffff)
	putUint32(trailer[4:8], uint32(len(block)))
	if _, err := w.Write(trailer[:]); err != nil {
		return newErr(op, KindOther, "writing block trailer", err)
	}
	return nil
}
