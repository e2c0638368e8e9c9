// Package bgzf implements the Blocked GZip Format: a restriction of
// gzip in which the compressed payload is split into independently
// inflatable blocks, each capped at 64KiB compressed and 64KiB
// uncompressed, with the compressed block size advertised in a "BC"
// gzip extra-field subheader. BGZF is the on-disk envelope used by BAM
// and related bioinformatics formats; its value is that random access
// into the decompressed stream is O(1) given a 64-bit "virtual offset"
// pairing a block's file offset with an offset into its decompressed
// contents.
//
// This package implements only the codec and random-access reader and
// writer: the exact block framing, the virtual-offset algebra, and a
// Reader/Writer pair. Anything that parses records out of the
// resulting byte stream (SAM/BAM, FASTA/FASTQ, ...) is a collaborator
// that sees only the byte interface, not a part of this package.
//
// See https://samtools.github.io/hts-specs/SAMv1.pdf for the
// authoritative BGZF/BAM specification.
package bgzf

import "encoding/binary"

const (
	// MaxBlockSize is the largest legal value for a block's
	// compressed or uncompressed size. BSIZE is stored in a 16-bit
	// field, so a block's on-disk length (including headers and
	// trailers) can never exceed it either.
	MaxBlockSize = 0x10000

	// blockHeaderPrefix is the fixed 12-byte gzip header BGZF always
	// emits: magic (1F 8B 08 04), MTIME (zero), XFL (zero), OS (FF,
	// unknown), and XLEN (06 00, six bytes of extra area).
	//
	// 1F 8B 08 04 - magic, CM=deflate, FLG=FEXTRA
	// 00 00 00 00 - MTIME, unset
	// 00          - XFL
	// FF          - OS, unknown
	// 06 00       - XLEN=6 (one BC subfield)
	blockHeaderPrefixLen = 12

	// bcSubfieldPrefixLen is the 4-byte subfield header (id "BC", len=2)
	// that precedes the 2-byte BSIZE payload in the extra area.
	bcSubfieldPrefixLen = 4

	// blockFixedOverhead is every byte of a block that isn't the
	// compressed payload: the 12-byte header prefix, the 6-byte BC
	// extra area (4-byte subfield prefix + 2-byte BSIZE), and the
	// 8-byte CRC32+ISIZE trailer.
	blockFixedOverhead = blockHeaderPrefixLen + bcSubfieldPrefixLen + 2 + 8 // == 26
)

var (
	bgzfMagic = [4]byte{0x1f, 0x8b, 0x08, 0x04}

	// bcSubfieldPrefix is the fixed id+length prefix of the mandatory
	// BC extra subfield: id "BC", payload length 2.
	bcSubfieldPrefix = [4]byte{'B', 'C', 0x02, 0x00}

	// blockHeaderPrefix is the full fixed 12-byte header BGZF writes
	// for every block: magic, MTIME=0, XFL=0, OS=0xff, XLEN=6.
	blockHeaderPrefix = [blockHeaderPrefixLen]byte{
		0x1f, 0x8b, 0x08, 0x04, 0x00, 0x00, 0x00, 0x00, 0x00, 0xff, 0x06, 0x00,
	}

	// eofSentinel is the fixed 28-byte empty BGZF block that marks a
	// clean end of stream. samtools and bgzip both look for it and
	// warn about possible truncation if it is absent, so Writer.Close
	// always appends it.
	eofSentinel = [28]byte{
		0x1f, 0x8b, 0x08, 0x04, 0x00, 0x00, 0x00, 0x00, 0x00, 0xff, 0x06, 0x00,
		0x42, 0x43, 0x02, 0x00, 0x1b, 0x00, 0x03, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
	}
)

func putUint16(b []byte, v uint16) { binary.LittleEndian.PutUint16(b, v) }
func uint16At(b []byte) uint16     { return binary.LittleEndian.Uint16(b) }
func putUint32(b []byte, v uint32) { binary.LittleEndian.PutUint32(b, v) }
func uint32At(b []byte) uint32     { return binary.LittleEndian.Uint32(b) }
