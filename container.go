// SPDX-License-Identifier: GPL-3.0-or-later
// Source: github.com/woozymasta/unxz

package unxz

import (
	"bytes"
	"io"
)

// This file is the container parser: it recognizes whether the input is an
// .xz stream or a raw .lzma stream, validates and
// skips the surrounding framing (stream header, block headers, inter-block
// padding and checksums, the .lzma header's own sanity checks), and hands
// each block's body to runLZMA2Block or, for .lzma, drives decodeToDic
// directly. Multiple blocks within one xz stream are supported; multiple
// concatenated streams and the xz index/footer are not read at all.

var xzMagic = [7]byte{0xFD, 0x37, 0x7A, 0x58, 0x5A, 0x00, 0x00}

// decompressXzOrLzma is the single entry point both top-level API paths
// call: it detects the container, then drives it to completion, flushing
// decompressed output to out as it becomes available.
func (d *Decoder) decompressXzOrLzma(src io.Reader, out io.Writer, opts *Options) error {
	d.rb.init(src)

	if d.rb.preread(30) < 30 {
		return newDecodeError(ErrKindInputEOF, "input shorter than the minimum stream header")
	}

	d.dict.resetForStream(out, opts.MaxOutputSize)

	if bytes.Equal(d.rb.pending()[:7], xzMagic[:]) {
		return d.decompressXz()
	}
	return d.decompressLzmaAlone()
}

// decompressLzmaAlone parses and decodes a raw .lzma ("lzma-alone") stream:
// a 13-byte header (1 property byte, 4-byte LE dicSize, 8-byte LE
// uncompressed size whose high 4 bytes must be all-0, leaving the size in
// the low 4 bytes, or all-F, meaning "unknown") followed directly by
// LZMA-compressed data with no chunking.
func (d *Decoder) decompressLzmaAlone() error {
	hdr := d.rb.pending()

	if hdr[0] > 224 {
		return newDecodeError(ErrKindBadMagic, "not an xz stream, and lzma header sanity check failed on the property byte")
	}
	if hdr[13] != 0 {
		return newDecodeError(ErrKindBadMagic, "not an xz stream, and lzma header sanity check failed on the reserved byte")
	}

	sizeHigh := le32(hdr[9:13])
	if sizeHigh != 0 && sizeHigh != 0xFFFFFFFF {
		return newDecodeError(ErrKindBadMagic, "not an xz stream, and lzma header sanity check failed on the size field")
	}
	unknownSize := sizeHigh != 0

	dicSize := le32(hdr[1:5])
	if dicSize < lzmaDicMin {
		return newDecodeError(ErrKindBadMagic, "not an xz stream, and lzma header sanity check failed on the dictionary size")
	}
	if dicSize > maxDicSize {
		return newDecodeError(ErrKindUnsupportedDictionarySize, "lzma dictionary size exceeds the supported maximum")
	}

	var us uint32
	if !unknownSize {
		us = le32(hdr[5:9])
	}

	propByte := hdr[0]
	d.initDecode(dicSize)
	if err := d.initProp(propByte); err != nil {
		return err
	}
	// Unlike an xz block, a .lzma stream has no declared per-chunk output
	// size for decodeToDic to stop at; only the outer loop below, checking
	// against us/unknownSize, decides when decoding is done.
	d.dict.dicfLimit = 0xFFFFFFFF

	d.rb.advance(13)

	if !unknownSize && us <= dicSize {
		if err := d.dict.growCapacityTo(us); err != nil {
			return err
		}
	}

	for {
		if !unknownSize && d.dict.discardedSize+d.dict.dicfPos == us {
			break
		}

		avail := d.rb.preread(sizeofReadBuf)
		if avail == 0 {
			return newDecodeError(ErrKindInputEOF, "truncated lzma stream")
		}

		chunk := d.rb.pending()[:avail]
		res, err := d.decodeToDic(chunk)
		if err == ErrNeedsMoreInput || err == ErrNeedsMoreInputPartial {
			d.rb.advance(avail) // the partial packet is carried over in tempBuf
			continue
		}
		if err != nil {
			return err
		}
		if res.finishedWithMark {
			// Bytes after the end marker belong to whatever follows the
			// stream; leave them unconsumed for DecompressN accounting.
			d.rb.advance(res.consumed)
			break
		}
		d.rb.advance(avail)
	}

	return d.dict.flush()
}

// decompressXz parses the xz stream header and the block loop, delegating
// each block's body to runLZMA2Block.
func (d *Decoder) decompressXz() error {
	hdr := d.rb.pending()

	var checksumSize int
	switch hdr[7] {
	case 0:
		checksumSize = 1 // "none": one byte is skipped although the format stores no check field
	case 1:
		checksumSize = 4 // CRC32
	case 4:
		checksumSize = 8 // CRC64
	default:
		return newDecodeError(ErrKindBadChecksumType, "unsupported xz stream checksum type")
	}
	d.rb.advance(12) // magic(6) + stream flags(2) + header CRC32(4)

	for {
		if d.rb.preread(1) < 1 {
			return newDecodeError(ErrKindInputEOF, "truncated xz block header")
		}
		bhsByte := d.rb.pending()[0]
		if bhsByte == 0 {
			// Start of the index, which is never parsed; it is left
			// unconsumed so DecompressN reports where the index begins.
			return nil
		}
		d.rb.advance(1)

		bhs := (int(bhsByte) + 1) * 4
		headerRemaining := bhs - 1
		if d.rb.preread(headerRemaining) < headerRemaining {
			return newDecodeError(ErrKindInputEOF, "truncated xz block header")
		}
		blk := d.rb.pending()[:headerRemaining]

		bhf := blk[0]
		off := 1

		if bhf&2 != 0 {
			return newDecodeError(ErrKindUnsupportedFilterCount, "xz block declares more than one filter")
		}
		if bhf&0x14 != 0 {
			return newDecodeError(ErrKindBadBlockFlags, "xz block flags have a reserved bit set")
		}
		if bhf&0x40 != 0 {
			n, err := ignoreVarint(blk[off:])
			if err != nil {
				return err
			}
			off += n
		}
		if bhf&0x80 != 0 {
			n, err := ignoreVarint(blk[off:])
			if err != nil {
				return err
			}
			off += n
		}

		if off >= len(blk) || blk[off] != filterIDLZMA2 {
			return newDecodeError(ErrKindUnsupportedFilterID, "xz block filter is not LZMA2")
		}
		off++
		if off >= len(blk) || blk[off] != 1 {
			return newDecodeError(ErrKindUnsupportedFilterPropertiesSize, "xz LZMA2 filter properties size must be 1")
		}
		off++
		if off >= len(blk) {
			return newDecodeError(ErrKindBlockHeaderTooLong, "xz block header too short for its declared fields")
		}
		dicSizeProp := blk[off]
		off++

		if dicSizeProp > maxDicSizeProp {
			return newDecodeError(ErrKindUnsupportedDictionarySize, "xz LZMA2 dictionary size exceeds the supported maximum")
		}
		dicSize := uint32(2|(dicSizeProp&1)) << (uint32(dicSizeProp)/2 + 11)

		if off+5 > bhs {
			return newDecodeError(ErrKindBlockHeaderTooLong, "xz block header too short for its declared fields")
		}
		padEnd := headerRemaining - 4 // trailing 4 bytes are the header CRC32, never checked
		if padEnd < off {
			return newDecodeError(ErrKindBlockHeaderTooLong, "xz block header too short for its declared fields")
		}
		if err := ignoreZeroBytes(blk[off:padEnd]); err != nil {
			return err
		}

		d.rb.advance(headerRemaining)

		d.initDecode(dicSize)

		blockSizePad, err := d.runLZMA2Block()
		if err != nil {
			return err
		}
		if err := d.dict.flush(); err != nil {
			return err
		}

		padLen := blockSizePad & 3
		if d.rb.preread(padLen) < padLen {
			return newDecodeError(ErrKindInputEOF, "truncated xz block padding")
		}
		if err := ignoreZeroBytes(d.rb.pending()[:padLen]); err != nil {
			return err
		}
		d.rb.advance(padLen)

		if d.rb.preread(checksumSize) < checksumSize {
			return newDecodeError(ErrKindInputEOF, "truncated xz block checksum")
		}
		d.rb.advance(checksumSize) // checksum value itself is never verified
	}
}

// le32 reads a little-endian uint32, used by the .lzma header fields.
func le32(p []byte) uint32 {
	return uint32(p[0]) | uint32(p[1])<<8 | uint32(p[2])<<16 | uint32(p[3])<<24
}

// ignoreVarint skips one LEB128-style continuation-bit varint (the xz
// block header's optional compressed-size/uncompressed-size fields),
// returning the number of bytes it occupies. This package never needs the
// varint's value, only its length, since it does not verify block sizes.
func ignoreVarint(p []byte) (int, error) {
	n := 0
	for {
		if n >= len(p) {
			return 0, newDecodeError(ErrKindBlockHeaderTooLong, "varint runs past the end of the block header")
		}
		b := p[n]
		n++
		if b < 0x80 {
			return n, nil
		}
	}
}

// ignoreZeroBytes validates that the xz block header padding is all zero,
// as the format requires, without otherwise using its contents.
func ignoreZeroBytes(p []byte) error {
	for _, b := range p {
		if b != 0 {
			return newDecodeError(ErrKindBadPadding, "non-zero padding byte")
		}
	}
	return nil
}
