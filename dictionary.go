// SPDX-License-Identifier: GPL-3.0-or-later
// Source: github.com/woozymasta/unxz

package unxz

import "io"

// dictionary is the output-accumulating buffer that doubles as the LZMA
// lookback window. dicf[0:dicfPos) is already-produced
// output; dicf[writtenPos:dicfPos) has not yet been flushed to the sink;
// dicf[dicfLimit-maxMatchSize:dicfLimit) is the wrap-around region a
// back-reference may cross when the buffer has been compacted.
type dictionary struct {
	dicf          []byte
	dicfPos       uint32
	dicfLimit     uint32
	writtenPos    uint32
	allocCapacity uint32
	discardedSize uint32
	dicSize       uint32
	out           io.Writer
	totalFlushed  int64 // bytes handed to out across the whole decode, for MaxOutputSize accounting
	maxOutputSize int64 // 0 = unlimited
}

// resetForStream prepares the dictionary for one call to Decompress/
// DecompressStream, resetting the cumulative output accounting. Call once
// per decode; initBlock resets the per-block/per-lzma-stream fields and may
// be called again for a later xz block sharing this same stream.
func (d *dictionary) resetForStream(out io.Writer, maxOutputSize int64) {
	d.out = out
	d.maxOutputSize = maxOutputSize
	d.totalFlushed = 0
}

// initBlock mirrors InitDecode's dictionary-side effects: a fresh dicfPos/
// dicfLimit/writtenPos/discardedSize for one xz block (or the single .lzma
// stream), reusing whatever backing array is already allocated.
func (d *dictionary) initBlock(dicSize uint32) {
	d.allocCapacity = uint32(cap(d.dicf))
	d.dicf = d.dicf[:d.allocCapacity]
	d.dicfPos = 0
	d.dicfLimit = 0
	d.writtenPos = 0
	d.discardedSize = 0
	d.dicSize = dicSize
}

// flush emits dicf[writtenPos:dicfPos) to the output sink.
func (d *dictionary) flush() error {
	p := d.dicf[d.writtenPos:d.dicfPos]
	if len(p) > 0 {
		if d.maxOutputSize > 0 && d.totalFlushed+int64(len(p)) > d.maxOutputSize {
			return wrapDecodeError(ErrKindData, "decompressed output exceeds MaxOutputSize", ErrOutputTooLarge)
		}
		if _, err := d.out.Write(p); err != nil {
			return wrapDecodeError(ErrKindData, "writing decompressed output", err)
		}
		d.totalFlushed += int64(len(p))
	}
	d.writtenPos = d.dicfPos
	return nil
}

// flushDiscardOldFromStartOfDic compacts the dictionary once dicfPos has run
// far enough past dicSize that the prefix before dicfPos-dicSize can never
// again be referenced by a valid distance, per the checkDicSize invariant.
func (d *dictionary) flushDiscardOldFromStartOfDic() error {
	if d.dicfPos <= d.dicSize {
		return nil
	}

	delta := d.dicfPos - d.dicSize
	if delta+maxMatchSize < d.dicSize {
		return nil // not yet worth the memmove; amortises over many chunks
	}

	if err := d.flush(); err != nil {
		return err
	}

	copy(d.dicf[0:], d.dicf[delta:d.dicSize+delta])
	d.dicfPos -= delta
	d.dicfLimit -= delta
	d.writtenPos -= delta
	d.discardedSize += delta
	return nil
}

// growCapacity grows dicf to newCapacity bytes, preserving contents.
func (d *dictionary) growCapacity(newCapacity uint32) error {
	if newCapacity <= d.allocCapacity {
		return nil
	}
	if newCapacity > maxDicfSize {
		return newDecodeError(ErrKindOverflow, "dictionary growth exceeds maxDicfSize")
	}

	grown := make([]byte, newCapacity)
	copy(grown, d.dicf[:d.allocCapacity])
	d.dicf = grown
	d.allocCapacity = newCapacity
	return nil
}

// flushDiscardGrowDic ensures allocCapacity >= dicfPos+delta, compacting
// first and then, if compaction alone was not enough, growing by doubling
// from 64 KiB; once the size passes dicSize it jumps to dicSize<<1 (or to
// minCapacity if that is larger). There is no per-dictionary ceiling:
// growCapacity only rejects sizes above maxDicfSize.
func (d *dictionary) flushDiscardGrowDic(delta uint32) error {
	minCapacity := d.dicfPos + delta
	if minCapacity < d.dicfPos {
		return newDecodeError(ErrKindOverflow, "dicfPos+delta overflow")
	}
	if minCapacity <= d.allocCapacity {
		return nil
	}

	if err := d.flushDiscardOldFromStartOfDic(); err != nil {
		return err
	}
	minCapacity = d.dicfPos + delta
	if minCapacity <= d.allocCapacity {
		return nil
	}

	newCapacity := uint32(64 * 1024)
	for newCapacity < minCapacity {
		if newCapacity > d.dicSize {
			newCapacity = d.dicSize << 1
			if newCapacity < minCapacity {
				newCapacity = minCapacity
			}
			break
		}
		newCapacity <<= 1
	}

	return d.growCapacity(newCapacity)
}

// growCapacityTo pre-sizes the buffer in one allocation. Used by the .lzma
// container path when the declared plaintext length is known and within
// dicSize, to skip the doubling steps a large known payload would otherwise
// walk through.
func (d *dictionary) growCapacityTo(minCapacity uint32) error {
	return d.growCapacity(minCapacity)
}
