// SPDX-License-Identifier: GPL-3.0-or-later
// Source: github.com/woozymasta/unxz

package unxz

// This file is the LZMA2 chunk driver: it walks the
// control-byte-prefixed chunk stream that makes up one xz block's body,
// feeding compressed chunks to decodeToDic and copying uncompressed chunks
// straight into the dictionary.

// runLZMA2Block decodes chunks until the block's 0x00 end-of-block control
// byte, returning the final blockSizePad value so the caller can pad the
// block's tail to a 4-byte boundary.
func (d *Decoder) runLZMA2Block() (int, error) {
	blockSizePad := 3

	for {
		if d.dict.dicfPos != d.dict.dicfLimit {
			return blockSizePad, newDecodeError(ErrKindBadDicPos, "dictionary position desynchronized between lzma2 chunks")
		}

		if d.rb.preread(6) < 6 {
			return blockSizePad, newDecodeError(ErrKindInputEOF, "truncated lzma2 chunk header")
		}
		hdr := d.rb.pending()
		control := hdr[0]

		if control == 0 {
			d.rb.advance(1)
			return blockSizePad, nil
		}
		if control >= 3 && control < 0x80 {
			return blockSizePad, newDecodeError(ErrKindBadChunkControlByte, "bad lzma2 chunk control byte")
		}

		us := (uint32(hdr[1])<<8 | uint32(hdr[2])) + 1

		var cs uint32
		var headerLen int

		if control < 3 {
			cs = us
			headerLen = 3

			if control == 1 {
				d.needInitProp = d.needInitState
				d.needInitState = true
				d.needInitDic = false
			} else if d.needInitDic {
				return blockSizePad, newDecodeError(ErrKindData, "uncompressed chunk without a preceding dictionary reset")
			}
			d.initDicAndState(false, false)
		} else {
			mode := (control >> 5) & 3
			initDic := mode == 3
			initState := mode > 0
			isProp := control&0x40 != 0

			cs = (uint32(hdr[3])<<8 | uint32(hdr[4])) + 1
			us += uint32(control&0x1F) << 16

			headerLen = 5
			if isProp {
				if err := d.initProp(hdr[5]); err != nil {
					return blockSizePad, err
				}
				headerLen = 6
			} else if d.needInitProp {
				return blockSizePad, newDecodeError(ErrKindMissingInitProp, "compressed chunk needs properties that were never set")
			}

			if (!initDic && d.needInitDic) || (!initState && d.needInitState) {
				return blockSizePad, newDecodeError(ErrKindData, "chunk mode does not reinitialize state the stream still needs")
			}

			d.initDicAndState(initDic, initState)
			d.needInitDic = false
			d.needInitState = false
		}

		d.rb.advance(headerLen)
		blockSizePad -= headerLen

		if err := d.dict.flushDiscardOldFromStartOfDic(); err != nil {
			return blockSizePad, err
		}
		newLimit := d.dict.dicfLimit + us
		if newLimit < d.dict.dicfLimit {
			return blockSizePad, newDecodeError(ErrKindOverflow, "dicfLimit+us overflow")
		}
		d.dict.dicfLimit = newLimit

		if d.rb.preread(int(cs)+6) < int(cs) {
			return blockSizePad, newDecodeError(ErrKindInputEOF, "truncated lzma2 chunk body")
		}
		chunk := d.rb.pending()[:cs]

		if control < 3 {
			if err := d.dict.flushDiscardGrowDic(us); err != nil {
				return blockSizePad, err
			}
			copy(d.dict.dicf[d.dict.dicfPos:d.dict.dicfPos+us], chunk)
			d.dict.dicfPos += us

			if d.checkDicSize == 0 && d.dict.dicSize-d.processedPos <= us {
				d.checkDicSize = d.dict.dicSize
			}
			d.processedPos += us
		} else {
			res, err := d.decodeToDic(chunk)
			if err != nil {
				if err == ErrNeedsMoreInput || err == ErrNeedsMoreInputPartial {
					return blockSizePad, newDecodeError(ErrKindData, "compressed chunk ended before producing its declared output")
				}
				return blockSizePad, err
			}
			if res.finishedWithMark {
				// LZMA2 chunks end by size, never by the LZMA end marker.
				return blockSizePad, newDecodeError(ErrKindData, "unexpected end marker inside an lzma2 chunk")
			}
		}

		if d.dict.dicfPos != d.dict.dicfLimit {
			return blockSizePad, newDecodeError(ErrKindBadDicPos, "chunk did not produce its declared output length")
		}

		d.rb.advance(int(cs))
		blockSizePad -= int(cs)
	}
}
