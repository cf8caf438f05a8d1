// SPDX-License-Identifier: GPL-3.0-or-later
// Source: github.com/woozymasta/unxz

package unxz

// initRc validates and loads the 5-byte range-coder header at the start of
// an LZMA2 compressed chunk, mirroring LzmaDec_InitRc.
func (d *Decoder) initRc(header []byte) error {
	code, rng, err := initRangeCoder(header)
	if err != nil {
		return err
	}
	d.code = code
	d.rng = rng
	d.needFlush = false
	return nil
}

// initDicAndState schedules a dictionary and/or model reset for the next
// chunk, mirroring LzmaDec_InitDicAndState. The reset itself happens lazily
// in decodeToDic/initStateReal so that a dict reset with no following data
// never touches the probability table.
func (d *Decoder) initDicAndState(initDic, initState bool) {
	d.needFlush = true
	d.remainLen = 0
	d.tempBufSize = 0

	if initDic {
		d.processedPos = 0
		d.checkDicSize = 0
		d.needInitLzma = true
	}
	if initState {
		d.needInitLzma = true
	}
}

// initStateReal resets the probability table to the uniform 50/50 model and
// the rep distances to 1, mirroring LzmaDec_InitStateReal. This is where an
// LZMA2 property-byte change actually takes effect, since lc/lp determine
// numProbs.
func (d *Decoder) initStateReal() {
	numProbs := probLiteral + lzmaLitSize<<(d.lc+d.lp)
	probs := d.probs[:numProbs]
	for i := range probs {
		probs[i] = bitModelTotal >> 1
	}

	d.reps[0], d.reps[1], d.reps[2], d.reps[3] = 1, 1, 1, 1
	d.state = 0
	d.needInitLzma = false
}

// initDecode resets the decoder for one dictionary-sharing unit: a single
// xz block, or the one .lzma stream, mirroring InitDecode. The container
// parser calls this once per xz block (so a later block with a different
// dicSize still gets a clean state) and once for a whole .lzma stream.
func (d *Decoder) initDecode(dicSize uint32) {
	d.dict.initBlock(dicSize)
	d.needInitDic = true
	d.needInitState = true
	d.needInitProp = true
	d.initDicAndState(true, true)
}

// initProp decodes an LZMA2 (or .lzma) property byte into lc, lp, pb,
// rejecting lc+lp>lzma2LcLpMax as the format requires.
func (d *Decoder) initProp(b byte) error {
	if b >= 9*5*5 {
		return newDecodeError(ErrKindBadLclppbProp, "LZMA property byte out of range")
	}

	d.lc = uint32(b) % 9
	b /= 9
	d.lp = uint32(b) % 5
	d.pb = uint32(b) / 5

	if d.lc+d.lp > lzma2LcLpMax {
		return newDecodeError(ErrKindBadLclppbProp, "lc+lp exceeds maximum")
	}

	d.needInitProp = false
	return nil
}

// decodeToDic drives decodeReal2/tryDummy/writeRem over an in-memory
// compressed chunk until either the chunk is fully consumed or dicfLimit is
// reached, mirroring LzmaDec_DecodeToDic. It reports how much of src was
// consumed and whether decoding finished with the LZMA end marker.
type decodeToDicResult struct {
	consumed         int
	finishedWithMark bool
}

func (d *Decoder) decodeToDic(src []byte) (decodeToDicResult, error) {
	srcLen0 := len(src)
	var consumed int

	if err := d.writeRem(d.dict.dicfLimit); err != nil {
		return decodeToDicResult{}, err
	}

	for d.remainLen != matchSpecLenStart {
		if d.needFlush {
			for len(src) > 0 && d.tempBufSize < rcInitSize {
				d.tempBuf[d.tempBufSize] = src[0]
				d.tempBufSize++
				src = src[1:]
				consumed++
			}
			if d.tempBufSize < rcInitSize {
				if consumed != srcLen0 {
					return decodeToDicResult{consumed: consumed}, ErrNeedsMoreInputPartial
				}
				return decodeToDicResult{consumed: consumed}, ErrNeedsMoreInput
			}
			if err := d.initRc(d.tempBuf[:rcInitSize]); err != nil {
				return decodeToDicResult{}, err
			}
			d.tempBufSize = 0
		}

		checkEndMarkNow := false
		if d.dict.dicfPos >= d.dict.dicfLimit {
			if d.remainLen == 0 && d.code == 0 {
				if consumed != srcLen0 {
					return decodeToDicResult{consumed: consumed}, newDecodeError(ErrKindChunkNotConsumed, "chunk produced its full output before consuming all input")
				}
				return decodeToDicResult{consumed: consumed}, nil
			}
			if d.remainLen != 0 {
				return decodeToDicResult{consumed: consumed}, newDecodeError(ErrKindNotFinished, "match left unfinished at chunk boundary")
			}
			checkEndMarkNow = true
		}

		if d.needInitLzma {
			d.initStateReal()
		}

		if d.tempBufSize == 0 {
			var startLimit int
			if len(src) < lzmaRequiredInputMax || checkEndMarkNow {
				dr := d.tryDummy(src)
				if dr == dummyError {
					copy(d.tempBuf[:], src)
					d.tempBufSize = len(src)
					consumed += len(src)
					if consumed != srcLen0 {
						return decodeToDicResult{consumed: consumed}, ErrNeedsMoreInputPartial
					}
					return decodeToDicResult{consumed: consumed}, ErrNeedsMoreInput
				}
				if checkEndMarkNow && dr != dummyMatch {
					return decodeToDicResult{consumed: consumed}, newDecodeError(ErrKindNotFinished, "end marker expected but packet was not a match")
				}
				startLimit = 0
			} else {
				startLimit = len(src) - lzmaRequiredInputMax
			}

			before := len(src)
			rem, err := d.decodeReal2(d.dict.dicfLimit, src, startLimit)
			if err != nil {
				return decodeToDicResult{consumed: consumed}, err
			}
			processed := before - len(rem)
			consumed += processed
			src = src[processed:]
		} else {
			rem := d.tempBufSize
			lookAhead := 0
			for rem < lzmaRequiredInputMax && lookAhead < len(src) {
				d.tempBuf[rem] = src[lookAhead]
				rem++
				lookAhead++
			}
			d.tempBufSize = rem

			checkEnd := checkEndMarkNow
			if rem < lzmaRequiredInputMax || checkEnd {
				dr := d.tryDummy(d.tempBuf[:rem])
				if dr == dummyError {
					consumed += lookAhead
					if consumed != srcLen0 {
						return decodeToDicResult{consumed: consumed}, ErrNeedsMoreInputPartial
					}
					return decodeToDicResult{consumed: consumed}, ErrNeedsMoreInput
				}
				if checkEnd && dr != dummyMatch {
					return decodeToDicResult{consumed: consumed}, newDecodeError(ErrKindNotFinished, "end marker expected but packet was not a match")
				}
			}

			// Decode exactly one packet (startLimit 0): only that one was
			// validated by the dry run above, and a second packet could run
			// off the end of tempBuf.
			tail, err := d.decodeReal2(d.dict.dicfLimit, d.tempBuf[:rem], 0)
			if err != nil {
				return decodeToDicResult{consumed: consumed}, err
			}
			consumedFromTemp := rem - len(tail)
			lookAhead -= rem - consumedFromTemp
			consumed += lookAhead
			src = src[lookAhead:]
			d.tempBufSize = 0
		}
	}

	if d.code != 0 {
		return decodeToDicResult{consumed: consumed}, newDecodeError(ErrKindData, "range coder code register nonzero at end marker")
	}
	return decodeToDicResult{consumed: consumed, finishedWithMark: true}, nil
}
