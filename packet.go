// SPDX-License-Identifier: GPL-3.0-or-later
// Source: github.com/woozymasta/unxz

package unxz

// This file is the LZMA packet decoder: the literal, match and rep packet
// bodies, their state-machine transitions, and the ring-wrap copy into the
// dictionary. It follows the LZMA SDK's LzmaDec decode loop, kept in its
// register-heavy shape (distance/posSlot/length sub-coders share one
// bit-tree walk each) because that shape is what makes the adaptive
// probability indexing readable.

// decodeReal runs literal/match/rep packets until dicfPos reaches limit or
// the cursor reaches startLimit bytes into buf, mirroring LzmaDec_DecodeReal.
// startLimit may be smaller than len(buf): the caller reserves a
// lzmaRequiredInputMax-byte margin at the tail of buf so that whichever
// packet is in flight when the cursor crosses startLimit can still safely
// read ahead into the margin before the loop's next iteration re-checks the
// bound. It returns the unconsumed tail of buf.
func (d *Decoder) decodeReal(limit uint32, buf []byte, startLimit int) ([]byte, error) {
	probs := &d.probs
	state := d.state
	rep0, rep1, rep2, rep3 := d.reps[0], d.reps[1], d.reps[2], d.reps[3]
	pbMask := (uint32(1) << d.pb) - 1
	lpMask := (uint32(1) << d.lp) - 1
	lc := d.lc
	dicl := d.dict.dicf
	diclLimit := d.dict.dicfLimit
	diclPos := d.dict.dicfPos
	processedPos := d.processedPos
	checkDicSize := d.checkDicSize
	rng, code := d.rng, d.code
	var length uint32
	total := len(buf)

loop:
	for {
		posState := processedPos & pbMask
		prob := &probs[probIsMatch+(state<<numPosBitsMax)+posState]

		if decodeBit(&rng, &code, &buf, prob) == 0 {
			litProbs := uint32(probLiteral)
			if checkDicSize != 0 || processedPos != 0 {
				var prevByte byte
				if diclPos == 0 {
					prevByte = dicl[diclLimit-1]
				} else {
					prevByte = dicl[diclPos-1]
				}
				litProbs += lzmaLitSize * (((processedPos&lpMask)<<lc)+uint32(prevByte)>>(8-lc))
			}

			symbol := uint32(1)
			if state < numLitStates {
				if state < 4 {
					state = 0
				} else {
					state -= 3
				}
				for symbol < 0x100 {
					symbol = (symbol << 1) | uint32(decodeBit(&rng, &code, &buf, &probs[litProbs+symbol]))
				}
			} else {
				var matchByte uint32
				if diclPos < rep0 {
					matchByte = uint32(dicl[diclPos-rep0+diclLimit])
				} else {
					matchByte = uint32(dicl[diclPos-rep0])
				}
				if state < 10 {
					state -= 3
				} else {
					state -= 6
				}

				offs := uint32(0x100)
				for symbol < 0x100 {
					matchByte <<= 1
					bit := matchByte & offs
					b := decodeBit(&rng, &code, &buf, &probs[litProbs+offs+bit+symbol])
					symbol = (symbol << 1) | uint32(b)
					if b == 0 {
						offs &^= bit
					} else {
						offs &= bit
					}
				}
			}

			if diclPos >= d.dict.allocCapacity {
				d.dict.dicfPos = diclPos
				if err := d.dict.flushDiscardGrowDic(1); err != nil {
					return buf, err
				}
				dicl = d.dict.dicf
				diclLimit = d.dict.dicfLimit
				diclPos = d.dict.dicfPos
			}

			dicl[diclPos] = byte(symbol)
			diclPos++
			processedPos++
		} else {
			var lenBase int
			matchedRep := false
			if decodeBit(&rng, &code, &buf, &probs[probIsRep+state]) == 0 {
				state += numStates
				lenBase = probLenCoder
			} else {
				matchedRep = true
				if checkDicSize == 0 && processedPos == 0 {
					return buf, newDecodeError(ErrKindData, "rep packet with empty history")
				}

				shortRep := false
				if decodeBit(&rng, &code, &buf, &probs[probIsRepG0+state]) == 0 {
					if decodeBit(&rng, &code, &buf, &probs[probIsRep0Long+(state<<numPosBitsMax)+posState]) == 0 {
						shortRep = true
					}
				} else {
					var distance uint32
					if decodeBit(&rng, &code, &buf, &probs[probIsRepG1+state]) == 0 {
						distance = rep1
					} else {
						if decodeBit(&rng, &code, &buf, &probs[probIsRepG2+state]) == 0 {
							distance = rep2
						} else {
							distance = rep3
							rep3 = rep2
						}
						rep2 = rep1
					}
					rep1 = rep0
					rep0 = distance
				}

				if shortRep {
					if diclPos >= d.dict.allocCapacity {
						d.dict.dicfPos = diclPos
						if err := d.dict.flushDiscardGrowDic(1); err != nil {
							return buf, err
						}
						dicl = d.dict.dicf
						diclLimit = d.dict.dicfLimit
						diclPos = d.dict.dicfPos
					}

					if diclPos < rep0 {
						dicl[diclPos] = dicl[diclPos-rep0+diclLimit]
					} else {
						dicl[diclPos] = dicl[diclPos-rep0]
					}
					diclPos++
					processedPos++

					if state < numLitStates {
						state = 9
					} else {
						state = 11
					}

					if !(diclPos < limit && total-len(buf) < startLimit) {
						break loop
					}
					continue
				}

				if state < numLitStates {
					state = 8
				} else {
					state = 11
				}
				lenBase = probRepLenCoder
			}

			var offset, limitBits uint32
			if decodeBit(&rng, &code, &buf, &probs[lenBase+lenChoice]) == 0 {
				offset = 0
				limitBits = lenNumLowSymbols
				length = decodeLenTree(&rng, &code, &buf, probs, lenBase+lenLow+int(posState<<lenNumLowBits), limitBits)
			} else if decodeBit(&rng, &code, &buf, &probs[lenBase+lenChoice2]) == 0 {
				offset = lenNumLowSymbols
				limitBits = lenNumMidSymbols
				length = decodeLenTree(&rng, &code, &buf, probs, lenBase+lenMid+int(posState<<lenNumMidBits), limitBits)
			} else {
				offset = lenNumLowSymbols + lenNumMidSymbols
				limitBits = lenNumHighSymbols
				length = decodeLenTree(&rng, &code, &buf, probs, lenBase+lenHigh, limitBits)
			}
			length += offset

			if !matchedRep {
				var slotBase int
				if length < numLenToPosStates {
					slotBase = probPosSlot + int(length)<<numPosSlotBits
				} else {
					slotBase = probPosSlot + (numLenToPosStates-1)<<numPosSlotBits
				}

				distance := uint32(1)
				for distance < 1<<numPosSlotBits {
					distance = (distance << 1) | uint32(decodeBit(&rng, &code, &buf, &probs[slotBase+int(distance)]))
				}
				distance -= 1 << numPosSlotBits

				if distance >= startPosModelIndex {
					posSlot := distance
					numDirectBits := (distance >> 1) - 1
					distance = 2 | (distance & 1)

					if posSlot < endPosModelIndex {
						distance <<= numDirectBits
						base := probSpecPos + int(distance) - int(posSlot) - 1
						i := uint32(1)
						mask := uint32(1)
						for numDirectBits != 0 {
							b := decodeBit(&rng, &code, &buf, &probs[base+int(i)])
							i = (i << 1) | uint32(b)
							if b != 0 {
								distance |= mask
							}
							mask <<= 1
							numDirectBits--
						}
					} else {
						numDirectBits -= numAlignBits
						for numDirectBits != 0 {
							distance = (distance << 1) | decodeDirectBit(&rng, &code, &buf)
							numDirectBits--
						}

						distance <<= numAlignBits
						i := uint32(1)
						for bitIdx := uint32(0); bitIdx < numAlignBits; bitIdx++ {
							b := decodeBit(&rng, &code, &buf, &probs[probAlign+int(i)])
							i = (i << 1) | uint32(b)
							if b != 0 {
								distance |= 1 << bitIdx
							}
						}

						if distance == 0xFFFFFFFF {
							length += matchSpecLenStart
							state -= numStates
							break loop
						}
					}
				}

				rep3, rep2, rep1 = rep2, rep1, rep0
				rep0 = distance + 1

				if checkDicSize == 0 {
					if distance >= processedPos {
						return buf, newDecodeError(ErrKindData, "match distance exceeds produced output")
					}
				} else if distance >= checkDicSize {
					return buf, newDecodeError(ErrKindData, "match distance exceeds dictionary size")
				}

				if state < numStates+numLitStates {
					state = numLitStates
				} else {
					state = numLitStates + 3
				}
			}

			length += matchMinLen
			if length > maxMatchSize {
				return buf, newDecodeError(ErrKindData, "match length exceeds maximum")
			}
			if limit == diclPos {
				return buf, newDecodeError(ErrKindData, "match packet with no room to copy into")
			}

			rem := limit - diclPos
			curLen := length
			if rem < curLen {
				curLen = rem
			}

			var pos uint32
			if diclPos < rep0 {
				pos = diclPos - rep0 + diclLimit
			} else {
				pos = diclPos - rep0
			}

			processedPos += curLen
			length -= curLen

			if diclPos+curLen > d.dict.allocCapacity {
				d.dict.dicfPos = diclPos
				if err := d.dict.flushDiscardGrowDic(curLen); err != nil {
					return buf, err
				}
				pos += d.dict.dicfPos - diclPos
				dicl = d.dict.dicf
				diclLimit = d.dict.dicfLimit
				diclPos = d.dict.dicfPos
			}

			if pos+curLen <= diclLimit {
				if rep0 >= curLen {
					copy(dicl[diclPos:diclPos+curLen], dicl[pos:pos+curLen])
					diclPos += curLen
				} else {
					// dist < len: forward byte copy replicates the run,
					// which memmove semantics would not.
					for n := curLen; n > 0; n-- {
						dicl[diclPos] = dicl[pos]
						diclPos++
						pos++
					}
				}
			} else {
				for curLen > 0 {
					dicl[diclPos] = dicl[pos]
					diclPos++
					pos++
					if pos == diclLimit {
						pos = 0
					}
					curLen--
				}
			}
		}

		if !(diclPos < limit && total-len(buf) < startLimit) {
			break
		}
	}

	if len(buf) > 0 {
		normalize(&rng, &code, &buf)
	}

	d.rng, d.code = rng, code
	d.remainLen = length
	d.dict.dicfPos = diclPos
	d.processedPos = processedPos
	d.reps[0], d.reps[1], d.reps[2], d.reps[3] = rep0, rep1, rep2, rep3
	d.state = state
	return buf, nil
}

// decodeLenTree walks one length sub-coder's bit tree (low/mid/high), shared
// by the LenCoder and RepLenCoder regions.
func decodeLenTree(rng, code *uint32, buf *[]byte, probs *[probsSize]uint16, base int, limitBits uint32) uint32 {
	length := uint32(1)
	for length < limitBits {
		length = (length << 1) | uint32(decodeBit(rng, code, buf, &probs[base+int(length)-1]))
	}
	return length - limitBits
}

// writeRem flushes a pending match copy left over from a decodeReal call
// that stopped mid-match because diclPos reached its limit, mirroring
// LzmaDec_WriteRem.
func (d *Decoder) writeRem(limit uint32) error {
	if d.remainLen == 0 || d.remainLen >= matchSpecLenStart {
		return nil
	}

	diclPos := d.dict.dicfPos
	length := d.remainLen
	rep0 := d.reps[0]

	if limit-diclPos < length {
		length = limit - diclPos
	}

	if diclPos+length > d.dict.allocCapacity {
		if err := d.dict.flushDiscardGrowDic(length); err != nil {
			return err
		}
		diclPos = d.dict.dicfPos
	}

	if d.checkDicSize == 0 && d.dicSizeMinus(d.processedPos) <= length {
		d.checkDicSize = d.dict.dicSize
	}

	d.processedPos += length
	d.remainLen -= length

	dicl := d.dict.dicf
	diclLimit := d.dict.dicfLimit
	for length != 0 {
		length--
		if diclPos < rep0 {
			dicl[diclPos] = dicl[diclPos-rep0+diclLimit]
		} else {
			dicl[diclPos] = dicl[diclPos-rep0]
		}
		diclPos++
	}

	d.dict.dicfPos = diclPos
	return nil
}

func (d *Decoder) dicSizeMinus(processedPos uint32) uint32 {
	return d.dict.dicSize - processedPos
}

// decodeReal2 is decodeReal plus the bookkeeping that caps each call at the
// point checkDicSize would need to change, mirroring LzmaDec_DecodeReal2.
func (d *Decoder) decodeReal2(limit uint32, buf []byte, startLimit int) ([]byte, error) {
	for {
		limit2 := limit
		if d.checkDicSize == 0 {
			rem := d.dict.dicSize - d.processedPos
			if limit-d.dict.dicfPos > rem {
				limit2 = d.dict.dicfPos + rem
			}
		}

		before := len(buf)
		var err error
		buf, err = d.decodeReal(limit2, buf, startLimit)
		startLimit -= before - len(buf)
		if err != nil {
			return buf, err
		}

		if d.processedPos >= d.dict.dicSize {
			d.checkDicSize = d.dict.dicSize
		}

		if err := d.writeRem(limit); err != nil {
			return buf, err
		}

		if !(d.dict.dicfPos < limit && startLimit > 0 && d.remainLen < matchSpecLenStart) {
			break
		}
	}

	if d.remainLen > matchSpecLenStart {
		d.remainLen = matchSpecLenStart
	}
	return buf, nil
}
