// SPDX-License-Identifier: GPL-3.0-or-later
// Source: github.com/woozymasta/unxz

package unxz

// LZMA/LZMA2/xz format constants: range-coder geometry, probability-model
// sizes and offsets, and container limits.

const (
	numTopBits        = 24
	topValue          = 1 << numTopBits
	numBitModelBits   = 11
	bitModelTotal     = 1 << numBitModelBits
	numMoveBits       = 5
	rcInitSize        = 5
	numPosBitsMax     = 4
	numPosStatesMax   = 1 << numPosBitsMax
	lenNumLowBits     = 3
	lenNumLowSymbols  = 1 << lenNumLowBits
	lenNumMidBits     = 3
	lenNumMidSymbols  = 1 << lenNumMidBits
	lenNumHighBits    = 8
	lenNumHighSymbols = 1 << lenNumHighBits
	numLenProbs       = 2 + numPosStatesMax<<lenNumLowBits + numPosStatesMax<<lenNumMidBits + lenNumHighSymbols

	numStates            = 12
	numLitStates         = 7
	startPosModelIndex   = 4
	endPosModelIndex     = 14
	numFullDistances     = 1 << (endPosModelIndex >> 1)
	numPosSlotBits       = 6
	numLenToPosStates    = 4
	numAlignBits         = 4
	alignTableSize       = 1 << numAlignBits
	matchMinLen          = 2
	matchSpecLenStart    = matchMinLen + lenNumLowSymbols + lenNumMidSymbols + lenNumHighSymbols
	lzmaRequiredInputMax = 20
	lzmaLitSize          = 768
	lzma2LcLpMax         = 4

	maxDicSize     = 1_610_612_736 // 1.5 GiB
	maxDicSizeProp = 37
	maxMatchSize   = 273
	maxDicfSize    = maxDicSize + maxMatchSize
	lzmaDicMin     = 1 << 12

	filterIDLZMA2 = 0x21

	sizeofReadBuf = 65548 // 65536 + 12, one max-size chunk plus header slack
)

// Probability-table region offsets. Each region is indexed by
// (state, posState) or by a distance/length sub-coder context; offsets are
// computed once here and never recomputed at runtime.
const (
	probIsMatch     = 0
	probIsRep       = probIsMatch + numStates<<numPosBitsMax
	probIsRepG0     = probIsRep + numStates
	probIsRepG1     = probIsRepG0 + numStates
	probIsRepG2     = probIsRepG1 + numStates
	probIsRep0Long  = probIsRepG2 + numStates
	probPosSlot     = probIsRep0Long + numStates<<numPosBitsMax
	probSpecPos     = probPosSlot + numLenToPosStates<<numPosSlotBits
	probAlign       = probSpecPos + numFullDistances - endPosModelIndex
	probLenCoder    = probAlign + alignTableSize
	probRepLenCoder = probLenCoder + numLenProbs
	probLiteral     = probRepLenCoder + numLenProbs

	lzmaBaseSize = probLiteral // 1846, the LZMA SDK's LZMA_BASE_SIZE
	probsSize    = probLiteral + lzmaLitSize<<lzma2LcLpMax
)

// Length sub-coder sub-offsets, relative to a LenCoder/RepLenCoder base.
const (
	lenChoice  = 0
	lenChoice2 = lenChoice + 1
	lenLow     = lenChoice2 + 1
	lenMid     = lenLow + numPosStatesMax<<lenNumLowBits
	lenHigh    = lenMid + numPosStatesMax<<lenNumMidBits
)

// dummyResult is the outcome of tryDummy's read-only pre-decode.
type dummyResult int

const (
	dummyError dummyResult = iota
	dummyLit
	dummyMatch
	dummyRep
)
