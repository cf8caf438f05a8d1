// SPDX-License-Identifier: GPL-3.0-or-later
// Source: github.com/woozymasta/unxz

package unxz

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a decode failure. Each kind maps onto one of the
// SZ_ERROR_* codes the muxzcat-family C decoders exit with; a CLI can call
// (*DecodeError).Code to reproduce that convention without this package
// importing os.
type ErrorKind int

// Error kinds. NEEDS_MORE_INPUT* and FINISHED_WITH_MARK are
// internal signals between the LZMA2 driver and the packet decoder and are
// never returned from an exported function.
const (
	ErrKindBadMagic ErrorKind = iota + 1
	ErrKindBadChecksumType
	ErrKindUnsupportedFilterCount
	ErrKindBadBlockFlags
	ErrKindUnsupportedFilterID
	ErrKindUnsupportedFilterPropertiesSize
	ErrKindBadDictionarySize
	ErrKindUnsupportedDictionarySize
	ErrKindBadLclppbProp
	ErrKindBadChunkControlByte
	ErrKindMissingInitProp
	ErrKindBadPadding
	ErrKindBlockHeaderTooLong
	ErrKindBadDicPos
	ErrKindData
	ErrKindInputEOF
	ErrKindOverflow
	ErrKindChunkNotConsumed
	ErrKindNotFinished
)

var errKindText = map[ErrorKind]string{
	ErrKindBadMagic:                        "bad magic",
	ErrKindBadChecksumType:                 "bad checksum type",
	ErrKindUnsupportedFilterCount:          "unsupported filter count",
	ErrKindBadBlockFlags:                   "bad block flags",
	ErrKindUnsupportedFilterID:             "unsupported filter id",
	ErrKindUnsupportedFilterPropertiesSize: "unsupported filter properties size",
	ErrKindBadDictionarySize:               "bad dictionary size",
	ErrKindUnsupportedDictionarySize:       "unsupported dictionary size",
	ErrKindBadLclppbProp:                   "bad lc/lp/pb property byte",
	ErrKindBadChunkControlByte:             "bad lzma2 chunk control byte",
	ErrKindMissingInitProp:                 "chunk needs properties that were never set",
	ErrKindBadPadding:                      "non-zero padding byte",
	ErrKindBlockHeaderTooLong:              "block header size too short for its fields",
	ErrKindBadDicPos:                       "chunk did not produce its declared output length",
	ErrKindData:                            "corrupt or invalid compressed data",
	ErrKindInputEOF:                        "truncated input",
	ErrKindOverflow:                        "arithmetic overflow in size computation",
	ErrKindChunkNotConsumed:                "chunk produced its declared output before consuming all its input",
	ErrKindNotFinished:                     "packet left unfinished at a chunk boundary",
}

func (k ErrorKind) String() string {
	if s, ok := errKindText[k]; ok {
		return s
	}
	return fmt.Sprintf("unknown error kind %d", int(k))
}

// Code returns the SZ_ERROR_*-style numeric code for this kind, for a CLI
// collaborator's process exit status.
func (k ErrorKind) Code() int {
	switch k {
	case ErrKindData:
		return 1
	case ErrKindInputEOF:
		return 6
	case ErrKindBadMagic:
		return 51
	case ErrKindBadChecksumType:
		return 60
	case ErrKindUnsupportedFilterCount:
		return 53
	case ErrKindBadBlockFlags:
		return 54
	case ErrKindUnsupportedFilterID:
		return 55
	case ErrKindUnsupportedFilterPropertiesSize:
		return 56
	case ErrKindBadPadding:
		return 57
	case ErrKindBlockHeaderTooLong:
		return 58
	case ErrKindBadChunkControlByte:
		return 59
	case ErrKindBadDictionarySize:
		return 61
	case ErrKindUnsupportedDictionarySize:
		return 62
	case ErrKindBadDicPos:
		return 65
	case ErrKindMissingInitProp:
		return 67
	case ErrKindBadLclppbProp:
		return 68
	case ErrKindOverflow:
		return 2
	case ErrKindNotFinished:
		return 16
	case ErrKindChunkNotConsumed:
		return 18
	default:
		return 1
	}
}

// DecodeError reports a decode failure with its classifying Kind. Use
// errors.As to recover it, or errors.Is against the Err* sentinels below for
// the common cases.
type DecodeError struct {
	Kind ErrorKind
	Msg  string
	err  error // wrapped cause, may be nil
}

func (e *DecodeError) Error() string {
	if e.Msg == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *DecodeError) Unwrap() error { return e.err }

// Code returns the SZ_ERROR_*-style numeric code for this error's Kind.
func (e *DecodeError) Code() int { return e.Kind.Code() }

func newDecodeError(kind ErrorKind, msg string) *DecodeError {
	return &DecodeError{Kind: kind, Msg: msg}
}

func wrapDecodeError(kind ErrorKind, msg string, cause error) *DecodeError {
	return &DecodeError{Kind: kind, Msg: msg, err: cause}
}

// Sentinel errors for the top-level API: callers that only care about "was
// it truncated input" or "was it garbage" can match with errors.Is without
// a type switch on ErrorKind.
var (
	// ErrEmptyInput is returned by Decompress and DecompressN when the input
	// slice is empty; DecompressStream reports an empty stream as an
	// ErrKindInputEOF DecodeError.
	ErrEmptyInput = errors.New("empty input")
	// ErrOutputTooLarge is returned when Options.MaxOutputSize is exceeded.
	ErrOutputTooLarge = errors.New("decompressed output exceeds MaxOutputSize")
	// ErrTruncated wraps ErrKindInputEOF; matches errors.Is(err, ErrTruncated).
	ErrTruncated = errors.New("truncated input")
	// ErrCorrupt wraps ErrKindData; matches errors.Is(err, ErrCorrupt).
	ErrCorrupt = errors.New("corrupt stream")

	// ErrNeedsMoreInput and ErrNeedsMoreInputPartial are internal signals
	// passed between decodeToDic and the LZMA2/lzma-alone drivers in this
	// package; an exported call never returns either one directly. A
	// persistent ErrNeedsMoreInput at true end-of-stream is surfaced to
	// callers as an ErrKindInputEOF DecodeError instead.
	ErrNeedsMoreInput        = errors.New("needs more input")
	ErrNeedsMoreInputPartial = errors.New("needs more input (partially consumed)")
)

// Is lets errors.Is(decodeErr, ErrTruncated) and errors.Is(decodeErr,
// ErrCorrupt) succeed without every call site needing to know about Kind.
func (e *DecodeError) Is(target error) bool {
	switch target {
	case ErrTruncated:
		return e.Kind == ErrKindInputEOF
	case ErrCorrupt:
		return e.Kind == ErrKindData
	default:
		return false
	}
}
