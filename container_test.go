package unxz

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// buildXzFrame assembles a minimal single-block xz container around a raw
// LZMA2 chunk stream: no-checksum stream flags, a 12-byte block header with
// dicSizeProp 0 (4 KiB), block padding, one placeholder checksum byte, and
// the index indicator. CRC fields are zero since the decoder skips them.
func buildXzFrame(lzma2 []byte) []byte {
	var out bytes.Buffer
	out.Write([]byte{0xFD, '7', 'z', 'X', 'Z', 0x00})
	out.Write([]byte{0x00, 0x00})             // stream flags: no checksum
	out.Write([]byte{0x00, 0x00, 0x00, 0x00}) // header CRC32, unchecked
	out.WriteByte(0x02)                       // block header size: 12 bytes
	out.WriteByte(0x00)                       // block flags
	out.Write([]byte{filterIDLZMA2, 0x01, 0x00})
	out.Write([]byte{0x00, 0x00, 0x00})       // header padding
	out.Write([]byte{0x00, 0x00, 0x00, 0x00}) // header CRC32, unchecked
	out.Write(lzma2)
	pad := (-len(lzma2)) % 4
	if pad < 0 {
		pad += 4
	}
	out.Write(make([]byte, pad))
	out.WriteByte(0x00)           // block checksum placeholder
	out.Write(make([]byte, 0x20)) // index indicator + slack for preread
	return out.Bytes()
}

// uncompressedChunk encodes one LZMA2 uncompressed chunk; reset selects the
// dictionary-reset control byte (0x01) over the plain one (0x02).
func uncompressedChunk(payload []byte, reset bool) []byte {
	ctrl := byte(0x02)
	if reset {
		ctrl = 0x01
	}
	chunk := []byte{ctrl, 0x00, 0x00}
	binary.BigEndian.PutUint16(chunk[1:], uint16(len(payload)-1))
	return append(chunk, payload...)
}

func requireKind(t *testing.T, err error, kind ErrorKind) {
	t.Helper()
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	require.Equal(t, kind, decodeErr.Kind, "got %v", err)
}

func TestXz_UncompressedChunks(t *testing.T) {
	// 21 KiB of patterned payload through 3 KiB uncompressed chunks with a
	// 4 KiB dictionary: the dictionary discards from its head several times
	// while chunks keep arriving.
	payload := make([]byte, 21504)
	for i := range payload {
		payload[i] = byte(33 + (i*131+i>>3)%94)
	}

	var lzma2 bytes.Buffer
	for i := 0; i < len(payload); i += 3072 {
		lzma2.Write(uncompressedChunk(payload[i:i+3072], i == 0))
	}
	lzma2.WriteByte(0x00)

	out, err := Decompress(buildXzFrame(lzma2.Bytes()), nil)
	require.NoError(t, err)
	require.True(t, bytes.Equal(out, payload))
}

func TestXz_UncompressedChunkWithoutDictReset(t *testing.T) {
	var lzma2 bytes.Buffer
	lzma2.Write(uncompressedChunk([]byte("no reset came first"), false))
	lzma2.WriteByte(0x00)

	_, err := Decompress(buildXzFrame(lzma2.Bytes()), nil)
	requireKind(t, err, ErrKindData)
}

func TestXz_BadChunkControlByte(t *testing.T) {
	for _, ctrl := range []byte{0x03, 0x40, 0x7F} {
		_, err := Decompress(buildXzFrame([]byte{ctrl, 0, 0, 0, 0, 0}), nil)
		requireKind(t, err, ErrKindBadChunkControlByte)
	}
}

func TestXz_CompressedChunkWithoutProps(t *testing.T) {
	// Control 0x80 (no state init, no props) as the first chunk: the driver
	// has no properties to decode with.
	_, err := Decompress(buildXzFrame([]byte{0x80, 0x00, 0x00, 0x00, 0x00, 0x00}), nil)
	requireKind(t, err, ErrKindMissingInitProp)
}

func TestXz_CompressedChunkWithoutDictReset(t *testing.T) {
	// Control 0xC0 carries props and a state reset but no dictionary reset,
	// which the first chunk of a block still needs.
	_, err := Decompress(buildXzFrame([]byte{0xC0, 0x00, 0x00, 0x00, 0x00, 0x5D, 0x00}), nil)
	requireKind(t, err, ErrKindData)
}

func TestXz_BadChecksumType(t *testing.T) {
	in := append([]byte(nil), emptyXzCRC64...)
	in[7] = 0x02
	_, err := Decompress(in, nil)
	requireKind(t, err, ErrKindBadChecksumType)
}

func TestXz_BlockHeaderRejections(t *testing.T) {
	mutate := func(f func(frame []byte)) []byte {
		frame := buildXzFrame([]byte{0x00})
		f(frame)
		return frame
	}
	// Offsets into the block header built by buildXzFrame: size byte at 12,
	// flags at 13, filter ID at 14, props size at 15, dicSizeProp at 16,
	// padding at 17..19.
	for _, tc := range []struct {
		name string
		in   []byte
		kind ErrorKind
	}{
		{"filter count", mutate(func(f []byte) { f[13] = 0x02 }), ErrKindUnsupportedFilterCount},
		{"reserved flags", mutate(func(f []byte) { f[13] = 0x10 }), ErrKindBadBlockFlags},
		{"filter id", mutate(func(f []byte) { f[14] = 0x22 }), ErrKindUnsupportedFilterID},
		{"props size", mutate(func(f []byte) { f[15] = 0x02 }), ErrKindUnsupportedFilterPropertiesSize},
		{"dictionary size", mutate(func(f []byte) { f[16] = 38 }), ErrKindUnsupportedDictionarySize},
		{"header padding", mutate(func(f []byte) { f[18] = 0x01 }), ErrKindBadPadding},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decompress(tc.in, nil)
			requireKind(t, err, tc.kind)
		})
	}
}

func TestXz_NonZeroBlockPadding(t *testing.T) {
	frame := buildXzFrame([]byte{0x00})
	// The single terminator byte leaves three bytes of block padding right
	// after it; corrupt the first one.
	frame[25] = 0xAA
	_, err := Decompress(frame, nil)
	requireKind(t, err, ErrKindBadPadding)
}

func lzmaHeader(prop byte, dicSize uint32, size uint64) []byte {
	hdr := make([]byte, 13, 48)
	hdr[0] = prop
	binary.LittleEndian.PutUint32(hdr[1:5], dicSize)
	binary.LittleEndian.PutUint64(hdr[5:13], size)
	// Pad past the 30-byte container sniff window.
	return append(hdr, make([]byte, 35)...)
}

func TestLzma_HeaderSanity(t *testing.T) {
	const unknown = 0xFFFFFFFFFFFFFFFF
	for _, tc := range []struct {
		name string
		in   []byte
		kind ErrorKind
	}{
		{"property byte out of range", lzmaHeader(225, 1 << 20, unknown), ErrKindBadMagic},
		{"reserved byte", func() []byte {
			h := lzmaHeader(0x5D, 1<<20, unknown)
			h[13] = 0x01
			return h
		}(), ErrKindBadMagic},
		{"size field garbage", lzmaHeader(0x5D, 1 << 20, 0x0102030400000000), ErrKindBadMagic},
		{"dictionary too small", lzmaHeader(0x5D, 100, unknown), ErrKindBadMagic},
		{"dictionary too large", lzmaHeader(0x5D, 1 << 31, unknown), ErrKindUnsupportedDictionarySize},
		{"lc+lp exceeds 4", lzmaHeader(119, 1 << 20, unknown), ErrKindBadLclppbProp},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decompress(tc.in, nil)
			requireKind(t, err, tc.kind)
		})
	}
}

func TestLzma_UnknownSizeStopsAtEndMarker(t *testing.T) {
	out, nRead, err := DecompressN(gtextUnknownLzma, nil)
	require.NoError(t, err)
	require.True(t, bytes.Equal(out, gtextPlain()))
	require.Equal(t, len(gtextUnknownLzma), nRead)
}

func TestLzma_KnownSizeStopsAtDeclaredLength(t *testing.T) {
	out, err := Decompress(gtextKnownLzma, nil)
	require.NoError(t, err)
	require.Len(t, out, 10450)
}

func TestDecodeError_CodeAndUnwrap(t *testing.T) {
	_, err := Decompress(gtextKnownLzma[:64], nil)

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	require.Equal(t, ErrKindInputEOF, decodeErr.Kind)
	require.Equal(t, 6, decodeErr.Code())
	require.ErrorIs(t, err, ErrTruncated)
}

func TestInitProp_Decomposition(t *testing.T) {
	var d Decoder
	require.NoError(t, d.initProp(0x5D))
	require.Equal(t, uint32(3), d.lc)
	require.Equal(t, uint32(0), d.lp)
	require.Equal(t, uint32(2), d.pb)

	require.NoError(t, d.initProp(0x3F))
	require.Equal(t, uint32(0), d.lc)
	require.Equal(t, uint32(2), d.lp)
	require.Equal(t, uint32(1), d.pb)

	requireKind(t, d.initProp(225), ErrKindBadLclppbProp)
	requireKind(t, d.initProp(119), ErrKindBadLclppbProp) // lc=2 lp=3
}

func TestProbabilityTableLayout(t *testing.T) {
	require.Equal(t, 192, probIsRep)
	require.Equal(t, 204, probIsRepG0)
	require.Equal(t, 216, probIsRepG1)
	require.Equal(t, 228, probIsRepG2)
	require.Equal(t, 240, probIsRep0Long)
	require.Equal(t, 432, probPosSlot)
	require.Equal(t, 688, probSpecPos)
	require.Equal(t, 802, probAlign)
	require.Equal(t, 818, probLenCoder)
	require.Equal(t, 1332, probRepLenCoder)
	require.Equal(t, 1846, probLiteral)
	require.Equal(t, 14134, probsSize)
}

func TestErrorSentinels(t *testing.T) {
	corrupt := &DecodeError{Kind: ErrKindData}
	require.ErrorIs(t, corrupt, ErrCorrupt)
	require.NotErrorIs(t, corrupt, ErrTruncated)

	truncated := &DecodeError{Kind: ErrKindInputEOF}
	require.ErrorIs(t, truncated, ErrTruncated)
	require.False(t, errors.Is(truncated, ErrCorrupt))
}
