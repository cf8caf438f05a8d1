// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/unxz

package unxz

import (
	"bytes"
	"io"
)

// Decoder holds the full mutable state of one single-stream decompression:
// the LZMA property triple, the range
// coder's registers, the probability table, the dictionary/lookback buffer,
// and the read-ahead window over the input. A Decoder is single-flow and
// owned by exactly one goroutine at a time; use a *Decoder from
// the package-level pool (decoderPool) rather than sharing one.
type Decoder struct {
	lc, lp, pb uint32

	rng, code uint32

	processedPos uint32
	checkDicSize uint32
	state        uint32
	reps         [4]uint32
	remainLen    uint32

	probs [probsSize]uint16

	tempBuf     [lzmaRequiredInputMax]byte
	tempBufSize int

	needFlush     bool
	needInitLzma  bool
	needInitDic   bool
	needInitState bool
	needInitProp  bool

	dict dictionary
	rb   readBuf
}

func newDecoder() *Decoder { return &Decoder{} }

// reset clears all decoder state while retaining the dictionary's backing
// array, so the next decode reuses its capacity instead of reallocating.
func (d *Decoder) reset() {
	keptDicf := d.dict.dicf
	keptCapacity := d.dict.allocCapacity
	*d = Decoder{}
	d.dict.dicf = keptDicf
	d.dict.allocCapacity = keptCapacity
}

// Decompress decompresses a single .xz or .lzma stream held entirely in
// memory and returns the reconstructed plaintext.
func Decompress(src []byte, opts *Options) ([]byte, error) {
	out, _, err := DecompressN(src, opts)
	return out, err
}

// DecompressN behaves like Decompress but also reports how many bytes of
// src were consumed, so a caller holding multiple concatenated payloads
// (e.g. the xz index this package ignores, or a sibling stream) can advance
// past exactly the bytes this stream occupied.
func DecompressN(src []byte, opts *Options) ([]byte, int, error) {
	if len(src) == 0 {
		return nil, 0, ErrEmptyInput
	}

	o := opts.orDefault()
	var buf bytes.Buffer
	buf.Grow(o.initialBufferSize())

	r := bytes.NewReader(src)
	dec := acquireDecoder()
	defer releaseDecoder(dec)

	if err := dec.decompressXzOrLzma(r, &buf, o); err != nil {
		return nil, 0, err
	}

	consumed := int(dec.rb.consumed())
	return buf.Bytes(), consumed, nil
}

// DecompressStream decompresses a single .xz or .lzma stream read from src,
// writing the reconstructed plaintext to dst as it is produced (no need to
// hold the whole output in memory). It returns the number of bytes written.
func DecompressStream(dst io.Writer, src io.Reader, opts *Options) (int64, error) {
	o := opts.orDefault()
	dec := acquireDecoder()
	defer releaseDecoder(dec)

	counting := &countingWriter{w: dst}
	if err := dec.decompressXzOrLzma(src, counting, o); err != nil {
		return counting.n, err
	}
	return counting.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
