// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/unxz

/*
Package unxz implements a single-stream, forward-only decompressor for the
.xz container (restricted to a single LZMA2 filter, no BCJ or other filter
chain) and for the raw .lzma container.

It decodes the first stream of an .xz file and ignores the index that
follows; for .lzma it decodes the single stream present. CRC-32 and CRC-64
checksums are not verified — they are skipped over as opaque bytes.
Encoding, multi-stream .xz concatenation, and filter chains other than
LZMA2 are not supported.

# Decompress

From a byte slice, with Options bounding how much output the caller is
willing to allocate:

	out, err := unxz.Decompress(compressed, nil)

DecompressN additionally reports how many input bytes were consumed, for
callers that keep reading after the stream (e.g. a concatenated sibling
stream, or simply the .xz index this package ignores):

	out, nRead, err := unxz.DecompressN(compressed, nil)
	// advance: compressed = compressed[nRead:]

From an io.Reader, writing straight to an io.Writer without buffering the
whole input in memory:

	n, err := unxz.DecompressStream(dst, src, nil)
*/
package unxz
