// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/unxz

package unxz

import "sync"

// decoderPool lets repeated Decompress/DecompressStream calls reuse the
// probability table and dictionary backing array instead of reallocating
// them.
var decoderPool = sync.Pool{
	New: func() any {
		return newDecoder()
	},
}

// acquireDecoder fetches a zeroed Decoder from the pool.
func acquireDecoder() *Decoder {
	dec := decoderPool.Get().(*Decoder)
	dec.reset()
	return dec
}

// releaseDecoder returns dec to the pool. The dictionary's backing array is
// kept so the next acquireDecoder can reuse its capacity; everything else is
// cleared by reset on the next acquire.
func releaseDecoder(dec *Decoder) {
	if dec == nil {
		return
	}

	dec.dict.out = nil
	decoderPool.Put(dec)
}
