// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/unxz

package unxz

// Options configures decompression. An xz/lzma stream does not reliably
// declare its total uncompressed size (the xz block header's
// uncompressed-size field is optional and typically absent), so Options
// bounds output instead of pre-sizing it.
type Options struct {
	// MaxOutputSize caps the number of decompressed bytes this package will
	// produce before returning ErrOutputTooLarge. Zero means unlimited.
	MaxOutputSize int64
	// InitialBufferSize is a size hint for the output buffer Decompress
	// allocates up front, to reduce reallocation for large known payloads.
	// Zero picks a small default.
	InitialBufferSize int
}

// DefaultOptions returns Options with no output bound and a small initial
// buffer. Safe for untrusted input only when the caller enforces its own
// resource limits (e.g. wrapping the source reader in an io.LimitReader).
func DefaultOptions() *Options {
	return &Options{}
}

func (o *Options) orDefault() *Options {
	if o == nil {
		return DefaultOptions()
	}
	return o
}

func (o *Options) initialBufferSize() int {
	if o.InitialBufferSize > 0 {
		return o.InitialBufferSize
	}
	return 64 * 1024
}
