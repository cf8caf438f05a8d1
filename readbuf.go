// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/unxz

package unxz

import "io"

// readBuf is the preread-on-demand byte window over the input source.
// Unread bytes live at buf[cur:end]; preread compacts that
// span to the front of buf only when there is not enough trailing room for
// the requested amount, then pulls from src until either r bytes are
// pending or src is exhausted.
type readBuf struct {
	src       io.Reader
	buf       [sizeofReadBuf]byte
	cur       int
	end       int
	totalRead int64 // bytes ever pulled from src, for consumed-input accounting
}

func (r *readBuf) init(src io.Reader) {
	r.src = src
	r.cur = 0
	r.end = 0
	r.totalRead = 0
}

// consumed reports how many bytes logically read from src have been
// advanced past (i.e. excludes bytes still pending in the window).
func (r *readBuf) consumed() int64 {
	return r.totalRead - int64(r.end-r.cur)
}

// pending returns the unread bytes currently buffered.
func (r *readBuf) pending() []byte { return r.buf[r.cur:r.end] }

// preread makes at least n bytes available at buf[cur:] if the source
// permits, returning the number actually available (less than n only at
// true EOF). Precondition: n <= len(buf).
func (r *readBuf) preread(n int) int {
	p := r.end - r.cur
	if p >= n {
		return p
	}

	if len(r.buf)-r.cur < n {
		copy(r.buf[:], r.buf[r.cur:r.end])
		r.end = p
		r.cur = 0
	}

	for p < n {
		m, err := r.src.Read(r.buf[r.end:])
		if m > 0 {
			r.end += m
			p += m
			r.totalRead += int64(m)
		}
		if err != nil {
			break
		}
		if m == 0 {
			break
		}
	}

	return p
}

// advance marks n bytes of the pending window as consumed.
func (r *readBuf) advance(n int) { r.cur += n }
