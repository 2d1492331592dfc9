// Copyright 2025 Jonathan Amsterdam. All rights reserved.
// Use of this source code is governed by a
// license that can be found in the LICENSE file.

package huff

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/icza/bitio"
	"github.com/pkg/errors"
)

// The bitWriter's accumulator is adapted from the standard library's compress/flate package,
// but bits are packed most-significant first.

// A bitWriter can write up to 64 bits at a time.
// Full bytes are flushed to its contained [io.Writer].
// Write errors are stored and reported by [bitWriter.Close]
// or [bitWriter.Err].
// If the bitWriter is flushed on a non-byte boundary, the pending bits
// are moved to the top of the last byte and the low-order bits are zero.
type bitWriter struct {
	err error
	w   io.Writer
	// bits is a buffer of unwritten bits.
	// Only the low-order nbits bits are valid; the oldest bit is the highest of those.
	bits  uint64
	nbits int // number of bits in bits; always < 32 between calls
}

func newBitWriter(w io.Writer) *bitWriter {
	return &bitWriter{w: w}
}

// writeBit writes a single bit, which must be 0 or 1.
func (w *bitWriter) writeBit(b uint8) error {
	if b > 1 {
		return errors.Errorf("huff: invalid bit value %d", b)
	}
	w.writeBits(uint64(b), 1)
	return nil
}

// writeBits writes the n low-order bits of b, most significant first.
// n must be between 0 and 64.
func (w *bitWriter) writeBits(b uint64, n int) {
	if w.err != nil {
		return
	}
	if n > 32 {
		w.writeBits(b>>32, n-32)
		n = 32
	}
	w.bits = w.bits<<n | lowOrderBits(b, n) // w.bits = w.bits concat b
	w.nbits += n
	if w.nbits >= 32 { // write out the oldest 32 bits
		w.nbits -= 32
		var buf [4]byte
		binary.BigEndian.PutUint32(buf[:], uint32(w.bits>>w.nbits))
		w.bits = lowOrderBits(w.bits, w.nbits)
		w.write(buf[:])
	}
}

// pending returns the number of bits in the last, incomplete byte.
func (w *bitWriter) pending() int {
	return w.nbits % 8
}

func (w *bitWriter) Close() error {
	w.flush()
	return w.err
}

func (w *bitWriter) flush() {
	var buf [4]byte
	var i int
	for w.nbits >= 8 {
		w.nbits -= 8
		buf[i] = byte(w.bits >> w.nbits)
		i++
	}
	if w.nbits > 0 {
		buf[i] = byte(w.bits << (8 - w.nbits))
		i++
		w.nbits = 0
	}
	w.bits = 0
	if i > 0 {
		w.write(buf[:i])
	}
}

func (w *bitWriter) write(buf []byte) {
	if w.err != nil {
		return
	}
	if _, err := w.w.Write(buf); err != nil {
		w.err = ioError("write", err)
	}
}

func (w *bitWriter) Err() error {
	return w.err
}

// A bitReader reads the first n bits of a byte slice, most significant bit of each byte first.
// Reading past the end is [io.ErrUnexpectedEOF].
type bitReader struct {
	r   *bitio.Reader
	n   int // number of readable bits
	pos int // number of bits consumed
}

func newBitReader(data []byte, n int) *bitReader {
	n = min(n, len(data)*8)
	return &bitReader{r: bitio.NewReader(bytes.NewReader(data)), n: n}
}

// next returns the next bit, or false if there are none left.
func (r *bitReader) next() (uint8, bool) {
	b, err := r.readBit()
	return b, err == nil
}

func (r *bitReader) readBit() (uint8, error) {
	if r.pos >= r.n {
		return 0, io.ErrUnexpectedEOF
	}
	b, err := r.r.ReadBool()
	if err != nil {
		return 0, errors.WithStack(err)
	}
	r.pos++
	if b {
		return 1, nil
	}
	return 0, nil
}

// readUint reads n bits, up to 64, as a big-endian unsigned integer.
func (r *bitReader) readUint(n int) (uint64, error) {
	if n < 0 || n > 64 {
		panic("bad number of bits to read")
	}
	if n > r.remaining() {
		return 0, io.ErrUnexpectedEOF
	}
	if n == 0 {
		return 0, nil
	}
	u, err := r.r.ReadBits(uint8(n))
	if err != nil {
		return 0, errors.WithStack(err)
	}
	r.pos += n
	return u, nil
}

// readBits reads n bits and packs them into bytes the way a bitWriter would:
// most significant first, with the last byte zero-filled on the low side.
// Nothing is consumed if fewer than n bits remain.
func (r *bitReader) readBits(n int) ([]byte, error) {
	if n > r.remaining() {
		return nil, io.ErrUnexpectedEOF
	}
	out := make([]byte, 0, (n+7)/8)
	for n >= 8 {
		u, err := r.readUint(8)
		if err != nil {
			return nil, err
		}
		out = append(out, byte(u))
		n -= 8
	}
	if n > 0 {
		u, err := r.readUint(n)
		if err != nil {
			return nil, err
		}
		out = append(out, byte(u<<(8-n)))
	}
	return out, nil
}

func (r *bitReader) remaining() int { return r.n - r.pos }

// bytePos returns the index of the byte holding the next bit.
func (r *bitReader) bytePos() int { return r.pos / 8 }

// bitOffset returns the position of the next bit within its byte, 0 being the most significant.
func (r *bitReader) bitOffset() int { return r.pos % 8 }

// lowOrderBits returns the n low-order bits of u.
func lowOrderBits[T uint8 | uint16 | uint32 | uint64](u T, n int) T {
	return u & ((T(1) << n) - 1)
}
