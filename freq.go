// Copyright 2025 Jonathan Amsterdam. All rights reserved.
// Use of this source code is governed by a
// license that can be found in the LICENSE file.

package huff

import (
	"io"
	"maps"
	"slices"
	"unicode/utf8"
)

// A Symbol is a Unicode scalar value, the unit of compression.
type Symbol = rune

// ChunkSize is the size of the reads made by [FrequencyTable.Count] and [EncodeData].
const ChunkSize = 1024

// A FrequencyTable counts the symbols of a UTF-8 byte stream.
// The stream may be delivered in chunks of any size; a symbol whose
// encoding is split across chunks is counted once, when it is complete.
type FrequencyTable struct {
	counts map[Symbol]uint64
	total  uint64
	split  runeSplitter
}

func NewFrequencyTable() *FrequencyTable {
	return &FrequencyTable{counts: map[Symbol]uint64{}}
}

// Update counts the complete symbols in chunk, holding back a trailing
// incomplete sequence until the next call.
// It fails with [ErrEncoding] if the stream is not valid UTF-8.
func (ft *FrequencyTable) Update(chunk []byte) error {
	return ft.split.split(chunk, func(s Symbol) error {
		ft.counts[s]++
		ft.total++
		return nil
	})
}

// Write implements [io.Writer] by calling [FrequencyTable.Update].
func (ft *FrequencyTable) Write(p []byte) (int, error) {
	if err := ft.Update(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close marks the end of the stream.
// It is an error if the stream ended in the middle of a symbol.
func (ft *FrequencyTable) Close() error {
	return ft.split.close()
}

// Count reads r in chunks of [ChunkSize] bytes until EOF, updating the table,
// and then closes it.
func (ft *FrequencyTable) Count(r io.Reader) error {
	buf := make([]byte, ChunkSize)
	if err := readChunks(r, buf, ft.Update); err != nil {
		return err
	}
	return ft.Close()
}

// Freq returns the number of times s has been seen.
func (ft *FrequencyTable) Freq(s Symbol) uint64 { return ft.counts[s] }

// Len returns the number of distinct symbols.
func (ft *FrequencyTable) Len() int { return len(ft.counts) }

// Total returns the number of symbols counted.
func (ft *FrequencyTable) Total() uint64 { return ft.total }

// Symbols returns the distinct symbols in increasing order.
func (ft *FrequencyTable) Symbols() []Symbol {
	return slices.Sorted(maps.Keys(ft.counts))
}

// Code builds a [Code] from the table's counts.
func (ft *FrequencyTable) Code() (*Code, error) {
	root, err := BuildTree(ft)
	if err != nil {
		return nil, err
	}
	return NewCode(root)
}

// readChunks calls f on each chunk read from r into buf, until EOF.
func readChunks(r io.Reader, buf []byte, f func([]byte) error) error {
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if ferr := f(buf[:n]); ferr != nil {
				return ferr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return ioError("read", err)
		}
	}
}

// A runeSplitter decodes a chunked UTF-8 stream into symbols.
// Between calls, carry holds a strict prefix of a valid encoding: at most
// utf8.UTFMax-1 bytes.
type runeSplitter struct {
	carry  [utf8.UTFMax]byte
	ncarry int
	offset int64 // stream offset of carry[0], for error messages
}

func (rs *runeSplitter) split(chunk []byte, f func(Symbol) error) error {
	if rs.ncarry > 0 {
		// Complete the carried symbol using bytes from the front of chunk.
		need := min(utf8.UTFMax-rs.ncarry, len(chunk))
		n := rs.ncarry
		copy(rs.carry[n:], chunk[:need])
		r, size := utf8.DecodeRune(rs.carry[:n+need])
		switch {
		case r == utf8.RuneError && size <= 1 && !utf8.FullRune(rs.carry[:n+need]):
			// Still incomplete; chunk was too short to finish it.
			rs.ncarry += need
			return nil
		case r == utf8.RuneError && size <= 1:
			return encodingErrorf("invalid UTF-8 at offset %d", rs.offset)
		}
		if err := f(r); err != nil {
			return err
		}
		rs.ncarry = 0
		rs.offset += int64(size)
		chunk = chunk[size-n:]
	}
	for len(chunk) > 0 {
		r, size := utf8.DecodeRune(chunk)
		if r == utf8.RuneError && size <= 1 {
			if !utf8.FullRune(chunk) {
				rs.ncarry = copy(rs.carry[:], chunk)
				return nil
			}
			return encodingErrorf("invalid UTF-8 at offset %d", rs.offset)
		}
		if err := f(r); err != nil {
			return err
		}
		chunk = chunk[size:]
		rs.offset += int64(size)
	}
	return nil
}

func (rs *runeSplitter) close() error {
	if rs.ncarry > 0 {
		return encodingErrorf("stream ends with an incomplete UTF-8 sequence at offset %d", rs.offset)
	}
	return nil
}
