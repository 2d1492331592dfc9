// Copyright 2025 Jonathan Amsterdam. All rights reserved.
// Use of this source code is governed by a
// license that can be found in the LICENSE file.

package huff

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/pkg/errors"
)

// Stats describes one run of [Compress] or [Decompress].
type Stats struct {
	InputBytes   int64  // bytes consumed
	OutputBytes  int64  // bytes produced
	Symbols      uint64 // symbols in the text; set by Compress only
	Distinct     int    // distinct symbols
	HeaderBytes  int    // serialized tree, without its size prefix
	PayloadBytes int    // encoded data including the count byte, without its size prefix

	// Table is the frequency table built by Compress; nil after Decompress.
	Table *FrequencyTable
	// Code is the code used, or nil if the text was empty.
	Code *Code
}

// Ratio returns OutputBytes / InputBytes, or 0 if there was no input.
func (s *Stats) Ratio() float64 {
	if s.InputBytes == 0 {
		return 0
	}
	return float64(s.OutputBytes) / float64(s.InputBytes)
}

// emptyPayload encodes zero symbols: no data bytes, and a count byte saying
// the (absent) last byte is full.
var emptyPayload = []byte{8}

// Compress reads UTF-8 text from r twice, once to count its symbols and again,
// after seeking back to the start, to encode it. It writes to w:
//
//	[4 bytes]           header size, big-endian
//	[header size bytes] serialized tree (see [MarshalTree])
//	[4 bytes]           payload size, big-endian
//	[payload size]      encoded data followed by the count byte (see [Encoder])
//
// Empty text has a zero-length header and the one-byte payload {8}.
func Compress(r io.ReadSeeker, w io.Writer) (*Stats, error) {
	ft := NewFrequencyTable()
	if err := ft.Count(r); err != nil {
		return nil, err
	}
	size, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, ioError("seek", err)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, ioError("seek", err)
	}
	st := &Stats{InputBytes: size, Symbols: ft.Total(), Distinct: ft.Len(), Table: ft}

	var header, payload []byte
	if ft.Len() == 0 {
		payload = emptyPayload
	} else {
		root, err := BuildTree(ft)
		if err != nil {
			return nil, err
		}
		if header, err = MarshalTree(root); err != nil {
			return nil, err
		}
		if st.Code, err = NewCode(root); err != nil {
			return nil, err
		}
		if payload, err = EncodeData(st.Code, r); err != nil {
			return nil, err
		}
	}
	st.HeaderBytes = len(header)
	st.PayloadBytes = len(payload)
	for _, b := range [][]byte{header, payload} {
		n, err := writeBlock(w, b)
		st.OutputBytes += n
		if err != nil {
			return st, err
		}
	}
	return st, nil
}

// Decompress reads data written by [Compress] from r and writes the text to w.
func Decompress(r io.Reader, w io.Writer) (*Stats, error) {
	st := &Stats{}
	header, err := readBlock(r, "tree header")
	if err != nil {
		return nil, err
	}
	st.HeaderBytes = len(header)
	var root *Node
	if len(header) > 0 {
		if root, err = UnmarshalTree(header); err != nil {
			return nil, err
		}
		if st.Code, err = NewCode(root); err != nil {
			return nil, err
		}
		st.Distinct = st.Code.Len()
	}
	payload, err := readBlock(r, "payload")
	if err != nil {
		return nil, err
	}
	st.PayloadBytes = len(payload)
	st.InputBytes = int64(8 + len(header) + len(payload))
	if root == nil {
		if len(payload) != 1 || (payload[0] != 0 && payload[0] != 8) {
			return nil, formatErrorf("%d-byte payload has no tree", len(payload))
		}
		return st, nil
	}
	d, err := st.Code.NewDecoder(payload)
	if err != nil {
		return nil, err
	}
	st.OutputBytes, err = d.WriteTo(w)
	if err != nil {
		return st, err
	}
	return st, nil
}

// writeBlock writes data preceded by its length as a 4-byte big-endian number.
func writeBlock(w io.Writer, data []byte) (int64, error) {
	if uint64(len(data)) > math.MaxUint32 {
		return 0, errors.Errorf("huff: block of %d bytes is too large", len(data))
	}
	var prefix [4]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(len(data)))
	n, err := w.Write(prefix[:])
	if err != nil {
		return int64(n), ioError("write", err)
	}
	m, err := w.Write(data)
	if err != nil {
		return int64(n + m), ioError("write", err)
	}
	return int64(n + m), nil
}

// readBlock reads a block written by writeBlock.
// A short read is a format error; what names the block in error messages.
func readBlock(r io.Reader, what string) ([]byte, error) {
	var prefix [4]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, formatErrorf("%s size truncated", what)
		}
		return nil, ioError("read", err)
	}
	size := binary.BigEndian.Uint32(prefix[:])
	// Read incrementally rather than trusting size for the allocation.
	data, err := io.ReadAll(io.LimitReader(r, int64(size)))
	if err != nil {
		return nil, ioError("read", err)
	}
	if len(data) < int(size) {
		return nil, formatErrorf("%s truncated: got %d of %d bytes", what, len(data), size)
	}
	return data, nil
}
