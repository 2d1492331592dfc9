// Copyright 2025 Jonathan Amsterdam. All rights reserved.
// Use of this source code is governed by a
// license that can be found in the LICENSE file.

package huff

import (
	"bytes"
	"io"
)

// An Encoder encodes UTF-8 text with a [Code].
//
// The text may be written in chunks of any size. After the last code,
// Close pads the final byte with zero bits and writes one more byte
// holding the number of meaningful bits in the final data byte, from 1 to 8.
type Encoder struct {
	c      *Code
	w      io.Writer
	bw     *bitWriter
	split  runeSplitter
	err    error
	closed bool
}

// NewEncoder returns an Encoder that writes encoded data to w.
func (c *Code) NewEncoder(w io.Writer) *Encoder {
	return &Encoder{c: c, w: w, bw: newBitWriter(w)}
}

// Write encodes the complete symbols in p. A trailing incomplete UTF-8
// sequence is held until the next call to Write.
// Every symbol must be in the Encoder's Code.
func (e *Encoder) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	if e.closed {
		return 0, ioError("write", io.ErrClosedPipe)
	}
	e.err = e.split.split(p, e.addSymbol)
	if e.err == nil {
		e.err = e.bw.Err()
	}
	if e.err != nil {
		return 0, e.err
	}
	return len(p), nil
}

func (e *Encoder) addSymbol(s Symbol) error {
	b, ok := e.c.codes[s]
	if !ok {
		return encodingErrorf("symbol %q is not in the code", s)
	}
	e.bw.writeBits(b.val, int(b.len))
	return nil
}

// Close flushes the encoded bits and writes the trailing count byte.
// It is an error if the text ended in the middle of a UTF-8 sequence.
func (e *Encoder) Close() error {
	if e.err != nil || e.closed {
		return e.err
	}
	e.closed = true
	if e.err = e.split.close(); e.err != nil {
		return e.err
	}
	last := e.bw.pending()
	if last == 0 {
		last = 8
	}
	if e.err = e.bw.Close(); e.err != nil {
		return e.err
	}
	if _, err := e.w.Write([]byte{byte(last)}); err != nil {
		e.err = ioError("write", err)
	}
	return e.err
}

// Err returns the first error encountered by Write or Close, if any.
func (e *Encoder) Err() error { return e.err }

// EncodeData reads r to EOF in chunks of [ChunkSize] bytes and returns its
// encoding under c, including the trailing count byte.
func EncodeData(c *Code, r io.Reader) ([]byte, error) {
	var buf bytes.Buffer
	enc := c.NewEncoder(&buf)
	err := readChunks(r, make([]byte, ChunkSize), func(p []byte) error {
		_, err := enc.Write(p)
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
