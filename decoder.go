// Copyright 2025 Jonathan Amsterdam. All rights reserved.
// Use of this source code is governed by a
// license that can be found in the LICENSE file.

package huff

import (
	"bytes"
	"io"
	"unicode/utf8"
)

// A Decoder decodes data encoded by an [Encoder].
type Decoder struct {
	inv    map[bitcode]Symbol
	maxLen int
	r      *bitReader
}

// NewDecoder returns a Decoder for payload, which must include the
// trailing count byte written by [Encoder.Close].
func (c *Code) NewDecoder(payload []byte) (*Decoder, error) {
	if len(payload) == 0 {
		return nil, formatErrorf("payload is empty")
	}
	data := payload[:len(payload)-1]
	last := int(payload[len(payload)-1])
	if last == 0 {
		last = 8
	}
	if last > 8 {
		return nil, formatErrorf("payload count byte is %d, want 1 to 8", last)
	}
	nbits := 0
	if len(data) > 0 {
		// Every byte but the last is full.
		nbits = (len(data)-1)*8 + last
	} else if last != 8 {
		return nil, formatErrorf("payload has no data but claims %d bits", last)
	}
	inv, err := c.inverse()
	if err != nil {
		return nil, err
	}
	return &Decoder{inv: inv, maxLen: c.maxLen, r: newBitReader(data, nbits)}, nil
}

// Next returns the next decoded symbol, or [io.EOF] when all
// meaningful bits have been consumed.
func (d *Decoder) Next() (Symbol, error) {
	if d.r.remaining() == 0 {
		return 0, io.EOF
	}
	var acc bitcode
	for {
		bit, err := d.r.readBit()
		if err != nil {
			return 0, formatErrorf("payload ends in the middle of a code")
		}
		acc.val = acc.val<<1 | uint64(bit)
		acc.len++
		if s, ok := d.inv[acc]; ok {
			return s, nil
		}
		if int(acc.len) >= d.maxLen {
			return 0, formatErrorf("no symbol for code %0*b ending at byte %d", int(acc.len), acc.val, d.r.bytePos())
		}
	}
}

// WriteTo writes the decoded text to w as UTF-8.
func (d *Decoder) WriteTo(w io.Writer) (int64, error) {
	var (
		total int64
		buf   = make([]byte, 0, ChunkSize+utf8.UTFMax)
	)
	flush := func() error {
		n, err := w.Write(buf)
		total += int64(n)
		buf = buf[:0]
		if err != nil {
			return ioError("write", err)
		}
		return nil
	}
	for {
		s, err := d.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return total, err
		}
		buf = utf8.AppendRune(buf, s)
		if len(buf) >= ChunkSize {
			if err := flush(); err != nil {
				return total, err
			}
		}
	}
	if len(buf) > 0 {
		if err := flush(); err != nil {
			return total, err
		}
	}
	return total, nil
}

// DecodeData decodes payload with c and returns the text.
func DecodeData(c *Code, payload []byte) ([]byte, error) {
	d, err := c.NewDecoder(payload)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
