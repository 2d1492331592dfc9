// Copyright 2025 Jonathan Amsterdam. All rights reserved.
// Use of this source code is governed by a
// license that can be found in the LICENSE file.

package huff

import (
	"bytes"
	"io"
	"unicode"
	"unicode/utf8"
)

// MarshalTree serializes a Huffman tree in pre-order.
// A leaf is a 1 bit followed by its symbol as a 32-bit big-endian number;
// an internal node is a 0 bit followed by its left and then its right subtree.
// The last byte is padded with zero bits.
func MarshalTree(root *Node) ([]byte, error) {
	if root == nil {
		return nil, ErrEmpty
	}
	var buf bytes.Buffer
	w := newBitWriter(&buf)
	if err := marshalNode(w, root); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func marshalNode(w *bitWriter, n *Node) error {
	if n == nil {
		return formatErrorf("internal node with a missing child")
	}
	if n.IsLeaf() {
		if !utf8.ValidRune(n.Symbol) {
			return formatErrorf("leaf symbol %#x is not a Unicode scalar", n.Symbol)
		}
		w.writeBits(1, 1)
		w.writeBits(uint64(n.Symbol), 32)
		return nil
	}
	w.writeBits(0, 1)
	if err := marshalNode(w, n.Left); err != nil {
		return err
	}
	return marshalNode(w, n.Right)
}

// WriteTreeHeader writes the serialized tree to w, preceded by its length
// as a 4-byte big-endian number. It returns the number of bytes written.
func WriteTreeHeader(w io.Writer, root *Node) (int64, error) {
	data, err := MarshalTree(root)
	if err != nil {
		return 0, err
	}
	return writeBlock(w, data)
}

// UnmarshalTree reconstructs a tree serialized by [MarshalTree].
// The leaves of the result have zero weight.
func UnmarshalTree(data []byte) (*Node, error) {
	r := newBitReader(data, len(data)*8)
	root, err := unmarshalNode(r, 0)
	if err != nil {
		return nil, err
	}
	if n := r.remaining(); n >= 8 {
		return nil, formatErrorf("tree header has %d unused bytes", n/8)
	} else if pad, _ := r.readUint(n); pad != 0 {
		return nil, formatErrorf("tree header padding is not zero")
	}
	return root, nil
}

func unmarshalNode(r *bitReader, depth int) (*Node, error) {
	bit, err := r.readBit()
	if err != nil {
		return nil, formatErrorf("tree header truncated at byte %d", r.bytePos())
	}
	if bit == 1 {
		v, err := r.readUint(32)
		if err != nil {
			return nil, formatErrorf("tree header truncated in leaf at byte %d", r.bytePos())
		}
		if v > unicode.MaxRune || !utf8.ValidRune(rune(v)) {
			return nil, formatErrorf("leaf value %#x is not a Unicode scalar", v)
		}
		return &Node{Symbol: rune(v)}, nil
	}
	if depth == maxCodeLen {
		return nil, formatErrorf("tree is deeper than %d levels", maxCodeLen)
	}
	left, err := unmarshalNode(r, depth+1)
	if err != nil {
		return nil, err
	}
	right, err := unmarshalNode(r, depth+1)
	if err != nil {
		return nil, err
	}
	return &Node{Left: left, Right: right}, nil
}

// ReadTreeHeader reads a length-prefixed tree written by [WriteTreeHeader].
func ReadTreeHeader(r io.Reader) (*Node, error) {
	data, err := readBlock(r, "tree header")
	if err != nil {
		return nil, err
	}
	return UnmarshalTree(data)
}
