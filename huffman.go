// Copyright 2025 Jonathan Amsterdam. All rights reserved.
// Use of this source code is governed by a
// license that can be found in the LICENSE file.

// Package huff compresses UTF-8 text with a Huffman code built from the
// text's own symbol frequencies.
//
// The code is stored alongside the data as a serialized tree, so a
// compressed stream is self-describing. See [Compress] for the layout.
package huff

import (
	"maps"
	"slices"
)

// maxCodeLen is the longest code a [Code] can hold.
const maxCodeLen = 64

// A Code is a mapping from Symbols to bit sequences.
type Code struct {
	codes  map[Symbol]bitcode
	maxLen int
}

// A bitcode is the low-order len bits of val.
type bitcode struct {
	val uint64
	len uint8
}

// NewCode derives a [Code] from a Huffman tree.
// A left branch appends a 0 bit to the code and a right branch appends a 1.
// If the root is a leaf, its symbol gets the one-bit code 0.
func NewCode(root *Node) (*Code, error) {
	if root == nil {
		return nil, ErrEmpty
	}
	c := &Code{codes: map[Symbol]bitcode{}}
	if root.IsLeaf() {
		c.codes[root.Symbol] = bitcode{0, 1}
		c.maxLen = 1
		return c, nil
	}
	var walk func(*Node, bitcode) error
	walk = func(n *Node, b bitcode) error {
		if n == nil {
			return formatErrorf("internal node with a missing child")
		}
		if n.IsLeaf() {
			if _, dup := c.codes[n.Symbol]; dup {
				return formatErrorf("symbol %q appears twice in tree", n.Symbol)
			}
			c.codes[n.Symbol] = b
			c.maxLen = max(c.maxLen, int(b.len))
			return nil
		}
		if b.len == maxCodeLen {
			return formatErrorf("tree is deeper than %d levels", maxCodeLen)
		}
		if err := walk(n.Left, bitcode{b.val << 1, b.len + 1}); err != nil {
			return err
		}
		return walk(n.Right, bitcode{b.val<<1 | 1, b.len + 1})
	}
	if err := walk(root, bitcode{}); err != nil {
		return nil, err
	}
	return c, nil
}

// Lookup returns the code for s and its length in bits.
// If s is not in the Code, ok is false.
func (c *Code) Lookup(s Symbol) (code uint64, length int, ok bool) {
	b, ok := c.codes[s]
	return b.val, int(b.len), ok
}

// Len returns the number of symbols in the Code.
func (c *Code) Len() int { return len(c.codes) }

// MaxLen returns the length of the longest code.
func (c *Code) MaxLen() int { return c.maxLen }

// Symbols returns the symbols of the Code in increasing order.
func (c *Code) Symbols() []Symbol {
	return slices.Sorted(maps.Keys(c.codes))
}

// inverse returns the mapping from codes back to symbols.
func (c *Code) inverse() (map[bitcode]Symbol, error) {
	inv := make(map[bitcode]Symbol, len(c.codes))
	for _, s := range c.Symbols() {
		b := c.codes[s]
		if other, ok := inv[b]; ok {
			return nil, formatErrorf("symbols %q and %q share the code %0*b", other, s, int(b.len), b.val)
		}
		inv[b] = s
	}
	return inv, nil
}
