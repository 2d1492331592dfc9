// Copyright 2025 Jonathan Amsterdam. All rights reserved.
// Use of this source code is governed by a
// license that can be found in the LICENSE file.

package huff

import "container/heap"

// A Node is a node of a Huffman tree.
// A leaf has a Symbol and no children. An internal node has two children
// and a Weight equal to the sum of theirs.
type Node struct {
	Symbol      Symbol
	Weight      uint64
	Left, Right *Node
}

func (n *Node) IsLeaf() bool { return n.Left == nil && n.Right == nil }

// Walk calls f on n and its descendants in pre-order, passing the depth of each node.
func (n *Node) Walk(f func(n *Node, depth int)) {
	var walk func(*Node, int)
	walk = func(n *Node, d int) {
		f(n, d)
		if !n.IsLeaf() {
			walk(n.Left, d+1)
			walk(n.Right, d+1)
		}
	}
	walk(n, 0)
}

// Leaves returns the number of leaves in the tree rooted at n.
func (n *Node) Leaves() int {
	c := 0
	n.Walk(func(n *Node, _ int) {
		if n.IsLeaf() {
			c++
		}
	})
	return c
}

// Depth returns the length of the longest path from n to a leaf.
func (n *Node) Depth() int {
	deepest := 0
	n.Walk(func(_ *Node, d int) {
		deepest = max(deepest, d)
	})
	return deepest
}

// BuildTree constructs a Huffman tree from the counts in ft.
//
// Nodes are merged lowest weight first. Ties are broken so that the tree
// depends only on the counts: leaves come before internal nodes, leaves are
// ordered by symbol, and internal nodes by the order in which they were
// created. The first node removed becomes the left child.
func BuildTree(ft *FrequencyTable) (*Node, error) {
	if ft.Len() == 0 {
		return nil, ErrEmpty
	}
	var h nodeHeap
	for _, s := range ft.Symbols() {
		h = append(h, heapItem{node: &Node{Symbol: s, Weight: ft.Freq(s)}, seq: -1})
	}
	heap.Init(&h)
	seq := 0
	for h.Len() > 1 {
		a := heap.Pop(&h).(heapItem)
		b := heap.Pop(&h).(heapItem)
		n := &Node{Weight: a.node.Weight + b.node.Weight, Left: a.node, Right: b.node}
		heap.Push(&h, heapItem{node: n, seq: seq})
		seq++
	}
	return h[0].node, nil
}

type heapItem struct {
	node *Node
	seq  int // creation order of internal nodes; -1 for leaves
}

// nodeHeap is a min-heap of nodes, ordered as described at BuildTree.
type nodeHeap []heapItem

func (h nodeHeap) Len() int { return len(h) }

func (h nodeHeap) Less(i, j int) bool {
	a, b := h[i], h[j]
	if a.node.Weight != b.node.Weight {
		return a.node.Weight < b.node.Weight
	}
	aLeaf, bLeaf := a.seq < 0, b.seq < 0
	switch {
	case aLeaf && bLeaf:
		return a.node.Symbol < b.node.Symbol
	case aLeaf != bLeaf:
		return aLeaf
	default:
		return a.seq < b.seq
	}
}

func (h nodeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *nodeHeap) Push(x any) { *h = append(*h, x.(heapItem)) }

func (h *nodeHeap) Pop() any {
	old := *h
	it := old[len(old)-1]
	*h = old[:len(old)-1]
	return it
}
