package huffman

import (
	"container/heap"
	"fmt"
	"strconv"
	"strings"

	"github.com/FitrahHaque/Compression-Toolkit/compressor/bitbuffer"
)

// maxCodeLength bounds the depth of a tree: codes are held in a uint64.
const maxCodeLength = 64

type huffmanTree interface {
	getFrequency() int
	getId() int
}
type huffmanLeaf struct {
	freq, id int
	symbol   byte
}
type huffmanNode struct {
	freq, id    int
	left, right huffmanTree
}

type huffmanHeap []huffmanTree

func (hub *huffmanHeap) Push(item any) {
	*hub = append(*hub, item.(huffmanTree))
}

func (hub *huffmanHeap) Pop() any {
	popped := (*hub)[len(*hub)-1]
	(*hub) = (*hub)[:len(*hub)-1]
	return popped
}

func (hub huffmanHeap) Len() int {
	return len(hub)
}

func (hub huffmanHeap) Less(i, j int) bool {
	if hub[i].getFrequency() != hub[j].getFrequency() {
		return hub[i].getFrequency() < hub[j].getFrequency()
	}
	return hub[i].getId() < hub[j].getId()
}

func (hub huffmanHeap) Swap(i, j int) {
	hub[i], hub[j] = hub[j], hub[i]
}

func (leaf huffmanLeaf) getId() int {
	return leaf.id
}

func (leaf huffmanLeaf) getFrequency() int {
	return leaf.freq
}

func (node huffmanNode) getFrequency() int {
	return node.freq
}

func (node huffmanNode) getId() int {
	return node.id
}

// Encoding is the prefix code assigned to a byte value.
type Encoding struct {
	BitLength int
	Code      uint64
}

// Write appends the code's bits to bb. A zero-length code still occupies one bit.
func (e Encoding) Write(bb *bitbuffer.BitBuffer) {
	bb.InsertBits(e.Code, max(1, e.BitLength))
}

func (e Encoding) String() string {
	s := strconv.FormatUint(e.Code, 2)
	if len(s) < e.BitLength {
		s = strings.Repeat("0", e.BitLength-len(s)) + s
	}
	return s
}

// Tree is an immutable Huffman tree. A tree built from all-zero frequencies is empty.
type Tree struct {
	root   huffmanTree
	leaves int
}

// BuildTree merges the two least frequent subtrees until one remains. Leaves get ids in
// ascending byte order and merged nodes get increasing ids, so equal frequencies are
// broken deterministically; the first subtree popped becomes the left child.
func BuildTree(frequencies *[256]int) *Tree {
	var treehub huffmanHeap
	monoId := 0
	for symbol, freq := range frequencies {
		if freq == 0 {
			continue
		}
		treehub = append(treehub, huffmanLeaf{
			freq:   freq,
			symbol: byte(symbol),
			id:     monoId,
		})
		monoId++
	}
	tree := &Tree{leaves: len(treehub)}
	if len(treehub) == 0 {
		return tree
	}
	heap.Init(&treehub)
	for treehub.Len() > 1 {
		x := heap.Pop(&treehub).(huffmanTree)
		y := heap.Pop(&treehub).(huffmanTree)
		heap.Push(&treehub, huffmanNode{
			freq:  x.getFrequency() + y.getFrequency(),
			left:  x,
			right: y,
			id:    monoId,
		})
		monoId++
	}
	tree.root = heap.Pop(&treehub).(huffmanTree)
	return tree
}

// Leaves returns the number of distinct byte values in the tree.
func (t *Tree) Leaves() int {
	return t.leaves
}

func (t *Tree) Empty() bool {
	return t.root == nil
}

// Encodings assigns 0 to every left edge and 1 to every right edge. A tree with a
// single leaf maps it to the one-bit code 0.
func (t *Tree) Encodings() map[byte]Encoding {
	symbolEnc := make(map[byte]Encoding, t.leaves)
	if leaf, ok := t.root.(huffmanLeaf); ok {
		symbolEnc[leaf.symbol] = Encoding{BitLength: 1}
		return symbolEnc
	}
	getSymbolEncoding(t.root, symbolEnc, Encoding{})
	return symbolEnc
}

func getSymbolEncoding(tree huffmanTree, symbolEnc map[byte]Encoding, prefix Encoding) {
	switch i := tree.(type) {
	case huffmanLeaf:
		symbolEnc[i.symbol] = prefix
	case huffmanNode:
		next := Encoding{BitLength: prefix.BitLength + 1, Code: prefix.Code << 1}
		if i.left != nil {
			getSymbolEncoding(i.left, symbolEnc, next)
		}
		next.Code |= 1
		if i.right != nil {
			getSymbolEncoding(i.right, symbolEnc, next)
		}
	}
}

// Depth returns the length of the longest code in the tree.
func (t *Tree) Depth() int {
	return depth(t.root)
}

func depth(tree huffmanTree) int {
	node, ok := tree.(huffmanNode)
	if !ok {
		return 0
	}
	return 1 + max(depth(node.left), depth(node.right))
}

// WriteTo serializes the tree: one byte holding leaves-1, then a preorder walk where a
// leaf is its 8-bit value followed by 00, and an internal node is eight zero bits
// followed by a has-left bit and a has-right bit.
func (t *Tree) WriteTo(bb *bitbuffer.BitBuffer) {
	if t.root == nil {
		return
	}
	bb.InsertBits(uint64(t.leaves-1), 8)
	writeNode(t.root, bb)
}

func writeNode(tree huffmanTree, bb *bitbuffer.BitBuffer) {
	switch i := tree.(type) {
	case huffmanLeaf:
		bb.InsertBits(uint64(i.symbol), 8)
		bb.InsertBits(0, 2)
	case huffmanNode:
		bb.InsertBits(0, 8)
		bb.InsertBits(boolBit(i.left != nil), 1)
		bb.InsertBits(boolBit(i.right != nil), 1)
		if i.left != nil {
			writeNode(i.left, bb)
		}
		if i.right != nil {
			writeNode(i.right, bb)
		}
	}
}

func boolBit(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

type treeReader struct {
	r      *bitbuffer.Reader
	leaves int
	placed int
}

// ReadTree parses a tree written by WriteTo. Frequencies are not part of the format, so
// the parsed tree carries zero frequencies.
func ReadTree(r *bitbuffer.Reader) (*Tree, error) {
	count, err := r.ReadBits(8)
	if err != nil {
		return nil, fmt.Errorf("%w: missing leaf count", ErrInvalidTreeFormat)
	}
	tr := &treeReader{r: r, leaves: int(count) + 1}
	root, err := tr.readNode(0)
	if err != nil {
		return nil, err
	}
	if tr.placed != tr.leaves {
		return nil, fmt.Errorf("%w: tree closed after %d of %d leaves", ErrInvalidTreeFormat, tr.placed, tr.leaves)
	}
	return &Tree{root: root, leaves: tr.leaves}, nil
}

func (tr *treeReader) readNode(depth int) (huffmanTree, error) {
	value, err := tr.r.ReadBits(8)
	if err != nil {
		return nil, fmt.Errorf("%w: truncated node", ErrInvalidTreeFormat)
	}
	flags, err := tr.r.ReadBits(2)
	if err != nil {
		return nil, fmt.Errorf("%w: truncated node", ErrInvalidTreeFormat)
	}
	if flags == 0 {
		if tr.placed == tr.leaves {
			return nil, fmt.Errorf("%w: more than %d leaves", ErrInvalidTreeFormat, tr.leaves)
		}
		tr.placed++
		return huffmanLeaf{symbol: byte(value), id: tr.placed - 1}, nil
	}
	if value != 0 {
		return nil, fmt.Errorf("%w: internal node with value %d", ErrInvalidTreeFormat, value)
	}
	if depth >= maxCodeLength {
		return nil, fmt.Errorf("%w: tree deeper than %d", ErrInvalidTreeFormat, maxCodeLength)
	}
	node := huffmanNode{id: -1}
	if flags&0b10 != 0 {
		if node.left, err = tr.readNode(depth + 1); err != nil {
			return nil, err
		}
	}
	if flags&0b01 != 0 {
		if node.right, err = tr.readNode(depth + 1); err != nil {
			return nil, err
		}
	}
	return node, nil
}
