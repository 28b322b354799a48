// Package gotree renders labelled trees as indented text.
package gotree

import (
	"strings"
)

const (
	emptySpace   = "    "
	middleItem   = "├── "
	continueItem = "│   "
	lastItem     = "└── "
)

// Tree is a labelled node with ordered children.
type Tree struct {
	text  string
	items []*Tree
}

// New returns a tree with a single root node.
func New(text string) *Tree {
	return &Tree{text: text}
}

// Add appends a child with the given text and returns it.
func (t *Tree) Add(text string) *Tree {
	n := New(text)
	t.items = append(t.items, n)
	return n
}

// AddTree appends an existing tree as a child.
func (t *Tree) AddTree(tree *Tree) {
	t.items = append(t.items, tree)
}

// Print returns the tree with box-drawing guides. Multi-line labels keep
// their continuation lines aligned under the first.
func (t *Tree) Print() string {
	var sb strings.Builder
	sb.WriteString(t.text)
	sb.WriteString("\n")
	printItems(&sb, t.items, "")
	return sb.String()
}

func printItems(sb *strings.Builder, items []*Tree, prefix string) {
	for i, item := range items {
		last := i == len(items)-1
		indicator, continuation := middleItem, continueItem
		if last {
			indicator, continuation = lastItem, emptySpace
		}
		for j, line := range strings.Split(item.text, "\n") {
			sb.WriteString(prefix)
			if j == 0 {
				sb.WriteString(indicator)
			} else {
				sb.WriteString(continuation)
			}
			sb.WriteString(line)
			sb.WriteString("\n")
		}
		printItems(sb, item.items, prefix+continuation)
	}
}
