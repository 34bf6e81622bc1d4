// Package tree provides an n-ary tree where every node is owned by exactly
// one parent and the tree owns exactly one root.
//
// Mutations are local: inserting or updating a node never rewrites the
// ancestor chain, and a failed lookup never changes which node is the root.
package tree

import (
	"github.com/pkg/errors"
)

var (
	// ErrNotFound is returned when a node is not reachable from the root.
	ErrNotFound = errors.New("node not found")

	// ErrRoot is returned when asking for the parent of the root.
	ErrRoot = errors.New("node is the root")

	// ErrAttached is returned when inserting a node that already belongs to the tree.
	ErrAttached = errors.New("node is already attached")

	// ErrEmpty is returned by operations on a tree without a root.
	ErrEmpty = errors.New("tree has no root")
)

// Node is a tree node carrying a value and its owned children.
type Node[T any] struct {
	Value    T
	children []*Node[T]
}

// NewNode creates a detached node.
func NewNode[T any](value T) *Node[T] {
	return &Node[T]{Value: value}
}

// Children returns the node's children in order.
func (n *Node[T]) Children() []*Node[T] {
	return n.children
}

// LastChild returns the last child, or nil for a leaf.
func (n *Node[T]) LastChild() *Node[T] {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[len(n.children)-1]
}

// Tree owns a single root node.
type Tree[T any] struct {
	root *Node[T]
}

// New creates a tree owning root.
func New[T any](root *Node[T]) *Tree[T] {
	return &Tree[T]{root: root}
}

// Root returns the root node.
func (t *Tree[T]) Root() *Node[T] {
	return t.root
}

// FindParent returns the parent of node and node's index among its siblings.
// The search is breadth-first from the root.
func (t *Tree[T]) FindParent(node *Node[T]) (*Node[T], int, error) {
	if t.root == nil {
		return nil, 0, ErrEmpty
	}
	if node == t.root {
		return nil, 0, ErrRoot
	}

	queue := []*Node[T]{t.root}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for i, child := range current.children {
			if child == node {
				return current, i, nil
			}
			queue = append(queue, child)
		}
	}

	return nil, 0, ErrNotFound
}

// Contains reports whether node is reachable from the root.
func (t *Tree[T]) Contains(node *Node[T]) bool {
	if t.root == nil || node == nil {
		return false
	}
	if node == t.root {
		return true
	}
	_, _, err := t.FindParent(node)
	return err == nil
}

// Insert appends node to parent's children.
// The parent must be reachable from the root and node must be detached.
func (t *Tree[T]) Insert(parent, node *Node[T]) error {
	if err := t.checkInsert(parent, node); err != nil {
		return err
	}
	parent.children = append(parent.children, node)
	return nil
}

// InsertAfter places node directly after sibling under sibling's parent.
func (t *Tree[T]) InsertAfter(sibling, node *Node[T]) error {
	parent, i, err := t.FindParent(sibling)
	if err != nil {
		return errors.Wrap(err, "failed to locate sibling")
	}
	if err := t.checkInsert(parent, node); err != nil {
		return err
	}

	parent.children = append(parent.children, nil)
	copy(parent.children[i+2:], parent.children[i+1:])
	parent.children[i+1] = node
	return nil
}

func (t *Tree[T]) checkInsert(parent, node *Node[T]) error {
	if t.root == nil {
		return ErrEmpty
	}
	if node == nil {
		return errors.New("cannot insert a nil node")
	}
	if !t.Contains(parent) {
		return errors.Wrap(ErrNotFound, "parent is not in the tree")
	}
	if t.Contains(node) {
		return ErrAttached
	}
	return nil
}

// Update applies fn to the node's value in place.
func (t *Tree[T]) Update(node *Node[T], fn func(*T)) error {
	if t.root == nil {
		return ErrEmpty
	}
	if !t.Contains(node) {
		return errors.Wrap(ErrNotFound, "cannot update")
	}
	fn(&node.Value)
	return nil
}

// Depth returns the number of edges between the root and node.
func (t *Tree[T]) Depth(node *Node[T]) (int, error) {
	depth := 0
	for node != t.root {
		parent, _, err := t.FindParent(node)
		if err != nil {
			return 0, err
		}
		node = parent
		depth++
	}
	return depth, nil
}

// LevelOrder returns all nodes breadth-first, left to right within a level.
func (t *Tree[T]) LevelOrder() []*Node[T] {
	if t.root == nil {
		return nil
	}

	result := []*Node[T]{t.root}
	for i := 0; i < len(result); i++ {
		result = append(result, result[i].children...)
	}
	return result
}

// PreOrder returns all nodes depth-first, parents before children, left to right.
func (t *Tree[T]) PreOrder() []*Node[T] {
	if t.root == nil {
		return nil
	}

	var result []*Node[T]
	stack := []*Node[T]{t.root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		result = append(result, node)

		for i := len(node.children) - 1; i >= 0; i-- {
			stack = append(stack, node.children[i])
		}
	}
	return result
}
