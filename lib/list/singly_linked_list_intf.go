package list

import (
	"iter"

	"github.com/benz9527/xsll/xlog"
)

// Note that the singly linked list is not thread safe.
// Callers have to serialize the access if the list is shared.

// SinglyNodeElement is the node handle of a singly linked list.
type SinglyNodeElement interface {
	HasNext() bool
	// GetNext returns nil if the element is the last one or detached.
	GetNext() SinglyNodeElement
	GetValue() int
	SetValue(v int)
}

// SinglyLinkedList is a singly linked list of int values with head and tail
// references and a cached length.
// Index based operations are 0-based and traverse from the head, O(n).
// The index is validated before any mutation, an invalid index never
// changes the list.
type SinglyLinkedList interface {
	Len() int
	IsEmpty() bool
	// Head returns the first element or nil if the list is empty.
	Head() SinglyNodeElement
	// Tail returns the last element or nil if the list is empty.
	Tail() SinglyNodeElement
	// Append links a new element with value v after the tail. It always succeeds.
	Append(v int) bool
	// Prepend links a new element with value v before the head. It always succeeds.
	Prepend(v int) bool
	// PopFirst detaches the head and returns its value, false if the list is empty.
	PopFirst() (int, bool)
	// Pop detaches the tail and returns its value, false if the list is empty.
	// There is no backward link, the predecessor of the tail is found by
	// traversing from the head, O(n).
	Pop() (int, bool)
	// Get returns the element at idx, false if idx < 0 or idx >= Len().
	Get(idx int) (SinglyNodeElement, bool)
	// SetValue overwrites the value at idx, false if idx is out of range.
	SetValue(idx int, v int) bool
	// Insert links a new element with value v at idx, so that Get(idx) returns it.
	// Insert(0, v) is Prepend(v) and Insert(Len(), v) is Append(v).
	// It returns false if idx < 0 or idx > Len().
	Insert(idx int, v int) bool
	// Remove detaches the element at idx and returns its value.
	// Remove(0) is PopFirst() and Remove(Len()-1) is Pop().
	// It returns false if idx < 0 or idx >= Len().
	Remove(idx int) (int, bool)
	// Reverse rewrites every forward link in a single pass, the former tail
	// becomes the head. O(n) time, O(1) extra space.
	Reverse()
	// All returns a restartable iterator over the values from head to tail.
	All() iter.Seq[int]
	// Foreach traverses the list and executes function fn for each element.
	// If fn returns an error, the traversal stops and returns the error.
	Foreach(fn func(idx int, e SinglyNodeElement) error) error
	// Values returns a snapshot of the values from head to tail.
	Values() []int
	// Clear detaches all elements.
	Clear()
	// Validate walks the chain and reports all the structural invariant
	// violations. It returns nil if the list is consistent.
	Validate() error
	// Print emits each value in order by logger at debug level.
	// It is a debugging aid only.
	Print(logger xlog.XLogger)
}
