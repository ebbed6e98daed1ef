package list

import (
	"iter"

	"go.uber.org/multierr"

	"github.com/benz9527/xsll/lib/infra"
	"github.com/benz9527/xsll/xlog"
)

var _ SinglyLinkedList = (*singlyLinkedList)(nil) // Type check assertion

type singlyLinkedList struct {
	head *singlyNodeElement
	tail *singlyNodeElement // Non-owning, it points into the chain from head.
	len  int
}

// NewSinglyLinkedList creates a list with the only element v.
func NewSinglyLinkedList(v int) SinglyLinkedList {
	e := newSinglyNodeElement(v)
	return &singlyLinkedList{
		head: e,
		tail: e,
		len:  1,
	}
}

func (l *singlyLinkedList) Len() int {
	return l.len
}

func (l *singlyLinkedList) IsEmpty() bool {
	return l.len == 0
}

func (l *singlyLinkedList) Head() SinglyNodeElement {
	return asSinglyNodeElement(l.head)
}

func (l *singlyLinkedList) Tail() SinglyNodeElement {
	return asSinglyNodeElement(l.tail)
}

func (l *singlyLinkedList) Append(v int) bool {
	e := newSinglyNodeElement(v)
	if l.head == nil {
		l.head = e
		l.tail = e
	} else {
		l.tail.next = e
		l.tail = e
	}
	l.len++
	return true
}

func (l *singlyLinkedList) Prepend(v int) bool {
	e := newSinglyNodeElement(v)
	if l.len == 0 {
		l.head = e
		l.tail = e
	} else {
		e.next = l.head
		l.head = e
	}
	l.len++
	return true
}

func (l *singlyLinkedList) PopFirst() (int, bool) {
	if l.len == 0 {
		return 0, false
	}
	e := l.head
	l.head = e.next
	e.next = nil
	l.len--
	if l.len == 0 {
		l.tail = nil
	}
	return e.value, true
}

func (l *singlyLinkedList) Pop() (int, bool) {
	if l.len == 0 {
		return 0, false
	}
	e, prev := l.head, l.head
	for e.next != nil {
		prev = e
		e = e.next
	}
	l.tail = prev
	l.tail.next = nil
	l.len--
	if l.len == 0 {
		l.head = nil
		l.tail = nil
	}
	return e.value, true
}

func (l *singlyLinkedList) getElement(idx int) *singlyNodeElement {
	if idx < 0 || idx >= l.len {
		return nil
	}
	e := l.head
	for i := 0; i < idx; i++ {
		e = e.next
	}
	return e
}

func (l *singlyLinkedList) Get(idx int) (SinglyNodeElement, bool) {
	e := l.getElement(idx)
	if e == nil {
		return nil, false
	}
	return e, true
}

func (l *singlyLinkedList) SetValue(idx int, v int) bool {
	e := l.getElement(idx)
	if e == nil {
		return false
	}
	e.value = v
	return true
}

func (l *singlyLinkedList) Insert(idx int, v int) bool {
	if idx < 0 || idx > l.len {
		return false
	}
	if idx == 0 {
		return l.Prepend(v)
	}
	if idx == l.len {
		return l.Append(v)
	}
	e := newSinglyNodeElement(v)
	prev := l.getElement(idx - 1)
	e.next = prev.next
	prev.next = e
	l.len++
	return true
}

func (l *singlyLinkedList) Remove(idx int) (int, bool) {
	if idx < 0 || idx >= l.len {
		return 0, false
	}
	if idx == 0 {
		return l.PopFirst()
	}
	if idx == l.len-1 {
		return l.Pop()
	}
	prev := l.getElement(idx - 1)
	e := prev.next
	prev.next = e.next
	e.next = nil
	l.len--
	return e.value, true
}

func (l *singlyLinkedList) Reverse() {
	if l.head == nil {
		return
	}
	e := l.head
	l.head, l.tail = l.tail, l.head
	var prev *singlyNodeElement
	for i := 0; i < l.len; i++ {
		next := e.next
		e.next = prev
		prev = e
		e = next
	}
}

func (l *singlyLinkedList) All() iter.Seq[int] {
	return func(yield func(int) bool) {
		for e := l.head; e != nil; e = e.next {
			if !yield(e.value) {
				return
			}
		}
	}
}

func (l *singlyLinkedList) Foreach(fn func(idx int, e SinglyNodeElement) error) error {
	if fn == nil {
		return nil
	}
	idx := 0
	for e := l.head; e != nil; e = e.next {
		if err := fn(idx, e); err != nil {
			return err
		}
		idx++
	}
	return nil
}

func (l *singlyLinkedList) Values() []int {
	return collectValues(l.All(), l.len)
}

func (l *singlyLinkedList) Clear() {
	// Unlink one by one, so the detached handles report no successor.
	for l.head != nil {
		e := l.head
		l.head = e.next
		e.next = nil
	}
	l.tail = nil
	l.len = 0
}

func (l *singlyLinkedList) Validate() error {
	var merr error
	if (l.head == nil) != (l.tail == nil) || (l.len == 0) != (l.head == nil) {
		merr = multierr.Append(merr, ErrListEndsMismatch)
	}
	if l.len < 0 {
		merr = multierr.Append(merr, ErrListLengthMismatch)
		return infra.WrapErrorStackWithMessage(merr, "[list] invariants violated")
	}

	var (
		count              int
		overflow, tailSeen bool
	)
	// At most len steps, one more element means a cycle or a wrong length.
	for e := l.head; e != nil; e = e.next {
		if count == l.len {
			overflow = true
			break
		}
		if e == l.tail {
			tailSeen = true
			if e.next != nil {
				merr = multierr.Append(merr, ErrListTailNotLast)
			}
		}
		count++
	}
	switch {
	case overflow:
		merr = multierr.Append(merr, ErrListCycleOrOverflow)
	case count != l.len:
		merr = multierr.Append(merr, ErrListLengthMismatch)
	}
	if !overflow && l.tail != nil && !tailSeen {
		merr = multierr.Append(merr, ErrListTailUnreachable)
	}
	return infra.WrapErrorStackWithMessage(merr, "[list] invariants violated")
}

func (l *singlyLinkedList) Print(logger xlog.XLogger) {
	printList(logger, "pointer", l)
}
