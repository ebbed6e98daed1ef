package list

import (
	"iter"

	"go.uber.org/multierr"

	"github.com/benz9527/xsll/lib/infra"
	"github.com/benz9527/xsll/xlog"
)

// The arena list keeps the nodes in a slice of slots and links them by
// slot index instead of pointers. head and tail are indices into the slots.
// Released slots are pushed into a free-list and reused by the next
// insertion, so the slots never shrink.

const nilSlot = -1

var (
	_ SinglyLinkedList  = (*arenaSinglyLinkedList)(nil)
	_ SinglyNodeElement = arenaNodeElement{}
)

type arenaSlot struct {
	value int
	next  int
	gen   uint32 // Bumped on release, the stale handles are invalidated.
	used  bool
}

type arenaSinglyLinkedList struct {
	slots []arenaSlot
	free  []int
	head  int
	tail  int
	len   int
}

type arenaCfg struct {
	capacity int
}

type ArenaOption func(cfg *arenaCfg) error

// WithArenaCapacity pre-allocates the slots for n elements.
func WithArenaCapacity(n int) ArenaOption {
	return func(cfg *arenaCfg) error {
		if n <= 0 {
			return infra.NewErrorStack("[list] arena capacity must be positive")
		}
		cfg.capacity = n
		return nil
	}
}

// NewArenaSinglyLinkedList creates an arena backed list with the only element v.
// It panics if an option is invalid.
func NewArenaSinglyLinkedList(v int, opts ...ArenaOption) SinglyLinkedList {
	cfg := &arenaCfg{capacity: 8}
	for _, o := range opts {
		if o == nil {
			continue
		}
		if err := o(cfg); err != nil {
			panic(err)
		}
	}
	l := &arenaSinglyLinkedList{
		slots: make([]arenaSlot, 0, cfg.capacity),
		head:  nilSlot,
		tail:  nilSlot,
	}
	l.Append(v)
	return l
}

func (l *arenaSinglyLinkedList) alloc(v int) int {
	if n := len(l.free); n > 0 {
		idx := l.free[n-1]
		l.free = l.free[:n-1]
		l.slots[idx].value = v
		l.slots[idx].next = nilSlot
		l.slots[idx].used = true
		return idx
	}
	l.slots = append(l.slots, arenaSlot{
		value: v,
		next:  nilSlot,
		used:  true,
	})
	return len(l.slots) - 1
}

func (l *arenaSinglyLinkedList) release(idx int) int {
	s := &l.slots[idx]
	v := s.value
	s.value = 0
	s.next = nilSlot
	s.used = false
	s.gen++
	l.free = append(l.free, idx)
	return v
}

func (l *arenaSinglyLinkedList) element(idx int) SinglyNodeElement {
	if idx == nilSlot {
		return nil
	}
	return arenaNodeElement{
		arena: l,
		slot:  idx,
		gen:   l.slots[idx].gen,
	}
}

func (l *arenaSinglyLinkedList) Len() int {
	return l.len
}

func (l *arenaSinglyLinkedList) IsEmpty() bool {
	return l.len == 0
}

func (l *arenaSinglyLinkedList) Head() SinglyNodeElement {
	return l.element(l.head)
}

func (l *arenaSinglyLinkedList) Tail() SinglyNodeElement {
	return l.element(l.tail)
}

func (l *arenaSinglyLinkedList) Append(v int) bool {
	idx := l.alloc(v)
	if l.head == nilSlot {
		l.head = idx
		l.tail = idx
	} else {
		l.slots[l.tail].next = idx
		l.tail = idx
	}
	l.len++
	return true
}

func (l *arenaSinglyLinkedList) Prepend(v int) bool {
	idx := l.alloc(v)
	if l.len == 0 {
		l.head = idx
		l.tail = idx
	} else {
		l.slots[idx].next = l.head
		l.head = idx
	}
	l.len++
	return true
}

func (l *arenaSinglyLinkedList) PopFirst() (int, bool) {
	if l.len == 0 {
		return 0, false
	}
	idx := l.head
	l.head = l.slots[idx].next
	l.len--
	if l.len == 0 {
		l.tail = nilSlot
	}
	return l.release(idx), true
}

func (l *arenaSinglyLinkedList) Pop() (int, bool) {
	if l.len == 0 {
		return 0, false
	}
	idx, prev := l.head, l.head
	for l.slots[idx].next != nilSlot {
		prev = idx
		idx = l.slots[idx].next
	}
	l.tail = prev
	l.slots[prev].next = nilSlot
	l.len--
	if l.len == 0 {
		l.head = nilSlot
		l.tail = nilSlot
	}
	return l.release(idx), true
}

func (l *arenaSinglyLinkedList) slotAt(idx int) int {
	if idx < 0 || idx >= l.len {
		return nilSlot
	}
	s := l.head
	for i := 0; i < idx; i++ {
		s = l.slots[s].next
	}
	return s
}

func (l *arenaSinglyLinkedList) Get(idx int) (SinglyNodeElement, bool) {
	s := l.slotAt(idx)
	if s == nilSlot {
		return nil, false
	}
	return l.element(s), true
}

func (l *arenaSinglyLinkedList) SetValue(idx int, v int) bool {
	s := l.slotAt(idx)
	if s == nilSlot {
		return false
	}
	l.slots[s].value = v
	return true
}

func (l *arenaSinglyLinkedList) Insert(idx int, v int) bool {
	if idx < 0 || idx > l.len {
		return false
	}
	if idx == 0 {
		return l.Prepend(v)
	}
	if idx == l.len {
		return l.Append(v)
	}
	prev := l.slotAt(idx - 1)
	s := l.alloc(v)
	l.slots[s].next = l.slots[prev].next
	l.slots[prev].next = s
	l.len++
	return true
}

func (l *arenaSinglyLinkedList) Remove(idx int) (int, bool) {
	if idx < 0 || idx >= l.len {
		return 0, false
	}
	if idx == 0 {
		return l.PopFirst()
	}
	if idx == l.len-1 {
		return l.Pop()
	}
	prev := l.slotAt(idx - 1)
	s := l.slots[prev].next
	l.slots[prev].next = l.slots[s].next
	l.len--
	return l.release(s), true
}

func (l *arenaSinglyLinkedList) Reverse() {
	if l.head == nilSlot {
		return
	}
	s := l.head
	l.head, l.tail = l.tail, l.head
	prev := nilSlot
	for i := 0; i < l.len; i++ {
		next := l.slots[s].next
		l.slots[s].next = prev
		prev = s
		s = next
	}
}

func (l *arenaSinglyLinkedList) All() iter.Seq[int] {
	return func(yield func(int) bool) {
		for s := l.head; s != nilSlot; s = l.slots[s].next {
			if !yield(l.slots[s].value) {
				return
			}
		}
	}
}

func (l *arenaSinglyLinkedList) Foreach(fn func(idx int, e SinglyNodeElement) error) error {
	if fn == nil {
		return nil
	}
	idx := 0
	for s := l.head; s != nilSlot; s = l.slots[s].next {
		if err := fn(idx, l.element(s)); err != nil {
			return err
		}
		idx++
	}
	return nil
}

func (l *arenaSinglyLinkedList) Values() []int {
	return collectValues(l.All(), l.len)
}

// Clear releases all slots but keeps the backing slice for reuse.
func (l *arenaSinglyLinkedList) Clear() {
	for l.head != nilSlot {
		s := l.head
		l.head = l.slots[s].next
		l.release(s)
	}
	l.tail = nilSlot
	l.len = 0
}

func (l *arenaSinglyLinkedList) Validate() error {
	var merr error
	if (l.head == nilSlot) != (l.tail == nilSlot) || (l.len == 0) != (l.head == nilSlot) {
		merr = multierr.Append(merr, ErrListEndsMismatch)
	}
	if l.len < 0 || l.len > len(l.slots) {
		merr = multierr.Append(merr, ErrListLengthMismatch)
		return infra.WrapErrorStackWithMessage(merr, "[list] invariants violated")
	}

	var (
		count              int
		overflow, tailSeen bool
		freeLinked         bool
	)
	for s := l.head; s != nilSlot; s = l.slots[s].next {
		if count == l.len || s < 0 || s >= len(l.slots) {
			overflow = true
			break
		}
		if !l.slots[s].used {
			freeLinked = true
		}
		if s == l.tail {
			tailSeen = true
			if l.slots[s].next != nilSlot {
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
	if !overflow && l.tail != nilSlot && !tailSeen {
		merr = multierr.Append(merr, ErrListTailUnreachable)
	}
	if freeLinked {
		merr = multierr.Append(merr, ErrArenaFreeSlotLinked)
	}
	if len(l.free)+l.len != len(l.slots) {
		merr = multierr.Append(merr, ErrArenaSlotLeak)
	}
	return infra.WrapErrorStackWithMessage(merr, "[list] invariants violated")
}

func (l *arenaSinglyLinkedList) Print(logger xlog.XLogger) {
	printList(logger, "arena", l)
}

// arenaNodeElement is a handle of an arena slot. The handle becomes
// detached once its slot is released, even if the slot is reused later.
type arenaNodeElement struct {
	arena *arenaSinglyLinkedList
	slot  int
	gen   uint32
}

func (e arenaNodeElement) live() *arenaSlot {
	if e.arena == nil || e.slot < 0 || e.slot >= len(e.arena.slots) {
		return nil
	}
	s := &e.arena.slots[e.slot]
	if !s.used || s.gen != e.gen {
		return nil
	}
	return s
}

func (e arenaNodeElement) HasNext() bool {
	s := e.live()
	return s != nil && s.next != nilSlot
}

func (e arenaNodeElement) GetNext() SinglyNodeElement {
	s := e.live()
	if s == nil {
		return nil
	}
	return e.arena.element(s.next)
}

func (e arenaNodeElement) GetValue() int {
	s := e.live()
	if s == nil {
		return 0
	}
	return s.value
}

func (e arenaNodeElement) SetValue(v int) {
	if s := e.live(); s != nil {
		s.value = v
	}
}
