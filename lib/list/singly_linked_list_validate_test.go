package list

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/benz9527/xsll/lib/infra"
)

func requireViolations(t *testing.T, err error, expected ...error) {
	t.Helper()
	require.Error(t, err)
	_, ok := infra.AsErrorStack(err)
	require.True(t, ok)
	for _, e := range expected {
		require.ErrorIs(t, err, e)
	}
	es, _ := infra.AsErrorStack(err)
	require.Len(t, multierr.Errors(es.Unwrap()), len(expected))
}

func TestSinglyLinkedList_ValidateCorruption(t *testing.T) {
	testcases := []struct {
		name     string
		corrupt  func(l *singlyLinkedList)
		expected []error
	}{
		{
			name: "length too large",
			corrupt: func(l *singlyLinkedList) {
				l.len++
			},
			expected: []error{ErrListLengthMismatch},
		},
		{
			name: "length too small",
			corrupt: func(l *singlyLinkedList) {
				l.len--
			},
			expected: []error{ErrListCycleOrOverflow},
		},
		{
			name: "negative length",
			corrupt: func(l *singlyLinkedList) {
				l.len = -1
			},
			expected: []error{ErrListLengthMismatch},
		},
		{
			name: "tail in the middle",
			corrupt: func(l *singlyLinkedList) {
				l.tail = l.head.next
			},
			expected: []error{ErrListTailNotLast},
		},
		{
			name: "tail detached",
			corrupt: func(l *singlyLinkedList) {
				l.tail = newSinglyNodeElement(3)
			},
			expected: []error{ErrListTailUnreachable},
		},
		{
			name: "cycle",
			corrupt: func(l *singlyLinkedList) {
				l.tail.next = l.head
			},
			expected: []error{ErrListTailNotLast, ErrListCycleOrOverflow},
		},
		{
			name: "head lost",
			corrupt: func(l *singlyLinkedList) {
				l.head = nil
			},
			expected: []error{ErrListEndsMismatch, ErrListLengthMismatch, ErrListTailUnreachable},
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			l := NewSinglyLinkedList(1).(*singlyLinkedList)
			l.Append(2)
			l.Append(3)
			require.NoError(t, l.Validate())
			tc.corrupt(l)
			requireViolations(t, l.Validate(), tc.expected...)
		})
	}
}

func TestArenaSinglyLinkedList_ValidateCorruption(t *testing.T) {
	testcases := []struct {
		name     string
		corrupt  func(l *arenaSinglyLinkedList)
		expected []error
	}{
		{
			name: "length too large",
			corrupt: func(l *arenaSinglyLinkedList) {
				l.len++
			},
			expected: []error{ErrListLengthMismatch},
		},
		{
			name: "cycle",
			corrupt: func(l *arenaSinglyLinkedList) {
				l.slots[l.tail].next = l.head
			},
			expected: []error{ErrListTailNotLast, ErrListCycleOrOverflow},
		},
		{
			name: "free slot still linked",
			corrupt: func(l *arenaSinglyLinkedList) {
				l.slots[l.head].used = false
				l.free = append(l.free, l.head)
				l.slots = append(l.slots, arenaSlot{next: nilSlot})
			},
			expected: []error{ErrArenaFreeSlotLinked},
		},
		{
			name: "leaked slot",
			corrupt: func(l *arenaSinglyLinkedList) {
				l.slots = append(l.slots, arenaSlot{next: nilSlot, used: true})
			},
			expected: []error{ErrArenaSlotLeak},
		},
		{
			name: "link out of the slots",
			corrupt: func(l *arenaSinglyLinkedList) {
				l.slots[l.head].next = len(l.slots) + 10
			},
			expected: []error{ErrListCycleOrOverflow},
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			l := NewArenaSinglyLinkedList(1).(*arenaSinglyLinkedList)
			l.Append(2)
			l.Append(3)
			require.NoError(t, l.Validate())
			tc.corrupt(l)
			requireViolations(t, l.Validate(), tc.expected...)
		})
	}
}

func TestArenaSinglyLinkedList_SlotReuse(t *testing.T) {
	l := NewArenaSinglyLinkedList(0, WithArenaCapacity(2)).(*arenaSinglyLinkedList)
	for i := 1; i < 6; i++ {
		l.Append(i)
	}
	require.Len(t, l.slots, 6)

	stale, ok := l.Get(2)
	require.True(t, ok)
	v, ok := l.Remove(2)
	require.True(t, ok)
	require.Equal(t, 2, v)
	_, ok = l.PopFirst()
	require.True(t, ok)
	require.Len(t, l.free, 2)

	t.Log("released slots are reused before growing")
	l.Prepend(-1)
	l.Insert(2, 22)
	require.Len(t, l.slots, 6)
	require.Empty(t, l.free)
	require.NoError(t, l.Validate())
	require.Equal(t, []int{-1, 1, 22, 3, 4, 5}, l.Values())

	t.Log("the handle of a released slot stays detached after reuse")
	require.Zero(t, stale.GetValue())
	require.False(t, stale.HasNext())
	require.Nil(t, stale.GetNext())
	stale.SetValue(100)
	require.Equal(t, []int{-1, 1, 22, 3, 4, 5}, l.Values())

	l.Clear()
	require.Len(t, l.free, 6)
	require.NoError(t, l.Validate())
	require.Equal(t, nilSlot, l.head)
	require.Equal(t, nilSlot, l.tail)
}

func TestNewArenaSinglyLinkedList_Options(t *testing.T) {
	require.Panics(t, func() {
		NewArenaSinglyLinkedList(1, WithArenaCapacity(0))
	})
	require.Panics(t, func() {
		NewArenaSinglyLinkedList(1, WithArenaCapacity(-3))
	})
	l := NewArenaSinglyLinkedList(1, nil, WithArenaCapacity(16)).(*arenaSinglyLinkedList)
	require.Equal(t, 16, cap(l.slots))
	require.Equal(t, []int{1}, l.Values())

	var zero arenaNodeElement
	require.Zero(t, zero.GetValue())
	require.False(t, zero.HasNext())
	require.Nil(t, zero.GetNext())
}
