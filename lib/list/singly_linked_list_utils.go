package list

import (
	"errors"
	"iter"

	"go.uber.org/zap"

	"github.com/benz9527/xsll/xlog"
)

var (
	ErrListEndsMismatch    = errors.New("[list] length, head and tail disagree on emptiness")
	ErrListLengthMismatch  = errors.New("[list] cached length mismatches the chain size")
	ErrListCycleOrOverflow = errors.New("[list] chain is longer than the cached length or has a cycle")
	ErrListTailNotLast     = errors.New("[list] tail has a successor")
	ErrListTailUnreachable = errors.New("[list] tail is unreachable from head")
	ErrArenaSlotLeak       = errors.New("[list] arena slots are neither linked nor free")
	ErrArenaFreeSlotLinked = errors.New("[list] arena free slot is still linked")
)

func collectValues(seq iter.Seq[int], hint int) []int {
	if hint < 0 {
		hint = 0
	}
	values := make([]int, 0, hint)
	for v := range seq {
		values = append(values, v)
	}
	return values
}

func printList(logger xlog.XLogger, kind string, l SinglyLinkedList) {
	if logger == nil || l == nil {
		return
	}
	idx := 0
	for v := range l.All() {
		logger.Debug("list element", zap.Int("idx", idx), zap.Int("value", v))
		idx++
	}
	logger.Debug("list summary", zap.String("kind", kind), zap.Int("len", l.Len()))
}
