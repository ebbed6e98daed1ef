package observability

import (
	"context"
	"sync/atomic"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/benz9527/xsll/lib/infra"
	"github.com/benz9527/xsll/lib/list"
)

const (
	listOpsMetricName = "xsll.list.ops"
	listLenMetricName = "xsll.list.length"
)

var _ list.SinglyLinkedList = (*instrumentedList)(nil)

// instrumentedList counts every mutation and lookup of the wrapped list.
// The length is cached in an atomic, because the gauge callback runs on
// the goroutine of the metric reader.
type instrumentedList struct {
	list.SinglyLinkedList
	ops      metric.Int64Counter
	reg      metric.Registration
	length   atomic.Int64
	listName attribute.KeyValue
}

type instrumentCfg struct {
	name     string
	provider metric.MeterProvider
}

type InstrumentOption func(cfg *instrumentCfg) error

func WithInstrumentName(name string) InstrumentOption {
	return func(cfg *instrumentCfg) error {
		if name == "" {
			return infra.NewErrorStack("[observability] empty list name")
		}
		cfg.name = name
		return nil
	}
}

// WithInstrumentMeterProvider overrides the global meter provider.
func WithInstrumentMeterProvider(mp metric.MeterProvider) InstrumentOption {
	return func(cfg *instrumentCfg) error {
		if mp == nil {
			return infra.NewErrorStack("[observability] nil meter provider")
		}
		cfg.provider = mp
		return nil
	}
}

// NewInstrumentedList decorates l with the otel instruments.
// The returned list behaves exactly as l does.
func NewInstrumentedList(l list.SinglyLinkedList, opts ...InstrumentOption) (list.SinglyLinkedList, error) {
	if l == nil {
		return nil, infra.NewErrorStack("[observability] nil list")
	}
	cfg := &instrumentCfg{name: "default"}
	for _, o := range opts {
		if o == nil {
			continue
		}
		if err := o(cfg); err != nil {
			return nil, err
		}
	}
	if cfg.provider == nil {
		cfg.provider = otel.GetMeterProvider()
	}

	meter := cfg.provider.Meter("xsll/list/" + cfg.name)
	ops, err := meter.Int64Counter(
		listOpsMetricName,
		metric.WithDescription("The operations applied to the list."),
		metric.WithUnit("{op}"),
	)
	if err != nil {
		return nil, infra.WrapErrorStackWithMessage(err, "[observability] list ops counter")
	}
	length, err := meter.Int64ObservableGauge(
		listLenMetricName,
		metric.WithDescription("The number of elements in the list."),
		metric.WithUnit("{element}"),
	)
	if err != nil {
		return nil, infra.WrapErrorStackWithMessage(err, "[observability] list length gauge")
	}

	il := &instrumentedList{
		SinglyLinkedList: l,
		ops:              ops,
		listName:         attribute.String("list", cfg.name),
	}
	il.length.Store(int64(l.Len()))
	il.reg, err = meter.RegisterCallback(func(ctx context.Context, o metric.Observer) error {
		o.ObserveInt64(length, il.length.Load(), metric.WithAttributes(il.listName))
		return nil
	}, length)
	if err != nil {
		return nil, infra.WrapErrorStackWithMessage(err, "[observability] list length callback")
	}
	return il, nil
}

// MustNewInstrumentedList panics if NewInstrumentedList fails.
func MustNewInstrumentedList(l list.SinglyLinkedList, opts ...InstrumentOption) list.SinglyLinkedList {
	return lo.Must(NewInstrumentedList(l, opts...))
}

// Unregister detaches the length gauge callback from the meter.
func Unregister(l list.SinglyLinkedList) error {
	il, ok := l.(*instrumentedList)
	if !ok || il.reg == nil {
		return nil
	}
	return il.reg.Unregister()
}

func (l *instrumentedList) record(op string, ok bool) {
	l.length.Store(int64(l.SinglyLinkedList.Len()))
	l.ops.Add(context.Background(), 1, metric.WithAttributes(
		l.listName,
		attribute.String("op", op),
		attribute.Bool("ok", ok),
	))
}

func (l *instrumentedList) Append(v int) bool {
	ok := l.SinglyLinkedList.Append(v)
	l.record("append", ok)
	return ok
}

func (l *instrumentedList) Prepend(v int) bool {
	ok := l.SinglyLinkedList.Prepend(v)
	l.record("prepend", ok)
	return ok
}

func (l *instrumentedList) PopFirst() (int, bool) {
	v, ok := l.SinglyLinkedList.PopFirst()
	l.record("pop_first", ok)
	return v, ok
}

func (l *instrumentedList) Pop() (int, bool) {
	v, ok := l.SinglyLinkedList.Pop()
	l.record("pop", ok)
	return v, ok
}

func (l *instrumentedList) Get(idx int) (list.SinglyNodeElement, bool) {
	e, ok := l.SinglyLinkedList.Get(idx)
	l.record("get", ok)
	return e, ok
}

func (l *instrumentedList) SetValue(idx int, v int) bool {
	ok := l.SinglyLinkedList.SetValue(idx, v)
	l.record("set_value", ok)
	return ok
}

func (l *instrumentedList) Insert(idx int, v int) bool {
	ok := l.SinglyLinkedList.Insert(idx, v)
	l.record("insert", ok)
	return ok
}

func (l *instrumentedList) Remove(idx int) (int, bool) {
	v, ok := l.SinglyLinkedList.Remove(idx)
	l.record("remove", ok)
	return v, ok
}

func (l *instrumentedList) Reverse() {
	l.SinglyLinkedList.Reverse()
	l.record("reverse", true)
}

func (l *instrumentedList) Clear() {
	l.SinglyLinkedList.Clear()
	l.record("clear", true)
}
