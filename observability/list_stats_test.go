package observability

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/benz9527/xsll/lib/list"
)

type opKey struct {
	op string
	ok bool
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) (map[opKey]int64, int64) {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	ops := make(map[opKey]int64)
	length := int64(-1)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch m.Name {
			case listOpsMetricName:
				sum, ok := m.Data.(metricdata.Sum[int64])
				require.True(t, ok)
				for _, dp := range sum.DataPoints {
					op, _ := dp.Attributes.Value(attribute.Key("op"))
					succ, _ := dp.Attributes.Value(attribute.Key("ok"))
					ops[opKey{op: op.AsString(), ok: succ.AsBool()}] = dp.Value
				}
			case listLenMetricName:
				gauge, ok := m.Data.(metricdata.Gauge[int64])
				require.True(t, ok)
				require.Len(t, gauge.DataPoints, 1)
				length = gauge.DataPoints[0].Value
			}
		}
	}
	return ops, length
}

func TestInstrumentedList(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() {
		require.NoError(t, mp.Shutdown(context.Background()))
	}()

	l, err := NewInstrumentedList(
		list.NewSinglyLinkedList(1),
		WithInstrumentName("test"),
		WithInstrumentMeterProvider(mp),
	)
	require.NoError(t, err)

	_, length := collect(t, reader)
	require.Equal(t, int64(1), length)

	require.True(t, l.Append(2))
	require.True(t, l.Append(3))
	require.True(t, l.Prepend(0))
	require.True(t, l.Insert(2, 9))
	require.False(t, l.Insert(10, 9))
	require.True(t, l.SetValue(0, -1))
	require.False(t, l.SetValue(-1, 0))
	_, ok := l.Get(4)
	require.True(t, ok)
	_, ok = l.Get(5)
	require.False(t, ok)
	v, ok := l.Remove(2)
	require.True(t, ok)
	require.Equal(t, 9, v)
	v, ok = l.Pop()
	require.True(t, ok)
	require.Equal(t, 3, v)
	v, ok = l.PopFirst()
	require.True(t, ok)
	require.Equal(t, -1, v)
	l.Reverse()
	require.Equal(t, []int{2, 1}, l.Values())
	require.NoError(t, l.Validate())

	ops, length := collect(t, reader)
	require.Equal(t, int64(2), length)
	require.Equal(t, map[opKey]int64{
		{"append", true}:     2,
		{"prepend", true}:    1,
		{"insert", true}:     1,
		{"insert", false}:    1,
		{"set_value", true}:  1,
		{"set_value", false}: 1,
		{"get", true}:        1,
		{"get", false}:       1,
		{"remove", true}:     1,
		{"pop", true}:        1,
		{"pop_first", true}:  1,
		{"reverse", true}:    1,
	}, ops)

	l.Clear()
	_, ok = l.PopFirst()
	require.False(t, ok)
	_, ok = l.Pop()
	require.False(t, ok)
	ops, length = collect(t, reader)
	require.Zero(t, length)
	require.Equal(t, int64(1), ops[opKey{"clear", true}])
	require.Equal(t, int64(1), ops[opKey{"pop_first", false}])
	require.Equal(t, int64(1), ops[opKey{"pop", false}])

	require.NoError(t, Unregister(l))
}

func TestNewInstrumentedList_Options(t *testing.T) {
	_, err := NewInstrumentedList(nil)
	require.Error(t, err)
	_, err = NewInstrumentedList(list.NewSinglyLinkedList(1), WithInstrumentName(""))
	require.Error(t, err)
	_, err = NewInstrumentedList(list.NewSinglyLinkedList(1), WithInstrumentMeterProvider(nil))
	require.Error(t, err)

	l := MustNewInstrumentedList(list.NewArenaSinglyLinkedList(7), nil)
	require.Equal(t, []int{7}, l.Values())
	require.NoError(t, Unregister(l))
	require.NoError(t, Unregister(list.NewSinglyLinkedList(1)))
	require.Panics(t, func() {
		MustNewInstrumentedList(nil)
	})
}

func TestNewConsoleMetricsExporter(t *testing.T) {
	buf := &bytes.Buffer{}
	mp, err := NewConsoleMetricsExporter(time.Hour, time.Second, stdoutmetric.WithWriter(buf))
	require.NoError(t, err)

	l := MustNewInstrumentedList(list.NewSinglyLinkedList(1))
	l.Append(2)
	require.NoError(t, mp.Shutdown(context.Background()))
	require.Contains(t, buf.String(), listOpsMetricName)
	require.Contains(t, buf.String(), listLenMetricName)
}

func TestNewPrometheusMetricsExporter(t *testing.T) {
	mp, err := NewPrometheusMetricsExporter()
	require.NoError(t, err)
	require.NotNil(t, mp)
	require.NoError(t, mp.Shutdown(context.Background()))
}
