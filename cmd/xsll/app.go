package main

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/benz9527/xsll/lib/infra"
	"github.com/benz9527/xsll/lib/list"
	"github.com/benz9527/xsll/observability"
	"github.com/benz9527/xsll/xlog"
)

type metricsMode string

const (
	metricsOff        metricsMode = "off"
	metricsConsole    metricsMode = "console"
	metricsPrometheus metricsMode = "prometheus"
)

func parseMetricsMode(s string) metricsMode {
	s = strings.ToLower(strings.TrimSpace(s))
	return metricsMode(lo.Ternary(s == "", string(metricsOff), s))
}

type appCfg struct {
	encoder string
	metrics metricsMode
	arena   bool
	writer  io.Writer // Nil means stdout.
}

func loadAppCfg() appCfg {
	return appCfg{
		encoder: os.Getenv("XSLL_LOG_ENCODER"),
		metrics: parseMetricsMode(os.Getenv("XSLL_METRICS")),
		arena:   strings.EqualFold(os.Getenv("XSLL_LIST"), "arena"),
	}
}

func newLogger(cfg appCfg) xlog.XLogger {
	opts := []xlog.XLoggerOption{
		xlog.WithXLoggerEncoder(xlog.ParseEncoder(cfg.encoder)),
	}
	if cfg.writer != nil {
		opts = append(opts, xlog.WithXLoggerCustomWriter(cfg.writer))
	}
	return xlog.NewXLogger(opts...)
}

func newMeterProvider(lc fx.Lifecycle, cfg appCfg, logger xlog.XLogger) (metric.MeterProvider, error) {
	switch cfg.metrics {
	case metricsConsole:
		opts := []stdoutmetric.Option{stdoutmetric.WithPrettyPrint()}
		if cfg.writer != nil {
			opts = append(opts, stdoutmetric.WithWriter(cfg.writer))
		}
		mp, err := observability.NewConsoleMetricsExporter(time.Minute, 5*time.Second, opts...)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.StopHook(mp.Shutdown))
		return mp, nil
	case metricsPrometheus:
		reg := promclient.NewRegistry()
		mp, err := observability.NewPrometheusMetricsExporter(prometheus.WithRegisterer(reg))
		if err != nil {
			return nil, err
		}
		lc.Append(fx.StopHook(func(ctx context.Context) error {
			families, err := reg.Gather()
			if err != nil {
				logger.ErrorStack(infra.WrapErrorStackWithMessage(err, "[xsll] gather metrics"), "prometheus gather failed")
			}
			for _, f := range families {
				logger.Info("prometheus metric family",
					zap.String("name", f.GetName()),
					zap.Int("series", len(f.GetMetric())),
				)
			}
			return multierr.Append(err, mp.Shutdown(ctx))
		}))
		return mp, nil
	case metricsOff:
		return noop.NewMeterProvider(), nil
	}
	return nil, infra.NewErrorStack("[xsll] unknown metrics mode " + string(cfg.metrics))
}

func newList(cfg appCfg, mp metric.MeterProvider) (list.SinglyLinkedList, error) {
	var (
		l    list.SinglyLinkedList
		kind = "pointer"
	)
	if cfg.arena {
		kind = "arena"
		l = list.NewArenaSinglyLinkedList(2)
	} else {
		l = list.NewSinglyLinkedList(2)
	}
	return observability.NewInstrumentedList(l,
		observability.WithInstrumentName(kind),
		observability.WithInstrumentMeterProvider(mp),
	)
}

type step struct {
	name  string
	apply func(l list.SinglyLinkedList) bool
}

// The list is built by construct(2) before the steps run.
var scenario = []step{
	{"prepend 1", func(l list.SinglyLinkedList) bool { return l.Prepend(1) }},
	{"append 5", func(l list.SinglyLinkedList) bool { return l.Append(5) }},
	{"insert 9 at 1", func(l list.SinglyLinkedList) bool { return l.Insert(1, 9) }},
	{"remove at 2", func(l list.SinglyLinkedList) bool {
		_, ok := l.Remove(2)
		return ok
	}},
	{"reverse", func(l list.SinglyLinkedList) bool {
		l.Reverse()
		return true
	}},
	{"reverse again", func(l list.SinglyLinkedList) bool {
		l.Reverse()
		return true
	}},
	{"get at 3", func(l list.SinglyLinkedList) bool {
		_, ok := l.Get(3)
		return ok
	}},
}

func runScenario(logger xlog.XLogger, l list.SinglyLinkedList) error {
	logger.Info("list constructed", zap.Ints("values", l.Values()))
	lo.ForEach(scenario, func(s step, _ int) {
		ok := s.apply(l)
		logger.Info("list step",
			zap.String("step", s.name),
			zap.Bool("ok", ok),
			zap.Ints("values", l.Values()),
		)
	})
	l.Print(logger)
	return l.Validate()
}

func registerScenario(lc fx.Lifecycle, shutdowner fx.Shutdowner, logger xlog.XLogger, l list.SinglyLinkedList) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Banner(banner{})
			if err := runScenario(logger, l); err != nil {
				logger.ErrorStack(err, "list scenario failed")
				return err
			}
			if err := shutdowner.Shutdown(); err != nil {
				logger.Warn("list demo shutdown signal not delivered", zap.Error(err))
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			_ = observability.Unregister(l)
			// Syncing stdout may fail with EINVAL on some terminals.
			_ = logger.Sync()
			return nil
		},
	})
}

func appOptions(cfg appCfg) fx.Option {
	return fx.Options(
		fx.Supply(cfg),
		fx.Provide(
			newLogger,
			newMeterProvider,
			newList,
		),
		fx.WithLogger(func(logger xlog.XLogger) fxevent.Logger {
			return xlog.NewFxXLogger(logger)
		}),
		fx.Invoke(registerScenario),
	)
}

type banner struct{}

func (banner) JSON() string {
	return `{"name":"xsll","desc":"singly linked list demo"}`
}

func (banner) PlainText() string {
	return "xsll: singly linked list demo"
}
