// Package metrics 把会话事件导出为 Prometheus 指标
//
// 指标只通过事件总线订阅获得，从不修改会话状态。
// 关闭时返回空实现，所有记录方法都是空操作。
package metrics

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/decker502/timelock/pkg/event"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultNamespace 指标名前缀
const DefaultNamespace = "timelock"

// Config 指标配置
type Config struct {
	Enabled       bool
	ListenAddress string // 例如 ":9090"，为空时不启动 HTTP 服务
	Path          string // 默认 /metrics
	Namespace     string // 默认 timelock
}

// Metrics 会话指标
type Metrics struct {
	config Config

	clockExpired     *prometheus.CounterVec
	livesLost        prometheus.Counter
	respawns         *prometheus.CounterVec
	terminalFailures prometheus.Counter
	recoveryFailures prometheus.Counter
	livesCurrent     prometheus.Gauge

	registry    *prometheus.Registry
	lastLives   int
	unsubscribe []func()
}

// New 创建指标集合；Enabled 为 false 时返回空实现
func New(cfg Config) *Metrics {
	if !cfg.Enabled {
		return &Metrics{config: cfg}
	}
	if cfg.Namespace == "" {
		cfg.Namespace = DefaultNamespace
	}
	if cfg.Path == "" {
		cfg.Path = "/metrics"
	}

	ns := cfg.Namespace
	m := &Metrics{
		config:   cfg,
		registry: prometheus.NewRegistry(),
		clockExpired: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "clock_expired_total",
			Help:      "Number of level clocks that reached zero",
		}, []string{"level"}),
		livesLost: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "lives_lost_total",
			Help:      "Number of lives consumed",
		}),
		respawns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "respawns_total",
			Help:      "Number of completed respawns",
		}, []string{"level"}),
		terminalFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "terminal_failures_total",
			Help:      "Number of times the terminal failure screen was shown",
		}),
		recoveryFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "recovery_failures_total",
			Help:      "Number of recoverable entities that could not be restored",
		}),
		livesCurrent: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "lives_current",
			Help:      "Current number of lives",
		}),
	}

	m.registry.MustRegister(
		m.clockExpired,
		m.livesLost,
		m.respawns,
		m.terminalFailures,
		m.recoveryFailures,
		m.livesCurrent,
	)
	return m
}

// Enabled 是否启用
func (m *Metrics) Enabled() bool {
	return m.registry != nil
}

// Registry 返回指标注册表（空实现返回 nil）
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Attach 订阅会话事件
// initialLives 是订阅时的生命数，用于计算后续的生命损失
func (m *Metrics) Attach(bus *event.Bus, initialLives int) {
	if !m.Enabled() {
		return
	}
	m.lastLives = initialLives
	m.livesCurrent.Set(float64(initialLives))

	m.unsubscribe = append(m.unsubscribe,
		bus.Subscribe(event.ClockExpired, func(e event.Event) {
			m.clockExpired.WithLabelValues(e.Label).Inc()
		}),
		bus.Subscribe(event.LivesChanged, m.onLivesChanged),
		bus.Subscribe(event.RespawnPerformed, func(e event.Event) {
			m.respawns.WithLabelValues(e.Label).Inc()
		}),
		bus.Subscribe(event.TerminalFailureShown, func(event.Event) {
			m.terminalFailures.Inc()
		}),
		bus.Subscribe(event.RecoveryFailed, func(event.Event) {
			m.recoveryFailures.Inc()
		}),
	)
}

// onLivesChanged 生命减少计入损失，重置和增加只更新 gauge
func (m *Metrics) onLivesChanged(e event.Event) {
	if e.Lives < m.lastLives {
		m.livesLost.Add(float64(m.lastLives - e.Lives))
	}
	m.lastLives = e.Lives
	m.livesCurrent.Set(float64(e.Lives))
}

// Detach 取消全部订阅
func (m *Metrics) Detach() {
	for _, unsub := range m.unsubscribe {
		unsub()
	}
	m.unsubscribe = nil
}

// Handler 返回 /metrics 处理器
func (m *Metrics) Handler() http.Handler {
	if m.registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Serve 启动指标 HTTP 服务，ctx 取消时关闭
// 未启用或未配置监听地址时立即返回 nil
func (m *Metrics) Serve(ctx context.Context) error {
	if !m.Enabled() || m.config.ListenAddress == "" {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle(m.config.Path, m.Handler())
	server := &http.Server{
		Addr:              m.config.ListenAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Printf("[Metrics] Serving on %s%s", m.config.ListenAddress, m.config.Path)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
