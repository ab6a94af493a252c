// Package metrics は認証ゲートウェイの判定結果をPrometheusで計測する。
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Noop は何も計測しない実装。
type Noop struct{}

func (Noop) ObserveAuth(string)     {}
func (Noop) IncLogin(string)        {}
func (Noop) IncRegistration(string) {}

// Prom はPrometheusのカウンターで計測する実装。
// サーバーごとに専用のレジストリを持つ。
type Prom struct {
	registry      *prometheus.Registry
	authDecisions *prometheus.CounterVec
	logins        *prometheus.CounterVec
	registrations *prometheus.CounterVec
}

// NewProm は指定した名前空間でカウンターを登録したPromを生成する。
func NewProm(namespace string) *Prom {
	p := &Prom{
		registry: prometheus.NewRegistry(),
		authDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_decisions_total",
			Help:      "Gateway authentication decisions by result",
		}, []string{"result"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Login attempts by status",
		}, []string{"status"}),
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "Registration attempts by status",
		}, []string{"status"}),
	}
	p.registry.MustRegister(
		p.authDecisions,
		p.logins,
		p.registrations,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return p
}

// ObserveAuth は認証判定の結果を記録する。
func (p *Prom) ObserveAuth(result string) {
	p.authDecisions.WithLabelValues(result).Inc()
}

// IncLogin はログイン試行の結果を記録する。
func (p *Prom) IncLogin(status string) {
	p.logins.WithLabelValues(status).Inc()
}

// IncRegistration は登録試行の結果を記録する。
func (p *Prom) IncRegistration(status string) {
	p.registrations.WithLabelValues(status).Inc()
}

// Handler はメトリクスを公開するHTTPハンドラを返す。
func (p *Prom) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}
