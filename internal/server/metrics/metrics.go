// Package metrics holds the Prometheus counters of the auth server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Result label values.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultError   = "error"
	ResultDropped = "dropped"
)

// Metrics groups the server counters. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	Signups        *prometheus.CounterVec
	Logins         *prometheus.CounterVec
	Refreshes      *prometheus.CounterVec
	Activations    *prometheus.CounterVec
	MailDeliveries *prometheus.CounterVec
}

// New creates the counters and registers them with reg.
// Panics if registration fails (following prometheus convention).
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Signups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "redditclone_signups_total",
			Help: "Total number of signup attempts",
		}, []string{"result"}),
		Logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "redditclone_logins_total",
			Help: "Total number of login attempts",
		}, []string{"result"}),
		Refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "redditclone_token_refreshes_total",
			Help: "Total number of refresh token exchanges",
		}, []string{"result"}),
		Activations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "redditclone_account_activations_total",
			Help: "Total number of account activation attempts",
		}, []string{"result"}),
		MailDeliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "redditclone_mail_deliveries_total",
			Help: "Total number of notification deliveries",
		}, []string{"result"}),
	}

	reg.MustRegister(m.Signups, m.Logins, m.Refreshes, m.Activations, m.MailDeliveries)
	return m
}

func (m *Metrics) RecordSignup(result string) {
	if m == nil {
		return
	}
	m.Signups.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordLogin(result string) {
	if m == nil {
		return
	}
	m.Logins.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordRefresh(result string) {
	if m == nil {
		return
	}
	m.Refreshes.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordActivation(result string) {
	if m == nil {
		return
	}
	m.Activations.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordMailDelivery(result string) {
	if m == nil {
		return
	}
	m.MailDeliveries.WithLabelValues(result).Inc()
}
