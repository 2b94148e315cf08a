package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess           = "success"
	OutcomeInsufficientFunds = "insufficient_funds"
	OutcomeError             = "error"
)

// SettlementMetrics counts purchase settlements and point movements.
type SettlementMetrics struct {
	settlements  *prometheus.CounterVec
	pointsEarned *prometheus.CounterVec
	pointsSpent  *prometheus.CounterVec
	cashPaid     *prometheus.CounterVec
}

func NewSettlementMetrics(reg *Registry, cfg Config) *SettlementMetrics {
	labels := cfg.constLabels()
	return &SettlementMetrics{
		settlements: register(reg.Registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "pointsale_settlements_total",
			Help:        "Purchase settlement attempts by strategy and outcome.",
			ConstLabels: labels,
		}, []string{"strategy", "outcome"})),
		pointsEarned: register(reg.Registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "pointsale_points_earned_total",
			Help:        "Loyalty points credited by committed settlements.",
			ConstLabels: labels,
		}, []string{"strategy"})),
		pointsSpent: register(reg.Registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "pointsale_points_spent_total",
			Help:        "Loyalty points consumed by committed settlements.",
			ConstLabels: labels,
		}, []string{"strategy"})),
		cashPaid: register(reg.Registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "pointsale_cash_paid_total",
			Help:        "Cash deducted from account balances by committed settlements.",
			ConstLabels: labels,
		}, []string{"strategy"})),
	}
}

// Observe records a settlement attempt. Point and cash counters only move on success.
func (m *SettlementMetrics) Observe(strategy, outcome string, earned, spent int64, cash float64) {
	if m == nil {
		return
	}
	m.settlements.WithLabelValues(strategy, outcome).Inc()
	if outcome != OutcomeSuccess {
		return
	}
	if earned > 0 {
		m.pointsEarned.WithLabelValues(strategy).Add(float64(earned))
	}
	if spent > 0 {
		m.pointsSpent.WithLabelValues(strategy).Add(float64(spent))
	}
	if cash > 0 {
		m.cashPaid.WithLabelValues(strategy).Add(cash)
	}
}
