package bridge

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	signalRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_signal_requests_total",
			Help: "Total signal requests received from the terminal",
		},
		[]string{"outcome"},
	)

	dealsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_deals_total",
			Help: "Total DEAL responses returned",
		},
		[]string{"direction"},
	)

	lastQuote = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bridge_last_quote",
			Help: "Last quoted price seen per symbol and side",
		},
		[]string{"symbol", "side"},
	)
)

func init() {
	prometheus.MustRegister(signalRequestsTotal)
	prometheus.MustRegister(dealsTotal)
	prometheus.MustRegister(lastQuote)
}

func observeRequest(outcome string) {
	signalRequestsTotal.WithLabelValues(outcome).Inc()
}

func observeDeal(direction string) {
	dealsTotal.WithLabelValues(direction).Inc()
}

func observeQuote(symbol string, bid, ask float64) {
	if symbol == "" {
		return
	}
	lastQuote.WithLabelValues(symbol, "bid").Set(bid)
	lastQuote.WithLabelValues(symbol, "ask").Set(ask)
}
