package worker

import "github.com/prometheus/client_golang/prometheus"

func init() {
	prometheus.MustRegister(importMessagesCounter)
}

var importMessagesCounter = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "tradedesk_worker_import_messages_total",
		Help: "Total number of import job messages handled by outcome",
	},
	[]string{"status"},
)
