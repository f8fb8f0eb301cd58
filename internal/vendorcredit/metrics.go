package vendorcredit

import "github.com/prometheus/client_golang/prometheus"

func init() {
	prometheus.MustRegister(importRowsTotal)
}

var importRowsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "tradedesk_import_rows_total",
		Help: "Total number of imported case rows by action",
	},
	[]string{"action"},
)
