package reminders

import "github.com/prometheus/client_golang/prometheus"

func init() {
	prometheus.MustRegister(remindersCounter)
}

var remindersCounter = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "tradedesk_reminders_total",
		Help: "Total number of reminders processed by outcome",
	},
	[]string{"status"},
)
