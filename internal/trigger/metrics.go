package trigger

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var triggerReplies = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "oshirase_trigger_reply_total",
		Help: "Total trigger replies sent by trigger id.",
	},
	[]string{"trigger"},
)
