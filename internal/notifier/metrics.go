package notifier

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	dispatchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oshirase_dispatch_total",
			Help: "Total notification dispatches by payload type and outcome.",
		},
		[]string{"type", "outcome"},
	)
	dispatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "oshirase_dispatch_duration_seconds",
			Help:    "Duration of notification dispatches including the chat platform round trips.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"type"},
	)
)

const (
	outcomeSent        = "sent"
	outcomeUnknownType = "unknown_type"
	outcomeNoChannel   = "channel_unavailable"
	outcomeSendFailed  = "send_failed"
	outcomePanic       = "panic"
)

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return outcomeSent
	case errors.Is(err, ErrUnknownType):
		return outcomeUnknownType
	case errors.Is(err, ErrChannelUnavailable):
		return outcomeNoChannel
	case errors.Is(err, ErrSendFailed):
		return outcomeSendFailed
	default:
		return outcomePanic
	}
}
