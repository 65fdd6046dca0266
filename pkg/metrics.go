package pkg

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// AIRequests counts calls to the completion API by service tag and outcome
// (ok, upstream_error, rate_limited).
var AIRequests = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "ai_requests_total",
		Help: "Calls to the remote completion API.",
	},
	[]string{"service", "outcome"},
)

// LedgerOperations counts credit ledger operations by entry type
var LedgerOperations = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "credit_ledger_operations_total",
		Help: "Successful credit ledger operations.",
	},
	[]string{"type"},
)

// InsufficientCredits counts deductions rejected by the balance guard
var InsufficientCredits = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "credit_ledger_insufficient_total",
		Help: "Deductions rejected for insufficient balance.",
	},
)
