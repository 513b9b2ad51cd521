package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Ledger metrics
	EntriesPosted  *prometheus.CounterVec
	EntryErrors    *prometheus.CounterVec
	AccountBalance *prometheus.GaugeVec

	// Accrual metrics
	InterestEntriesPosted prometheus.Counter
	InterestAmountPosted  prometheus.Counter
	AccrualDuration       prometheus.Histogram

	// Fee metrics
	ServiceFeesCharged   prometheus.Counter
	OverdraftFeesCharged prometheus.Counter

	// Certificate metrics
	CDsAccepted prometheus.Counter
	CDsRedeemed *prometheus.CounterVec

	// Loan metrics
	LoanInterestPosted prometheus.Counter
	LoanPayments       prometheus.Counter

	// Recurring charge metrics
	RecurringChargesPosted prometheus.Counter

	// Maintenance metrics
	MaintenanceRuns     *prometheus.CounterVec
	MaintenanceDuration prometheus.Histogram
	AccountSweepErrors  prometheus.Counter
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		EntriesPosted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pocketbank_entries_posted_total",
				Help: "Total number of ledger entries posted by source",
			},
			[]string{"source"},
		),
		EntryErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pocketbank_entry_errors_total",
				Help: "Total number of rejected ledger entries by reason",
			},
			[]string{"reason"},
		),
		AccountBalance: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "pocketbank_account_balance",
				Help: "Last computed account balance",
			},
			[]string{"child_id"},
		),

		InterestEntriesPosted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pocketbank_interest_entries_posted_total",
			Help: "Total number of interest entries posted",
		}),
		InterestAmountPosted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pocketbank_interest_amount_posted_total",
			Help: "Cumulative signed interest amount posted",
		}),
		AccrualDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "pocketbank_accrual_duration_seconds",
			Help:    "Duration of per-account interest accrual",
			Buckets: prometheus.DefBuckets,
		}),

		ServiceFeesCharged: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pocketbank_service_fees_charged_total",
			Help: "Total number of service fees charged",
		}),
		OverdraftFeesCharged: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pocketbank_overdraft_fees_charged_total",
			Help: "Total number of overdraft fees charged",
		}),

		CDsAccepted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pocketbank_cds_accepted_total",
			Help: "Total number of certificates accepted",
		}),
		CDsRedeemed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pocketbank_cds_redeemed_total",
				Help: "Total number of certificates redeemed by kind",
			},
			[]string{"kind"},
		),

		LoanInterestPosted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pocketbank_loan_interest_posted_total",
			Help: "Total number of loan interest transactions posted",
		}),
		LoanPayments: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pocketbank_loan_payments_total",
			Help: "Total number of loan payments recorded",
		}),

		RecurringChargesPosted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pocketbank_recurring_charges_posted_total",
			Help: "Total number of recurring charge entries posted",
		}),

		MaintenanceRuns: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pocketbank_maintenance_runs_total",
				Help: "Total daily maintenance runs by result",
			},
			[]string{"result"},
		),
		MaintenanceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "pocketbank_maintenance_duration_seconds",
			Help:    "Duration of a full daily maintenance sweep",
			Buckets: []float64{.1, .5, 1, 5, 10, 30, 60, 300},
		}),
		AccountSweepErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pocketbank_account_sweep_errors_total",
			Help: "Total accounts skipped due to errors during maintenance",
		}),
	}
}
