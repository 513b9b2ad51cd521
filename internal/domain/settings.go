package domain

import "github.com/shopspring/decimal"

// Settings is the site-wide configuration read by the fee and accrual
// engines. It is injected into the engines, never read from a global.
type Settings struct {
	SiteName       string
	CurrencySymbol string

	// Defaults seeded into new accounts.
	DefaultInterestRate        decimal.Decimal
	DefaultPenaltyInterestRate decimal.Decimal
	DefaultCDPenaltyRate       decimal.Decimal

	// ServiceFeeAmount is a flat fee, or a fraction of the balance when
	// ServiceFeeIsPercentage is set. Charged on the first of each month.
	ServiceFeeAmount       decimal.Decimal
	ServiceFeeIsPercentage bool

	// Overdraft fee configuration. Daily mode re-charges each day the
	// balance stays negative; otherwise the fee is charged once per
	// overdraft episode.
	OverdraftFeeAmount       decimal.Decimal
	OverdraftFeeIsPercentage bool
	OverdraftFeeDaily        bool
}

// DefaultSettings mirrors the seed values used when no settings row exists.
func DefaultSettings() *Settings {
	return &Settings{
		SiteName:                   "Pocket Bank",
		CurrencySymbol:             "$",
		DefaultInterestRate:        decimal.NewFromFloat(0.01),
		DefaultPenaltyInterestRate: decimal.NewFromFloat(0.02),
		DefaultCDPenaltyRate:       decimal.NewFromFloat(0.1),
		ServiceFeeAmount:           decimal.Zero,
		OverdraftFeeAmount:         decimal.Zero,
	}
}

// FeeFor computes a fee against a balance: a flat amount, or a fraction of
// the absolute balance in percentage mode. Rounded to cents.
func FeeFor(balance, amount decimal.Decimal, isPercentage bool) decimal.Decimal {
	if isPercentage {
		return balance.Abs().Mul(amount).Round(2)
	}

	return amount.Round(2)
}
