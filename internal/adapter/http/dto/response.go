package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pocketbank/pocketbank/internal/domain"
)

// ErrorResponse is the error envelope for all endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID                  string          `json:"id"`
	ChildID             string          `json:"child_id"`
	Frozen              bool            `json:"frozen"`
	InterestRate        decimal.Decimal `json:"interest_rate"`
	PenaltyInterestRate decimal.Decimal `json:"penalty_interest_rate"`
	CDPenaltyRate       decimal.Decimal `json:"cd_penalty_rate"`
	LastInterestApplied *time.Time      `json:"last_interest_applied,omitempty"`
	TotalInterestEarned decimal.Decimal `json:"total_interest_earned"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// AccountFromDomain converts a domain account to a response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:                  a.ID,
		ChildID:             a.ChildID,
		Frozen:              a.Frozen,
		InterestRate:        a.InterestRate,
		PenaltyInterestRate: a.PenaltyInterestRate,
		CDPenaltyRate:       a.CDPenaltyRate,
		LastInterestApplied: a.LastInterestApplied,
		TotalInterestEarned: a.TotalInterestEarned,
		CreatedAt:           a.CreatedAt,
		UpdatedAt:           a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}

	return result
}

// BalanceResponse carries a derived balance.
type BalanceResponse struct {
	ChildID string          `json:"child_id"`
	Balance decimal.Decimal `json:"balance"`
	AsOf    *time.Time      `json:"as_of,omitempty"`
}

// EntryResponse represents a ledger entry in API responses.
type EntryResponse struct {
	ID          string          `json:"id"`
	ChildID     string          `json:"child_id"`
	Kind        string          `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	Memo        string          `json:"memo"`
	InitiatedBy string          `json:"initiated_by"`
	Source      string          `json:"source"`
	PeriodDate  *time.Time      `json:"period_date,omitempty"`
	Timestamp   time.Time       `json:"timestamp"`
}

// EntryFromDomain converts a domain entry to a response.
func EntryFromDomain(e *domain.Entry) *EntryResponse {
	return &EntryResponse{
		ID:          e.ID,
		ChildID:     e.ChildID,
		Kind:        string(e.Kind),
		Amount:      e.Amount,
		Memo:        e.Memo,
		InitiatedBy: e.InitiatedBy,
		Source:      string(e.Source),
		PeriodDate:  e.PeriodDate,
		Timestamp:   e.Timestamp,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.Entry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}

	return result
}

// CDResponse represents a certificate of deposit in API responses.
type CDResponse struct {
	ID           string          `json:"id"`
	ChildID      string          `json:"child_id"`
	ParentID     string          `json:"parent_id"`
	Amount       decimal.Decimal `json:"amount"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	TermDays     int             `json:"term_days"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	AcceptedAt   *time.Time      `json:"accepted_at,omitempty"`
	MaturesAt    *time.Time      `json:"matures_at,omitempty"`
	RedeemedAt   *time.Time      `json:"redeemed_at,omitempty"`
}

// CDFromDomain converts a domain certificate to a response.
func CDFromDomain(cd *domain.CertificateDeposit) *CDResponse {
	return &CDResponse{
		ID:           cd.ID,
		ChildID:      cd.ChildID,
		ParentID:     cd.ParentID,
		Amount:       cd.Amount,
		InterestRate: cd.InterestRate,
		TermDays:     cd.TermDays,
		Status:       string(cd.Status),
		CreatedAt:    cd.CreatedAt,
		AcceptedAt:   cd.AcceptedAt,
		MaturesAt:    cd.MaturesAt,
		RedeemedAt:   cd.RedeemedAt,
	}
}

// CDsFromDomain converts domain certificates to responses.
func CDsFromDomain(cds []*domain.CertificateDeposit) []*CDResponse {
	result := make([]*CDResponse, len(cds))
	for i, cd := range cds {
		result[i] = CDFromDomain(cd)
	}

	return result
}

// LoanResponse represents a loan in API responses.
type LoanResponse struct {
	ID                  string          `json:"id"`
	ChildID             string          `json:"child_id"`
	PrincipalRemaining  decimal.Decimal `json:"principal_remaining"`
	InterestRate        decimal.Decimal `json:"interest_rate"`
	Status              string          `json:"status"`
	LastInterestApplied *time.Time      `json:"last_interest_applied,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// LoanFromDomain converts a domain loan to a response.
func LoanFromDomain(l *domain.Loan) *LoanResponse {
	return &LoanResponse{
		ID:                  l.ID,
		ChildID:             l.ChildID,
		PrincipalRemaining:  l.PrincipalRemaining,
		InterestRate:        l.InterestRate,
		Status:              string(l.Status),
		LastInterestApplied: l.LastInterestApplied,
		CreatedAt:           l.CreatedAt,
		UpdatedAt:           l.UpdatedAt,
	}
}

// LoansFromDomain converts domain loans to responses.
func LoansFromDomain(loans []*domain.Loan) []*LoanResponse {
	result := make([]*LoanResponse, len(loans))
	for i, l := range loans {
		result[i] = LoanFromDomain(l)
	}

	return result
}

// LoanTransactionResponse represents a loan event in API responses.
type LoanTransactionResponse struct {
	ID        string          `json:"id"`
	LoanID    string          `json:"loan_id"`
	Type      string          `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	Memo      string          `json:"memo"`
	Timestamp time.Time       `json:"timestamp"`
}

// LoanTransactionsFromDomain converts domain loan transactions to responses.
func LoanTransactionsFromDomain(txs []*domain.LoanTransaction) []*LoanTransactionResponse {
	result := make([]*LoanTransactionResponse, len(txs))
	for i, tx := range txs {
		result[i] = &LoanTransactionResponse{
			ID:        tx.ID,
			LoanID:    tx.LoanID,
			Type:      tx.Type,
			Amount:    tx.Amount,
			Memo:      tx.Memo,
			Timestamp: tx.Timestamp,
		}
	}

	return result
}

// ChargeResponse represents a recurring charge in API responses.
type ChargeResponse struct {
	ID           string          `json:"id"`
	ChildID      string          `json:"child_id"`
	Amount       decimal.Decimal `json:"amount"`
	Kind         string          `json:"kind"`
	Memo         string          `json:"memo"`
	IntervalDays int             `json:"interval_days"`
	NextRun      time.Time       `json:"next_run"`
	Active       bool            `json:"active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ChargeFromDomain converts a domain charge to a response.
func ChargeFromDomain(rc *domain.RecurringCharge) *ChargeResponse {
	return &ChargeResponse{
		ID:           rc.ID,
		ChildID:      rc.ChildID,
		Amount:       rc.Amount,
		Kind:         string(rc.Kind),
		Memo:         rc.Memo,
		IntervalDays: rc.IntervalDays,
		NextRun:      rc.NextRun,
		Active:       rc.Active,
		CreatedAt:    rc.CreatedAt,
		UpdatedAt:    rc.UpdatedAt,
	}
}

// ChargesFromDomain converts domain charges to responses.
func ChargesFromDomain(charges []*domain.RecurringCharge) []*ChargeResponse {
	result := make([]*ChargeResponse, len(charges))
	for i, rc := range charges {
		result[i] = ChargeFromDomain(rc)
	}

	return result
}

// PromotionResponse reports how many accounts a promotion touched.
type PromotionResponse struct {
	AccountsCredited int `json:"accounts_affected"`
}

// SettingsResponse represents the site-wide settings.
type SettingsResponse struct {
	SiteName                   string          `json:"site_name"`
	CurrencySymbol             string          `json:"currency_symbol"`
	DefaultInterestRate        decimal.Decimal `json:"default_interest_rate"`
	DefaultPenaltyInterestRate decimal.Decimal `json:"default_penalty_interest_rate"`
	DefaultCDPenaltyRate       decimal.Decimal `json:"default_cd_penalty_rate"`
	ServiceFeeAmount           decimal.Decimal `json:"service_fee_amount"`
	ServiceFeeIsPercentage     bool            `json:"service_fee_is_percentage"`
	OverdraftFeeAmount         decimal.Decimal `json:"overdraft_fee_amount"`
	OverdraftFeeIsPercentage   bool            `json:"overdraft_fee_is_percentage"`
	OverdraftFeeDaily          bool            `json:"overdraft_fee_daily"`
}

// SettingsFromDomain converts domain settings to a response.
func SettingsFromDomain(s *domain.Settings) *SettingsResponse {
	return &SettingsResponse{
		SiteName:                   s.SiteName,
		CurrencySymbol:             s.CurrencySymbol,
		DefaultInterestRate:        s.DefaultInterestRate,
		DefaultPenaltyInterestRate: s.DefaultPenaltyInterestRate,
		DefaultCDPenaltyRate:       s.DefaultCDPenaltyRate,
		ServiceFeeAmount:           s.ServiceFeeAmount,
		ServiceFeeIsPercentage:     s.ServiceFeeIsPercentage,
		OverdraftFeeAmount:         s.OverdraftFeeAmount,
		OverdraftFeeIsPercentage:   s.OverdraftFeeIsPercentage,
		OverdraftFeeDaily:          s.OverdraftFeeDaily,
	}
}
