package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pocketbank/pocketbank/internal/domain"
)

// SettingsRepository implements usecase.SettingsRepository against the
// singleton settings row. A missing row yields the compiled-in defaults.
type SettingsRepository struct {
	pool *pgxpool.Pool
}

// NewSettingsRepository creates a new SettingsRepository.
func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{pool: pool}
}

// Get loads the settings row.
func (r *SettingsRepository) Get(ctx context.Context) (*domain.Settings, error) {
	var (
		s                                      domain.Settings
		defInterest, defPenalty, defCDPenalty  pgtype.Numeric
		serviceFee, overdraftFee               pgtype.Numeric
	)

	err := r.pool.QueryRow(ctx, `
		SELECT site_name, currency_symbol,
			default_interest_rate, default_penalty_interest_rate,
			default_cd_penalty_rate,
			service_fee_amount, service_fee_is_percentage,
			overdraft_fee_amount, overdraft_fee_is_percentage,
			overdraft_fee_daily
		FROM settings
		WHERE id = 1`,
	).Scan(
		&s.SiteName,
		&s.CurrencySymbol,
		&defInterest,
		&defPenalty,
		&defCDPenalty,
		&serviceFee,
		&s.ServiceFeeIsPercentage,
		&overdraftFee,
		&s.OverdraftFeeIsPercentage,
		&s.OverdraftFeeDaily,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.DefaultSettings(), nil
		}

		return nil, err
	}

	s.DefaultInterestRate = numericToDecimal(defInterest)
	s.DefaultPenaltyInterestRate = numericToDecimal(defPenalty)
	s.DefaultCDPenaltyRate = numericToDecimal(defCDPenalty)
	s.ServiceFeeAmount = numericToDecimal(serviceFee)
	s.OverdraftFeeAmount = numericToDecimal(overdraftFee)

	return &s, nil
}

// Save upserts the settings row.
func (r *SettingsRepository) Save(ctx context.Context, settings *domain.Settings) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO settings (
			id, site_name, currency_symbol,
			default_interest_rate, default_penalty_interest_rate,
			default_cd_penalty_rate,
			service_fee_amount, service_fee_is_percentage,
			overdraft_fee_amount, overdraft_fee_is_percentage,
			overdraft_fee_daily
		)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			site_name = EXCLUDED.site_name,
			currency_symbol = EXCLUDED.currency_symbol,
			default_interest_rate = EXCLUDED.default_interest_rate,
			default_penalty_interest_rate = EXCLUDED.default_penalty_interest_rate,
			default_cd_penalty_rate = EXCLUDED.default_cd_penalty_rate,
			service_fee_amount = EXCLUDED.service_fee_amount,
			service_fee_is_percentage = EXCLUDED.service_fee_is_percentage,
			overdraft_fee_amount = EXCLUDED.overdraft_fee_amount,
			overdraft_fee_is_percentage = EXCLUDED.overdraft_fee_is_percentage,
			overdraft_fee_daily = EXCLUDED.overdraft_fee_daily`,
		settings.SiteName,
		settings.CurrencySymbol,
		decimalToNumeric(settings.DefaultInterestRate),
		decimalToNumeric(settings.DefaultPenaltyInterestRate),
		decimalToNumeric(settings.DefaultCDPenaltyRate),
		decimalToNumeric(settings.ServiceFeeAmount),
		settings.ServiceFeeIsPercentage,
		decimalToNumeric(settings.OverdraftFeeAmount),
		settings.OverdraftFeeIsPercentage,
		settings.OverdraftFeeDaily,
	)

	return err
}
