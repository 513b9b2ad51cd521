package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pocketbank/pocketbank/internal/domain"
	"github.com/pocketbank/pocketbank/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

const accountColumns = `id, child_id, frozen, interest_rate, penalty_interest_rate,
	cd_penalty_rate, last_interest_applied, total_interest_earned,
	service_fee_last_charged, overdraft_fee_last_charged, overdraft_fee_charged,
	created_at, updated_at`

// Create creates a new account.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO accounts (`+accountColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		account.ID,
		account.ChildID,
		account.Frozen,
		decimalToNumeric(account.InterestRate),
		decimalToNumeric(account.PenaltyInterestRate),
		decimalToNumeric(account.CDPenaltyRate),
		timePtrToPgTimestamptz(account.LastInterestApplied),
		decimalToNumeric(account.TotalInterestEarned),
		timePtrToPgTimestamptz(account.ServiceFeeLastCharged),
		timePtrToPgTimestamptz(account.OverdraftFeeLastCharged),
		account.OverdraftFeeCharged,
		timeToPgTimestamptz(account.CreatedAt),
		timeToPgTimestamptz(account.UpdatedAt),
	)

	return err
}

// GetByChildID retrieves the account belonging to a child.
func (r *AccountRepository) GetByChildID(ctx context.Context, childID string) (*domain.Account, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE child_id = $1`,
		childID,
	)

	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return account, nil
}

// Update persists the account's rates and checkpoint fields.
func (r *AccountRepository) Update(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	_, err := unwrap(r.pool, tx).Exec(ctx, `
		UPDATE accounts
		SET frozen = $2,
			interest_rate = $3,
			penalty_interest_rate = $4,
			cd_penalty_rate = $5,
			last_interest_applied = $6,
			total_interest_earned = $7,
			service_fee_last_charged = $8,
			overdraft_fee_last_charged = $9,
			overdraft_fee_charged = $10,
			updated_at = $11
		WHERE id = $1`,
		account.ID,
		account.Frozen,
		decimalToNumeric(account.InterestRate),
		decimalToNumeric(account.PenaltyInterestRate),
		decimalToNumeric(account.CDPenaltyRate),
		timePtrToPgTimestamptz(account.LastInterestApplied),
		decimalToNumeric(account.TotalInterestEarned),
		timePtrToPgTimestamptz(account.ServiceFeeLastCharged),
		timePtrToPgTimestamptz(account.OverdraftFeeLastCharged),
		account.OverdraftFeeCharged,
		timeToPgTimestamptz(account.UpdatedAt),
	)

	return err
}

// List returns every account, ordered by child ID for deterministic sweeps.
func (r *AccountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		ORDER BY child_id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		account                                             domain.Account
		interestRate, penaltyRate, cdPenaltyRate, totalEarn pgtype.Numeric
		lastApplied, serviceCharged, overdraftCharged       pgtype.Timestamptz
	)

	err := row.Scan(
		&account.ID,
		&account.ChildID,
		&account.Frozen,
		&interestRate,
		&penaltyRate,
		&cdPenaltyRate,
		&lastApplied,
		&totalEarn,
		&serviceCharged,
		&overdraftCharged,
		&account.OverdraftFeeCharged,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	account.InterestRate = numericToDecimal(interestRate)
	account.PenaltyInterestRate = numericToDecimal(penaltyRate)
	account.CDPenaltyRate = numericToDecimal(cdPenaltyRate)
	account.TotalInterestEarned = numericToDecimal(totalEarn)
	account.LastInterestApplied = pgTimestamptzToTimePtr(lastApplied)
	account.ServiceFeeLastCharged = pgTimestamptzToTimePtr(serviceCharged)
	account.OverdraftFeeLastCharged = pgTimestamptzToTimePtr(overdraftCharged)

	return &account, nil
}
