package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pocketbank/pocketbank/internal/domain"
	"github.com/pocketbank/pocketbank/internal/usecase"
)

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc       func(ctx context.Context, account *domain.Account) error
	GetByChildIDFunc func(ctx context.Context, childID string) (*domain.Account, error)
	UpdateFunc       func(ctx context.Context, tx usecase.Transaction, account *domain.Account) error
	ListFunc         func(ctx context.Context) ([]*domain.Account, error)
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ChildID] = account
	return nil
}

func (m *MockAccountRepository) GetByChildID(ctx context.Context, childID string) (*domain.Account, error) {
	if m.GetByChildIDFunc != nil {
		return m.GetByChildIDFunc(ctx, childID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[childID]; ok {
		return acc, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) Update(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ChildID] = account
	return nil
}

func (m *MockAccountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	accounts := make([]*domain.Account, 0, len(m.accounts))
	for _, acc := range m.accounts {
		accounts = append(accounts, acc)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ChildID < accounts[j].ChildID })
	return accounts, nil
}

// MockEntryRepository is a mock implementation of EntryRepository. Listing
// preserves the repository ordering contract: timestamp ascending, entry ID
// as the tie-break.
type MockEntryRepository struct {
	mu      sync.RWMutex
	entries map[string]*domain.Entry

	CreateFunc func(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error
	DeleteFunc func(ctx context.Context, id string) error
}

func NewMockEntryRepository() *MockEntryRepository {
	return &MockEntryRepository{
		entries: make(map[string]*domain.Entry),
	}
}

func (m *MockEntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.ID] = entry
	return nil
}

func (m *MockEntryRepository) GetByID(ctx context.Context, id string) (*domain.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.entries[id]; ok {
		return e, nil
	}
	return nil, domain.ErrEntryNotFound
}

func (m *MockEntryRepository) Update(ctx context.Context, entry *domain.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[entry.ID]; !ok {
		return domain.ErrEntryNotFound
	}
	m.entries[entry.ID] = entry
	return nil
}

func (m *MockEntryRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[id]; !ok {
		return domain.ErrEntryNotFound
	}
	delete(m.entries, id)
	return nil
}

func (m *MockEntryRepository) ListByChild(ctx context.Context, childID string, since *time.Time) ([]*domain.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var entries []*domain.Entry
	for _, e := range m.entries {
		if e.ChildID != childID {
			continue
		}
		if since != nil && e.Timestamp.Before(*since) {
			continue
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Timestamp.Equal(entries[j].Timestamp) {
			return entries[i].ID < entries[j].ID
		}
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})
	return entries, nil
}

func (m *MockEntryRepository) SumBefore(ctx context.Context, childID string, t time.Time) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sum := decimal.Zero
	for _, e := range m.entries {
		if e.ChildID == childID && e.Timestamp.Before(t) {
			sum = sum.Add(e.Signed())
		}
	}
	return sum, nil
}

func (m *MockEntryRepository) BalanceAsOf(ctx context.Context, childID string, asOf *time.Time) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sum := decimal.Zero
	for _, e := range m.entries {
		if e.ChildID != childID {
			continue
		}
		if asOf != nil && e.Timestamp.After(*asOf) {
			continue
		}
		sum = sum.Add(e.Signed())
	}
	return sum, nil
}

func (m *MockEntryRepository) FirstEntryTime(ctx context.Context, childID string) (*time.Time, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var first *time.Time
	for _, e := range m.entries {
		if e.ChildID != childID {
			continue
		}
		if first == nil || e.Timestamp.Before(*first) {
			t := e.Timestamp
			first = &t
		}
	}
	return first, nil
}

// MockCDRepository is a mock implementation of CDRepository.
type MockCDRepository struct {
	mu  sync.RWMutex
	cds map[string]*domain.CertificateDeposit

	UpdateFunc func(ctx context.Context, tx usecase.Transaction, cd *domain.CertificateDeposit) error
}

func NewMockCDRepository() *MockCDRepository {
	return &MockCDRepository{
		cds: make(map[string]*domain.CertificateDeposit),
	}
}

func (m *MockCDRepository) Create(ctx context.Context, cd *domain.CertificateDeposit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cds[cd.ID] = cd
	return nil
}

func (m *MockCDRepository) GetByID(ctx context.Context, id string) (*domain.CertificateDeposit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if cd, ok := m.cds[id]; ok {
		return cd, nil
	}
	return nil, domain.ErrCDNotFound
}

func (m *MockCDRepository) Update(ctx context.Context, tx usecase.Transaction, cd *domain.CertificateDeposit) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, cd)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cds[cd.ID] = cd
	return nil
}

func (m *MockCDRepository) ListByChild(ctx context.Context, childID string) ([]*domain.CertificateDeposit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var cds []*domain.CertificateDeposit
	for _, cd := range m.cds {
		if cd.ChildID == childID {
			cds = append(cds, cd)
		}
	}
	sort.Slice(cds, func(i, j int) bool { return cds[i].ID < cds[j].ID })
	return cds, nil
}

func (m *MockCDRepository) ListMatured(ctx context.Context, now time.Time) ([]*domain.CertificateDeposit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var cds []*domain.CertificateDeposit
	for _, cd := range m.cds {
		if cd.Status == domain.CDAccepted && cd.MaturesAt != nil && !cd.MaturesAt.After(now) {
			cds = append(cds, cd)
		}
	}
	sort.Slice(cds, func(i, j int) bool { return cds[i].ID < cds[j].ID })
	return cds, nil
}

// MockLoanRepository is a mock implementation of LoanRepository.
type MockLoanRepository struct {
	mu    sync.RWMutex
	loans map[string]*domain.Loan
	txs   []*domain.LoanTransaction

	CreateTransactionFunc func(ctx context.Context, tx usecase.Transaction, ltx *domain.LoanTransaction) error
}

func NewMockLoanRepository() *MockLoanRepository {
	return &MockLoanRepository{
		loans: make(map[string]*domain.Loan),
	}
}

func (m *MockLoanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loans[loan.ID] = loan
	return nil
}

func (m *MockLoanRepository) GetByID(ctx context.Context, id string) (*domain.Loan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if loan, ok := m.loans[id]; ok {
		return loan, nil
	}
	return nil, domain.ErrLoanNotFound
}

func (m *MockLoanRepository) Update(ctx context.Context, tx usecase.Transaction, loan *domain.Loan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loans[loan.ID] = loan
	return nil
}

func (m *MockLoanRepository) ListByChild(ctx context.Context, childID string) ([]*domain.Loan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var loans []*domain.Loan
	for _, loan := range m.loans {
		if loan.ChildID == childID {
			loans = append(loans, loan)
		}
	}
	sort.Slice(loans, func(i, j int) bool { return loans[i].ID < loans[j].ID })
	return loans, nil
}

func (m *MockLoanRepository) ListActive(ctx context.Context) ([]*domain.Loan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var loans []*domain.Loan
	for _, loan := range m.loans {
		if loan.Status == domain.LoanActive {
			loans = append(loans, loan)
		}
	}
	sort.Slice(loans, func(i, j int) bool { return loans[i].ID < loans[j].ID })
	return loans, nil
}

func (m *MockLoanRepository) CreateTransaction(ctx context.Context, tx usecase.Transaction, ltx *domain.LoanTransaction) error {
	if m.CreateTransactionFunc != nil {
		return m.CreateTransactionFunc(ctx, tx, ltx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txs = append(m.txs, ltx)
	return nil
}

func (m *MockLoanRepository) ListTransactions(ctx context.Context, loanID string) ([]*domain.LoanTransaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var txs []*domain.LoanTransaction
	for _, ltx := range m.txs {
		if ltx.LoanID == loanID {
			txs = append(txs, ltx)
		}
	}
	return txs, nil
}

// MockRecurringChargeRepository is a mock implementation of
// RecurringChargeRepository.
type MockRecurringChargeRepository struct {
	mu      sync.RWMutex
	charges map[string]*domain.RecurringCharge
}

func NewMockRecurringChargeRepository() *MockRecurringChargeRepository {
	return &MockRecurringChargeRepository{
		charges: make(map[string]*domain.RecurringCharge),
	}
}

func (m *MockRecurringChargeRepository) Create(ctx context.Context, rc *domain.RecurringCharge) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.charges[rc.ID] = rc
	return nil
}

func (m *MockRecurringChargeRepository) GetByID(ctx context.Context, id string) (*domain.RecurringCharge, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if rc, ok := m.charges[id]; ok {
		return rc, nil
	}
	return nil, domain.ErrChargeNotFound
}

func (m *MockRecurringChargeRepository) Update(ctx context.Context, tx usecase.Transaction, rc *domain.RecurringCharge) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.charges[rc.ID] = rc
	return nil
}

func (m *MockRecurringChargeRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.charges[id]; !ok {
		return domain.ErrChargeNotFound
	}
	delete(m.charges, id)
	return nil
}

func (m *MockRecurringChargeRepository) ListByChild(ctx context.Context, childID string) ([]*domain.RecurringCharge, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var charges []*domain.RecurringCharge
	for _, rc := range m.charges {
		if rc.ChildID == childID {
			charges = append(charges, rc)
		}
	}
	sort.Slice(charges, func(i, j int) bool { return charges[i].ID < charges[j].ID })
	return charges, nil
}

func (m *MockRecurringChargeRepository) ListDue(ctx context.Context, today time.Time) ([]*domain.RecurringCharge, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var charges []*domain.RecurringCharge
	for _, rc := range m.charges {
		if rc.Due(today) {
			charges = append(charges, rc)
		}
	}
	sort.Slice(charges, func(i, j int) bool { return charges[i].ID < charges[j].ID })
	return charges, nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%04d", m.counter)
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte("processing")
	}
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}
