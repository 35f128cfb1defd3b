package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/iho/bankaccounts/internal/domain"
	"github.com/iho/bankaccounts/internal/usecase"
)

// MockAccountRepository is an in-memory mock of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc           func(ctx context.Context, account *domain.Account) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Account, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error)
	GetByNumberFunc      func(ctx context.Context, number string) (*domain.Account, error)
	UpdateFunc           func(ctx context.Context, account *domain.Account) error
	DeleteFunc           func(ctx context.Context, id string) error
	ListFunc             func(ctx context.Context) ([]*domain.Account, error)
	ListByCustomerFunc   func(ctx context.Context, customerID int64) ([]*domain.Account, error)
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
	copied := *account
	m.accounts[account.ID] = &copied
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok {
		copied := *acc
		return &copied, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockAccountRepository) GetByNumber(ctx context.Context, number string) (*domain.Account, error) {
	if m.GetByNumberFunc != nil {
		return m.GetByNumberFunc(ctx, number)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, acc := range m.accounts {
		if acc.Number == number {
			copied := *acc
			return &copied, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) Update(ctx context.Context, account *domain.Account) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[account.ID]; !ok {
		return domain.ErrAccountNotFound
	}
	copied := *account
	m.accounts[account.ID] = &copied
	return nil
}

func (m *MockAccountRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[id]; !ok {
		return domain.ErrAccountNotFound
	}
	delete(m.accounts, id)
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
		copied := *acc
		accounts = append(accounts, &copied)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	return accounts, nil
}

func (m *MockAccountRepository) ListByCustomer(ctx context.Context, customerID int64) ([]*domain.Account, error) {
	if m.ListByCustomerFunc != nil {
		return m.ListByCustomerFunc(ctx, customerID)
	}
	all, err := m.List(ctx)
	if err != nil {
		return nil, err
	}
	accounts := make([]*domain.Account, 0, len(all))
	for _, acc := range all {
		if acc.CustomerID == customerID {
			accounts = append(accounts, acc)
		}
	}
	return accounts, nil
}

// MockMovementRepository is an in-memory mock of MovementRepository.
type MockMovementRepository struct {
	mu        sync.RWMutex
	movements map[string]*domain.Movement

	CreateFunc             func(ctx context.Context, tx usecase.Transaction, movement *domain.Movement) error
	GetByIDFunc            func(ctx context.Context, id string) (*domain.Movement, error)
	GetLatestByAccountFunc func(ctx context.Context, tx usecase.Transaction, accountID string) (*domain.Movement, error)
	ListByAccountAscFunc   func(ctx context.Context, tx usecase.Transaction, accountID string) ([]*domain.Movement, error)
	ListByAccountDescFunc  func(ctx context.Context, accountID string) ([]*domain.Movement, error)
	ListFunc               func(ctx context.Context) ([]*domain.Movement, error)
	UpdateAllFunc          func(ctx context.Context, tx usecase.Transaction, movements []*domain.Movement) error
	DeleteFunc             func(ctx context.Context, tx usecase.Transaction, id string) error
	CountByAccountFunc     func(ctx context.Context, accountID string) (int64, error)
	ListByDateRangeFunc    func(ctx context.Context, accountID string, start, end time.Time) ([]*domain.Movement, error)
}

func NewMockMovementRepository() *MockMovementRepository {
	return &MockMovementRepository{
		movements: make(map[string]*domain.Movement),
	}
}

func (m *MockMovementRepository) Create(ctx context.Context, tx usecase.Transaction, movement *domain.Movement) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, movement)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *movement
	m.movements[movement.ID] = &copied
	return nil
}

func (m *MockMovementRepository) GetByID(ctx context.Context, id string) (*domain.Movement, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if mv, ok := m.movements[id]; ok {
		copied := *mv
		return &copied, nil
	}
	return nil, domain.ErrMovementNotFound
}

func (m *MockMovementRepository) GetLatestByAccount(ctx context.Context, tx usecase.Transaction, accountID string) (*domain.Movement, error) {
	if m.GetLatestByAccountFunc != nil {
		return m.GetLatestByAccountFunc(ctx, tx, accountID)
	}
	chain, err := m.ListByAccountAsc(ctx, tx, accountID)
	if err != nil {
		return nil, err
	}
	if len(chain) == 0 {
		return nil, domain.ErrMovementNotFound
	}
	return chain[len(chain)-1], nil
}

func (m *MockMovementRepository) ListByAccountAsc(ctx context.Context, tx usecase.Transaction, accountID string) ([]*domain.Movement, error) {
	if m.ListByAccountAscFunc != nil {
		return m.ListByAccountAscFunc(ctx, tx, accountID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	chain := make([]*domain.Movement, 0)
	for _, mv := range m.movements {
		if mv.AccountID == accountID {
			copied := *mv
			chain = append(chain, &copied)
		}
	}
	sort.Slice(chain, func(i, j int) bool {
		if chain[i].Date.Equal(chain[j].Date) {
			return chain[i].ID < chain[j].ID
		}
		return chain[i].Date.Before(chain[j].Date)
	})
	return chain, nil
}

func (m *MockMovementRepository) ListByAccountDesc(ctx context.Context, accountID string) ([]*domain.Movement, error) {
	if m.ListByAccountDescFunc != nil {
		return m.ListByAccountDescFunc(ctx, accountID)
	}
	chain, err := m.ListByAccountAsc(ctx, nil, accountID)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

func (m *MockMovementRepository) List(ctx context.Context) ([]*domain.Movement, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	movements := make([]*domain.Movement, 0, len(m.movements))
	for _, mv := range m.movements {
		copied := *mv
		movements = append(movements, &copied)
	}
	sort.Slice(movements, func(i, j int) bool { return movements[i].ID < movements[j].ID })
	return movements, nil
}

func (m *MockMovementRepository) UpdateAll(ctx context.Context, tx usecase.Transaction, movements []*domain.Movement) error {
	if m.UpdateAllFunc != nil {
		return m.UpdateAllFunc(ctx, tx, movements)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, mv := range movements {
		if _, ok := m.movements[mv.ID]; !ok {
			return domain.ErrMovementNotFound
		}
		copied := *mv
		m.movements[mv.ID] = &copied
	}
	return nil
}

func (m *MockMovementRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.movements[id]; !ok {
		return domain.ErrMovementNotFound
	}
	delete(m.movements, id)
	return nil
}

func (m *MockMovementRepository) CountByAccount(ctx context.Context, accountID string) (int64, error) {
	if m.CountByAccountFunc != nil {
		return m.CountByAccountFunc(ctx, accountID)
	}
	chain, err := m.ListByAccountAsc(ctx, nil, accountID)
	if err != nil {
		return 0, err
	}
	return int64(len(chain)), nil
}

func (m *MockMovementRepository) ListByDateRange(ctx context.Context, accountID string, start, end time.Time) ([]*domain.Movement, error) {
	if m.ListByDateRangeFunc != nil {
		return m.ListByDateRangeFunc(ctx, accountID, start, end)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	movements := make([]*domain.Movement, 0)
	for _, mv := range m.movements {
		if mv.AccountID != accountID {
			continue
		}
		if mv.Date.Before(start) || mv.Date.After(end) {
			continue
		}
		copied := *mv
		movements = append(movements, &copied)
	}
	sort.Slice(movements, func(i, j int) bool { return movements[i].ID < movements[j].ID })
	return movements, nil
}

// MockCustomerRepository is an in-memory mock of CustomerRepository.
type MockCustomerRepository struct {
	mu        sync.RWMutex
	customers map[int64]*domain.Customer

	GetByIDFunc func(ctx context.Context, id int64) (*domain.Customer, error)
	UpsertFunc  func(ctx context.Context, customer *domain.Customer) error
}

func NewMockCustomerRepository() *MockCustomerRepository {
	return &MockCustomerRepository{
		customers: make(map[int64]*domain.Customer),
	}
}

func (m *MockCustomerRepository) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.customers[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, domain.ErrCustomerNotFound
}

func (m *MockCustomerRepository) Upsert(ctx context.Context, customer *domain.Customer) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, customer)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *customer
	m.customers[customer.ID] = &copied
	return nil
}

// MockTransaction is a no-op transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	if t.CommitFunc != nil {
		return t.CommitFunc(ctx)
	}
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	if t.RollbackFunc != nil {
		return t.RollbackFunc(ctx)
	}
	return nil
}

// MockTransactionManager hands out no-op transactions.
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

// MockIDGenerator generates sequential ids.
type MockIDGenerator struct {
	mu   sync.Mutex
	next int

	GenerateFunc func() string
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
	m.next++
	return fmt.Sprintf("id-%03d", m.next)
}

// MockRetrier runs the operation exactly once.
type MockRetrier struct {
	RetryFunc func(ctx context.Context, operation func() error) error
}

func NewMockRetrier() *MockRetrier {
	return &MockRetrier{}
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}
	return operation()
}
