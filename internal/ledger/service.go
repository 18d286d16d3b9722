package ledger

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Archive persists posted transactions durably. The in-memory journal
// is the working copy; the archive is the backup representation from
// which the whole ledger can be rebuilt.
type Archive interface {
	AppendTransaction(ctx context.Context, rec Record) error
	SaveCompany(ctx context.Context, c Company) error
	SaveAccount(ctx context.Context, companyID string, a Account) error
}

// VATRater resolves a VAT code to the tax amount for a line.
type VATRater interface {
	Compute(amount decimal.Decimal, code string) (decimal.Decimal, error)
}

// Service holds the ledgers for every registered company. It is the
// single mutation path in the system: posting and reversing append to
// a company's journal, everything else is a read over it.
//
// Lock order: mu before a company's state.mu before txMu. txIndex has
// its own mutex because append updates it while holding state.mu, and
// taking mu there would run opposite to the read paths that take mu
// first.
type Service struct {
	mu        sync.RWMutex
	companies map[string]*companyState

	txMu    sync.RWMutex
	txIndex map[uuid.UUID]string

	archive Archive
	vat     VATRater
	now     func() time.Time
}

// companyState is one company's aggregate: chart of accounts plus the
// append-only journal. Guarded by its own mutex so companies post in
// parallel without shared contention.
type companyState struct {
	mu       sync.RWMutex
	company  Company
	accounts map[string]*Account
	journal  []Transaction
	reversed map[uuid.UUID]uuid.UUID
}

// Option configures the service at construction time.
type Option func(*Service)

// WithArchive attaches a durable transaction archive.
func WithArchive(a Archive) Option {
	return func(s *Service) { s.archive = a }
}

// WithVATRater attaches the VAT calculator used for lines that carry
// a VAT code.
func WithVATRater(v VATRater) Option {
	return func(s *Service) { s.vat = v }
}

// WithNow overrides the clock for testing.
func WithNow(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService constructs an empty multi-company ledger.
func NewService(opts ...Option) *Service {
	s := &Service{
		companies: make(map[string]*companyState),
		txIndex:   make(map[uuid.UUID]string),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterCompanyInput carries the fields for company registration.
type RegisterCompanyInput struct {
	ID            string
	Name          string
	BaseCurrency  string
	VATRegistered bool
	SeedChart     bool
}

// RegisterCompany creates a company with its own empty ledger. The
// base currency must be a valid ISO 4217 code. With SeedChart the
// standard UK chart of accounts is installed.
func (s *Service) RegisterCompany(ctx context.Context, in RegisterCompanyInput) (Company, error) {
	id := strings.TrimSpace(in.ID)
	if id == "" || strings.TrimSpace(in.Name) == "" {
		return Company{}, ErrInvalidCompany
	}
	unit, err := currency.ParseISO(in.BaseCurrency)
	if err != nil {
		return Company{}, ErrInvalidCurrency
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.companies[id]; ok {
		return Company{}, ErrDuplicateCompany
	}
	c := Company{
		ID:            id,
		Name:          strings.TrimSpace(in.Name),
		BaseCurrency:  unit.String(),
		VATRegistered: in.VATRegistered,
		CreatedAt:     s.now().UTC(),
	}
	state := &companyState{
		company:  c,
		accounts: make(map[string]*Account),
		reversed: make(map[uuid.UUID]uuid.UUID),
	}
	if in.SeedChart {
		for _, seed := range DefaultChart() {
			acc := Account{
				Code:      seed.Code,
				Name:      seed.Name,
				Type:      seed.Type,
				Active:    true,
				CreatedAt: c.CreatedAt,
			}
			state.accounts[acc.Code] = &acc
		}
	}
	if s.archive != nil {
		if err := s.archive.SaveCompany(ctx, c); err != nil {
			return Company{}, err
		}
		for _, acc := range state.accounts {
			if err := s.archive.SaveAccount(ctx, c.ID, *acc); err != nil {
				return Company{}, err
			}
		}
	}
	s.companies[id] = state
	return c, nil
}

// Company returns a registered company by id.
func (s *Service) Company(id string) (Company, error) {
	state, err := s.state(id)
	if err != nil {
		return Company{}, err
	}
	state.mu.RLock()
	defer state.mu.RUnlock()
	return state.company, nil
}

// Companies lists all registered companies sorted by id.
func (s *Service) Companies() []Company {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Company, 0, len(s.companies))
	for _, state := range s.companies {
		state.mu.RLock()
		out = append(out, state.company)
		state.mu.RUnlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// CreateAccountInput carries the fields for account creation.
type CreateAccountInput struct {
	CompanyID string
	Code      string
	Name      string
	Type      AccountType
}

// CreateAccount adds an account to a company's chart.
func (s *Service) CreateAccount(ctx context.Context, in CreateAccountInput) (Account, error) {
	if !in.Type.Valid() {
		return Account{}, ErrInvalidType
	}
	code := strings.TrimSpace(in.Code)
	if code == "" {
		return Account{}, ErrAccountNotFound
	}
	state, err := s.state(in.CompanyID)
	if err != nil {
		return Account{}, err
	}

	state.mu.Lock()
	defer state.mu.Unlock()
	if _, ok := state.accounts[code]; ok {
		return Account{}, ErrDuplicateCode
	}
	acc := Account{
		Code:      code,
		Name:      strings.TrimSpace(in.Name),
		Type:      in.Type,
		Active:    true,
		CreatedAt: s.now().UTC(),
	}
	if s.archive != nil {
		if err := s.archive.SaveAccount(ctx, in.CompanyID, acc); err != nil {
			return Account{}, err
		}
	}
	state.accounts[code] = &acc
	return acc, nil
}

// DeactivateAccount soft-disables an account. Deactivation is always
// permitted; only new postings against the account are rejected.
func (s *Service) DeactivateAccount(ctx context.Context, companyID, code string) error {
	state, err := s.state(companyID)
	if err != nil {
		return err
	}
	state.mu.Lock()
	defer state.mu.Unlock()
	acc, ok := state.accounts[code]
	if !ok {
		return ErrAccountNotFound
	}
	if !acc.Active {
		return nil
	}
	updated := *acc
	updated.Active = false
	if s.archive != nil {
		if err := s.archive.SaveAccount(ctx, companyID, updated); err != nil {
			return err
		}
	}
	*acc = updated
	return nil
}

// Account returns one account from a company's chart.
func (s *Service) Account(companyID, code string) (Account, error) {
	state, err := s.state(companyID)
	if err != nil {
		return Account{}, err
	}
	state.mu.RLock()
	defer state.mu.RUnlock()
	acc, ok := state.accounts[code]
	if !ok {
		return Account{}, ErrAccountNotFound
	}
	return *acc, nil
}

// Accounts lists a company's chart of accounts sorted by code.
// Deactivated accounts are included for historical reporting.
func (s *Service) Accounts(companyID string) ([]Account, error) {
	state, err := s.state(companyID)
	if err != nil {
		return nil, err
	}
	state.mu.RLock()
	defer state.mu.RUnlock()
	out := make([]Account, 0, len(state.accounts))
	for _, acc := range state.accounts {
		out = append(out, *acc)
	}
	sortAccounts(out)
	return out, nil
}

func sortAccounts(accounts []Account) {
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Code < accounts[j].Code })
}

func (s *Service) state(companyID string) (*companyState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.companies[companyID]
	if !ok {
		return nil, ErrCompanyNotFound
	}
	return state, nil
}
