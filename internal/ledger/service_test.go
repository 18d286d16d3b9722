package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

type memoryArchive struct {
	companies []Company
	accounts  []Account
	records   []Record
	failNext  bool
}

func (a *memoryArchive) AppendTransaction(ctx context.Context, rec Record) error {
	if a.failNext {
		a.failNext = false
		return errors.New("archive down")
	}
	a.records = append(a.records, rec)
	return nil
}

func (a *memoryArchive) SaveCompany(ctx context.Context, c Company) error {
	a.companies = append(a.companies, c)
	return nil
}

func (a *memoryArchive) SaveAccount(ctx context.Context, companyID string, acc Account) error {
	a.accounts = append(a.accounts, acc)
	return nil
}

type fixedRater struct{}

func (fixedRater) Compute(amount decimal.Decimal, code string) (decimal.Decimal, error) {
	if code != "STANDARD" {
		return decimal.Decimal{}, ErrUnknownVATCode
	}
	return amount.Mul(decimal.NewFromInt(20)).Div(decimal.NewFromInt(100)).Round(2), nil
}

func newTestService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	svc := NewService(opts...)
	_, err := svc.RegisterCompany(context.Background(), RegisterCompanyInput{
		ID:           "acme",
		Name:         "Acme Ltd",
		BaseCurrency: "GBP",
		SeedChart:    true,
	})
	require.NoError(t, err)
	return svc
}

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return d
}

func amount(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func TestRegisterCompanySeedsChart(t *testing.T) {
	svc := newTestService(t)
	accounts, err := svc.Accounts("acme")
	require.NoError(t, err)
	require.NotEmpty(t, accounts)

	cash, err := svc.Account("acme", "1000")
	require.NoError(t, err)
	require.Equal(t, AccountTypeAsset, cash.Type)
	require.True(t, cash.Active)
}

func TestRegisterCompanyRejectsBadCurrency(t *testing.T) {
	svc := NewService()
	_, err := svc.RegisterCompany(context.Background(), RegisterCompanyInput{
		ID:           "bad",
		Name:         "Bad Money Ltd",
		BaseCurrency: "ZZZ",
	})
	require.ErrorIs(t, err, ErrInvalidCurrency)
}

func TestRegisterCompanyRejectsDuplicate(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.RegisterCompany(context.Background(), RegisterCompanyInput{
		ID:           "acme",
		Name:         "Acme Again",
		BaseCurrency: "GBP",
	})
	require.ErrorIs(t, err, ErrDuplicateCompany)
}

func TestPostAndReadBalances(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Post(ctx, PostingInput{
		CompanyID:   "acme",
		Date:        mustDate(t, "2024-01-05"),
		Description: "Owner capital",
		Lines: []LineInput{
			{AccountCode: "1000", Side: SideDebit, Amount: amount("1000.00")},
			{AccountCode: "3000", Side: SideCredit, Amount: amount("1000.00")},
		},
	})
	require.NoError(t, err)

	_, err = svc.Post(ctx, PostingInput{
		CompanyID:   "acme",
		Date:        mustDate(t, "2024-01-10"),
		Description: "Cash sale",
		Lines: []LineInput{
			{AccountCode: "1000", Side: SideDebit, Amount: amount("250.00")},
			{AccountCode: "4000", Side: SideCredit, Amount: amount("250.00")},
		},
	})
	require.NoError(t, err)

	cash, err := svc.BalanceAsOf("acme", "1000", mustDate(t, "2024-01-31"))
	require.NoError(t, err)
	require.True(t, cash.Equal(amount("1250.00")), "cash balance %s", cash)

	sales, err := svc.BalanceAsOf("acme", "4000", mustDate(t, "2024-01-31"))
	require.NoError(t, err)
	require.True(t, sales.Equal(amount("250.00")), "sales balance %s", sales)

	// As-of before the sale excludes it.
	early, err := svc.BalanceAsOf("acme", "1000", mustDate(t, "2024-01-07"))
	require.NoError(t, err)
	require.True(t, early.Equal(amount("1000.00")), "early balance %s", early)
}

func TestPostRejectsUnbalancedEntryAndLeavesJournalUntouched(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Post(ctx, PostingInput{
		CompanyID:   "acme",
		Date:        mustDate(t, "2024-02-01"),
		Description: "Fat finger",
		Lines: []LineInput{
			{AccountCode: "1000", Side: SideDebit, Amount: amount("100.00")},
			{AccountCode: "4000", Side: SideCredit, Amount: amount("99.00")},
		},
	})
	require.ErrorIs(t, err, ErrUnbalancedEntry)

	txs, err := svc.Transactions("acme", time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Empty(t, txs)
}

func TestPostValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	date := mustDate(t, "2024-02-01")

	cases := []struct {
		name  string
		input PostingInput
		want  error
	}{
		{
			name: "single line",
			input: PostingInput{
				CompanyID: "acme", Date: date, Description: "half an entry",
				Lines: []LineInput{{AccountCode: "1000", Side: SideDebit, Amount: amount("10.00")}},
			},
			want: ErrInsufficientLines,
		},
		{
			name: "negative amount",
			input: PostingInput{
				CompanyID: "acme", Date: date, Description: "negative",
				Lines: []LineInput{
					{AccountCode: "1000", Side: SideDebit, Amount: amount("-10.00")},
					{AccountCode: "4000", Side: SideCredit, Amount: amount("-10.00")},
				},
			},
			want: ErrInvalidAmount,
		},
		{
			name: "too many decimals",
			input: PostingInput{
				CompanyID: "acme", Date: date, Description: "sub-penny",
				Lines: []LineInput{
					{AccountCode: "1000", Side: SideDebit, Amount: amount("10.001")},
					{AccountCode: "4000", Side: SideCredit, Amount: amount("10.001")},
				},
			},
			want: ErrInvalidAmount,
		},
		{
			name: "bad side",
			input: PostingInput{
				CompanyID: "acme", Date: date, Description: "sideways",
				Lines: []LineInput{
					{AccountCode: "1000", Side: "UP", Amount: amount("10.00")},
					{AccountCode: "4000", Side: SideCredit, Amount: amount("10.00")},
				},
			},
			want: ErrInvalidSide,
		},
		{
			name: "unknown account",
			input: PostingInput{
				CompanyID: "acme", Date: date, Description: "ghost account",
				Lines: []LineInput{
					{AccountCode: "9999", Side: SideDebit, Amount: amount("10.00")},
					{AccountCode: "4000", Side: SideCredit, Amount: amount("10.00")},
				},
			},
			want: ErrAccountNotFound,
		},
		{
			name: "unknown company",
			input: PostingInput{
				CompanyID: "nobody", Date: date, Description: "lost",
				Lines: []LineInput{
					{AccountCode: "1000", Side: SideDebit, Amount: amount("10.00")},
					{AccountCode: "4000", Side: SideCredit, Amount: amount("10.00")},
				},
			},
			want: ErrCompanyNotFound,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Post(ctx, tc.input)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestPostRejectsInactiveAccount(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	require.NoError(t, svc.DeactivateAccount(ctx, "acme", "5000"))

	_, err := svc.Post(ctx, PostingInput{
		CompanyID:   "acme",
		Date:        mustDate(t, "2024-02-01"),
		Description: "posting to a closed account",
		Lines: []LineInput{
			{AccountCode: "5000", Side: SideDebit, Amount: amount("10.00")},
			{AccountCode: "1000", Side: SideCredit, Amount: amount("10.00")},
		},
	})
	require.ErrorIs(t, err, ErrAccountInactive)
}

func TestPostComputesVAT(t *testing.T) {
	svc := newTestService(t, WithVATRater(fixedRater{}))
	ctx := context.Background()

	tx, err := svc.Post(ctx, PostingInput{
		CompanyID:   "acme",
		Date:        mustDate(t, "2024-03-01"),
		Description: "Taxable sale",
		Lines: []LineInput{
			{AccountCode: "1100", Side: SideDebit, Amount: amount("120.00")},
			{AccountCode: "4000", Side: SideCredit, Amount: amount("100.00"), VATCode: "STANDARD"},
			{AccountCode: "2100", Side: SideCredit, Amount: amount("20.00")},
		},
	})
	require.NoError(t, err)
	require.Equal(t, "STANDARD", tx.Lines[1].VATCode)
	require.True(t, tx.Lines[1].VATAmount.Equal(amount("20.00")))

	_, err = svc.Post(ctx, PostingInput{
		CompanyID:   "acme",
		Date:        mustDate(t, "2024-03-01"),
		Description: "Unknown tax code",
		Lines: []LineInput{
			{AccountCode: "1000", Side: SideDebit, Amount: amount("10.00"), VATCode: "MYSTERY"},
			{AccountCode: "4000", Side: SideCredit, Amount: amount("10.00")},
		},
	})
	require.ErrorIs(t, err, ErrUnknownVATCode)
}

func TestReverseRestoresBalances(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	tx, err := svc.Post(ctx, PostingInput{
		CompanyID:   "acme",
		Date:        mustDate(t, "2024-04-01"),
		Description: "Rent",
		Lines: []LineInput{
			{AccountCode: "5200", Side: SideDebit, Amount: amount("800.00")},
			{AccountCode: "1000", Side: SideCredit, Amount: amount("800.00")},
		},
	})
	require.NoError(t, err)

	reversal, err := svc.Reverse(ctx, tx.ID)
	require.NoError(t, err)
	require.Equal(t, tx.ID, reversal.ReversalOf)
	require.True(t, reversal.IsReversal())
	require.Equal(t, "Reversal of Rent", reversal.Description)
	require.Equal(t, SideCredit, reversal.Lines[0].Side)

	rent, err := svc.BalanceAsOf("acme", "5200", mustDate(t, "2024-04-30"))
	require.NoError(t, err)
	require.True(t, rent.IsZero(), "rent balance %s", rent)

	cash, err := svc.BalanceAsOf("acme", "1000", mustDate(t, "2024-04-30"))
	require.NoError(t, err)
	require.True(t, cash.IsZero(), "cash balance %s", cash)
}

func TestReverseOnlyOnce(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	tx, err := svc.Post(ctx, PostingInput{
		CompanyID:   "acme",
		Date:        mustDate(t, "2024-04-01"),
		Description: "Rent",
		Lines: []LineInput{
			{AccountCode: "5200", Side: SideDebit, Amount: amount("800.00")},
			{AccountCode: "1000", Side: SideCredit, Amount: amount("800.00")},
		},
	})
	require.NoError(t, err)

	_, err = svc.Reverse(ctx, tx.ID)
	require.NoError(t, err)
	_, err = svc.Reverse(ctx, tx.ID)
	require.ErrorIs(t, err, ErrAlreadyReversed)

	_, err = svc.Reverse(ctx, uuid.New())
	require.ErrorIs(t, err, ErrTransactionNotFound)
}

func TestTrialBalanceZeroSum(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	post := func(desc, debitAcc, creditAcc, value string) {
		t.Helper()
		_, err := svc.Post(ctx, PostingInput{
			CompanyID:   "acme",
			Date:        mustDate(t, "2024-05-10"),
			Description: desc,
			Lines: []LineInput{
				{AccountCode: debitAcc, Side: SideDebit, Amount: amount(value)},
				{AccountCode: creditAcc, Side: SideCredit, Amount: amount(value)},
			},
		})
		require.NoError(t, err)
	}
	post("Capital", "1000", "3000", "5000.00")
	post("Sale", "1100", "4000", "1200.00")
	post("Wages", "5000", "1000", "700.00")

	rows, err := svc.TrialBalance("acme", mustDate(t, "2024-05-31"))
	require.NoError(t, err)

	var debit, credit decimal.Decimal
	for _, row := range rows {
		debit = debit.Add(row.Debit)
		credit = credit.Add(row.Credit)
	}
	require.True(t, debit.Equal(credit), "debits %s credits %s", debit, credit)
	require.NoError(t, svc.VerifyBalanced("acme", mustDate(t, "2024-05-31")))
}

func TestArchiveFailureLeavesNoPartialState(t *testing.T) {
	archive := &memoryArchive{}
	svc := newTestService(t, WithArchive(archive))
	ctx := context.Background()

	archive.failNext = true
	_, err := svc.Post(ctx, PostingInput{
		CompanyID:   "acme",
		Date:        mustDate(t, "2024-06-01"),
		Description: "Will not stick",
		Lines: []LineInput{
			{AccountCode: "1000", Side: SideDebit, Amount: amount("50.00")},
			{AccountCode: "4000", Side: SideCredit, Amount: amount("50.00")},
		},
	})
	require.Error(t, err)

	txs, err := svc.Transactions("acme", time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Empty(t, txs)

	// The next posting goes through and lands in the archive.
	tx, err := svc.Post(ctx, PostingInput{
		CompanyID:   "acme",
		Date:        mustDate(t, "2024-06-01"),
		Description: "Sticks",
		Lines: []LineInput{
			{AccountCode: "1000", Side: SideDebit, Amount: amount("50.00")},
			{AccountCode: "4000", Side: SideCredit, Amount: amount("50.00")},
		},
	})
	require.NoError(t, err)
	require.Len(t, archive.records, 1)
	require.Equal(t, tx.ID.String(), archive.records[0].ID)
}

func TestDeactivateAccountIsIdempotent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.DeactivateAccount(ctx, "acme", "1000"))
	require.NoError(t, svc.DeactivateAccount(ctx, "acme", "1000"))

	acc, err := svc.Account("acme", "1000")
	require.NoError(t, err)
	require.False(t, acc.Active)

	// Deactivated accounts keep their history readable.
	_, err = svc.BalanceAsOf("acme", "1000", mustDate(t, "2024-12-31"))
	require.NoError(t, err)
}

func TestCreateAccountRejectsDuplicateCode(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.CreateAccount(context.Background(), CreateAccountInput{
		CompanyID: "acme",
		Code:      "1000",
		Name:      "Second Cash",
		Type:      AccountTypeAsset,
	})
	require.ErrorIs(t, err, ErrDuplicateCode)
}

func TestRegisterCompanyRejectsBlankFields(t *testing.T) {
	svc := NewService()
	_, err := svc.RegisterCompany(context.Background(), RegisterCompanyInput{
		Name:         "No ID Ltd",
		BaseCurrency: "GBP",
	})
	require.ErrorIs(t, err, ErrInvalidCompany)

	_, err = svc.RegisterCompany(context.Background(), RegisterCompanyInput{
		ID:           "noname",
		Name:         "   ",
		BaseCurrency: "GBP",
	})
	require.ErrorIs(t, err, ErrInvalidCompany)
}

func TestConcurrentPostAndList(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	day := mustDate(t, "2024-03-01")
	const iterations = 2000

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for i := 0; i < iterations; i++ {
			_, err := svc.Post(gctx, PostingInput{
				CompanyID:   "acme",
				Date:        day,
				Description: "Cash sale",
				Lines: []LineInput{
					{AccountCode: "1000", Side: SideDebit, Amount: amount("10.00")},
					{AccountCode: "4000", Side: SideCredit, Amount: amount("10.00")},
				},
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	g.Go(func() error {
		for i := 0; i < iterations; i++ {
			if companies := svc.Companies(); len(companies) != 1 {
				return errors.New("unexpected company count")
			}
			if _, err := svc.Accounts("acme"); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, g.Wait())

	txs, err := svc.Transactions("acme", time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, txs, iterations)
	require.NoError(t, svc.VerifyBalanced("acme", day))
}
