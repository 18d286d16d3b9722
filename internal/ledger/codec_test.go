package ledger

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeTransaction(t *testing.T) {
	svc := newTestService(t, WithVATRater(fixedRater{}))
	tx, err := svc.Post(context.Background(), PostingInput{
		CompanyID:   "acme",
		Date:        mustDate(t, "2024-01-15"),
		Description: "Invoice 42",
		Lines: []LineInput{
			{AccountCode: "1100", Side: SideDebit, Amount: amount("120.00")},
			{AccountCode: "4000", Side: SideCredit, Amount: amount("100.00"), VATCode: "STANDARD"},
			{AccountCode: "2100", Side: SideCredit, Amount: amount("20.00")},
		},
	})
	require.NoError(t, err)

	rec := EncodeTransaction(tx)
	require.Equal(t, tx.ID.String(), rec.ID)
	require.Equal(t, "2024-01-15", rec.Date)
	require.Equal(t, "100.00", rec.Lines[1].Amount)
	require.Equal(t, "20.00", rec.Lines[1].VATAmount)
	require.Empty(t, rec.ReversalOf)

	// The record survives a JSON round trip byte for byte.
	raw, err := json.Marshal(rec)
	require.NoError(t, err)
	var parsed Record
	require.NoError(t, json.Unmarshal(raw, &parsed))
	require.Equal(t, rec, parsed)

	decoded, err := DecodeTransaction(parsed)
	require.NoError(t, err)
	require.Equal(t, tx.ID, decoded.ID)
	require.Equal(t, tx.Description, decoded.Description)
	require.Len(t, decoded.Lines, 3)
	require.True(t, decoded.Lines[1].Amount.Equal(amount("100.00")))
	require.True(t, decoded.Lines[1].VATAmount.Equal(amount("20.00")))
}

func TestReplayReconstructsLedger(t *testing.T) {
	archive := &memoryArchive{}
	svc := newTestService(t, WithArchive(archive))
	ctx := context.Background()

	_, err := svc.Post(ctx, PostingInput{
		CompanyID:   "acme",
		Date:        mustDate(t, "2024-02-01"),
		Description: "Capital",
		Lines: []LineInput{
			{AccountCode: "1000", Side: SideDebit, Amount: amount("1000.00")},
			{AccountCode: "3000", Side: SideCredit, Amount: amount("1000.00")},
		},
	})
	require.NoError(t, err)

	tx, err := svc.Post(ctx, PostingInput{
		CompanyID:   "acme",
		Date:        mustDate(t, "2024-02-10"),
		Description: "Sale",
		Lines: []LineInput{
			{AccountCode: "1000", Side: SideDebit, Amount: amount("300.00")},
			{AccountCode: "4000", Side: SideCredit, Amount: amount("300.00")},
		},
	})
	require.NoError(t, err)
	_, err = svc.Reverse(ctx, tx.ID)
	require.NoError(t, err)
	require.Len(t, archive.records, 3)

	// Rebuild a second service purely from the archived stream.
	company, err := svc.Company("acme")
	require.NoError(t, err)
	accounts, err := svc.Accounts("acme")
	require.NoError(t, err)

	restored := NewService()
	require.NoError(t, restored.RestoreCompany(company, accounts))
	for _, rec := range archive.records {
		require.NoError(t, restored.Replay(rec))
	}

	asOf := mustDate(t, "2024-02-28")
	for _, code := range []string{"1000", "3000", "4000"} {
		want, err := svc.BalanceAsOf("acme", code, asOf)
		require.NoError(t, err)
		got, err := restored.BalanceAsOf("acme", code, asOf)
		require.NoError(t, err)
		require.True(t, want.Equal(got), "account %s: %s vs %s", code, want, got)
	}
	require.NoError(t, restored.VerifyBalanced("acme", asOf))

	// The reversal marker replays too: no double reversal after restore.
	_, err = restored.Reverse(ctx, tx.ID)
	require.ErrorIs(t, err, ErrAlreadyReversed)
}

func TestReplayRejectsUnknownCompany(t *testing.T) {
	svc := NewService()
	rec := Record{
		ID:        "0c7e98a0-0c1b-4c6f-9a3e-54b51e4c2f41",
		CompanyID: "ghost",
		Date:      "2024-01-01",
		PostedAt:  time.Now().UTC(),
	}
	require.ErrorIs(t, svc.Replay(rec), ErrCompanyNotFound)
}

func TestDecodeRejectsMalformedRecord(t *testing.T) {
	valid := Record{
		ID:        uuid.NewString(),
		CompanyID: "acme",
		Date:      "2024-01-15",
		Lines: []RecordLine{
			{AccountCode: "1000", Side: SideDebit, Amount: "10.00"},
			{AccountCode: "4000", Side: SideCredit, Amount: "10.00"},
		},
	}

	cases := map[string]func(*Record){
		"bad id":          func(r *Record) { r.ID = "not-a-uuid" },
		"bad date":        func(r *Record) { r.Date = "15/01/2024" },
		"bad reversal id": func(r *Record) { r.ReversalOf = "not-a-uuid" },
		"bad amount":      func(r *Record) { r.Lines[0].Amount = "ten" },
		"bad vat amount": func(r *Record) {
			r.Lines[0].VATCode = "STANDARD"
			r.Lines[0].VATAmount = "two"
		},
	}
	for name, corrupt := range cases {
		t.Run(name, func(t *testing.T) {
			rec := valid
			rec.Lines = append([]RecordLine(nil), valid.Lines...)
			corrupt(&rec)
			_, err := DecodeTransaction(rec)
			require.ErrorIs(t, err, ErrBadRecord)
		})
	}
}
