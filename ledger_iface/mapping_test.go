package ledger_iface_test

import (
	"errors"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/pdcgo/bookkeeping_service/ledger_core"
	"github.com/pdcgo/bookkeeping_service/ledger_iface"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	day, err := ledger_iface.ParseDate("date", "2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), day)

	ts, err := ledger_iface.ParseDate("date", "2024-03-01T07:30:00+07:00")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01T00:30:00Z", ts.Format(time.RFC3339))

	_, err = ledger_iface.ParseDate("date", "01/03/2024")
	var verr *ledger_core.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "date", verr.Field)

	assert.Equal(t, "", ledger_iface.FormatDate(time.Time{}))
}

func TestEntryCreateRequestToEntry(t *testing.T) {
	personal := "personal"
	req := &ledger_iface.EntryCreateRequest{
		Type:               "expense",
		Amount:             decimal.RequireFromString("12.5"),
		Date:               "2024-05-05",
		AccountId:          "acc_a",
		PaymentAccountType: &personal,
		Attachments: []*ledger_iface.Attachment{
			{Name: "receipt.png", Url: "https://files/receipt.png", Type: "image/png", Size: 2048},
		},
	}

	entry, attachments, err := req.ToEntry()
	require.NoError(t, err)
	assert.Equal(t, ledger_core.ExpenseEntry, entry.Type)
	assert.True(t, entry.InvoiceNeeded)
	assert.Equal(t, ledger_core.PersonalPayment, *entry.PaymentAccountType)
	require.Len(t, attachments, 1)
	assert.Equal(t, "receipt.png", attachments[0].Name)
	assert.Equal(t, int64(2048), attachments[0].Size)

	notNeeded := false
	req.InvoiceNeeded = &notNeeded
	entry, _, err = req.ToEntry()
	require.NoError(t, err)
	assert.False(t, entry.InvoiceNeeded)

	req.Date = ""
	_, _, err = req.ToEntry()
	assert.ErrorIs(t, err, ledger_core.ErrValidation)
}

func TestEntryUpdateRequestToPatch(t *testing.T) {
	income := "income"
	date := "2024-07-01"
	attachments := []*ledger_iface.Attachment{}

	patch, err := (&ledger_iface.EntryUpdateRequest{
		Type:        &income,
		Date:        &date,
		Attachments: &attachments,
	}).ToPatch()
	require.NoError(t, err)

	assert.Equal(t, ledger_core.IncomeEntry, *patch.Type)
	assert.Equal(t, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), *patch.EntryDate)
	require.NotNil(t, patch.Attachments)
	assert.Empty(t, *patch.Attachments)
	assert.Nil(t, patch.Amount)

	assert.Nil(t, patch.CompanyAccountDate)
	assert.Nil(t, patch.InvoiceImages)

	bad := "July"
	_, err = (&ledger_iface.EntryUpdateRequest{Date: &bad}).ToPatch()
	assert.ErrorIs(t, err, ledger_core.ErrValidation)

	cleared := ""
	images := []*ledger_iface.Attachment{{Name: "scan.jpg", Url: "https://files/scan.jpg"}}
	patch, err = (&ledger_iface.EntryUpdateRequest{
		CompanyAccountDate: &cleared,
		InvoiceImages:      &images,
	}).ToPatch()
	require.NoError(t, err)
	require.NotNil(t, patch.CompanyAccountDate)
	assert.True(t, patch.CompanyAccountDate.IsZero())
	require.NotNil(t, patch.InvoiceImages)
	assert.Equal(t, "scan.jpg", (*patch.InvoiceImages)[0].Name)
}

func TestConnectError(t *testing.T) {
	cases := []struct {
		err  error
		code connect.Code
		meta string
	}{
		{ledger_core.NewNotFound("entry", "e1"), connect.CodeNotFound, "not_found"},
		{ledger_core.NewEntryValidation("e1", "not eligible"), connect.CodeInvalidArgument, "validation"},
		{&ledger_core.ConflictError{Keys: []string{"k"}}, connect.CodeAborted, "conflict"},
		{errors.New("disk on fire"), connect.CodeInternal, "internal"},
	}

	for _, c := range cases {
		err := ledger_iface.ConnectError(c.err)

		var cerr *connect.Error
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, c.code, cerr.Code())
		assert.Equal(t, c.meta, cerr.Meta().Get(ledger_iface.ErrorCodeHeader))
	}

	assert.Nil(t, ledger_iface.ConnectError(nil))
}
