package manual_test

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fraudguard/console/internal/platform/activity"
	"github.com/fraudguard/console/internal/platform/draft"
	"github.com/fraudguard/console/internal/platform/fraud"
	"github.com/fraudguard/console/internal/platform/manual"
	"github.com/fraudguard/console/pkg/logger"
)

type MockCreator struct {
	mock.Mock
}

func (m *MockCreator) CreateTransaction(ctx context.Context, d fraud.Draft) (*fraud.TransactionDetail, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fraud.TransactionDetail), args.Error(1)
}

type MockJournal struct {
	mock.Mock
}

func (m *MockJournal) RecordQuietly(ctx context.Context, entry activity.Entry) {
	m.Called(ctx, entry)
}

func validDraft() fraud.Draft {
	return fraud.NewDraft(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
}

// =============================================================================
// Validation Tests
// =============================================================================

func TestValidate(t *testing.T) {
	require.NoError(t, manual.Validate(validDraft()))

	tests := []struct {
		name   string
		mutate func(d *fraud.Draft)
		field  string
	}{
		{"zero amount", func(d *fraud.Draft) { d.Amount = 0 }, "amount"},
		{"negative amount", func(d *fraud.Draft) { d.Amount = -5 }, "amount"},
		{"unknown currency", func(d *fraud.Draft) { d.Currency = "GBP" }, "currency"},
		{"unknown channel", func(d *fraud.Draft) { d.Channel = "ATM" }, "channel"},
		{"missing customer", func(d *fraud.Draft) { d.CustomerID = "" }, "customer_id"},
		{"missing device", func(d *fraud.Draft) { d.DeviceID = "" }, "device_id"},
		{"missing merchant", func(d *fraud.Draft) { d.MerchantID = "" }, "merchant_id"},
		{"bad timestamp", func(d *fraud.Draft) { d.Timestamp = "ayer" }, "timestamp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.mutate(&d)

			err := manual.Validate(d)
			require.Error(t, err)
			assert.True(t, manual.IsFieldErrors(err))

			var fe manual.FieldErrors
			require.True(t, errors.As(err, &fe))
			assert.Contains(t, fe, tt.field)
		})
	}
}

func TestDraftFromForm(t *testing.T) {
	form := url.Values{
		"transaction_id": {" MY-1 "},
		"customer_id":    {"C-9"},
		"amount":         {"1,500.50"},
		"currency":       {"usd"},
		"country":        {"co"},
		"channel":        {"mobile"},
		"device_id":      {"DEV-1"},
		"merchant_id":    {"M-1"},
		"timestamp":      {"2025-06-01T10:00"},
	}

	d, errs := manual.DraftFromForm(form)
	assert.Empty(t, errs)
	assert.Equal(t, "MY-1", d.TransactionID.String)
	assert.Equal(t, 1500.50, d.Amount)
	assert.Equal(t, "USD", d.Currency)
	assert.Equal(t, "CO", d.Country)
	assert.Equal(t, "MOBILE", d.Channel)
	require.NoError(t, manual.Validate(d))

	form.Set("amount", "mucho")
	form.Set("transaction_id", "")
	d, errs = manual.DraftFromForm(form)
	assert.Contains(t, errs, "amount")
	assert.False(t, d.TransactionID.Valid)
}

// =============================================================================
// Submit Tests
// =============================================================================

func setup() (*manual.Service, *MockCreator, *draft.Drafts, *MockJournal) {
	creator := new(MockCreator)
	drafts := draft.New(draft.NewMemoryStore(0))
	journal := new(MockJournal)
	return manual.NewService(creator, drafts, journal, logger.Discard()), creator, drafts, journal
}

func TestService_FormDefaults(t *testing.T) {
	svc, _, _, _ := setup()
	d := svc.Form(context.Background(), "ana")
	assert.Equal(t, "C-1001", d.CustomerID)
	assert.Equal(t, "PEN", d.Currency)
}

func TestService_SubmitSuccess(t *testing.T) {
	ctx := context.Background()
	svc, creator, drafts, journal := setup()
	d := validDraft()

	creator.On("CreateTransaction", mock.Anything, d).
		Return(&fraud.TransactionDetail{Transaction: fraud.Transaction{ID: "T-77"}, DecisionRecord: fraud.DecisionRecord{Decision: fraud.DecisionApprove}}, nil)
	journal.On("RecordQuietly", mock.Anything, mock.MatchedBy(func(e activity.Entry) bool {
		return e.EventType == activity.EventTransactionSubmitted && e.TransactionID.String == "T-77"
	}))

	detail, err := svc.Submit(ctx, "ana", d)
	require.NoError(t, err)
	assert.Equal(t, "T-77", detail.ID)

	_, ok, err := drafts.Entry(ctx, "ana")
	require.NoError(t, err)
	assert.False(t, ok, "an accepted draft is cleared")
	journal.AssertExpectations(t)
}

func TestService_SubmitBackendUnreachableKeepsValues(t *testing.T) {
	ctx := context.Background()
	svc, creator, _, journal := setup()
	d := validDraft()
	d.CustomerID = "C-4242"
	d.Amount = 999.99

	creator.On("CreateTransaction", mock.Anything, d).Return(nil, errors.New("connection refused"))

	_, err := svc.Submit(ctx, "ana", d)
	require.Error(t, err)

	kept := svc.Form(ctx, "ana")
	assert.Equal(t, d, kept)
	journal.AssertNotCalled(t, "RecordQuietly", mock.Anything, mock.Anything)
}

func TestService_SubmitInvalidNeverCallsBackend(t *testing.T) {
	ctx := context.Background()
	svc, creator, _, _ := setup()
	d := validDraft()
	d.Amount = 0

	_, err := svc.Submit(ctx, "ana", d)
	require.Error(t, err)
	assert.True(t, manual.IsFieldErrors(err))
	creator.AssertNotCalled(t, "CreateTransaction", mock.Anything, mock.Anything)

	assert.Equal(t, 0.0, svc.Form(ctx, "ana").Amount, "invalid input is still kept")
}
