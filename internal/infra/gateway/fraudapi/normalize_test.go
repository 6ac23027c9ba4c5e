package fraudapi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/fraudguard/console/internal/platform/fraud"
)

func TestTransactionID_Fallbacks(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    string
	}{
		{"transaction_id", `{"transaction_id":"T-1","id":9}`, "T-1"},
		{"id", `{"id":9}`, "9"},
		{"nested", `{"transaction":{"transaction_id":"T-2"}}`, "T-2"},
		{"scalar transaction", `{"transaction":"T-3"}`, "T-3"},
		{"numeric scalar", `{"transaction":31}`, "31"},
		{"decision record pk", `{"id":42,"transaction":"TX-77","decision":"APPROVE"}`, "TX-77"},
		{"decision record nested", `{"id":42,"transaction":{"transaction_id":"TX-78"}}`, "TX-78"},
		{"record pk without reference", `{"id":42,"transaction":null}`, ""},
		{"absent", `{"amount":1}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, transactionID(gjson.Parse(tt.payload)))
		})
	}
}

func TestCustomerID_Fallbacks(t *testing.T) {
	assert.Equal(t, "C-1", customerID(gjson.Parse(`{"customer_id":"C-1"}`)))
	assert.Equal(t, "C-2", customerID(gjson.Parse(`{"customer":{"customer_id":"C-2"}}`)))
	assert.Equal(t, "12", customerID(gjson.Parse(`{"customer":12}`)))
}

func TestParseTime_Layouts(t *testing.T) {
	want := time.Date(2025, 6, 1, 14, 30, 0, 0, time.UTC)

	assert.True(t, want.Equal(parseTime(gjson.Parse(`"2025-06-01T14:30:00Z"`))))
	assert.True(t, want.Equal(parseTime(gjson.Parse(`"2025-06-01T14:30"`))))
	assert.True(t, want.Equal(parseTime(gjson.Parse(`"2025-06-01 14:30:00"`))))
	assert.True(t, want.Equal(parseTime(gjson.Parse(`"2025-06-01 14:30"`))))
	assert.Equal(t, 2025, parseTime(gjson.Parse(`"2025-06-01"`)).Year())
	assert.True(t, parseTime(gjson.Parse(`"yesterday"`)).IsZero())
	assert.True(t, parseTime(gjson.Parse(`null`)).IsZero())
}

func TestParseDetail_FlatPayload(t *testing.T) {
	doc := gjson.Parse(`{
		"transaction_id": "T-1001",
		"customer_id": "C-1001",
		"amount": "1500.00",
		"currency": "USD",
		"country": "PE",
		"channel": "WEB",
		"device_id": "DEV-1",
		"merchant_id": "M-9",
		"timestamp": "2025-06-01T03:12:00Z",
		"decision": "BLOCK",
		"confidence": 0.93,
		"signals": ["unusual_hour", "new_device"],
		"citations_internal": [{"policy_id": "POL-001", "rule": "Amount over 3x average", "version": "1.2"}],
		"citations_external": [{"source": "OSINT", "summary": "Merchant reported", "url": "https://example.com/a"}],
		"explanation_customer": "Tu transacción fue bloqueada.",
		"explanation_audit": "**POL-001**\nmatched rule"
	}`)

	detail := parseDetail(doc)

	assert.Equal(t, "T-1001", detail.ID)
	assert.Equal(t, "C-1001", detail.CustomerID)
	assert.Equal(t, 1500.0, detail.Amount)
	assert.Equal(t, "USD", detail.Currency)
	assert.Equal(t, fraud.DecisionBlock, detail.Decision)
	assert.Equal(t, 0.93, detail.Confidence)
	assert.Equal(t, []string{"unusual_hour", "new_device"}, detail.Signals)
	require.Len(t, detail.InternalCitations, 1)
	assert.Equal(t, fraud.PolicyCitation{PolicyID: "POL-001", Rule: "Amount over 3x average", Version: "1.2"}, detail.InternalCitations[0])
	require.Len(t, detail.ExternalCitations, 1)
	assert.Equal(t, "https://example.com/a", detail.ExternalCitations[0].URL)
	assert.Equal(t, "**POL-001**\nmatched rule", detail.AuditExplanation)
}

func TestParseDetail_NestedDecision(t *testing.T) {
	doc := gjson.Parse(`{
		"transaction_id": "T-7",
		"amount": 20,
		"decision": {
			"decision": "ESCALATE_TO_HUMAN",
			"confidence": 0.55,
			"signals": ["velocity"],
			"explanation_audit": "needs review"
		}
	}`)

	detail := parseDetail(doc)

	assert.Equal(t, "T-7", detail.ID)
	assert.Equal(t, fraud.DecisionEscalate, detail.Decision)
	assert.Equal(t, 0.55, detail.Confidence)
	assert.Equal(t, []string{"velocity"}, detail.Signals)
	assert.Equal(t, "needs review", detail.AuditExplanation)
	assert.NotNil(t, detail.InternalCitations)
	assert.Empty(t, detail.ExternalCitations)
}

func TestParseDetail_DecisionRecordKeepsTransactionRef(t *testing.T) {
	detail := parseDetail(gjson.Parse(`{"id":42,"transaction":"TX-77","decision":"BLOCK","confidence":0.9}`))

	assert.Equal(t, "TX-77", detail.ID)
	assert.Equal(t, fraud.DecisionBlock, detail.Decision)
}

func TestParseSummary_UnknownDecision(t *testing.T) {
	s := parseSummary(gjson.Parse(`{"id": 4, "decision": "REVIEW", "confidence": 0.2}`))
	assert.Equal(t, "4", s.ID)
	assert.Equal(t, fraud.DecisionUnknown, s.Decision)
}

func TestParseCase(t *testing.T) {
	c := parseCase(gjson.Parse(`{
		"id": 12,
		"status": "open",
		"created_at": "2025-06-01T10:00:00Z",
		"transaction": {"transaction_id": "T-9", "customer": "C-5", "amount": 99.5, "currency": "PEN"}
	}`))

	assert.Equal(t, "12", c.ID)
	assert.Equal(t, fraud.CaseStatusOpen, c.Status)
	assert.Equal(t, "T-9", c.Transaction.ID)
	assert.Equal(t, "C-5", c.Transaction.CustomerID)
	assert.Equal(t, 99.5, c.Transaction.Amount)

	scalarRef := parseCase(gjson.Parse(`{"id": 13, "transaction": 44}`))
	assert.Equal(t, "44", scalarRef.Transaction.ID)
	assert.Equal(t, fraud.CaseStatusOpen, scalarRef.Status)
}

func TestParseReport_TransactionRef(t *testing.T) {
	nested := parseReport(gjson.Parse(`{"id": 1, "transaction": {"transaction_id": "T-1"}, "decision": "APPROVE"}`))
	assert.True(t, nested.TransactionRef.Valid)
	assert.Equal(t, "T-1", nested.TransactionRef.String)

	flat := parseReport(gjson.Parse(`{"id": 2, "transaction": "T-2"}`))
	assert.Equal(t, "T-2", flat.TransactionRef.String)

	missing := parseReport(gjson.Parse(`{"id": 3, "decision": "BLOCK", "explanation_audit": "x"}`))
	assert.False(t, missing.TransactionRef.Valid)
	assert.Equal(t, fraud.DecisionBlock, missing.Decision)
	assert.Equal(t, "x", missing.AuditExplanation)
}

func TestParseArray_RejectsObject(t *testing.T) {
	_, err := parseArray([]byte(`{"detail":"x"}`))
	assert.ErrorIs(t, err, ErrMalformedResponse)

	_, err = parseArray([]byte(`not json`))
	assert.ErrorIs(t, err, ErrMalformedResponse)

	items, err := parseArray([]byte(`[{"id":1}]`))
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
