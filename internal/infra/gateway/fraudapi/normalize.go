package fraudapi

import (
	"fmt"
	"strings"
	"time"

	"github.com/guregu/null/v5"
	"github.com/tidwall/gjson"

	"github.com/fraudguard/console/internal/platform/fraud"
)

// timeLayouts are tried in order when a backend timestamp is parsed.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

func parseDocument(body []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, fmt.Errorf("%w: invalid JSON", ErrMalformedResponse)
	}
	return gjson.ParseBytes(body), nil
}

func parseArray(body []byte) ([]gjson.Result, error) {
	doc, err := parseDocument(body)
	if err != nil {
		return nil, err
	}
	if !doc.IsArray() {
		return nil, fmt.Errorf("%w: expected an array", ErrMalformedResponse)
	}
	return doc.Array(), nil
}

func parseObject(body []byte) (gjson.Result, error) {
	doc, err := parseDocument(body)
	if err != nil {
		return gjson.Result{}, err
	}
	if !doc.IsObject() {
		return gjson.Result{}, fmt.Errorf("%w: expected an object", ErrMalformedResponse)
	}
	return doc, nil
}

// scalar renders a string or number as text. Objects, arrays and null give "".
func scalar(r gjson.Result) string {
	switch r.Type {
	case gjson.String:
		return r.String()
	case gjson.Number:
		return r.Raw
	default:
		return ""
	}
}

// firstScalar returns the first non-empty scalar among paths.
func firstScalar(r gjson.Result, paths ...string) string {
	for _, p := range paths {
		if s := scalar(r.Get(p)); s != "" {
			return s
		}
	}
	return ""
}

// transactionID resolves the transaction reference of a payload. A decision
// record carries its own primary key in "id" next to the "transaction"
// reference, so "id" is only read when there is no "transaction" key.
func transactionID(r gjson.Result) string {
	if id := firstScalar(r, "transaction_id", "transaction.transaction_id", "transaction"); id != "" {
		return id
	}
	if r.Get("transaction").Exists() {
		return ""
	}
	return scalar(r.Get("id"))
}

func customerID(r gjson.Result) string {
	return firstScalar(r, "customer_id", "customer.customer_id", "customer")
}

func parseTime(r gjson.Result) time.Time {
	s := strings.TrimSpace(r.String())
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func parseTransaction(r gjson.Result) fraud.Transaction {
	return fraud.Transaction{
		ID:         transactionID(r),
		CustomerID: customerID(r),
		Amount:     r.Get("amount").Float(),
		Currency:   r.Get("currency").String(),
		Country:    r.Get("country").String(),
		Channel:    r.Get("channel").String(),
		DeviceID:   scalar(r.Get("device_id")),
		MerchantID: scalar(r.Get("merchant_id")),
		Timestamp:  parseTime(r.Get("timestamp")),
	}
}

// decisionSource returns the object holding the decision record fields: the
// nested "decision" object when present, otherwise r itself.
func decisionSource(r gjson.Result) gjson.Result {
	if d := r.Get("decision"); d.IsObject() {
		return d
	}
	return r
}

func parseDecisionValue(r gjson.Result) fraud.Decision {
	return fraud.ParseDecision(decisionSource(r).Get("decision").String())
}

func parseSummary(r gjson.Result) fraud.TransactionSummary {
	src := decisionSource(r)
	return fraud.TransactionSummary{
		Transaction: parseTransaction(r),
		Decision:    parseDecisionValue(r),
		Confidence:  src.Get("confidence").Float(),
	}
}

func parseDecisionRecord(r gjson.Result) fraud.DecisionRecord {
	src := decisionSource(r)

	rec := fraud.DecisionRecord{
		Decision:            parseDecisionValue(r),
		Confidence:          src.Get("confidence").Float(),
		Signals:             []string{},
		InternalCitations:   []fraud.PolicyCitation{},
		ExternalCitations:   []fraud.ExternalCitation{},
		CustomerExplanation: src.Get("explanation_customer").String(),
		AuditExplanation:    src.Get("explanation_audit").String(),
	}

	for _, s := range src.Get("signals").Array() {
		if v := scalar(s); v != "" {
			rec.Signals = append(rec.Signals, v)
		}
	}

	for _, c := range src.Get("citations_internal").Array() {
		if !c.IsObject() {
			rec.InternalCitations = append(rec.InternalCitations, fraud.PolicyCitation{Rule: c.String()})
			continue
		}
		rec.InternalCitations = append(rec.InternalCitations, fraud.PolicyCitation{
			PolicyID: scalar(c.Get("policy_id")),
			Rule:     c.Get("rule").String(),
			Version:  scalar(c.Get("version")),
		})
	}

	for _, c := range src.Get("citations_external").Array() {
		if !c.IsObject() {
			rec.ExternalCitations = append(rec.ExternalCitations, fraud.ExternalCitation{Summary: c.String()})
			continue
		}
		rec.ExternalCitations = append(rec.ExternalCitations, fraud.ExternalCitation{
			Source:  c.Get("source").String(),
			Summary: c.Get("summary").String(),
			URL:     c.Get("url").String(),
		})
	}

	return rec
}

func parseDetail(r gjson.Result) *fraud.TransactionDetail {
	tx := r
	// A decision record payload may nest the transaction it belongs to.
	if nested := r.Get("transaction"); nested.IsObject() {
		tx = nested
	}
	detail := &fraud.TransactionDetail{
		Transaction:    parseTransaction(tx),
		DecisionRecord: parseDecisionRecord(r),
	}
	if detail.ID == "" {
		detail.ID = transactionID(r)
	}
	return detail
}

func parseCase(r gjson.Result) fraud.Case {
	c := fraud.Case{
		ID:        scalar(r.Get("id")),
		Status:    fraud.CaseStatus(strings.ToUpper(r.Get("status").String())),
		CreatedAt: parseTime(r.Get("created_at")),
	}
	if c.Status == "" {
		c.Status = fraud.CaseStatusOpen
	}
	if tx := r.Get("transaction"); tx.IsObject() {
		c.Transaction = parseTransaction(tx)
	} else {
		c.Transaction.ID = firstScalar(r, "transaction_id", "transaction")
	}
	return c
}

func parseReport(r gjson.Result) fraud.Report {
	rep := fraud.Report{
		ID:               scalar(r.Get("id")),
		Decision:         parseDecisionValue(r),
		Confidence:       decisionSource(r).Get("confidence").Float(),
		AuditExplanation: decisionSource(r).Get("explanation_audit").String(),
		CreatedAt:        parseTime(r.Get("created_at")),
	}
	if ref := firstScalar(r, "transaction.transaction_id", "transaction_id", "transaction"); ref != "" {
		rep.TransactionRef = null.StringFrom(ref)
	}
	return rep
}

func parseStats(r gjson.Result) *fraud.Stats {
	return &fraud.Stats{
		TotalAnalyzed: r.Get("total_analyzed").Int(),
		Blocked:       r.Get("blocked").Int(),
		PendingHITL:   r.Get("pending_hitl").Int(),
		Accuracy:      r.Get("accuracy").Float(),
	}
}
