package fraud

import "time"

// Transaction is the backend's transaction record as shown by the console.
type Transaction struct {
	ID         string
	CustomerID string
	Amount     float64
	Currency   string
	Country    string
	Channel    string
	DeviceID   string
	MerchantID string
	Timestamp  time.Time
}

// PolicyCitation is an internal policy rule the backend matched.
type PolicyCitation struct {
	PolicyID string
	Rule     string
	Version  string
}

// ExternalCitation is an external threat source the backend used.
type ExternalCitation struct {
	Source  string
	Summary string
	URL     string
}

// DecisionRecord is the backend's verdict for one transaction. Read-only.
type DecisionRecord struct {
	Decision            Decision
	Confidence          float64
	Signals             []string
	InternalCitations   []PolicyCitation
	ExternalCitations   []ExternalCitation
	CustomerExplanation string
	AuditExplanation    string
}

// TransactionSummary is one row of the transaction list.
type TransactionSummary struct {
	Transaction
	Decision   Decision
	Confidence float64
}

// TransactionDetail is the full record returned for one transaction.
type TransactionDetail struct {
	Transaction
	DecisionRecord
}
