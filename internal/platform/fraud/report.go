package fraud

import (
	"time"

	"github.com/guregu/null/v5"
)

// Report is a generated audit report. TransactionRef is invalid when the backend
// did not say which transaction the report belongs to.
type Report struct {
	ID               string
	TransactionRef   null.String
	Decision         Decision
	Confidence       float64
	AuditExplanation string
	CreatedAt        time.Time
}

// Stats are the dashboard counters, computed by the backend.
type Stats struct {
	TotalAnalyzed int64
	Blocked       int64
	PendingHITL   int64
	Accuracy      float64 // percent, e.g. 99.2
}
