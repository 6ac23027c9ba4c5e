package activity

import (
	"time"

	"github.com/google/uuid"
	"github.com/guregu/null/v5"
)

// EventType names an analyst action.
type EventType string

const (
	EventCaseResolved         EventType = "case_resolved"
	EventTransactionSubmitted EventType = "transaction_submitted"
	EventSeedTriggered        EventType = "seed_triggered"
	EventSeedFailed           EventType = "seed_failed"
)

// Label is the Spanish label shown in the journal.
func (e EventType) Label() string {
	switch e {
	case EventCaseResolved:
		return "Caso resuelto"
	case EventTransactionSubmitted:
		return "Transacción enviada"
	case EventSeedTriggered:
		return "Datos sintéticos generados"
	case EventSeedFailed:
		return "Error al generar datos"
	default:
		return string(e)
	}
}

// Entry is one recorded analyst action.
type Entry struct {
	ID            uuid.UUID
	Analyst       string
	EventType     EventType
	TransactionID null.String
	CaseID        null.String
	Description   string
	Metadata      map[string]string
	CreatedAt     time.Time
}
