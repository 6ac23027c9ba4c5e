package fraud

import (
	"time"

	"github.com/guregu/null/v5"
)

// DraftTimestampLayout is the datetime-local layout used by the entry form.
const DraftTimestampLayout = "2006-01-02T15:04"

// Draft is a transaction assembled by an analyst and not yet evaluated.
// It never carries a decision.
type Draft struct {
	TransactionID null.String `json:"transaction_id"`
	CustomerID    string      `json:"customer_id" validate:"required,max=50"`
	Amount        float64     `json:"amount" validate:"gt=0"`
	Currency      string      `json:"currency" validate:"required,oneof=PEN USD EUR"`
	Country       string      `json:"country" validate:"required,max=50"`
	Channel       string      `json:"channel" validate:"required,oneof=WEB MOBILE POS"`
	DeviceID      string      `json:"device_id" validate:"required,max=100"`
	MerchantID    string      `json:"merchant_id" validate:"required,max=50"`
	Timestamp     string      `json:"timestamp" validate:"required,datetime=2006-01-02T15:04"`
}

// NewDraft returns the form defaults.
func NewDraft(now time.Time) Draft {
	return Draft{
		CustomerID: "C-1001",
		Amount:     50.00,
		Currency:   "PEN",
		Country:    "PE",
		Channel:    "WEB",
		DeviceID:   "DEV-99",
		MerchantID: "M-500",
		Timestamp:  now.Format(DraftTimestampLayout),
	}
}

// Option is a labelled choice on the entry form.
type Option struct {
	Value string
	Label string
}

var (
	CurrencyOptions = []Option{{"PEN", "PEN"}, {"USD", "USD"}, {"EUR", "EUR"}}
	CountryOptions  = []Option{{"PE", "Perú"}, {"US", "USA"}, {"ES", "España"}, {"CO", "Colombia"}}
	ChannelOptions  = []Option{{"WEB", "Web"}, {"MOBILE", "App Móvil"}, {"POS", "POS Físico"}}
)
