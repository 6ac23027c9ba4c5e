package manual

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/guregu/null/v5"

	"github.com/fraudguard/console/internal/platform/fraud"
)

// DraftFromForm reads the entry form. An unparsable amount is reported as a
// field error and leaves the draft's amount at zero.
func DraftFromForm(form url.Values) (fraud.Draft, FieldErrors) {
	get := func(key string) string {
		return strings.TrimSpace(form.Get(key))
	}

	d := fraud.Draft{
		CustomerID: get("customer_id"),
		Currency:   strings.ToUpper(get("currency")),
		Country:    strings.ToUpper(get("country")),
		Channel:    strings.ToUpper(get("channel")),
		DeviceID:   get("device_id"),
		MerchantID: get("merchant_id"),
		Timestamp:  get("timestamp"),
	}
	if id := get("transaction_id"); id != "" {
		d.TransactionID = null.StringFrom(id)
	}

	var errs FieldErrors
	if raw := get("amount"); raw != "" {
		amount, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
		if err != nil {
			errs = FieldErrors{"amount": "debe ser un número"}
		} else {
			d.Amount = amount
		}
	}
	return d, errs
}
