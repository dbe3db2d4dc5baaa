// Package qrpay builds SPAYD payment payloads and renders them as QR codes.
// The payload field order and delimiters are a wire contract consumed by
// banking apps; do not reorder them.
package qrpay

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// PaymentParams holds everything a payment request payload needs.
type PaymentParams struct {
	// IBAN is the target account. A degraded (non-IBAN) value is embedded
	// as-is; see bank.Convert for the tradeoff.
	IBAN string
	// Amount is rendered with exactly two decimal places.
	Amount decimal.Decimal
	// Currency is an ISO 4217 code, e.g. "CZK".
	Currency string
	// Message is a freeform note shown to the payer.
	Message string
	// VariableSymbol ties the payment to an order.
	VariableSymbol int64
	// RecipientName is shown by the banking app.
	RecipientName string
}

// BuildPayload encodes the parameters as a SPAYD 1.0 string:
// SPD*1.0*ACC:<iban>*AM:<amount>*CC:<cur>*MSG:<msg>*X-VS:<vs>*RN:<name>
func BuildPayload(p PaymentParams) string {
	return fmt.Sprintf("SPD*1.0*ACC:%s*AM:%s*CC:%s*MSG:%s*X-VS:%d*RN:%s",
		p.IBAN,
		p.Amount.StringFixed(2),
		p.Currency,
		sanitize(p.Message),
		p.VariableSymbol,
		sanitize(p.RecipientName),
	)
}

// sanitize strips the SPAYD field delimiter from freeform values so a
// user-supplied message cannot inject extra fields.
func sanitize(s string) string {
	return strings.ReplaceAll(s, "*", " ")
}
