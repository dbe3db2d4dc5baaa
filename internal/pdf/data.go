package pdf

import (
	"html/template"
	"time"
)

// InvoiceParty is the issuer block on the invoice.
type InvoiceParty struct {
	Name        string
	Address     string
	RegNumber   string
	VATNumber   string
	BankAccount string
}

// InvoiceHead identifies the invoice itself.
type InvoiceHead struct {
	Number    string
	CreatedAt time.Time
	DueDate   time.Time
}

// InvoiceLine is one order line on the invoice.
type InvoiceLine struct {
	Name      string
	Amount    int
	UnitPrice string
	LineTotal string
}

// OrderRef references the paid order.
type OrderRef struct {
	ID int64
}

// InvoiceData is the full template context for templates/invoice.html.
type InvoiceData struct {
	Invoice InvoiceHead
	Issuer  InvoiceParty
	Order   OrderRef
	Lines   []InvoiceLine

	Subtotal     string
	ShippingCost string
	// ReceiptFee is empty when no fee applies; the template hides the row.
	ReceiptFee string
	Total      string
	Currency   string

	// QRImage is a pre-rendered <img> fragment with a data URI.
	QRImage template.HTML
}
