package lookup

import (
	"strconv"
	"time"
)

// DocumentType identifies which kind of printable document an operation
// targets. The string values double as the quota-key prefix.
type DocumentType string

const (
	DocumentInvoice       DocumentType = "invoice"
	DocumentCreditNote    DocumentType = "creditNote"
	DocumentKitchenTicket DocumentType = "kitchenTicket"
)

func (t DocumentType) Valid() bool {
	switch t {
	case DocumentInvoice, DocumentCreditNote, DocumentKitchenTicket:
		return true
	}
	return false
}

// ReceiptCode is the comprobante code the billing print routine expects.
func (t DocumentType) ReceiptCode() string {
	switch t {
	case DocumentCreditNote:
		return "N"
	default:
		return "F"
	}
}

// MovementFilter is the substring that tags this document type in the
// print movement log.
func (t DocumentType) MovementFilter() string {
	switch t {
	case DocumentInvoice:
		return "factura"
	case DocumentCreditNote:
		return "nota_credito"
	default:
		return "orden"
	}
}

// OrderStatus is the current state of an order in one store, with the
// assigned courier when the order came through the delivery app.
type OrderStatus struct {
	Code      string    `json:"code"`
	Status    string    `json:"status"`
	InvoiceID string    `json:"invoice_id"`
	Channel   string    `json:"channel,omitempty"`
	OrderedAt time.Time `json:"ordered_at"`
	Courier   string    `json:"courier"`
}

// StatusChange is one recorded state transition of an order.
type StatusChange struct {
	Code      string    `json:"code"`
	Status    string    `json:"status"`
	ChangedAt time.Time `json:"changed_at"`
	Courier   string    `json:"courier"`
}

// ── row conversion ────────────────────────────────────────────────────────────

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	case int64:
		// Numeric identifiers come back as int64 from the driver.
		return strconv.FormatInt(s, 10)
	case nil:
		return ""
	}
	return ""
}

func asTime(v any) time.Time {
	if t, ok := v.(time.Time); ok {
		return t
	}
	return time.Time{}
}
