package dto

import "time"

// InvoiceLine is one revenue line of an invoice to post.
type InvoiceLine struct {
	RevenueAccountID string `json:"revenueAccountID" binding:"required"`
	Amount           int64  `json:"amount" binding:"required,gt=0"` // Minor currency units
	Description      string `json:"description"`
}

// PostInvoiceRequest asks the posting rules to turn an invoice into a journal
// entry. TaxRate is a decimal fraction such as "0.075"; amounts are integers
// in minor currency units.
type PostInvoiceRequest struct {
	InvoiceID     string        `json:"invoiceID" binding:"required"`
	InvoiceNumber string        `json:"invoiceNumber"`
	Date          time.Time     `json:"date" binding:"required"`
	Lines         []InvoiceLine `json:"lines" binding:"required,min=1,dive"`
	TaxRate       string        `json:"taxRate"`
}

// BillLine is one expense line of a vendor bill to post.
type BillLine struct {
	ExpenseAccountID string `json:"expenseAccountID" binding:"required"`
	Amount           int64  `json:"amount" binding:"required,gt=0"`
	Description      string `json:"description"`
}

// PostBillRequest asks the posting rules to turn a vendor bill into a journal entry.
type PostBillRequest struct {
	BillID     string     `json:"billID" binding:"required"`
	BillNumber string     `json:"billNumber"`
	Date       time.Time  `json:"date" binding:"required"`
	Lines      []BillLine `json:"lines" binding:"required,min=1,dive"`
	TaxRate    string     `json:"taxRate"`
}

// Payment directions.
const (
	PaymentReceived = "RECEIVED" // Customer payment: Dr cash / Cr accounts receivable
	PaymentMade     = "MADE"     // Vendor payment: Dr accounts payable / Cr cash
)

// PostPaymentRequest asks the posting rules to turn a payment into a journal entry.
type PostPaymentRequest struct {
	PaymentID string    `json:"paymentID" binding:"required"`
	Date      time.Time `json:"date" binding:"required"`
	Amount    int64     `json:"amount" binding:"required,gt=0"`
	Direction string    `json:"direction" binding:"required,oneof=RECEIVED MADE"`
	Reference string    `json:"reference"`
}

// VoidDocumentRequest reverses the posting entry of a previously posted document.
type VoidDocumentRequest struct {
	SourceType string `json:"sourceType" binding:"required,oneof=INVOICE BILL PAYMENT"`
	SourceID   string `json:"sourceID" binding:"required"`
	Reason     string `json:"reason"`
}
