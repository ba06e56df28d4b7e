package models

import "time"

// Refund is a full or partial reversal of a sale initiated by the merchant.
// TransactionReference points at the original sale.
type Refund struct {
	RefundReference      string
	Currency             string
	Amount               string
	CustomerReference    string
	Reason               string
	Note                 string
	Time                 *time.Time
	TransactionReference string
	Items                []string
	Attributes           map[string]string
}

// RefundID is the legacy name of RefundReference.
func (r *Refund) RefundID() string {
	return r.RefundReference
}

// SetRefundID sets RefundReference.
func (r *Refund) SetRefundID(id string) {
	r.RefundReference = id
}

// Chargeback is a reversal initiated by the card holder's bank.
type Chargeback struct {
	ChargebackReference   string
	Currency              string
	Amount                string
	CustomerReference     string
	Reason                string
	Status                string
	StatusChangedTime     *time.Time
	ProcessorReceivedTime *time.Time
	TransactionReference  string
	ReasonCode            string
	CaseNumber            string
}
