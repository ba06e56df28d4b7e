package bluesnap

import (
	"strconv"
	"strings"
	"sync"

	"github.com/kevin07696/bluesnap-gateway/pkg/bluesnap/models"
	"github.com/kevin07696/bluesnap-gateway/pkg/timeutil"
)

// Report column names
const (
	colAmount              = "Merchant Sales (Auth Currency)"
	colCurrency            = "Auth. Currency"
	colShopperID           = "Shopper ID"
	colTransactionDate     = "Transaction Date"
	colTransactionType     = "Transaction Type"
	colInvoiceID           = "Invoice ID"
	colOriginalInvoiceID   = "Original Invoice ID"
	colReversalReason      = "Refund / Chargeback Reason"
	colSubscriptionID      = "Subscription ID"
	colPrice               = "Price (Auth. Currency)"
	colLastChargePrice     = "Last Charge Price (Auth. Currency)"
	customFieldColumnToken = "Custom Field"
)

// ReportingResponse wraps a Reporting API table.
type ReportingResponse struct {
	*Response

	refundsOnce     sync.Once
	refunds         []*models.Refund
	chargebacksOnce sync.Once
	chargebacks     []*models.Chargeback
}

func newReportingResponse(base *Response) *ReportingResponse {
	return &ReportingResponse{Response: base}
}

// rows returns the report rows, or nil with ok false when the body was not
// a report.
func (r *ReportingResponse) rows() ([]Row, bool) {
	t := r.table()
	if t == nil || !t.HasData {
		return nil, false
	}
	return t.Rows, true
}

// Transactions returns one transaction per report row. Columns named
// "Custom Field N" with a value become custom parameter N.
func (r *ReportingResponse) Transactions() []*models.Transaction {
	rows, ok := r.rows()
	if !ok {
		return nil
	}

	transactions := make([]*models.Transaction, 0, len(rows))
	for _, row := range rows {
		tx := &models.Transaction{
			Amount:               row[colAmount],
			Currency:             row[colCurrency],
			CustomerReference:    row[colShopperID],
			Date:                 timeutil.ParseGatewayTime(row[colTransactionDate]),
			Status:               row[colTransactionType],
			TransactionReference: row[colInvoiceID],
		}
		for column, value := range row {
			if value == "" || !strings.Contains(column, customFieldColumnToken) {
				continue
			}
			parts := strings.Split(column, " ")
			if len(parts) < 3 {
				continue
			}
			if n, err := strconv.Atoi(parts[2]); err == nil {
				tx.SetCustomParameter(n, value)
			}
		}
		transactions = append(transactions, tx)
	}
	return transactions
}

// Subscriptions returns one subscription per report row. The price column
// differs between the active and canceled reports.
func (r *ReportingResponse) Subscriptions() []*models.Subscription {
	rows, ok := r.rows()
	if !ok {
		return nil
	}

	subscriptions := make([]*models.Subscription, 0, len(rows))
	for _, row := range rows {
		amount, ok := row.Value(colPrice)
		if !ok {
			amount = row[colLastChargePrice]
		}
		subscriptions = append(subscriptions, &models.Subscription{
			SubscriptionReference: row[colSubscriptionID],
			Currency:              row[colCurrency],
			Amount:                amount,
		})
	}
	return subscriptions
}

// Refunds returns the rows whose transaction type is Refund, or nil.
func (r *ReportingResponse) Refunds() []*models.Refund {
	r.refundsOnce.Do(func() {
		rows, _ := r.rows()
		for _, row := range rows {
			if row[colTransactionType] != TransactionTypeRefund {
				continue
			}
			r.refunds = append(r.refunds, &models.Refund{
				Amount:               row[colAmount],
				Currency:             row[colCurrency],
				CustomerReference:    row[colShopperID],
				Time:                 timeutil.ParseGatewayTime(row[colTransactionDate]),
				Reason:               row[colReversalReason],
				RefundReference:      row[colInvoiceID],
				TransactionReference: row[colOriginalInvoiceID],
			})
		}
	})
	return r.refunds
}

// Chargebacks returns the rows whose transaction type is Chargeback, or nil.
func (r *ReportingResponse) Chargebacks() []*models.Chargeback {
	r.chargebacksOnce.Do(func() {
		rows, _ := r.rows()
		for _, row := range rows {
			if row[colTransactionType] != TransactionTypeChargeback {
				continue
			}
			r.chargebacks = append(r.chargebacks, &models.Chargeback{
				Amount:                row[colAmount],
				Currency:              row[colCurrency],
				CustomerReference:     row[colShopperID],
				ProcessorReceivedTime: timeutil.ParseGatewayTime(row[colTransactionDate]),
				Reason:                row[colReversalReason],
				ChargebackReference:   row[colInvoiceID],
				TransactionReference:  row[colOriginalInvoiceID],
			})
		}
	})
	return r.chargebacks
}
