package bluesnap

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/beevik/etree"

	"github.com/kevin07696/bluesnap-gateway/pkg/bluesnap/models"
	"github.com/kevin07696/bluesnap-gateway/pkg/timeutil"
)

// ExtendedResponse wraps the XML documents returned by the Extended API:
// orders, shoppers, subscriptions and subscription charges. One type serves
// all of them, so most getters try several locations in order.
type ExtendedResponse struct {
	*Response

	root     *etree.Element
	invoices invoiceView

	transactionOnce sync.Once
	transaction     *models.Transaction
	refundsOnce     sync.Once
	refunds         []*models.Refund
	chargebacksOnce sync.Once
	chargebacks     []*models.Chargeback
}

// invoiceView is the result of matching post-sale invoices against the
// requested transaction reference.
type invoiceView struct {
	primary     *etree.Element
	refunds     []*etree.Element
	chargebacks []*etree.Element
}

func newExtendedResponse(base *Response) *ExtendedResponse {
	r := &ExtendedResponse{Response: base, root: base.xmlRoot()}
	var reference string
	if base.request != nil {
		reference = base.request.TransactionReference()
	}
	r.invoices = selectInvoices(r.root, reference)
	return r
}

// selectInvoices picks, among post-sale-info/invoices, the first invoice
// whose id is reference and every refund or chargeback invoice whose
// original-invoice-id is reference.
func selectInvoices(root *etree.Element, reference string) invoiceView {
	var view invoiceView
	invoices := child(root, "post-sale-info", "invoices")
	if invoices == nil || reference == "" {
		return view
	}

	for _, invoice := range invoices.ChildElements() {
		if view.primary == nil {
			if id, ok := text(invoice, "invoice-id"); ok && id == reference {
				view.primary = invoice
			}
		}

		reversal, hasReversal := text(invoice, "reversal-type")
		original, hasOriginal := text(invoice, "original-invoice-id")
		if !hasReversal || !hasOriginal || original != reference {
			continue
		}
		switch reversal {
		case ReversalRefund:
			view.refunds = append(view.refunds, invoice)
		case ReversalChargeback:
			view.chargebacks = append(view.chargebacks, invoice)
		}
	}
	return view
}

// primaryTransaction returns the financial transaction of the matched
// invoice, or nil.
func (r *ExtendedResponse) primaryTransaction() *etree.Element {
	if !r.hasPrimary() {
		return nil
	}
	return child(r.invoices.primary, "financial-transactions", "financial-transaction")
}

func (r *ExtendedResponse) hasPrimary() bool {
	return r.invoices.primary != nil
}

// firstOf returns the text of the first path that exists under root.
func (r *ExtendedResponse) firstOf(paths ...[]string) string {
	for _, path := range paths {
		if s, ok := text(r.root, path...); ok {
			return s
		}
	}
	return ""
}

// CustomerReference returns the shopper id.
func (r *ExtendedResponse) CustomerReference() string {
	return r.firstOf(
		[]string{"shopper-id"},
		[]string{"shopper-info", "shopper-id"},
		[]string{"ordering-shopper", "shopper-id"},
	)
}

// TransactionReference returns the invoice id of the matched invoice or of
// a subscription charge.
func (r *ExtendedResponse) TransactionReference() string {
	if r.hasPrimary() {
		return textOrEmpty(r.invoices.primary, "invoice-id")
	}
	return r.firstOf([]string{"charge-invoice-info", "invoice-id"})
}

// SubscriptionReference returns the subscription id.
func (r *ExtendedResponse) SubscriptionReference() string {
	return r.firstOf([]string{"subscription-id"})
}

// Amount prefers the matched transaction, then an overridden recurring
// charge, then the catalog charge, then a subscription charge invoice.
func (r *ExtendedResponse) Amount() string {
	if r.root == nil {
		return ""
	}
	if r.hasPrimary() {
		return textOrEmpty(r.primaryTransaction(), "amount")
	}
	return r.firstOf(
		[]string{"override-recurring-charge", "amount"},
		[]string{"catalog-recurring-charge", "amount"},
		[]string{"charge-invoice-info", "invoice-amount"},
	)
}

// Currency follows the same precedence as Amount.
func (r *ExtendedResponse) Currency() string {
	if r.root == nil {
		return ""
	}
	if r.hasPrimary() {
		return textOrEmpty(r.primaryTransaction(), "currency")
	}
	return r.firstOf(
		[]string{"override-recurring-charge", "currency"},
		[]string{"catalog-recurring-charge", "currency"},
		[]string{"charge-invoice-info", "invoice-currency"},
	)
}

// Tax returns the cart tax of an order.
func (r *ExtendedResponse) Tax() string {
	return r.firstOf([]string{"cart", "tax"})
}

// Status returns the status of the matched transaction, otherwise the
// document status (e.g. a subscription's A, C or D).
func (r *ExtendedResponse) Status() string {
	if r.hasPrimary() {
		return textOrEmpty(r.primaryTransaction(), "status")
	}
	return r.firstOf([]string{"status"})
}

// PlanReference returns the sku of the matched transaction, otherwise the
// subscription's underlying sku.
func (r *ExtendedResponse) PlanReference() string {
	if r.hasPrimary() {
		return textOrEmpty(r.primaryTransaction(), "skus", "sku", "sku-id")
	}
	return r.firstOf([]string{"underlying-sku-id"})
}

// DateCreated returns when the matched transaction, the first subscription
// charge, or the charge invoice was created.
func (r *ExtendedResponse) DateCreated() *time.Time {
	if r.root == nil {
		return nil
	}
	if r.hasPrimary() {
		return timeutil.ParseGatewayTime(textOrEmpty(r.primaryTransaction(), "date-created"))
	}
	if charges := r.SubscriptionCharges(); len(charges) > 0 {
		return charges[0].Date
	}
	if s, ok := text(r.root, "charge-invoice-info", "date-created"); ok {
		return timeutil.ParseGatewayTime(s)
	}
	return nil
}

// NextChargeDate returns a subscription's next charge date.
func (r *ExtendedResponse) NextChargeDate() *time.Time {
	if s, ok := text(r.root, "next-charge-date"); ok {
		return timeutil.ParseGatewayTime(s)
	}
	return nil
}

// SubscriptionCharges lists the charges of a subscription fetched with its
// full description. It returns nil when there are none.
func (r *ExtendedResponse) SubscriptionCharges() []*models.SubscriptionCharge {
	list := child(r.root, "subscription-charges")
	if list == nil {
		return nil
	}

	var charges []*models.SubscriptionCharge
	for _, charge := range list.ChildElements() {
		info := charge.SelectElement("charge-invoice-info")
		if info == nil {
			continue
		}
		charges = append(charges, &models.SubscriptionCharge{
			Date:                  timeutil.ParseGatewayTime(textOrEmpty(info, "date-created")),
			TransactionReference:  textOrEmpty(info, "invoice-id"),
			Amount:                textOrEmpty(info, "invoice-amount"),
			Currency:              textOrEmpty(info, "invoice-currency"),
			CustomerReference:     r.CustomerReference(),
			SubscriptionReference: r.SubscriptionReference(),
		})
	}
	return charges
}

// Subscriptions lists the subscriptions of a shopper. It returns nil when
// the document carries no subscriptions element.
func (r *ExtendedResponse) Subscriptions() []*models.Subscription {
	list := child(r.root, "subscriptions")
	if list == nil {
		return nil
	}

	subscriptions := make([]*models.Subscription, 0, len(list.ChildElements()))
	for _, sub := range list.ChildElements() {
		subscriptions = append(subscriptions, &models.Subscription{
			SubscriptionReference: textOrEmpty(sub, "subscription-id"),
			Currency:              textOrEmpty(sub, "catalog-recurring-charge", "currency"),
			Amount:                textOrEmpty(sub, "catalog-recurring-charge", "amount"),
			Status:                textOrEmpty(sub, "status"),
		})
	}
	return subscriptions
}

// Card returns the card used for the matched transaction, or the card on
// file of a subscription. Contact details only come with a transaction.
func (r *ExtendedResponse) Card() *models.CreditCard {
	card := &models.CreditCard{}
	populated := false

	ft := r.primaryTransaction()
	cardXML := child(ft, "credit-card")
	if cardXML == nil {
		cardXML = child(r.root, "credit-card")
	}
	if cardXML != nil {
		if s, ok := text(cardXML, "card-type"); ok {
			card.SetBrand(strings.ToLower(s))
			populated = true
		}
		if s, ok := text(cardXML, "card-last-four-digits"); ok {
			card.Number = s
			populated = true
		}
		if s, ok := text(cardXML, "expiration-month"); ok {
			card.ExpiryMonth, _ = strconv.Atoi(strings.TrimSpace(s))
			populated = true
		}
		if s, ok := text(cardXML, "expiration-year"); ok {
			card.ExpiryYear, _ = strconv.Atoi(strings.TrimSpace(s))
			populated = true
		}
	}

	if contact := child(ft, "invoice-contact-info"); contact != nil {
		fields := []struct {
			name string
			dst  *string
		}{
			{"first-name", &card.FirstName},
			{"last-name", &card.LastName},
			{"email", &card.Email},
			{"state", &card.State},
			{"country", &card.Country},
			{"zip", &card.Postcode},
		}
		for _, f := range fields {
			if s, ok := text(contact, f.name); ok {
				*f.dst = s
				populated = true
			}
		}
	}

	if !populated {
		return nil
	}
	return card
}

// Transaction returns the matched sale. It is nil unless an invoice matched
// the requested transaction reference.
func (r *ExtendedResponse) Transaction() *models.Transaction {
	r.transactionOnce.Do(func() {
		if !r.hasPrimary() {
			return
		}
		r.transaction = &models.Transaction{
			Amount:               r.Amount(),
			Currency:             r.Currency(),
			CustomerReference:    r.CustomerReference(),
			Date:                 r.DateCreated(),
			Status:               r.Status(),
			TransactionReference: r.TransactionReference(),
		}
	})
	return r.transaction
}

// Refunds returns one refund per refund invoice of the requested
// transaction, or nil.
func (r *ExtendedResponse) Refunds() []*models.Refund {
	r.refundsOnce.Do(func() {
		for _, invoice := range r.invoices.refunds {
			id, ok := text(invoice, "invoice-id")
			if !ok {
				continue
			}
			ft := child(invoice, "financial-transactions", "financial-transaction")
			r.refunds = append(r.refunds, &models.Refund{
				Amount:               textOrEmpty(ft, "amount"),
				Currency:             textOrEmpty(ft, "currency"),
				RefundReference:      id,
				Time:                 timeutil.ParseGatewayTime(textOrEmpty(ft, "date-created")),
				TransactionReference: textOrEmpty(invoice, "original-invoice-id"),
			})
		}
	})
	return r.refunds
}

// Chargebacks returns one chargeback per chargeback invoice of the
// requested transaction, or nil.
func (r *ExtendedResponse) Chargebacks() []*models.Chargeback {
	r.chargebacksOnce.Do(func() {
		for _, invoice := range r.invoices.chargebacks {
			id, ok := text(invoice, "invoice-id")
			if !ok {
				continue
			}
			ft := child(invoice, "financial-transactions", "financial-transaction")
			r.chargebacks = append(r.chargebacks, &models.Chargeback{
				Amount:                textOrEmpty(ft, "amount"),
				Currency:              textOrEmpty(ft, "currency"),
				ChargebackReference:   id,
				ProcessorReceivedTime: timeutil.ParseGatewayTime(textOrEmpty(ft, "date-created")),
				Status:                ReversalChargeback,
				TransactionReference:  textOrEmpty(invoice, "original-invoice-id"),
			})
		}
	})
	return r.chargebacks
}

// CustomParameter returns a sku parameter of the first cart item.
func (r *ExtendedResponse) CustomParameter(name string) string {
	item := child(r.root, "cart", "cart-item")
	if item == nil {
		return ""
	}
	for _, param := range item.SelectElements("sku-parameter") {
		if textOrEmpty(param, "param-name") == name {
			return textOrEmpty(param, "param-value")
		}
	}
	return ""
}
