package bluesnap

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	pkgerrors "github.com/kevin07696/bluesnap-gateway/pkg/errors"
	"github.com/kevin07696/bluesnap-gateway/pkg/timeutil"
)

// operation describes one API call: how to validate parameters, where to
// send them and what body to build. Descriptors are immutable and shared.
type operation struct {
	name     string
	method   string
	required []string
	path     func(p *Parameters) string
	validate func(p *Parameters) error
	body     func(p *Parameters) (*etree.Element, error)
}

var (
	opFetchCustomer = &operation{
		name:     "fetch_customer",
		method:   HTTPMethodGet,
		required: []string{ParamCustomerReference},
		path: func(p *Parameters) string {
			return "/shoppers/" + url.PathEscape(p.CustomerReference)
		},
	}

	opFetchTransaction = &operation{
		name:     "fetch_transaction",
		method:   HTTPMethodGet,
		required: []string{ParamTransactionReference},
		path: func(p *Parameters) string {
			return "/orders/resolve?invoiceId=" + url.QueryEscape(p.TransactionReference)
		},
	}

	opFetchSubscription = &operation{
		name:     "fetch_subscription",
		method:   HTTPMethodGet,
		required: []string{ParamSubscriptionReference},
		path: func(p *Parameters) string {
			return "/subscriptions/" + url.PathEscape(p.SubscriptionReference) + "?fulldescription=true"
		},
	}

	opFetchSubscriptionCharge = &operation{
		name:     "fetch_subscription_charge",
		method:   HTTPMethodGet,
		required: []string{ParamSubscriptionReference, ParamSubscriptionChargeReference},
		path: func(p *Parameters) string {
			return "/subscriptions/" + url.PathEscape(p.SubscriptionReference) +
				"/subscription-charges/" + url.PathEscape(p.SubscriptionChargeReference)
		},
	}

	opFetchCustomerSubscriptions = &operation{
		name:     "fetch_customer_subscriptions",
		method:   HTTPMethodGet,
		required: []string{ParamCustomerReference},
		path: func(p *Parameters) string {
			return "/tools/shopper-subscriptions-retriever?shopperid=" +
				url.QueryEscape(p.CustomerReference) + "&fulldescription=true"
		},
	}

	opUpdateSubscription = &operation{
		name:     "update_subscription",
		method:   HTTPMethodPut,
		required: []string{ParamSubscriptionReference},
		path:     subscriptionPath,
		body:     updateSubscriptionBody,
	}

	opCancelSubscription = &operation{
		name:     "cancel_subscription",
		method:   HTTPMethodPut,
		required: []string{ParamSubscriptionReference},
		path:     subscriptionPath,
		body:     subscriptionStatusBody(SubscriptionStatusCanceled),
	}

	opReactivateSubscription = &operation{
		name:     "reactivate_subscription",
		method:   HTTPMethodPut,
		required: []string{ParamSubscriptionReference},
		path:     subscriptionPath,
		body:     subscriptionStatusBody(SubscriptionStatusActive),
	}

	opTestChargeSubscription = &operation{
		name:     "test_charge_subscription",
		method:   HTTPMethodGet,
		required: []string{ParamSubscriptionReference},
		path: func(p *Parameters) string {
			return "/subscriptions/" + url.PathEscape(p.SubscriptionReference) + "/run-specific"
		},
		validate: func(p *Parameters) error {
			if !p.TestMode {
				return pkgerrors.NewValidationError(ParamTestMode, pkgerrors.MsgTestChargeNotTest)
			}
			return nil
		},
	}

	opRefund = &operation{
		name:     "refund",
		method:   HTTPMethodPut,
		required: []string{ParamTransactionReference},
		path:     refundPath,
		validate: func(p *Parameters) error {
			_, err := FormatAmount(p.Amount, p.Currency)
			return err
		},
	}

	opReportTransactions = reportOperation("fetch_transactions", ReportTransactionDetail, true)

	opReportSubscriptions = reportOperation("fetch_subscriptions", ReportActiveSubscriptions, false)

	opReportCanceledSubscriptions = reportOperation("fetch_canceled_subscriptions", ReportCanceledSubscriptions, false)

	opHostedCheckoutPurchase = &operation{
		name:     "hosted_checkout_purchase",
		method:   HTTPMethodPost,
		required: []string{ParamStoreReference},
		path: func(*Parameters) string {
			return "/tools/param-encryption"
		},
		body: paramEncryptionBody,
	}

	opDecryptReturnURL = &operation{
		name:     "decrypt_return_url",
		method:   HTTPMethodPost,
		required: []string{ParamReturnURL},
		path: func(*Parameters) string {
			return "/tools/param-decryption"
		},
		body: func(p *Parameters) (*etree.Element, error) {
			root := etree.NewElement("param-decryption")
			root.CreateElement("encrypted-token").SetText(encryptedToken(p.ReturnURL))
			return root, nil
		},
	}
)

func subscriptionPath(p *Parameters) string {
	return "/subscriptions/" + url.PathEscape(p.SubscriptionReference)
}

func updateSubscriptionBody(p *Parameters) (*etree.Element, error) {
	root := etree.NewElement("subscription")
	root.CreateElement("subscription-id").SetText(p.SubscriptionReference)

	amount, err := FormatAmount(p.Amount, p.Currency)
	if err != nil {
		return nil, err
	}
	if amount != "" || p.Currency != "" {
		override := root.CreateElement("override-recurring-charge")
		if amount != "" {
			override.CreateElement("amount").SetText(amount)
		}
		if p.Currency != "" {
			override.CreateElement("currency").SetText(p.Currency)
		}
	}
	if p.NextChargeDate != nil {
		root.CreateElement("next-charge-date").SetText(timeutil.FormatWireDate(*p.NextChargeDate))
	}
	if p.PlanReference != "" {
		root.CreateElement("underlying-sku-id").SetText(p.PlanReference)
	}
	return root, nil
}

func subscriptionStatusBody(status string) func(p *Parameters) (*etree.Element, error) {
	return func(p *Parameters) (*etree.Element, error) {
		root := etree.NewElement("subscription")
		root.CreateElement("subscription-id").SetText(p.SubscriptionReference)
		root.CreateElement("status").SetText(status)
		return root, nil
	}
}

// refundPath keeps BlueSnap's documented query order, which url.Values
// would sort away.
func refundPath(p *Parameters) string {
	var b strings.Builder
	b.WriteString("/orders/refund?invoiceId=")
	b.WriteString(url.QueryEscape(p.TransactionReference))
	if p.Amount != "" {
		amount, err := FormatAmount(p.Amount, p.Currency)
		if err != nil {
			amount = p.Amount
		}
		b.WriteString("&amount=")
		b.WriteString(url.QueryEscape(amount))
	}
	if p.Reason != "" {
		b.WriteString("&reason=")
		b.WriteString(url.QueryEscape(p.Reason))
	}
	b.WriteString("&cancelSubscriptions=")
	b.WriteString(strconv.FormatBool(p.CancelSubscriptions))
	return b.String()
}

func reportOperation(name, report string, filterByType bool) *operation {
	return &operation{
		name:     name,
		method:   HTTPMethodGet,
		required: []string{ParamStartTime, ParamEndTime},
		path: func(p *Parameters) string {
			path := "/report/" + report
			if p.StartTime != nil && p.EndTime != nil {
				path += "?period=CUSTOM" +
					"&from_date=" + url.QueryEscape(timeutil.FormatReportDate(*p.StartTime)) +
					"&to_date=" + url.QueryEscape(timeutil.FormatReportDate(*p.EndTime))
				if filterByType && p.TransactionType != "" {
					path += "&transactionType=" + url.QueryEscape(p.TransactionType)
				}
			}
			return path
		},
		validate: func(p *Parameters) error {
			if p.StartTime.After(*p.EndTime) {
				return pkgerrors.NewValidationError(ParamStartTime, pkgerrors.MsgStartAfterEnd)
			}
			return nil
		},
	}
}

func paramEncryptionBody(p *Parameters) (*etree.Element, error) {
	root := etree.NewElement("param-encryption")
	params := root.CreateElement("parameters")
	add := func(key, value string) {
		el := params.CreateElement("parameter")
		el.CreateElement("param-key").SetText(key)
		el.CreateElement("param-value").SetText(value)
	}

	if p.PlanReference != "" {
		add("sku"+p.PlanReference, "1")
	}
	if p.Currency != "" {
		add("currency", p.Currency)
	}
	if p.ReturnURL != "" {
		add("thankyou.backtosellerurl", url.QueryEscape(p.ReturnURL))
	}
	for _, sp := range p.StoreParameters.All() {
		add(sp.Key, sp.Value)
	}
	return root, nil
}

// encryptedToken pulls the encParams value out of a return URL. A full URL
// contributes its query string; anything else is parsed as a query string
// itself. Without encParams the whole input is the token.
func encryptedToken(returnURL string) string {
	query := returnURL
	if u, err := url.Parse(returnURL); err == nil && u.RawQuery != "" {
		query = u.RawQuery
	}
	values, err := url.ParseQuery(query)
	if err == nil && values.Has("encParams") {
		return values.Get("encParams")
	}
	return returnURL
}
