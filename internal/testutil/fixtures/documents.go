package fixtures

import (
	"encoding/json"
	"net/url"

	"github.com/beevik/etree"
)

const namespace = "http://ws.plimus.com"

// Card is the credit-card element of an invoice or subscription.
type Card struct {
	Type        string
	LastFour    string
	ExpiryMonth string
	ExpiryYear  string
}

// Contact is the invoice-contact-info element of a transaction.
type Contact struct {
	FirstName string
	LastName  string
	Email     string
	State     string
	Country   string
	Zip       string
}

// Invoice is one post-sale invoice of an order. ReversalType and
// OriginalID are left out of the document when empty.
type Invoice struct {
	ID           string
	OriginalID   string
	ReversalType string
	Amount       string
	Currency     string
	Status       string
	DateCreated  string
	SkuID        string
	Card         *Card
	Contact      *Contact
}

// OrderBuilder provides fluent API for building order documents.
type OrderBuilder struct {
	orderID       string
	shopperID     string
	tax           string
	skuParameters [][2]string
	invoices      []Invoice
}

// NewOrder creates an order builder with random ids and no invoices.
func NewOrder() *OrderBuilder {
	return &OrderBuilder{
		orderID:   Reference(),
		shopperID: Reference(),
		tax:       "0.00",
	}
}

func (b *OrderBuilder) WithShopperID(id string) *OrderBuilder {
	b.shopperID = id
	return b
}

func (b *OrderBuilder) WithTax(tax string) *OrderBuilder {
	b.tax = tax
	return b
}

func (b *OrderBuilder) WithSkuParameter(name, value string) *OrderBuilder {
	b.skuParameters = append(b.skuParameters, [2]string{name, value})
	return b
}

func (b *OrderBuilder) WithInvoice(inv Invoice) *OrderBuilder {
	b.invoices = append(b.invoices, inv)
	return b
}

// Build renders the order as BlueSnap returns it from orders/resolve.
func (b *OrderBuilder) Build() string {
	root := etree.NewElement("order")
	root.CreateElement("order-id").SetText(b.orderID)
	root.CreateElement("ordering-shopper").CreateElement("shopper-id").SetText(b.shopperID)

	cart := root.CreateElement("cart")
	item := cart.CreateElement("cart-item")
	for _, p := range b.skuParameters {
		param := item.CreateElement("sku-parameter")
		param.CreateElement("param-name").SetText(p[0])
		param.CreateElement("param-value").SetText(p[1])
	}
	cart.CreateElement("tax").SetText(b.tax)

	invoices := root.CreateElement("post-sale-info").CreateElement("invoices")
	for _, inv := range b.invoices {
		el := invoices.CreateElement("invoice")
		el.CreateElement("invoice-id").SetText(inv.ID)
		if inv.OriginalID != "" {
			el.CreateElement("original-invoice-id").SetText(inv.OriginalID)
		}
		if inv.ReversalType != "" {
			el.CreateElement("reversal-type").SetText(inv.ReversalType)
		}
		ft := el.CreateElement("financial-transactions").CreateElement("financial-transaction")
		ft.CreateElement("status").SetText(inv.Status)
		ft.CreateElement("date-created").SetText(inv.DateCreated)
		ft.CreateElement("amount").SetText(inv.Amount)
		ft.CreateElement("currency").SetText(inv.Currency)
		if inv.SkuID != "" {
			ft.CreateElement("skus").CreateElement("sku").CreateElement("sku-id").SetText(inv.SkuID)
		}
		if inv.Card != nil {
			addCard(ft, inv.Card)
		}
		if inv.Contact != nil {
			c := ft.CreateElement("invoice-contact-info")
			c.CreateElement("first-name").SetText(inv.Contact.FirstName)
			c.CreateElement("last-name").SetText(inv.Contact.LastName)
			c.CreateElement("email").SetText(inv.Contact.Email)
			c.CreateElement("state").SetText(inv.Contact.State)
			c.CreateElement("country").SetText(inv.Contact.Country)
			c.CreateElement("zip").SetText(inv.Contact.Zip)
		}
	}
	return render(root)
}

// Charge is one subscription charge.
type Charge struct {
	InvoiceID   string
	Amount      string
	Currency    string
	DateCreated string
}

// SubscriptionBuilder provides fluent API for building subscription
// documents.
type SubscriptionBuilder struct {
	id               string
	shopperID        string
	status           string
	skuID            string
	catalogAmount    string
	catalogCurrency  string
	overrideAmount   string
	overrideCurrency string
	nextChargeDate   string
	card             *Card
	charges          []Charge
}

// NewSubscription creates an active subscription builder with a 9.99 USD
// catalog charge.
func NewSubscription() *SubscriptionBuilder {
	return &SubscriptionBuilder{
		id:              Reference(),
		shopperID:       Reference(),
		status:          "A",
		skuID:           Reference(),
		catalogAmount:   "9.99",
		catalogCurrency: "USD",
	}
}

func (b *SubscriptionBuilder) WithID(id string) *SubscriptionBuilder {
	b.id = id
	return b
}

func (b *SubscriptionBuilder) WithShopperID(id string) *SubscriptionBuilder {
	b.shopperID = id
	return b
}

func (b *SubscriptionBuilder) WithStatus(status string) *SubscriptionBuilder {
	b.status = status
	return b
}

func (b *SubscriptionBuilder) WithSkuID(id string) *SubscriptionBuilder {
	b.skuID = id
	return b
}

func (b *SubscriptionBuilder) WithCatalogCharge(amount, currency string) *SubscriptionBuilder {
	b.catalogAmount = amount
	b.catalogCurrency = currency
	return b
}

func (b *SubscriptionBuilder) WithOverrideCharge(amount, currency string) *SubscriptionBuilder {
	b.overrideAmount = amount
	b.overrideCurrency = currency
	return b
}

func (b *SubscriptionBuilder) WithNextChargeDate(date string) *SubscriptionBuilder {
	b.nextChargeDate = date
	return b
}

func (b *SubscriptionBuilder) WithCard(card Card) *SubscriptionBuilder {
	b.card = &card
	return b
}

func (b *SubscriptionBuilder) WithCharge(charge Charge) *SubscriptionBuilder {
	b.charges = append(b.charges, charge)
	return b
}

// Element returns the subscription element, for embedding in a shopper's
// subscription list.
func (b *SubscriptionBuilder) Element() *etree.Element {
	root := etree.NewElement("subscription")
	root.CreateElement("subscription-id").SetText(b.id)
	root.CreateElement("status").SetText(b.status)
	root.CreateElement("underlying-sku-id").SetText(b.skuID)
	root.CreateElement("shopper-id").SetText(b.shopperID)
	catalog := root.CreateElement("catalog-recurring-charge")
	catalog.CreateElement("currency").SetText(b.catalogCurrency)
	catalog.CreateElement("amount").SetText(b.catalogAmount)
	if b.overrideAmount != "" {
		override := root.CreateElement("override-recurring-charge")
		override.CreateElement("currency").SetText(b.overrideCurrency)
		override.CreateElement("amount").SetText(b.overrideAmount)
	}
	if b.nextChargeDate != "" {
		root.CreateElement("next-charge-date").SetText(b.nextChargeDate)
	}
	if b.card != nil {
		addCard(root, b.card)
	}
	if len(b.charges) > 0 {
		list := root.CreateElement("subscription-charges")
		for _, c := range b.charges {
			list.CreateElement("subscription-charge").AddChild(chargeInfo(c))
		}
	}
	return root
}

// Build renders the subscription as BlueSnap returns it.
func (b *SubscriptionBuilder) Build() string {
	return render(b.Element())
}

// SubscriptionChargeXML renders a single subscription charge document.
func SubscriptionChargeXML(c Charge) string {
	root := etree.NewElement("subscription-charge")
	root.AddChild(chargeInfo(c))
	return render(root)
}

// ShopperSubscriptionsXML renders the shopper subscription retriever
// answer for shopperID.
func ShopperSubscriptionsXML(shopperID string, subs ...*SubscriptionBuilder) string {
	root := etree.NewElement("shopper-subscriptions")
	root.CreateElement("shopper-id").SetText(shopperID)
	list := root.CreateElement("subscriptions")
	for _, s := range subs {
		list.AddChild(s.Element())
	}
	return render(root)
}

// ShopperXML renders a minimal shopper document.
func ShopperXML(shopperID string) string {
	root := etree.NewElement("shopper")
	info := root.CreateElement("shopper-info")
	info.CreateElement("shopper-id").SetText(shopperID)
	return render(root)
}

// ErrorXML renders a BlueSnap error document with one message.
func ErrorXML(code, description string) string {
	root := etree.NewElement("messages")
	msg := root.CreateElement("message")
	msg.CreateElement("error-name").SetText("VALIDATION_GENERAL_FAILURE")
	msg.CreateElement("code").SetText(code)
	msg.CreateElement("description").SetText(description)
	return render(root)
}

// EncryptionXML renders a param-encryption answer.
func EncryptionXML(token string) string {
	root := etree.NewElement("param-encryption")
	root.CreateElement("encrypted-token").SetText(token)
	return render(root)
}

// DecryptionXML renders a param-decryption answer carrying query.
func DecryptionXML(query string) string {
	root := etree.NewElement("param-decryption")
	root.CreateElement("decrypted-token").SetText(query)
	return render(root)
}

// ReportJSON renders a Reporting API answer with rows under "data".
func ReportJSON(rows ...map[string]string) string {
	if rows == nil {
		rows = []map[string]string{}
	}
	b, err := json.Marshal(map[string]any{
		"title": "Report",
		"data":  rows,
	})
	if err != nil {
		panic(err)
	}
	return string(b)
}

// IPNQuery encodes notification fields as BlueSnap sends them.
func IPNQuery(fields map[string]string) string {
	values := url.Values{}
	for k, v := range fields {
		values.Set(k, v)
	}
	return values.Encode()
}

func chargeInfo(c Charge) *etree.Element {
	info := etree.NewElement("charge-invoice-info")
	info.CreateElement("date-created").SetText(c.DateCreated)
	info.CreateElement("invoice-id").SetText(c.InvoiceID)
	info.CreateElement("invoice-amount").SetText(c.Amount)
	info.CreateElement("invoice-currency").SetText(c.Currency)
	return info
}

func addCard(parent *etree.Element, card *Card) {
	el := parent.CreateElement("credit-card")
	el.CreateElement("card-last-four-digits").SetText(card.LastFour)
	el.CreateElement("card-type").SetText(card.Type)
	el.CreateElement("expiration-month").SetText(card.ExpiryMonth)
	el.CreateElement("expiration-year").SetText(card.ExpiryYear)
}

func render(root *etree.Element) string {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root.CreateAttr("xmlns", namespace)
	doc.SetRoot(root)
	doc.Indent(2)
	s, err := doc.WriteToString()
	if err != nil {
		panic(err)
	}
	return s
}
