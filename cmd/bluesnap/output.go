package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kevin07696/bluesnap-gateway/pkg/bluesnap"
	"github.com/kevin07696/bluesnap-gateway/pkg/bluesnap/models"
)

type header struct {
	Code       string `json:"code"`
	Successful bool   `json:"successful"`
	Message    string `json:"message,omitempty"`
}

func newHeader(code string, successful bool, message string) header {
	return header{Code: code, Successful: successful, Message: message}
}

type cardView struct {
	Brand       string `json:"brand,omitempty"`
	LastFour    string `json:"last_four,omitempty"`
	ExpiryMonth int    `json:"expiry_month,omitempty"`
	ExpiryYear  int    `json:"expiry_year,omitempty"`
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	Country     string `json:"country,omitempty"`
	Postcode    string `json:"postcode,omitempty"`
}

func newCardView(card *models.CreditCard) *cardView {
	if card == nil {
		return nil
	}
	return &cardView{
		Brand:       card.Brand(),
		LastFour:    card.NumberLastFour(),
		ExpiryMonth: card.ExpiryMonth,
		ExpiryYear:  card.ExpiryYear,
		Name:        card.Name(),
		Email:       card.Email,
		Country:     card.Country,
		Postcode:    card.Postcode,
	}
}

type extendedView struct {
	header
	RequestID             string                       `json:"request_id,omitempty"`
	CustomerReference     string                       `json:"customer_reference,omitempty"`
	TransactionReference  string                       `json:"transaction_reference,omitempty"`
	SubscriptionReference string                       `json:"subscription_reference,omitempty"`
	PlanReference         string                       `json:"plan_reference,omitempty"`
	Amount                string                       `json:"amount,omitempty"`
	Currency              string                       `json:"currency,omitempty"`
	Tax                   string                       `json:"tax,omitempty"`
	Status                string                       `json:"status,omitempty"`
	DateCreated           *time.Time                   `json:"date_created,omitempty"`
	NextChargeDate        *time.Time                   `json:"next_charge_date,omitempty"`
	Card                  *cardView                    `json:"card,omitempty"`
	Refunds               []*models.Refund             `json:"refunds,omitempty"`
	Chargebacks           []*models.Chargeback         `json:"chargebacks,omitempty"`
	Subscriptions         []*models.Subscription       `json:"subscriptions,omitempty"`
	SubscriptionCharges   []*models.SubscriptionCharge `json:"subscription_charges,omitempty"`
}

func newExtendedView(resp *bluesnap.ExtendedResponse) extendedView {
	v := extendedView{
		header:    newHeader(resp.Code(), resp.IsSuccessful(), resp.Message()),
		RequestID: resp.RequestID(),
	}
	if !resp.IsSuccessful() {
		return v
	}

	v.CustomerReference = resp.CustomerReference()
	v.TransactionReference = resp.TransactionReference()
	v.SubscriptionReference = resp.SubscriptionReference()
	v.PlanReference = resp.PlanReference()
	v.Amount = resp.Amount()
	v.Currency = resp.Currency()
	v.Tax = resp.Tax()
	v.Status = resp.Status()
	v.DateCreated = resp.DateCreated()
	v.NextChargeDate = resp.NextChargeDate()
	v.Card = newCardView(resp.Card())
	v.Refunds = resp.Refunds()
	v.Chargebacks = resp.Chargebacks()
	v.Subscriptions = resp.Subscriptions()
	v.SubscriptionCharges = resp.SubscriptionCharges()
	return v
}

type transactionsView struct {
	header
	Transactions []*models.Transaction `json:"transactions"`
	Refunds      []*models.Refund      `json:"refunds"`
	Chargebacks  []*models.Chargeback  `json:"chargebacks"`
}

type subscriptionsView struct {
	header
	ByCustomer    bool                   `json:"by_customer,omitempty"`
	Subscriptions []*models.Subscription `json:"subscriptions"`
}

type purchaseView struct {
	header
	RedirectURL    string `json:"redirect_url,omitempty"`
	RedirectMethod string `json:"redirect_method,omitempty"`
	EncryptedToken string `json:"encrypted_token,omitempty"`
}

type decryptView struct {
	header
	Parameters map[string]string `json:"parameters"`
}

type ipnView struct {
	Type                  string            `json:"type"`
	TransactionReference  string            `json:"transaction_reference,omitempty"`
	SubscriptionReference string            `json:"subscription_reference,omitempty"`
	PlanReference         string            `json:"plan_reference,omitempty"`
	CustomerReference     string            `json:"customer_reference,omitempty"`
	Amount                string            `json:"amount,omitempty"`
	Currency              string            `json:"currency,omitempty"`
	Date                  *time.Time        `json:"date,omitempty"`
	Parameters            map[string]string `json:"parameters"`
}

func newIPNView(c *bluesnap.IPNCallback) ipnView {
	return ipnView{
		Type:                  c.Type(),
		TransactionReference:  c.TransactionReference(),
		SubscriptionReference: c.SubscriptionReference(),
		PlanReference:         c.PlanReference(),
		CustomerReference:     c.CustomerReference(),
		Amount:                c.Amount(),
		Currency:              c.Currency(),
		Date:                  c.Date(),
		Parameters:            c.Parameters(),
	}
}

// print writes v as indented JSON. A response BlueSnap rejected is still
// printed, then reported as errUnsuccessful.
func (a *app) print(v any, successful bool) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	if !successful {
		return errUnsuccessful
	}
	return nil
}

// printMetrics dumps every sample in reg as "name{labels} value".
func printMetrics(w io.Writer, reg prometheus.Gatherer) error {
	families, err := reg.Gather()
	if err != nil {
		return err
	}

	for _, family := range families {
		for _, m := range family.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
			}
			sort.Strings(labels)

			var labelSet string
			if len(labels) > 0 {
				labelSet = "{" + strings.Join(labels, ",") + "}"
			}
			name := family.GetName()

			switch {
			case m.GetCounter() != nil:
				fmt.Fprintf(w, "%s%s %v\n", name, labelSet, m.GetCounter().GetValue())
			case m.GetGauge() != nil:
				fmt.Fprintf(w, "%s%s %v\n", name, labelSet, m.GetGauge().GetValue())
			case m.GetHistogram() != nil:
				h := m.GetHistogram()
				fmt.Fprintf(w, "%s_count%s %d\n", name, labelSet, h.GetSampleCount())
				fmt.Fprintf(w, "%s_sum%s %v\n", name, labelSet, h.GetSampleSum())
			}
		}
	}
	return nil
}
