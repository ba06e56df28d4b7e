package models

import "time"

// Subscription is a recurring plan instance. Amount is the current recurring
// charge, which may be an override of the catalog price.
type Subscription struct {
	SubscriptionReference string
	Currency              string
	Amount                string
	Status                string
}

// SubscriptionCharge is one billing event of a subscription.
type SubscriptionCharge struct {
	TransactionReference  string
	Currency              string
	Amount                string
	CustomerReference     string
	SubscriptionReference string
	Date                  *time.Time
}
