// Package models holds the value objects the BlueSnap client returns.
// Every field is optional; an absent field is its zero value.
package models

import "time"

// MaxCustomParameters is the number of positional custom fields a
// transaction can carry.
const MaxCustomParameters = 10

// Transaction is a sale as reported by either the Extended or Reporting API.
// Amount and Currency are kept as the gateway printed them.
type Transaction struct {
	TransactionReference string
	Currency             string
	Amount               string
	CustomerReference    string
	Date                 *time.Time
	Status               string

	customParameters [MaxCustomParameters]string
}

// CustomParameter returns custom field n (1-based).
func (t *Transaction) CustomParameter(n int) string {
	if n < 1 || n > MaxCustomParameters {
		return ""
	}
	return t.customParameters[n-1]
}

// SetCustomParameter stores custom field n (1-based). Out of range indexes
// are ignored.
func (t *Transaction) SetCustomParameter(n int, value string) {
	if n < 1 || n > MaxCustomParameters {
		return
	}
	t.customParameters[n-1] = value
}

// CustomParameters returns the populated custom fields keyed by index.
func (t *Transaction) CustomParameters() map[int]string {
	out := make(map[int]string)
	for i, v := range t.customParameters {
		if v != "" {
			out[i+1] = v
		}
	}
	return out
}
