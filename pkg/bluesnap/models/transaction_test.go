package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransaction_CustomParameters(t *testing.T) {
	tx := &Transaction{}

	tx.SetCustomParameter(1, "first")
	tx.SetCustomParameter(10, "tenth")
	tx.SetCustomParameter(0, "ignored")
	tx.SetCustomParameter(11, "ignored")

	assert.Equal(t, "first", tx.CustomParameter(1))
	assert.Equal(t, "tenth", tx.CustomParameter(10))
	assert.Equal(t, "", tx.CustomParameter(2))
	assert.Equal(t, "", tx.CustomParameter(11))
	assert.Equal(t, map[int]string{1: "first", 10: "tenth"}, tx.CustomParameters())
}

func TestRefund_IDAliasesReference(t *testing.T) {
	r := &Refund{RefundReference: "38293812"}
	assert.Equal(t, "38293812", r.RefundID())

	r.SetRefundID("1000")
	assert.Equal(t, "1000", r.RefundReference)
	assert.Equal(t, "1000", r.RefundID())
}
