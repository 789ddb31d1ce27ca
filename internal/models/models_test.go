package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePaymentMethod(t *testing.T) {
	for _, valid := range []string{"Credit Card", "Cash", "Bank Transfer"} {
		m, ok := ParsePaymentMethod(valid)
		assert.True(t, ok, "expected %q to parse", valid)
		assert.Equal(t, PaymentMethod(valid), m)
	}

	for _, invalid := range []string{"", "Cheque", "cash", "CREDIT CARD", "credit-card"} {
		_, ok := ParsePaymentMethod(invalid)
		assert.False(t, ok, "expected %q to be rejected", invalid)
	}
}
