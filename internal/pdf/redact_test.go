package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedactPricing(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "dollar amount with period",
			input:    "$10.00/month",
			expected: "Available",
		},
		{
			name:     "currency code",
			input:    "USD 25",
			expected: "Available",
		},
		{
			name:     "amount with unit suffix",
			input:    "25 usd",
			expected: "Available",
		},
		{
			name:     "euro symbol",
			input:    "€15 setup fee",
			expected: "Available",
		},
		{
			name:     "per-month phrasing",
			input:    "10 per month",
			expected: "Available",
		},
		{
			name:     "explicit non-price statement untouched",
			input:    "price not available",
			expected: "price not available",
		},
		{
			name:     "n/a untouched",
			input:    "N/A",
			expected: "N/A",
		},
		{
			name:     "contact for pricing untouched",
			input:    "Contact for pricing",
			expected: "Contact for pricing",
		},
		{
			name:     "plain feature text untouched",
			input:    "Mail forwarding worldwide",
			expected: "Mail forwarding worldwide",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "multi-line with mixed content",
			input:    "Open weekdays\n$5 per item\nSignature on delivery",
			expected: "Open weekdays\nAvailable\nSignature on delivery",
		},
		{
			name:     "consecutive priced lines collapse",
			input:    "$5 per item\n$10 per parcel",
			expected: "Available",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, redactPricing(tt.input))
		})
	}
}

func TestRedactPricing_Idempotent(t *testing.T) {
	inputs := []string{
		"$10.00/month",
		"Open weekdays\n$5 per item\nSignature on delivery",
		"price not available",
		"Mail forwarding worldwide",
		"$5 per item\n$10 per parcel",
	}

	for _, input := range inputs {
		once := redactPricing(input)
		twice := redactPricing(once)
		assert.Equal(t, once, twice, "redaction of %q must be idempotent", input)
	}
}
