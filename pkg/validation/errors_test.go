package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type address struct {
	Country string `validate:"required"`
	City    string
}

type order struct {
	Number   string  `validate:"required"`
	Shipping address `validate:"required"`
	Billing  address `validate:"required"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name       string
		input      order
		wantFields []string
	}{
		{
			name:  "valid",
			input: order{Number: "1", Shipping: address{Country: "US"}, Billing: address{Country: "US"}},
		},
		{
			name:       "missing billing country",
			input:      order{Number: "1", Shipping: address{Country: "US"}, Billing: address{City: "Austin"}},
			wantFields: []string{"Billing.Country"},
		},
		{
			name:       "missing number and shipping country",
			input:      order{Shipping: address{City: "Austin"}, Billing: address{Country: "US"}},
			wantFields: []string{"Number", "Shipping.Country"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.input)

			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			for _, f := range tt.wantFields {
				msg, ok := verr.GetFieldError(f)
				assert.True(t, ok, "expected error for %s", f)
				assert.Contains(t, msg, f)
			}
		})
	}
}

func TestValidationError_MessageIsStable(t *testing.T) {
	err := &ValidationError{Errors: map[string]string{
		"Shipping.Country": "Shipping.Country is required",
		"Billing.Country":  "Billing.Country is required",
	}}

	assert.Equal(t, "Billing.Country is required; Shipping.Country is required", err.Error())
}
