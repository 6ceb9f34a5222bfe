package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentDetailsValidate(t *testing.T) {
	tests := []struct {
		name    string
		payment PaymentDetails
		last4   string
		wantErr error
	}{
		{
			name:    "valid card",
			payment: PaymentDetails{CreditCardNumber: "4111111111111111", CardExpiry: "12/2030"},
			last4:   "1111",
		},
		{
			name:    "valid card with separators",
			payment: PaymentDetails{CreditCardNumber: "4111 1111 1111 1234", CardExpiry: "01/2028"},
			last4:   "1234",
		},
		{
			name:    "thirteen digits is the minimum",
			payment: PaymentDetails{CreditCardNumber: "4111111111119", CardExpiry: "06/2027"},
			last4:   "1119",
		},
		{
			name:    "too short",
			payment: PaymentDetails{CreditCardNumber: "411111111111", CardExpiry: "12/2030"},
			wantErr: ErrInvalidCardNumber,
		},
		{
			name:    "non-digit characters",
			payment: PaymentDetails{CreditCardNumber: "4111x11111111111", CardExpiry: "12/2030"},
			wantErr: ErrInvalidCardNumber,
		},
		{
			name:    "empty card",
			payment: PaymentDetails{CardExpiry: "12/2030"},
			wantErr: ErrInvalidCardNumber,
		},
		{
			name:    "expiry wrong shape",
			payment: PaymentDetails{CreditCardNumber: "4111111111111111", CardExpiry: "12/30"},
			wantErr: ErrInvalidCardExpiry,
		},
		{
			name:    "expiry month out of range",
			payment: PaymentDetails{CreditCardNumber: "4111111111111111", CardExpiry: "13/2030"},
			wantErr: ErrInvalidCardExpiry,
		},
		{
			name:    "expiry month zero",
			payment: PaymentDetails{CreditCardNumber: "4111111111111111", CardExpiry: "00/2030"},
			wantErr: ErrInvalidCardExpiry,
		},
		{
			name:    "missing expiry",
			payment: PaymentDetails{CreditCardNumber: "4111111111111111"},
			wantErr: ErrInvalidCardExpiry,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			last4, err := tt.payment.Validate()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.last4, last4)
		})
	}
}
