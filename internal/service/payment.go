package service

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	ErrInvalidCardNumber = errors.New("invalid credit card number")
	ErrInvalidCardExpiry = errors.New("invalid card expiry format (MM/YYYY)")
)

var cardExpiryPattern = regexp.MustCompile(`^\d{2}/\d{4}$`)

// PaymentDetails is validated before any transactional work begins. The raw
// card number never reaches the store; only the last four digits do.
type PaymentDetails struct {
	CreditCardNumber string `json:"credit_card_number"`
	CardExpiry       string `json:"card_expiry"`
}

// Validate checks the card superficially: at least 13 digits after stripping
// separators, and an MM/YYYY expiry with a real month. Returns the masked
// suffix to persist.
func (p PaymentDetails) Validate() (last4 string, err error) {
	digits := strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, p.CreditCardNumber)

	if len(digits) < 13 {
		return "", ErrInvalidCardNumber
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return "", ErrInvalidCardNumber
		}
	}

	if !cardExpiryPattern.MatchString(p.CardExpiry) {
		return "", ErrInvalidCardExpiry
	}
	month := (p.CardExpiry[0]-'0')*10 + (p.CardExpiry[1] - '0')
	if month < 1 || month > 12 {
		return "", fmt.Errorf("%w: month out of range", ErrInvalidCardExpiry)
	}

	return digits[len(digits)-4:], nil
}
