package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tillpos/till/internal/common"
)

// PaymentMethod identifies how an order was paid.
type PaymentMethod string

const (
	// PaymentCash is payment in physical currency.
	PaymentCash PaymentMethod = "cash"
	// PaymentCreditCard is payment by credit card.
	PaymentCreditCard PaymentMethod = "credit_card"
	// PaymentDebitCard is payment by debit card.
	PaymentDebitCard PaymentMethod = "debit_card"
	// PaymentMobile is payment through a mobile wallet.
	PaymentMobile PaymentMethod = "mobile"
)

// PaymentMethods lists every supported method in display order.
var PaymentMethods = []PaymentMethod{PaymentCash, PaymentCreditCard, PaymentDebitCard, PaymentMobile}

// ParsePaymentMethod maps a user-supplied string to a payment method.
// Unknown methods are rejected rather than silently treated as cash.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cash":
		return PaymentCash, nil
	case "credit", "credit_card", "credit-card":
		return PaymentCreditCard, nil
	case "debit", "debit_card", "debit-card":
		return PaymentDebitCard, nil
	case "mobile", "mobile_payment":
		return PaymentMobile, nil
	default:
		return "", fmt.Errorf("%w: unknown payment method %q", common.ErrValidation, s)
	}
}

// Payment carries the method-specific details tendered at checkout.
type Payment struct {
	Method     PaymentMethod
	CardNumber string
	Tendered   decimal.Decimal // cash only; zero means exact amount
}

// PaymentResult is the outcome of a processed payment.
type PaymentResult struct {
	Method PaymentMethod
	Change decimal.Decimal
}

// ProcessPayment validates a payment against the amount due and returns
// the result. This is the single dispatch point for all methods.
func ProcessPayment(p Payment, total decimal.Decimal) (PaymentResult, error) {
	switch p.Method {
	case PaymentCash:
		if p.Tendered.IsZero() {
			return PaymentResult{Method: p.Method, Change: decimal.Zero}, nil
		}
		change, err := CalculateChange(p.Tendered, total)
		if err != nil {
			return PaymentResult{}, err
		}
		return PaymentResult{Method: p.Method, Change: change}, nil
	case PaymentCreditCard, PaymentDebitCard:
		if !ValidateCardNumber(p.CardNumber) {
			return PaymentResult{}, fmt.Errorf("%w: invalid card number", common.ErrValidation)
		}
		return PaymentResult{Method: p.Method, Change: decimal.Zero}, nil
	case PaymentMobile:
		return PaymentResult{Method: p.Method, Change: decimal.Zero}, nil
	default:
		return PaymentResult{}, fmt.Errorf("%w: unknown payment method %q", common.ErrValidation, p.Method)
	}
}

// CalculateChange returns tendered minus due, rounded to cents.
func CalculateChange(tendered, due decimal.Decimal) (decimal.Decimal, error) {
	if tendered.LessThan(due) {
		return decimal.Zero, fmt.Errorf("%w: amount tendered is less than total due", common.ErrValidation)
	}
	return tendered.Sub(due).Round(2), nil
}

// ValidateCardNumber checks a card number with the Luhn algorithm.
// Non-digit characters (spaces, dashes) are ignored.
func ValidateCardNumber(cardNumber string) bool {
	var digits []int
	for _, r := range cardNumber {
		if r >= '0' && r <= '9' {
			digits = append(digits, int(r-'0'))
		}
	}

	if len(digits) < 13 || len(digits) > 19 {
		return false
	}

	sum := 0
	alternate := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := digits[i]
		if alternate {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		alternate = !alternate
	}

	return sum%10 == 0
}
