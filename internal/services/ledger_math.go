package services

import "github.com/shopspring/decimal"

// PaymentOutcome is the ledger state after a payment is applied.
type PaymentOutcome struct {
	AmountPaid  decimal.Decimal
	AmountDue   decimal.Decimal
	CreditLimit decimal.Decimal
}

// ApplyPayment credits a payment: paid grows, due shrinks but never below zero, and the limit grows.
func ApplyPayment(amountDue, amountPaid, creditLimit, payment decimal.Decimal) PaymentOutcome {
	due := amountDue.Sub(payment)
	if due.IsNegative() {
		due = decimal.Zero
	}
	return PaymentOutcome{
		AmountPaid:  amountPaid.Add(payment),
		AmountDue:   due,
		CreditLimit: creditLimit.Add(payment),
	}
}

// AdjustAmountDue applies an order total to the running due. A new order (original == nil)
// adds its total; an edit adds the difference, clamped at zero.
func AdjustAmountDue(current, total decimal.Decimal, original *decimal.Decimal) decimal.Decimal {
	if original == nil {
		return current.Add(total)
	}
	updated := current.Add(total.Sub(*original))
	if updated.IsNegative() {
		return decimal.Zero
	}
	return updated
}
