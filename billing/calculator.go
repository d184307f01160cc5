// Package billing holds the pure money arithmetic for invoices,
// quotations and completed services. Every monetary figure is rounded
// to two decimals independently before it is combined with anything
// else, so repeated additions cannot accumulate floating drift.
package billing

import (
	"github.com/shopspring/decimal"

	"aquacare-backend/models"
)

type LineItem struct {
	Quantity  int
	UnitPrice float64
}

type Totals struct {
	Subtotal       float64
	TaxAmount      float64
	DiscountAmount float64
	TotalAmount    float64
}

type PaymentState struct {
	AmountPaid float64
	BalanceDue float64
	Status     string
}

// round2 rounds half-up on the cent boundary.
func round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// ItemTotal is quantity x unit price, rounded to two decimals.
func ItemTotal(quantity int, unitPrice float64) float64 {
	total := decimal.NewFromFloat(unitPrice).Mul(decimal.NewFromInt(int64(quantity)))
	f, _ := total.Round(2).Float64()
	return f
}

// Calculate produces invoice/quotation totals from line items.
// subtotal = sum(quantity x unit_price), tax = subtotal x taxPercent/100,
// total = subtotal + tax - discount.
func Calculate(items []LineItem, taxPercent, discountAmount float64) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		line := decimal.NewFromFloat(item.UnitPrice).
			Mul(decimal.NewFromInt(int64(item.Quantity))).
			Round(2)
		subtotal = subtotal.Add(line)
	}
	subtotal = subtotal.Round(2)

	tax := subtotal.Mul(decimal.NewFromFloat(taxPercent)).
		Div(decimal.NewFromInt(100)).
		Round(2)
	discount := decimal.NewFromFloat(discountAmount).Round(2)
	total := subtotal.Add(tax).Sub(discount).Round(2)

	sub, _ := subtotal.Float64()
	tx, _ := tax.Float64()
	disc, _ := discount.Float64()
	tot, _ := total.Float64()

	return Totals{
		Subtotal:       sub,
		TaxAmount:      tx,
		DiscountAmount: disc,
		TotalAmount:    tot,
	}
}

// ApplyPayment folds a new payment into the running paid amount.
// Payments are additive only; a correction is a new (possibly
// negative) payment, never an edit of a prior one.
func ApplyPayment(totalAmount, currentPaid, newPayment float64) PaymentState {
	paid := round2(currentPaid + newPayment)
	balance := round2(totalAmount - paid)
	if balance < 0 {
		balance = 0
	}

	status := models.PaymentStatusPending
	switch {
	case balance <= 0:
		status = models.PaymentStatusPaid
	case paid > 0:
		status = models.PaymentStatusPartial
	}

	return PaymentState{
		AmountPaid: paid,
		BalanceDue: balance,
		Status:     status,
	}
}

// ServiceTotal is parts cost plus service charge. Any discount must
// already be reflected in the service charge before this call.
func ServiceTotal(partsCost, serviceCharge float64) float64 {
	return round2(round2(partsCost) + round2(serviceCharge))
}
