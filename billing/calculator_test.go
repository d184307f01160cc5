package billing

import (
	"math/rand"
	"testing"

	"aquacare-backend/models"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name       string
		items      []LineItem
		taxPercent float64
		discount   float64
		want       Totals
	}{
		{
			name:       "single item no tax no discount",
			items:      []LineItem{{Quantity: 2, UnitPrice: 500}},
			taxPercent: 0,
			discount:   0,
			want:       Totals{Subtotal: 1000, TaxAmount: 0, DiscountAmount: 0, TotalAmount: 1000},
		},
		{
			name:       "tax and discount applied",
			items:      []LineItem{{Quantity: 1, UnitPrice: 1200}, {Quantity: 3, UnitPrice: 150}},
			taxPercent: 18,
			discount:   100,
			want:       Totals{Subtotal: 1650, TaxAmount: 297, DiscountAmount: 100, TotalAmount: 1847},
		},
		{
			name:       "fractional prices round half up per figure",
			items:      []LineItem{{Quantity: 3, UnitPrice: 33.335}},
			taxPercent: 5,
			discount:   0,
			// line: 100.005 -> 100.01, tax: 5.0005 -> 5.0
			want: Totals{Subtotal: 100.01, TaxAmount: 5.00, DiscountAmount: 0, TotalAmount: 105.01},
		},
		{
			name:       "empty items",
			items:      nil,
			taxPercent: 18,
			discount:   0,
			want:       Totals{Subtotal: 0, TaxAmount: 0, DiscountAmount: 0, TotalAmount: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculate(tt.items, tt.taxPercent, tt.discount)
			assert.InDelta(t, tt.want.Subtotal, got.Subtotal, 0.001)
			assert.InDelta(t, tt.want.TaxAmount, got.TaxAmount, 0.001)
			assert.InDelta(t, tt.want.DiscountAmount, got.DiscountAmount, 0.001)
			assert.InDelta(t, tt.want.TotalAmount, got.TotalAmount, 0.001)
		})
	}
}

func TestCalculateOrderIndependent(t *testing.T) {
	items := []LineItem{
		{Quantity: 1, UnitPrice: 199.99},
		{Quantity: 4, UnitPrice: 33.33},
		{Quantity: 2, UnitPrice: 1250.5},
		{Quantity: 7, UnitPrice: 0.07},
	}
	want := Calculate(items, 18, 50)

	r := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		shuffled := make([]LineItem, len(items))
		copy(shuffled, items)
		r.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		got := Calculate(shuffled, 18, 50)
		assert.Equal(t, want, got)
	}
}

func TestItemTotal(t *testing.T) {
	assert.InDelta(t, 100.01, ItemTotal(3, 33.335), 0.001)
	assert.InDelta(t, 0, ItemTotal(0, 99.99), 0.001)
	assert.InDelta(t, 2501.0, ItemTotal(2, 1250.5), 0.001)
}

func TestApplyPayment(t *testing.T) {
	tests := []struct {
		name        string
		total       float64
		currentPaid float64
		newPayment  float64
		want        PaymentState
	}{
		{
			name: "full payment", total: 100, currentPaid: 0, newPayment: 100,
			want: PaymentState{AmountPaid: 100, BalanceDue: 0, Status: models.PaymentStatusPaid},
		},
		{
			name: "partial payment", total: 100, currentPaid: 40, newPayment: 30,
			want: PaymentState{AmountPaid: 70, BalanceDue: 30, Status: models.PaymentStatusPartial},
		},
		{
			name: "overpayment clamps balance at zero", total: 100, currentPaid: 90, newPayment: 20,
			want: PaymentState{AmountPaid: 110, BalanceDue: 0, Status: models.PaymentStatusPaid},
		},
		{
			name: "nothing paid stays pending", total: 100, currentPaid: 0, newPayment: 0,
			want: PaymentState{AmountPaid: 0, BalanceDue: 100, Status: models.PaymentStatusPending},
		},
		{
			name: "negative correction reopens balance", total: 100, currentPaid: 100, newPayment: -40,
			want: PaymentState{AmountPaid: 60, BalanceDue: 40, Status: models.PaymentStatusPartial},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyPayment(tt.total, tt.currentPaid, tt.newPayment)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestServiceTotal(t *testing.T) {
	assert.InDelta(t, 850, ServiceTotal(350, 500), 0.001)
	assert.InDelta(t, 0, ServiceTotal(0, 0), 0.001)
	// each figure rounds half-up on its own before the sum
	assert.InDelta(t, 100.02, ServiceTotal(50.005, 50.005), 0.001)
}
