package pricing

import (
	"math"

	"go.uber.org/zap"
)

const (
	// DefaultVATRate is the statutory VAT percentage applied when the
	// caller supplies no rate or an out-of-range one.
	DefaultVATRate = 12.0

	// SeniorPWDDiscountRate is the flat discount for senior citizen and
	// PWD customers on eligible items.
	SeniorPWDDiscountRate = 0.20
)

// Breakdown decomposes a VAT-inclusive total into net sales and VAT.
type Breakdown struct {
	Total     float64 `json:"total"`
	VATAmount float64 `json:"vat_amount"`
	NetSales  float64 `json:"net_sales"`
	VATRate   float64 `json:"vat_rate"`
}

// LineItem is the pricing view of one checkout line. Eligibility flags come
// from the product; the applied flags and amounts are set by
// ApplyDiscountAndExemption.
type LineItem struct {
	ProductID       string
	Quantity        int
	UnitPrice       float64
	IsDiscountable  bool
	IsVATExemptable bool
	DiscountApplied bool
	VATExempt       bool
	DiscountAmount  float64
	FinalPrice      float64
}

// Subtotal is the undiscounted line amount.
func (l LineItem) Subtotal() float64 {
	return Round2(l.UnitPrice * float64(l.Quantity))
}

// Round2 rounds to 2 decimal places, half up.
func Round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

// CalculateVAT decomposes a VAT-inclusive total. A negative total is treated
// as 0 and a rate outside [0,100] falls back to DefaultVATRate; malformed
// input must never break a checkout, so both cases clamp instead of erroring.
// Clamps are logged so bad upstream data stays visible.
func CalculateVAT(total, rate float64) Breakdown {
	if total < 0 {
		zap.L().Warn("negative total clamped to zero", zap.Float64("total", total))
		total = 0
	}
	if rate < 0 || rate > 100 {
		zap.L().Warn("VAT rate out of range, using default",
			zap.Float64("rate", rate), zap.Float64("default", DefaultVATRate))
		rate = DefaultVATRate
	}
	vat := Round2(total * rate / (100 + rate))
	return Breakdown{
		Total:     Round2(total),
		VATAmount: vat,
		NetSales:  Round2(total - vat),
		VATRate:   rate,
	}
}

// DiscountEligible reports whether the customer type qualifies for the
// senior/PWD discount and VAT exemption rules.
func DiscountEligible(customerType string) bool {
	return customerType == "senior" || customerType == "pwd"
}

// ApplyDiscountAndExemption returns the line with discount and VAT-exemption
// flags applied for the given customer type. Pure: the input is not mutated.
// Discount and exemption toggle independently on the product's two
// eligibility flags; a regular customer gets the line back unchanged.
func ApplyDiscountAndExemption(line LineItem, customerType string) LineItem {
	subtotal := line.Subtotal()
	line.FinalPrice = subtotal
	line.DiscountApplied = false
	line.VATExempt = false
	line.DiscountAmount = 0

	if !DiscountEligible(customerType) {
		return line
	}
	if line.IsDiscountable {
		line.DiscountApplied = true
		line.DiscountAmount = Round2(subtotal * SeniorPWDDiscountRate)
		line.FinalPrice = Round2(subtotal - line.DiscountAmount)
	}
	if line.IsVATExemptable {
		line.VATExempt = true
	}
	return line
}

// CheckoutTotals aggregates adjusted lines into transaction-level amounts.
// VAT-exempt lines are excluded from the VAT base; the breakdown's Total is
// the VAT-able portion only, while GrandTotal covers every line.
type CheckoutTotals struct {
	Subtotal   float64
	Discount   float64
	GrandTotal float64
	Breakdown  Breakdown
}

// Aggregate sums adjusted lines and computes the transaction VAT breakdown.
func Aggregate(lines []LineItem, vatRate float64) CheckoutTotals {
	var subtotal, discount, grand, vatable float64
	for _, l := range lines {
		subtotal += l.Subtotal()
		discount += l.DiscountAmount
		grand += l.FinalPrice
		if !l.VATExempt {
			vatable += l.FinalPrice
		}
	}
	return CheckoutTotals{
		Subtotal:   Round2(subtotal),
		Discount:   Round2(discount),
		GrandTotal: Round2(grand),
		Breakdown:  CalculateVAT(Round2(vatable), vatRate),
	}
}
