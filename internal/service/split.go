package service

import (
	"github.com/shopspring/decimal"
)

// Commission rates are stored with 4 decimal digits; the split rounds the
// rate to the same scale so it matches what the column holds.
const rateScale = 4

var cent = decimal.NewFromInt(100)

// ComputeSplit divides an amount between the platform and the bar.
// merchant + fee == amount holds exactly: the fee is rounded to a whole
// minor unit and the merchant share is the remainder.
func ComputeSplit(amountCents int64, commissionRate float64) (marketplaceFeeCents, merchantCents int64) {
	rate := decimal.NewFromFloat(commissionRate).Round(rateScale)
	fee := decimal.NewFromInt(amountCents).Mul(rate).Round(0).IntPart()
	return fee, amountCents - fee
}

// CentsFromAmount converts a processor float amount to minor units.
func CentsFromAmount(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(cent).Round(0).IntPart()
}

// AmountFromCents converts minor units to the float amounts the processor
// API expects.
func AmountFromCents(cents int64) float64 {
	return decimal.NewFromInt(cents).Div(cent).InexactFloat64()
}
