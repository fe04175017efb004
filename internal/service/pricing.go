package service

import (
	"github.com/greenbasket/internal/models"

	"github.com/shopspring/decimal"
)

// PriceLine 计价输入行，数量与下单时的单价快照
type PriceLine struct {
	ProductID uint
	UnitPrice models.Money
	Quantity  int
}

// PriceQuote 计价结果。各字段均已按 2 位小数落定，
// TotalAmount = max(0, Subtotal - Discount) + DeliveryFee。
type PriceQuote struct {
	Subtotal    models.Money `json:"subtotal"`
	DeliveryFee models.Money `json:"delivery_fee"`
	Discount    models.Money `json:"discount"`
	TotalAmount models.Money `json:"total_amount"`
	LineTotals  []models.Money `json:"line_totals"`
}

// QuotePrice 纯计价函数。行小计用精确小数相乘，
// 汇总后每个输出只做一次 2 位舍入，避免逐行误差累积。
func QuotePrice(lines []PriceLine, zone *models.DeliveryZone, slot *models.DeliverySlot, discount models.Money) PriceQuote {
	subtotal := decimal.Zero
	lineTotals := make([]models.Money, 0, len(lines))
	for _, line := range lines {
		qty := decimal.NewFromInt(int64(line.Quantity))
		lineTotal := line.UnitPrice.Decimal.Mul(qty)
		subtotal = subtotal.Add(lineTotal)
		lineTotals = append(lineTotals, models.NewMoneyFromDecimal(lineTotal))
	}

	fee := decimal.Zero
	if zone != nil {
		fee = fee.Add(zone.DeliveryFee.Decimal)
	}
	if slot != nil {
		fee = fee.Add(slot.Surcharge.Decimal)
	}

	disc := discount.Decimal
	if disc.GreaterThan(subtotal) {
		disc = subtotal
	}

	total := subtotal.Sub(disc)
	if total.IsNegative() {
		total = decimal.Zero
	}
	total = total.Add(fee)

	return PriceQuote{
		Subtotal:    models.NewMoneyFromDecimal(subtotal),
		DeliveryFee: models.NewMoneyFromDecimal(fee),
		Discount:    models.NewMoneyFromDecimal(disc),
		TotalAmount: models.NewMoneyFromDecimal(total),
		LineTotals:  lineTotals,
	}
}
