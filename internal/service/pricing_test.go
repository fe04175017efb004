package service

import (
	"testing"

	"github.com/greenbasket/internal/models"
)

func TestQuotePriceBasic(t *testing.T) {
	lines := []PriceLine{
		{ProductID: 1, UnitPrice: models.NewMoneyFromString("8.50"), Quantity: 2},
		{ProductID: 2, UnitPrice: models.NewMoneyFromString("12.00"), Quantity: 1},
	}
	zone := &models.DeliveryZone{DeliveryFee: models.NewMoneyFromString("2.00")}

	quote := QuotePrice(lines, zone, nil, models.Money{})

	moneyEquals(t, "subtotal", quote.Subtotal, "29.00")
	moneyEquals(t, "delivery_fee", quote.DeliveryFee, "2.00")
	moneyEquals(t, "total", quote.TotalAmount, "31.00")
	if len(quote.LineTotals) != 2 {
		t.Fatalf("行小计数量期望 2 实际 %d", len(quote.LineTotals))
	}
	moneyEquals(t, "line_total[0]", quote.LineTotals[0], "17.00")
	moneyEquals(t, "line_total[1]", quote.LineTotals[1], "12.00")
}

func TestQuotePriceSlotSurcharge(t *testing.T) {
	lines := []PriceLine{{ProductID: 1, UnitPrice: models.NewMoneyFromString("10.00"), Quantity: 3}}
	zone := &models.DeliveryZone{DeliveryFee: models.NewMoneyFromString("5.00")}
	slot := &models.DeliverySlot{Surcharge: models.NewMoneyFromString("1.50")}

	quote := QuotePrice(lines, zone, slot, models.NewMoneyFromString("4.00"))

	moneyEquals(t, "delivery_fee", quote.DeliveryFee, "6.50")
	moneyEquals(t, "discount", quote.Discount, "4.00")
	moneyEquals(t, "total", quote.TotalAmount, "32.50")
}

func TestQuotePriceDiscountClampedToSubtotal(t *testing.T) {
	lines := []PriceLine{{ProductID: 1, UnitPrice: models.NewMoneyFromString("6.00"), Quantity: 2}}
	zone := &models.DeliveryZone{DeliveryFee: models.NewMoneyFromString("3.00")}

	quote := QuotePrice(lines, zone, nil, models.NewMoneyFromString("50.00"))

	// 折扣封顶到商品小计，配送费不参与抵扣
	moneyEquals(t, "discount", quote.Discount, "12.00")
	moneyEquals(t, "total", quote.TotalAmount, "3.00")
}

func TestQuotePriceEmptyLines(t *testing.T) {
	quote := QuotePrice(nil, nil, nil, models.Money{})
	moneyEquals(t, "subtotal", quote.Subtotal, "0.00")
	moneyEquals(t, "total", quote.TotalAmount, "0.00")
	if len(quote.LineTotals) != 0 {
		t.Fatalf("空输入不应有行小计")
	}
}
