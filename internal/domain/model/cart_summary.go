package model

import "github.com/shopspring/decimal"

// 税率のデフォルト（8%）
var DefaultTaxRate = decimal.RequireFromString("0.08")

// 集計の入力（単価 × 数量）
type SummaryLine struct {
	Price    decimal.Decimal
	Quantity int64
}

// カートの集計値。保存はせず、読むたびに計算する。
type CartSummary struct {
	ItemCount int64
	Subtotal  decimal.Decimal
	Tax       decimal.Decimal
	Total     decimal.Decimal
}

// CalculateSummary は明細から itemCount / subtotal / tax / total を計算する。
// 丸めは各出力値ごとに1回だけ（小数2桁、0から遠い方へ）。明細ごとには丸めない。
func CalculateSummary(lines []SummaryLine, taxRate decimal.Decimal) CartSummary {
	subtotal := decimal.Zero
	var count int64

	for _, l := range lines {
		subtotal = subtotal.Add(l.Price.Mul(decimal.NewFromInt(l.Quantity)))
		count += l.Quantity
	}

	tax := subtotal.Mul(taxRate)

	return CartSummary{
		ItemCount: count,
		Subtotal:  subtotal.Round(2),
		Tax:       tax.Round(2),
		Total:     subtotal.Add(tax).Round(2),
	}
}
