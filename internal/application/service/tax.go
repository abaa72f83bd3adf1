package service

// TaxTotals holds the settled money figures of a basket. All amounts are
// tax-inclusive yen; tax is extracted from the per-rate buckets, never
// added on top.
type TaxTotals struct {
	TotalAmount    int64
	Tax10          int64
	Tax8           int64
	TaxAmount      int64
	DiscountAmount int64
	TotalQuantity  int
}

// extractTax pulls the tax portion out of a tax-inclusive bucket,
// truncated toward zero.
func extractTax(bucket int64, rate int) int64 {
	if bucket <= 0 || rate <= 0 {
		return 0
	}
	return bucket * int64(rate) / int64(100+rate)
}

// CalculateTotals buckets line subtotals by tax rate and derives the tax
// per rate from the bucket, so the result is independent of line order.
func CalculateTotals(lines []ResolvedLine) TaxTotals {
	var totals TaxTotals
	buckets := map[int]int64{}

	for _, line := range lines {
		subtotal := (line.UnitPrice - line.Discount) * int64(line.Quantity)
		buckets[line.TaxRate] += subtotal
		totals.TotalAmount += subtotal
		totals.DiscountAmount += line.Discount * int64(line.Quantity)
		totals.TotalQuantity += line.Quantity
	}

	totals.Tax10 = extractTax(buckets[10], 10)
	totals.Tax8 = extractTax(buckets[8], 8)
	totals.TaxAmount = totals.Tax10 + totals.Tax8

	return totals
}
