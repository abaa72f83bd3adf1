package service

import "testing"

func TestCalculateTotalsExtractsInclusiveTax(t *testing.T) {
	lines := []ResolvedLine{
		{Kind: LineKindCatalog, Code: "4902220000012", UnitPrice: 2380, TaxRate: 10, Discount: 100, Quantity: 2},
	}

	totals := CalculateTotals(lines)

	if totals.TotalAmount != 4560 {
		t.Fatalf("total = %d, want 4560", totals.TotalAmount)
	}
	if totals.Tax10 != 414 {
		t.Fatalf("tax10 = %d, want 414 (floor of 4560*10/110)", totals.Tax10)
	}
	if totals.Tax8 != 0 {
		t.Fatalf("tax8 = %d, want 0", totals.Tax8)
	}
	if totals.TaxAmount != 414 {
		t.Fatalf("tax amount = %d, want 414", totals.TaxAmount)
	}
	if totals.DiscountAmount != 200 {
		t.Fatalf("discount = %d, want 200", totals.DiscountAmount)
	}
	if totals.TotalQuantity != 2 {
		t.Fatalf("quantity = %d, want 2", totals.TotalQuantity)
	}
}

func TestCalculateTotalsBucketsByRate(t *testing.T) {
	lines := []ResolvedLine{
		{UnitPrice: 105, TaxRate: 8, Quantity: 1},
		{UnitPrice: 105, TaxRate: 8, Quantity: 1},
		{UnitPrice: 330, TaxRate: 10, Quantity: 1},
	}

	totals := CalculateTotals(lines)

	// 210 at 8% as one bucket: 210*8/108 = 15, not 2*7 from per-line
	// truncation.
	if totals.Tax8 != 15 {
		t.Fatalf("tax8 = %d, want 15", totals.Tax8)
	}
	if totals.Tax10 != 30 {
		t.Fatalf("tax10 = %d, want 30", totals.Tax10)
	}
}

func TestCalculateTotalsOrderIndependent(t *testing.T) {
	forward := []ResolvedLine{
		{UnitPrice: 101, TaxRate: 8, Quantity: 1},
		{UnitPrice: 203, TaxRate: 10, Quantity: 3},
		{UnitPrice: 57, TaxRate: 8, Quantity: 2},
	}
	backward := []ResolvedLine{forward[2], forward[1], forward[0]}

	a, b := CalculateTotals(forward), CalculateTotals(backward)
	if a != b {
		t.Fatalf("totals differ by line order: %+v vs %+v", a, b)
	}
}

func TestCalculateTotalsZeroRate(t *testing.T) {
	totals := CalculateTotals([]ResolvedLine{{UnitPrice: 1000, TaxRate: 0, Quantity: 1}})
	if totals.TaxAmount != 0 {
		t.Fatalf("tax amount = %d, want 0 for tax-exempt lines", totals.TaxAmount)
	}
	if totals.TotalAmount != 1000 {
		t.Fatalf("total = %d, want 1000", totals.TotalAmount)
	}
}
