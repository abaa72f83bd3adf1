package service

import (
	"context"
	"testing"
	"time"

	"github.com/Senshu-NEst/NEst-backend/internal/domain/entity"
	"github.com/Senshu-NEst/NEst-backend/internal/domain/enum"
	"github.com/Senshu-NEst/NEst-backend/internal/domain/repository"
)

var testClock = time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

func newTestResolver() *LineResolver {
	return NewLineResolverAt(func() time.Time { return testClock })
}

func seedDepartmentPath(reg *repository.Registry, big, middle, small string, node entity.Department) *entity.Department {
	bigDept := &entity.Department{Level: enum.DepartmentLevelBig, Code: big, Name: "Big " + big, TaxRate: enum.TaxRateInherit}
	middleDept := &entity.Department{Level: enum.DepartmentLevelMiddle, Code: middle, Name: "Middle " + middle, TaxRate: enum.TaxRateInherit, Parent: bigDept}
	node.Level = enum.DepartmentLevelSmall
	node.Code = small
	node.Parent = middleDept
	if node.Name == "" {
		node.Name = "Small " + small
	}
	if node.TaxRate == 0 {
		node.TaxRate = enum.TaxRateInherit
	}
	reg.Departments.(*fakeDepartmentRepo).smalls[big+"/"+middle+"/"+small] = &node
	return &node
}

func TestResolveCatalogLine(t *testing.T) {
	reg := newFakeRegistry()
	seedProduct(reg, "4902220000012", "Green Tea", 150, 8)

	lines, err := newTestResolver().ResolveLines(context.Background(), reg, "001", false, []LineInput{
		{Code: "4902220000012", Quantity: 2},
	})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	line := lines[0]
	if line.Kind != LineKindCatalog {
		t.Fatalf("kind = %s, want catalog", line.Kind)
	}
	if line.UnitPrice != 150 || line.TaxRate != 8 {
		t.Fatalf("price/tax = %d/%d, want 150/8", line.UnitPrice, line.TaxRate)
	}
	if line.StockJan != "4902220000012" {
		t.Fatalf("stock jan = %q, want the catalog code", line.StockJan)
	}
}

func TestResolveCatalogStorePriceWins(t *testing.T) {
	reg := newFakeRegistry()
	seedProduct(reg, "4902220000012", "Green Tea", 150, 8)
	reg.StorePrices.Upsert(context.Background(), &entity.StorePrice{StoreCode: "001", Jan: "4902220000012", Price: 130})

	lines, err := newTestResolver().ResolveLines(context.Background(), reg, "001", false, []LineInput{
		{Code: "4902220000012", Quantity: 1},
	})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if lines[0].UnitPrice != 130 {
		t.Fatalf("price = %d, want the store override 130", lines[0].UnitPrice)
	}
}

func TestResolveCatalogPriceOverride(t *testing.T) {
	reg := newFakeRegistry()
	seedProduct(reg, "4902220000012", "Green Tea", 150, 8)

	lines, err := newTestResolver().ResolveLines(context.Background(), reg, "001", false, []LineInput{
		{Code: "4902220000012", Price: int64p(120), Quantity: 1},
	})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if lines[0].UnitPrice != 120 {
		t.Fatalf("price = %d, want 120", lines[0].UnitPrice)
	}
	if !lines[0].NeedsChangePrice {
		t.Fatal("a re-priced line must require the change_price permission")
	}
}

func TestResolveCatalogPriceChangeDisabled(t *testing.T) {
	reg := newFakeRegistry()
	p := seedProduct(reg, "4902220000012", "Green Tea", 150, 8)
	p.DisableChangePrice = true

	_, err := newTestResolver().ResolveLines(context.Background(), reg, "001", false, []LineInput{
		{Code: "4902220000012", Price: int64p(120), Quantity: 1},
	})
	if err == nil {
		t.Fatal("expected error: price change disabled on the product")
	}
}

func TestResolveCatalogTaxChangePolicy(t *testing.T) {
	ctx := context.Background()
	resolver := newTestResolver()

	// Reduced rate up to standard: allowed.
	reg := newFakeRegistry()
	seedProduct(reg, "4902220000012", "Eat-in Bento", 540, 8)
	lines, err := resolver.ResolveLines(ctx, reg, "001", false, []LineInput{
		{Code: "4902220000012", Tax: intp(10), Quantity: 1},
	})
	if err != nil {
		t.Fatalf("8->10 change failed: %v", err)
	}
	if lines[0].TaxRate != 10 {
		t.Fatalf("tax = %d, want 10", lines[0].TaxRate)
	}

	// Standard rate never moves.
	reg = newFakeRegistry()
	seedProduct(reg, "4900000000016", "Detergent", 300, 10)
	if _, err := resolver.ResolveLines(ctx, reg, "001", false, []LineInput{
		{Code: "4900000000016", Tax: intp(8), Quantity: 1},
	}); err == nil {
		t.Fatal("expected error: standard-rate products never change tax")
	}

	// Flagged products never move either.
	reg = newFakeRegistry()
	p := seedProduct(reg, "4902220000012", "Newspaper", 180, 8)
	p.DisableChangeTax = true
	if _, err := resolver.ResolveLines(ctx, reg, "001", false, []LineInput{
		{Code: "4902220000012", Tax: intp(10), Quantity: 1},
	}); err == nil {
		t.Fatal("expected error: tax change disabled on the product")
	}

	// Requesting the current rate is a no-op, flags notwithstanding.
	if _, err := resolver.ResolveLines(ctx, reg, "001", false, []LineInput{
		{Code: "4902220000012", Tax: intp(8), Quantity: 1},
	}); err != nil {
		t.Fatalf("same-rate request failed: %v", err)
	}
}

func TestResolveDiscountBounds(t *testing.T) {
	reg := newFakeRegistry()
	seedProduct(reg, "4902220000012", "Green Tea", 150, 8)
	resolver := newTestResolver()
	ctx := context.Background()

	// Discount equal to the unit price zeroes the line, which is fine.
	lines, err := resolver.ResolveLines(ctx, reg, "001", false, []LineInput{
		{Code: "4902220000012", Discount: 150, Quantity: 1},
	})
	if err != nil {
		t.Fatalf("full discount failed: %v", err)
	}
	if !lines[0].NeedsChangePrice {
		t.Fatal("a discounted line must require the change_price permission")
	}

	// One yen over is rejected.
	if _, err := resolver.ResolveLines(ctx, reg, "001", false, []LineInput{
		{Code: "4902220000012", Discount: 151, Quantity: 1},
	}); err == nil {
		t.Fatal("expected error: discount exceeds unit price")
	}
}

func TestResolveDepartmentLine(t *testing.T) {
	reg := newFakeRegistry()
	seedDepartmentPath(reg, "01", "001", "001", entity.Department{Name: "Deli"})

	lines, err := newTestResolver().ResolveLines(context.Background(), reg, "001", false, []LineInput{
		{Code: "9901001001", Price: int64p(480), Quantity: 1},
	})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	line := lines[0]
	if line.Kind != LineKindDepartment {
		t.Fatalf("kind = %s, want department", line.Kind)
	}
	if line.Name != "Deli" || line.UnitPrice != 480 {
		t.Fatalf("name/price = %s/%d, want Deli/480", line.Name, line.UnitPrice)
	}
	if line.TaxRate != 10 {
		t.Fatalf("tax = %d, want the default 10 on an all-inherit chain", line.TaxRate)
	}
	if line.StockJan != "" {
		t.Fatal("department lines have no stock footprint")
	}
}

func TestResolveDepartmentInheritedTax(t *testing.T) {
	reg := newFakeRegistry()
	dept := seedDepartmentPath(reg, "01", "001", "002", entity.Department{Name: "Groceries"})
	dept.Parent.Parent.TaxRate = 8

	lines, err := newTestResolver().ResolveLines(context.Background(), reg, "001", false, []LineInput{
		{Code: "9901001002", Price: int64p(200), Quantity: 1},
	})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if lines[0].TaxRate != 8 {
		t.Fatalf("tax = %d, want 8 inherited from the big department", lines[0].TaxRate)
	}
}

func TestResolveDepartmentRequiresPrice(t *testing.T) {
	reg := newFakeRegistry()
	seedDepartmentPath(reg, "01", "001", "001", entity.Department{Name: "Deli"})

	_, err := newTestResolver().ResolveLines(context.Background(), reg, "001", false, []LineInput{
		{Code: "9901001001", Quantity: 1},
	})
	if err == nil {
		t.Fatal("expected error: department entry requires a price")
	}
}

func TestResolveDepartmentSaleableDenied(t *testing.T) {
	reg := newFakeRegistry()
	seedDepartmentPath(reg, "01", "001", "001", entity.Department{Name: "Internal", Saleable: enum.FlagDeny})

	_, err := newTestResolver().ResolveLines(context.Background(), reg, "001", false, []LineInput{
		{Code: "9901001001", Price: int64p(100), Quantity: 1},
	})
	if err == nil {
		t.Fatal("expected error: department does not permit direct sale")
	}
}

func TestResolvePrepaidCardValidityBoundary(t *testing.T) {
	const cardCode = "99010010010000000001"
	ctx := context.Background()
	resolver := newTestResolver()

	newCardRegistry := func(expiry time.Time) *repository.Registry {
		reg := newFakeRegistry()
		seedDepartmentPath(reg, "01", "001", "001", entity.Department{Name: "Gift Cards"})
		reg.PrepaidCards.Create(ctx, &entity.PrepaidCard{
			CardCode:   cardCode,
			Name:       "Gift Card 3000",
			Price:      3000,
			Status:     enum.CardStatusCreated,
			ExpiryDate: expiry,
		})
		return reg
	}
	item := LineInput{Code: cardCode, Quantity: 1}

	// Exactly 30 days of validity left: too soon.
	reg := newCardRegistry(testClock.Add(30 * 24 * time.Hour))
	if _, err := resolver.ResolveLines(ctx, reg, "001", false, []LineInput{item}); err == nil {
		t.Fatal("expected error: 30 days of validity is not enough")
	}

	// 31 days: sellable.
	reg = newCardRegistry(testClock.Add(31 * 24 * time.Hour))
	lines, err := resolver.ResolveLines(ctx, reg, "001", false, []LineInput{item})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if lines[0].Kind != LineKindPrepaidCard {
		t.Fatalf("kind = %s, want prepaid_card", lines[0].Kind)
	}
	if lines[0].UnitPrice != 3000 {
		t.Fatalf("price = %d, want the face value 3000", lines[0].UnitPrice)
	}
	if lines[0].Card == nil {
		t.Fatal("resolved card line must carry the card row")
	}
}

func TestResolvePrepaidCardRules(t *testing.T) {
	const cardCode = "99010010010000000001"
	ctx := context.Background()
	resolver := newTestResolver()

	reg := newFakeRegistry()
	seedDepartmentPath(reg, "01", "001", "001", entity.Department{Name: "Gift Cards"})
	reg.PrepaidCards.Create(ctx, &entity.PrepaidCard{
		CardCode:   cardCode,
		Name:       "Gift Card 3000",
		Price:      3000,
		Status:     enum.CardStatusCreated,
		ExpiryDate: testClock.Add(365 * 24 * time.Hour),
	})

	// One card per line.
	if _, err := resolver.ResolveLines(ctx, reg, "001", false, []LineInput{
		{Code: cardCode, Quantity: 2},
	}); err == nil {
		t.Fatal("expected error: prepaid cards sell one per line")
	}

	// A fixed-value card never sells off its face value.
	if _, err := resolver.ResolveLines(ctx, reg, "001", false, []LineInput{
		{Code: cardCode, Price: int64p(2500), Quantity: 1},
	}); err == nil {
		t.Fatal("expected error: fixed-value card sold off face value")
	}

	// A sold card cannot sell again.
	card, _ := reg.PrepaidCards.GetByCode(ctx, cardCode)
	card.Status = enum.CardStatusSold
	if _, err := resolver.ResolveLines(ctx, reg, "001", false, []LineInput{
		{Code: cardCode, Quantity: 1},
	}); err == nil {
		t.Fatal("expected error: card is not sellable")
	}
}

func TestResolveVariableValueCard(t *testing.T) {
	const cardCode = "99010010010000000002"
	ctx := context.Background()
	reg := newFakeRegistry()
	seedDepartmentPath(reg, "01", "001", "001", entity.Department{Name: "Gift Cards"})
	reg.PrepaidCards.Create(ctx, &entity.PrepaidCard{
		CardCode:        cardCode,
		Name:            "Charge Card",
		IsVariableValue: true,
		Status:          enum.CardStatusCreated,
		ExpiryDate:      testClock.Add(365 * 24 * time.Hour),
	})
	resolver := newTestResolver()

	if _, err := resolver.ResolveLines(ctx, reg, "001", false, []LineInput{
		{Code: cardCode, Quantity: 1},
	}); err == nil {
		t.Fatal("expected error: variable-value card requires a price")
	}

	lines, err := resolver.ResolveLines(ctx, reg, "001", false, []LineInput{
		{Code: cardCode, Price: int64p(5000), Quantity: 1},
	})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if lines[0].UnitPrice != 5000 {
		t.Fatalf("price = %d, want 5000", lines[0].UnitPrice)
	}
}

func TestResolveClearanceTag(t *testing.T) {
	ctx := context.Background()
	reg := newFakeRegistry()
	seedProduct(reg, "4902220000012", "Day-old Bread", 300, 8)
	reg.DiscountedTags.Create(ctx, &entity.DiscountedTag{
		TagCode:         "0200000000017",
		StoreCode:       "001",
		Jan:             "4902220000012",
		DiscountedPrice: 210,
	})

	lines, err := newTestResolver().ResolveLines(ctx, reg, "001", false, []LineInput{
		{Code: "0200000000017", Quantity: 1},
	})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	line := lines[0]
	if line.Kind != LineKindClearanceTag {
		t.Fatalf("kind = %s, want clearance_tag", line.Kind)
	}
	if line.Code != "4902220000012" {
		t.Fatalf("code = %q, want the underlying product jan", line.Code)
	}
	if line.UnitPrice != 300 || line.Discount != 90 {
		t.Fatalf("price/discount = %d/%d, want 300/90", line.UnitPrice, line.Discount)
	}
	if line.TagCode != "0200000000017" {
		t.Fatalf("tag code = %q, want the tag", line.TagCode)
	}
	if line.NeedsChangePrice {
		t.Fatal("tag-derived discounts need no change_price permission")
	}
}

func TestResolveClearanceTagGuards(t *testing.T) {
	ctx := context.Background()
	reg := newFakeRegistry()
	seedProduct(reg, "4902220000012", "Day-old Bread", 300, 8)
	reg.DiscountedTags.Create(ctx, &entity.DiscountedTag{
		TagCode:         "0200000000017",
		StoreCode:       "002",
		Jan:             "4902220000012",
		DiscountedPrice: 210,
	})
	resolver := newTestResolver()

	// Wrong store.
	if _, err := resolver.ResolveLines(ctx, reg, "001", false, []LineInput{
		{Code: "0200000000017", Quantity: 1},
	}); err == nil {
		t.Fatal("expected error: tag belongs to another store")
	}

	// Used tag.
	tag, _ := reg.DiscountedTags.GetByCode(ctx, "0200000000017")
	tag.StoreCode = "001"
	tag.IsUsed = true
	if _, err := resolver.ResolveLines(ctx, reg, "001", false, []LineInput{
		{Code: "0200000000017", Quantity: 1},
	}); err == nil {
		t.Fatal("expected error: tag already used")
	}

	// No extra discount on top of a tag.
	tag.IsUsed = false
	if _, err := resolver.ResolveLines(ctx, reg, "001", false, []LineInput{
		{Code: "0200000000017", Discount: 10, Quantity: 1},
	}); err == nil {
		t.Fatal("expected error: tag lines take no extra discount")
	}
}

func TestResolveUnknownCodeShape(t *testing.T) {
	reg := newFakeRegistry()
	_, err := newTestResolver().ResolveLines(context.Background(), reg, "001", false, []LineInput{
		{Code: "12345", Quantity: 1},
	})
	if err == nil {
		t.Fatal("expected not-found for an unrecognized code shape")
	}
}

func TestResolveCarriedOverOnlyWhenRelaxed(t *testing.T) {
	reg := newFakeRegistry()
	resolver := newTestResolver()
	ctx := context.Background()
	item := LineInput{Code: "4902220000012", Name: "Green Tea", Price: int64p(150), Tax: intp(8), Quantity: 2, CarriedOver: true}

	if _, err := resolver.ResolveLines(ctx, reg, "001", false, []LineInput{item}); err == nil {
		t.Fatal("expected error: carried-over line outside a correction")
	}

	// Relaxed mode trusts the snapshot without any catalog lookup.
	lines, err := resolver.ResolveLines(ctx, reg, "001", true, []LineInput{item})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if lines[0].Kind != LineKindCarriedOver || !lines[0].CarriedOver {
		t.Fatalf("kind = %s, want carried_over", lines[0].Kind)
	}
	if lines[0].StockJan != "" {
		t.Fatal("carried-over lines must not debit stock")
	}
}

func TestResolveLinesIsPure(t *testing.T) {
	reg := newFakeRegistry()
	seedProduct(reg, "4902220000012", "Green Tea", 150, 8)
	seedDepartmentPath(reg, "01", "001", "001", entity.Department{Name: "Deli"})
	resolver := newTestResolver()
	ctx := context.Background()
	items := []LineInput{
		{Code: "4902220000012", Quantity: 2},
		{Code: "9901001001", Price: int64p(480), Quantity: 1},
	}

	first, err := resolver.ResolveLines(ctx, reg, "001", false, items)
	if err != nil {
		t.Fatalf("first resolve failed: %v", err)
	}
	second, err := resolver.ResolveLines(ctx, reg, "001", false, items)
	if err != nil {
		t.Fatalf("second resolve failed: %v", err)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("line %d differs between identical resolutions", i)
		}
	}
}

func TestResolveLinesCollectsPerLineErrors(t *testing.T) {
	reg := newFakeRegistry()
	seedProduct(reg, "4902220000012", "Green Tea", 150, 8)

	_, err := newTestResolver().ResolveLines(context.Background(), reg, "001", false, []LineInput{
		{Code: "4902220000012", Quantity: 1},
		{Code: "4900000000000", Quantity: 1},
		{Code: "4902220000012", Quantity: 0},
	})
	if err == nil {
		t.Fatal("expected a combined validation error")
	}
}
