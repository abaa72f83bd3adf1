package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Senshu-NEst/NEst-backend/internal/domain/entity"
	"github.com/Senshu-NEst/NEst-backend/internal/domain/enum"
	"github.com/Senshu-NEst/NEst-backend/internal/domain/repository"
	"github.com/Senshu-NEst/NEst-backend/pkg/apperror"
	"github.com/Senshu-NEst/NEst-backend/pkg/jancode"
)

// LineKind identifies which resolution path settled a line.
type LineKind string

const (
	LineKindCatalog      LineKind = "catalog"
	LineKindDepartment   LineKind = "department"
	LineKindPrepaidCard  LineKind = "prepaid_card"
	LineKindClearanceTag LineKind = "clearance_tag"
	LineKindCarriedOver  LineKind = "carried_over"
)

const (
	departmentMarker = "99"
	clearanceMarker  = "02"

	departmentCodeLen  = 10
	prepaidCardCodeLen = 20
)

// Cards must have strictly more than this many days of validity left to be
// sold.
const cardValidityDays = 30

// LineInput is one raw basket line as keyed in at the terminal.
// TagCode is only meaningful on carried-over lines, where it preserves
// the clearance tag the origin line burned.
type LineInput struct {
	Code        string `json:"jan"`
	Name        string `json:"name,omitempty"`
	Price       *int64 `json:"price,omitempty"`
	Tax         *int   `json:"tax,omitempty"`
	Discount    int64  `json:"discount"`
	Quantity    int    `json:"quantity"`
	CarriedOver bool   `json:"original_product,omitempty"`
	TagCode     string `json:"tag_code,omitempty"`
}

// ResolvedLine is a priced, taxed line ready for settlement. It is
// consumed by the totals calculation and persisted as an immutable
// transaction line snapshot.
type ResolvedLine struct {
	Kind      LineKind
	Code      string
	Name      string
	UnitPrice int64
	TaxRate   int
	Discount  int64
	Quantity  int

	// CarriedOver marks a line inherited from a corrected transaction;
	// it causes no stock debit and skips the discount permission check.
	CarriedOver bool

	// StockJan names the stock row the line debits; empty when the line
	// has no stock footprint.
	StockJan string

	// TagCode is set when the line burned a clearance tag.
	TagCode string

	// Card is set when the line activates a prepaid card.
	Card *entity.PrepaidCard

	// NeedsChangePrice is set when the caller discounted or re-priced
	// the line, which requires the change_price permission.
	NeedsChangePrice bool
}

// LineResolver turns raw basket lines into ResolvedLines. The clock is
// injectable so card validity boundaries can be pinned in tests.
type LineResolver struct {
	now func() time.Time
}

// NewLineResolver creates a line resolver using the wall clock
func NewLineResolver() *LineResolver {
	return &LineResolver{now: time.Now}
}

// NewLineResolverAt creates a line resolver with a fixed clock
func NewLineResolverAt(now func() time.Time) *LineResolver {
	return &LineResolver{now: now}
}

// ResolveLines resolves every line of a basket. Per-line failures are
// collected and returned together as one validation error; a bad line
// never stops its siblings from being resolved. In relaxed mode
// carried-over lines keep their caller-supplied price, tax and discount.
func (r *LineResolver) ResolveLines(ctx context.Context, reg *repository.Registry, storeCode string, relaxed bool, items []LineInput) ([]ResolvedLine, error) {
	if len(items) == 0 {
		return nil, apperror.NewFieldError("items", "at least one item is required")
	}

	var ec apperror.Collector
	resolved := make([]ResolvedLine, 0, len(items))
	// Department lookups repeat across lines; memoize per basket.
	deptCache := map[string]*entity.Department{}

	for i, item := range items {
		field := fmt.Sprintf("items[%d]", i)

		if item.Quantity < 1 {
			ec.Add(field, "quantity must be at least 1")
			continue
		}
		if item.Discount < 0 {
			ec.Add(field, "discount must not be negative")
			continue
		}

		line, err := r.resolveLine(ctx, reg, storeCode, relaxed, item, deptCache)
		if err != nil {
			ec.Add(field, apperror.GetAppError(err).Message)
			continue
		}
		resolved = append(resolved, *line)
	}

	if err := ec.Err(); err != nil {
		return nil, err
	}
	return resolved, nil
}

// resolveLine dispatches a single line by code shape.
func (r *LineResolver) resolveLine(ctx context.Context, reg *repository.Registry, storeCode string, relaxed bool, item LineInput, deptCache map[string]*entity.Department) (*ResolvedLine, error) {
	if relaxed && item.CarriedOver {
		return r.resolveCarriedOver(item)
	}
	if item.CarriedOver {
		return nil, apperror.NewBadRequestError("carried-over lines are only valid on correction transactions")
	}

	code := item.Code
	switch {
	case len(code) == prepaidCardCodeLen && jancode.IsDigits(code) && code[:2] == departmentMarker:
		return r.resolvePrepaidCard(ctx, reg, item, deptCache)
	case len(code) == departmentCodeLen && jancode.IsDigits(code) && code[:2] == departmentMarker:
		return r.resolveDepartment(ctx, reg, item, deptCache)
	case len(code) == 13 && jancode.IsDigits(code) && code[:2] == clearanceMarker:
		return r.resolveClearanceTag(ctx, reg, storeCode, item)
	case (len(code) == 8 || len(code) == 13) && jancode.IsDigits(code):
		return r.resolveCatalog(ctx, reg, storeCode, item)
	default:
		return nil, apperror.NewNotFoundError("Product code " + code)
	}
}

// resolveCarriedOver trusts the caller-supplied snapshot verbatim: the
// values were fixed when the origin transaction committed.
func (r *LineResolver) resolveCarriedOver(item LineInput) (*ResolvedLine, error) {
	if item.Price == nil {
		return nil, apperror.NewBadRequestError("carried-over line requires a price")
	}
	if item.Tax == nil {
		return nil, apperror.NewBadRequestError("carried-over line requires a tax rate")
	}
	if item.Discount > *item.Price {
		return nil, apperror.NewBadRequestError("discount exceeds unit price")
	}
	return &ResolvedLine{
		Kind:        LineKindCarriedOver,
		Code:        item.Code,
		Name:        item.Name,
		UnitPrice:   *item.Price,
		TaxRate:     *item.Tax,
		Discount:    item.Discount,
		Quantity:    item.Quantity,
		CarriedOver: true,
		TagCode:     item.TagCode,
	}, nil
}

// resolveCatalog settles a regular JAN line against the catalog. The
// store override price wins over the catalog price.
func (r *LineResolver) resolveCatalog(ctx context.Context, reg *repository.Registry, storeCode string, item LineInput) (*ResolvedLine, error) {
	product, err := reg.Products.GetByJan(ctx, item.Code)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product " + item.Code)
	}

	price := product.Price
	if override, err := reg.StorePrices.Get(ctx, storeCode, item.Code); err != nil {
		return nil, err
	} else if override != nil {
		price = override.Price
	}

	line := &ResolvedLine{
		Kind:     LineKindCatalog,
		Code:     item.Code,
		Name:     product.Name,
		TaxRate:  product.Tax,
		Quantity: item.Quantity,
		StockJan: item.Code,
	}

	if item.Price != nil && *item.Price != price {
		if product.DisableChangePrice {
			return nil, apperror.NewBadRequestError("price change is not permitted for this product")
		}
		if *item.Price < 0 {
			return nil, apperror.NewBadRequestError("price must not be negative")
		}
		price = *item.Price
		line.NeedsChangePrice = true
	}
	line.UnitPrice = price

	taxRate, err := resolveTaxOverride(product, item.Tax)
	if err != nil {
		return nil, err
	}
	line.TaxRate = taxRate

	if item.Discount > line.UnitPrice {
		return nil, apperror.NewBadRequestError("discount exceeds unit price")
	}
	line.Discount = item.Discount
	if item.Discount > 0 {
		line.NeedsChangePrice = true
	}

	return line, nil
}

// resolveTaxOverride applies the catalog tax-change policy: the standard
// rate never changes, flagged products never change, and the only allowed
// move is from the reduced rate up to the standard rate.
func resolveTaxOverride(product *entity.Product, requested *int) (int, error) {
	if requested == nil || *requested == product.Tax {
		return product.Tax, nil
	}
	if product.Tax == 10 {
		return 0, apperror.NewBadRequestError("tax change is not permitted for standard-rate products")
	}
	if product.DisableChangeTax {
		return 0, apperror.NewBadRequestError("tax change is not permitted for this product")
	}
	if product.Tax == 8 && *requested == 10 {
		return 10, nil
	}
	return 0, apperror.NewBadRequestError(fmt.Sprintf("tax rate %d is not permitted for this product", *requested))
}

// departmentWithAncestors resolves a small department by its 10-digit
// entry code, memoized per basket.
func (r *LineResolver) departmentWithAncestors(ctx context.Context, reg *repository.Registry, code string, deptCache map[string]*entity.Department) (*entity.Department, error) {
	if dept, ok := deptCache[code]; ok {
		return dept, nil
	}
	big, middle, small := code[2:4], code[4:7], code[7:10]
	dept, err := reg.Departments.GetSmallByPath(ctx, big, middle, small)
	if err != nil {
		return nil, err
	}
	if dept == nil {
		return nil, apperror.NewNotFoundError("Department " + code)
	}
	deptCache[code] = dept
	return dept, nil
}

// resolveDepartment settles an open department sale: no catalog product,
// price keyed in at the terminal, tax and flags inherited down the tree.
func (r *LineResolver) resolveDepartment(ctx context.Context, reg *repository.Registry, item LineInput, deptCache map[string]*entity.Department) (*ResolvedLine, error) {
	dept, err := r.departmentWithAncestors(ctx, reg, item.Code, deptCache)
	if err != nil {
		return nil, err
	}
	if !entity.EffectiveFlag(dept, func(d *entity.Department) enum.InheritableFlag { return d.Saleable }) {
		return nil, apperror.NewBadRequestError("department does not permit direct sale")
	}
	if item.Price == nil || *item.Price < 0 {
		return nil, apperror.NewBadRequestError("department entry requires a price")
	}

	line := &ResolvedLine{
		Kind:      LineKindDepartment,
		Code:      item.Code,
		Name:      dept.Name,
		UnitPrice: *item.Price,
		Quantity:  item.Quantity,
	}

	taxRate, err := resolveDepartmentTax(dept, item.Tax)
	if err != nil {
		return nil, err
	}
	line.TaxRate = taxRate

	if item.Discount > 0 {
		if !entity.EffectiveFlag(dept, func(d *entity.Department) enum.InheritableFlag { return d.AllowDiscount }) {
			return nil, apperror.NewBadRequestError("department does not permit discounts")
		}
		if item.Discount > line.UnitPrice {
			return nil, apperror.NewBadRequestError("discount exceeds unit price")
		}
		line.Discount = item.Discount
		line.NeedsChangePrice = true
	}

	return line, nil
}

// resolveDepartmentTax resolves the department's inherited rate and
// applies a caller override only where the tree allows it.
func resolveDepartmentTax(dept *entity.Department, requested *int) (int, error) {
	rate := dept.EffectiveTaxRate(10)
	if requested == nil || *requested == rate {
		return rate, nil
	}
	if !entity.EffectiveFlag(dept, func(d *entity.Department) enum.InheritableFlag { return d.AllowTaxChange }) {
		return 0, apperror.NewBadRequestError("department does not permit tax changes")
	}
	if *requested != 0 && *requested != 8 && *requested != 10 {
		return 0, apperror.NewBadRequestError(fmt.Sprintf("invalid tax rate %d", *requested))
	}
	return *requested, nil
}

// resolvePrepaidCard settles a card activation line. One card per line,
// status must be sellable and validity must exceed the 30-day floor.
func (r *LineResolver) resolvePrepaidCard(ctx context.Context, reg *repository.Registry, item LineInput, deptCache map[string]*entity.Department) (*ResolvedLine, error) {
	if item.Quantity != 1 {
		return nil, apperror.NewBadRequestError("prepaid cards sell one per line")
	}

	card, err := reg.PrepaidCards.GetByCode(ctx, item.Code)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, apperror.NewNotFoundError("Prepaid card " + item.Code)
	}
	if !card.Status.Sellable() {
		return nil, apperror.NewConflictError("prepaid card is not sellable")
	}
	if !card.ExpiryDate.After(r.now().Add(cardValidityDays * 24 * time.Hour)) {
		return nil, apperror.NewBadRequestError("prepaid card expires too soon to be sold")
	}

	var price int64
	if card.IsVariableValue {
		if item.Price == nil || *item.Price <= 0 {
			return nil, apperror.NewBadRequestError("variable-value card requires a positive price")
		}
		price = *item.Price
	} else {
		if item.Price != nil && *item.Price != card.Price {
			return nil, apperror.NewBadRequestError("fixed-value card must sell at its face value")
		}
		price = card.Price
	}

	dept, err := r.departmentWithAncestors(ctx, reg, item.Code[:departmentCodeLen], deptCache)
	if err != nil {
		return nil, err
	}

	line := &ResolvedLine{
		Kind:      LineKindPrepaidCard,
		Code:      item.Code,
		Name:      card.Name,
		UnitPrice: price,
		Quantity:  1,
		Card:      card,
	}

	taxRate, err := resolveDepartmentTax(dept, item.Tax)
	if err != nil {
		return nil, err
	}
	line.TaxRate = taxRate

	if item.Discount > 0 {
		if !entity.EffectiveFlag(dept, func(d *entity.Department) enum.InheritableFlag { return d.AllowDiscount }) {
			return nil, apperror.NewBadRequestError("department does not permit discounts")
		}
		if item.Discount > line.UnitPrice {
			return nil, apperror.NewBadRequestError("discount exceeds unit price")
		}
		line.Discount = item.Discount
		line.NeedsChangePrice = true
	}

	return line, nil
}

// resolveClearanceTag settles a one-shot clearance sticker. Price and
// discount derive from the tag, never from the caller.
func (r *LineResolver) resolveClearanceTag(ctx context.Context, reg *repository.Registry, storeCode string, item LineInput) (*ResolvedLine, error) {
	tag, err := reg.DiscountedTags.GetByCode(ctx, item.Code)
	if err != nil {
		return nil, err
	}
	if tag == nil {
		return nil, apperror.NewNotFoundError("Clearance tag " + item.Code)
	}
	if tag.StoreCode != storeCode {
		return nil, apperror.NewBadRequestError("clearance tag belongs to another store")
	}
	if tag.IsUsed {
		return nil, apperror.NewConflictError("clearance tag is already used")
	}
	if item.Quantity != 1 {
		return nil, apperror.NewBadRequestError("clearance tags sell one per line")
	}
	if item.Discount != 0 {
		return nil, apperror.NewBadRequestError("clearance tag lines take no extra discount")
	}

	product, err := reg.Products.GetByJan(ctx, tag.Jan)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product " + tag.Jan)
	}

	price := product.Price
	if override, err := reg.StorePrices.Get(ctx, storeCode, tag.Jan); err != nil {
		return nil, err
	} else if override != nil {
		price = override.Price
	}
	if tag.DiscountedPrice > price {
		return nil, apperror.NewConflictError("clearance tag price exceeds the current selling price")
	}

	return &ResolvedLine{
		Kind:      LineKindClearanceTag,
		Code:      tag.Jan,
		Name:      product.Name,
		UnitPrice: price,
		TaxRate:   product.Tax,
		Discount:  price - tag.DiscountedPrice,
		Quantity:  1,
		StockJan:  tag.Jan,
		TagCode:   tag.TagCode,
	}, nil
}
