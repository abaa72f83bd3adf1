package enum

// ProductStatus represents the trading state of a catalog product.
type ProductStatus string

const (
	ProductStatusInDeal ProductStatus = "in_deal"
	ProductStatusSpot   ProductStatus = "spot"
	ProductStatusDiscon ProductStatus = "discon"
)

// IsValid reports whether the status is one of the known values.
func (s ProductStatus) IsValid() bool {
	return s == ProductStatusInDeal || s == ProductStatusSpot || s == ProductStatusDiscon
}
