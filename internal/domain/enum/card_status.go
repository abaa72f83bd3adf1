package enum

// CardStatus represents the lifecycle state of a prepaid (POSA) card.
type CardStatus string

const (
	CardStatusCreated            CardStatus = "created"
	CardStatusSold               CardStatus = "sold"
	CardStatusDisabledBeforeSale CardStatus = "disabled_before_sale"
	CardStatusDisabledAfterSale  CardStatus = "disabled_after_sale"
)

// Sellable reports whether a card in this state may be sold at the register.
func (s CardStatus) Sellable() bool {
	return s == CardStatusCreated
}
