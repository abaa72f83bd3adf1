package enum

// ReturnType represents the kind of return requested against a transaction.
type ReturnType string

const (
	// ReturnTypeAll unwinds every line of the original transaction.
	ReturnTypeAll ReturnType = "all"
	// ReturnTypePartial removes and/or adds individual lines and produces a
	// correction transaction for the remainder.
	ReturnTypePartial ReturnType = "partial"
	// ReturnTypePaymentChange keeps the lines intact and swaps the payment
	// instruments via a correction transaction.
	ReturnTypePaymentChange ReturnType = "payment_change"
)

// IsValid reports whether the return type is one of the known values.
func (t ReturnType) IsValid() bool {
	switch t {
	case ReturnTypeAll, ReturnTypePartial, ReturnTypePaymentChange:
		return true
	}
	return false
}
